package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null"`
	Available   bool            `json:"available"`
	CategoryID  uint            `json:"category" gorm:"index;not null"`
	Category    Category        `json:"-"`
	BrandID     *uint           `json:"brand" gorm:"index"`
	Brand       *Brand          `json:"-"`
	Image       string          `json:"image"`
}

// ProductInput is the full representation accepted on create and PUT.
type ProductInput struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"gte=0"`
	Stock       int             `json:"stock" binding:"gte=0"`
	Available   *bool           `json:"available"`
	CategoryID  uint            `json:"category" binding:"required"`
	BrandID     *uint           `json:"brand"`
	Image       string          `json:"image"`
}

// ProductPatch carries only the fields a PATCH request sets.
type ProductPatch struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty,gte=0"`
	Stock       *int             `json:"stock" binding:"omitempty,gte=0"`
	Available   *bool            `json:"available"`
	CategoryID  *uint            `json:"category" binding:"omitempty,min=1"`
	BrandID     *uint            `json:"brand"`
	Image       *string          `json:"image"`
}

type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Available   bool      `json:"available"`
	CategoryID  uint      `json:"category"`
	BrandID     *uint     `json:"brand"`
	BrandName   string    `json:"brandName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Image       string    `json:"image"`
}

// ProductSummary is the slice of a product shown next to cart lines.
type ProductSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
}

// ToResponse expects Brand to be preloaded when BrandID is set.
func (p Product) ToResponse() ProductResponse {
	res := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Available:   p.Available,
		CategoryID:  p.CategoryID,
		BrandID:     p.BrandID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Image:       p.Image,
	}
	if p.Brand != nil {
		res.BrandName = p.Brand.Name
	}
	return res
}

func (p Product) Summary() ProductSummary {
	return ProductSummary{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price.StringFixed(2),
		Image: p.Image,
	}
}
