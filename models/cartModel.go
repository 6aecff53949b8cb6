package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Cart struct {
	gorm.Model
	UserID uint       `json:"userId" gorm:"uniqueIndex;not null"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartItem rows are hard-deleted: a drained cart keeps no history.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CartID    uint      `json:"cartId" gorm:"index;not null"`
	ProductID uint      `json:"productId" gorm:"index;not null"`
	Product   Product   `json:"-"`
	Quantity  uint      `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Subtotal expects Product to be preloaded.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// MaxCartQuantity caps a single cart line, including quantities merged by repeated adds.
const MaxCartQuantity = 10000

type CartItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  uint `json:"quantity" binding:"required,min=1,max=10000"`
}

type CartItemUpdate struct {
	Quantity uint `json:"quantity" binding:"required,min=1,max=10000"`
}

type CartItemResponse struct {
	ID       uint           `json:"id"`
	Product  ProductSummary `json:"product"`
	Quantity uint           `json:"quantity"`
	Subtotal string         `json:"subtotal"`
}

type CartResponse struct {
	ID        uint               `json:"id"`
	UserID    uint               `json:"userId"`
	CreatedAt time.Time          `json:"createdAt"`
	Items     []CartItemResponse `json:"items"`
	Total     string             `json:"total"`
}

func (i CartItem) ToResponse() CartItemResponse {
	return CartItemResponse{
		ID:       i.ID,
		Product:  i.Product.Summary(),
		Quantity: i.Quantity,
		Subtotal: i.Subtotal().StringFixed(2),
	}
}

// ToResponse expects Items and Items.Product to be preloaded.
func (c Cart) ToResponse() CartResponse {
	total := decimal.Zero
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
		items = append(items, item.ToResponse())
	}
	return CartResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		Items:     items,
		Total:     total.StringFixed(2),
	}
}
