package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ParentID      *uint      `json:"parent" gorm:"index"`
	Subcategories []Category `json:"-" gorm:"foreignKey:ParentID"`
}

// IsRoot reports whether the category sits at the top of the taxonomy.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

type CategoryInput struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent"`
}

type CategoryResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ParentID      *uint  `json:"parent"`
	Subcategories []uint `json:"subcategories"`
}

// ToResponse expects Subcategories to be preloaded.
func (c Category) ToResponse() CategoryResponse {
	ids := make([]uint, 0, len(c.Subcategories))
	for _, sub := range c.Subcategories {
		ids = append(ids, sub.ID)
	}
	return CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		ParentID:      c.ParentID,
		Subcategories: ids,
	}
}
