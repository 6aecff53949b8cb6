package models

import "gorm.io/gorm"

type Brand struct {
	gorm.Model
	Name string `json:"name"`
}

type BrandInput struct {
	Name string `json:"name" binding:"required,max=255"`
}

type BrandResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (b Brand) ToResponse() BrandResponse {
	return BrandResponse{ID: b.ID, Name: b.Name}
}
