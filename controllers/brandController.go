package controllers

import (
	"errors"
	"net/http"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func findBrand(ctx *gin.Context) (models.Brand, bool) {
	var brand models.Brand
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return brand, false
	}

	if err := initializers.DB.First(&brand, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Brand not found.")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve brand", err)
		}
		return brand, false
	}
	return brand, true
}

func GetBrands(ctx *gin.Context) {
	var brands []models.Brand
	if err := initializers.DB.Order("name").Find(&brands).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch brands", err)
		return
	}

	res := make([]models.BrandResponse, 0, len(brands))
	for _, brand := range brands {
		res = append(res, brand.ToResponse())
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"brands": res})
}

func GetBrand(ctx *gin.Context) {
	brand, ok := findBrand(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, brand.ToResponse())
}

func CreateBrand(ctx *gin.Context) {
	var input models.BrandInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	brand := models.Brand{Name: input.Name}
	if err := initializers.DB.Create(&brand).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create brand", err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, brand.ToResponse())
}

func UpdateBrand(ctx *gin.Context) {
	brand, ok := findBrand(ctx)
	if !ok {
		return
	}

	var input models.BrandInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	if err := initializers.DB.Model(&brand).Update("name", input.Name).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update brand", err)
		return
	}
	brand.Name = input.Name
	sendJSONResponse(ctx, http.StatusOK, brand.ToResponse())
}

// DeleteBrand detaches the brand from its products before removing it.
func DeleteBrand(ctx *gin.Context) {
	brand, ok := findBrand(ctx)
	if !ok {
		return
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("brand_id = ?", brand.ID).
			Update("brand_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&brand).Error
	})
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete brand", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Brand deleted successfully."})
}
