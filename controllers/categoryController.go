package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrCategoryCycle          = errors.New("a category cannot be its own parent or ancestor")
	ErrParentCategoryNotFound = errors.New("parent category does not exist")
)

const msgCategoryNotFound = "Category not found."

// ResolveCategoryIDs returns the categories whose products belong in a listing
// filtered by categoryID: the category itself plus, for a root category, its
// direct subcategories. An unknown id yields an empty set rather than an error.
func ResolveCategoryIDs(db *gorm.DB, categoryID uint) ([]uint, error) {
	var category models.Category
	if err := db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []uint{}, nil
		}
		return nil, err
	}

	if !category.IsRoot() {
		return []uint{category.ID}, nil
	}

	var childIDs []uint
	if err := db.Model(&models.Category{}).
		Where("parent_id = ?", category.ID).
		Pluck("id", &childIDs).Error; err != nil {
		return nil, err
	}
	return append([]uint{category.ID}, childIDs...), nil
}

// validateParent checks that parentID names an existing category and that
// attaching categoryID under it would not close a loop. categoryID is 0 for
// a category that does not exist yet.
func validateParent(db *gorm.DB, categoryID uint, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	if categoryID != 0 && *parentID == categoryID {
		return ErrCategoryCycle
	}

	var parent models.Category
	if err := db.First(&parent, *parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParentCategoryNotFound
		}
		return err
	}
	if categoryID == 0 {
		return nil
	}

	seen := map[uint]bool{parent.ID: true}
	for parent.ParentID != nil {
		if *parent.ParentID == categoryID {
			return ErrCategoryCycle
		}
		if seen[*parent.ParentID] {
			break
		}
		seen[*parent.ParentID] = true

		next := *parent.ParentID
		parent = models.Category{}
		if err := db.First(&parent, next).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return err
		}
	}
	return nil
}

func respondWithParentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCategoryCycle), errors.Is(err, ErrParentCategoryNotFound):
		sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
			"message": msgInvalidInput,
			"errors":  gin.H{"parent": err.Error()},
		})
	default:
		respondWithError(ctx, http.StatusInternalServerError, "Failed to validate parent category", err)
	}
}

func findCategory(ctx *gin.Context) (models.Category, bool) {
	var category models.Category
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return category, false
	}

	if err := initializers.DB.Preload("Subcategories").First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgCategoryNotFound)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve category", err)
		}
		return category, false
	}
	return category, true
}

func GetCategories(ctx *gin.Context) {
	var categories []models.Category
	if err := initializers.DB.Preload("Subcategories").Order("id").Find(&categories).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch categories", err)
		return
	}

	res := make([]models.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		res = append(res, category.ToResponse())
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"categories": res})
}

func GetCategory(ctx *gin.Context) {
	category, ok := findCategory(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, category.ToResponse())
}

// GetSubcategories lists the direct children of a category.
func GetSubcategories(ctx *gin.Context) {
	category, ok := findCategory(ctx)
	if !ok {
		return
	}

	var subcategories []models.Category
	if err := initializers.DB.Preload("Subcategories").
		Where("parent_id = ?", category.ID).
		Order("id").
		Find(&subcategories).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch subcategories", err)
		return
	}

	res := make([]models.CategoryResponse, 0, len(subcategories))
	for _, sub := range subcategories {
		res = append(res, sub.ToResponse())
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"subcategories": res})
}

func CreateCategory(ctx *gin.Context) {
	var input models.CategoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	if err := validateParent(initializers.DB, 0, input.ParentID); err != nil {
		respondWithParentError(ctx, err)
		return
	}

	category := models.Category{
		Name:        input.Name,
		Description: input.Description,
		ParentID:    input.ParentID,
	}
	if err := initializers.DB.Create(&category).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create category", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, category.ToResponse())
}

func UpdateCategory(ctx *gin.Context) {
	category, ok := findCategory(ctx)
	if !ok {
		return
	}

	var input models.CategoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	if err := validateParent(initializers.DB, category.ID, input.ParentID); err != nil {
		respondWithParentError(ctx, err)
		return
	}

	// a map so a cleared parent is written back as NULL
	if err := initializers.DB.Model(&category).Updates(map[string]any{
		"name":        input.Name,
		"description": input.Description,
		"parent_id":   input.ParentID,
	}).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update category", err)
		return
	}
	category.Name = input.Name
	category.Description = input.Description
	category.ParentID = input.ParentID

	sendJSONResponse(ctx, http.StatusOK, category.ToResponse())
}

// DeleteCategory refuses to remove a category that still has subcategories or products.
func DeleteCategory(ctx *gin.Context) {
	category, ok := findCategory(ctx)
	if !ok {
		return
	}

	if len(category.Subcategories) > 0 {
		sendErrorResponse(ctx, http.StatusConflict, "Category has subcategories and cannot be deleted.")
		return
	}

	var productCount int64
	if err := initializers.DB.Model(&models.Product{}).
		Where("category_id = ?", category.ID).
		Count(&productCount).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to check category products", err)
		return
	}
	if productCount > 0 {
		sendErrorResponse(ctx, http.StatusConflict, "Category has products and cannot be deleted.")
		return
	}

	if err := initializers.DB.Delete(&category).Error; err != nil {
		log.Println("Category delete error:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete category", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Category deleted successfully."})
}
