package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const msgProductNotFound = "Product not found."

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

// parseIDParam reads a positive integer path parameter, answering 400 when it is malformed.
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondWithError(ctx, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return uint(id), true
}

type productFilter struct {
	priceMin    *decimal.Decimal
	priceMax    *decimal.Decimal
	brandIDs    []uint
	categoryIDs []uint
	byCategory  bool
	search      string
	descending  bool
	page        int
	limit       int
}

func parseDecimalQuery(ctx *gin.Context, key string) (*decimal.Decimal, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &value, nil
}

func parsePositiveQuery(ctx *gin.Context, key string, fallback int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func parseProductFilter(ctx *gin.Context) (productFilter, error) {
	var f productFilter
	var err error

	if f.priceMin, err = parseDecimalQuery(ctx, "price_min"); err != nil {
		return f, err
	}
	if f.priceMax, err = parseDecimalQuery(ctx, "price_max"); err != nil {
		return f, err
	}

	if raw := ctx.Query("brands"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return f, errors.New("brands must be a comma separated list of ids")
			}
			f.brandIDs = append(f.brandIDs, uint(id))
		}
	}

	if raw := ctx.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, errors.New("category must be an id")
		}
		f.categoryIDs, err = ResolveCategoryIDs(initializers.DB, uint(id))
		if err != nil {
			return f, err
		}
		f.byCategory = true
	}

	f.search = strings.TrimSpace(ctx.Query("search"))

	switch ctx.DefaultQuery("ordering", "price") {
	case "-price":
		f.descending = true
	}

	if f.page, err = parsePositiveQuery(ctx, "page", 1); err != nil {
		return f, err
	}
	if f.limit, err = parsePositiveQuery(ctx, "limit", 0); err != nil {
		return f, err
	}
	return f, nil
}

// likeEscaper makes user input match literally inside a LIKE pattern. The
// escape character is '!' because a backslash literal is read differently by
// MySQL and Postgres.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (f productFilter) apply(db *gorm.DB) *gorm.DB {
	query := db.Model(&models.Product{})
	if f.priceMin != nil {
		query = query.Where("price >= ?", *f.priceMin)
	}
	if f.priceMax != nil {
		query = query.Where("price <= ?", *f.priceMax)
	}
	if len(f.brandIDs) > 0 {
		query = query.Where("brand_id IN ?", f.brandIDs)
	}
	if f.byCategory {
		query = query.Where("category_id IN ?", f.categoryIDs)
	}
	if f.search != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(f.search))+"%")
	}
	return query
}

func GetProducts(ctx *gin.Context) {
	filter, err := parseProductFilter(ctx)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	products := []models.Product{}
	var count int64
	if !filter.byCategory || len(filter.categoryIDs) > 0 {
		if err := filter.apply(initializers.DB).Count(&count).Error; err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to count products", err)
			return
		}

		direction := "ASC"
		if filter.descending {
			direction = "DESC"
		}
		query := filter.apply(initializers.DB).Preload("Brand").Order("price " + direction).Order("id")
		if filter.limit > 0 {
			query = query.Limit(filter.limit).Offset((filter.page - 1) * filter.limit)
		}
		if err := query.Find(&products).Error; err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", err)
			return
		}
	}

	res := make([]models.ProductResponse, 0, len(products))
	for _, product := range products {
		res = append(res, product.ToResponse())
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"products": res,
		"metadata": gin.H{
			"total": count,
			"page":  filter.page,
			"limit": filter.limit,
		},
	})
}

func findProduct(ctx *gin.Context) (models.Product, bool) {
	var product models.Product
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return product, false
	}

	if err := initializers.DB.Preload("Brand").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
		}
		return product, false
	}
	return product, true
}

func GetProduct(ctx *gin.Context) {
	product, ok := findProduct(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, product.ToResponse())
}

// checkProductRefs answers 400 and returns false when a referenced category or brand is missing.
func checkProductRefs(ctx *gin.Context, categoryID *uint, brandID *uint) bool {
	fieldErrors := gin.H{}

	if categoryID != nil {
		var category models.Category
		if err := initializers.DB.First(&category, *categoryID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				respondWithError(ctx, http.StatusInternalServerError, "Failed to validate category", err)
				return false
			}
			fieldErrors["category"] = "Category does not exist."
		}
	}

	if brandID != nil {
		var brand models.Brand
		if err := initializers.DB.First(&brand, *brandID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				respondWithError(ctx, http.StatusInternalServerError, "Failed to validate brand", err)
				return false
			}
			fieldErrors["brand"] = "Brand does not exist."
		}
	}

	if len(fieldErrors) > 0 {
		sendJSONResponse(ctx, http.StatusBadRequest, gin.H{"message": msgInvalidInput, "errors": fieldErrors})
		return false
	}
	return true
}

func reloadProduct(ctx *gin.Context, id uint, status int) {
	var product models.Product
	if err := initializers.DB.Preload("Brand").First(&product, id).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
		return
	}
	sendJSONResponse(ctx, status, product.ToResponse())
}

func CreateProduct(ctx *gin.Context) {
	var input models.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	if !checkProductRefs(ctx, &input.CategoryID, input.BrandID) {
		return
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	product := models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Available:   available,
		CategoryID:  input.CategoryID,
		BrandID:     input.BrandID,
		Image:       input.Image,
	}
	if err := initializers.DB.Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	reloadProduct(ctx, product.ID, http.StatusCreated)
}

// UpdateProduct replaces every writable field of a product.
func UpdateProduct(ctx *gin.Context) {
	product, ok := findProduct(ctx)
	if !ok {
		return
	}

	var input models.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	if !checkProductRefs(ctx, &input.CategoryID, input.BrandID) {
		return
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	if err := initializers.DB.Model(&product).Updates(map[string]any{
		"name":        input.Name,
		"description": input.Description,
		"price":       input.Price,
		"stock":       input.Stock,
		"available":   available,
		"category_id": input.CategoryID,
		"brand_id":    input.BrandID,
		"image":       input.Image,
	}).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", err)
		return
	}

	reloadProduct(ctx, product.ID, http.StatusOK)
}

// PatchProduct updates only the fields present in the request body.
func PatchProduct(ctx *gin.Context) {
	product, ok := findProduct(ctx)
	if !ok {
		return
	}

	var patch models.ProductPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	if !checkProductRefs(ctx, patch.CategoryID, patch.BrandID) {
		return
	}

	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Stock != nil {
		updates["stock"] = *patch.Stock
	}
	if patch.Available != nil {
		updates["available"] = *patch.Available
	}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.BrandID != nil {
		updates["brand_id"] = *patch.BrandID
	}
	if patch.Image != nil {
		updates["image"] = *patch.Image
	}

	if len(updates) > 0 {
		if err := initializers.DB.Model(&product).Updates(updates).Error; err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", err)
			return
		}
	}

	reloadProduct(ctx, product.ID, http.StatusOK)
}

// DeleteProduct soft-deletes the product and drops it from every cart.
// Order items keep pointing at the soft-deleted row.
func DeleteProduct(ctx *gin.Context) {
	product, ok := findProduct(ctx)
	if !ok {
		return
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete product", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted successfully."})
}

// UploadProductImage stores the multipart "image" file and points the product at it.
func UploadProductImage(ctx *gin.Context) {
	product, ok := findProduct(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No image uploaded", err)
		return
	}

	if initializers.Images == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	f, err := file.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Unable to read image", err)
		return
	}
	defer f.Close()

	key := fmt.Sprintf("products/%d/%s%s", product.ID, uuid.NewString(), strings.ToLower(filepath.Ext(file.Filename)))
	url, err := initializers.Images.Upload(ctx.Request.Context(), key, file.Header.Get("Content-Type"), f)
	if err != nil {
		respondWithError(ctx, http.StatusBadGateway, "Failed to upload image", err)
		return
	}

	if err := initializers.DB.Model(&product).Update("image", url).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to save image", err)
		return
	}

	reloadProduct(ctx, product.ID, http.StatusOK)
}
