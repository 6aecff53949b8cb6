package controllers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB points initializers.DB at a fresh in-memory sqlite database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("DB_LOG_LEVEL", "silent")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := initializers.OpenDB("sqlite", dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	initializers.DB = db
	require.NoError(t, initializers.SyncDatabase())
	return db
}

func createCategory(t *testing.T, db *gorm.DB, name string, parentID *uint) models.Category {
	t.Helper()
	category := models.Category{Name: name, ParentID: parentID}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func createProduct(t *testing.T, db *gorm.DB, name, price string, categoryID uint) models.Product {
	t.Helper()
	product := models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      10,
		Available:  true,
		CategoryID: categoryID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func addToCart(t *testing.T, db *gorm.DB, userID uint, product models.Product, quantity uint) {
	t.Helper()
	cart, err := GetOrCreateCart(db, userID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: quantity}).Error)
}
