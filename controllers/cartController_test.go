package controllers

import (
	"testing"

	"github.com/Kariqs/fishing-store-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetOrCreateCartIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "angler")

	first, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)
	second, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, user.ID, second.UserID)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLoadCartComputesTotal(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "angler")
	category := createCategory(t, db, "Line", nil)
	braid := createProduct(t, db, "Braided Line", "12.50", category.ID)
	mono := createProduct(t, db, "Mono Line", "4.25", category.ID)

	addToCart(t, db, user.ID, braid, 2)
	addToCart(t, db, user.ID, mono, 1)

	cart, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)
	cart, err = loadCart(db, cart.ID)
	require.NoError(t, err)

	res := cart.ToResponse()
	require.Len(t, res.Items, 2)
	assert.Equal(t, "25.00", res.Items[0].Subtotal)
	assert.Equal(t, "Braided Line", res.Items[0].Product.Name)
	assert.Equal(t, "29.25", res.Total)
}

func TestInsertCartToleratesExistingCart(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "angler")

	err := db.Transaction(func(tx *gorm.DB) error {
		first, err := insertCart(tx, user.ID)
		require.NoError(t, err)

		// a second insert for the same user hits the unique index
		second, err := insertCart(tx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		// the transaction is still usable afterwards
		got, err := GetOrCreateCart(tx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		return nil
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
