package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgFailedToLoadCart   = "Failed to fetch cart"
	msgCartItemNotFound   = "Cart item not found."
	msgNotYourCartItem    = "You do not have permission to access this cart item."
	msgNotYourCart        = "You do not have permission to access this cart."
	msgProductDoesntExist = "Product does not exist."
)

var errCartQuantityLimit = fmt.Errorf("cart line quantity cannot exceed %d", models.MaxCartQuantity)

// GetOrCreateCart returns the user's cart, creating an empty one on first use.
// It never creates a second cart for the same user.
func GetOrCreateCart(db *gorm.DB, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return cart, err
	}
	return insertCart(db, userID)
}

// insertCart creates the cart unless a concurrent request already did. The
// conflict is swallowed by the database, so an enclosing transaction stays usable.
func insertCart(db *gorm.DB, userID uint) (models.Cart, error) {
	cart := models.Cart{UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error; err != nil {
		return models.Cart{}, err
	}

	var stored models.Cart
	err := db.Where("user_id = ?", userID).First(&stored).Error
	return stored, err
}

func loadCart(db *gorm.DB, cartID uint) (models.Cart, error) {
	var cart models.Cart
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Product").
		First(&cart, cartID).Error
	return cart, err
}

func respondWithOwnCart(ctx *gin.Context, status int) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	cart, err := GetOrCreateCart(initializers.DB, userID)
	if err != nil {
		log.Println("Cart creation error:", err)
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToLoadCart, err)
		return
	}

	cart, err = loadCart(initializers.DB, cart.ID)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToLoadCart, err)
		return
	}
	sendJSONResponse(ctx, status, cart.ToResponse())
}

// GetCart returns the caller's cart, creating it on first access.
func GetCart(ctx *gin.Context) {
	respondWithOwnCart(ctx, http.StatusOK)
}

// CreateCart is the idempotent POST form of GetCart.
func CreateCart(ctx *gin.Context) {
	respondWithOwnCart(ctx, http.StatusOK)
}

func GetCartByID(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	cartID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	cart, err := loadCart(initializers.DB, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Cart not found.")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, msgFailedToLoadCart, err)
		}
		return
	}
	if cart.UserID != userID {
		sendErrorResponse(ctx, http.StatusForbidden, msgNotYourCart)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cart.ToResponse())
}

// findOwnCartItem loads a cart item and re-verifies it belongs to the caller's cart.
func findOwnCartItem(ctx *gin.Context) (models.CartItem, bool) {
	var item models.CartItem
	userID, ok := currentUserID(ctx)
	if !ok {
		return item, false
	}
	itemID, ok := parseIDParam(ctx, "id")
	if !ok {
		return item, false
	}

	if err := initializers.DB.Preload("Product").First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgCartItemNotFound)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch cart item", err)
		}
		return item, false
	}

	var cart models.Cart
	if err := initializers.DB.First(&cart, item.CartID).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToLoadCart, err)
		return item, false
	}
	if cart.UserID != userID {
		sendErrorResponse(ctx, http.StatusForbidden, msgNotYourCartItem)
		return item, false
	}
	return item, true
}

func GetCartItems(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var items []models.CartItem
	if err := initializers.DB.
		Joins("JOIN carts ON carts.id = cart_items.cart_id AND carts.deleted_at IS NULL").
		Where("carts.user_id = ?", userID).
		Preload("Product").
		Order("cart_items.id").
		Find(&items).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch cart items", err)
		return
	}

	res := make([]models.CartItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, item.ToResponse())
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"items": res})
}

func GetCartItem(ctx *gin.Context) {
	item, ok := findOwnCartItem(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, item.ToResponse())
}

// CreateCartItem adds a product to the caller's cart. Adding a product that is
// already in the cart increases that line's quantity.
func CreateCartItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var input models.CartItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	var item models.CartItem
	created := false
	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, input.ProductID).Error; err != nil {
			return err
		}

		cart, err := GetOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error
		switch {
		case err == nil:
			if item.Quantity+input.Quantity > models.MaxCartQuantity {
				return errCartQuantityLimit
			}
			item.Quantity += input.Quantity
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: input.Quantity}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			created = true
		default:
			return err
		}

		item.Product = product
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
				"message": msgInvalidInput,
				"errors":  gin.H{"productId": msgProductDoesntExist},
			})
			return
		case errors.Is(err, errCartQuantityLimit):
			sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
				"message": msgInvalidInput,
				"errors":  gin.H{"quantity": fmt.Sprintf("Ensure this value is less than or equal to %d.", models.MaxCartQuantity)},
			})
			return
		}
		log.Println("Cart item create error:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to add item to cart", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	sendJSONResponse(ctx, status, item.ToResponse())
}

func UpdateCartItem(ctx *gin.Context) {
	item, ok := findOwnCartItem(ctx)
	if !ok {
		return
	}

	var input models.CartItemUpdate
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	if err := initializers.DB.Model(&item).Update("quantity", input.Quantity).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to update cart item quantity.", err)
		return
	}
	item.Quantity = input.Quantity
	sendJSONResponse(ctx, http.StatusOK, item.ToResponse())
}

func DeleteCartItem(ctx *gin.Context) {
	item, ok := findOwnCartItem(ctx)
	if !ok {
		return
	}

	if err := initializers.DB.Delete(&item).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete cart item", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item deleted"})
}
