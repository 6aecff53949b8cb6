package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/models"
	"github.com/Kariqs/fishing-store-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product in cart no longer exists")
)

const (
	msgOrderNotFound = "Order not found."
	webhookTimeout   = 10 * time.Second
)

// PlaceOrder converts the user's cart into a pending order and empties the cart.
// Everything happens in one transaction: either the order with all of its
// items exists and the cart is empty, or nothing changed.
func PlaceOrder(db *gorm.DB, userID uint, input models.CheckoutInput) (models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}

		var items []models.CartItem
		if err := tx.Preload("Product").
			Where("cart_id = ?", cart.ID).
			Order("id").
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			if item.Product.ID == 0 {
				return fmt.Errorf("%w: product %d", ErrProductUnavailable, item.ProductID)
			}
			total = total.Add(item.Subtotal())
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Quantity:    item.Quantity,
				Price:       item.Product.Price,
			})
		}

		personalInfo := input.Info()
		if len(personalInfo) == 0 {
			personalInfo = datatypes.JSON("{}")
		}

		order = models.Order{
			Reference:    uuid.NewString(),
			UserID:       userID,
			TotalAmount:  total,
			Address:      input.Address,
			PersonalInfo: personalInfo,
			Status:       models.OrderStatusPending,
			Items:        orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// publishOrderEvent pushes an order event to the staff feed and, in the
// background, to the configured webhook. Failures are only logged.
func publishOrderEvent(event string, order models.Order) {
	payload := utils.OrderEvent{Event: event, Order: order.ToResponse()}

	if initializers.Feed != nil {
		initializers.Feed.Broadcast(payload)
	}

	if notifier := initializers.Notifier; notifier != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
			defer cancel()
			if err := notifier.Notify(ctx, payload); err != nil {
				log.Printf("Order %d webhook (%s) failed: %v", order.ID, event, err)
			}
		}()
	}
}

func sendOrderConfirmation(email, name string, order models.Order) {
	data := utils.OrderEmailData{Name: name, Order: order.ToResponse()}
	if err := utils.SendOrderConfirmation(email, data); err != nil {
		log.Printf("Order %d confirmation email failed: %v", order.ID, err)
	}
}

// CreateOrder checks out the caller's cart.
func CreateOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var input models.CheckoutInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	order, err := PlaceOrder(initializers.DB, userID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			sendErrorResponse(ctx, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, ErrProductUnavailable):
			respondWithError(ctx, http.StatusBadRequest, "Cart contains a product that is no longer available", err)
		default:
			log.Println("Checkout error:", err)
			respondWithError(ctx, http.StatusInternalServerError, "Failed to create order", err)
		}
		return
	}

	publishOrderEvent(utils.EventOrderCreated, order)
	if claims, ok := currentClaims(ctx); ok && claims.Email != "" && utils.MailEnabled() {
		go sendOrderConfirmation(claims.Email, claims.Username, order)
	}
	sendJSONResponse(ctx, http.StatusCreated, order.ToResponse())
}

func GetOrders(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var orders []models.Order
	if err := initializers.DB.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch orders.", err)
		return
	}

	res := make([]models.OrderResponse, 0, len(orders))
	for _, order := range orders {
		res = append(res, order.ToResponse())
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": res})
}

func findOrder(ctx *gin.Context) (models.Order, bool) {
	var order models.Order
	orderID, ok := parseIDParam(ctx, "id")
	if !ok {
		return order, false
	}

	if err := initializers.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgOrderNotFound)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch order.", err)
		}
		return order, false
	}
	return order, true
}

// GetOrder returns one of the caller's own orders.
func GetOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	order, ok := findOrder(ctx)
	if !ok {
		return
	}
	if order.UserID != userID {
		sendErrorResponse(ctx, http.StatusForbidden, "You do not have permission to access this order.")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order.ToResponse())
}
