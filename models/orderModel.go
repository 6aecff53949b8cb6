package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusProcessed OrderStatus = "processed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions lists the statuses each status may move to.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusProcessed, OrderStatusCancelled},
	OrderStatusProcessed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusCompleted, OrderStatusCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessed, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order in status s may be moved to next.
// Setting the current status again is allowed and is a no-op.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	gorm.Model
	Reference    string          `json:"reference" gorm:"size:36;uniqueIndex;not null"`
	UserID       uint            `json:"userId" gorm:"index;not null"`
	TotalAmount  decimal.Decimal `json:"totalAmount" gorm:"type:decimal(10,2);not null"`
	Address      string          `json:"address" gorm:"type:text;not null"`
	PersonalInfo datatypes.JSON  `json:"personalInfo"`
	Status       OrderStatus     `json:"status" gorm:"type:varchar(20);not null;index"`
	Items        []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem prices and names are snapshots taken at checkout.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"orderId" gorm:"index;not null"`
	ProductID   uint            `json:"productId" gorm:"index;not null"`
	ProductName string          `json:"productName" gorm:"size:255"`
	Quantity    uint            `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CheckoutInput struct {
	Address      string         `json:"address" binding:"required"`
	PersonalInfo datatypes.JSON `json:"personalInfo"`
	// snake_case key sent by older clients
	PersonalInfoAlias datatypes.JSON `json:"personal_info"`
}

// Info returns the personal info under either key, preferring personalInfo.
func (in CheckoutInput) Info() datatypes.JSON {
	if len(in.PersonalInfo) > 0 {
		return in.PersonalInfo
	}
	return in.PersonalInfoAlias
}

type OrderStatusInput struct {
	Status OrderStatus `json:"status" binding:"required,orderstatus"`
}

type OrderItemResponse struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"product"`
	ProductName string `json:"productName"`
	Quantity    uint   `json:"quantity"`
	Price       string `json:"price"`
}

type OrderResponse struct {
	ID           uint                `json:"id"`
	Reference    string              `json:"reference"`
	UserID       uint                `json:"user"`
	CreatedAt    time.Time           `json:"createdAt"`
	TotalAmount  string              `json:"totalAmount"`
	Address      string              `json:"address"`
	PersonalInfo datatypes.JSON      `json:"personalInfo"`
	Status       OrderStatus         `json:"status"`
	Items        []OrderItemResponse `json:"items"`
}

// ToResponse expects Items to be preloaded.
func (o Order) ToResponse() OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.StringFixed(2),
		})
	}
	return OrderResponse{
		ID:           o.ID,
		Reference:    o.Reference,
		UserID:       o.UserID,
		CreatedAt:    o.CreatedAt,
		TotalAmount:  o.TotalAmount.StringFixed(2),
		Address:      o.Address,
		PersonalInfo: o.PersonalInfo,
		Status:       o.Status,
		Items:        items,
	}
}
