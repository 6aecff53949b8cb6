package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/models"
	"github.com/Kariqs/fishing-store-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

var ErrInvalidStatusTransition = errors.New("invalid order status transition")

// ChangeOrderStatus moves an order to status next. The returned bool reports
// whether the stored status actually changed.
func ChangeOrderStatus(db *gorm.DB, orderID uint, next models.OrderStatus) (models.Order, bool, error) {
	var order models.Order
	changed := false

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, order.Status, next)
		}
		if order.Status == next {
			return nil
		}
		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return err
		}
		order.Status = next
		changed = true
		return nil
	})
	return order, changed, err
}

type orderQuery struct {
	status models.OrderStatus
	userID uint
	page   int
	limit  int
}

func parseOrderQuery(ctx *gin.Context) (orderQuery, error) {
	var q orderQuery
	var err error

	if raw := ctx.Query("status"); raw != "" {
		q.status = models.OrderStatus(raw)
		if !q.status.Valid() {
			return q, fmt.Errorf("unknown status %q", raw)
		}
	}
	if raw := ctx.Query("user"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return q, errors.New("user must be an id")
		}
		q.userID = uint(id)
	}
	if q.page, err = parsePositiveQuery(ctx, "page", 1); err != nil {
		return q, err
	}
	if q.limit, err = parsePositiveQuery(ctx, "limit", 0); err != nil {
		return q, err
	}
	return q, nil
}

func (q orderQuery) apply(db *gorm.DB) *gorm.DB {
	query := db.Model(&models.Order{})
	if q.status != "" {
		query = query.Where("status = ?", q.status)
	}
	if q.userID != 0 {
		query = query.Where("user_id = ?", q.userID)
	}
	return query
}

// GetAllOrders lists every order for staff, newest first.
func GetAllOrders(ctx *gin.Context) {
	q, err := parseOrderQuery(ctx)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	var count int64
	if err := q.apply(initializers.DB).Count(&count).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to count orders", err)
		return
	}

	var orders []models.Order
	query := q.apply(initializers.DB).Preload("Items").Order("created_at DESC").Order("id DESC")
	if q.limit > 0 {
		query = query.Limit(q.limit).Offset((q.page - 1) * q.limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", err)
		return
	}

	res := make([]models.OrderResponse, 0, len(orders))
	for _, order := range orders {
		res = append(res, order.ToResponse())
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders": res,
		"metadata": gin.H{
			"total": count,
			"page":  q.page,
			"limit": q.limit,
		},
	})
}

func GetOrderAdmin(ctx *gin.Context) {
	order, ok := findOrder(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order.ToResponse())
}

func UpdateOrderStatus(ctx *gin.Context) {
	orderID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input models.OrderStatusInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	order, changed, err := ChangeOrderStatus(initializers.DB, orderID, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sendErrorResponse(ctx, http.StatusNotFound, msgOrderNotFound)
		case errors.Is(err, ErrInvalidStatusTransition):
			respondWithError(ctx, http.StatusConflict, "Order status cannot be changed", err)
		default:
			respondWithError(ctx, http.StatusInternalServerError, "Failed to update order status", err)
		}
		return
	}

	if changed {
		publishOrderEvent(utils.EventOrderStatusChanged, order)
	}
	sendJSONResponse(ctx, http.StatusOK, order.ToResponse())
}

func DeleteOrder(ctx *gin.Context) {
	order, ok := findOrder(ctx)
	if !ok {
		return
	}

	if err := initializers.DB.Delete(&order).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete order", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order deleted successfully."})
}

var orderExportHeader = []string{
	"Order ID", "Reference", "User ID", "Created At", "Status", "Address",
	"Product ID", "Product", "Quantity", "Unit Price", "Line Total", "Order Total",
}

// buildOrdersWorkbook writes one row per order item.
func buildOrdersWorkbook(orders []models.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, title := range orderExportHeader {
		header.AddCell().SetString(title)
	}

	for _, order := range orders {
		for _, item := range order.Items {
			row := sheet.AddRow()
			row.AddCell().SetInt(int(order.ID))
			row.AddCell().SetString(order.Reference)
			row.AddCell().SetInt(int(order.UserID))
			row.AddCell().SetString(order.CreatedAt.Format(time.RFC3339))
			row.AddCell().SetString(string(order.Status))
			row.AddCell().SetString(order.Address)
			row.AddCell().SetInt(int(item.ProductID))
			row.AddCell().SetString(item.ProductName)
			row.AddCell().SetInt(int(item.Quantity))
			row.AddCell().SetFloat(item.Price.InexactFloat64())
			row.AddCell().SetFloat(item.LineTotal().InexactFloat64())
			row.AddCell().SetFloat(order.TotalAmount.InexactFloat64())
		}
	}
	return file, nil
}

// ExportOrders downloads the filtered order list as an xlsx workbook.
func ExportOrders(ctx *gin.Context) {
	q, err := parseOrderQuery(ctx)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	var orders []models.Order
	if err := q.apply(initializers.DB).Preload("Items").Order("id").Find(&orders).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", err)
		return
	}

	file, err := buildOrdersWorkbook(orders)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to build export", err)
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Status(http.StatusOK)
	if err := file.Write(ctx.Writer); err != nil {
		log.Println("Error writing order export:", err)
	}
}

// OrderFeed streams order events to staff over a websocket.
func OrderFeed(ctx *gin.Context) {
	if initializers.Feed == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Order feed is not available.")
		return
	}
	initializers.Feed.ServeWS(ctx.Writer, ctx.Request)
}
