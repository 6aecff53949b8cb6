package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/models"
	"github.com/Kariqs/fishing-store-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

type shopFixture struct {
	s        *testServer
	staff    string
	customer string
	other    string
	hooks    models.Product
	sinkers  models.Product
}

func newShopFixture(t *testing.T) *shopFixture {
	t.Helper()
	s := newTestServer(t)
	f := &shopFixture{
		s:        s,
		staff:    s.signUp("staff", true),
		customer: s.signUp("customer", false),
		other:    s.signUp("other", false),
	}

	category := models.Category{Name: "Terminal Tackle"}
	require.NoError(t, initializers.DB.Create(&category).Error)
	f.hooks = models.Product{Name: "Circle Hooks", Price: decimal.RequireFromString("10.00"), Stock: 50, Available: true, CategoryID: category.ID}
	f.sinkers = models.Product{Name: "Sinkers", Price: decimal.RequireFromString("5.00"), Stock: 50, Available: true, CategoryID: category.ID}
	require.NoError(t, initializers.DB.Create(&f.hooks).Error)
	require.NoError(t, initializers.DB.Create(&f.sinkers).Error)
	return f
}

// fillCart puts 2 hooks and 1 sinker in the customer's cart and returns the hooks line.
func (f *shopFixture) fillCart(t *testing.T) map[string]any {
	t.Helper()
	w := f.s.do(http.MethodPost, "/cart-items", f.customer, gin.H{"productId": f.hooks.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = f.s.do(http.MethodPost, "/cart-items", f.customer, gin.H{"productId": f.hooks.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	line := decode[map[string]any](t, w)
	require.EqualValues(t, 2, line["quantity"])

	w = f.s.do(http.MethodPost, "/cart-items", f.customer, gin.H{"productId": f.sinkers.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return line
}

func (f *shopFixture) checkout(t *testing.T) map[string]any {
	t.Helper()
	w := f.s.do(http.MethodPost, "/orders", f.customer, gin.H{
		"address":      "1 Harbour Road",
		"personalInfo": gin.H{"name": "Ann", "phone": "555-0100"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](t, w)
}

func TestCartOwnership(t *testing.T) {
	f := newShopFixture(t)
	s := f.s
	line := f.fillCart(t)
	itemPath := fmt.Sprintf("/cart-items/%d", idOf(line))

	w := s.do(http.MethodGet, "/cart", f.customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[map[string]any](t, w)
	assert.Equal(t, "25.00", cart["total"])
	assert.Len(t, cart["items"], 2)
	cartPath := fmt.Sprintf("/cart/%d", idOf(cart))

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, cartPath, f.customer, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, cartPath, f.other, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, itemPath, f.other, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, itemPath, f.other, gin.H{"quantity": 9}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, itemPath, f.other, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/cart-items/9999", f.customer, nil).Code)

	w = s.do(http.MethodGet, "/cart-items", f.other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[map[string]any](t, w)["items"])

	w = s.do(http.MethodPatch, itemPath, f.customer, gin.H{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30.00", decode[map[string]any](t, w)["subtotal"])

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPatch, itemPath, f.customer, gin.H{"quantity": 0}).Code)

	w = s.do(http.MethodPost, "/cart-items", f.customer, gin.H{"productId": 9999, "quantity": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]any](t, w)["errors"], "productId")

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, itemPath, f.customer, nil).Code)
	w = s.do(http.MethodGet, "/cart", f.customer, nil)
	assert.Equal(t, "5.00", decode[map[string]any](t, w)["total"])
}

func TestCartQuantityCap(t *testing.T) {
	f := newShopFixture(t)
	s := f.s

	w := s.do(http.MethodPost, "/cart-items", f.customer, gin.H{"productId": f.hooks.ID, "quantity": models.MaxCartQuantity + 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]any](t, w)["errors"], "quantity")

	w = s.do(http.MethodPost, "/cart-items", f.customer, gin.H{"productId": f.hooks.ID, "quantity": 6000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	line := decode[map[string]any](t, w)

	w = s.do(http.MethodPost, "/cart-items", f.customer, gin.H{"productId": f.hooks.ID, "quantity": 6000})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]any](t, w)["errors"], "quantity")

	w = s.do(http.MethodPatch, fmt.Sprintf("/cart-items/%d", idOf(line)), f.customer, gin.H{"quantity": models.MaxCartQuantity + 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/cart-items", f.customer, gin.H{"productId": f.hooks.ID, "quantity": 4000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, models.MaxCartQuantity, decode[map[string]any](t, w)["quantity"])

	w = s.do(http.MethodGet, "/cart", f.customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100000.00", decode[map[string]any](t, w)["total"])
}

func TestCheckoutAcceptsSnakeCasePersonalInfo(t *testing.T) {
	f := newShopFixture(t)
	f.fillCart(t)

	w := f.s.do(http.MethodPost, "/orders", f.customer, gin.H{
		"address":       "1 Harbour Road",
		"personal_info": gin.H{"name": "Ann"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Ann", decode[map[string]any](t, w)["personalInfo"].(map[string]any)["name"])
}

func TestCheckout(t *testing.T) {
	f := newShopFixture(t)
	s := f.s

	w := s.do(http.MethodPost, "/orders", f.customer, gin.H{"address": "1 Harbour Road"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", decode[map[string]any](t, w)["message"])

	f.fillCart(t)
	order := f.checkout(t)
	assert.Equal(t, "25.00", order["totalAmount"])
	assert.Equal(t, "pending", order["status"])
	assert.Len(t, order["items"], 2)
	assert.Equal(t, "Ann", order["personalInfo"].(map[string]any)["name"])

	w = s.do(http.MethodGet, "/cart", f.customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[map[string]any](t, w)["items"])

	w = s.do(http.MethodPost, "/orders", f.customer, gin.H{"address": "1 Harbour Road"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/orders", f.customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string]any](t, w)["orders"], 1)

	orderPath := fmt.Sprintf("/orders/%d", idOf(order))
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, orderPath, f.customer, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, orderPath, f.other, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/orders/9999", f.customer, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/orders", "", nil).Code)

	w = s.do(http.MethodGet, "/orders", f.other, nil)
	assert.Empty(t, decode[map[string]any](t, w)["orders"])
}

func TestAdminOrders(t *testing.T) {
	f := newShopFixture(t)
	s := f.s
	f.fillCart(t)
	order := f.checkout(t)
	path := fmt.Sprintf("/admin/orders/%d", idOf(order))

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/admin/orders", f.customer, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, path, f.customer, gin.H{"status": "processed"}).Code)

	w := s.do(http.MethodPatch, path, f.staff, gin.H{"status": "processed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "processed", decode[map[string]any](t, w)["status"])

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPut, path, f.staff, gin.H{"status": "pending"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPatch, path, f.staff, gin.H{"status": "lost"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPatch, "/admin/orders/9999", f.staff, gin.H{"status": "shipped"}).Code)

	w = s.do(http.MethodGet, "/admin/orders?status=processed", f.staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string]any](t, w)["orders"], 1)

	w = s.do(http.MethodGet, "/admin/orders?status=shipped", f.staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[map[string]any](t, w)["orders"])

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/admin/orders?status=lost", f.staff, nil).Code)

	t.Run("export", func(t *testing.T) {
		w := s.do(http.MethodGet, "/admin/orders/export", f.staff, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

		file, err := xlsx.OpenBinary(w.Body.Bytes())
		require.NoError(t, err)
		require.Len(t, file.Sheets, 1)
		assert.Len(t, file.Sheets[0].Rows, 3)
		assert.Equal(t, order["reference"], file.Sheets[0].Rows[1].Cells[1].String())
	})

	t.Run("delete", func(t *testing.T) {
		require.Equal(t, http.StatusOK, s.do(http.MethodDelete, path, f.staff, nil).Code)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, f.staff, nil).Code)
	})
}

func TestOrderFeedReceivesEvents(t *testing.T) {
	f := newShopFixture(t)
	srv := httptest.NewServer(f.s.engine)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/orders/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?access_token="+f.customer, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?access_token="+f.staff, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return initializers.Feed.Count() == 1 }, time.Second, 10*time.Millisecond)

	f.fillCart(t)
	order := f.checkout(t)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event utils.OrderEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, utils.EventOrderCreated, event.Event)
	assert.Equal(t, order["reference"], event.Order.Reference)
	assert.Equal(t, "25.00", event.Order.TotalAmount)
}
