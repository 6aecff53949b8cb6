package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Fishing Store API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/register" - Create user account
- POST "/token" - Obtain access and refresh tokens
- POST "/token/refresh" - Refresh access token

CATALOG
- GET "/categories" - List categories
- GET "/categories/:id" - Get category by ID
- GET "/categories/:id/subcategories" - List direct subcategories
- GET "/products" - List products (price_min, price_max, brands, category, search, ordering, page, limit)
- GET "/products/:id" - Get product by ID
- POST "/products/:id/image" - Upload product image (staff)
- GET "/brands" - List brands
- GET "/brands/:id" - Get brand by ID

CART
- GET "/cart" - Get own cart
- GET "/cart/:id" - Get cart by ID
- GET "/cart-items" - List own cart items
- POST "/cart-items" - Add product to cart
- PATCH "/cart-items/:id" - Change quantity
- DELETE "/cart-items/:id" - Remove item

ORDER
- POST "/orders" - Check out the cart
- GET "/orders" - List own orders
- GET "/orders/:id" - Get own order by ID
- GET "/admin/orders" - List all orders (staff)
- PATCH "/admin/orders/:id" - Update order status (staff)
- DELETE "/admin/orders/:id" - Delete order (staff)
- GET "/admin/orders/export" - Download orders as xlsx (staff)
- GET "/admin/orders/ws" - Live order feed (staff)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
