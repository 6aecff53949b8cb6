package routes

import (
	"github.com/Kariqs/fishing-store-api/controllers"
	"github.com/Kariqs/fishing-store-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("", controllers.CreateCart)
		cart.GET("/:id", controllers.GetCartByID)
	}

	items := server.Group("/cart-items", middlewares.RequireAuth())
	{
		items.GET("", controllers.GetCartItems)
		items.POST("", controllers.CreateCartItem)
		items.GET("/:id", controllers.GetCartItem)
		items.PUT("/:id", controllers.UpdateCartItem)
		items.PATCH("/:id", controllers.UpdateCartItem)
		items.DELETE("/:id", controllers.DeleteCartItem)
	}
}
