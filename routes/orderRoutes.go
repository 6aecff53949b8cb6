package routes

import (
	"github.com/Kariqs/fishing-store-api/controllers"
	"github.com/Kariqs/fishing-store-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/orders", middlewares.RequireAuth())
	{
		orders.GET("", controllers.GetOrders)
		orders.POST("", controllers.CreateOrder)
		orders.GET("/:id", controllers.GetOrder)
	}
}

func AdminOrderRoutes(server *gin.Engine) {
	admin := server.Group("/admin/orders", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("", controllers.GetAllOrders)
		admin.GET("/export", controllers.ExportOrders)
		admin.GET("/ws", controllers.OrderFeed)
		admin.GET("/:id", controllers.GetOrderAdmin)
		admin.PUT("/:id", controllers.UpdateOrderStatus)
		admin.PATCH("/:id", controllers.UpdateOrderStatus)
		admin.DELETE("/:id", controllers.DeleteOrder)
	}
}
