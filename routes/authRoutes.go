package routes

import (
	"github.com/Kariqs/fishing-store-api/controllers"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine) {
	server.POST("/register", controllers.Register)
	server.POST("/token", controllers.ObtainToken)
	server.POST("/token/refresh", controllers.RefreshToken)
}
