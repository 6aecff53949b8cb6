package routes

import (
	"github.com/Kariqs/fishing-store-api/controllers"
	"github.com/Kariqs/fishing-store-api/middlewares"
	"github.com/gin-gonic/gin"
)

// Catalog reads are public. Writes need a staff account.

func CategoryRoutes(server *gin.Engine) {
	categories := server.Group("/categories")
	{
		categories.GET("", controllers.GetCategories)
		categories.GET("/:id", controllers.GetCategory)
		categories.GET("/:id/subcategories", controllers.GetSubcategories)
	}

	admin := categories.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateCategory)
		admin.PUT("/:id", controllers.UpdateCategory)
		admin.DELETE("/:id", controllers.DeleteCategory)
	}
}

func ProductRoutes(server *gin.Engine) {
	products := server.Group("/products")
	{
		products.GET("", controllers.GetProducts)
		products.GET("/:id", controllers.GetProduct)
	}

	admin := products.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateProduct)
		admin.PUT("/:id", controllers.UpdateProduct)
		admin.PATCH("/:id", controllers.PatchProduct)
		admin.DELETE("/:id", controllers.DeleteProduct)
		admin.POST("/:id/image", controllers.UploadProductImage)
	}
}

func BrandRoutes(server *gin.Engine) {
	brands := server.Group("/brands")
	{
		brands.GET("", controllers.GetBrands)
		brands.GET("/:id", controllers.GetBrand)
	}

	admin := brands.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateBrand)
		admin.PUT("/:id", controllers.UpdateBrand)
		admin.DELETE("/:id", controllers.DeleteBrand)
	}
}
