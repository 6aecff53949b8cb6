package routes

import (
	"strings"
	"time"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const defaultCORSOrigins = "http://localhost:3000,http://localhost:4200"

func corsOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(initializers.GetEnv("CORS_ORIGINS", defaultCORSOrigins), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// NewServer builds the engine with every route registered. The database and
// services in initializers must be set up before requests arrive.
func NewServer() *gin.Engine {
	utils.RegisterValidators()

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	DefaultRoutes(server)
	AuthRoutes(server)
	CategoryRoutes(server)
	ProductRoutes(server)
	BrandRoutes(server)
	CartRoutes(server)
	OrderRoutes(server)
	AdminOrderRoutes(server)
	return server
}
