package middlewares

import (
	"net/http"
	"strings"

	"github.com/Kariqs/fishing-store-api/utils"
	"github.com/gin-gonic/gin"
)

const msgNotAuthenticated = "Authentication credentials were not provided."

// bearerToken reads the access token from the Authorization header. Browsers
// cannot set headers on websocket upgrades, so the access_token query
// parameter is accepted as well.
func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	return ctx.Query("access_token")
}

// RequireAuth validates the access token and stores its claims under "user".
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNotAuthenticated})
			return
		}

		claims, err := utils.ParseToken(tokenString, utils.AccessToken)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Given token not valid for any token type",
				"error":   err.Error(),
			})
			return
		}

		ctx.Set("user", claims)
		ctx.Next()
	}
}
