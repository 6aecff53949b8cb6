package middlewares

import (
	"net/http"

	"github.com/Kariqs/fishing-store-api/utils"
	"github.com/gin-gonic/gin"
)

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userClaims, exists := ctx.Get("user")
		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNotAuthenticated})
			return
		}

		claims, ok := userClaims.(*utils.Claims)
		if !ok || !claims.IsStaff {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not have permission to perform this action."})
			return
		}

		ctx.Next()
	}
}
