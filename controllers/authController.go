package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/models"
	"github.com/Kariqs/fishing-store-api/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	// Standard response messages
	msgInvalidInput          = "invalid input"
	msgUserAlreadyExists     = "A user with that username already exists."
	msgFailedToHashPassword  = "failed to hash password"
	msgInvalidCredentials    = "No active account found with the given credentials"
	msgInvalidRefreshToken   = "Token is invalid or expired"
	msgFailedToGenerateToken = "failed to generate token"
	msgInternalServerError   = "Internal server error"
	msgNotAuthenticated      = "Authentication credentials were not provided."
)

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// respondWithBindError answers a failed ShouldBind* call, with per-field detail when available.
func respondWithBindError(ctx *gin.Context, err error) {
	body := gin.H{"message": msgInvalidInput}
	if fields := utils.FieldErrors(err); fields != nil {
		body["errors"] = fields
	} else {
		body["error"] = err.Error()
	}
	sendJSONResponse(ctx, http.StatusBadRequest, body)
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func checkUserExists(username string) (bool, error) {
	var count int64
	err := initializers.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// currentClaims returns the token claims RequireAuth stored on the context.
func currentClaims(ctx *gin.Context) (*utils.Claims, bool) {
	value, exists := ctx.Get("user")
	if !exists {
		return nil, false
	}
	claims, ok := value.(*utils.Claims)
	return claims, ok
}

// currentUserID aborts with 401 and returns false when the request is anonymous.
func currentUserID(ctx *gin.Context) (uint, bool) {
	claims, ok := currentClaims(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return 0, false
	}
	return claims.UserID, true
}

// Register creates a regular (non-staff) account.
func Register(ctx *gin.Context) {
	var signUpData models.SignupData
	if err := ctx.ShouldBindJSON(&signUpData); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	exists, err := checkUserExists(signUpData.Username)
	if err != nil {
		log.Println("Database error during user check:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if exists {
		sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
			"message": msgInvalidInput,
			"errors":  gin.H{"username": msgUserAlreadyExists},
		})
		return
	}

	hashedPassword, err := hashPassword(signUpData.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	user := models.User{
		Username: signUpData.Username,
		Email:    signUpData.Email,
		Password: hashedPassword,
	}
	if result := initializers.DB.Create(&user); result.Error != nil {
		log.Println("User creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, models.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// ObtainToken exchanges credentials for an access/refresh token pair.
func ObtainToken(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	var user models.User
	if err := initializers.DB.Where("username = ?", loginData.Username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("Database error during login:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	pair, err := utils.GenerateTokenPair(user)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"access":   pair.Access,
		"refresh":  pair.Refresh,
		"username": user.Username,
		"email":    user.Email,
		"isStaff":  user.IsStaff,
		// same flag under the key the token claims use
		"is_staff": user.IsStaff,
	})
}

// RefreshToken issues a new access token from a valid refresh token.
func RefreshToken(ctx *gin.Context) {
	var refreshData models.RefreshData
	if err := ctx.ShouldBindJSON(&refreshData); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	claims, err := utils.ParseToken(refreshData.Refresh, utils.RefreshToken)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidRefreshToken)
		return
	}

	// reload so a revoked staff flag or deleted account takes effect
	var user models.User
	if err := initializers.DB.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidRefreshToken)
			return
		}
		log.Println("Database error during token refresh:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	access, err := utils.GenerateAccessToken(user)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"access": access})
}
