package controllers

import (
	"net/http"

	"fleettrack_server/internal/db"
	"fleettrack_server/internal/http/middleware"
	"fleettrack_server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthController handles authentication requests
type AuthController struct{}

// NewAuthController creates a new auth controller
func NewAuthController() *AuthController {
	return &AuthController{}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and issues a token
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Email and password are required", nil)
		return
	}

	var user models.User
	if err := db.GetDB().Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			errorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS",
				"Invalid email or password", nil)
		} else {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
				"Unable to look up user", nil)
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		errorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS",
			"Invalid email or password", nil)
		return
	}

	if err := user.GenerateToken(); err != nil {
		errorResponse(c, http.StatusInternalServerError, "TOKEN_ERROR",
			"Unable to generate authentication token", nil)
		return
	}
	if err := db.GetDB().Save(&user).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
			"Unable to persist authentication token", nil)
		return
	}

	successResponse(c, http.StatusOK, "Login successful", gin.H{
		"token":      user.Token,
		"expires_at": user.TokenExp,
		"user": gin.H{
			"id":         user.ID,
			"account_id": user.AccountID,
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.GetRoleString(),
		},
	}, 0)
}

// Logout clears the caller's token
func (ac *AuthController) Logout(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		errorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated", nil)
		return
	}

	user.ClearToken()
	if err := db.GetDB().Save(user).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
			"Unable to clear authentication token", nil)
		return
	}
	successResponse(c, http.StatusOK, "Logout successful", nil, 0)
}

// Me returns the authenticated user's profile
func (ac *AuthController) Me(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		errorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated", nil)
		return
	}
	successResponse(c, http.StatusOK, "User profile", gin.H{
		"id":         user.ID,
		"account_id": user.AccountID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.GetRoleString(),
	}, 0)
}
