package handlers

import (
	"net/http"

	"itms-api/internal/middleware"
	"itms-api/internal/models"
	"itms-api/internal/repositories"
	"itms-api/internal/services"
	"itms-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService *services.AuthService
	authMW      *middleware.AuthMiddleware
	userRepo    *repositories.UserRepository
	orgRepo     *repositories.OrganizationRepository
}

func NewAuthHandler(authService *services.AuthService, authMW *middleware.AuthMiddleware, userRepo *repositories.UserRepository, orgRepo *repositories.OrganizationRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		authMW:      authMW,
		userRepo:    userRepo,
		orgRepo:     orgRepo,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ipAddress := h.authMW.GetClientIP(c)
	userAgent := c.GetHeader("User-Agent")

	response, err := h.authService.Login(c.Request.Context(), &req, ipAddress, userAgent)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var refreshToken string

	// Body first, cookie as fallback.
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		refreshToken = req.RefreshToken
	} else if cookie, err := c.Cookie("refresh_token"); err == nil && cookie != "" {
		refreshToken = cookie
	}

	if refreshToken == "" {
		c.JSON(http.StatusBadRequest, errors.ErrorResponse{
			Error:   errors.ErrValidation.Code,
			Message: "Refresh token is required. Provide it in request body or cookie.",
		})
		return
	}

	ipAddress := h.authMW.GetClientIP(c)

	response, err := h.authService.RefreshToken(c.Request.Context(), refreshToken, ipAddress)
	if err != nil {
		respondError(c, err, "Token refresh failed")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.RefreshTokenRequest
	refreshToken := ""
	if c.ShouldBindJSON(&req) == nil {
		refreshToken = req.RefreshToken
	}

	if err := h.authService.Logout(c.Request.Context(), refreshToken, userID); err != nil {
		respondError(c, err, "Logout failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	user.PasswordHash = ""

	response := gin.H{"user": user}

	if orgIDStr, exists := c.Get("org_id"); exists {
		if orgID, err := uuid.Parse(orgIDStr.(string)); err == nil {
			if org, err := h.orgRepo.GetByID(c.Request.Context(), orgID); err == nil {
				response["organization"] = org
			}
		}
	}

	c.JSON(http.StatusOK, response)
}
