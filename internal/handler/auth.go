package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tably/orders-api/internal/dto"
	"github.com/tably/orders-api/internal/middleware"
	"github.com/tably/orders-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Verify(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.authService.Verify(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token is valid", "user": user})
}
