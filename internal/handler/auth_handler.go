package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yamdb/api/internal/service"
	"github.com/yamdb/api/pkg/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignUp issues a confirmation code to the email, registering it on first use.
// POST /auth/email
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	logger.Log.Info("Confirmation code requested",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Sign up", err)
		return
	}

	resp := gin.H{"email": user.Email}
	if user.Username != nil {
		resp["username"] = *user.Username
	}
	c.JSON(http.StatusOK, resp)
}

// Token trades an email and confirmation code for a bearer token.
// POST /auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req service.TokenInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	token, user, err := h.authService.Exchange(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// An unknown email is a bad field here, not a missing resource.
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": gin.H{"email": err.Error()}})
			return
		}
		respondError(c, "Token exchange", err)
		return
	}

	logger.Log.Info("Token issued", zap.Uint("user_id", user.ID), zap.String("ip", c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{"token": token})
}
