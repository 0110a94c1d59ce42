package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yamdb/api/internal/middleware"
	"github.com/yamdb/api/internal/service"
	"github.com/yamdb/api/pkg/logger"
	"go.uber.org/zap"
)

// UserHandler serves the admin user endpoints and /users/me. Routes are
// gated by middleware.Authorize before these run.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /users
func (h *UserHandler) List(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		respondError(c, "List users", err)
		return
	}
	respondList(c, total, toUserResponses(users))
}

// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Create user", err)
		return
	}

	logger.Log.Info("Admin created user",
		zap.Uint("admin_id", middleware.ActorFrom(c).UserID),
		zap.Uint("user_id", user.ID),
	)
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// GET /users/:username
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Resolve(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, "Get user", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// PATCH /users/:username
func (h *UserHandler) Update(c *gin.Context) {
	target, err := h.userService.Resolve(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, "Update user", err)
		return
	}

	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), target.ID, req)
	if err != nil {
		respondError(c, "Update user", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// DELETE /users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	target, err := h.userService.Resolve(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, "Delete user", err)
		return
	}

	if err := h.userService.Delete(c.Request.Context(), target.ID); err != nil {
		respondError(c, "Delete user", err)
		return
	}

	logger.Log.Info("Admin deleted user",
		zap.Uint("admin_id", middleware.ActorFrom(c).UserID),
		zap.Uint("user_id", target.ID),
	)
	c.Status(http.StatusNoContent)
}

// GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, toUserResponse(middleware.UserFrom(c)))
}

// PATCH /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	user, err := h.userService.UpdateMe(c.Request.Context(), middleware.UserFrom(c), req)
	if err != nil {
		respondError(c, "Update profile", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
