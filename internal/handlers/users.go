package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/clubhq/clubhub/backend/internal/middleware"
	"github.com/clubhq/clubhub/backend/internal/services"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// UserHandler serves account administration plus the leaderboard and the
// member dashboard.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /api/users (admin)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", users)
}

// Create handles POST /api/users (admin)
func (h *UserHandler) Create(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.users.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "user created", user)
}

// Get handles GET /api/users/:uid (admin)
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", user)
}

// Update handles PUT /api/users/:uid (admin)
func (h *UserHandler) Update(c *gin.Context) {
	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.users.Update(c.Request.Context(), c.Param("uid"), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "user updated", nil)
}

// Delete handles DELETE /api/users/:uid (admin)
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "user deleted", nil)
}

// Leaderboard handles GET /api/leaderboard (public)
func (h *UserHandler) Leaderboard(c *gin.Context) {
	entries, err := h.users.Leaderboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", entries)
}

// Dashboard handles GET /api/dashboard
func (h *UserHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.users.DashboardFor(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", dashboard)
}
