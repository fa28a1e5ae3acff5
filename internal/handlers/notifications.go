package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/clubhq/clubhub/backend/internal/middleware"
	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/services"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// NotificationHandler serves a member's notification feed.
type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/notifications. Admins also receive the
// admin-audience records.
func (h *NotificationHandler) List(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	notifications, err := h.notifications.ListFor(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	response.OK(c, "ok", notifications)
}

// MarkRead handles PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req struct {
		Read *bool `json:"read"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	read := true
	if req.Read != nil {
		read = *req.Read
	}

	caller := middleware.CallerFrom(c)
	if err := h.notifications.MarkRead(c.Request.Context(), caller, c.Param("id"), read); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "notification updated", nil)
}
