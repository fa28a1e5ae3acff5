package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/clubhq/clubhub/backend/internal/services"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// MediaHandler serves direct image uploads, used for workshop, community
// event, and board member pictures.
type MediaHandler struct {
	media *services.MediaService
}

func NewMediaHandler(media *services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// Upload handles POST /api/media (multipart: file)
func (h *MediaHandler) Upload(c *gin.Context) {
	if h.media == nil {
		response.Error(c, response.NewInternal("media store is not configured"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	result, err := h.media.Upload(c.Request.Context(), file.Filename, f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "file uploaded", result)
}

// Delete handles DELETE /api/media
func (h *MediaHandler) Delete(c *gin.Context) {
	if h.media == nil {
		response.Error(c, response.NewInternal("media store is not configured"))
		return
	}

	var req struct {
		Object string `json:"object"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Object == "" {
		response.BadRequest(c, "object is required")
		return
	}

	if err := h.media.Delete(c.Request.Context(), req.Object); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "file deleted", nil)
}
