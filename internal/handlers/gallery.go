package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clubhq/clubhub/backend/internal/middleware"
	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/services"
	"github.com/clubhq/clubhub/backend/internal/store"
	"github.com/clubhq/clubhub/backend/pkg/logger"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

const maxGalleryPhotos = 10

// GalleryHandler serves the shared photo gallery. Creating a memory
// costs the caller one memo token; the token is spent atomically before
// any photo is stored.
type GalleryHandler struct {
	crud[models.Memory]
	users *store.UserStore
	media *services.MediaService
}

func NewGalleryHandler(docs *store.Collection[models.Memory], users *store.UserStore, media *services.MediaService) *GalleryHandler {
	return &GalleryHandler{
		crud:  crud[models.Memory]{docs: docs, kind: "memory", sort: "created_at"},
		users: users,
		media: media,
	}
}

// Create handles POST /api/gallery (multipart: title + photos)
func (h *GalleryHandler) Create(c *gin.Context) {
	if h.media == nil {
		response.Error(c, response.NewInternal("media store is not configured"))
		return
	}

	caller := middleware.CallerFrom(c)

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		response.BadRequest(c, "title is required")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		response.BadRequest(c, "at least one photo is required")
		return
	}
	if len(files) > maxGalleryPhotos {
		response.BadRequest(c, "too many photos")
		return
	}

	err = h.users.SpendMemoToken(c.Request.Context(), caller.UID)
	if errors.Is(err, store.ErrStateConflict) {
		response.Error(c, response.NewConflict("no memo tokens left"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	photos := make([]string, 0, len(files))
	for _, file := range files {
		f, err := file.Open()
		if err != nil {
			response.Error(c, err)
			return
		}

		result, err := h.media.Upload(c.Request.Context(), file.Filename, f)
		f.Close()
		if err != nil {
			response.Error(c, err)
			return
		}
		photos = append(photos, result.URL)
	}

	memory := &models.Memory{
		Title:     title,
		Author:    caller.Name,
		Photos:    photos,
		CreatedAt: time.Now().UTC(),
	}
	id, err := h.docs.Insert(c.Request.Context(), memory)
	if err != nil {
		response.Error(c, err)
		return
	}

	logger.Info().Str("uid", caller.UID).Int("photos", len(photos)).Msg("gallery memory created")
	response.Created(c, "memory created", gin.H{"id": id, "photos": photos})
}
