package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clubhq/clubhub/backend/internal/middleware"
	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/store"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// PostDocs is the store surface the forum needs. *store.PostStore
// implements it; tests substitute an in-memory fake.
type PostDocs interface {
	List(ctx context.Context, sortField string) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Insert(ctx context.Context, p *models.Post) (string, error)
	Delete(ctx context.Context, id string) error
	Like(ctx context.Context, id, email string) error
	AddComment(ctx context.Context, id string, c models.Comment) error
}

// PostHandler serves the member forum: posts, likes, comments.
type PostHandler struct {
	posts PostDocs
}

func NewPostHandler(posts PostDocs) *PostHandler {
	return &PostHandler{posts: posts}
}

// List handles GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context(), "created_at")
	if err != nil {
		response.Error(c, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	response.OK(c, "ok", posts)
}

// Get handles GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, response.NewNotFound("no such post"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", post)
}

// Create handles POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		response.BadRequest(c, "title is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		response.BadRequest(c, "content is required")
		return
	}

	caller := middleware.CallerFrom(c)
	post := &models.Post{
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Author:    caller.Name,
		Likes:     0,
		LikedBy:   []string{},
		Comments:  []models.Comment{},
		CreatedAt: time.Now().UTC(),
	}

	id, err := h.posts.Insert(c.Request.Context(), post)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "post created", gin.H{"id": id})
}

// Delete handles DELETE /api/posts/:id. Author or admin only.
func (h *PostHandler) Delete(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, response.NewNotFound("no such post"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	if !caller.IsAdmin && caller.Name != post.Author {
		response.Error(c, response.NewForbidden("only the author or an admin may delete this post"))
		return
	}

	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "post deleted", nil)
}

// Like handles PUT /api/posts/:id/like. One like per account.
func (h *PostHandler) Like(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	err := h.posts.Like(c.Request.Context(), c.Param("id"), caller.Email)
	if errors.Is(err, store.ErrStateConflict) {
		response.Error(c, response.NewConflict("already liked"))
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, response.NewNotFound("no such post"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "post liked", nil)
}

// Comment handles POST /api/posts/:id/comments
func (h *PostHandler) Comment(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		response.BadRequest(c, "text is required")
		return
	}

	caller := middleware.CallerFrom(c)
	comment := models.Comment{
		Author:    caller.Name,
		Text:      strings.TrimSpace(req.Text),
		CreatedAt: time.Now().UTC(),
	}

	err := h.posts.AddComment(c.Request.Context(), c.Param("id"), comment)
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, response.NewNotFound("no such post"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "comment added", comment)
}
