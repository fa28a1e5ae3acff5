package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/services"
	"github.com/clubhq/clubhub/backend/internal/store"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// crud wraps the shared list/get/delete surface of the thin content
// collections. Create and Update stay type-specific for validation.
type crud[T any] struct {
	docs *store.Collection[T]
	kind string
	sort string
}

func (h *crud[T]) List(c *gin.Context) {
	docs, err := h.docs.List(c.Request.Context(), h.sort)
	if err != nil {
		response.Error(c, err)
		return
	}
	if docs == nil {
		docs = []T{}
	}
	response.OK(c, "ok", docs)
}

func (h *crud[T]) Get(c *gin.Context) {
	doc, err := h.docs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.mapErr(err))
		return
	}
	response.OK(c, "ok", doc)
}

func (h *crud[T]) Delete(c *gin.Context) {
	if err := h.docs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.mapErr(err))
		return
	}
	response.OK(c, h.kind+" deleted", nil)
}

func (h *crud[T]) update(c *gin.Context, fields map[string]any) {
	if len(fields) == 0 {
		response.OK(c, h.kind+" updated", nil)
		return
	}
	if err := h.docs.SetFields(c.Request.Context(), c.Param("id"), fields); err != nil {
		response.Error(c, h.mapErr(err))
		return
	}
	response.OK(c, h.kind+" updated", nil)
}

func (h *crud[T]) mapErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return response.NewNotFound("no such " + h.kind)
	}
	return err
}

// --- Events ---

type EventHandler struct {
	crud[models.Event]
}

func NewEventHandler(docs *store.Collection[models.Event]) *EventHandler {
	return &EventHandler{crud[models.Event]{docs: docs, kind: "event", sort: "date"}}
}

type eventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Color       *string `json:"color"`
}

// Create handles POST /api/events (admin)
func (h *EventHandler) Create(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		response.BadRequest(c, "title is required")
		return
	}
	if req.Date == nil || !validDate(*req.Date) {
		response.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	event := &models.Event{
		Title:     strings.TrimSpace(*req.Title),
		Date:      *req.Date,
		CreatedAt: time.Now().UTC(),
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Color != nil {
		event.Color = *req.Color
	}

	id, err := h.docs.Insert(c.Request.Context(), event)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "event created", gin.H{"id": id})
}

// Update handles PUT /api/events/:id (admin)
func (h *EventHandler) Update(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Date != nil {
		if !validDate(*req.Date) {
			response.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		fields["date"] = *req.Date
	}
	if req.Color != nil {
		fields["color"] = *req.Color
	}
	h.update(c, fields)
}

// --- News ---

type NewsHandler struct {
	crud[models.News]
}

func NewNewsHandler(docs *store.Collection[models.News]) *NewsHandler {
	return &NewsHandler{crud[models.News]{docs: docs, kind: "news item", sort: "created_at"}}
}

type newsRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Create handles POST /api/news (admin)
func (h *NewsHandler) Create(c *gin.Context) {
	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		response.BadRequest(c, "title is required")
		return
	}

	item := &models.News{
		Title:     strings.TrimSpace(*req.Title),
		CreatedAt: time.Now().UTC(),
	}
	if req.Description != nil {
		item.Description = *req.Description
	}

	id, err := h.docs.Insert(c.Request.Context(), item)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "news item created", gin.H{"id": id})
}

// Update handles PUT /api/news/:id (admin)
func (h *NewsHandler) Update(c *gin.Context) {
	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	h.update(c, fields)
}

// --- Workshops ---

type WorkshopHandler struct {
	crud[models.Workshop]
}

func NewWorkshopHandler(docs *store.Collection[models.Workshop]) *WorkshopHandler {
	return &WorkshopHandler{crud[models.Workshop]{docs: docs, kind: "workshop", sort: "date"}}
}

type workshopRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Location    *string `json:"location"`
	Image       *string `json:"image"`
}

// Create handles POST /api/workshops (admin)
func (h *WorkshopHandler) Create(c *gin.Context) {
	var req workshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		response.BadRequest(c, "title is required")
		return
	}
	if req.Date == nil || !validDate(*req.Date) {
		response.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	workshop := &models.Workshop{
		Title:     strings.TrimSpace(*req.Title),
		Date:      *req.Date,
		CreatedAt: time.Now().UTC(),
	}
	if req.Description != nil {
		workshop.Description = *req.Description
	}
	if req.Location != nil {
		workshop.Location = *req.Location
	}
	if req.Image != nil {
		workshop.Image = *req.Image
	}

	id, err := h.docs.Insert(c.Request.Context(), workshop)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "workshop created", gin.H{"id": id})
}

// Update handles PUT /api/workshops/:id (admin)
func (h *WorkshopHandler) Update(c *gin.Context) {
	var req workshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Date != nil {
		if !validDate(*req.Date) {
			response.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		fields["date"] = *req.Date
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	h.update(c, fields)
}

// --- Community events ---

type CommunityHandler struct {
	crud[models.CommunityEvent]
}

func NewCommunityHandler(docs *store.Collection[models.CommunityEvent]) *CommunityHandler {
	return &CommunityHandler{crud[models.CommunityEvent]{docs: docs, kind: "community event", sort: "date"}}
}

type communityRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Image       *string `json:"image"`
}

// Create handles POST /api/community (admin)
func (h *CommunityHandler) Create(c *gin.Context) {
	var req communityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		response.BadRequest(c, "title is required")
		return
	}

	event := &models.CommunityEvent{
		Title:     strings.TrimSpace(*req.Title),
		CreatedAt: time.Now().UTC(),
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		if !validDate(*req.Date) {
			response.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		event.Date = *req.Date
	}
	if req.Image != nil {
		event.Image = *req.Image
	}

	id, err := h.docs.Insert(c.Request.Context(), event)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "community event created", gin.H{"id": id})
}

// Update handles PUT /api/community/:id (admin)
func (h *CommunityHandler) Update(c *gin.Context) {
	var req communityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Date != nil {
		if !validDate(*req.Date) {
			response.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		fields["date"] = *req.Date
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	h.update(c, fields)
}

// --- Board ---

// BoardHandler manages board-of-directors entries. Creating one also
// provisions the linked user account.
type BoardHandler struct {
	crud[models.BoardMember]
	users *services.UserService
}

func NewBoardHandler(docs *store.Collection[models.BoardMember], users *services.UserService) *BoardHandler {
	return &BoardHandler{
		crud:  crud[models.BoardMember]{docs: docs, kind: "board member", sort: "created_at"},
		users: users,
	}
}

// Create handles POST /api/board (admin)
func (h *BoardHandler) Create(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		Role      string `json:"role"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Image     string `json:"image"`
		Committee string `json:"committee"`
		IsAdmin   bool   `json:"is_admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.users.Create(c.Request.Context(), &services.CreateUserRequest{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Committee: req.Committee,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	member := &models.BoardMember{
		UID:       user.UID(),
		Name:      user.Name,
		Role:      user.Role,
		Email:     user.Email,
		Image:     req.Image,
		IsAdmin:   user.IsAdmin,
		Committee: user.Committee,
		CreatedAt: time.Now().UTC(),
	}
	id, err := h.docs.Insert(c.Request.Context(), member)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "board member created", gin.H{"id": id, "uid": user.UID()})
}

// Update handles PUT /api/board/:id (admin)
func (h *BoardHandler) Update(c *gin.Context) {
	var req struct {
		Name      *string `json:"name"`
		Role      *string `json:"role"`
		Image     *string `json:"image"`
		Committee *string `json:"committee"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		fields["role"] = strings.TrimSpace(*req.Role)
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	if req.Committee != nil {
		fields["committee"] = *req.Committee
	}
	h.update(c, fields)
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
