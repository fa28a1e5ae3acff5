package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/clubhq/clubhub/backend/internal/middleware"
	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/services"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// ProjectHandler serves the project lifecycle surface.
type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	id, err := h.projects.Create(c.Request.Context(), middleware.CallerFrom(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "project created", gin.H{"id": id})
}

// List handles GET /api/projects. ?approved=true|false filters on
// approval state.
func (h *ProjectHandler) List(c *gin.Context) {
	var approved *bool
	switch c.Query("approved") {
	case "true":
		v := true
		approved = &v
	case "false":
		v := false
		approved = &v
	}

	projects, err := h.projects.List(c.Request.Context(), approved)
	if err != nil {
		response.Error(c, err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	response.OK(c, "ok", projects)
}

// Get handles GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", project)
}

// Update handles PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	err := h.projects.Update(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "project updated", nil)
}

// Delete handles DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	err := h.projects.Delete(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "project deleted", nil)
}

// Approve handles PUT /api/projects/:id/approve
func (h *ProjectHandler) Approve(c *gin.Context) {
	var req struct {
		Points *int `json:"points"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	err := h.projects.Approve(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), req.Points)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "project approved", nil)
}

// Decline handles POST /api/projects/:id/decline
func (h *ProjectHandler) Decline(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	err := h.projects.Decline(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "project declined", nil)
}

// Join handles PUT /api/projects/:id/join
func (h *ProjectHandler) Join(c *gin.Context) {
	err := h.projects.RequestJoin(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "join request submitted", nil)
}

// ApproveMember handles PUT /api/projects/:id/members/:uid/approve
func (h *ProjectHandler) ApproveMember(c *gin.Context) {
	err := h.projects.ApproveMember(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), c.Param("uid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "member approved", nil)
}

// DeclineMember handles PUT /api/projects/:id/members/:uid/decline
func (h *ProjectHandler) DeclineMember(c *gin.Context) {
	err := h.projects.DeclineMember(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), c.Param("uid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "join request declined", nil)
}

// RequestCompletion handles POST /api/projects/:id/completion/request
func (h *ProjectHandler) RequestCompletion(c *gin.Context) {
	err := h.projects.RequestCompletion(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "completion requested", nil)
}

// ApproveCompletion handles PUT /api/projects/:id/completion/approve
func (h *ProjectHandler) ApproveCompletion(c *gin.Context) {
	err := h.projects.ApproveCompletion(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "project completed", nil)
}

// DeclineCompletion handles PUT /api/projects/:id/completion/decline
func (h *ProjectHandler) DeclineCompletion(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	err := h.projects.DeclineCompletion(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "completion declined", nil)
}
