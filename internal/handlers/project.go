package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projectboard/project-management-api/internal/authz"
	"github.com/projectboard/project-management-api/internal/dto"
	apierrors "github.com/projectboard/project-management-api/internal/errors"
	"github.com/projectboard/project-management-api/internal/middleware"
	"github.com/projectboard/project-management-api/internal/models"
	"github.com/projectboard/project-management-api/internal/services"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.CreateProject(principal, services.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		if errors.Is(err, services.ErrProjectTitleRequired) {
			apierrors.BadRequest(c, "Title is required")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": dto.ToProjectResponse(project)})
}

// List handles GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjects(principal)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectResponses(projects)})
}

// Get handles GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	project, tasks, err := h.projectService.GetProject(principal, projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": dto.ToProjectResponse(project),
		"tasks":   dto.ToTaskResponses(tasks),
	})
}

// Update handles PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	var req struct {
		Title       string               `json:"title"`
		Description string               `json:"description"`
		Status      models.ProjectStatus `json:"status"`
		StartDate   *time.Time           `json:"start_date"`
		EndDate     *time.Time           `json:"end_date"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(principal, projectID, services.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidProjectStatus) {
			apierrors.BadRequest(c, "Invalid project status")
			return
		}
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": dto.ToProjectResponse(project)})
}

// Delete handles DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.projectService.DeleteProject(principal, projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// respondProjectError maps project service errors to HTTP responses.
func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, authz.ErrForbidden):
		apierrors.Forbidden(c, "")
	default:
		apierrors.InternalError(c, "")
	}
}
