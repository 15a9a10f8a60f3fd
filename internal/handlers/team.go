package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectboard/project-management-api/internal/authz"
	"github.com/projectboard/project-management-api/internal/dto"
	apierrors "github.com/projectboard/project-management-api/internal/errors"
	"github.com/projectboard/project-management-api/internal/middleware"
	"github.com/projectboard/project-management-api/internal/services"
)

// TeamHandler handles project team endpoints.
type TeamHandler struct {
	projectService *services.ProjectService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(projectService *services.ProjectService) *TeamHandler {
	return &TeamHandler{projectService: projectService}
}

// List handles GET /api/team/:projectId
func (h *TeamHandler) List(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	members, err := h.projectService.ListTeamMembers(principal, projectID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToTeamMemberResponses(members)})
}

// Add handles POST /api/team/:projectId/add
func (h *TeamHandler) Add(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	var req struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.AddTeamMember(principal, projectID, req.UserID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": dto.ToProjectResponse(project)})
}

// Remove handles POST /api/team/:projectId/remove
func (h *TeamHandler) Remove(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	var req struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.RemoveTeamMember(principal, projectID, req.UserID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": dto.ToProjectResponse(project)})
}

// respondTeamError maps team management errors to HTTP responses.
func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, authz.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, authz.ErrCannotRemoveOwner):
		apierrors.InvalidOperation(c, "Cannot remove project owner")
	case errors.Is(err, services.ErrAlreadyTeamMember):
		apierrors.InvalidOperation(c, "User is already a team member")
	default:
		apierrors.InternalError(c, "")
	}
}
