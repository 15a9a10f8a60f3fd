package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectboard/project-management-api/internal/dto"
	apierrors "github.com/projectboard/project-management-api/internal/errors"
	"github.com/projectboard/project-management-api/internal/middleware"
	"github.com/projectboard/project-management-api/internal/models"
	"github.com/projectboard/project-management-api/internal/services"
)

// AdminHandler handles the privileged admin surface. Routes are mounted behind
// RequireAdmin.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListAllUsers()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserResponses(users)})
}

// DeleteUser handles DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.adminService.DeleteUser(principal.ID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrCannotDeleteSelf):
			apierrors.InvalidOperation(c, "Cannot delete your own account")
		case errors.Is(err, services.ErrUserOwnsProjects):
			apierrors.InvalidOperation(c, "User still owns projects; delete or reassign them first")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// UpdateUserRole handles PATCH /api/admin/users/:id/role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	var req struct {
		Role models.UserRole `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	user, err := h.adminService.UpdateUserRole(userID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrInvalidUserRole):
			apierrors.BadRequest(c, "Invalid role")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserResponse(user)})
}

// ListProjects handles GET /api/admin/projects
func (h *AdminHandler) ListProjects(c *gin.Context) {
	projects, err := h.adminService.ListAllProjects()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectResponses(projects)})
}

// DeleteProject handles DELETE /api/admin/projects/:id
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.adminService.DeleteAnyProject(projectID); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// ListTasks handles GET /api/admin/tasks
func (h *AdminHandler) ListTasks(c *gin.Context) {
	tasks, err := h.adminService.ListAllTasks()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskResponses(tasks)})
}

// DeleteTask handles DELETE /api/admin/tasks/:id
func (h *AdminHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.adminService.DeleteAnyTask(taskID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
