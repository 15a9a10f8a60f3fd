package handlers

import (
	"encoding/json"
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

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
	aiService   *services.AIService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		aiService:   aiService,
	}
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		ProjectID   uint64              `json:"project_id" binding:"required"`
		AssignedTo  *uint64             `json:"assigned_to"`
		Priority    models.TaskPriority `json:"priority"`
		DueDate     *time.Time          `json:"due_date"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.CreateTask(principal, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": dto.ToTaskResponse(task)})
}

// ListMine handles GET /api/tasks/my-tasks
func (h *TaskHandler) ListMine(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListMyTasks(principal)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskResponses(tasks)})
}

// ListByProject handles GET /api/tasks/project/:projectId
func (h *TaskHandler) ListByProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	tasks, err := h.taskService.ListProjectTasks(projectID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskResponses(tasks)})
}

// Update handles PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	// assigned_to needs key-presence detection: an explicit null clears the
	// assignment, an absent key leaves it alone.
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	input := services.UpdateTaskInput{}
	if err := decodeTaskUpdate(raw, &input); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(principal, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskResponse(task)})
}

// UpdateStatus handles PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateStatus(principal, taskID, req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskResponse(task)})
}

// Assign handles PATCH /api/tasks/:id/assign
func (h *TaskHandler) Assign(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.AssignTask(principal, taskID, req.UserID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskResponse(task)})
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(principal, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// Generate handles POST /api/tasks/generate
func (h *TaskHandler) Generate(c *gin.Context) {
	if _, ok := middleware.GetPrincipal(c); !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI task generation is not configured")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	suggestions, err := h.aiService.SuggestTasksFromText(c.Request.Context(), req.Text)
	if err != nil {
		apierrors.ServiceUnavailable(c, "Failed to generate task suggestions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": suggestions})
}

func decodeTaskUpdate(raw map[string]json.RawMessage, input *services.UpdateTaskInput) error {
	unmarshal := func(key string, dst interface{}) error {
		msg, ok := raw[key]
		if !ok {
			return nil
		}
		return json.Unmarshal(msg, dst)
	}

	if err := unmarshal("title", &input.Title); err != nil {
		return errors.New("invalid title")
	}
	if err := unmarshal("description", &input.Description); err != nil {
		return errors.New("invalid description")
	}
	if err := unmarshal("status", &input.Status); err != nil {
		return errors.New("invalid status")
	}
	if err := unmarshal("priority", &input.Priority); err != nil {
		return errors.New("invalid priority")
	}
	if err := unmarshal("due_date", &input.DueDate); err != nil {
		return errors.New("invalid due_date")
	}
	if msg, ok := raw["assigned_to"]; ok {
		input.AssignedToSet = true
		if err := json.Unmarshal(msg, &input.AssignedTo); err != nil {
			return errors.New("invalid assigned_to")
		}
	}
	return nil
}

// respondTaskError maps task service errors to HTTP responses.
func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, authz.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, authz.ErrNotTeamMember):
		apierrors.InvalidOperation(c, "Assignee is not a team member")
	case errors.Is(err, services.ErrTaskTitleRequired):
		apierrors.BadRequest(c, "Title is required")
	case errors.Is(err, services.ErrInvalidTaskStatus):
		apierrors.BadRequest(c, "Invalid task status")
	case errors.Is(err, services.ErrInvalidTaskPriority):
		apierrors.BadRequest(c, "Invalid task priority")
	default:
		apierrors.InternalError(c, "")
	}
}
