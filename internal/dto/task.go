package dto

import (
	"time"

	"github.com/projectboard/project-management-api/internal/models"
)

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	ProjectID    uint64              `json:"project_id"`
	ProjectTitle string              `json:"project_title,omitempty"`
	AssignedToID *uint64             `json:"assigned_to_id"`
	AssignedTo   *UserResponse       `json:"assigned_to,omitempty"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	DueDate      *time.Time          `json:"due_date"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ToTaskResponse converts a Task model to a TaskResponse
func ToTaskResponse(task *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		ProjectID:    task.ProjectID,
		AssignedToID: task.AssignedToID,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	if task.Project.ID != 0 {
		resp.ProjectTitle = task.Project.Title
	}
	if task.AssignedTo != nil {
		assignee := ToUserResponse(task.AssignedTo)
		resp.AssignedTo = &assignee
	}

	return resp
}

// ToTaskResponses converts a slice of Task models
func ToTaskResponses(tasks []models.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = ToTaskResponse(&tasks[i])
	}
	return responses
}
