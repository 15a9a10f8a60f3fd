package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/projectboard/project-management-api/internal/authz"
	"github.com/projectboard/project-management-api/internal/models"
	"github.com/projectboard/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskTitleRequired   = errors.New("title is required")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
)

// TaskService orchestrates the authorization policy and the task store.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository

	// strictStatusUpdate closes the historical hole in UpdateStatus by
	// requiring project membership. Off by default for compatibility.
	strictStatusUpdate bool
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, strictStatusUpdate bool) *TaskService {
	return &TaskService{
		taskRepo:           taskRepo,
		projectRepo:        projectRepo,
		strictStatusUpdate: strictStatusUpdate,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   uint64
	AssignedTo  *uint64
	Priority    models.TaskPriority
	DueDate     *time.Time
}

// CreateTask creates a task in a project the principal is a team member of.
// Membership is required of admins too. Status defaults to todo and priority
// to medium.
func (s *TaskService) CreateTask(principal authz.Principal, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTaskTitleRequired
	}

	project, err := s.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	acl := authz.ACL(project)
	if err := authz.CanProject(principal, acl, authz.ActionCreateTask); err != nil {
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(input.Priority) {
		return nil, ErrInvalidTaskPriority
	}

	if input.AssignedTo != nil && !acl.IsMember(*input.AssignedTo) {
		return nil, authz.ErrNotTeamMember
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		ProjectID:    input.ProjectID,
		AssignedToID: input.AssignedTo,
		Status:       models.TaskStatusTodo,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "AssignedTo")
}

// ListProjectTasks returns a project's tasks, newest first. The query itself
// is not membership-checked; only project existence is verified. This mirrors
// the historical behavior of the endpoint.
func (s *TaskService) ListProjectTasks(projectID uint64) ([]models.Task, error) {
	if _, err := s.findProject(projectID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListMyTasks returns tasks assigned to the principal, due date ascending.
// The filter scopes access by itself; no ownership check is needed.
func (s *TaskService) ListMyTasks(principal authz.Principal) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByAssignee(principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTaskInput represents a partial task update. Empty strings and nil
// values leave fields untouched, with one exception: AssignedToSet marks that
// the assigned_to key was present in the request, in which case a nil
// AssignedTo clears the assignment.
type UpdateTaskInput struct {
	Title         string
	Description   string
	Status        models.TaskStatus
	Priority      models.TaskPriority
	DueDate       *time.Time
	AssignedTo    *uint64
	AssignedToSet bool
}

// UpdateTask applies a partial update. Any team member of the task's project
// may update any of its tasks; this is intentionally broader than project
// update.
func (s *TaskService) UpdateTask(principal authz.Principal, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, project, err := s.findTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}

	acl := authz.ACL(project)
	if err := authz.CanProject(principal, acl, authz.ActionRead); err != nil {
		return nil, err
	}

	if input.Status != "" && !models.ValidTaskStatus(input.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority != "" && !models.ValidTaskPriority(input.Priority) {
		return nil, ErrInvalidTaskPriority
	}

	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Description != "" {
		task.Description = input.Description
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.AssignedToSet {
		task.AssignedToID = input.AssignedTo
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "AssignedTo")
}

// UpdateStatus sets a task's status. By default any authenticated principal
// may call this for any task, membership or not; transitions between statuses
// are unrestricted. With strictStatusUpdate enabled, project membership is
// required like every other task mutation.
func (s *TaskService) UpdateStatus(principal authz.Principal, taskID uint64, status models.TaskStatus) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	task, project, err := s.findTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}

	if s.strictStatusUpdate {
		if err := authz.CanProject(principal, authz.ACL(project), authz.ActionRead); err != nil {
			return nil, err
		}
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "AssignedTo")
}

// AssignTask assigns a task to a team member of its project.
func (s *TaskService) AssignTask(principal authz.Principal, taskID, userID uint64) (*models.Task, error) {
	task, project, err := s.findTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanAssignTask(principal, authz.ACL(project), userID); err != nil {
		return nil, err
	}

	task.AssignedToID = &userID
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "AssignedTo")
}

// DeleteTask removes a task. Any team member of the task's project may do it.
func (s *TaskService) DeleteTask(principal authz.Principal, taskID uint64) error {
	task, project, err := s.findTaskWithProject(taskID)
	if err != nil {
		return err
	}

	if err := authz.CanProject(principal, authz.ACL(project), authz.ActionRead); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *TaskService) findTaskWithProject(taskID uint64) (*models.Task, *models.Project, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, fmt.Errorf("failed to find task: %w", err)
	}

	project, err := s.findProject(task.ProjectID)
	if err != nil {
		return nil, nil, err
	}

	return task, project, nil
}
