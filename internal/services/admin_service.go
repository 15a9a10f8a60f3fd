package services

import (
	"errors"
	"fmt"

	"github.com/projectboard/project-management-api/internal/constants"
	"github.com/projectboard/project-management-api/internal/models"
	"github.com/projectboard/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidUserRole  = errors.New("invalid user role")
	ErrUserOwnsProjects = errors.New("user still owns projects")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

// AdminService implements the privileged admin surface. Callers must already
// be authenticated as admins; the route group enforces that, so these methods
// do not re-check the role.
type AdminService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	statsRepo   repository.StatsRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, statsRepo repository.StatsRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		statsRepo:   statsRepo,
	}
}

// ListAllProjects returns every project, newest first.
func (s *AdminService) ListAllProjects() ([]models.Project, error) {
	projects, err := s.projectRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// DeleteAnyProject cascades like a member delete but bypasses ownership.
// Same ordering: tasks first, project record last.
func (s *AdminService) DeleteAnyProject(projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.taskRepo.DeleteByProject(projectID); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}
	if err := s.projectRepo.RemoveAllMembers(projectID); err != nil {
		return fmt.Errorf("failed to delete project members: %w", err)
	}
	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListAllTasks returns every task, newest first.
func (s *AdminService) ListAllTasks() ([]models.Task, error) {
	tasks, err := s.taskRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// DeleteAnyTask removes a task regardless of ownership.
func (s *AdminService) DeleteAnyTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ListAllUsers returns every user, newest first.
func (s *AdminService) ListAllUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user. Deletion is refused while the user still owns
// projects, so project ownership never dangles; team memberships and task
// assignments are weak references and are left to point at the removed ID.
func (s *AdminService) DeleteUser(actorID, userID uint64) error {
	if actorID == userID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	owned, err := s.projectRepo.CountOwnedBy(userID)
	if err != nil {
		return fmt.Errorf("failed to count owned projects: %w", err)
	}
	if owned > 0 {
		return ErrUserOwnsProjects
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// UpdateUserRole sets a user's role.
func (s *AdminService) UpdateUserRole(userID uint64, role models.UserRole) (*models.User, error) {
	if role != models.RoleMember && role != models.RoleAdmin {
		return nil, ErrInvalidUserRole
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	return user, nil
}

// DashboardStats is the aggregate view behind the admin dashboard.
type DashboardStats struct {
	Totals struct {
		Users    int64 `json:"users"`
		Projects int64 `json:"projects"`
		Tasks    int64 `json:"tasks"`
	} `json:"totals"`
	TasksByStatus    []repository.GroupCount `json:"tasks_by_status"`
	TasksByPriority  []repository.GroupCount `json:"tasks_by_priority"`
	ProjectsByStatus []repository.GroupCount `json:"projects_by_status"`
	UsersByRole      []repository.GroupCount `json:"users_by_role"`
	RecentUsers      []models.User           `json:"recent_users"`
	RecentProjects   []models.Project        `json:"recent_projects"`
}

// GetDashboardStats collects totals, group-by breakdowns and the most recent
// users and projects.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.Totals.Users, err = s.statsRepo.CountUsers(); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.Totals.Projects, err = s.statsRepo.CountProjects(); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if stats.Totals.Tasks, err = s.statsRepo.CountTasks(); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	if stats.TasksByStatus, err = s.statsRepo.TasksByStatus(); err != nil {
		return nil, fmt.Errorf("failed to group tasks by status: %w", err)
	}
	if stats.TasksByPriority, err = s.statsRepo.TasksByPriority(); err != nil {
		return nil, fmt.Errorf("failed to group tasks by priority: %w", err)
	}
	if stats.ProjectsByStatus, err = s.statsRepo.ProjectsByStatus(); err != nil {
		return nil, fmt.Errorf("failed to group projects by status: %w", err)
	}
	if stats.UsersByRole, err = s.statsRepo.UsersByRole(); err != nil {
		return nil, fmt.Errorf("failed to group users by role: %w", err)
	}

	if stats.RecentUsers, err = s.statsRepo.RecentUsers(constants.RecentEntityLimit); err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	if stats.RecentProjects, err = s.statsRepo.RecentProjects(constants.RecentEntityLimit); err != nil {
		return nil, fmt.Errorf("failed to list recent projects: %w", err)
	}

	return stats, nil
}
