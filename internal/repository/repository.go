package repository

import (
	"github.com/projectboard/project-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns all users, newest first
	List() ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes a user
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and the owner's membership row in a
	// single transaction
	CreateWithOwner(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListForUser returns projects the user owns or is a member of, newest first
	ListForUser(userID uint64) ([]models.Project, error)

	// ListAll returns every project, newest first
	ListAll() ([]models.Project, error)

	// Update persists changes to a project
	Update(project *models.Project) error

	// Delete removes a project record (and nothing else)
	Delete(id uint64) error

	// AddMember adds a team member row
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a team member row; removing an absent row is a no-op
	RemoveMember(projectID, userID uint64) error

	// RemoveAllMembers removes every membership row of a project
	RemoveAllMembers(projectID uint64) error

	// ListMembers lists a project's team member rows with users preloaded
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// CountOwnedBy counts projects owned by a user
	CountOwnedBy(ownerID uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject returns a project's tasks, newest first
	ListByProject(projectID uint64) ([]models.Task, error)

	// ListByAssignee returns tasks assigned to a user, due date ascending
	ListByAssignee(userID uint64) ([]models.Task, error)

	// ListAll returns every task, newest first
	ListAll() ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error

	// DeleteByProject removes every task belonging to a project
	DeleteByProject(projectID uint64) error
}

// GroupCount is one bucket of a group-by aggregation. The column aliases
// avoid reserved words so the same query runs on mysql, postgres and sqlite.
type GroupCount struct {
	Key   string `gorm:"column:bucket" json:"key"`
	Count int64  `gorm:"column:total" json:"count"`
}

// StatsRepository defines the aggregations behind the admin dashboard
type StatsRepository interface {
	// CountUsers returns the total number of users
	CountUsers() (int64, error)

	// CountProjects returns the total number of projects
	CountProjects() (int64, error)

	// CountTasks returns the total number of tasks
	CountTasks() (int64, error)

	// TasksByStatus groups task counts by status
	TasksByStatus() ([]GroupCount, error)

	// TasksByPriority groups task counts by priority
	TasksByPriority() ([]GroupCount, error)

	// ProjectsByStatus groups project counts by status
	ProjectsByStatus() ([]GroupCount, error)

	// UsersByRole groups user counts by role
	UsersByRole() ([]GroupCount, error)

	// RecentUsers returns the most recently created users
	RecentUsers(limit int) ([]models.User, error)

	// RecentProjects returns the most recently created projects with owners
	RecentProjects(limit int) ([]models.Project, error)
}
