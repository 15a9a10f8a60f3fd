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
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectTitleRequired = errors.New("title is required")
	ErrInvalidProjectStatus = errors.New("invalid project status")
	ErrAlreadyTeamMember    = errors.New("user is already a team member")
)

// ProjectService orchestrates the authorization policy and the project store.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Title       string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

// CreateProject creates a project owned by the principal. The owner becomes
// the first team member in the same transaction.
func (s *ProjectService) CreateProject(principal authz.Principal, input CreateProjectInput) (*models.Project, error) {
	if input.Title == "" {
		return nil, ErrProjectTitleRequired
	}

	project := &models.Project{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     principal.ID,
		Status:      models.ProjectStatusPlanning,
		EndDate:     input.EndDate,
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	} else {
		project.StartDate = time.Now()
	}

	if err := s.projectRepo.CreateWithOwner(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Owner", "Members", "Members.User")
}

// ListProjects returns projects the principal owns or belongs to, newest first.
func (s *ProjectService) ListProjects(principal authz.Principal) ([]models.Project, error) {
	projects, err := s.projectRepo.ListForUser(principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project together with its tasks. Existence is checked
// before permission, so unknown IDs yield not-found rather than forbidden.
func (s *ProjectService) GetProject(principal authz.Principal, projectID uint64) (*models.Project, []models.Task, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, nil, err
	}

	if err := authz.CanProject(principal, authz.ACL(project), authz.ActionRead); err != nil {
		return nil, nil, err
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list project tasks: %w", err)
	}

	return project, tasks, nil
}

// UpdateProjectInput represents a partial project update. Empty strings and
// nil dates leave the current values untouched; a field can therefore never
// be cleared through this operation.
type UpdateProjectInput struct {
	Title       string
	Description string
	Status      models.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateProject applies a partial update. Owner only.
func (s *ProjectService) UpdateProject(principal authz.Principal, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanProject(principal, authz.ACL(project), authz.ActionUpdate); err != nil {
		return nil, err
	}

	if input.Status != "" && !models.ValidProjectStatus(input.Status) {
		return nil, ErrInvalidProjectStatus
	}

	if input.Title != "" {
		project.Title = input.Title
	}
	if input.Description != "" {
		project.Description = input.Description
	}
	if input.Status != "" {
		project.Status = input.Status
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Owner", "Members", "Members.User")
}

// DeleteProject removes a project and everything it owns. Owner only. Tasks
// go first, the project record last: a failure in between leaves both tasks
// and project present, which a retry can clean up, instead of orphaned tasks.
func (s *ProjectService) DeleteProject(principal authz.Principal, projectID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if err := authz.CanProject(principal, authz.ACL(project), authz.ActionDelete); err != nil {
		return err
	}

	return s.cascadeDelete(projectID)
}

// AddTeamMember appends a user to the project team. Owner only.
func (s *ProjectService) AddTeamMember(principal authz.Principal, projectID, userID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanProject(principal, authz.ACL(project), authz.ActionManageTeam); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if authz.ACL(project).IsMember(userID) {
		return nil, ErrAlreadyTeamMember
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		AddedAt:   time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}

	return s.projectRepo.FindByID(projectID, "Owner", "Members", "Members.User")
}

// RemoveTeamMember removes a user from the project team. Owner only; the
// owner can never be removed. Removing a non-member is a silent no-op.
func (s *ProjectService) RemoveTeamMember(principal authz.Principal, projectID, userID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanRemoveMember(principal, authz.ACL(project), userID); err != nil {
		return nil, err
	}

	if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove team member: %w", err)
	}

	return s.projectRepo.FindByID(projectID, "Owner", "Members", "Members.User")
}

// ListTeamMembers returns a project's team. Any owner or member may read it.
func (s *ProjectService) ListTeamMembers(principal authz.Principal, projectID uint64) ([]models.ProjectMember, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanProject(principal, authz.ACL(project), authz.ActionRead); err != nil {
		return nil, err
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

func (s *ProjectService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// cascadeDelete issues the three deletes sequentially, tasks first.
func (s *ProjectService) cascadeDelete(projectID uint64) error {
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
