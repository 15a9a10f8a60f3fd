package repository

import (
	"time"

	"github.com/projectboard/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithOwner creates the project and the owner's membership row
// atomically, so owner-in-team holds from the first observable state.
func (r *GormProjectRepository) CreateWithOwner(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.OwnerID,
			AddedAt:   time.Now(),
		}

		return tx.Create(member).Error
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListForUser returns projects the user owns or is a member of, newest first
func (r *GormProjectRepository) ListForUser(userID uint64) ([]models.Project, error) {
	var projects []models.Project

	memberSubQuery := r.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	err := r.db.
		Preload("Owner").
		Preload("Members").
		Preload("Members.User").
		Where("owner_id = ? OR id IN (?)", userID, memberSubQuery).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}

// ListAll returns every project, newest first
func (r *GormProjectRepository) ListAll() ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Preload("Owner").
		Preload("Members").
		Preload("Members.User").
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Update persists changes to a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes the project record only. Task and membership cleanup are
// separate calls issued by the service, tasks first.
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Project{}, id).Error
}

// AddMember adds a team member row
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a team member row; removing an absent row is a no-op
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// RemoveAllMembers removes every membership row of a project
func (r *GormProjectRepository) RemoveAllMembers(projectID uint64) error {
	return r.db.Where("project_id = ?", projectID).
		Delete(&models.ProjectMember{}).Error
}

// ListMembers lists a project's team member rows with users preloaded
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CountOwnedBy counts projects owned by a user
func (r *GormProjectRepository) CountOwnedBy(ownerID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}
