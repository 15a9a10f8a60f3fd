package repository

import (
	"github.com/projectboard/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormStatsRepository is a GORM implementation of StatsRepository
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &GormStatsRepository{db: db}
}

// CountUsers returns the total number of users
func (r *GormStatsRepository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountProjects returns the total number of projects
func (r *GormStatsRepository) CountProjects() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}

// CountTasks returns the total number of tasks
func (r *GormStatsRepository) CountTasks() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Count(&count).Error
	return count, err
}

// TasksByStatus groups task counts by status
func (r *GormStatsRepository) TasksByStatus() ([]GroupCount, error) {
	return r.groupBy(&models.Task{}, "status")
}

// TasksByPriority groups task counts by priority
func (r *GormStatsRepository) TasksByPriority() ([]GroupCount, error) {
	return r.groupBy(&models.Task{}, "priority")
}

// ProjectsByStatus groups project counts by status
func (r *GormStatsRepository) ProjectsByStatus() ([]GroupCount, error) {
	return r.groupBy(&models.Project{}, "status")
}

// UsersByRole groups user counts by role
func (r *GormStatsRepository) UsersByRole() ([]GroupCount, error) {
	return r.groupBy(&models.User{}, "role")
}

func (r *GormStatsRepository) groupBy(model interface{}, column string) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.Model(model).
		Select(column + " AS bucket, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RecentUsers returns the most recently created users
func (r *GormStatsRepository) RecentUsers(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// RecentProjects returns the most recently created projects with owners
func (r *GormStatsRepository) RecentProjects(limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Preload("Owner").
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}
