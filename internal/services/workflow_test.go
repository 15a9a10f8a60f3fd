package services

import (
	"testing"

	"github.com/projectboard/project-management-api/internal/authz"
	"github.com/projectboard/project-management-api/internal/models"
	"github.com/projectboard/project-management-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestProjectWorkflow walks one project through its whole life: create,
// staff the team, create and assign a task, complete it, delete the project.
func TestProjectWorkflow(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	projectService := NewProjectService(projectRepo, taskRepo, userRepo)
	taskService := NewTaskService(taskRepo, projectRepo, false)

	userA := &models.User{Name: "A", Email: "a@example.com", PasswordHash: "x", Role: models.RoleMember}
	userB := &models.User{Name: "B", Email: "b@example.com", PasswordHash: "x", Role: models.RoleMember}
	require.NoError(t, db.Create(userA).Error)
	require.NoError(t, db.Create(userB).Error)

	a := authz.Principal{ID: userA.ID, Role: userA.Role}
	b := authz.Principal{ID: userB.ID, Role: userB.Role}

	// A creates the project; status defaults to planning and A is on the team.
	project, err := projectService.CreateProject(a, CreateProjectInput{Title: "Website Redesign"})
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusPlanning, project.Status)
	require.Len(t, project.Members, 1)
	require.Equal(t, userA.ID, project.Members[0].UserID)

	// A creates a task with default status and priority.
	task, err := taskService.CreateTask(a, CreateTaskInput{
		Title:     "Design UI",
		ProjectID: project.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)

	// Assigning to B fails until B joins the team.
	_, err = taskService.AssignTask(a, task.ID, userB.ID)
	require.ErrorIs(t, err, authz.ErrNotTeamMember)

	_, err = projectService.AddTeamMember(a, project.ID, userB.ID)
	require.NoError(t, err)

	assigned, err := taskService.AssignTask(a, task.ID, userB.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedToID)
	require.Equal(t, userB.ID, *assigned.AssignedToID)

	// B completes the task through the open status endpoint.
	completed, err := taskService.UpdateStatus(b, task.ID, models.TaskStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusCompleted, completed.Status)

	// A deletes the project; the task goes with it.
	require.NoError(t, projectService.DeleteProject(a, project.ID))

	_, _, err = projectService.GetProject(a, project.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)

	var remaining int64
	db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&remaining)
	require.Zero(t, remaining)
}
