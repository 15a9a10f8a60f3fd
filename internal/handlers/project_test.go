package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/projectboard/project-management-api/internal/constants"
	"github.com/projectboard/project-management-api/internal/models"
	"github.com/projectboard/project-management-api/internal/repository"
	"github.com/projectboard/project-management-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	handler     *ProjectHandler
	teamHandler *TeamHandler
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	projectService := services.NewProjectService(
		repository.NewProjectRepository(suite.db),
		repository.NewTaskRepository(suite.db),
		repository.NewUserRepository(suite.db),
	)
	suite.handler = NewProjectHandler(projectService)
	suite.teamHandler = NewTeamHandler(projectService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProjectHandlerTestSuite) createTestUser(email string, role models.UserRole) *models.User {
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.db.Create(user)
	return user
}

func (suite *ProjectHandlerTestSuite) createTestProject(owner *models.User) *models.Project {
	project := &models.Project{
		Title:   "Test Project",
		OwnerID: owner.ID,
		Status:  models.ProjectStatusPlanning,
	}
	suite.db.Create(project)
	suite.db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: owner.ID})
	return project
}

// createAuthContext builds a test context with the principal resolved, as if
// RequireAuth had run.
func (suite *ProjectHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyUserRole, user.Role)

	return c, w
}

func (suite *ProjectHandlerTestSuite) setIDParam(c *gin.Context, name string, id uint64) {
	c.Params = gin.Params{{Key: name, Value: strconv.FormatUint(id, 10)}}
}

func (suite *ProjectHandlerTestSuite) TestCreate_Success() {
	user := suite.createTestUser("owner@example.com", models.RoleMember)

	body, _ := json.Marshal(map[string]string{"title": "New Project"})
	c, w := suite.createAuthContext("POST", "/api/projects", body, user)

	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response struct {
		Project struct {
			ID      uint64 `json:"id"`
			OwnerID uint64 `json:"owner_id"`
			Status  string `json:"status"`
		} `json:"project"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), user.ID, response.Project.OwnerID)
	assert.Equal(suite.T(), "planning", response.Project.Status)
}

func (suite *ProjectHandlerTestSuite) TestCreate_MissingTitle() {
	user := suite.createTestUser("owner@example.com", models.RoleMember)

	body, _ := json.Marshal(map[string]string{"description": "no title"})
	c, w := suite.createAuthContext("POST", "/api/projects", body, user)

	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestGet_NotFound() {
	user := suite.createTestUser("owner@example.com", models.RoleMember)

	c, w := suite.createAuthContext("GET", "/api/projects/999", nil, user)
	suite.setIDParam(c, "id", 999)

	suite.handler.Get(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestGet_ForbiddenForStranger() {
	owner := suite.createTestUser("owner@example.com", models.RoleMember)
	stranger := suite.createTestUser("stranger@example.com", models.RoleMember)
	project := suite.createTestProject(owner)

	c, w := suite.createAuthContext("GET", "/api/projects/1", nil, stranger)
	suite.setIDParam(c, "id", project.ID)

	suite.handler.Get(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestGet_AdminOverride() {
	owner := suite.createTestUser("owner@example.com", models.RoleMember)
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin)
	project := suite.createTestProject(owner)

	c, w := suite.createAuthContext("GET", "/api/projects/1", nil, admin)
	suite.setIDParam(c, "id", project.ID)

	suite.handler.Get(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestUpdate_InvalidStatus() {
	owner := suite.createTestUser("owner@example.com", models.RoleMember)
	project := suite.createTestProject(owner)

	body, _ := json.Marshal(map[string]string{"status": "cancelled"})
	c, w := suite.createAuthContext("PUT", "/api/projects/1", body, owner)
	suite.setIDParam(c, "id", project.ID)

	suite.handler.Update(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestDelete_Success() {
	owner := suite.createTestUser("owner@example.com", models.RoleMember)
	project := suite.createTestProject(owner)
	suite.db.Create(&models.Task{Title: "Task", ProjectID: project.ID})

	c, w := suite.createAuthContext("DELETE", "/api/projects/1", nil, owner)
	suite.setIDParam(c, "id", project.ID)

	suite.handler.Delete(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var taskCount int64
	suite.db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&taskCount)
	assert.Zero(suite.T(), taskCount)
}

// Adding someone who is already on the team is a business rule violation,
// not a resource conflict, and comes back as 400.
func (suite *ProjectHandlerTestSuite) TestTeamAdd_DuplicateMember() {
	owner := suite.createTestUser("owner@example.com", models.RoleMember)
	member := suite.createTestUser("member@example.com", models.RoleMember)
	project := suite.createTestProject(owner)

	body, _ := json.Marshal(map[string]uint64{"user_id": member.ID})
	c, w := suite.createAuthContext("POST", "/api/team/1/add", body, owner)
	suite.setIDParam(c, "projectId", project.ID)

	suite.teamHandler.Add(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	c, w = suite.createAuthContext("POST", "/api/team/1/add", body, owner)
	suite.setIDParam(c, "projectId", project.ID)

	suite.teamHandler.Add(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response struct {
		Code string `json:"code"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "INVALID_OPERATION", response.Code)
}

func (suite *ProjectHandlerTestSuite) TestTeamRemove_OwnerRejected() {
	owner := suite.createTestUser("owner@example.com", models.RoleMember)
	project := suite.createTestProject(owner)

	body, _ := json.Marshal(map[string]uint64{"user_id": owner.ID})
	c, w := suite.createAuthContext("POST", "/api/team/1/remove", body, owner)
	suite.setIDParam(c, "projectId", project.ID)

	suite.teamHandler.Remove(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestTeamList_ForbiddenForStranger() {
	owner := suite.createTestUser("owner@example.com", models.RoleMember)
	stranger := suite.createTestUser("stranger@example.com", models.RoleMember)
	project := suite.createTestProject(owner)

	c, w := suite.createAuthContext("GET", "/api/team/1", nil, stranger)
	suite.setIDParam(c, "projectId", project.ID)

	suite.teamHandler.List(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
