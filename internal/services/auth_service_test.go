package services

import (
	"testing"

	"github.com/projectboard/project-management-api/internal/models"
	"github.com/projectboard/project-management-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAuthService(repository.NewUserRepository(db))
}

func TestAuthService_Register(t *testing.T) {
	svc := setupAuthService(t)

	user, err := svc.Register(RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, "Alice", user.Name)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, models.RoleMember, user.Role)
	require.NotEqual(t, "supersecret", user.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	// Same address with different casing still collides.
	_, err = svc.Register(RegisterInput{Name: "Alice 2", Email: "ALICE@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Register(RegisterInput{Name: "  ", Email: "a@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Register(RegisterInput{Name: "Bob", Email: "b@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Login(t *testing.T) {
	svc := setupAuthService(t)

	registered, err := svc.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	user, err := svc.Login(LoginInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	_, err = svc.Login(LoginInput{Email: "alice@example.com", Password: "wrongpassword"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
