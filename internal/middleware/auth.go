package middleware

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/projectboard/project-management-api/internal/authz"
	"github.com/projectboard/project-management-api/internal/constants"
	"github.com/projectboard/project-management-api/internal/database"
	apierrors "github.com/projectboard/project-management-api/internal/errors"
	"github.com/projectboard/project-management-api/internal/models"
	"gorm.io/gorm"
)

// RequireAuth checks the session, loads the user's role, and stores the
// resolved principal in the request context. Every policy decision downstream
// works from this principal; nothing trusts client-supplied identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		rawUserID := session.Get(constants.ContextKeyUserID)

		userID, ok := toUserID(rawUserID)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Stale session for a deleted user.
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserRole, user.Role)
		c.Next()
	}
}

// RequireAdmin rejects principals without the admin role. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !principal.IsAdmin() {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetPrincipal retrieves the resolved principal from the request context.
func GetPrincipal(c *gin.Context) (authz.Principal, bool) {
	rawID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return authz.Principal{}, false
	}

	userID, ok := toUserID(rawID)
	if !ok {
		return authz.Principal{}, false
	}

	role := models.RoleMember
	if rawRole, exists := c.Get(constants.ContextKeyUserRole); exists {
		if r, ok := rawRole.(models.UserRole); ok {
			role = r
		}
	}

	return authz.Principal{ID: userID, Role: role}, true
}

func toUserID(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
