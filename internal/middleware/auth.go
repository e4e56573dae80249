package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/internal/repository"
	"rtis.uz/deptrecords/internal/service"
)

type AuthMiddleware struct {
	userRepo repository.UserRepository
	secret   string
}

func NewAuthMiddleware(userRepo repository.UserRepository, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		secret:   secret,
	}
}

// RequireAuth validates an access token and loads the caller's profile
// into the context. Refresh tokens are rejected here; they are only
// accepted by the refresh endpoint itself.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		claims, err := service.ParseToken(m.secret, tokenString, service.TokenTypeAccess)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}

		profile, err := m.userRepo.FindProfileByUserID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}

		c.Set("user_id", userID.String())
		c.Set("profile", profile)
		c.Next()
	}
}

// RequireRoles lets the request through only when the caller's role is
// one of the given set. It must run after RequireAuth.
func (m *AuthMiddleware) RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := ActorProfile(c)
		if profile == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if profile.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		c.Abort()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRoles(model.RoleAdmin)
}

// RequireTeacherAccess admits teachers and HODs but not admins, who
// have no personal record space of their own.
func (m *AuthMiddleware) RequireTeacherAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := ActorProfile(c)
		if profile == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		if !profile.Role.HasTeacherAccess() {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ActorProfile returns the authenticated caller's profile, or nil when
// the request never passed RequireAuth.
func ActorProfile(c *gin.Context) *model.Profile {
	value, exists := c.Get("profile")
	if !exists {
		return nil
	}
	profile, ok := value.(*model.Profile)
	if !ok {
		return nil
	}
	return profile
}
