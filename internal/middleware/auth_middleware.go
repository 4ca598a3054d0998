package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusreg/studentreg/internal/app/models"
	"github.com/campusreg/studentreg/internal/app/models/dto"
	"github.com/campusreg/studentreg/internal/app/repositories"
	"github.com/campusreg/studentreg/internal/pkg/apperrors"
	"github.com/campusreg/studentreg/internal/pkg/auth"
)

// callerContextKey is the gin context key holding the authenticated caller
const callerContextKey = "caller"

// AuthMiddleware handles authentication and role checks
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   repositories.IUserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo repositories.IUserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// JWTAuth validates the bearer token and loads the caller identity.
// A token whose user has since been deleted is rejected; token validity
// is otherwise stateless.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized: missing Bearer token"))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			message := "Unauthorized: invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Unauthorized: token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(message))
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized: invalid token"))
			return
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized: user not found"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error"))
			return
		}

		c.Set(callerContextKey, models.Caller{
			ID:    user.ID,
			Role:  user.Role,
			Email: user.Email,
			Name:  user.Name,
		})

		c.Next()
	}
}

// RoleRequired restricts a route to the given roles. Must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized"))
			return
		}

		for _, role := range roles {
			if caller.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse("Forbidden: insufficient permissions"))
	}
}

// GetCaller returns the authenticated caller stored by JWTAuth
func GetCaller(c *gin.Context) (models.Caller, bool) {
	value, exists := c.Get(callerContextKey)
	if !exists {
		return models.Caller{}, false
	}
	caller, ok := value.(models.Caller)
	return caller, ok
}
