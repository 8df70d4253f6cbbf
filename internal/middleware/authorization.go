package middleware

import (
	"errors"
	"net/http"

	"rewards_engine/internal/model"
	"rewards_engine/internal/service"
	"rewards_engine/pkg/auth"
	"rewards_engine/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

const ContextAccountKey = "account"

type Authorization struct {
	userService service.UserServiceI
}

func NewAuthorization(userService service.UserServiceI) *Authorization {
	return &Authorization{
		userService: userService,
	}
}

// RequireActiveUser loads the token's user and rejects suspended or banned accounts.
func (a *Authorization) RequireActiveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := a.loadUser(c)
		if !ok {
			return
		}

		if !user.IsActive() {
			logger.Logger().Info("inactive account rejected",
				zap.String("user_id", user.ID.String()),
				zap.String("status", string(user.Status)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": service.ErrUserInactive.Error()})
			return
		}

		c.Set(ContextAccountKey, user)
		c.Next()
	}
}

func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := a.loadUser(c)
		if !ok {
			return
		}

		if !user.IsAdmin() {
			logger.Logger().Info("unauthorized access attempt to admin endpoint",
				zap.String("user_id", user.ID.String()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Set(ContextAccountKey, user)
		c.Set("is_admin", true)
		c.Next()
	}
}

func (a *Authorization) loadUser(c *gin.Context) (*model.User, bool) {
	log := logger.Logger()

	userData, ok := auth.CurrentUser(c)
	if !ok {
		log.Error("auth user data not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	user, err := a.userService.GetUser(c.Request.Context(), userData.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			log.Info("token refers to unknown user", zap.String("user_id", userData.ID.String()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return nil, false
		}
		log.Error("failed to get user data", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return nil, false
	}

	return user, true
}

// CurrentAccount returns the user loaded by RequireActiveUser or AdminOnly.
func CurrentAccount(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextAccountKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}
