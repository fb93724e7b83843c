package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/service"
	"github.com/sirupsen/logrus"
)

// sessionUserKey - ключ, под которым пользователь сессии лежит в контексте
// запроса. Сессия - явное значение контекста, а не глобальное состояние.
const sessionUserKey = "sessionUser"

// SessionAuthMiddleware - middleware аутентификации по токену сессии.
// Токен передается в заголовке Authorization: Bearer <token>.
func SessionAuthMiddleware(auth service.AuthService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if token == "" {
			log.Warn("Session token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session token required"})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired or not found"})
				return
			}
			log.WithError(err).Error("Failed to authenticate session token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(sessionUserKey, user)
		c.Next()
	}
}

// RequireRoles - middleware ролевого доступа: пропускает запрос, только если
// роль пользователя сессии входит в allow-list маршрута
func RequireRoles(log *logrus.Logger, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := SessionUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		log.WithFields(logrus.Fields{
			"user_id": user.ID,
			"role":    user.Role,
			"path":    c.FullPath(),
		}).Warn("Access denied by role gate")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied for role"})
	}
}

// SessionUser возвращает пользователя текущей сессии из контекста запроса
func SessionUser(c *gin.Context) *models.User {
	val, ok := c.Get(sessionUserKey)
	if !ok {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}
