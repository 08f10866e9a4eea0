package handlers

import (
	"errors"
	"net/http"

	"arenax/internal/middleware"
	"arenax/internal/models"
	"arenax/internal/services"

	"github.com/gin-gonic/gin"
)

// RenderError 将服务层错误映射为 HTTP 状态码与 JSON 包体
func RenderError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		conflictErr   *services.ConflictError
		moderationErr *services.ModerationError
		authzErr      *services.AuthorizationError
		timerErr      *services.TimerExpiredError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &moderationErr):
		// 前端需要完整的命中词列表来提示用户改写
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         err.Error(),
			"blocked_words": moderationErr.Words,
		})
	case errors.As(err, &authzErr):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &timerErr):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": "timer_expired"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// CurrentUser 取 LoadUser 中间件塞进上下文的当前用户，未登录返回 nil
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}
