package handlers

import (
	"net/http"

	"arenax/internal/db"
	"arenax/internal/models"
	"arenax/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile - GET /u/:id 用户主页
func (h *UserHandler) Profile(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	levelName, levelIcon := utils.GetUserLevel(user.Points)
	daysSince := utils.GetDaysSinceJoined(user.CreatedAt)

	tab := c.DefaultQuery("tab", "debates")

	var debates []models.Debate
	var arguments []models.Argument

	if tab == "debates" {
		// 用户发起的辩论
		db.DB.Preload("Category").Preload("User").
			Where("user_id = ?", user.ID).
			Order("created_at DESC").
			Limit(50).
			Find(&debates)
		fillDebateCounts(debates)
	} else if tab == "arguments" {
		// 用户发表的论点
		db.DB.Preload("Debate").Preload("User").
			Where("user_id = ?", user.ID).
			Order("created_at DESC").
			Limit(50).
			Find(&arguments)
	}

	var debateCount, argumentCount int64
	db.DB.Model(&models.Debate{}).Where("user_id = ?", user.ID).Count(&debateCount)
	db.DB.Model(&models.Argument{}).Where("user_id = ?", user.ID).Count(&argumentCount)

	c.JSON(http.StatusOK, gin.H{
		"user":           user,
		"level_name":     levelName,
		"level_icon":     levelIcon,
		"days_since":     daysSince,
		"debate_count":   debateCount,
		"argument_count": argumentCount,
		"debates":        debates,
		"arguments":      arguments,
		"active_tab":     tab,
	})
}

// PointLogs - GET /dashboard/points 积分明细
func (h *UserHandler) PointLogs(c *gin.Context) {
	user := CurrentUser(c)

	var logs []models.PointLog
	db.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&logs)

	c.JSON(http.StatusOK, gin.H{"points": user.Points, "logs": logs})
}

// Me - GET /dashboard 当前用户概览
func (h *UserHandler) Me(c *gin.Context) {
	user := CurrentUser(c)

	levelName, levelIcon := utils.GetUserLevel(user.Points)

	var participations []models.Participant
	db.DB.Preload("Debate").
		Where("user_id = ?", user.ID).
		Order("joined_at DESC").
		Limit(50).
		Find(&participations)

	c.JSON(http.StatusOK, gin.H{
		"user":           user,
		"level_name":     levelName,
		"level_icon":     levelIcon,
		"participations": participations,
	})
}
