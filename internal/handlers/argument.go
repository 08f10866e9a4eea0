package handlers

import (
	"fmt"
	"net/http"

	"arenax/internal/db"
	"arenax/internal/models"
	"arenax/internal/services"
	"arenax/internal/utils"

	"github.com/gin-gonic/gin"
)

type ArgumentHandler struct{}

func NewArgumentHandler() *ArgumentHandler {
	return &ArgumentHandler{}
}

// Create - POST /debates/:did/arguments {content}
// 阵营由服务端从参与记录取，客户端传的 side 一律忽略
func (h *ArgumentHandler) Create(c *gin.Context) {
	user := CurrentUser(c)
	did := c.Param("did")

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	var debate models.Debate
	if err := db.DB.Where("did = ?", did).First(&debate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "debate not found"})
		return
	}

	if services.IsEnded(&debate, services.Now()) {
		services.GetFinalizerService().Schedule(debate.ID)
		c.JSON(http.StatusConflict, gin.H{"error": "debate has ended"})
		return
	}

	argument, err := services.PostArgument(debate.ID, user.ID, req.Content)
	if err != nil {
		RenderError(c, err)
		return
	}
	argument.ContentHTML = utils.RenderMarkdown(argument.Content)

	services.AddPointsAsync(user.ID, services.PointsArgumentCreate, services.ActionArgumentCreate)

	// 主动失效详情页缓存
	utils.GetCache().Delete(fmt.Sprintf("debate:detail:shared:%s", did))

	c.JSON(http.StatusCreated, gin.H{"argument": argument})
}

// Update - PUT /arguments/:aid {content}
func (h *ArgumentHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	aid := c.Param("aid")

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	var argument models.Argument
	if err := db.DB.Preload("Debate").Where("aid = ?", aid).First(&argument).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "argument not found"})
		return
	}

	updated, err := services.UpdateArgument(argument.ID, user.ID, req.Content)
	if err != nil {
		RenderError(c, err)
		return
	}
	updated.ContentHTML = utils.RenderMarkdown(updated.Content)

	utils.GetCache().Delete(fmt.Sprintf("debate:detail:shared:%s", argument.Debate.Did))

	c.JSON(http.StatusOK, gin.H{"argument": updated})
}

// Delete - DELETE /arguments/:aid
// 连带删除该论点收到的全部投票
func (h *ArgumentHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	aid := c.Param("aid")

	var argument models.Argument
	if err := db.DB.Preload("Debate").Where("aid = ?", aid).First(&argument).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "argument not found"})
		return
	}

	if err := services.DeleteArgument(argument.ID, user.ID); err != nil {
		RenderError(c, err)
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("debate:detail:shared:%s", argument.Debate.Did))

	c.JSON(http.StatusOK, gin.H{"message": "argument deleted"})
}
