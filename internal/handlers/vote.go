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

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

// Vote - POST /arguments/:aid/vote {type: upvote|downvote}
// 同类型再投一次取消，换类型改票。响应带实时统计。
func (h *VoteHandler) Vote(c *gin.Context) {
	user := CurrentUser(c)
	aid := c.Param("aid")

	var req struct {
		Type string `json:"type" binding:"required"`
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

	tally, err := services.VoteOnArgument(argument.ID, user.ID, req.Type)
	if err != nil {
		RenderError(c, err)
		return
	}

	// 异步给论点作者记积分：只有真正落了票才算，取消不算
	if tally.UserVote == req.Type && argument.UserID != user.ID {
		if req.Type == models.VoteTypeUp {
			services.AddPointsAsync(argument.UserID, services.PointsArgumentLiked, services.ActionArgumentLiked)
		} else {
			services.AddPointsAsync(argument.UserID, services.PointsArgumentDownvoted, services.ActionArgumentDownvoted)
			// 点踩者自己也扣分
			services.AddPointsAsync(user.ID, services.PointsDownvoteOther, services.ActionDownvoteOther)
		}
	}

	// 主动失效详情页缓存
	utils.GetCache().Delete(fmt.Sprintf("debate:detail:shared:%s", argument.Debate.Did))

	c.JSON(http.StatusOK, gin.H{"tally": tally})
}
