package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"arenax/internal/db"
	"arenax/internal/models"
	"arenax/internal/services"
	"arenax/internal/utils"

	"github.com/gin-gonic/gin"
)

type DebateHandler struct{}

func NewDebateHandler() *DebateHandler {
	return &DebateHandler{}
}

// fillDebateCounts 批量填充辩论的论点数与参与人数
func fillDebateCounts(debates []models.Debate) {
	if len(debates) == 0 {
		return
	}

	debateIDs := make([]uint, len(debates))
	for i, d := range debates {
		debateIDs[i] = d.ID
	}

	type countResult struct {
		DebateID uint
		Count    int
	}

	var argCounts []countResult
	db.DB.Model(&models.Argument{}).
		Select("debate_id, COUNT(*) as count").
		Where("debate_id IN ?", debateIDs).
		Group("debate_id").
		Scan(&argCounts)

	var partCounts []countResult
	db.DB.Model(&models.Participant{}).
		Select("debate_id, COUNT(*) as count").
		Where("debate_id IN ?", debateIDs).
		Group("debate_id").
		Scan(&partCounts)

	argMap := make(map[uint]int)
	for _, r := range argCounts {
		argMap[r.DebateID] = r.Count
	}
	partMap := make(map[uint]int)
	for _, r := range partCounts {
		partMap[r.DebateID] = r.Count
	}

	for i := range debates {
		debates[i].ArgumentCount = argMap[debates[i].ID]
		debates[i].ParticipantCount = partMap[debates[i].ID]
	}
}

// scheduleOverdue 读路径发现到点未定局的场次就排进定局队列
func scheduleOverdue(debates []models.Debate) {
	now := services.Now()
	for i := range debates {
		if debates[i].Status == models.DebateStatusLive && services.IsEnded(&debates[i], now) {
			services.GetFinalizerService().Schedule(debates[i].ID)
		}
	}
}

// List - GET /debates?status=live&category=1&page=1
func (h *DebateHandler) List(c *gin.Context) {
	status := c.DefaultQuery("status", string(models.DebateStatusLive))
	if status != string(models.DebateStatusLive) && status != string(models.DebateStatusEnded) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be live or ended"})
		return
	}
	categoryID := utils.StringToUint(c.Query("category"))

	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}

	cacheKey := fmt.Sprintf("debate:list:%s:%d:%d", status, categoryID, page)
	if cachedData := utils.GetCache().Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			c.JSON(http.StatusOK, hData)
			return
		}
	}

	perPage := 30
	offset := (page - 1) * perPage

	query := db.DB.Model(&models.Debate{}).Where("status = ?", status)
	if categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	query.Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var debates []models.Debate
	find := db.DB.Preload("User").Preload("Category").Where("status = ?", status)
	if categoryID > 0 {
		find = find.Where("category_id = ?", categoryID)
	}
	find.Order("created_at DESC").Limit(perPage).Offset(offset).Find(&debates)

	fillDebateCounts(debates)
	scheduleOverdue(debates)

	renderData := gin.H{
		"debates":      debates,
		"status":       status,
		"current_page": page,
		"total_pages":  totalPages,
	}

	// 写入缓存，有效期 1 分钟
	utils.GetCache().Set(cacheKey, renderData, 1*time.Minute)

	c.JSON(http.StatusOK, renderData)
}

// Create - POST /debates
func (h *DebateHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req struct {
		Title         string   `json:"title" binding:"required"`
		Description   string   `json:"description"`
		CategoryID    uint     `json:"category_id"`
		Tags          []string `json:"tags"`
		DurationHours int      `json:"duration_hours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	debate, err := services.CreateDebate(services.CreateDebateInput{
		CreatorID:     user.ID,
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Tags:          req.Tags,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		RenderError(c, err)
		return
	}

	services.AddPointsAsync(user.ID, services.PointsDebateCreate, services.ActionDebateCreate)

	// 列表第一页失效
	utils.GetCache().Delete(fmt.Sprintf("debate:list:%s:%d:%d", models.DebateStatusLive, 0, 1))

	c.JSON(http.StatusCreated, gin.H{"debate": debate, "tags": debate.TagList()})
}

// Detail - GET /debates/:did
// 共享缓存存公共部分，当前用户的投票与参与状态每次实时取
func (h *DebateHandler) Detail(c *gin.Context) {
	did := c.Param("did")

	userID := uint(0)
	if user := CurrentUser(c); user != nil {
		userID = user.ID
	}

	cacheKey := fmt.Sprintf("debate:detail:shared:%s", did)
	if cachedData := utils.GetCache().Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			if debate, ok := hData["debate"].(*models.Debate); ok {
				if debate.Status == models.DebateStatusLive && services.IsEnded(debate, services.Now()) {
					services.GetFinalizerService().Schedule(debate.ID)
				}
				h.attachUserState(hData, debate.ID, userID)
			}
			c.JSON(http.StatusOK, hData)
			return
		}
	}

	var debate models.Debate
	if err := db.DB.Preload("User").Preload("Category").Where("did = ?", did).First(&debate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "debate not found"})
		return
	}

	// 到点未定局：异步定局，本次仍按当前库里的状态返回
	if debate.Status == models.DebateStatusLive && services.IsEnded(&debate, services.Now()) {
		services.GetFinalizerService().Schedule(debate.ID)
	}

	arguments, err := services.ListArgumentsWithVotes(debate.ID, 0)
	if err != nil {
		RenderError(c, err)
		return
	}
	for i := range arguments {
		arguments[i].ContentHTML = utils.RenderMarkdown(arguments[i].Content)
	}

	var participants []models.Participant
	db.DB.Preload("User").Where("debate_id = ?", debate.ID).Order("joined_at ASC").Find(&participants)

	renderData := gin.H{
		"debate":       &debate,
		"tags":         debate.TagList(),
		"arguments":    arguments,
		"participants": participants,
		"is_ended":     services.IsEnded(&debate, services.Now()),
	}

	// 公共部分写入共享缓存，有效期 5 分钟
	utils.GetCache().Set(cacheKey, renderData, 5*time.Minute)

	h.attachUserState(renderData, debate.ID, userID)

	c.JSON(http.StatusOK, renderData)
}

// attachUserState 缓存命中与否都要注入的私有状态：
// 当前用户的参与记录、能否发言、对各论点投过的票
func (h *DebateHandler) attachUserState(data gin.H, debateID, userID uint) {
	data["my_participation"] = nil
	data["can_post"] = false
	data["my_votes"] = gin.H{}

	if userID == 0 {
		return
	}

	participant, err := services.CheckParticipation(debateID, userID)
	if err == nil && participant != nil {
		data["my_participation"] = participant
		data["can_post"] = services.CanPost(participant, services.Now())
	}

	var argumentIDs []uint
	db.DB.Model(&models.Argument{}).Where("debate_id = ?", debateID).Pluck("id", &argumentIDs)
	if len(argumentIDs) == 0 {
		return
	}

	var mine []models.ArgumentVote
	db.DB.Where("argument_id IN ? AND user_id = ?", argumentIDs, userID).Find(&mine)
	myVotes := gin.H{}
	for i := range mine {
		myVotes[strconv.FormatUint(uint64(mine[i].ArgumentID), 10)] = mine[i].Type()
	}
	data["my_votes"] = myVotes
}

// Join - POST /debates/:did/join {side}
func (h *DebateHandler) Join(c *gin.Context) {
	user := CurrentUser(c)
	did := c.Param("did")

	var req struct {
		Side string `json:"side" binding:"required"`
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

	// 结束后不允许加入，调用方检查就在这一层
	if services.IsEnded(&debate, services.Now()) {
		services.GetFinalizerService().Schedule(debate.ID)
		c.JSON(http.StatusConflict, gin.H{"error": "debate has ended"})
		return
	}

	participant, err := services.JoinDebate(debate.ID, user.ID, models.Side(req.Side))
	if err != nil {
		RenderError(c, err)
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("debate:detail:shared:%s", did))

	c.JSON(http.StatusCreated, gin.H{
		"participant":  participant,
		"reply_window": services.ReplyWindow.String(), // 首贴倒计时提示
	})
}

// Finalize - POST /debates/:did/finalize
// 客户端倒计时归零时的显式触发，定局本身幂等，重复调用无害
func (h *DebateHandler) Finalize(c *gin.Context) {
	did := c.Param("did")

	var debate models.Debate
	if err := db.DB.Where("did = ?", did).First(&debate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "debate not found"})
		return
	}

	if !services.IsEnded(&debate, services.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "debate has not reached its deadline"})
		return
	}

	finalized, err := services.FinalizeDebate(debate.ID)
	if err != nil {
		RenderError(c, err)
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("debate:detail:shared:%s", did))

	c.JSON(http.StatusOK, gin.H{"debate": finalized})
}
