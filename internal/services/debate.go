package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"arenax/internal/db"
	"arenax/internal/models"
	"arenax/internal/utils"

	"gorm.io/gorm"
)

// 时长映射：小时数 -> 展示标签。落不到表里的正数时长回退到 24 小时。
var durationLabels = map[int]string{
	1:   "1 Hour",
	12:  "12 Hours",
	24:  "24 Hours",
	72:  "3 Days",
	168: "7 Days",
}

const defaultDurationHours = 24

// DurationLabel 归一化时长，返回标签和实际采用的小时数
func DurationLabel(hours int) (string, int) {
	if label, ok := durationLabels[hours]; ok {
		return label, hours
	}
	return durationLabels[defaultDurationHours], defaultDurationHours
}

type CreateDebateInput struct {
	CreatorID     uint
	Title         string
	Description   string
	CategoryID    uint
	Tags          []string
	DurationHours int
}

// CreateDebate 创建辩论，EndsAt 在此刻算定，之后不再重算
func CreateDebate(in CreateDebateInput) (*models.Debate, error) {
	if in.CreatorID == 0 {
		return nil, &ValidationError{Field: "creator_id", Reason: "must be a valid user reference"}
	}
	if in.DurationHours <= 0 {
		return nil, &ValidationError{Field: "duration", Reason: "must be a positive number of hours"}
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	var creator models.User
	if err := db.DB.First(&creator, in.CreatorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Entity: "user"}
		}
		return nil, err
	}

	label, hours := DurationLabel(in.DurationHours)
	categoryID := in.CategoryID
	if categoryID == 0 {
		categoryID = 1
	}

	now := Now()
	debate := models.Debate{
		Did:           utils.RandStringBytesMaskImpr(8),
		UserID:        creator.ID,
		CategoryID:    categoryID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Tags:          models.JoinTags(in.Tags),
		Duration:      label,
		DurationHours: hours,
		EndsAt:        now.Add(time.Duration(hours) * time.Hour),
		Status:        models.DebateStatusLive,
		SupportVotes:  0,
		OpposeVotes:   0,
		CreatedAt:     now,
	}

	if err := db.DB.Create(&debate).Error; err != nil {
		return nil, err
	}
	return &debate, nil
}

// IsEnded 纯谓词：到点或已定局即视为结束
func IsEnded(d *models.Debate, now time.Time) bool {
	return d.Status == models.DebateStatusEnded || !now.Before(d.EndsAt)
}

// FinalizeDebate 定局：计算胜方并一次性落状态。幂等，
// 已定局的辩论原样返回，不会重算 winner。
// 摘要生成、通知和邮件都是尽力而为，失败不影响定局本身。
func FinalizeDebate(debateID uint) (*models.Debate, error) {
	var debate models.Debate
	if err := db.DB.First(&debate, debateID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Entity: "debate"}
		}
		return nil, err
	}

	if debate.Status == models.DebateStatusEnded {
		return &debate, nil
	}

	winner, supportTotal, opposeTotal, err := ComputeWinner(debate.ID)
	if err != nil {
		return nil, err
	}

	// status 条件保证并发触发时只有一次真正落状态
	res := db.DB.Model(&models.Debate{}).
		Where("id = ? AND status = ?", debate.ID, models.DebateStatusLive).
		Updates(map[string]interface{}{
			"status":        models.DebateStatusEnded,
			"winner":        winner,
			"support_votes": supportTotal,
			"oppose_votes":  opposeTotal,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if err := db.DB.First(&debate, debateID).Error; err != nil {
		return nil, err
	}

	if res.RowsAffected > 0 {
		// 只有赢下竞态的那次触发后续副作用
		go func(id uint) {
			if err := GetSummaryService().GenerateAndStore(id); err != nil {
				log.Printf("[summary] debate %d summary generation failed: %v", id, err)
			}
		}(debate.ID)
		go notifyDebateEnded(debate.ID, winner)
	}

	// 失效详情与列表缓存
	utils.GetCache().Delete(fmt.Sprintf("debate:detail:shared:%s", debate.Did))

	return &debate, nil
}

// notifyDebateEnded 给所有参与者写站内通知、发结果邮件，胜方加分
func notifyDebateEnded(debateID uint, winner models.DebateWinner) {
	var debate models.Debate
	if err := db.DB.First(&debate, debateID).Error; err != nil {
		return
	}

	var participants []models.Participant
	if err := db.DB.Preload("User").Where("debate_id = ?", debateID).Find(&participants).Error; err != nil {
		return
	}

	mail := NewMailService()
	for _, p := range participants {
		outcome := "The debate ended in a tie."
		switch {
		case winner == models.WinnerTie:
		case models.DebateWinner(p.Side) == winner:
			outcome = "Your side won the debate!"
		default:
			outcome = "Your side lost the debate."
		}

		notification := models.Notification{
			UserID:   p.UserID,
			DebateID: &debate.ID,
			Type:     models.NotificationTypeDebateEnded,
			Reason:   fmt.Sprintf("The debate \"%s\" has concluded. %s", debate.Title, outcome),
		}
		db.DB.Create(&notification)

		if winner != models.WinnerTie && models.DebateWinner(p.Side) == winner {
			_ = AddPoints(p.UserID, PointsDebateWon, ActionDebateWon)
			db.DB.Model(&models.User{}).Where("id = ?", p.UserID).
				UpdateColumn("debates_won", gorm.Expr("debates_won + ?", 1))
		}

		mail.SendDebateResultEmail(p.User.Email, debate.Title, outcome)
	}
}
