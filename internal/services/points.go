package services

import (
	"arenax/internal/db"
	"arenax/internal/models"

	"gorm.io/gorm"
)

// 积分动作常量
const (
	ActionDebateCreate      = "Created a debate"
	ActionDebateJoin        = "Joined a debate"
	ActionDebateWon         = "Won a debate"
	ActionArgumentCreate    = "Posted an argument"
	ActionArgumentLiked     = "Argument upvoted"
	ActionArgumentDownvoted = "Argument downvoted"
	ActionDownvoteOther     = "Downvoted an argument"
)

// 积分值常量
const (
	PointsDebateCreate      = 2
	PointsDebateJoin        = 1
	PointsDebateWon         = 5
	PointsArgumentCreate    = 1
	PointsArgumentLiked     = 1
	PointsArgumentDownvoted = -2
	PointsDownvoteOther     = -1
)

// AddPoints 使用事务添加积分并记录明细
// 传入用户ID、积分变动值（正数增加，负数扣除）、动作描述
func AddPoints(userID uint, amount int, action string) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 创建积分明细记录
		entry := models.PointLog{
			UserID: userID,
			Amount: amount,
			Action: action,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// 2. 更新用户积分余额
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("points", gorm.Expr("points + ?", amount)).
			Error; err != nil {
			return err
		}

		return nil
	})
}

// AddPointsAsync 异步添加积分（在 goroutine 中调用）
func AddPointsAsync(userID uint, amount int, action string) {
	go func() {
		_ = AddPoints(userID, amount, action)
	}()
}
