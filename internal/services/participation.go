package services

import (
	"errors"

	"arenax/internal/db"
	"arenax/internal/models"

	"gorm.io/gorm"
)

// JoinDebate 选边加入辩论。同一用户在同一辩论里只能有一条参与记录，
// 先做存在性检查，唯一索引兜底并发下的重复插入。
// 是否允许加入已结束的辩论由调用方先用 IsEnded 把关。
func JoinDebate(debateID, userID uint, side models.Side) (*models.Participant, error) {
	if !models.ValidSide(string(side)) {
		return nil, &ValidationError{Field: "side", Reason: "must be support or oppose"}
	}

	var debate models.Debate
	if err := db.DB.First(&debate, debateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "debate"}
		}
		return nil, err
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "user"}
		}
		return nil, err
	}

	existing, err := CheckParticipation(debateID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Reason: "already joined this debate"}
	}

	participant := models.Participant{
		DebateID:               debate.ID,
		UserID:                 user.ID,
		Username:               user.Username, // 加入时的快照
		Side:                   side,
		JoinedAt:               Now(),
		HasPostedFirstArgument: false,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			UpdateColumn("debates_participated", gorm.Expr("debates_participated + ?", 1)).
			Error
	})
	if err != nil {
		// 唯一索引冲突：另一请求抢先加入了
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Reason: "already joined this debate"}
		}
		return nil, err
	}

	AddPointsAsync(user.ID, PointsDebateJoin, ActionDebateJoin)

	return &participant, nil
}

// CheckParticipation 返回参与记录，没有参与时返回 nil 而不是错误
func CheckParticipation(debateID, userID uint) (*models.Participant, error) {
	var participant models.Participant
	err := db.DB.Where("debate_id = ? AND user_id = ?", debateID, userID).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}
