package services

import (
	"errors"

	"arenax/internal/db"
	"arenax/internal/models"
	"arenax/internal/utils"

	"gorm.io/gorm"
)

// ArgumentTally 单个论点的实时票数统计
type ArgumentTally struct {
	Upvotes    int    `json:"upvotes"`
	Downvotes  int    `json:"downvotes"`
	TotalVotes int    `json:"total_votes"`
	NetVotes   int    `json:"net_votes"`
	UserVote   string `json:"user_vote"`
}

// PostArgument 发表论点。阵营一律取自参与记录，不信任客户端传值。
// 首贴成功后 HasPostedFirstArgument 单向翻转为 true。
func PostArgument(debateID, userID uint, content string) (*models.Argument, error) {
	if err := CheckContent(content); err != nil {
		return nil, err
	}

	participant, err := CheckParticipation(debateID, userID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, &AuthorizationError{Reason: "must join the debate before posting"}
	}

	now := Now()
	if !CanPost(participant, now) {
		return nil, &TimerExpiredError{Reason: "reply window expired: first argument must be posted within 5 minutes of joining"}
	}

	argument := models.Argument{
		Aid:       utils.RandStringBytesMaskImpr(8),
		DebateID:  debateID,
		UserID:    userID,
		Side:      participant.Side, // 服务端裁定，忽略请求里的 side
		Content:   content,
		CreatedAt: now,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&argument).Error; err != nil {
			return err
		}
		if !participant.HasPostedFirstArgument {
			return tx.Model(&models.Participant{}).
				Where("id = ?", participant.ID).
				Update("has_posted_first_argument", true).
				Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 新论点票数为零
	argument.Upvotes = 0
	argument.Downvotes = 0
	argument.TotalVotes = 0
	argument.NetVotes = 0

	return &argument, nil
}

// UpdateArgument 编辑论点。时限检查放在这一层而不是前端，
// 越过 UI 的客户端同样受约束。
func UpdateArgument(argumentID, userID uint, newContent string) (*models.Argument, error) {
	if err := CheckContent(newContent); err != nil {
		return nil, err
	}

	var argument models.Argument
	if err := db.DB.First(&argument, argumentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "argument"}
		}
		return nil, err
	}

	if argument.UserID != userID {
		return nil, &AuthorizationError{Reason: "cannot edit another user's argument"}
	}

	if !CanEditArgument(&argument, Now()) {
		return nil, &TimerExpiredError{Reason: "edit window expired: arguments can only be edited within 5 minutes of posting"}
	}

	argument.Content = newContent
	if err := db.DB.Save(&argument).Error; err != nil {
		return nil, err
	}

	// 用户名展示走 User 关联，读取时总是最新
	if err := db.DB.Preload("User").First(&argument, argument.ID).Error; err != nil {
		return nil, err
	}
	return &argument, nil
}

// DeleteArgument 删除论点并级联删除其全部投票
func DeleteArgument(argumentID, userID uint) error {
	var argument models.Argument
	if err := db.DB.First(&argument, argumentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "argument"}
		}
		return err
	}

	if argument.UserID != userID {
		return &AuthorizationError{Reason: "cannot delete another user's argument"}
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("argument_id = ?", argument.ID).Delete(&models.ArgumentVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&argument).Error
	})
}

// VoteOnArgument 切换式投票：
// 同类型再投一次 = 取消；换类型 = 改票并刷新时间。
func VoteOnArgument(argumentID, userID uint, voteType string) (*ArgumentTally, error) {
	value := models.VoteValue(voteType)
	if value == 0 {
		return nil, &ValidationError{Field: "type", Reason: "must be upvote or downvote"}
	}

	var argument models.Argument
	if err := db.DB.First(&argument, argumentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "argument"}
		}
		return nil, err
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.ArgumentVote
		err := tx.Where("argument_id = ? AND user_id = ?", argument.ID, userID).First(&existing).Error
		if err == nil {
			if existing.Value == value {
				// 取消投票
				return tx.Delete(&existing).Error
			}
			// 换边：改类型并刷新时间
			return tx.Model(&existing).Updates(map[string]interface{}{
				"value":      value,
				"created_at": Now(),
			}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&models.ArgumentVote{
			ArgumentID: argument.ID,
			UserID:     userID,
			Value:      value,
			CreatedAt:  Now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return TallyArgument(argument.ID, userID)
}

// TallyArgument 实时统计单个论点的票数。
// 论点不存在时返回 NotFoundError 而不是零值。
func TallyArgument(argumentID, userID uint) (*ArgumentTally, error) {
	var argument models.Argument
	if err := db.DB.First(&argument, argumentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "argument"}
		}
		return nil, err
	}

	var upvotes, downvotes int64
	db.DB.Model(&models.ArgumentVote{}).Where("argument_id = ? AND value = 1", argument.ID).Count(&upvotes)
	db.DB.Model(&models.ArgumentVote{}).Where("argument_id = ? AND value = -1", argument.ID).Count(&downvotes)

	tally := &ArgumentTally{
		Upvotes:    int(upvotes),
		Downvotes:  int(downvotes),
		TotalVotes: int(upvotes) + int(downvotes),
		NetVotes:   int(upvotes) - int(downvotes),
	}

	if userID > 0 {
		var mine models.ArgumentVote
		if err := db.DB.Where("argument_id = ? AND user_id = ?", argument.ID, userID).First(&mine).Error; err == nil {
			tally.UserVote = mine.Type()
		}
	}

	return tally, nil
}

// ListArgumentsWithVotes 按发表顺序返回辩论的全部论点并批量填充实时票数。
// userID 大于 0 时额外标记当前用户投的票。
// Argument 表上存的 VoteCount 列是遗留字段，这里从不读它。
func ListArgumentsWithVotes(debateID, userID uint) ([]models.Argument, error) {
	var arguments []models.Argument
	if err := db.DB.Preload("User").
		Where("debate_id = ?", debateID).
		Order("created_at ASC").
		Find(&arguments).Error; err != nil {
		return nil, err
	}

	if len(arguments) == 0 {
		return arguments, nil
	}

	argumentIDs := make([]uint, len(arguments))
	for i, a := range arguments {
		argumentIDs[i] = a.ID
	}

	// 批量统计票数
	type countRow struct {
		ArgumentID uint
		Value      int
		Count      int
	}
	var rows []countRow
	db.DB.Model(&models.ArgumentVote{}).
		Select("argument_id, value, COUNT(*) as count").
		Where("argument_id IN ?", argumentIDs).
		Group("argument_id, value").
		Scan(&rows)

	upMap := make(map[uint]int)
	downMap := make(map[uint]int)
	for _, r := range rows {
		if r.Value > 0 {
			upMap[r.ArgumentID] = r.Count
		} else {
			downMap[r.ArgumentID] = r.Count
		}
	}

	mineMap := make(map[uint]string)
	if userID > 0 {
		var mine []models.ArgumentVote
		db.DB.Where("argument_id IN ? AND user_id = ?", argumentIDs, userID).Find(&mine)
		for i := range mine {
			mineMap[mine[i].ArgumentID] = mine[i].Type()
		}
	}

	for i := range arguments {
		up := upMap[arguments[i].ID]
		down := downMap[arguments[i].ID]
		arguments[i].Upvotes = up
		arguments[i].Downvotes = down
		arguments[i].TotalVotes = up + down
		arguments[i].NetVotes = up - down
		arguments[i].UserVote = mineMap[arguments[i].ID]
	}

	return arguments, nil
}
