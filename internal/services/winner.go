package services

import (
	"errors"

	"arenax/internal/db"
	"arenax/internal/models"

	"gorm.io/gorm"
)

// WinnerFromTotals 纯聚合裁定：净票数严格大者胜，相等为平（含双零）
func WinnerFromTotals(supportTotal, opposeTotal int) models.DebateWinner {
	switch {
	case supportTotal > opposeTotal:
		return models.WinnerSupport
	case opposeTotal > supportTotal:
		return models.WinnerOppose
	default:
		return models.WinnerTie
	}
}

// ComputeWinner 汇总两方所有论点的净票数并裁定胜方。
// 无加权、无时间衰减、无人数归一化。
func ComputeWinner(debateID uint) (winner models.DebateWinner, supportTotal, opposeTotal int, err error) {
	var debate models.Debate
	if dbErr := db.DB.First(&debate, debateID).Error; dbErr != nil {
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			return "", 0, 0, &NotFoundError{Entity: "debate"}
		}
		return "", 0, 0, dbErr
	}

	arguments, err := ListArgumentsWithVotes(debateID, 0)
	if err != nil {
		return "", 0, 0, err
	}

	for _, a := range arguments {
		if a.Side == models.SideSupport {
			supportTotal += a.NetVotes
		} else {
			opposeTotal += a.NetVotes
		}
	}

	return WinnerFromTotals(supportTotal, opposeTotal), supportTotal, opposeTotal, nil
}

// DeclareWinner 直接落状态与胜方（定局入口一般走 FinalizeDebate）
func DeclareWinner(debateID uint, winner models.DebateWinner) error {
	res := db.DB.Model(&models.Debate{}).
		Where("id = ?", debateID).
		Updates(map[string]interface{}{
			"status": models.DebateStatusEnded,
			"winner": winner,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "debate"}
	}
	return nil
}
