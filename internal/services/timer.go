package services

import (
	"time"

	"arenax/internal/models"
)

// Now 全局时钟，测试可替换
var Now = time.Now

const (
	// ReplyWindow 加入辩论后发首贴的时限
	ReplyWindow = 5 * time.Minute
	// EditWindow 论点发出后允许编辑的时限
	EditWindow = 5 * time.Minute
)

// CanPost 判断参与者当前能否发言。
// 发过首贴之后不再受时限约束；否则加入后 5 分钟内可发，
// 恰好 5:00 仍算有效，超过即永久失去发言资格（不可重新加入）。
func CanPost(p *models.Participant, now time.Time) bool {
	if p.HasPostedFirstArgument {
		return true
	}
	return now.Sub(p.JoinedAt) <= ReplyWindow
}

// CanEditArgument 论点自身创建后 5 分钟内可编辑
func CanEditArgument(a *models.Argument, now time.Time) bool {
	return now.Sub(a.CreatedAt) <= EditWindow
}
