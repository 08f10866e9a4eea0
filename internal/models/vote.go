package models

import (
	"time"
)

const (
	VoteTypeUp   = "upvote"
	VoteTypeDown = "downvote"
)

// ArgumentVote 用户对论点的投票。
// (argument_id, user_id) 唯一索引保证每人每论点至多一票，
// 并发下的重复插入由数据库约束兜底。
type ArgumentVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ArgumentID uint      `gorm:"not null;index;uniqueIndex:idx_argument_user" json:"argument_id"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_argument_user" json:"user_id"`
	Value      int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt  time.Time `json:"created_at"`            // 换边投票时会刷新
}

// Type 返回对外暴露的票型字符串
func (v *ArgumentVote) Type() string {
	if v.Value > 0 {
		return VoteTypeUp
	}
	return VoteTypeDown
}

// VoteValue 票型字符串转存储值，非法类型返回 0
func VoteValue(t string) int {
	switch t {
	case VoteTypeUp:
		return 1
	case VoteTypeDown:
		return -1
	}
	return 0
}
