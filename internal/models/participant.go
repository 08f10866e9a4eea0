package models

import (
	"time"
)

type Side string

const (
	SideSupport Side = "support"
	SideOppose  Side = "oppose"
)

// ValidSide 校验客户端传入的阵营取值
func ValidSide(s string) bool {
	return Side(s) == SideSupport || Side(s) == SideOppose
}

// Participant 一个用户在一场辩论中的参与记录。
// (debate_id, user_id) 唯一索引保证同一用户只能加入一方。
type Participant struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DebateID uint   `gorm:"not null;index;uniqueIndex:idx_debate_user" json:"debate_id"`
	Debate   Debate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"debate"`
	UserID   uint   `gorm:"not null;index;uniqueIndex:idx_debate_user" json:"user_id"`
	User     User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	// 加入时的用户名快照，仅作历史记录，展示一律走 User 关联
	Username               string    `gorm:"not null" json:"username"`
	Side                   Side      `gorm:"type:varchar(10);not null" json:"side"`
	JoinedAt               time.Time `gorm:"not null" json:"joined_at"`
	HasPostedFirstArgument bool      `gorm:"default:false" json:"has_posted_first_argument"` // 只会 false→true 翻转一次
	CreatedAt              time.Time `json:"created_at"`
}
