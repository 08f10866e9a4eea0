package models

import (
	"html/template"
	"time"
)

type Argument struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Aid      string `gorm:"uniqueIndex;size:8;not null" json:"aid"`
	DebateID uint   `gorm:"not null;index" json:"debate_id"`
	Debate   Debate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"debate"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Side     Side   `gorm:"type:varchar(10);not null" json:"side"` // 发帖时从 Participant 复制
	Content  string `gorm:"type:text;not null" json:"content"`
	// 历史遗留的聚合列，真实票数一律从 ArgumentVote 实时统计
	VoteCount int       `gorm:"default:0" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 非数据库字段，查询时填充
	Upvotes    int    `gorm:"-" json:"upvotes"`
	Downvotes  int    `gorm:"-" json:"downvotes"`
	TotalVotes int    `gorm:"-" json:"total_votes"`
	NetVotes   int    `gorm:"-" json:"net_votes"` // upvotes - downvotes，权威分数
	UserVote   string `gorm:"-" json:"user_vote"` // "upvote" / "downvote" / ""

	// Markdown 渲染结果，响应时填充
	ContentHTML template.HTML `gorm:"-" json:"content_html"`
}
