package models

import (
	"strings"
	"time"
)

type DebateStatus string

const (
	DebateStatusLive  DebateStatus = "live"
	DebateStatusEnded DebateStatus = "ended"
)

type DebateWinner string

const (
	WinnerSupport DebateWinner = "support"
	WinnerOppose  DebateWinner = "oppose"
	WinnerTie     DebateWinner = "tie"
	WinnerUnset   DebateWinner = "" // 仅在 ended 后才会被赋值
)

type Debate struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Did           string       `gorm:"uniqueIndex;size:8;not null" json:"did"`
	UserID        uint         `gorm:"not null;index" json:"user_id"`
	User          User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CategoryID    uint         `gorm:"not null;index;default:1" json:"category_id"`
	Category      Category     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Title         string       `gorm:"not null" json:"title"`
	Description   string       `gorm:"type:text" json:"description"`
	Tags          string       `gorm:"size:255" json:"-"` // 逗号分隔，见 TagList
	Duration      string       `gorm:"size:20;not null" json:"duration"` // "1 Hour" ... "7 Days"
	DurationHours int          `gorm:"not null" json:"duration_hours"`
	EndsAt        time.Time    `gorm:"not null;index" json:"ends_at"` // 创建时算定，之后不再重算
	Status        DebateStatus `gorm:"type:varchar(10);default:'live';index" json:"status"`
	Winner        DebateWinner `gorm:"type:varchar(10);default:''" json:"winner"`
	Summary       string       `gorm:"type:text" json:"summary"`
	SupportVotes  int          `gorm:"default:0" json:"support_votes"` // 定局时回填的净票数
	OpposeVotes   int          `gorm:"default:0" json:"oppose_votes"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	// 非数据库字段，用于查询时填充
	ArgumentCount    int `gorm:"-" json:"argument_count"`
	ParticipantCount int `gorm:"-" json:"participant_count"`
}

// TagList 拆分逗号分隔的标签列
func (d *Debate) TagList() []string {
	if d.Tags == "" {
		return nil
	}
	parts := strings.Split(d.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags 归一化并拼接标签（去重、去空白）
func JoinTags(tags []string) string {
	seen := make(map[string]bool, len(tags))
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		kept = append(kept, t)
	}
	return strings.Join(kept, ",")
}
