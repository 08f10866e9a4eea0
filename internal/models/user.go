package models

import (
	"time"
)

type User struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Username            string    `gorm:"not null" json:"username"` // Username can be modified
	Email               string    `gorm:"uniqueIndex;not null" json:"email"`
	Password            string    `gorm:"not null" json:"-"` // Hash
	Avatar              string    `gorm:"default:🎙️" json:"avatar"` // emoji 头像
	Bio                 string    `gorm:"size:200" json:"bio"`
	Points              int       `gorm:"default:0" json:"points"`
	DebatesParticipated int       `gorm:"default:0" json:"debates_participated"` // 参与辩论次数
	DebatesWon          int       `gorm:"default:0" json:"debates_won"`
	Role                string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	// No DeletedAt for hard delete
}
