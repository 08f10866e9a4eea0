package utils

import (
	"math/rand"
	"time"
)

// GetUserLevel 根据积分数量返回辩手等级
func GetUserLevel(points int) (name string, icon string) {
	switch {
	case points >= 1000:
		return "Grandmaster", "🏆"
	case points >= 201:
		return "Orator", "🎖️"
	case points >= 51:
		return "Debater", "🗣️"
	case points >= 11:
		return "Contender", "🎯"
	default:
		return "Novice", "🌱"
	}
}

// GetDaysSinceJoined 计算注册天数
func GetDaysSinceJoined(createdAt time.Time) int {
	return int(time.Since(createdAt).Hours() / 24)
}

// GetRandomEmoji 返回一个随机 emoji 用于默认头像
func GetRandomEmoji() string {
	rand.Seed(time.Now().UnixNano())
	emojis := []string{"🎙️", "🗣️", "⚖️", "🧠", "📣", "🎯", "🔥", "💬", "🦉", "🦊", "🐯", "🐼"}
	return emojis[rand.Intn(len(emojis))]
}
