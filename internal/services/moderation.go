package services

import (
	"strings"
)

// 固定违禁词表，大小写不敏感的子串匹配。
// 命中任意一个即拦截，错误里会列出全部命中词。
var bannedWords = []string{
	"stupid", "idiot", "dumb", "hate", "racist", "sexist",
	"kill", "die", "moron", "loser", "pathetic", "worthless",
	"trash", "scum", "shut up",
	"fuck", "shit", "bitch", "bastard", "asshole",
}

// ScanContent 返回文本中命中的所有违禁词，未命中返回空
func ScanContent(text string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, w := range bannedWords {
		if strings.Contains(lower, w) {
			matched = append(matched, w)
		}
	}
	return matched
}

// CheckContent 便捷封装：命中则返回 ModerationError
func CheckContent(text string) error {
	if matched := ScanContent(text); len(matched) > 0 {
		return &ModerationError{Words: matched}
	}
	return nil
}
