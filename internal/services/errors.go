package services

import (
	"fmt"
	"strings"
)

// 核心操作一律返回错误值，由 handler 映射为 HTTP 状态码。

// ValidationError 输入不合法，调用方修正后可重试
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError 引用的实体不存在
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// ConflictError 违反唯一性约束（重复加入、邮箱已注册等）
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// ModerationError 内容被拦截，携带全部命中的违禁词
type ModerationError struct {
	Words []string
}

func (e *ModerationError) Error() string {
	return "content contains banned words: " + strings.Join(e.Words, ", ")
}

// AuthorizationError 非参与者操作或操作了不属于自己的内容
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

// TimerExpiredError 首贴时限或编辑时限已过
type TimerExpiredError struct {
	Reason string
}

func (e *TimerExpiredError) Error() string {
	return e.Reason
}
