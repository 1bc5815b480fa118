package service

import (
	"net/mail"
	"regexp"
	"sort"
	"strings"
)

// 名称允许字母数字（含中文）、下划线和 .@+- 四个符号
var guestNamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// ValidationError 携带按字段归属的校验消息，供表单回显使用。
// 出现校验错误时记录不会被持久化。
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, field := range keys {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// normalizeGuestEmail 清理游客邮箱：无效地址按未填写处理，而不是让保存失败。
func normalizeGuestEmail(email string) string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return ""
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return ""
	}
	return trimmed
}
