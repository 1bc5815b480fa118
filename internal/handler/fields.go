package handler

import (
	"slices"

	"github.com/xuj/lcforum/internal/db"
)

// allowedFields 按请求者角色返回可编辑的表单字段集合。
// 每次请求重新计算，不保存在任何共享状态里：管理员多出 bygod 开关，
// 登录用户不再填写游客信息，游客需要补充称呼和邮箱。
func allowedFields(user *db.User, withTitle bool) []string {
	var fields []string
	if withTitle {
		fields = append(fields, "title")
	}
	fields = append(fields, "content")

	switch {
	case user != nil && user.IsSuperuser:
		fields = append(fields, "need_notification", "bygod")
	case user != nil:
		fields = append(fields, "need_notification")
	default:
		fields = append(fields, "guest_name", "guest_email", "need_notification")
	}

	return fields
}

func hasField(fields []string, name string) bool {
	return slices.Contains(fields, name)
}
