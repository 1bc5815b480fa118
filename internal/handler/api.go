package handler

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/xuj/lcforum/internal/config"
	"github.com/xuj/lcforum/internal/db"
	"github.com/xuj/lcforum/internal/mail"
	"github.com/xuj/lcforum/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	cfg         config.AppConfig
	posts       *service.PostService
	replies     *service.ReplyService
	nodes       *service.NodeService
	attachments *service.AttachmentService
	accounts    *service.AccountService
	notifier    *service.Notifier
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig, mailer mail.Mailer) *API {
	return &API{
		db:          gdb,
		cfg:         cfg,
		posts:       service.NewPostService(gdb),
		replies:     service.NewReplyService(gdb),
		nodes:       service.NewNodeService(gdb),
		attachments: service.NewAttachmentService(gdb),
		accounts:    service.NewAccountService(gdb),
		notifier:    service.NewNotifier(mailer, cfg.SiteName, cfg.SiteBaseURL, cfg.SMTPFrom),
	}
}

// currentUser 从会话解析当前登录用户，未登录或记录缺失时返回 nil（游客）。
func (a *API) currentUser(c *gin.Context) *db.User {
	session := sessions.Default(c)
	raw := session.Get("user_id")
	if raw == nil {
		return nil
	}

	var userID uint
	switch v := raw.(type) {
	case uint:
		userID = v
	case int:
		userID = uint(v)
	case int64:
		userID = uint(v)
	case uint64:
		userID = uint(v)
	default:
		return nil
	}

	var user db.User
	if err := a.db.First(&user, userID).Error; err != nil {
		return nil
	}
	return &user
}

// loginSession 将通过认证的用户写入会话。
func loginSession(c *gin.Context, user *db.User) error {
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	return session.Save()
}
