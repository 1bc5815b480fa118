package router

import (
	"html/template"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/xuj/lcforum/internal/config"
	"github.com/xuj/lcforum/internal/handler"
	"github.com/xuj/lcforum/internal/mail"
	"gorm.io/gorm"
)

// Setup 配置 Gin 引擎和论坛的全部路由
func Setup(cfg config.AppConfig, gdb *gorm.DB, mailer mail.Mailer) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("lcforum_session", store))

	// 加载模板并添加自定义函数
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"has": func(fields []string, name string) bool {
			for _, f := range fields {
				if f == name {
					return true
				}
			}
			return false
		},
		"stripEmailAt": func(email string) string {
			out := make([]rune, 0, len(email))
			for _, r := range email {
				if r == '@' {
					out = append(out, []rune("[at]")...)
					continue
				}
				out = append(out, r)
			}
			return string(out)
		},
	})
	r.LoadHTMLGlob(cfg.TemplateGlob)

	// 媒体文件服务
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	api := handler.NewAPI(gdb, cfg, mailer)

	// 网站首页
	r.GET("/", api.ShowIndex)

	// 论坛与帖子页面
	r.GET("/forum/", api.ShowForumIndex)
	r.GET("/forum/thread/:id/", api.ShowThread)
	r.GET("/forum/thread/:id/reply/", api.ShowReplyForm)
	r.POST("/forum/thread/:id/reply/", api.CreateReply)
	r.GET("/forum/thread/:id/reply/:reply_id/", api.ShowReplyForm)
	r.POST("/forum/thread/:id/reply/:reply_id/", api.CreateReply)

	// 节点页面
	r.GET("/forum/node/", api.ShowNodeList)
	r.GET("/forum/node/:slug/", api.ShowNodeDetail)
	r.GET("/forum/node/:slug/post/", api.ShowPostForm)
	r.POST("/forum/node/:slug/post/", api.CreatePost)

	// 用户操作页面
	r.GET("/auth/reg/", api.ShowRegister)
	r.POST("/auth/reg/", api.Register)
	r.GET("/auth/login/", api.ShowLogin)
	r.POST("/auth/login/", api.Login)
	r.GET("/auth/logout/", api.Logout)

	// 附件页面
	r.GET("/upload/", api.ShowUpload)
	r.POST("/upload/", api.Upload)
	r.GET("/attachment/:id/", api.ShowAttachment)
	r.GET("/attachments/", api.ListAttachments)

	// 站点地图与订阅源
	r.GET("/sitemap.xml", api.Sitemap)
	r.GET("/rss/", api.RSSFeed)

	return r
}
