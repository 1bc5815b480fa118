package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/xuj/lcforum/internal/config"
	"github.com/xuj/lcforum/internal/db"
	"github.com/xuj/lcforum/internal/logger"
	"github.com/xuj/lcforum/internal/mail"
	"github.com/xuj/lcforum/internal/router"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.LogPath, cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.Sugar.Fatalw("failed to initialize database", "err", err)
	}

	// 可选的管理员引导账号
	if err := db.EnsureSuperRoot(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		logger.Sugar.Fatalw("failed to ensure super root user", "err", err)
	}

	gin.SetMode(cfg.GinMode)

	mailer := mail.NewSMTPMailer(cfg)

	// 设置并运行 Gin 服务器
	r := router.Setup(cfg, db.DB, mailer)
	logger.Sugar.Infow("server starting", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Sugar.Fatalw("failed to run server", "err", err)
	}
}
