package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig 汇总运行论坛所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	SessionSecret     string
	GinMode           string
	TemplateGlob      string
	UploadDir         string
	UploadURLPath     string
	SuperRootUserName string
	SuperRootPassword string
	SiteBaseURL       string
	SiteName          string
	LogPath           string
	LogLevel          string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPTLS      bool
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "lcforum.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "lcforum-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	templateGlob := strings.TrimSpace(os.Getenv("TEMPLATE_GLOB"))
	if templateGlob == "" {
		templateGlob = "web/template/forum/*.html"
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "web/static/uploads"
	}

	uploadURLPath := strings.TrimSpace(os.Getenv("UPLOAD_URL_PATH"))
	if uploadURLPath == "" {
		uploadURLPath = "/static/uploads"
	}

	siteBaseURL := strings.TrimSpace(os.Getenv("SITE_BASE_URL"))
	if siteBaseURL == "" {
		siteBaseURL = "http://localhost:8080"
	}

	siteName := strings.TrimSpace(os.Getenv("SITE_NAME"))
	if siteName == "" {
		siteName = "lcforum"
	}

	logPath := strings.TrimSpace(os.Getenv("LOG_PATH"))
	if logPath == "" {
		logPath = "logs/lcforum.log"
	}

	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	smtpPort := 25
	if raw := strings.TrimSpace(os.Getenv("SMTP_PORT")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			smtpPort = parsed
		}
	}

	smtpFrom := strings.TrimSpace(os.Getenv("SMTP_FROM"))
	if smtpFrom == "" {
		smtpFrom = "root@localhost"
	}

	smtpTLS := false
	if raw := strings.TrimSpace(os.Getenv("SMTP_TLS")); raw != "" {
		smtpTLS = raw == "1" || strings.EqualFold(raw, "true")
	}

	superRootUserName := strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME"))
	superRootPassword := strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD"))

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      databasePath,
		SessionSecret:     sessionSecret,
		GinMode:           ginMode,
		TemplateGlob:      templateGlob,
		UploadDir:         uploadDir,
		UploadURLPath:     uploadURLPath,
		SuperRootUserName: superRootUserName,
		SuperRootPassword: superRootPassword,
		SiteBaseURL:       siteBaseURL,
		SiteName:          siteName,
		LogPath:           logPath,
		LogLevel:          logLevel,
		SMTPHost:          strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort:          smtpPort,
		SMTPUsername:      strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
		SMTPPassword:      strings.TrimSpace(os.Getenv("SMTP_PASSWORD")),
		SMTPFrom:          smtpFrom,
		SMTPTLS:           smtpTLS,
	}
}
