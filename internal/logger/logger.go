package logger

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the global structured logger
	Logger *zap.Logger
	// Sugar is a sugared logger for convenience
	Sugar *zap.SugaredLogger
)

// Init 按配置初始化 zap 日志：stdout 输出加 lumberjack 滚动文件。
func Init(logPath, logLevel string) error {
	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "." && dir != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
	}

	level := parseLevel(logLevel)

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var cores []zapcore.Core
	consoleWS := zapcore.AddSync(os.Stdout)
	cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), consoleWS, levelEnabler(level)))

	if logPath != "" {
		lj := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		fileWS := zapcore.AddSync(lj)
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileWS, levelEnabler(level)))
	}

	core := zapcore.NewTee(cores...)

	opts := []zap.Option{zap.AddCaller()}
	if logLevel == "debug" {
		opts = append(opts, zap.Development())
	}
	Logger = zap.New(core, opts...)
	Sugar = Logger.Sugar()
	return nil
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "info", "":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func levelEnabler(level zapcore.Level) zapcore.LevelEnabler {
	return zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= level })
}
