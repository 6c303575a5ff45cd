// Package logger builds the zap logger used across the service.
// Package logger 构建全服务共用的 zap 日志器。
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls level, output target and encoder shape.
// Config 控制日志级别、输出目标与编码格式。
type Config struct {
	// Level is one of debug/info/warn/error // 日志级别
	Level string
	// File is an optional log file path; empty means stdout only // 可选日志文件
	File string
	// Production switches to JSON encoding without caller/stacktrace noise
	// Production 切换为 JSON 编码
	Production bool
}

// NewLogger creates a zap.Logger writing to stdout and, when configured, a
// log file. The file directory is created on demand.
// NewLogger 创建 zap.Logger，输出到标准输出及可选的日志文件。
func NewLogger(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil && cfg.Level != "" {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Production {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		fileEncCfg := zap.NewProductionEncoderConfig()
		fileEncCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncCfg), zapcore.Lock(zapcore.AddSync(f)), level))
	}

	opts := []zap.Option{zap.AddCaller()}
	if !cfg.Production {
		opts = append(opts, zap.Development())
	}

	return zap.New(zapcore.NewTee(cores...), opts...), nil
}
