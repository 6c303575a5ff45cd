// Package speech abstracts the transcription capability behind a Recognizer
// handle. The only real provider speaks HTTP to an external service; without
// an endpoint configured the capability degrades to a disabled handle that
// refuses sessions instead of crashing.
// Package speech 将语音转写能力抽象为 Recognizer 句柄。
package speech

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var (
	// ErrNotConfigured 转写服务未配置
	ErrNotConfigured = errors.New("speech: transcription service not configured")
	// ErrSessionClosed 会话已结束
	ErrSessionClosed = errors.New("speech: session already closed")
	// ErrAudioTooLarge 会话音频超出缓冲上限
	ErrAudioTooLarge = errors.New("speech: audio exceeds session buffer limit")
)

// Config 识别器配置
type Config struct {
	// Endpoint 转写服务地址，为空表示能力未配置
	Endpoint string
	// APIKey 可选的 Bearer 凭证
	APIKey string
	// Language BCP-47 语言标签
	Language string
	// Timeout 单次转写请求超时
	Timeout time.Duration
	// MaxAudioBytes 会话音频缓冲上限，0 表示不限制
	MaxAudioBytes int64
}

// Result 一次会话的最终转写
type Result struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Session is one recording session. Feed and Stop are serialized by the
// recording controller; a session is single-use.
// Session 一次录音会话
type Session interface {
	// Feed 追加一段音频
	Feed(chunk []byte) error
	// Stop 结束会话并返回最终转写
	Stop(ctx context.Context) (*Result, error)
	// Abort 丢弃会话，不产生转写
	Abort()
}

// Recognizer 语音转写能力句柄
type Recognizer interface {
	// Start 开启一次转写会话
	Start(ctx context.Context) (Session, error)
	// Language 当前配置的语言标签
	Language() string
	// Ready 能力是否可用
	Ready() bool
}

// NormalizeLanguage validates a BCP-47 tag and returns its canonical form.
// NormalizeLanguage 校验 BCP-47 标签并返回规范形式。
func NormalizeLanguage(tag string) (string, error) {
	if tag == "" {
		return "", nil
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("speech: invalid language tag %q: %w", tag, err)
	}
	return parsed.String(), nil
}

// NewRecognizer 根据配置创建识别器；未配置端点时返回禁用实现
func NewRecognizer(cfg Config, lg *zap.Logger) (Recognizer, error) {
	lang, err := NormalizeLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}
	cfg.Language = lang

	if cfg.Endpoint == "" {
		return &disabledRecognizer{language: cfg.Language}, nil
	}
	return newHTTPRecognizer(cfg, lg), nil
}
