// Package recording implements the per-session recording state machine:
// Idle -> Recording -> Idle around an exclusive speech capability handle.
// Errors from the capability are sticky until cleared; reconfiguring the
// language recreates the handle and invalidates any in-flight session.
// Package recording 实现录音会话状态机。
package recording

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/speech"

	"go.uber.org/zap"
)

var (
	// ErrAlreadyRecording 已在录音中
	ErrAlreadyRecording = errors.New("recording: session already active")
	// ErrDisabledByError 上一次能力错误未清除
	ErrDisabledByError = errors.New("recording: capability disabled by previous error")
	// ErrNotReady 能力不可用（未配置）
	ErrNotReady = errors.New("recording: capability not ready")
	// ErrNoActiveSession 当前没有录音会话
	ErrNoActiveSession = errors.New("recording: no active session")
)

// Factory 按语言创建识别器
type Factory func(language string) (speech.Recognizer, error)

// TranscriptHandler receives the trimmed, non-empty final transcript.
// TranscriptHandler 接收修剪后的非空最终转写。
type TranscriptHandler func(ctx context.Context, text string, language string) error

// Status 控制器状态快照
type Status struct {
	Recording   bool
	Ready       bool
	Language    string
	LastError   string
	StartedAt   time.Time
	LastChunkAt time.Time
}

// Controller 管理一个连接会话的录音状态机
type Controller struct {
	mu           sync.Mutex
	factory      Factory
	recognizer   speech.Recognizer
	session      speech.Session
	recording    bool
	lastError    string
	startedAt    time.Time
	lastChunkAt  time.Time
	onTranscript TranscriptHandler
	logger       *zap.Logger
}

// NewController 创建控制器并初始化能力句柄
func NewController(factory Factory, language string, onTranscript TranscriptHandler, lg *zap.Logger) (*Controller, error) {
	rec, err := factory(language)
	if err != nil {
		return nil, err
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Controller{
		factory:      factory,
		recognizer:   rec,
		onTranscript: onTranscript,
		logger:       lg,
	}, nil
}

// Start 开始录音。已在录音中、存在粘滞错误或能力不可用时不改变状态。
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recording {
		return ErrAlreadyRecording
	}
	if c.lastError != "" {
		return ErrDisabledByError
	}
	if c.recognizer == nil || !c.recognizer.Ready() {
		return ErrNotReady
	}

	sess, err := c.recognizer.Start(ctx)
	if err != nil {
		c.lastError = err.Error()
		return err
	}

	c.session = sess
	c.recording = true
	c.startedAt = time.Now()
	c.lastChunkAt = c.startedAt
	return nil
}

// Feed 将一段音频送入当前会话
func (c *Controller) Feed(chunk []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.recording || c.session == nil {
		return ErrNoActiveSession
	}

	if err := c.session.Feed(chunk); err != nil {
		// 会话级失败视为能力错误：回到空闲并粘滞
		c.session.Abort()
		c.session = nil
		c.recording = false
		c.lastError = err.Error()
		return err
	}
	c.lastChunkAt = time.Now()
	return nil
}

// Stop ends the session and waits for the final transcript. A trimmed
// non-empty transcript is handed to the transcript handler; an empty one is
// a silent no-op. Capability errors force Idle and stick.
// Stop 结束会话并等待最终转写。
func (c *Controller) Stop(ctx context.Context) (string, error) {
	c.mu.Lock()
	if !c.recording || c.session == nil {
		c.mu.Unlock()
		return "", ErrNoActiveSession
	}
	sess := c.session
	c.session = nil
	c.recording = false
	c.mu.Unlock()

	result, err := sess.Stop(ctx)
	if err != nil {
		c.mu.Lock()
		c.lastError = err.Error()
		c.mu.Unlock()
		return "", err
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", nil
	}

	if c.onTranscript != nil {
		if err := c.onTranscript(ctx, text, result.Language); err != nil {
			// 入库失败不粘滞能力，由调用方呈现
			return text, err
		}
	}
	return text, nil
}

// SetLanguage tears down the capability handle and recreates it for the new
// tag. Any in-flight session is aborted; a sticky error is cleared because it
// belonged to the replaced capability instance.
// SetLanguage 重建能力句柄并作废在途会话。
func (c *Controller) SetLanguage(language string) error {
	rec, err := c.factory(language)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.Abort()
		c.session = nil
	}
	c.recording = false
	c.lastError = ""
	c.recognizer = rec
	return nil
}

// ClearError 显式清除粘滞错误，重新允许开始录音
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = ""
}

// Abort 丢弃在途会话，不产生转写
func (c *Controller) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.Abort()
		c.session = nil
	}
	c.recording = false
}

// ReapIfAbandoned aborts a session that outlived maxAge or stopped feeding
// audio for idleTimeout. Returns whether a session was reaped.
// ReapIfAbandoned 回收被放弃的会话。
func (c *Controller) ReapIfAbandoned(maxAge, idleTimeout time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.recording || c.session == nil {
		return false
	}

	now := time.Now()
	expired := maxAge > 0 && now.Sub(c.startedAt) > maxAge
	starved := idleTimeout > 0 && now.Sub(c.lastChunkAt) > idleTimeout
	if !expired && !starved {
		return false
	}

	c.logger.Info("reaping abandoned recording session",
		zap.Duration("age", now.Sub(c.startedAt)),
		zap.Duration("sinceLastChunk", now.Sub(c.lastChunkAt)),
	)
	c.session.Abort()
	c.session = nil
	c.recording = false
	return true
}

// Status 返回状态快照
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	ready := c.recognizer != nil && c.recognizer.Ready()
	language := ""
	if c.recognizer != nil {
		language = c.recognizer.Language()
	}
	return Status{
		Recording:   c.recording,
		Ready:       ready && c.lastError == "",
		Language:    language,
		LastError:   c.lastError,
		StartedAt:   c.startedAt,
		LastChunkAt: c.lastChunkAt,
	}
}

// IsRecording 是否在录音中
func (c *Controller) IsRecording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}
