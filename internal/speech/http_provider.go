package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 30 * time.Second

// httpRecognizer 将整段会话音频提交给外部 HTTP 转写服务
type httpRecognizer struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

func newHTTPRecognizer(cfg Config, lg *zap.Logger) *httpRecognizer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &httpRecognizer{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: lg,
	}
}

func (r *httpRecognizer) Ready() bool {
	return true
}

func (r *httpRecognizer) Language() string {
	return r.cfg.Language
}

func (r *httpRecognizer) Start(ctx context.Context) (Session, error) {
	return &httpSession{rec: r}, nil
}

// transcribe 提交音频并解析最终转写
func (r *httpRecognizer) transcribe(ctx context.Context, audio []byte) (*Result, error) {
	endpoint := r.cfg.Endpoint
	if r.cfg.Language != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + "language=" + url.QueryEscape(r.cfg.Language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech: transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("speech: read transcription response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("transcription provider returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.Int("bodyLen", len(body)),
		)
		return nil, fmt.Errorf("speech: provider returned status %d", resp.StatusCode)
	}

	var result Result
	if err := sonic.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("speech: decode transcription response: %w", err)
	}
	if result.Language == "" {
		result.Language = r.cfg.Language
	}
	return &result, nil
}

// httpSession 缓冲会话音频，Stop 时整体提交
type httpSession struct {
	rec     *httpRecognizer
	mu      sync.Mutex
	buf     bytes.Buffer
	stopped bool
}

func (s *httpSession) Feed(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrSessionClosed
	}
	if max := s.rec.cfg.MaxAudioBytes; max > 0 && int64(s.buf.Len())+int64(len(chunk)) > max {
		return ErrAudioTooLarge
	}
	_, _ = s.buf.Write(chunk)
	return nil
}

func (s *httpSession) Stop(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.stopped = true
	audio := make([]byte, s.buf.Len())
	copy(audio, s.buf.Bytes())
	s.buf.Reset()
	s.mu.Unlock()

	// 没有收到音频时直接返回空转写
	if len(audio) == 0 {
		return &Result{Language: s.rec.cfg.Language}, nil
	}
	return s.rec.transcribe(ctx, audio)
}

func (s *httpSession) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.buf.Reset()
}

var _ Recognizer = (*httpRecognizer)(nil)
var _ Session = (*httpSession)(nil)
