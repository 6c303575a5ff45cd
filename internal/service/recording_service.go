package service

import (
	"context"
	"sync"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/internal/recording"
	"github.com/IxSyZ/my-life-diary/pkg/code"

	"go.uber.org/zap"
)

// RecordingService owns one recording controller per websocket connection.
// The controller is created lazily on the first recording action, seeded
// with the user's stored recognition language, and dropped when the
// connection closes. A background task reaps sessions whose connection
// stopped feeding audio without a proper stop.
// RecordingService 按 WebSocket 连接维护录音控制器：首次录音动作时懒创建，
// 以用户的识别语言偏好初始化，连接关闭时移除。
type RecordingService interface {
	// GetOrCreate 获取连接的控制器，不存在时创建；onTranscript 在最终
	// 转写非空时被调用。
	GetOrCreate(ctx context.Context, connID string, uid int64, onTranscript recording.TranscriptHandler) (*recording.Controller, error)

	// Get 获取连接的控制器
	Get(connID string) (*recording.Controller, bool)

	// Remove 丢弃连接的控制器并作废其在途会话
	Remove(connID string)

	// ReapAbandoned 回收被放弃的录音会话，返回回收数
	ReapAbandoned(maxAge, idleTimeout time.Duration) int

	// StatusDTO 将控制器状态转换为推送消息
	StatusDTO(ctrl *recording.Controller) *dto.RecordingStatusDTO
}

type recordingService struct {
	factory       recording.Factory
	preferenceSvc PreferenceService
	logger        *zap.Logger

	mu          sync.Mutex
	controllers map[string]*recording.Controller
}

// NewRecordingService 创建 RecordingService 实例
func NewRecordingService(factory recording.Factory, preferenceSvc PreferenceService, logger *zap.Logger) RecordingService {
	return &recordingService{
		factory:       factory,
		preferenceSvc: preferenceSvc,
		logger:        logger,
		controllers:   make(map[string]*recording.Controller),
	}
}

// GetOrCreate 获取或创建连接的控制器
func (s *recordingService) GetOrCreate(ctx context.Context, connID string, uid int64, onTranscript recording.TranscriptHandler) (*recording.Controller, error) {
	s.mu.Lock()
	if ctrl, ok := s.controllers[connID]; ok {
		s.mu.Unlock()
		return ctrl, nil
	}
	s.mu.Unlock()

	// 偏好读取可能落库，放在锁外
	language := s.preferenceSvc.SpeechLanguage(ctx, uid)

	ctrl, err := recording.NewController(s.factory, language, onTranscript, s.logger)
	if err != nil {
		s.logger.Error("recording controller create failed",
			zap.String("connID", connID),
			zap.Int64("uid", uid),
			zap.String("language", language),
			zap.Error(err))
		return nil, code.ErrorSpeechFailed.WithDetails(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// 并发首次动作时保留先到者
	if existing, ok := s.controllers[connID]; ok {
		return existing, nil
	}
	s.controllers[connID] = ctrl
	return ctrl, nil
}

// Get 获取连接的控制器
func (s *recordingService) Get(connID string) (*recording.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctrl, ok := s.controllers[connID]
	return ctrl, ok
}

// Remove 移除连接的控制器
func (s *recordingService) Remove(connID string) {
	s.mu.Lock()
	ctrl, ok := s.controllers[connID]
	if ok {
		delete(s.controllers, connID)
	}
	s.mu.Unlock()

	if ok {
		ctrl.Abort()
	}
}

// ReapAbandoned 回收被放弃的录音会话
func (s *recordingService) ReapAbandoned(maxAge, idleTimeout time.Duration) int {
	s.mu.Lock()
	snapshot := make([]*recording.Controller, 0, len(s.controllers))
	for _, ctrl := range s.controllers {
		snapshot = append(snapshot, ctrl)
	}
	s.mu.Unlock()

	reaped := 0
	for _, ctrl := range snapshot {
		if ctrl.ReapIfAbandoned(maxAge, idleTimeout) {
			reaped++
		}
	}
	if reaped > 0 {
		s.logger.Info("abandoned recording sessions reaped", zap.Int("count", reaped))
	}
	return reaped
}

// StatusDTO 将控制器状态转换为推送消息
func (s *recordingService) StatusDTO(ctrl *recording.Controller) *dto.RecordingStatusDTO {
	st := ctrl.Status()
	return &dto.RecordingStatusDTO{
		Recording: st.Recording,
		Ready:     st.Ready,
		Language:  st.Language,
		LastError: st.LastError,
	}
}

var _ RecordingService = (*recordingService)(nil)
