package task

import (
	"context"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/app"
	"go.uber.org/zap"
)

// RecordingReaperTask 回收被放弃的录音会话。客户端断电或切后台后
// 不会发送停止动作，超龄或长时间无音频的会话由这里作废。
type RecordingReaperTask struct {
	app    *app.App
	logger *zap.Logger
}

func (t *RecordingReaperTask) Name() string {
	return "RecordingReaper"
}

func (t *RecordingReaperTask) LoopInterval() time.Duration {
	return 1 * time.Minute
}

func (t *RecordingReaperTask) IsStartupRun() bool {
	return false
}

func (t *RecordingReaperTask) Run(ctx context.Context) error {
	cfg := t.app.Config()
	reaped := t.app.RecordingService.ReapAbandoned(cfg.GetRecordingMaxAge(), cfg.GetRecordingIdleTimeout())
	if reaped > 0 {
		t.logger.Info("reaped abandoned recording sessions", zap.Int("count", reaped))
	}
	return nil
}

// NewRecordingReaperTask creates a new RecordingReaperTask instance
func NewRecordingReaperTask(appContainer *app.App) (Task, error) {
	return &RecordingReaperTask{
		app:    appContainer,
		logger: appContainer.Logger(),
	}, nil
}

func init() {
	Register(NewRecordingReaperTask)
}
