package task

import (
	"context"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/app"
	"go.uber.org/zap"
)

// BackupTask 周期轮询待执行的定时备份与防抖触发的镜像同步
type BackupTask struct {
	app    *app.App
	logger *zap.Logger
}

// Name returns the task name
func (t *BackupTask) Name() string {
	return "BackupScheduled"
}

// LoopInterval returns the execution interval (every minute)
func (t *BackupTask) LoopInterval() time.Duration {
	return 1 * time.Minute
}

// IsStartupRun returns whether to run on startup
func (t *BackupTask) IsStartupRun() bool {
	return true
}

// Run executes the backup processing
func (t *BackupTask) Run(ctx context.Context) error {
	if t.app.BackupService == nil {
		return nil
	}
	return t.app.BackupService.ExecuteTaskBackups(ctx)
}

// NewBackupTask creates a new BackupTask instance
func NewBackupTask(appContainer *app.App) (Task, error) {
	return &BackupTask{
		app:    appContainer,
		logger: appContainer.Logger(),
	}, nil
}

func init() {
	Register(NewBackupTask)
}
