package task

import (
	"context"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/app"
	"go.uber.org/zap"
)

// RevisionPruneTask 周期裁剪条目历史版本，保留数之外和孤儿版本被清理
type RevisionPruneTask struct {
	app    *app.App
	logger *zap.Logger
}

func (t *RevisionPruneTask) Name() string {
	return "RevisionPrune"
}

func (t *RevisionPruneTask) LoopInterval() time.Duration {
	return 1 * time.Hour
}

func (t *RevisionPruneTask) IsStartupRun() bool {
	return false
}

// Run 遍历全部用户执行版本裁剪，单个用户失败不阻断其他用户
func (t *RevisionPruneTask) Run(ctx context.Context) error {
	uids, err := t.app.UserService.GetAllUIDs(ctx)
	if err != nil {
		return err
	}

	for _, uid := range uids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := t.app.RevisionService.Prune(ctx, uid); err != nil {
			t.logger.Warn("revision prune failed",
				zap.Int64("uid", uid),
				zap.Error(err))
		}
	}
	return nil
}

// NewRevisionPruneTask creates a new RevisionPruneTask instance
func NewRevisionPruneTask(appContainer *app.App) (Task, error) {
	return &RevisionPruneTask{
		app:    appContainer,
		logger: appContainer.Logger(),
	}, nil
}

func init() {
	Register(NewRevisionPruneTask)
}
