package task

import (
	"context"
	"time"

	"github.com/IxSyZ/my-life-diary/pkg/safe_close"
	"go.uber.org/zap"
)

// Task 周期性后台任务：版本检查、备份、历史版本修剪、录音会话回收等
type Task interface {
	// Name 任务名称，用于日志
	Name() string
	// Run 执行一轮任务
	Run(ctx context.Context) error
	// LoopInterval 执行间隔，<= 0 表示只在启动时执行
	LoopInterval() time.Duration
	// IsStartupRun 是否在启动时先执行一次
	IsStartupRun() bool
}

// Scheduler drives registered tasks on their intervals. Each task gets
// its own goroutine attached to the shutdown sequencer so in-flight
// runs finish before the process exits.
// Scheduler 按间隔驱动注册的任务，挂接在关闭序列上
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
}

func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{logger: logger, sc: sc}
}

// AddTask 注册任务，需在 Start 之前调用
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start 为每个任务启动调度循环
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}
	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))
	for _, t := range s.tasks {
		s.schedule(t)
	}
}

func (s *Scheduler) schedule(task Task) {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		if task.IsStartupRun() {
			go s.runOnce(task, "startupRun")
		}

		if task.LoopInterval() <= 0 {
			return
		}

		ticker := time.NewTicker(task.LoopInterval())
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce(task, "loopRun")
			case <-closeSignal:
				s.logger.Info("task stopped", zap.String("name", task.Name()))
				return
			}
		}
	})
}

// runOnce 执行一轮并吸收 panic，单个任务崩溃不拖垮调度器
func (s *Scheduler) runOnce(task Task, mode string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.String("mode", mode),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	s.logger.Info("task running", zap.String("name", task.Name()), zap.String("mode", mode))
	if err := task.Run(context.Background()); err != nil {
		s.logger.Error("task run error",
			zap.String("name", task.Name()),
			zap.String("mode", mode),
			zap.Error(err))
	}
}
