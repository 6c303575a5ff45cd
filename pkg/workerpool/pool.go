// Package workerpool bounds the goroutines spent on background jobs, such as
// speech transcription calls, backup archiving and git exports.
// Package workerpool 限制后台任务的并发 goroutine 数量。
package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrPoolFull 任务队列已满
	ErrPoolFull = errors.New("worker pool queue is full")
	// ErrPoolClosed 池已关闭
	ErrPoolClosed = errors.New("worker pool is closed")
)

// Config 工作池配置
type Config struct {
	// MaxWorkers 最大并发 worker 数，默认 32
	MaxWorkers int
	// QueueSize 等待队列容量，默认 256
	QueueSize int
	// WarningPercent 队列压力告警阈值，默认 0.8
	WarningPercent float64
}

func DefaultConfig() Config {
	return Config{
		MaxWorkers:     32,
		QueueSize:      256,
		WarningPercent: 0.8,
	}
}

type job struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error // nil for fire-and-forget jobs
}

// Pool 固定 worker 数的任务池
type Pool struct {
	config Config
	logger *zap.Logger

	jobCh  chan job
	warnAt int

	activeCount atomic.Int64

	workerWg sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// New 创建任务池；cfg 为 nil 时使用默认配置，logger 为 nil 时静默
func New(cfg *Config, logger *zap.Logger) *Pool {
	if cfg == nil {
		c := DefaultConfig()
		cfg = &c
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 32
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.WarningPercent <= 0 || cfg.WarningPercent > 1 {
		cfg.WarningPercent = 0.8
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		config: *cfg,
		logger: logger,
		jobCh:  make(chan job, cfg.QueueSize),
		warnAt: int(float64(cfg.QueueSize) * cfg.WarningPercent),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < cfg.MaxWorkers; i++ {
		p.workerWg.Add(1)
		go p.worker()
	}

	p.logger.Info("worker pool started",
		zap.Int("maxWorkers", cfg.MaxWorkers),
		zap.Int("queueSize", cfg.QueueSize))

	return p
}

func (p *Pool) worker() {
	defer p.workerWg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case j, ok := <-p.jobCh:
			if !ok {
				return
			}
			p.run(j)
		}
	}
}

func (p *Pool) run(j job) {
	p.activeCount.Add(1)
	defer p.activeCount.Add(-1)

	var err error
	select {
	case <-j.ctx.Done():
		err = j.ctx.Err()
	default:
		err = j.fn(j.ctx)
	}

	if j.done != nil {
		select {
		case j.done <- err:
		default:
		}
	}
}

// enqueue 入队并在队列压力过高时告警
func (p *Pool) enqueue(j job) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	p.mu.RUnlock()

	select {
	case p.jobCh <- j:
	default:
		return ErrPoolFull
	}

	if queued := len(p.jobCh); queued >= p.warnAt {
		p.logger.Warn("worker pool queue under pressure",
			zap.Int("queued", queued),
			zap.Int("capacity", p.config.QueueSize))
	}
	return nil
}

// Submit 提交任务并等待其完成
func (p *Pool) Submit(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)
	if err := p.enqueue(job{ctx: ctx, fn: fn, done: done}); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

// SubmitAsync 提交任务但不等待结果
func (p *Pool) SubmitAsync(ctx context.Context, fn func(context.Context) error) error {
	return p.enqueue(job{ctx: ctx, fn: fn})
}

// ActiveCount 当前执行中的任务数
func (p *Pool) ActiveCount() int64 {
	return p.activeCount.Load()
}

// QueuedCount 当前排队中的任务数
func (p *Pool) QueuedCount() int {
	return len(p.jobCh)
}

func (p *Pool) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Shutdown 停止接收新任务并等待在执行的任务结束，超时后强制取消
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.logger.Info("worker pool shutting down",
		zap.Int64("active", p.activeCount.Load()),
		zap.Int("queued", len(p.jobCh)))

	close(p.jobCh)

	done := make(chan struct{})
	go func() {
		p.workerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool shutdown completed")
		return nil
	case <-ctx.Done():
		p.cancel()
		p.logger.Warn("worker pool shutdown timeout, forcing cancellation")
		return ctx.Err()
	}
}

// Stats 供运维状态接口读取的池状态
type Stats struct {
	MaxWorkers    int   `json:"maxWorkers"`
	ActiveCount   int64 `json:"activeCount"`
	QueuedCount   int   `json:"queuedCount"`
	QueueCapacity int   `json:"queueCapacity"`
	IsClosed      bool  `json:"isClosed"`
}

// GetStats 读取当前池状态
func (p *Pool) GetStats() Stats {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()

	return Stats{
		MaxWorkers:    p.config.MaxWorkers,
		ActiveCount:   p.activeCount.Load(),
		QueuedCount:   len(p.jobCh),
		QueueCapacity: p.config.QueueSize,
		IsClosed:      closed,
	}
}
