// Package writequeue serializes write operations per user so concurrent
// sessions of the same account never contend on SQLite row locks.
// Package writequeue 将同一用户的写操作串行化，避免 SQLite "database is locked"。
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull 用户写队列已满
	ErrQueueFull = errors.New("write queue is full")
	// ErrQueueClosed 管理器已关闭
	ErrQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 写操作等待超时
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 写队列配置
type Config struct {
	// QueueCapacity 每用户队列容量，默认 64
	QueueCapacity int
	// WriteTimeout 单次写操作超时，默认 30s
	WriteTimeout time.Duration
	// IdleTimeout 空闲队列回收时间，默认 10m
	IdleTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		QueueCapacity: 64,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

// userLane 单个用户的串行写通道
type userLane struct {
	uid      int64
	ch       chan writeOp
	lastUsed atomic.Int64 // UnixNano
	closed   atomic.Bool
	stopCh   chan struct{}
	workerWg sync.WaitGroup
}

// Manager 按 uid 懒加载 lane，空闲 lane 由后台回收
type Manager struct {
	config Config
	logger *zap.Logger

	lanes sync.Map // map[int64]*userLane

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool

	reaperWg   sync.WaitGroup
	reaperDone chan struct{}
}

// New 创建写队列管理器；cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Manager {
	if cfg == nil {
		c := DefaultConfig()
		cfg = &c
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		config:     *cfg,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		reaperDone: make(chan struct{}),
	}

	m.reaperWg.Add(1)
	go m.reapIdleLanes()

	m.logger.Info("write queue manager started",
		zap.Int("queueCapacity", cfg.QueueCapacity),
		zap.Duration("writeTimeout", cfg.WriteTimeout),
		zap.Duration("idleTimeout", cfg.IdleTimeout))

	return m
}

// Execute runs fn on the user's serial lane and waits for the result. Ops of
// the same uid are FIFO; ops of different uids run independently.
// Execute 在用户的串行通道上执行 fn 并等待结果
func (m *Manager) Execute(ctx context.Context, uid int64, fn func() error) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrQueueClosed
	}
	m.mu.RUnlock()

	lane := m.laneFor(uid)
	if lane == nil {
		return ErrQueueClosed
	}

	result := make(chan error, 1)
	op := writeOp{ctx: ctx, fn: fn, result: result}

	select {
	case lane.ch <- op:
	default:
		return ErrQueueFull
	}

	// 调用方 deadline 更近时以其为准
	timeout := m.config.WriteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(timeout):
		return ErrWriteTimeout
	case <-m.ctx.Done():
		return ErrQueueClosed
	}
}

// laneFor 获取或创建用户 lane
func (m *Manager) laneFor(uid int64) *userLane {
	if v, ok := m.lanes.Load(uid); ok {
		lane := v.(*userLane)
		if !lane.closed.Load() {
			lane.lastUsed.Store(time.Now().UnixNano())
			return lane
		}
	}

	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return nil
	}
	m.mu.RUnlock()

	lane := &userLane{
		uid:    uid,
		ch:     make(chan writeOp, m.config.QueueCapacity),
		stopCh: make(chan struct{}),
	}
	lane.lastUsed.Store(time.Now().UnixNano())

	actual, loaded := m.lanes.LoadOrStore(uid, lane)
	if loaded {
		close(lane.stopCh)
		existing := actual.(*userLane)
		if !existing.closed.Load() {
			existing.lastUsed.Store(time.Now().UnixNano())
			return existing
		}
		// 旧 lane 已回收，换上新的
		m.lanes.Store(uid, lane)
	}

	lane.workerWg.Add(1)
	go m.worker(lane)

	m.logger.Debug("write lane created", zap.Int64("uid", uid))
	return lane
}

func (m *Manager) worker(lane *userLane) {
	defer lane.workerWg.Done()
	defer lane.closed.Store(true)

	for {
		select {
		case <-m.ctx.Done():
			m.drain(lane)
			return
		case <-lane.stopCh:
			m.drain(lane)
			return
		case op, ok := <-lane.ch:
			if !ok {
				return
			}
			m.runOp(lane, op)
		}
	}
}

func (m *Manager) runOp(lane *userLane, op writeOp) {
	lane.lastUsed.Store(time.Now().UnixNano())

	select {
	case <-op.ctx.Done():
		op.result <- op.ctx.Err()
		return
	default:
	}

	err := op.fn()

	select {
	case op.result <- err:
	default:
	}
}

// drain 关闭前执行 lane 中排队的剩余操作
func (m *Manager) drain(lane *userLane) {
	for {
		select {
		case op, ok := <-lane.ch:
			if !ok {
				return
			}
			m.runOp(lane, op)
		default:
			return
		}
	}
}

// reapIdleLanes 定期回收空闲 lane
func (m *Manager) reapIdleLanes() {
	defer m.reaperWg.Done()

	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.reaperDone:
			return
		case <-ticker.C:
			m.reapOnce()
		}
	}
}

func (m *Manager) reapOnce() {
	now := time.Now().UnixNano()
	idle := m.config.IdleTimeout.Nanoseconds()

	m.lanes.Range(func(key, value interface{}) bool {
		uid := key.(int64)
		lane := value.(*userLane)

		if now-lane.lastUsed.Load() <= idle {
			return true
		}
		if len(lane.ch) != 0 || lane.closed.Load() {
			return true
		}

		m.logger.Debug("reaping idle write lane", zap.Int64("uid", uid))
		lane.closed.Store(true)
		close(lane.stopCh)
		m.lanes.Delete(uid)
		return true
	})
}

// Shutdown 停止所有 lane 并等待排队的写完成，超时后强制取消
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down")

	close(m.reaperDone)

	done := make(chan struct{})
	go func() {
		m.lanes.Range(func(key, value interface{}) bool {
			lane := value.(*userLane)
			if !lane.closed.Load() {
				lane.closed.Store(true)
				select {
				case <-lane.stopCh:
				default:
					close(lane.stopCh)
				}
			}
			return true
		})

		m.lanes.Range(func(key, value interface{}) bool {
			lane := value.(*userLane)
			lane.workerWg.Wait()
			return true
		})

		m.reaperWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		m.cancel()
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout, forcing cancellation")
		m.cancel()
		return ctx.Err()
	}
}

// LaneCount 当前活跃 lane 数
func (m *Manager) LaneCount() int {
	count := 0
	m.lanes.Range(func(key, value interface{}) bool {
		if !value.(*userLane).closed.Load() {
			count++
		}
		return true
	})
	return count
}

// QueuedCount 指定用户排队中的写操作数
func (m *Manager) QueuedCount(uid int64) int {
	if v, ok := m.lanes.Load(uid); ok {
		return len(v.(*userLane).ch)
	}
	return 0
}

func (m *Manager) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Stats 供运维状态接口读取的队列状态
type Stats struct {
	QueueCapacity int  `json:"queueCapacity"`
	ActiveLanes   int  `json:"activeLanes"`
	IsClosed      bool `json:"isClosed"`
}

func (m *Manager) GetStats() Stats {
	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()

	return Stats{
		QueueCapacity: m.config.QueueCapacity,
		ActiveLanes:   m.LaneCount(),
		IsClosed:      closed,
	}
}
