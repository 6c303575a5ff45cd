// Package safe_close coordinates the shutdown of long running goroutines.
// Package safe_close 协调长期运行协程的有序关闭
package safe_close

import (
	"sync"
)

// SafeClose fans a close signal out to attached goroutines and waits for
// each of them to report that its cleanup has finished. The first error
// sent with the close signal wins.
type SafeClose struct {
	mu       sync.Mutex
	closed   chan struct{}
	closeErr error
	wg       sync.WaitGroup
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closed: make(chan struct{}),
	}
}

// Attach starts f in its own goroutine. f must call done exactly once
// after it finishes cleaning up; closeSignal is closed when a shutdown
// has been requested.
// Attach 启动协程，f 在收到 closeSignal 并完成清理后必须调用 done
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	done := func() {
		once.Do(s.wg.Done)
	}
	go f(done, s.closed)
}

// SendCloseSignal requests a shutdown. Only the first call records err;
// subsequent calls are no-ops.
// SendCloseSignal 发送关闭信号，仅第一次调用的 err 会被记录
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.closed:
	default:
		s.closeErr = err
		close(s.closed)
	}
}

// CloseSignal returns the channel that is closed once a shutdown has
// been requested, for callers that only need to observe the signal.
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closed
}

// WaitClosed blocks until a close signal has been sent and every
// attached goroutine has called done, then returns the recorded error.
// WaitClosed 等待关闭信号且所有协程退出后返回记录的错误
func (s *SafeClose) WaitClosed() error {
	<-s.closed
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeErr
}
