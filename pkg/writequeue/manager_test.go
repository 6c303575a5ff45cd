package writequeue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestManager_ExecuteSerializesPerUser(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	const ops = 50
	var order []int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < ops; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			_ = m.Execute(context.Background(), 1, func() error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	// 并发提交顺序不定，但每个操作必须恰好执行一次
	if len(order) != ops {
		t.Fatalf("executed %d ops, want %d", len(order), ops)
	}
	seen := make(map[int]bool, ops)
	for _, v := range order {
		if seen[v] {
			t.Fatalf("op %d executed more than once", v)
		}
		seen[v] = true
	}
}

func TestManager_ExecuteReturnsFnError(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	wantErr := errors.New("unique constraint")
	err := m.Execute(context.Background(), 7, func() error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Errorf("Execute error = %v, want %v", err, wantErr)
	}
}

func TestManager_LanesAreIndependent(t *testing.T) {
	m := New(&Config{QueueCapacity: 4}, nil)
	defer m.Shutdown(context.Background())

	block := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = m.Execute(context.Background(), 1, func() error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	// 用户 1 的 lane 被占住时，用户 2 的写不应受影响
	done := make(chan error, 1)
	go func() {
		done <- m.Execute(context.Background(), 2, func() error { return nil })
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("user 2 write failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("user 2 write blocked by user 1 lane")
	}
	close(block)

	if m.LaneCount() < 1 {
		t.Error("expected at least one active lane")
	}
}

func TestManager_ExecuteAfterShutdown(t *testing.T) {
	m := New(nil, nil)
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	err := m.Execute(context.Background(), 1, func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}
	if !m.IsClosed() {
		t.Error("manager should report closed")
	}
}

func TestManager_WriteTimeout(t *testing.T) {
	m := New(&Config{WriteTimeout: 50 * time.Millisecond, QueueCapacity: 4}, nil)
	defer m.Shutdown(context.Background())

	block := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), 3, func() error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	// lane 被长操作占住，后续写应在超时后返回
	err := m.Execute(context.Background(), 3, func() error { return nil })
	if !errors.Is(err, ErrWriteTimeout) {
		t.Errorf("expected ErrWriteTimeout, got %v", err)
	}
	close(block)
}
