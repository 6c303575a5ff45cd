package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_SubmitAndWait(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 8}, nil)
	defer p.Shutdown(context.Background())

	var ran atomic.Int32
	err := p.Submit(context.Background(), func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if ran.Load() != 1 {
		t.Errorf("job ran %d times, want 1", ran.Load())
	}
}

func TestPool_SubmitReturnsJobError(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 4}, nil)
	defer p.Shutdown(context.Background())

	wantErr := errors.New("archive failed")
	err := p.Submit(context.Background(), func(ctx context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Submit error = %v, want %v", err, wantErr)
	}
}

func TestPool_SubmitAsync(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 8}, nil)
	defer p.Shutdown(context.Background())

	done := make(chan struct{})
	err := p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("SubmitAsync failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async job did not run")
	}
}

func TestPool_QueueFull(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(context.Background())

	block := make(chan struct{})
	release := make(chan struct{})

	// 占住唯一的 worker
	_ = p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		close(block)
		<-release
		return nil
	})
	<-block

	// 填满队列
	_ = p.SubmitAsync(context.Background(), func(ctx context.Context) error { return nil })

	err := p.SubmitAsync(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrPoolFull) {
		t.Errorf("expected ErrPoolFull, got %v", err)
	}
	close(release)
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p := New(nil, nil)
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	err := p.Submit(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
	if !p.IsClosed() {
		t.Error("pool should report closed")
	}
}

func TestPool_GetStats(t *testing.T) {
	p := New(&Config{MaxWorkers: 3, QueueSize: 9}, nil)
	defer p.Shutdown(context.Background())

	s := p.GetStats()
	if s.MaxWorkers != 3 {
		t.Errorf("MaxWorkers = %d, want 3", s.MaxWorkers)
	}
	if s.QueueCapacity != 9 {
		t.Errorf("QueueCapacity = %d, want 9", s.QueueCapacity)
	}
	if s.IsClosed {
		t.Error("fresh pool should not be closed")
	}
}
