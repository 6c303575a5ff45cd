package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNgrokService_StartRequiresAuthToken(t *testing.T) {
	svc := NewNgrokService(zap.NewNop(), "", "")

	if err := svc.Start(context.Background(), "127.0.0.1:9000"); err == nil {
		t.Error("Start without an auth token should fail")
	}
	if url := svc.TunnelURL(); url != "" {
		t.Errorf("TunnelURL before a tunnel exists = %q, want empty", url)
	}
}

func TestNgrokService_StopWithoutTunnel(t *testing.T) {
	svc := NewNgrokService(zap.NewNop(), "token", "")

	// 从未建立隧道时 Stop 必须安全
	if err := svc.Stop(context.Background()); err != nil {
		t.Errorf("Stop without a tunnel = %v, want nil", err)
	}
}
