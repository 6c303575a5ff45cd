package dao

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// newTestDao 创建基于临时 sqlite 文件的 Dao
func newTestDao(t *testing.T) *Dao {
	t.Helper()

	cfg := &DatabaseConfig{
		Type:        "sqlite",
		Path:        filepath.Join(t.TempDir(), "diary_test.sqlite3"),
		AutoMigrate: true,
		RunMode:     "release",
	}

	db, err := NewDBEngineWithConfig(*cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	return New(db, context.Background(),
		WithConfig(cfg),
		WithLogger(zap.NewNop()),
	)
}
