package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/pkg/code"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mocks ---

type gitMirrorMockRepo struct {
	domain.GitMirrorRepository
	nextID  int64
	configs map[int64]*domain.GitMirrorConfig
}

func newGitMirrorMockRepo() *gitMirrorMockRepo {
	return &gitMirrorMockRepo{configs: make(map[int64]*domain.GitMirrorConfig)}
}

func (m *gitMirrorMockRepo) GetByID(ctx context.Context, id, uid int64) (*domain.GitMirrorConfig, error) {
	if c, ok := m.configs[id]; ok && c.UID == uid {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *gitMirrorMockRepo) Create(ctx context.Context, config *domain.GitMirrorConfig, uid int64) (*domain.GitMirrorConfig, error) {
	m.nextID++
	cp := *config
	cp.ID = m.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.configs[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *gitMirrorMockRepo) Update(ctx context.Context, config *domain.GitMirrorConfig, uid int64) error {
	if _, ok := m.configs[config.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *config
	m.configs[config.ID] = &cp
	return nil
}

func (m *gitMirrorMockRepo) Delete(ctx context.Context, id, uid int64) error {
	delete(m.configs, id)
	return nil
}

func (m *gitMirrorMockRepo) List(ctx context.Context, uid int64) ([]*domain.GitMirrorConfig, error) {
	var out []*domain.GitMirrorConfig
	for _, c := range m.configs {
		if c.UID == uid {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *gitMirrorMockRepo) UpdateSyncStatus(ctx context.Context, id, uid int64, status int64, message string, syncTime int64) error {
	c, ok := m.configs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.LastStatus = status
	c.LastMessage = message
	if syncTime > 0 {
		t := time.Unix(syncTime, 0)
		c.LastSyncTime = &t
	}
	return nil
}

// --- Tests ---

func newTestGitMirrorService(t *testing.T) (*gitMirrorService, *gitMirrorMockRepo, *entryMockEntryRepo) {
	t.Helper()
	repo := newGitMirrorMockRepo()
	entryRepo := newEntryMockEntryRepo()
	cfg := &ServiceConfig{App: AppServiceConfig{GitWorkspacePath: t.TempDir()}}
	svc := NewGitMirrorService(repo, entryRepo, &mockNotifyService{}, zap.NewNop(), cfg)
	return svc.(*gitMirrorService), repo, entryRepo
}

func TestGitMirrorService_UpdateConfigDefaultsBranch(t *testing.T) {
	svc, repo, _ := newTestGitMirrorService(t)

	created, err := svc.UpdateConfig(context.Background(), 1, &dto.GitMirrorConfigRequest{
		RepoURL:  "https://example.com/diary.git",
		Username: "me",
		Password: "token",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Branch != "main" {
		t.Errorf("empty branch should default to main, got %q", created.Branch)
	}
	if repo.configs[created.ID].Password != "token" {
		t.Error("credential should be stored")
	}
}

func TestGitMirrorService_UpdateKeepsStoredCredential(t *testing.T) {
	svc, repo, _ := newTestGitMirrorService(t)
	ctx := context.Background()

	created, _ := svc.UpdateConfig(ctx, 1, &dto.GitMirrorConfigRequest{
		RepoURL: "https://example.com/diary.git", Password: "secret",
	})

	// 更新时不带密码，保留已存凭证
	if _, err := svc.UpdateConfig(ctx, 1, &dto.GitMirrorConfigRequest{
		ID: created.ID, RepoURL: "https://example.com/diary.git", Branch: "trunk",
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	conf := repo.configs[created.ID]
	if conf.Password != "secret" {
		t.Errorf("stored credential should survive update, got %q", conf.Password)
	}
	if conf.Branch != "trunk" {
		t.Errorf("branch should update, got %q", conf.Branch)
	}
}

func TestGitMirrorService_NotFound(t *testing.T) {
	svc, _, _ := newTestGitMirrorService(t)
	ctx := context.Background()

	if _, err := svc.GetConfig(ctx, 1, 99); !errors.Is(err, code.ErrorGitMirrorNotFound) {
		t.Errorf("expected ErrorGitMirrorNotFound, got %v", err)
	}
	if err := svc.DeleteConfig(ctx, 1, 99); !errors.Is(err, code.ErrorGitMirrorNotFound) {
		t.Errorf("expected ErrorGitMirrorNotFound, got %v", err)
	}
	if err := svc.ExecuteSync(ctx, 1, 99); !errors.Is(err, code.ErrorGitMirrorNotFound) {
		t.Errorf("expected ErrorGitMirrorNotFound, got %v", err)
	}
}

func TestGitMirrorService_MirrorWritesAndPrunesDayFiles(t *testing.T) {
	svc, _, entryRepo := newTestGitMirrorService(t)
	ctx := context.Background()

	seedEntry(entryRepo, "k1", "rainy day", time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local))

	conf := &domain.GitMirrorConfig{ID: 1, UID: 1}
	wsPath := svc.getWorkspacePath(1, 1)

	// 预置一个条目已不存在的旧天文件和一个无关文件
	staleDir := filepath.Join(wsPath, "2023", "12")
	if err := os.MkdirAll(staleDir, 0755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(staleDir, "2023-12-01.md")
	os.WriteFile(stale, []byte("gone"), 0644)
	readme := filepath.Join(wsPath, "README.md")
	os.WriteFile(readme, []byte("keep me"), 0644)

	if err := svc.mirrorJournalToWorkspace(ctx, conf, wsPath); err != nil {
		t.Fatalf("mirror failed: %v", err)
	}

	day := filepath.Join(wsPath, "2024", "01", "2024-01-15.md")
	if _, err := os.Stat(day); err != nil {
		t.Errorf("day file should be written: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale day file should be removed")
	}
	if _, err := os.Stat(readme); err != nil {
		t.Error("foreign files must be left alone")
	}
}

func TestIsDayFilePath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"2024/01/2024-01-15.md", true},
		{"README.md", false},
		{"2024/01/notes.md", false},
		{"docs/2024/01/2024-01-15.md", false},
		{"2024/1/2024-01-15.md", false},
	}
	for _, c := range cases {
		if got := isDayFilePath(c.path); got != c.want {
			t.Errorf("isDayFilePath(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}
