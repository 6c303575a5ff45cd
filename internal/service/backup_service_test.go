package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	pkgstorage "github.com/IxSyZ/my-life-diary/pkg/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mocks ---

type backupMockRepo struct {
	domain.BackupRepository
	mu        sync.Mutex
	nextID    int64
	configs   map[int64]*domain.BackupConfig
	histories []*domain.BackupHistory
}

func newBackupMockRepo() *backupMockRepo {
	return &backupMockRepo{configs: make(map[int64]*domain.BackupConfig)}
}

func (m *backupMockRepo) GetConfigByID(ctx context.Context, id, uid int64) (*domain.BackupConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.configs[id]; ok && c.UID == uid {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *backupMockRepo) CreateConfig(ctx context.Context, config *domain.BackupConfig, uid int64) (*domain.BackupConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *config
	cp.ID = m.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.configs[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *backupMockRepo) UpdateConfig(ctx context.Context, config *domain.BackupConfig, uid int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.configs[config.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *config
	cp.UpdatedAt = time.Now()
	m.configs[config.ID] = &cp
	return nil
}

func (m *backupMockRepo) DeleteConfig(ctx context.Context, id, uid int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.configs, id)
	return nil
}

func (m *backupMockRepo) ListConfigs(ctx context.Context, uid int64) ([]*domain.BackupConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.BackupConfig
	for _, c := range m.configs {
		if c.UID == uid {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *backupMockRepo) ListEnabledConfigs(ctx context.Context) ([]*domain.BackupConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.BackupConfig
	for _, c := range m.configs {
		if c.IsEnabled {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *backupMockRepo) UpdateRunStatus(ctx context.Context, id, uid int64, status int, message string, lastRun, nextRun int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.configs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.LastStatus = status
	c.LastMessage = message
	c.LastRunTime = time.Unix(lastRun, 0)
	c.NextRunTime = time.Unix(nextRun, 0)
	return nil
}

func (m *backupMockRepo) CreateHistory(ctx context.Context, history *domain.BackupHistory, uid int64) (*domain.BackupHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *history
	cp.ID = int64(len(m.histories) + 1)
	m.histories = append(m.histories, &cp)
	out := cp
	return &out, nil
}

func (m *backupMockRepo) UpdateHistory(ctx context.Context, history *domain.BackupHistory, uid int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, h := range m.histories {
		if h.ID == history.ID {
			cp := *history
			m.histories[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *backupMockRepo) ListHistory(ctx context.Context, configID int64, page, pageSize int, uid int64) ([]*domain.BackupHistory, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.BackupHistory
	for _, h := range m.histories {
		if h.ConfigID == configID {
			cp := *h
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (m *backupMockRepo) ListHistoryBefore(ctx context.Context, configID int64, timestamp int64, uid int64) ([]*domain.BackupHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.BackupHistory
	for _, h := range m.histories {
		if h.ConfigID == configID && h.StartTime.Unix() < timestamp {
			cp := *h
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *backupMockRepo) DeleteHistoryBefore(ctx context.Context, configID int64, timestamp int64, uid int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.histories[:0]
	var removed int64
	for _, h := range m.histories {
		if h.ConfigID == configID && h.StartTime.Unix() < timestamp {
			removed++
			continue
		}
		kept = append(kept, h)
	}
	m.histories = kept
	return removed, nil
}

func (m *backupMockRepo) historySnapshot() []*domain.BackupHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.BackupHistory, len(m.histories))
	copy(out, m.histories)
	return out
}

// mockStorager 记录所有上传与删除调用
type mockStorager struct {
	mu       sync.Mutex
	sent     map[string][]byte
	deleted  []string
	sendErr  error
	fileSent []string
}

func newMockStorager() *mockStorager {
	return &mockStorager{sent: make(map[string][]byte)}
}

func (m *mockStorager) SendFile(fileKey string, file io.Reader, contentType string, modTime time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return "", m.sendErr
	}
	data, _ := io.ReadAll(file)
	m.sent[fileKey] = data
	m.fileSent = append(m.fileSent, fileKey)
	return fileKey, nil
}

func (m *mockStorager) SendContent(fileKey string, content []byte, modTime time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return "", m.sendErr
	}
	m.sent[fileKey] = content
	return fileKey, nil
}

func (m *mockStorager) Delete(fileKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, fileKey)
	return nil
}

type mockStorageService struct {
	StorageService
	storagers map[int64]*mockStorager
}

func newMockStorageService(ids ...int64) *mockStorageService {
	s := &mockStorageService{storagers: make(map[int64]*mockStorager)}
	for _, id := range ids {
		s.storagers[id] = newMockStorager()
	}
	return s
}

func (m *mockStorageService) Get(ctx context.Context, uid int64, id int64) (*dto.StorageDTO, error) {
	if _, ok := m.storagers[id]; !ok {
		return nil, code.ErrorStorageNotFound
	}
	return &dto.StorageDTO{ID: id, UID: uid, Type: "local"}, nil
}

func (m *mockStorageService) Client(ctx context.Context, uid int64, id int64) (pkgstorage.Storager, error) {
	if st, ok := m.storagers[id]; ok {
		return st, nil
	}
	return nil, code.ErrorStorageNotFound
}

type mockNotifyService struct {
	mu             sync.Mutex
	backupFailures []string
	mirrorFailures []string
}

func (m *mockNotifyService) Enabled() bool { return true }

func (m *mockNotifyService) BackupFailed(ctx context.Context, uid int64, configID int64, backupType string, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backupFailures = append(m.backupFailures, message)
}

func (m *mockNotifyService) GitMirrorFailed(ctx context.Context, uid int64, repoURL string, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mirrorFailures = append(m.mirrorFailures, message)
}

// --- Tests ---

func newTestBackupService(t *testing.T, storageIDs ...int64) (BackupService, *backupMockRepo, *entryMockEntryRepo, *mockStorageService, *mockNotifyService) {
	t.Helper()
	repo := newBackupMockRepo()
	entryRepo := newEntryMockEntryRepo()
	storageSvc := newMockStorageService(storageIDs...)
	notifySvc := &mockNotifyService{}
	cfg := &ServiceConfig{App: AppServiceConfig{TempPath: t.TempDir()}}
	svc := NewBackupService(repo, entryRepo, storageSvc, notifySvc, zap.NewNop(), cfg)
	return svc, repo, entryRepo, storageSvc, notifySvc
}

func seedEntry(repo *entryMockEntryRepo, key, text string, recordedAt time.Time) {
	repo.Create(context.Background(), &domain.Entry{
		Key:        key,
		UID:        1,
		Text:       text,
		Revision:   1,
		RecordedAt: recordedAt,
	}, 1)
}

func TestBackupService_UpdateConfigValidation(t *testing.T) {
	svc, _, _, _, _ := newTestBackupService(t, 7)
	ctx := context.Background()

	if _, err := svc.UpdateConfig(ctx, 1, &dto.BackupConfigRequest{
		Type: "full", StorageIds: "not json", CronStrategy: "daily", RetentionDays: 30,
	}); !errors.Is(err, code.ErrorBackupStorageIDs) {
		t.Errorf("expected ErrorBackupStorageIDs, got %v", err)
	}

	if _, err := svc.UpdateConfig(ctx, 1, &dto.BackupConfigRequest{
		Type: "full", StorageIds: "[99]", CronStrategy: "daily", RetentionDays: 30,
	}); !errors.Is(err, code.ErrorStorageNotFound) {
		t.Errorf("expected ErrorStorageNotFound, got %v", err)
	}

	if _, err := svc.UpdateConfig(ctx, 1, &dto.BackupConfigRequest{
		Type: "full", StorageIds: "[7]", CronStrategy: "custom", CronExpression: "bogus", RetentionDays: 30,
	}); !errors.Is(err, code.ErrorBackupCronInvalid) {
		t.Errorf("expected ErrorBackupCronInvalid, got %v", err)
	}
}

func TestBackupService_UpdateConfigSchedulesNextRun(t *testing.T) {
	svc, repo, _, _, _ := newTestBackupService(t, 7)

	created, err := svc.UpdateConfig(context.Background(), 1, &dto.BackupConfigRequest{
		Type: "full", StorageIds: "[7]", IsEnabled: true, CronStrategy: "daily", RetentionDays: 30,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}

	conf := repo.configs[created.ID]
	if !conf.NextRunTime.After(time.Now()) {
		t.Errorf("daily config should schedule a future run, got %v", conf.NextRunTime)
	}
	if conf.NextRunTime.Sub(time.Now()) > 25*time.Hour {
		t.Errorf("daily next run should be within a day, got %v", conf.NextRunTime)
	}
}

func TestBackupService_FullArchiveUploads(t *testing.T) {
	svc, repo, entryRepo, storageSvc, _ := newTestBackupService(t, 7)
	ctx := context.Background()

	seedEntry(entryRepo, "k1", "morning walk", time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local))
	seedEntry(entryRepo, "k2", "evening tea", time.Date(2024, 2, 3, 20, 0, 0, 0, time.Local))

	created, err := svc.UpdateConfig(ctx, 1, &dto.BackupConfigRequest{
		Type: "full", StorageIds: "[7]", IsEnabled: true, CronStrategy: "daily", RetentionDays: 30,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}

	if err := svc.ExecuteUserBackup(ctx, 1, created.ID); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	st := storageSvc.storagers[7]
	if len(st.fileSent) != 1 {
		t.Fatalf("expected 1 archive upload, got %d", len(st.fileSent))
	}
	if len(st.sent[st.fileSent[0]]) == 0 {
		t.Error("uploaded archive should not be empty")
	}

	histories := repo.historySnapshot()
	if len(histories) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(histories))
	}
	h := histories[0]
	if h.Status != domain.BackupStatusSuccess || h.FileCount != 2 {
		t.Errorf("unexpected history %+v", h)
	}

	conf := repo.configs[created.ID]
	if conf.LastStatus != domain.BackupStatusSuccess {
		t.Errorf("config status should be success, got %d", conf.LastStatus)
	}
}

func TestBackupService_IncrementalNoChanges(t *testing.T) {
	svc, repo, entryRepo, storageSvc, _ := newTestBackupService(t, 7)
	ctx := context.Background()

	// 条目早于上次运行，增量备份没有可归档的变更
	old := time.Now().Add(-48 * time.Hour)
	seedEntry(entryRepo, "k1", "stale entry", old)
	entryRepo.entries["k1"].UpdatedAt = old

	created, err := svc.UpdateConfig(ctx, 1, &dto.BackupConfigRequest{
		Type: "incremental", StorageIds: "[7]", IsEnabled: true, CronStrategy: "daily", RetentionDays: 30,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}
	repo.configs[created.ID].LastRunTime = time.Now().Add(-1 * time.Hour)

	if err := svc.ExecuteUserBackup(ctx, 1, created.ID); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	if len(storageSvc.storagers[7].fileSent) != 0 {
		t.Error("no archive should be uploaded without changes")
	}
	conf := repo.configs[created.ID]
	if conf.LastStatus != domain.BackupStatusNoUpdate {
		t.Errorf("expected no-update status, got %d", conf.LastStatus)
	}
	histories := repo.historySnapshot()
	if len(histories) != 1 || histories[0].Status != domain.BackupStatusNoUpdate {
		t.Errorf("expected one no-update history row, got %+v", histories)
	}
}

func TestBackupService_SyncMirrorsDayFiles(t *testing.T) {
	svc, repo, entryRepo, storageSvc, _ := newTestBackupService(t, 7)
	ctx := context.Background()

	seedEntry(entryRepo, "k1", "first note", time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local))
	seedEntry(entryRepo, "k2", "second note", time.Date(2024, 1, 16, 9, 0, 0, 0, time.Local))

	created, err := svc.UpdateConfig(ctx, 1, &dto.BackupConfigRequest{
		Type: "sync", StorageIds: "[7]", IsEnabled: true, CronStrategy: "daily", RetentionDays: 30,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}

	if err := svc.ExecuteUserBackup(ctx, 1, created.ID); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	st := storageSvc.storagers[7]
	if _, ok := st.sent["2024/01/2024-01-15.md"]; !ok {
		t.Errorf("day file 2024-01-15 should be mirrored, sent: %v", st.sent)
	}
	if _, ok := st.sent["2024/01/2024-01-16.md"]; !ok {
		t.Errorf("day file 2024-01-16 should be mirrored, sent: %v", st.sent)
	}

	histories := repo.historySnapshot()
	if len(histories) != 1 || histories[0].Status != domain.BackupStatusSuccess || histories[0].FileCount != 2 {
		t.Errorf("unexpected sync history %+v", histories)
	}
}

func TestBackupService_FailureNotifiesUser(t *testing.T) {
	svc, repo, entryRepo, storageSvc, notifySvc := newTestBackupService(t, 7)
	ctx := context.Background()

	seedEntry(entryRepo, "k1", "note", time.Now())
	storageSvc.storagers[7].sendErr = errors.New("bucket unreachable")

	created, err := svc.UpdateConfig(ctx, 1, &dto.BackupConfigRequest{
		Type: "sync", StorageIds: "[7]", IsEnabled: true, CronStrategy: "daily", RetentionDays: 30,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}

	if err := svc.ExecuteUserBackup(ctx, 1, created.ID); err != nil {
		t.Fatalf("manual backup should swallow run errors, got %v", err)
	}

	conf := repo.configs[created.ID]
	if conf.LastStatus != domain.BackupStatusFailed {
		t.Errorf("expected failed status, got %d", conf.LastStatus)
	}
	notifySvc.mu.Lock()
	defer notifySvc.mu.Unlock()
	if len(notifySvc.backupFailures) != 1 {
		t.Errorf("expected one failure notification, got %d", len(notifySvc.backupFailures))
	}
}

func TestBackupService_RetentionDeletesOldArchives(t *testing.T) {
	svc, repo, entryRepo, storageSvc, _ := newTestBackupService(t, 7)
	ctx := context.Background()

	seedEntry(entryRepo, "k1", "note", time.Now())

	created, err := svc.UpdateConfig(ctx, 1, &dto.BackupConfigRequest{
		Type: "full", StorageIds: "[7]", IsEnabled: true, CronStrategy: "daily", RetentionDays: 7,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}

	// 一条 30 天前的归档历史，早于保留窗口
	repo.CreateHistory(ctx, &domain.BackupHistory{
		UID:       1,
		ConfigID:  created.ID,
		StorageID: 7,
		Type:      domain.BackupTypeFull,
		StartTime: time.Now().AddDate(0, 0, -30),
		Status:    domain.BackupStatusSuccess,
		FilePath:  "diary_full_1_old.zip",
	}, 1)

	if err := svc.ExecuteUserBackup(ctx, 1, created.ID); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	st := storageSvc.storagers[7]
	st.mu.Lock()
	deleted := append([]string(nil), st.deleted...)
	st.mu.Unlock()
	if len(deleted) != 1 || deleted[0] != "diary_full_1_old.zip" {
		t.Errorf("expected stale archive deleted, got %v", deleted)
	}
	for _, h := range repo.historySnapshot() {
		if h.FilePath == "diary_full_1_old.zip" {
			t.Error("stale history row should be removed")
		}
	}
}

func TestBackupService_DisabledConfigRejected(t *testing.T) {
	svc, repo, _, _, _ := newTestBackupService(t, 7)
	ctx := context.Background()

	created, _ := svc.UpdateConfig(ctx, 1, &dto.BackupConfigRequest{
		Type: "full", StorageIds: "[7]", IsEnabled: false, CronStrategy: "daily", RetentionDays: 30,
	})
	if err := svc.ExecuteUserBackup(ctx, 1, created.ID); !errors.Is(err, code.ErrorBackupDisabled) {
		t.Errorf("expected ErrorBackupDisabled, got %v", err)
	}

	delete(repo.configs, created.ID)
	if err := svc.ExecuteUserBackup(ctx, 1, created.ID); !errors.Is(err, code.ErrorBackupConfigNotFound) {
		t.Errorf("expected ErrorBackupConfigNotFound, got %v", err)
	}
}
