package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/pkg/code"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mocks ---

type entryMockEntryRepo struct {
	domain.EntryRepository
	nextID  int64
	entries map[string]*domain.Entry // key -> entry
}

func newEntryMockEntryRepo() *entryMockEntryRepo {
	return &entryMockEntryRepo{entries: make(map[string]*domain.Entry)}
}

func (m *entryMockEntryRepo) GetByID(ctx context.Context, id, uid int64) (*domain.Entry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *entryMockEntryRepo) GetByKey(ctx context.Context, key string, uid int64) (*domain.Entry, error) {
	if e, ok := m.entries[key]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *entryMockEntryRepo) Create(ctx context.Context, entry *domain.Entry, uid int64) (*domain.Entry, error) {
	m.nextID++
	cp := *entry
	cp.ID = m.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.entries[cp.Key] = &cp
	out := cp
	return &out, nil
}

func (m *entryMockEntryRepo) UpdateText(ctx context.Context, id int64, text string, revision int64, uid int64) error {
	for _, e := range m.entries {
		if e.ID == id {
			e.Text = text
			e.Revision = revision
			e.UpdatedAt = time.Now()
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *entryMockEntryRepo) DeleteByKeys(ctx context.Context, keys []string, uid int64) (int64, error) {
	var count int64
	for _, key := range keys {
		if _, ok := m.entries[key]; ok {
			delete(m.entries, key)
			count++
		}
	}
	return count, nil
}

func (m *entryMockEntryRepo) DeleteAll(ctx context.Context, uid int64) (int64, error) {
	count := int64(len(m.entries))
	m.entries = make(map[string]*domain.Entry)
	return count, nil
}

func (m *entryMockEntryRepo) ListAll(ctx context.Context, uid int64) ([]*domain.Entry, error) {
	var out []*domain.Entry
	for _, e := range m.entries {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

type entryMockRevisionRepo struct {
	domain.EntryRevisionRepository
	revisions []*domain.EntryRevision
}

func (m *entryMockRevisionRepo) GetByID(ctx context.Context, id, uid int64) (*domain.EntryRevision, error) {
	for _, r := range m.revisions {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *entryMockRevisionRepo) ListByEntryID(ctx context.Context, entryID int64, page, pageSize int, uid int64) ([]*domain.EntryRevision, int64, error) {
	var all []*domain.EntryRevision
	for _, r := range m.revisions {
		if r.EntryID == entryID {
			cp := *r
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Version > all[j].Version })
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start < 0 {
		start = 0
	}
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *entryMockRevisionRepo) Create(ctx context.Context, revision *domain.EntryRevision, uid int64) (*domain.EntryRevision, error) {
	cp := *revision
	cp.ID = int64(len(m.revisions) + 1)
	cp.CreatedAt = time.Now()
	m.revisions = append(m.revisions, &cp)
	return &cp, nil
}

func (m *entryMockRevisionRepo) DeleteOldVersions(ctx context.Context, entryID int64, keepVersions int, uid int64) error {
	return nil
}

func (m *entryMockRevisionRepo) DeleteByEntryID(ctx context.Context, entryID, uid int64) error {
	kept := m.revisions[:0]
	for _, r := range m.revisions {
		if r.EntryID != entryID {
			kept = append(kept, r)
		}
	}
	m.revisions = kept
	return nil
}

func (m *entryMockRevisionRepo) ListEntryIDs(ctx context.Context, uid int64) ([]int64, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, r := range m.revisions {
		if !seen[r.EntryID] {
			seen[r.EntryID] = true
			ids = append(ids, r.EntryID)
		}
	}
	return ids, nil
}

func newTestEntryService() (EntryService, *entryMockEntryRepo, *entryMockRevisionRepo) {
	entryRepo := newEntryMockEntryRepo()
	revisionRepo := &entryMockRevisionRepo{}
	svc := NewEntryService(entryRepo, revisionRepo, zap.NewNop(), &ServiceConfig{})
	return svc, entryRepo, revisionRepo
}

// --- Tests ---

func TestEntryService_CreateAssignsKeyAndTimestamp(t *testing.T) {
	svc, _, _ := newTestEntryService()

	created, res, err := svc.ModifyOrCreate(context.Background(), 1, &dto.EntryModifyRequest{Text: "  Went for a run.  "})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !created {
		t.Fatal("expected created=true")
	}
	if res.Key == "" {
		t.Error("expected a server-assigned key")
	}
	if res.Text != "Went for a run." {
		t.Errorf("expected trimmed text, got %q", res.Text)
	}
	if res.Revision != 1 {
		t.Errorf("expected revision 1, got %d", res.Revision)
	}
	if res.RecordedAt == 0 {
		t.Error("expected a server-assigned timestamp")
	}
	if res.Source != string(domain.EntrySourceText) {
		t.Errorf("expected source text, got %s", res.Source)
	}
}

func TestEntryService_CreateWhitespaceOnlyIsSilentNoop(t *testing.T) {
	svc, entryRepo, _ := newTestEntryService()

	created, res, err := svc.ModifyOrCreate(context.Background(), 1, &dto.EntryModifyRequest{Text: "   \n\t "})
	if err != nil {
		t.Fatalf("expected silent no-op, got error: %v", err)
	}
	if created || res != nil {
		t.Errorf("expected (false, nil), got (%v, %+v)", created, res)
	}
	if len(entryRepo.entries) != 0 {
		t.Error("no entry should have been stored")
	}
}

func TestEntryService_UpdateRecordsPriorRevision(t *testing.T) {
	svc, _, revisionRepo := newTestEntryService()
	ctx := context.Background()

	_, created, err := svc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Text: "hello world"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, res, err := svc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Key: created.Key, Text: "hello brave world"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if res.Revision != 2 {
		t.Errorf("expected revision 2, got %d", res.Revision)
	}
	if res.Text != "hello brave world" {
		t.Errorf("unexpected text %q", res.Text)
	}

	if len(revisionRepo.revisions) != 1 {
		t.Fatalf("expected 1 revision, got %d", len(revisionRepo.revisions))
	}
	rev := revisionRepo.revisions[0]
	if rev.Version != 1 || rev.Text != "hello world" {
		t.Errorf("revision should hold the prior text at version 1, got v%d %q", rev.Version, rev.Text)
	}
	if rev.Inserted != 6 || rev.Deleted != 0 {
		t.Errorf("expected 6 inserted / 0 deleted, got %d / %d", rev.Inserted, rev.Deleted)
	}
}

func TestEntryService_UpdateIdenticalTextIsNoop(t *testing.T) {
	svc, _, revisionRepo := newTestEntryService()
	ctx := context.Background()

	_, created, _ := svc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Text: "same text"})

	_, res, err := svc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Key: created.Key, Text: "same text"})
	if err != nil {
		t.Fatalf("noop update failed: %v", err)
	}
	if res.Revision != 1 {
		t.Errorf("revision should stay 1, got %d", res.Revision)
	}
	if len(revisionRepo.revisions) != 0 {
		t.Errorf("no revision expected, got %d", len(revisionRepo.revisions))
	}
}

func TestEntryService_UpdateMissingKey(t *testing.T) {
	svc, _, _ := newTestEntryService()

	_, _, err := svc.ModifyOrCreate(context.Background(), 1, &dto.EntryModifyRequest{Key: "missing", Text: "x"})
	if !errors.Is(err, code.ErrorEntryNotFound) {
		t.Errorf("expected ErrorEntryNotFound, got %v", err)
	}
}

func TestEntryService_CreateFromTranscript(t *testing.T) {
	svc, _, _ := newTestEntryService()

	res, err := svc.CreateFromTranscript(context.Background(), 1, "went for a run today")
	if err != nil {
		t.Fatalf("transcript create failed: %v", err)
	}
	if res.Source != string(domain.EntrySourceVoice) {
		t.Errorf("expected source voice, got %s", res.Source)
	}

	// 空转写静默忽略
	res, err = svc.CreateFromTranscript(context.Background(), 1, "   ")
	if err != nil || res != nil {
		t.Errorf("empty transcript should be a silent no-op, got (%+v, %v)", res, err)
	}
}

func TestEntryService_DeleteCleansRevisions(t *testing.T) {
	svc, entryRepo, revisionRepo := newTestEntryService()
	ctx := context.Background()

	_, first, _ := svc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Text: "first"})
	_, second, _ := svc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Text: "second"})
	svc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Key: first.Key, Text: "first edited"})

	count, err := svc.Delete(ctx, 1, []string{first.Key, "missing", second.Key})
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 deleted, got %d", count)
	}
	if len(entryRepo.entries) != 0 {
		t.Errorf("expected empty store, got %d entries", len(entryRepo.entries))
	}
	if len(revisionRepo.revisions) != 0 {
		t.Errorf("expected revisions cleaned, got %d", len(revisionRepo.revisions))
	}
}

func TestEntryService_DeleteAll(t *testing.T) {
	svc, _, _ := newTestEntryService()
	ctx := context.Background()

	svc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Text: "one"})
	svc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Text: "two"})

	count, err := svc.DeleteAll(ctx, 1)
	if err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 deleted, got %d", count)
	}
}

func TestEntryService_Snapshot(t *testing.T) {
	svc, _, _ := newTestEntryService()
	ctx := context.Background()

	svc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Text: "one"})
	svc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Text: "two"})

	snap, err := svc.Snapshot(ctx, 1)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if snap.Count != 2 || len(snap.Entries) != 2 {
		t.Errorf("expected snapshot of 2, got count=%d len=%d", snap.Count, len(snap.Entries))
	}
	if snap.LastTime == 0 {
		t.Error("expected snapshot time")
	}
}

func TestEntryService_MutationsNotifyListeners(t *testing.T) {
	defer ResetEntryChangeListeners()
	ResetEntryChangeListeners()

	changed := make(chan int64, 8)
	RegisterEntryChangeListener(func(uid int64) { changed <- uid })

	svc, _, _ := newTestEntryService()
	ctx := context.Background()

	_, created, err := svc.ModifyOrCreate(ctx, 7, &dto.EntryModifyRequest{Text: "note it down"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	select {
	case uid := <-changed:
		if uid != 7 {
			t.Errorf("expected uid 7, got %d", uid)
		}
	case <-time.After(time.Second):
		t.Fatal("create did not notify listeners")
	}

	if _, err := svc.Delete(ctx, 7, []string{created.Key}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("delete did not notify listeners")
	}
}

func TestDiffCounts(t *testing.T) {
	cases := []struct {
		name     string
		before   string
		after    string
		inserted int
		deleted  int
	}{
		{"pure insert", "hello world", "hello brave world", 6, 0},
		{"pure delete", "hello brave world", "hello world", 0, 6},
		{"replace", "coffee", "tea", 3, 6},
		{"identical", "same", "same", 0, 0},
		{"unicode", "今天", "今天跑步", 2, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inserted, deleted := diffCounts(tc.before, tc.after)
			if inserted != tc.inserted || deleted != tc.deleted {
				t.Errorf("diffCounts(%q, %q) = (%d, %d), want (%d, %d)",
					tc.before, tc.after, inserted, deleted, tc.inserted, tc.deleted)
			}
		})
	}
}
