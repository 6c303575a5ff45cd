package service

import (
	"context"
	"errors"
	"testing"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/pkg/code"

	"go.uber.org/zap"
)

func newTestRevisionService() (RevisionService, EntryService, *entryMockEntryRepo, *entryMockRevisionRepo) {
	entryRepo := newEntryMockEntryRepo()
	revisionRepo := &entryMockRevisionRepo{}
	entrySvc := NewEntryService(entryRepo, revisionRepo, zap.NewNop(), &ServiceConfig{})
	svc := NewRevisionService(entryRepo, revisionRepo, entrySvc, zap.NewNop(), &ServiceConfig{})
	return svc, entrySvc, entryRepo, revisionRepo
}

func TestRevisionService_ListNewestFirst(t *testing.T) {
	svc, entrySvc, _, _ := newTestRevisionService()
	ctx := context.Background()

	_, created, err := entrySvc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Text: "v1 text"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	entrySvc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Key: created.Key, Text: "v2 text"})
	entrySvc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Key: created.Key, Text: "v3 text"})

	list, err := svc.List(ctx, 1, created.Key, 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Count != 2 {
		t.Fatalf("expected 2 revisions, got %d", list.Count)
	}
	if list.List[0].Version != 2 || list.List[0].Text != "v2 text" {
		t.Errorf("expected newest revision first, got v%d %q", list.List[0].Version, list.List[0].Text)
	}
	if list.List[1].Version != 1 || list.List[1].Text != "v1 text" {
		t.Errorf("expected oldest revision last, got v%d %q", list.List[1].Version, list.List[1].Text)
	}
	for _, r := range list.List {
		if r.EntryKey != created.Key {
			t.Errorf("revision should carry the entry key, got %q", r.EntryKey)
		}
	}
}

func TestRevisionService_ListMissingEntry(t *testing.T) {
	svc, _, _, _ := newTestRevisionService()

	_, err := svc.List(context.Background(), 1, "missing", 1, 10)
	if !errors.Is(err, code.ErrorEntryNotFound) {
		t.Errorf("expected ErrorEntryNotFound, got %v", err)
	}
}

func TestRevisionService_Get(t *testing.T) {
	svc, entrySvc, _, revisionRepo := newTestRevisionService()
	ctx := context.Background()

	_, created, _ := entrySvc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Text: "before"})
	entrySvc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Key: created.Key, Text: "after"})

	rev, err := svc.Get(ctx, 1, revisionRepo.revisions[0].ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rev.Text != "before" || rev.EntryKey != created.Key {
		t.Errorf("unexpected revision %+v", rev)
	}

	if _, err := svc.Get(ctx, 1, 9999); !errors.Is(err, code.ErrorHistoryNotFound) {
		t.Errorf("expected ErrorHistoryNotFound, got %v", err)
	}
}

func TestRevisionService_RestoreGoesThroughEditPath(t *testing.T) {
	svc, entrySvc, _, revisionRepo := newTestRevisionService()
	ctx := context.Background()

	_, created, _ := entrySvc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Text: "original"})
	entrySvc.ModifyOrCreate(ctx, 1, &dto.EntryModifyRequest{Key: created.Key, Text: "edited"})

	restored, err := svc.Restore(ctx, 1, revisionRepo.revisions[0].ID)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.Text != "original" {
		t.Errorf("expected restored text, got %q", restored.Text)
	}
	if restored.Revision != 3 {
		t.Errorf("restore should bump the revision, got %d", restored.Revision)
	}

	// 恢复前的文本 "edited" 也要作为新版本留存，恢复可再次撤销
	if len(revisionRepo.revisions) != 2 {
		t.Fatalf("expected 2 revisions after restore, got %d", len(revisionRepo.revisions))
	}
	if revisionRepo.revisions[1].Text != "edited" || revisionRepo.revisions[1].Version != 2 {
		t.Errorf("pre-restore text should be preserved, got v%d %q",
			revisionRepo.revisions[1].Version, revisionRepo.revisions[1].Text)
	}
}

func TestRevisionService_PruneDropsOrphans(t *testing.T) {
	svc, _, _, revisionRepo := newTestRevisionService()
	ctx := context.Background()

	// 条目 42 不存在，版本成了孤儿
	revisionRepo.Create(ctx, &domain.EntryRevision{EntryID: 42, UID: 1, Version: 1, Text: "orphan"}, 1)

	if err := svc.Prune(ctx, 1); err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if len(revisionRepo.revisions) != 0 {
		t.Errorf("expected orphan revisions removed, got %d", len(revisionRepo.revisions))
	}
}
