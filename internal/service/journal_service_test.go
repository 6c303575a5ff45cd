package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/journal"

	"go.uber.org/zap"
)

func seedJournalEntry(repo *entryMockEntryRepo, id int64, text string, at time.Time) {
	repo.entries[fmt.Sprintf("key-%d", id)] = &domain.Entry{
		ID:         id,
		Key:        fmt.Sprintf("key-%d", id),
		UID:        1,
		Text:       text,
		Source:     domain.EntrySourceText,
		Revision:   1,
		RecordedAt: at,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

func newTestJournalService() (JournalService, *entryMockEntryRepo) {
	repo := newEntryMockEntryRepo()
	svc := NewJournalService(repo, zap.NewNop(), &ServiceConfig{})
	return svc, repo
}

func TestJournalService_ViewSplitsTodayAndPast(t *testing.T) {
	svc, repo := newTestJournalService()
	now := time.Now()

	seedJournalEntry(repo, 1, "this morning", now)
	seedJournalEntry(repo, 2, "last week", now.AddDate(0, 0, -7))
	seedJournalEntry(repo, 3, "last year", now.AddDate(-1, 0, 0))

	state := journal.NewExpansionState()
	view, err := svc.View(context.Background(), 1, "", state, false)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}

	if len(view.Today) != 1 || view.Today[0].Text != "this morning" {
		t.Errorf("expected today's entry on top, got %+v", view.Today)
	}
	if view.PastCount != 2 {
		t.Errorf("expected 2 past entries, got %d", view.PastCount)
	}
	if view.PastVisible {
		t.Error("past section should start hidden")
	}
	for _, y := range view.Past {
		if y.Expanded {
			t.Errorf("year %d should start collapsed", y.Year)
		}
		if y.Key != journal.YearKey(y.Year) {
			t.Errorf("year key mismatch: %q", y.Key)
		}
		for _, m := range y.Months {
			if m.Key != journal.MonthKey(y.Year, time.Month(m.Month)) {
				t.Errorf("month key mismatch: %q", m.Key)
			}
		}
	}
}

func TestJournalService_SearchExpandsMatches(t *testing.T) {
	svc, repo := newTestJournalService()
	now := time.Now()

	lastWeek := now.AddDate(0, 0, -7)
	seedJournalEntry(repo, 1, "coffee with Sam", lastWeek)
	seedJournalEntry(repo, 2, "no match here", now.AddDate(-1, 0, 0))

	state := journal.NewExpansionState()
	view, err := svc.View(context.Background(), 1, "coffee", state, true)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}

	if view.Term != "coffee" {
		t.Errorf("expected active term, got %q", view.Term)
	}
	if !view.PastVisible {
		t.Error("past section should be revealed when a past entry matches")
	}
	if len(view.Past) != 1 {
		t.Fatalf("expected 1 matched year, got %d", len(view.Past))
	}
	year := view.Past[0]
	if year.Year != lastWeek.Year() || !year.Expanded {
		t.Errorf("matched year should be expanded, got %+v", year)
	}
	if len(year.Months) != 1 || !year.Months[0].Expanded {
		t.Errorf("matched month should be expanded, got %+v", year.Months)
	}
}

func TestJournalService_EmptyTermRecomputeKeepsToggles(t *testing.T) {
	svc, repo := newTestJournalService()
	now := time.Now()

	lastWeek := now.AddDate(0, 0, -7)
	seedJournalEntry(repo, 1, "walked home", lastWeek)

	state := journal.NewExpansionState()
	yearKey := journal.YearKey(lastWeek.Year())
	state.Toggle(yearKey)
	state.Toggle(journal.PastSectionKey)

	// 快照推送触发的重算，搜索词为空且未变化，不得清掉手动展开
	view, err := svc.View(context.Background(), 1, "", state, false)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if !view.PastVisible {
		t.Error("manual past toggle should survive a snapshot recompute")
	}
	if len(view.Past) != 1 || !view.Past[0].Expanded {
		t.Error("manual year toggle should survive a snapshot recompute")
	}

	// 显式清空搜索词则恢复默认折叠
	view, err = svc.View(context.Background(), 1, "", state, true)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if view.PastVisible || view.Past[0].Expanded {
		t.Error("clearing the term should collapse the tree")
	}
}

func TestJournalService_ToggleCollapseSurvivesSearchRefresh(t *testing.T) {
	svc, repo := newTestJournalService()
	now := time.Now()

	lastWeek := now.AddDate(0, 0, -7)
	seedJournalEntry(repo, 1, "morning run", lastWeek)

	state := journal.NewExpansionState()
	if _, err := svc.View(context.Background(), 1, "run", state, true); err != nil {
		t.Fatalf("view failed: %v", err)
	}
	yearKey := journal.YearKey(lastWeek.Year())
	if !state.IsExpanded(yearKey) {
		t.Fatal("matched year should auto-expand on the initial search")
	}

	// 搜索进行中手动收起匹配的年份，同词重建不得将其重新展开
	state.Toggle(yearKey)
	view, err := svc.View(context.Background(), 1, "run", state, false)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Past) != 1 {
		t.Fatalf("expected 1 matched year, got %d", len(view.Past))
	}
	if view.Past[0].Expanded || state.IsExpanded(yearKey) {
		t.Error("manual collapse during an active search must survive a same-term refresh")
	}

	// 搜索词变化后自动展开重新生效
	view, err = svc.View(context.Background(), 1, "ru", state, true)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if !view.Past[0].Expanded {
		t.Error("a term change should re-derive expansion for matched nodes")
	}
}

func TestJournalService_TimestamplessEntriesStayOut(t *testing.T) {
	svc, repo := newTestJournalService()

	repo.entries["no-ts"] = &domain.Entry{ID: 1, Key: "no-ts", UID: 1, Text: "imported without time"}

	view, err := svc.View(context.Background(), 1, "", journal.NewExpansionState(), false)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Today) != 0 || view.PastCount != 0 {
		t.Errorf("timestampless entries must not appear in the grouped view, got today=%d past=%d",
			len(view.Today), view.PastCount)
	}
}
