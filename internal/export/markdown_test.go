package export

import (
	"strings"
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/stretchr/testify/assert"
)

func exportEntry(id int64, text string, recordedAt, updatedAt time.Time) *domain.Entry {
	return &domain.Entry{
		ID:         id,
		Key:        "k",
		UID:        1,
		Text:       text,
		Source:     domain.EntrySourceText,
		RecordedAt: recordedAt,
		UpdatedAt:  updatedAt,
	}
}

func TestDayPath(t *testing.T) {
	day := time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024/01/2024-01-05.md", DayPath(day))
}

func TestDayFiles_GroupsByLocalDay(t *testing.T) {
	loc := time.UTC
	morning := time.Date(2024, time.January, 15, 9, 30, 0, 0, loc)
	afternoon := time.Date(2024, time.January, 15, 14, 5, 0, 0, loc)
	older := time.Date(2023, time.November, 5, 8, 0, 0, 0, loc)

	entries := []*domain.Entry{
		exportEntry(3, "afternoon walk", afternoon, afternoon),
		exportEntry(1, "morning coffee", morning, morning),
		exportEntry(2, "last autumn", older, older),
		{ID: 4, Key: "no-ts", UID: 1, Text: "draft"}, // 无时间戳，不导出
	}

	files := DayFiles(entries, loc)

	assert.Len(t, files, 2)
	assert.Contains(t, files, "2024/01/2024-01-15.md")
	assert.Contains(t, files, "2023/11/2023-11-05.md")

	day := string(files["2024/01/2024-01-15.md"])
	assert.True(t, strings.HasPrefix(day, "# Monday, January 15, 2024\n"))

	// 天内正序：早晨在下午之前
	assert.Less(t, strings.Index(day, "morning coffee"), strings.Index(day, "afternoon walk"))
	assert.Contains(t, day, "## 09:30")
	assert.Contains(t, day, "## 14:05")
}

func TestChangedDayFiles_RerendersWholeDay(t *testing.T) {
	loc := time.UTC
	base := time.Date(2024, time.March, 10, 12, 0, 0, 0, loc)
	stale := time.Date(2024, time.March, 9, 12, 0, 0, 0, loc)

	entries := []*domain.Entry{
		// 同一天：一条旧、一条新，整天都要重渲
		exportEntry(1, "kept text", base, stale),
		exportEntry(2, "edited text", base.Add(time.Hour), base.Add(2*time.Hour)),
		// 另一天：无变更，不渲染
		exportEntry(3, "untouched day", stale.AddDate(0, 0, -3), stale.AddDate(0, 0, -3)),
	}

	files := ChangedDayFiles(entries, base, loc)

	assert.Len(t, files, 1)
	day := string(files["2024/03/2024-03-10.md"])
	assert.Contains(t, day, "kept text")
	assert.Contains(t, day, "edited text")
}

func TestChangedDayFiles_NoChanges(t *testing.T) {
	loc := time.UTC
	old := time.Date(2024, time.March, 1, 8, 0, 0, 0, loc)
	entries := []*domain.Entry{exportEntry(1, "old", old, old)}

	files := ChangedDayFiles(entries, old.Add(time.Hour), loc)
	assert.Nil(t, files)
}

func TestChangedDayFiles_ZeroSinceRendersAll(t *testing.T) {
	loc := time.UTC
	d1 := time.Date(2024, time.March, 1, 8, 0, 0, 0, loc)
	d2 := time.Date(2024, time.April, 2, 8, 0, 0, 0, loc)
	entries := []*domain.Entry{
		exportEntry(1, "one", d1, d1),
		exportEntry(2, "two", d2, d2),
	}

	files := ChangedDayFiles(entries, time.Time{}, loc)
	assert.Len(t, files, 2)
}
