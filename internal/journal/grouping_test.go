package journal

import (
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"

	"github.com/stretchr/testify/assert"
)

func entryAt(id int64, text string, at time.Time) *domain.Entry {
	return &domain.Entry{
		ID:         id,
		Key:        text,
		Text:       text,
		Source:     domain.EntrySourceText,
		RecordedAt: at,
	}
}

func TestGroup_Scenario(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	entries := []*domain.Entry{
		entryAt(1, "january entry", time.Date(2024, 1, 20, 9, 0, 0, 0, time.Local)),
		entryAt(2, "november entry", time.Date(2023, 11, 5, 18, 30, 0, 0, time.Local)),
		entryAt(3, "today entry", time.Date(2024, 3, 15, 8, 0, 0, 0, time.Local)),
	}

	g := Group(entries, "", now, time.Local)

	assert.Len(t, g.Today, 1)
	assert.Equal(t, int64(3), g.Today[0].ID)

	// {2024:{January:{20:[e1]}}, 2023:{November:{5:[e2]}}}
	assert.Len(t, g.Past, 2)

	assert.Equal(t, 2024, g.Past[0].Year)
	assert.Len(t, g.Past[0].Months, 1)
	assert.Equal(t, time.January, g.Past[0].Months[0].Month)
	assert.Equal(t, "January", g.Past[0].Months[0].Label())
	assert.Len(t, g.Past[0].Months[0].Days, 1)
	assert.Equal(t, 20, g.Past[0].Months[0].Days[0].Day)
	assert.Equal(t, int64(1), g.Past[0].Months[0].Days[0].Entries[0].ID)

	assert.Equal(t, 2023, g.Past[1].Year)
	assert.Equal(t, time.November, g.Past[1].Months[0].Month)
	assert.Equal(t, 5, g.Past[1].Months[0].Days[0].Day)
	assert.Equal(t, int64(2), g.Past[1].Months[0].Days[0].Entries[0].ID)
}

func TestGroup_TimestamplessDropped(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	entries := []*domain.Entry{
		entryAt(1, "no timestamp", time.Time{}),
		entryAt(2, "past entry", time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local)),
	}

	g := Group(entries, "", now, time.Local)

	assert.Len(t, g.Today, 0)
	assert.Equal(t, 1, g.PastEntryCount())
	assert.Equal(t, int64(2), g.Past[0].Months[0].Days[0].Entries[0].ID)
}

func TestGroup_TodayBoundary(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 30, 0, 0, time.Local)

	entries := []*domain.Entry{
		// 同一日历日，即使晚于参考时刻
		entryAt(1, "late tonight", time.Date(2024, 3, 15, 23, 59, 0, 0, time.Local)),
		// 前一天的最后一分钟
		entryAt(2, "last night", time.Date(2024, 3, 14, 23, 59, 0, 0, time.Local)),
	}

	g := Group(entries, "", now, time.Local)

	assert.Len(t, g.Today, 1)
	assert.Equal(t, int64(1), g.Today[0].ID)
	assert.Equal(t, 1, g.PastEntryCount())
	assert.Equal(t, 14, g.Past[0].Months[0].Days[0].Day)
}

func TestGroup_SearchFilter(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	entries := []*domain.Entry{
		entryAt(1, "Morning run in the park", time.Date(2024, 3, 15, 8, 0, 0, 0, time.Local)),
		entryAt(2, "quiet evening", time.Date(2024, 2, 1, 19, 0, 0, 0, time.Local)),
		entryAt(3, "ran another morning loop", time.Date(2024, 1, 10, 7, 0, 0, 0, time.Local)),
	}

	// 大小写不敏感
	g := Group(entries, "MORNING", now, time.Local)
	assert.Len(t, g.Today, 1)
	assert.Equal(t, 1, g.PastEntryCount())

	// 无命中
	g = Group(entries, "swimming", now, time.Local)
	assert.Len(t, g.Today, 0)
	assert.Equal(t, 0, g.PastEntryCount())

	// 空白词按字面匹配，不修剪
	g = Group([]*domain.Entry{
		entryAt(4, "has space", time.Date(2024, 3, 15, 8, 0, 0, 0, time.Local)),
		entryAt(5, "nospacehere", time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)),
	}, " ", now, time.Local)
	assert.Len(t, g.Today, 1)
	assert.Equal(t, int64(4), g.Today[0].ID)
}

func TestGroup_TieOrderingWithinDay(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	sameInstant := time.Date(2024, 1, 20, 10, 0, 0, 0, time.Local)

	entries := []*domain.Entry{
		entryAt(1, "first created", sameInstant),
		entryAt(3, "third created", sameInstant),
		entryAt(2, "second created", sameInstant),
	}

	g := Group(entries, "", now, time.Local)

	day := g.Past[0].Months[0].Days[0]
	assert.Len(t, day.Entries, 3)
	// 时间相同按 ID 倒序
	assert.Equal(t, int64(3), day.Entries[0].ID)
	assert.Equal(t, int64(2), day.Entries[1].ID)
	assert.Equal(t, int64(1), day.Entries[2].ID)
}

func TestGroup_FirstEncounterOrder(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	entries := []*domain.Entry{
		entryAt(1, "may early", time.Date(2023, 5, 10, 9, 0, 0, 0, time.Local)),
		entryAt(2, "may late", time.Date(2023, 5, 20, 9, 0, 0, 0, time.Local)),
		entryAt(3, "july", time.Date(2023, 7, 1, 9, 0, 0, 0, time.Local)),
		entryAt(4, "last year", time.Date(2022, 12, 31, 9, 0, 0, 0, time.Local)),
	}

	g := Group(entries, "", now, time.Local)

	// 年份倒序
	assert.Len(t, g.Past, 2)
	assert.Equal(t, 2023, g.Past[0].Year)
	assert.Equal(t, 2022, g.Past[1].Year)

	// 月份按新到旧首次出现顺序
	months := g.Past[0].Months
	assert.Len(t, months, 2)
	assert.Equal(t, time.July, months[0].Month)
	assert.Equal(t, time.May, months[1].Month)

	// 月内日期倒序
	mayDays := months[1].Days
	assert.Len(t, mayDays, 2)
	assert.Equal(t, 20, mayDays[0].Day)
	assert.Equal(t, 10, mayDays[1].Day)
}

func TestGroup_EmptyInput(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	g := Group(nil, "", now, time.Local)
	assert.Len(t, g.Today, 0)
	assert.Len(t, g.Past, 0)
	assert.Equal(t, 0, g.PastEntryCount())

	g = Group(nil, "anything", now, time.Local)
	assert.Len(t, g.Today, 0)
	assert.Len(t, g.Past, 0)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "2024", YearKey(2024))
	assert.Equal(t, "2024-January", MonthKey(2024, time.January))
	assert.Equal(t, "2023-November", MonthKey(2023, time.November))
}
