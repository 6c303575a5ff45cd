package dao

import (
	"context"
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestEntryRepository_CreateAndGet(t *testing.T) {
	d := newTestDao(t)
	repo := NewEntryRepository(d)
	ctx := context.Background()

	entry := &domain.Entry{
		Key:        "11111111-1111-1111-1111-111111111111",
		Text:       "morning pages",
		Source:     domain.EntrySourceText,
		RecordedAt: time.Date(2024, 1, 20, 9, 30, 0, 0, time.Local),
	}

	created, err := repo.Create(ctx, entry, 1)
	assert.Nil(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(1), created.Revision)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByKey(ctx, entry.Key, 1)
	assert.Nil(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "morning pages", got.Text)
	assert.Equal(t, domain.EntrySourceText, got.Source)

	byID, err := repo.GetByID(ctx, created.ID, 1)
	assert.Nil(t, err)
	assert.Equal(t, entry.Key, byID.Key)

	// 其他用户不可见
	_, err = repo.GetByKey(ctx, entry.Key, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEntryRepository_UpdateText(t *testing.T) {
	d := newTestDao(t)
	repo := NewEntryRepository(d)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Entry{
		Key:        "22222222-2222-2222-2222-222222222222",
		Text:       "first draft",
		Source:     domain.EntrySourceVoice,
		RecordedAt: time.Date(2024, 1, 20, 9, 30, 0, 0, time.Local),
	}, 1)
	assert.Nil(t, err)

	err = repo.UpdateText(ctx, created.ID, "second draft", 2, 1)
	assert.Nil(t, err)

	got, err := repo.GetByID(ctx, created.ID, 1)
	assert.Nil(t, err)
	assert.Equal(t, "second draft", got.Text)
	assert.Equal(t, int64(2), got.Revision)
	// 时间戳不随文本更新改变
	assert.Equal(t, created.RecordedAt.Unix(), got.RecordedAt.Unix())

	// 不存在的条目
	err = repo.UpdateText(ctx, 99999, "x", 2, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 其他用户的条目不可更新
	err = repo.UpdateText(ctx, created.ID, "x", 3, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEntryRepository_ListAllOrdering(t *testing.T) {
	d := newTestDao(t)
	repo := NewEntryRepository(d)
	ctx := context.Background()

	sameDay := time.Date(2024, 1, 20, 12, 0, 0, 0, time.Local)

	older, err := repo.Create(ctx, &domain.Entry{
		Key:        "k-older",
		Text:       "older",
		Source:     domain.EntrySourceText,
		RecordedAt: time.Date(2023, 11, 5, 8, 0, 0, 0, time.Local),
	}, 1)
	assert.Nil(t, err)

	first, err := repo.Create(ctx, &domain.Entry{
		Key:        "k-first",
		Text:       "tie first",
		Source:     domain.EntrySourceText,
		RecordedAt: sameDay,
	}, 1)
	assert.Nil(t, err)

	second, err := repo.Create(ctx, &domain.Entry{
		Key:        "k-second",
		Text:       "tie second",
		Source:     domain.EntrySourceText,
		RecordedAt: sameDay,
	}, 1)
	assert.Nil(t, err)

	list, err := repo.ListAll(ctx, 1)
	assert.Nil(t, err)
	assert.Len(t, list, 3)

	// 时间相同按 ID 倒序，最旧的在最后
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, older.ID, list[2].ID)
}

func TestEntryRepository_ListKeyword(t *testing.T) {
	d := newTestDao(t)
	repo := NewEntryRepository(d)
	ctx := context.Background()

	texts := []string{"Morning run in the park", "quiet evening", "ran another morning loop"}
	for i, text := range texts {
		_, err := repo.Create(ctx, &domain.Entry{
			Key:        texts[i],
			Text:       text,
			Source:     domain.EntrySourceText,
			RecordedAt: time.Date(2024, 1, 20, 9+i, 0, 0, 0, time.Local),
		}, 1)
		assert.Nil(t, err)
	}

	// 大小写不敏感
	list, err := repo.List(ctx, 1, 10, 1, "MORNING")
	assert.Nil(t, err)
	assert.Len(t, list, 2)

	count, err := repo.ListCount(ctx, 1, "MORNING")
	assert.Nil(t, err)
	assert.Equal(t, int64(2), count)

	list, err = repo.List(ctx, 1, 10, 1, "")
	assert.Nil(t, err)
	assert.Len(t, list, 3)

	list, err = repo.List(ctx, 1, 10, 1, "nothing-matches")
	assert.Nil(t, err)
	assert.Len(t, list, 0)
}

func TestEntryRepository_DeleteByKeys(t *testing.T) {
	d := newTestDao(t)
	repo := NewEntryRepository(d)
	ctx := context.Background()

	keys := []string{"del-a", "del-b", "del-c"}
	for i, key := range keys {
		_, err := repo.Create(ctx, &domain.Entry{
			Key:        key,
			Text:       key,
			Source:     domain.EntrySourceText,
			RecordedAt: time.Date(2024, 1, 20, 9+i, 0, 0, 0, time.Local),
		}, 1)
		assert.Nil(t, err)
	}

	// 其他用户的同名条目不受影响
	_, err := repo.Create(ctx, &domain.Entry{
		Key:        "del-a",
		Text:       "other user",
		Source:     domain.EntrySourceText,
		RecordedAt: time.Date(2024, 1, 20, 9, 0, 0, 0, time.Local),
	}, 2)
	assert.Nil(t, err)

	affected, err := repo.DeleteByKeys(ctx, []string{"del-a", "del-b", "missing"}, 1)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), affected)

	remaining, err := repo.ListAll(ctx, 1)
	assert.Nil(t, err)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "del-c", remaining[0].Key)

	otherList, err := repo.ListAll(ctx, 2)
	assert.Nil(t, err)
	assert.Len(t, otherList, 1)

	// 空列表为无操作
	affected, err = repo.DeleteByKeys(ctx, nil, 1)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestEntryRepository_DeleteAll(t *testing.T) {
	d := newTestDao(t)
	repo := NewEntryRepository(d)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := repo.Create(ctx, &domain.Entry{
			Key:        string(rune('a' + i)),
			Text:       "text",
			Source:     domain.EntrySourceText,
			RecordedAt: time.Date(2024, 1, 20, 9+i, 0, 0, 0, time.Local),
		}, 1)
		assert.Nil(t, err)
	}

	affected, err := repo.DeleteAll(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, int64(4), affected)

	list, err := repo.ListAll(ctx, 1)
	assert.Nil(t, err)
	assert.Len(t, list, 0)
}
