package dao

import (
	"context"
	"fmt"
	"testing"

	"github.com/IxSyZ/my-life-diary/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestEntryRevisionRepository_VersionsAndPrune(t *testing.T) {
	d := newTestDao(t)
	repo := NewEntryRevisionRepository(d)
	ctx := context.Background()

	entryID := int64(7)

	latest, err := repo.GetLatestVersion(ctx, entryID, 1)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), latest)

	for v := int64(1); v <= 5; v++ {
		_, err := repo.Create(ctx, &domain.EntryRevision{
			EntryID:  entryID,
			Version:  v,
			Text:     fmt.Sprintf("draft %d", v),
			Inserted: int(v),
		}, 1)
		assert.Nil(t, err)
	}

	latest, err = repo.GetLatestVersion(ctx, entryID, 1)
	assert.Nil(t, err)
	assert.Equal(t, int64(5), latest)

	list, total, err := repo.ListByEntryID(ctx, entryID, 1, 10, 1)
	assert.Nil(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, list, 5)
	// 版本号倒序
	assert.Equal(t, int64(5), list[0].Version)
	assert.Equal(t, int64(1), list[4].Version)

	// 保留最近 2 个版本
	err = repo.DeleteOldVersions(ctx, entryID, 2, 1)
	assert.Nil(t, err)

	list, total, err = repo.ListByEntryID(ctx, entryID, 1, 10, 1)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(5), list[0].Version)
	assert.Equal(t, int64(4), list[1].Version)

	// 版本数不足保留数时不删除
	err = repo.DeleteOldVersions(ctx, entryID, 10, 1)
	assert.Nil(t, err)
	_, total, err = repo.ListByEntryID(ctx, entryID, 1, 10, 1)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), total)
}

func TestEntryRevisionRepository_DeleteByEntryID(t *testing.T) {
	d := newTestDao(t)
	repo := NewEntryRevisionRepository(d)
	ctx := context.Background()

	for _, entryID := range []int64{1, 1, 2} {
		_, err := repo.Create(ctx, &domain.EntryRevision{
			EntryID: entryID,
			Version: 1,
			Text:    "text",
		}, 1)
		assert.Nil(t, err)
	}

	ids, err := repo.ListEntryIDs(ctx, 1)
	assert.Nil(t, err)
	assert.Len(t, ids, 2)

	err = repo.DeleteByEntryID(ctx, 1, 1)
	assert.Nil(t, err)

	ids, err = repo.ListEntryIDs(ctx, 1)
	assert.Nil(t, err)
	assert.Len(t, ids, 1)
	assert.Equal(t, int64(2), ids[0])
}
