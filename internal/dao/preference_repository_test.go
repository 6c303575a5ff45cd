package dao

import (
	"context"
	"testing"

	"github.com/IxSyZ/my-life-diary/internal/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestPreferenceRepository_SetAndGet(t *testing.T) {
	d := newTestDao(t)
	repo := NewPreferenceRepository(d)
	ctx := context.Background()

	err := repo.Set(ctx, 1, domain.PreferenceThemeColor, "aab0ff")
	assert.Nil(t, err)

	got, err := repo.Get(ctx, 1, domain.PreferenceThemeColor)
	assert.Nil(t, err)
	assert.Equal(t, "aab0ff", got.Value)

	// 重复写入覆盖旧值
	err = repo.Set(ctx, 1, domain.PreferenceThemeColor, "222222")
	assert.Nil(t, err)

	got, err = repo.Get(ctx, 1, domain.PreferenceThemeColor)
	assert.Nil(t, err)
	assert.Equal(t, "222222", got.Value)

	all, err := repo.GetAll(ctx, 1)
	assert.Nil(t, err)
	assert.Len(t, all, 1)

	// 未写过的键
	_, err = repo.Get(ctx, 1, domain.PreferenceThemeMode)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 用户之间互不可见
	_, err = repo.Get(ctx, 2, domain.PreferenceThemeColor)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
