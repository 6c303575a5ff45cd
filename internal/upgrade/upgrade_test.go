package upgrade

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/IxSyZ/my-life-diary/internal/dao"
	"github.com/IxSyZ/my-life-diary/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestDB 创建基于临时 sqlite 文件的数据库并建表
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type:        "sqlite",
		Path:        filepath.Join(t.TempDir(), "diary_test.sqlite3"),
		AutoMigrate: true,
		RunMode:     "release",
	}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, model.AutoMigrate(db, "Entry"))
	require.NoError(t, model.AutoMigrate(db, "EntryRevision"))
	return db
}

func TestEntrySourceBackfill_Up(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&model.Entry{Key: "a", UID: 1, Text: "old", Source: ""}).Error)
	require.NoError(t, db.Create(&model.Entry{Key: "b", UID: 1, Text: "spoken", Source: "voice"}).Error)

	migrate := &EntrySourceBackfill{}
	require.NoError(t, migrate.Up(context.Background(), db, zap.NewNop()))

	var legacy, voice model.Entry
	require.NoError(t, db.Where("key = ?", "a").First(&legacy).Error)
	require.NoError(t, db.Where("key = ?", "b").First(&voice).Error)
	assert.Equal(t, "text", legacy.Source)
	assert.Equal(t, "voice", voice.Source)
}

func TestRevisionOrphanPrune_Up(t *testing.T) {
	db := newTestDB(t)

	entry := &model.Entry{Key: "kept", UID: 1, Text: "hello"}
	require.NoError(t, db.Create(entry).Error)

	require.NoError(t, db.Create(&model.EntryRevision{EntryID: entry.ID, UID: 1, Version: 1, Text: "hello"}).Error)
	require.NoError(t, db.Create(&model.EntryRevision{EntryID: entry.ID + 999, UID: 1, Version: 1, Text: "orphan"}).Error)

	migrate := &RevisionOrphanPrune{}
	require.NoError(t, migrate.Up(context.Background(), db, zap.NewNop()))

	var count int64
	require.NoError(t, db.Model(&model.EntryRevision{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var kept model.EntryRevision
	require.NoError(t, db.First(&kept).Error)
	assert.Equal(t, entry.ID, kept.EntryID)
}

func TestMigrationManager_Run(t *testing.T) {
	db := newTestDB(t)

	// lastVersion 文件写在相对路径 config/ 下
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll("config", 0755))

	require.NoError(t, db.Create(&model.Entry{Key: "a", UID: 1, Text: "old", Source: ""}).Error)

	require.NoError(t, Execute(db, zap.NewNop(), "1.2.0"))

	var entry model.Entry
	require.NoError(t, db.Where("key = ?", "a").First(&entry).Error)
	assert.Equal(t, "text", entry.Source)

	var applied int64
	require.NoError(t, db.Model(&SchemaVersion{}).Count(&applied).Error)
	assert.Equal(t, int64(2), applied)

	content, err := os.ReadFile(referenceVersionFile)
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", string(content))

	// 再次运行按参考版本跳过，不应重复执行或报错
	require.NoError(t, Execute(db, zap.NewNop(), "1.2.0"))
	require.NoError(t, db.Model(&SchemaVersion{}).Count(&applied).Error)
	assert.Equal(t, int64(2), applied)
}
