// Package model 定义数据模型
package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型键执行迁移
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "Entry":
		return db.AutoMigrate(Entry{})

	case "EntryRevision":
		return db.AutoMigrate(EntryRevision{})

	case "User":
		return db.AutoMigrate(User{})

	case "Preference":
		return db.AutoMigrate(Preference{})

	case "Storage":
		return db.AutoMigrate(Storage{})

	case "BackupConfig":
		return db.AutoMigrate(BackupConfig{})

	case "BackupHistory":
		return db.AutoMigrate(BackupHistory{})

	case "GitMirrorConfig":
		return db.AutoMigrate(GitMirrorConfig{})
	}
	return nil
}
