// Package upgrade 提供数据库数据迁移框架，建表结构迁移由 dao 层的
// AutoMigrate 完成，这里只处理跨版本的数据修复。
package upgrade

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
	"gorm.io/gorm"
)

// referenceVersionFile 上次运行版本的记录文件
const referenceVersionFile = "config/lastVersion"

// SchemaVersion 数据迁移版本记录表
type SchemaVersion struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Version     string    `gorm:"not null;uniqueIndex;type:varchar(64)" json:"version"`
	Description string    `gorm:"type:text" json:"description"`
	AppliedAt   time.Time `gorm:"not null" json:"applied_at"`
}

// TableName 指定表名
func (SchemaVersion) TableName() string {
	return "schema_version"
}

// Migration 定义单个数据迁移
type Migration interface {
	Version() string
	Description() string
	Up(ctx context.Context, db *gorm.DB, logger *zap.Logger) error
}

// MigrationManager 迁移管理器
type MigrationManager struct {
	db         *gorm.DB
	logger     *zap.Logger
	migrations []Migration
}

// NewMigrationManager 创建迁移管理器
func NewMigrationManager(db *gorm.DB, logger *zap.Logger) *MigrationManager {
	return &MigrationManager{
		db:     db,
		logger: logger,
		migrations: []Migration{
			// 在这里按版本顺序注册所有迁移脚本
			&EntrySourceBackfill{},
			&RevisionOrphanPrune{},
		},
	}
}

// Run applies every migration newer than the reference version exactly
// once. Each migration runs in its own transaction together with its
// version record.
// Run 执行全部未应用的迁移，每个迁移与其版本记录在同一事务中落库。
func (m *MigrationManager) Run(ctx context.Context, runningVersion string) error {

	// 确保 schema_version 表存在
	if err := m.db.AutoMigrate(&SchemaVersion{}); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	appliedVersions, err := m.getAppliedVersions()
	if err != nil {
		return fmt.Errorf("failed to get applied versions: %w", err)
	}

	lastVersion := normalizeVersion(m.getReferenceVersion())
	if !semver.IsValid(lastVersion) {
		m.logger.Warn("reference version is not a valid semver, using v0.0.0",
			zap.String("lastVersion", lastVersion))
		lastVersion = "v0.0.0"
	}

	// 当前版本没有比上次运行更新时跳过检查，避免每次重启都查库
	if semver.Compare(normalizeVersion(runningVersion), lastVersion) <= 0 {
		m.logger.Info("skipping migrations",
			zap.String("runningVersion", runningVersion),
			zap.String("lastVersion", lastVersion))
		return nil
	}

	executed := 0
	for _, migration := range m.migrations {
		scriptVersion := migration.Version()

		// 不晚于参考版本的脚本视为历史版本已处理
		if semver.Compare(normalizeVersion(scriptVersion), lastVersion) <= 0 {
			continue
		}
		if appliedVersions[scriptVersion] {
			continue
		}

		m.logger.Info("applying migration",
			zap.String("version", scriptVersion),
			zap.String("desc", migration.Description()))

		if err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(ctx, tx, m.logger); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			record := &SchemaVersion{
				Version:     scriptVersion,
				Description: migration.Description(),
				AppliedAt:   time.Now(),
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to record version: %w", err)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", scriptVersion, err)
		}

		m.logger.Info("migration applied", zap.String("version", scriptVersion))
		executed++
	}

	if executed == 0 {
		m.logger.Info("database is already up to date")
	} else {
		m.logger.Info("migrations completed", zap.Int("applied", executed))
	}

	// 无论是否执行了迁移都写入参考版本，作为下次运行的基准
	if err := m.saveReferenceVersion(runningVersion); err != nil {
		// 记录错误但不阻断启动
		m.logger.Error("save lastVersion failed", zap.Error(err))
	}

	return nil
}

// getAppliedVersions 获取已应用的迁移版本
func (m *MigrationManager) getAppliedVersions() (map[string]bool, error) {
	var versions []SchemaVersion
	if err := m.db.Find(&versions).Error; err != nil {
		return nil, err
	}

	applied := make(map[string]bool)
	for _, v := range versions {
		applied[v.Version] = true
	}
	return applied, nil
}

// getReferenceVersion 从 config/lastVersion 读取参考版本，缺失时为 v0.0.0
func (m *MigrationManager) getReferenceVersion() string {
	content, err := os.ReadFile(referenceVersionFile)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("read lastVersion failed", zap.Error(err))
		}
		return "v0.0.0"
	}

	ver := strings.TrimSpace(string(content))
	if ver == "" {
		return "v0.0.0"
	}
	return ver
}

// saveReferenceVersion 保存当前版本号到 config/lastVersion
func (m *MigrationManager) saveReferenceVersion(version string) error {
	return os.WriteFile(referenceVersionFile, []byte(version), 0644)
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

// Execute 执行数据迁移（便捷方法）
func Execute(db *gorm.DB, logger *zap.Logger, runningVersion string) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	if logger == nil {
		return fmt.Errorf("logger not initialized")
	}

	manager := NewMigrationManager(db, logger)
	return manager.Run(context.Background(), runningVersion)
}
