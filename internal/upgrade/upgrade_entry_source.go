package upgrade

import (
	"context"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EntrySourceBackfill 为语音功能之前创建的条目补齐 source 字段
type EntrySourceBackfill struct{}

// Version 返回版本号
func (m *EntrySourceBackfill) Version() string {
	return "1.1.0"
}

// Description 返回描述
func (m *EntrySourceBackfill) Description() string {
	return "Backfill empty entry source to text for entries created before voice capture"
}

// Up 执行迁移
func (m *EntrySourceBackfill) Up(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	result := db.WithContext(ctx).
		Model(&model.Entry{}).
		Where("source IS NULL OR source = ''").
		Update("source", string(domain.EntrySourceText))
	if result.Error != nil {
		return result.Error
	}

	logger.Info("EntrySourceBackfill completed", zap.Int64("updated", result.RowsAffected))
	return nil
}
