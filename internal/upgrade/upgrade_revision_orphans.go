package upgrade

import (
	"context"

	"github.com/IxSyZ/my-life-diary/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RevisionOrphanPrune removes revision rows whose entry is gone. Older
// releases deleted entries without cascading into the revision table.
// RevisionOrphanPrune 清理条目已删除的孤儿历史版本，
// 旧版本删除条目时没有级联清理版本表。
type RevisionOrphanPrune struct{}

// Version 返回版本号
func (m *RevisionOrphanPrune) Version() string {
	return "1.2.0"
}

// Description 返回描述
func (m *RevisionOrphanPrune) Description() string {
	return "Delete entry revisions whose parent entry no longer exists"
}

// Up 执行迁移
func (m *RevisionOrphanPrune) Up(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	subQuery := db.WithContext(ctx).Model(&model.Entry{}).Select("id")

	result := db.WithContext(ctx).
		Where("entry_id NOT IN (?)", subQuery).
		Delete(&model.EntryRevision{})
	if result.Error != nil {
		return result.Error
	}

	logger.Info("RevisionOrphanPrune completed", zap.Int64("deleted", result.RowsAffected))
	return nil
}
