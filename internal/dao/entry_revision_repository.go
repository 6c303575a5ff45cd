// Package dao 实现数据访问层
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/model"
	"github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/timex"

	"gorm.io/gorm"
)

// entryRevisionRepository 实现 domain.EntryRevisionRepository 接口
type entryRevisionRepository struct {
	dao *Dao
}

// NewEntryRevisionRepository 创建 EntryRevisionRepository 实例
func NewEntryRevisionRepository(dao *Dao) domain.EntryRevisionRepository {
	return &entryRevisionRepository{dao: dao}
}

// revision 获取完成迁移的历史版本查询会话
func (r *entryRevisionRepository) revision() *gorm.DB {
	return r.dao.Use("EntryRevision")
}

// toDomain 将数据库模型转换为领域模型
func (r *entryRevisionRepository) toDomain(m *model.EntryRevision) *domain.EntryRevision {
	if m == nil {
		return nil
	}
	return &domain.EntryRevision{
		ID:        m.ID,
		EntryID:   m.EntryID,
		UID:       m.UID,
		Version:   m.Version,
		Text:      m.Text,
		Inserted:  m.Inserted,
		Deleted:   m.Deleted,
		CreatedAt: time.Time(m.CreatedAt),
	}
}

// GetByID 根据ID获取历史版本
func (r *entryRevisionRepository) GetByID(ctx context.Context, id, uid int64) (*domain.EntryRevision, error) {
	var m model.EntryRevision
	err := r.revision().WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建历史版本
func (r *entryRevisionRepository) Create(ctx context.Context, revision *domain.EntryRevision, uid int64) (*domain.EntryRevision, error) {
	var result *domain.EntryRevision

	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		m := &model.EntryRevision{
			EntryID:   revision.EntryID,
			UID:       uid,
			Version:   revision.Version,
			Text:      revision.Text,
			Inserted:  revision.Inserted,
			Deleted:   revision.Deleted,
			CreatedAt: timex.Now(),
		}
		if err := r.revision().WithContext(ctx).Create(m).Error; err != nil {
			return err
		}
		result = r.toDomain(m)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListByEntryID 根据条目ID分页获取历史版本，版本号倒序
func (r *entryRevisionRepository) ListByEntryID(ctx context.Context, entryID int64, page, pageSize int, uid int64) ([]*domain.EntryRevision, int64, error) {
	q := r.revision().WithContext(ctx).
		Model(&model.EntryRevision{}).
		Where("entry_id = ? AND uid = ?", entryID, uid)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var mList []*model.EntryRevision
	err := q.Order("version DESC").
		Limit(pageSize).
		Offset(app.GetPageOffset(page, pageSize)).
		Find(&mList).Error
	if err != nil {
		return nil, 0, err
	}

	var results []*domain.EntryRevision
	for _, m := range mList {
		results = append(results, r.toDomain(m))
	}
	return results, count, nil
}

// GetLatestVersion 获取条目最新版本号，无历史时返回 0
func (r *entryRevisionRepository) GetLatestVersion(ctx context.Context, entryID, uid int64) (int64, error) {
	var m model.EntryRevision
	err := r.revision().WithContext(ctx).
		Where("entry_id = ? AND uid = ?", entryID, uid).
		Order("version DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return m.Version, nil
}

// DeleteOldVersions 删除旧版本，保留最近 keepVersions 个
func (r *entryRevisionRepository) DeleteOldVersions(ctx context.Context, entryID int64, keepVersions int, uid int64) error {
	if keepVersions <= 0 {
		return nil
	}

	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		// 取第 keepVersions 新版本的版本号作为保留下界
		var kept []*model.EntryRevision
		err := r.revision().WithContext(ctx).
			Where("entry_id = ? AND uid = ?", entryID, uid).
			Order("version DESC").
			Limit(keepVersions).
			Find(&kept).Error
		if err != nil {
			return err
		}
		if len(kept) < keepVersions {
			return nil
		}
		minKeepVersion := kept[len(kept)-1].Version

		return r.revision().WithContext(ctx).
			Where("entry_id = ? AND uid = ? AND version < ?", entryID, uid, minKeepVersion).
			Delete(&model.EntryRevision{}).Error
	})
}

// DeleteByEntryID 删除条目的全部历史版本
func (r *entryRevisionRepository) DeleteByEntryID(ctx context.Context, entryID, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		return r.revision().WithContext(ctx).
			Where("entry_id = ? AND uid = ?", entryID, uid).
			Delete(&model.EntryRevision{}).Error
	})
}

// ListEntryIDs 获取存在历史版本的条目ID列表（修剪任务用）
func (r *entryRevisionRepository) ListEntryIDs(ctx context.Context, uid int64) ([]int64, error) {
	var entryIDs []int64
	err := r.revision().WithContext(ctx).
		Model(&model.EntryRevision{}).
		Where("uid = ?", uid).
		Distinct("entry_id").
		Pluck("entry_id", &entryIDs).Error
	if err != nil {
		return nil, err
	}
	return entryIDs, nil
}

// 确保 entryRevisionRepository 实现了 domain.EntryRevisionRepository 接口
var _ domain.EntryRevisionRepository = (*entryRevisionRepository)(nil)
