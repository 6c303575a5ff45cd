// Package dao 实现数据访问层
package dao

import (
	"context"
	"strings"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/model"
	"github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/timex"

	"gorm.io/gorm"
)

// entryRepository 实现 domain.EntryRepository 接口
type entryRepository struct {
	dao *Dao
}

// NewEntryRepository 创建 EntryRepository 实例
func NewEntryRepository(dao *Dao) domain.EntryRepository {
	return &entryRepository{dao: dao}
}

// entry 获取完成迁移的条目查询会话
func (r *entryRepository) entry() *gorm.DB {
	return r.dao.Use("Entry")
}

// toDomain 将数据库模型转换为领域模型
func (r *entryRepository) toDomain(m *model.Entry) *domain.Entry {
	if m == nil {
		return nil
	}
	return &domain.Entry{
		ID:         m.ID,
		Key:        m.Key,
		UID:        m.UID,
		Text:       m.Text,
		Source:     domain.EntrySource(m.Source),
		Revision:   m.Revision,
		RecordedAt: time.Time(m.RecordedAt),
		CreatedAt:  time.Time(m.CreatedAt),
		UpdatedAt:  time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *entryRepository) toModel(e *domain.Entry) *model.Entry {
	if e == nil {
		return nil
	}
	return &model.Entry{
		ID:         e.ID,
		Key:        e.Key,
		UID:        e.UID,
		Text:       e.Text,
		Source:     string(e.Source),
		Revision:   e.Revision,
		RecordedAt: timex.Time(e.RecordedAt),
		CreatedAt:  timex.Time(e.CreatedAt),
		UpdatedAt:  timex.Time(e.UpdatedAt),
	}
}

// GetByID 根据ID获取条目
func (r *entryRepository) GetByID(ctx context.Context, id, uid int64) (*domain.Entry, error) {
	var m model.Entry
	err := r.entry().WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByKey 根据对外 Key 获取条目
func (r *entryRepository) GetByKey(ctx context.Context, key string, uid int64) (*domain.Entry, error) {
	var m model.Entry
	// key 在 mysql 下是保留字，用 map 条件交给方言加引号
	err := r.entry().WithContext(ctx).
		Where(map[string]interface{}{"key": key, "uid": uid}).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建条目
func (r *entryRepository) Create(ctx context.Context, entry *domain.Entry, uid int64) (*domain.Entry, error) {
	var result *domain.Entry

	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		m := r.toModel(entry)
		m.ID = 0
		m.UID = uid
		if m.Revision <= 0 {
			m.Revision = 1
		}
		m.CreatedAt = timex.Now()
		m.UpdatedAt = timex.Now()

		if err := r.entry().WithContext(ctx).Create(m).Error; err != nil {
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

// UpdateText 更新条目文本和修订号；ID 与时间戳不可变
func (r *entryRepository) UpdateText(ctx context.Context, id int64, text string, revision int64, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		res := r.entry().WithContext(ctx).
			Model(&model.Entry{}).
			Where("id = ? AND uid = ?", id, uid).
			Updates(map[string]interface{}{
				"text":       text,
				"revision":   revision,
				"updated_at": timex.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Delete 删除单个条目
func (r *entryRepository) Delete(ctx context.Context, id, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		res := r.entry().WithContext(ctx).
			Where("id = ? AND uid = ?", id, uid).
			Delete(&model.Entry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteByKeys 在单个事务中删除一批条目，返回删除数
func (r *entryRepository) DeleteByKeys(ctx context.Context, keys []string, uid int64) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	var affected int64
	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		return r.entry().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Where(map[string]interface{}{"key": keys, "uid": uid}).
				Delete(&model.Entry{})
			if res.Error != nil {
				return res.Error
			}
			affected = res.RowsAffected
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// DeleteAll 删除用户全部条目，返回删除数
func (r *entryRepository) DeleteAll(ctx context.Context, uid int64) (int64, error) {
	var affected int64
	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		res := r.entry().WithContext(ctx).
			Where("uid = ?", uid).
			Delete(&model.Entry{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// ListAll 获取用户全部条目，时间戳倒序，时间相同按ID倒序
func (r *entryRepository) ListAll(ctx context.Context, uid int64) ([]*domain.Entry, error) {
	var mList []*model.Entry
	err := r.entry().WithContext(ctx).
		Where("uid = ?", uid).
		Order("recorded_at DESC, id DESC").
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.Entry
	for _, m := range mList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// List 分页获取条目列表，keyword 为大小写不敏感子串
func (r *entryRepository) List(ctx context.Context, page, pageSize int, uid int64, keyword string) ([]*domain.Entry, error) {
	q := r.entry().WithContext(ctx).Where("uid = ?", uid)
	if keyword != "" {
		q = q.Where("LOWER(text) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}

	var mList []*model.Entry
	err := q.Order("recorded_at DESC, id DESC").
		Limit(pageSize).
		Offset(app.GetPageOffset(page, pageSize)).
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.Entry
	for _, m := range mList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// ListCount 获取条目数量
func (r *entryRepository) ListCount(ctx context.Context, uid int64, keyword string) (int64, error) {
	q := r.entry().WithContext(ctx).Model(&model.Entry{}).Where("uid = ?", uid)
	if keyword != "" {
		q = q.Where("LOWER(text) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// 确保 entryRepository 实现了 domain.EntryRepository 接口
var _ domain.EntryRepository = (*entryRepository)(nil)
