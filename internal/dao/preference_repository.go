// Package dao 实现数据访问层
package dao

import (
	"context"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/model"
	"github.com/IxSyZ/my-life-diary/pkg/timex"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// preferenceRepository 实现 domain.PreferenceRepository 接口
type preferenceRepository struct {
	dao *Dao
}

// NewPreferenceRepository 创建 PreferenceRepository 实例
func NewPreferenceRepository(dao *Dao) domain.PreferenceRepository {
	return &preferenceRepository{dao: dao}
}

// preference 获取完成迁移的偏好查询会话
func (r *preferenceRepository) preference() *gorm.DB {
	return r.dao.Use("Preference")
}

// toDomain 将数据库模型转换为领域模型
func (r *preferenceRepository) toDomain(m *model.Preference) *domain.Preference {
	if m == nil {
		return nil
	}
	return &domain.Preference{
		ID:        m.ID,
		UID:       m.UID,
		Key:       m.Key,
		Value:     m.Value,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

// Get 获取单个偏好，不存在时返回 gorm.ErrRecordNotFound
func (r *preferenceRepository) Get(ctx context.Context, uid int64, key string) (*domain.Preference, error) {
	var m model.Preference
	err := r.preference().WithContext(ctx).
		Where(map[string]interface{}{"uid": uid, "key": key}).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetAll 获取用户全部偏好
func (r *preferenceRepository) GetAll(ctx context.Context, uid int64) ([]*domain.Preference, error) {
	var mList []*model.Preference
	err := r.preference().WithContext(ctx).
		Where("uid = ?", uid).
		Order("id ASC").
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.Preference
	for _, m := range mList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// Set 写入偏好，存在则更新
func (r *preferenceRepository) Set(ctx context.Context, uid int64, key, value string) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		m := &model.Preference{
			UID:       uid,
			Key:       key,
			Value:     value,
			CreatedAt: timex.Now(),
			UpdatedAt: timex.Now(),
		}
		return r.preference().WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "uid"}, {Name: "key"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"value":      value,
					"updated_at": timex.Now(),
				}),
			}).
			Create(m).Error
	})
}

// 确保 preferenceRepository 实现了 domain.PreferenceRepository 接口
var _ domain.PreferenceRepository = (*preferenceRepository)(nil)
