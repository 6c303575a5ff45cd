// Package dao 实现数据访问层
package dao

import (
	"context"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/model"
	"github.com/IxSyZ/my-life-diary/pkg/timex"

	"gorm.io/gorm"
)

// storageRepository 实现 domain.StorageRepository 接口
type storageRepository struct {
	dao *Dao
}

// NewStorageRepository 创建 StorageRepository 实例
func NewStorageRepository(dao *Dao) domain.StorageRepository {
	return &storageRepository{dao: dao}
}

// storage 获取完成迁移的存储配置查询会话
func (r *storageRepository) storage() *gorm.DB {
	return r.dao.Use("Storage")
}

// toDomain 将数据库模型转换为领域模型
func (r *storageRepository) toDomain(m *model.Storage) *domain.Storage {
	if m == nil {
		return nil
	}
	return &domain.Storage{
		ID:              m.ID,
		UID:             m.UID,
		Type:            m.Type,
		Endpoint:        m.Endpoint,
		Region:          m.Region,
		AccountID:       m.AccountID,
		BucketName:      m.BucketName,
		AccessKeyID:     m.AccessKeyID,
		AccessKeySecret: m.AccessKeySecret,
		CustomPath:      m.CustomPath,
		User:            m.User,
		Password:        m.Password,
		IsDeleted:       m.IsDeleted,
		CreatedAt:       time.Time(m.CreatedAt),
		UpdatedAt:       time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *storageRepository) toModel(s *domain.Storage) *model.Storage {
	if s == nil {
		return nil
	}
	return &model.Storage{
		ID:              s.ID,
		UID:             s.UID,
		Type:            s.Type,
		Endpoint:        s.Endpoint,
		Region:          s.Region,
		AccountID:       s.AccountID,
		BucketName:      s.BucketName,
		AccessKeyID:     s.AccessKeyID,
		AccessKeySecret: s.AccessKeySecret,
		CustomPath:      s.CustomPath,
		User:            s.User,
		Password:        s.Password,
		IsDeleted:       s.IsDeleted,
		CreatedAt:       timex.Time(s.CreatedAt),
		UpdatedAt:       timex.Time(s.UpdatedAt),
	}
}

// GetByID 根据ID获取存储配置
func (r *storageRepository) GetByID(ctx context.Context, id, uid int64) (*domain.Storage, error) {
	var m model.Storage
	err := r.storage().WithContext(ctx).
		Where("id = ? AND uid = ? AND is_deleted = ?", id, uid, false).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建存储配置
func (r *storageRepository) Create(ctx context.Context, storage *domain.Storage, uid int64) (*domain.Storage, error) {
	var result *domain.Storage

	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		m := r.toModel(storage)
		m.ID = 0
		m.UID = uid
		m.IsDeleted = false
		m.CreatedAt = timex.Now()
		m.UpdatedAt = timex.Now()

		if err := r.storage().WithContext(ctx).Create(m).Error; err != nil {
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

// Update 更新存储配置
func (r *storageRepository) Update(ctx context.Context, storage *domain.Storage, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		// 先确认归属
		var old model.Storage
		err := r.storage().WithContext(ctx).
			Where("id = ? AND uid = ? AND is_deleted = ?", storage.ID, uid, false).
			First(&old).Error
		if err != nil {
			return err
		}

		m := r.toModel(storage)
		m.UID = uid
		m.CreatedAt = old.CreatedAt
		m.UpdatedAt = timex.Now()

		return r.storage().WithContext(ctx).
			Where("id = ?", storage.ID).
			Save(m).Error
	})
}

// Delete 删除存储配置（软删除）
func (r *storageRepository) Delete(ctx context.Context, id, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		return r.storage().WithContext(ctx).
			Model(&model.Storage{}).
			Where("id = ? AND uid = ?", id, uid).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"updated_at": timex.Now(),
			}).Error
	})
}

// List 获取用户存储配置列表
func (r *storageRepository) List(ctx context.Context, uid int64) ([]*domain.Storage, error) {
	var mList []*model.Storage
	err := r.storage().WithContext(ctx).
		Where("uid = ? AND is_deleted = ?", uid, false).
		Order("id DESC").
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.Storage
	for _, m := range mList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// 确保 storageRepository 实现了 domain.StorageRepository 接口
var _ domain.StorageRepository = (*storageRepository)(nil)
