// Package dao 实现数据访问层
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/model"
	"github.com/IxSyZ/my-life-diary/pkg/timex"

	"gorm.io/gorm"
)

// gitMirrorRepository 实现 domain.GitMirrorRepository 接口
type gitMirrorRepository struct {
	dao *Dao
}

// NewGitMirrorRepository 创建 GitMirrorRepository 实例
func NewGitMirrorRepository(dao *Dao) domain.GitMirrorRepository {
	return &gitMirrorRepository{dao: dao}
}

// mirror 获取完成迁移的镜像配置查询会话
func (r *gitMirrorRepository) mirror() *gorm.DB {
	return r.dao.Use("GitMirrorConfig")
}

func (r *gitMirrorRepository) toDomain(m *model.GitMirrorConfig) *domain.GitMirrorConfig {
	if m == nil {
		return nil
	}
	var lastSyncTime *time.Time
	if !time.Time(m.LastSyncTime).IsZero() {
		t := time.Time(m.LastSyncTime)
		lastSyncTime = &t
	}
	return &domain.GitMirrorConfig{
		ID:           m.ID,
		UID:          m.UID,
		RepoURL:      m.RepoURL,
		Username:     m.Username,
		Password:     m.Password,
		Branch:       m.Branch,
		AuthorName:   m.AuthorName,
		AuthorEmail:  m.AuthorEmail,
		IsEnabled:    m.IsEnabled,
		Delay:        m.Delay,
		LastSyncTime: lastSyncTime,
		LastStatus:   m.LastStatus,
		LastMessage:  m.LastMessage,
		CreatedAt:    time.Time(m.CreatedAt),
		UpdatedAt:    time.Time(m.UpdatedAt),
	}
}

func (r *gitMirrorRepository) toModel(d *domain.GitMirrorConfig) *model.GitMirrorConfig {
	if d == nil {
		return nil
	}
	var lastSyncTime time.Time
	if d.LastSyncTime != nil {
		lastSyncTime = *d.LastSyncTime
	}
	return &model.GitMirrorConfig{
		ID:           d.ID,
		UID:          d.UID,
		RepoURL:      d.RepoURL,
		Username:     d.Username,
		Password:     d.Password,
		Branch:       d.Branch,
		AuthorName:   d.AuthorName,
		AuthorEmail:  d.AuthorEmail,
		IsEnabled:    d.IsEnabled,
		Delay:        d.Delay,
		LastSyncTime: timex.Time(lastSyncTime),
		LastStatus:   d.LastStatus,
		LastMessage:  d.LastMessage,
		CreatedAt:    timex.Time(d.CreatedAt),
		UpdatedAt:    timex.Time(d.UpdatedAt),
	}
}

// GetByID 根据ID获取镜像配置，不存在时返回 nil
func (r *gitMirrorRepository) GetByID(ctx context.Context, id, uid int64) (*domain.GitMirrorConfig, error) {
	var m model.GitMirrorConfig
	err := r.mirror().WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建镜像配置
func (r *gitMirrorRepository) Create(ctx context.Context, config *domain.GitMirrorConfig, uid int64) (*domain.GitMirrorConfig, error) {
	var result *domain.GitMirrorConfig

	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		m := r.toModel(config)
		m.ID = 0
		m.UID = uid
		m.CreatedAt = timex.Now()
		m.UpdatedAt = timex.Now()

		if err := r.mirror().WithContext(ctx).Create(m).Error; err != nil {
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

// Update 更新镜像配置
func (r *gitMirrorRepository) Update(ctx context.Context, config *domain.GitMirrorConfig, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		// 先确认归属
		var old model.GitMirrorConfig
		err := r.mirror().WithContext(ctx).
			Where("id = ? AND uid = ?", config.ID, uid).
			First(&old).Error
		if err != nil {
			return err
		}

		m := r.toModel(config)
		m.UID = uid
		m.CreatedAt = old.CreatedAt
		m.UpdatedAt = timex.Now()

		return r.mirror().WithContext(ctx).
			Where("id = ?", config.ID).
			Save(m).Error
	})
}

// Delete 删除镜像配置
func (r *gitMirrorRepository) Delete(ctx context.Context, id, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		return r.mirror().WithContext(ctx).
			Where("id = ? AND uid = ?", id, uid).
			Delete(&model.GitMirrorConfig{}).Error
	})
}

// List 获取用户镜像配置列表
func (r *gitMirrorRepository) List(ctx context.Context, uid int64) ([]*domain.GitMirrorConfig, error) {
	var mList []*model.GitMirrorConfig
	err := r.mirror().WithContext(ctx).
		Where("uid = ?", uid).
		Order("id DESC").
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.GitMirrorConfig
	for _, m := range mList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// UpdateSyncStatus 更新同步状态，syncTime 为 Unix 秒，0 表示不更新同步时间
func (r *gitMirrorRepository) UpdateSyncStatus(ctx context.Context, id, uid int64, status int64, message string, syncTime int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		values := map[string]interface{}{
			"last_status":  status,
			"last_message": message,
			"updated_at":   timex.Now(),
		}
		if syncTime > 0 {
			values["last_sync_time"] = timex.Time(time.Unix(syncTime, 0))
		}
		return r.mirror().WithContext(ctx).
			Model(&model.GitMirrorConfig{}).
			Where("id = ? AND uid = ?", id, uid).
			Updates(values).Error
	})
}

// 确保 gitMirrorRepository 实现了 domain.GitMirrorRepository 接口
var _ domain.GitMirrorRepository = (*gitMirrorRepository)(nil)
