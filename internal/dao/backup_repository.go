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

// backupRepository 实现 domain.BackupRepository 接口
type backupRepository struct {
	dao *Dao
}

// NewBackupRepository 创建 BackupRepository 实例
func NewBackupRepository(dao *Dao) domain.BackupRepository {
	return &backupRepository{dao: dao}
}

// config 获取完成迁移的备份配置查询会话
func (r *backupRepository) config() *gorm.DB {
	return r.dao.Use("BackupConfig")
}

// history 获取完成迁移的备份历史查询会话
func (r *backupRepository) history() *gorm.DB {
	return r.dao.Use("BackupHistory")
}

func (r *backupRepository) configToDomain(m *model.BackupConfig) *domain.BackupConfig {
	if m == nil {
		return nil
	}
	return &domain.BackupConfig{
		ID:             m.ID,
		UID:            m.UID,
		Type:           m.Type,
		StorageIds:     m.StorageIds,
		IsEnabled:      m.IsEnabled,
		CronStrategy:   m.CronStrategy,
		CronExpression: m.CronExpression,
		RetentionDays:  m.RetentionDays,
		LastRunTime:    time.Time(m.LastRunTime),
		NextRunTime:    time.Time(m.NextRunTime),
		LastStatus:     m.LastStatus,
		LastMessage:    m.LastMessage,
		CreatedAt:      time.Time(m.CreatedAt),
		UpdatedAt:      time.Time(m.UpdatedAt),
	}
}

func (r *backupRepository) configToModel(d *domain.BackupConfig) *model.BackupConfig {
	if d == nil {
		return nil
	}
	return &model.BackupConfig{
		ID:             d.ID,
		UID:            d.UID,
		Type:           d.Type,
		StorageIds:     d.StorageIds,
		IsEnabled:      d.IsEnabled,
		CronStrategy:   d.CronStrategy,
		CronExpression: d.CronExpression,
		RetentionDays:  d.RetentionDays,
		LastRunTime:    timex.Time(d.LastRunTime),
		NextRunTime:    timex.Time(d.NextRunTime),
		LastStatus:     d.LastStatus,
		LastMessage:    d.LastMessage,
		CreatedAt:      timex.Time(d.CreatedAt),
		UpdatedAt:      timex.Time(d.UpdatedAt),
	}
}

func (r *backupRepository) historyToDomain(m *model.BackupHistory) *domain.BackupHistory {
	if m == nil {
		return nil
	}
	return &domain.BackupHistory{
		ID:        m.ID,
		UID:       m.UID,
		ConfigID:  m.ConfigID,
		StorageID: m.StorageID,
		Type:      m.Type,
		StartTime: time.Time(m.StartTime),
		EndTime:   time.Time(m.EndTime),
		Status:    m.Status,
		FileSize:  m.FileSize,
		FileCount: m.FileCount,
		Message:   m.Message,
		FilePath:  m.FilePath,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

func (r *backupRepository) historyToModel(d *domain.BackupHistory) *model.BackupHistory {
	if d == nil {
		return nil
	}
	return &model.BackupHistory{
		ID:        d.ID,
		UID:       d.UID,
		ConfigID:  d.ConfigID,
		StorageID: d.StorageID,
		Type:      d.Type,
		StartTime: timex.Time(d.StartTime),
		EndTime:   timex.Time(d.EndTime),
		Status:    d.Status,
		FileSize:  d.FileSize,
		FileCount: d.FileCount,
		Message:   d.Message,
		FilePath:  d.FilePath,
		CreatedAt: timex.Time(d.CreatedAt),
		UpdatedAt: timex.Time(d.UpdatedAt),
	}
}

// GetConfigByID 根据ID获取备份配置，不存在时返回 nil
func (r *backupRepository) GetConfigByID(ctx context.Context, id, uid int64) (*domain.BackupConfig, error) {
	var m model.BackupConfig
	err := r.config().WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.configToDomain(&m), nil
}

// CreateConfig 创建备份配置
func (r *backupRepository) CreateConfig(ctx context.Context, config *domain.BackupConfig, uid int64) (*domain.BackupConfig, error) {
	var result *domain.BackupConfig

	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		m := r.configToModel(config)
		m.ID = 0
		m.UID = uid
		m.CreatedAt = timex.Now()
		m.UpdatedAt = timex.Now()

		if err := r.config().WithContext(ctx).Create(m).Error; err != nil {
			return err
		}
		result = r.configToDomain(m)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateConfig 更新备份配置
func (r *backupRepository) UpdateConfig(ctx context.Context, config *domain.BackupConfig, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		// 先确认归属
		var old model.BackupConfig
		err := r.config().WithContext(ctx).
			Where("id = ? AND uid = ?", config.ID, uid).
			First(&old).Error
		if err != nil {
			return err
		}

		m := r.configToModel(config)
		m.UID = uid
		m.CreatedAt = old.CreatedAt
		m.UpdatedAt = timex.Now()

		return r.config().WithContext(ctx).
			Where("id = ?", config.ID).
			Save(m).Error
	})
}

// DeleteConfig 删除备份配置
func (r *backupRepository) DeleteConfig(ctx context.Context, id, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		return r.config().WithContext(ctx).
			Where("id = ? AND uid = ?", id, uid).
			Delete(&model.BackupConfig{}).Error
	})
}

// ListConfigs 获取用户备份配置列表
func (r *backupRepository) ListConfigs(ctx context.Context, uid int64) ([]*domain.BackupConfig, error) {
	var mList []*model.BackupConfig
	err := r.config().WithContext(ctx).
		Where("uid = ?", uid).
		Order("id DESC").
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.BackupConfig
	for _, m := range mList {
		results = append(results, r.configToDomain(m))
	}
	return results, nil
}

// ListEnabledConfigs 获取所有用户启用中的备份配置（调度任务用）
func (r *backupRepository) ListEnabledConfigs(ctx context.Context) ([]*domain.BackupConfig, error) {
	var mList []*model.BackupConfig
	err := r.config().WithContext(ctx).
		Where("is_enabled = ?", true).
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.BackupConfig
	for _, m := range mList {
		results = append(results, r.configToDomain(m))
	}
	return results, nil
}

// UpdateRunStatus 更新配置的运行状态与下次运行时间，时间为 Unix 秒，0 表示不更新
func (r *backupRepository) UpdateRunStatus(ctx context.Context, id, uid int64, status int, message string, lastRun, nextRun int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		values := map[string]interface{}{
			"last_status":  status,
			"last_message": message,
			"updated_at":   timex.Now(),
		}
		if lastRun > 0 {
			values["last_run_time"] = timex.Time(time.Unix(lastRun, 0))
		}
		if nextRun > 0 {
			values["next_run_time"] = timex.Time(time.Unix(nextRun, 0))
		}
		return r.config().WithContext(ctx).
			Model(&model.BackupConfig{}).
			Where("id = ? AND uid = ?", id, uid).
			Updates(values).Error
	})
}

// CreateHistory 创建备份历史
func (r *backupRepository) CreateHistory(ctx context.Context, history *domain.BackupHistory, uid int64) (*domain.BackupHistory, error) {
	var result *domain.BackupHistory

	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		m := r.historyToModel(history)
		m.ID = 0
		m.UID = uid
		m.CreatedAt = timex.Now()
		m.UpdatedAt = timex.Now()

		if err := r.history().WithContext(ctx).Create(m).Error; err != nil {
			return err
		}
		result = r.historyToDomain(m)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateHistory 更新备份历史
func (r *backupRepository) UpdateHistory(ctx context.Context, history *domain.BackupHistory, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		m := r.historyToModel(history)
		m.UID = uid
		m.UpdatedAt = timex.Now()

		return r.history().WithContext(ctx).
			Where("id = ? AND uid = ?", history.ID, uid).
			Save(m).Error
	})
}

// ListHistory 分页获取备份历史，开始时间倒序
func (r *backupRepository) ListHistory(ctx context.Context, configID int64, page, pageSize int, uid int64) ([]*domain.BackupHistory, int64, error) {
	q := r.history().WithContext(ctx).
		Model(&model.BackupHistory{}).
		Where("config_id = ? AND uid = ?", configID, uid)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var mList []*model.BackupHistory
	err := q.Order("start_time DESC, id DESC").
		Limit(pageSize).
		Offset(app.GetPageOffset(page, pageSize)).
		Find(&mList).Error
	if err != nil {
		return nil, 0, err
	}

	var results []*domain.BackupHistory
	for _, m := range mList {
		results = append(results, r.historyToDomain(m))
	}
	return results, count, nil
}

// ListHistoryBefore 获取某配置在指定时间（Unix 秒）之前的历史记录
func (r *backupRepository) ListHistoryBefore(ctx context.Context, configID int64, timestamp int64, uid int64) ([]*domain.BackupHistory, error) {
	cutoff := timex.Time(time.Unix(timestamp, 0))

	var mList []*model.BackupHistory
	err := r.history().WithContext(ctx).
		Where("config_id = ? AND uid = ? AND created_at < ?", configID, uid, cutoff).
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.BackupHistory
	for _, m := range mList {
		results = append(results, r.historyToDomain(m))
	}
	return results, nil
}

// DeleteHistoryBefore 删除某配置在指定时间（Unix 秒）之前的历史记录，返回删除数
func (r *backupRepository) DeleteHistoryBefore(ctx context.Context, configID int64, timestamp int64, uid int64) (int64, error) {
	var affected int64
	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		cutoff := timex.Time(time.Unix(timestamp, 0))
		res := r.history().WithContext(ctx).
			Where("config_id = ? AND uid = ? AND created_at < ?", configID, uid, cutoff).
			Delete(&model.BackupHistory{})
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

// 确保 backupRepository 实现了 domain.BackupRepository 接口
var _ domain.BackupRepository = (*backupRepository)(nil)
