// Package domain 定义领域模型和接口
package domain

import "context"

// EntryRepository 日记条目仓储接口
type EntryRepository interface {
	// GetByID 根据ID获取条目
	GetByID(ctx context.Context, id, uid int64) (*Entry, error)

	// GetByKey 根据对外 Key 获取条目
	GetByKey(ctx context.Context, key string, uid int64) (*Entry, error)

	// Create 创建条目
	Create(ctx context.Context, entry *Entry, uid int64) (*Entry, error)

	// UpdateText 更新条目文本和修订号；ID 与时间戳不可变
	UpdateText(ctx context.Context, id int64, text string, revision int64, uid int64) error

	// Delete 删除单个条目
	Delete(ctx context.Context, id, uid int64) error

	// DeleteByKeys 在单个事务中删除一批条目，返回删除数
	DeleteByKeys(ctx context.Context, keys []string, uid int64) (int64, error)

	// DeleteAll 删除用户全部条目，返回删除数
	DeleteAll(ctx context.Context, uid int64) (int64, error)

	// ListAll 获取用户全部条目，时间戳倒序（快照推送用）
	ListAll(ctx context.Context, uid int64) ([]*Entry, error)

	// List 分页获取条目列表，keyword 为大小写不敏感子串
	List(ctx context.Context, page, pageSize int, uid int64, keyword string) ([]*Entry, error)

	// ListCount 获取条目数量
	ListCount(ctx context.Context, uid int64, keyword string) (int64, error)
}

// EntryRevisionRepository 条目历史版本仓储接口
type EntryRevisionRepository interface {
	// GetByID 根据ID获取历史版本
	GetByID(ctx context.Context, id, uid int64) (*EntryRevision, error)

	// Create 创建历史版本
	Create(ctx context.Context, revision *EntryRevision, uid int64) (*EntryRevision, error)

	// ListByEntryID 根据条目ID分页获取历史版本，版本号倒序
	ListByEntryID(ctx context.Context, entryID int64, page, pageSize int, uid int64) ([]*EntryRevision, int64, error)

	// GetLatestVersion 获取条目最新版本号，无历史时返回 0
	GetLatestVersion(ctx context.Context, entryID, uid int64) (int64, error)

	// DeleteOldVersions 删除旧版本，保留最近 keepVersions 个
	DeleteOldVersions(ctx context.Context, entryID int64, keepVersions int, uid int64) error

	// DeleteByEntryID 删除条目的全部历史版本
	DeleteByEntryID(ctx context.Context, entryID, uid int64) error

	// ListEntryIDs 获取存在历史版本的条目ID列表（修剪任务用）
	ListEntryIDs(ctx context.Context, uid int64) ([]int64, error)
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByUID 根据UID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByEmail 根据邮箱获取用户
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUsername 根据用户名获取用户
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create 创建用户
	Create(ctx context.Context, user *User) (*User, error)

	// UpdatePassword 更新用户密码
	UpdatePassword(ctx context.Context, password string, uid int64) error

	// UpdateProfile 更新昵称与头像
	UpdateProfile(ctx context.Context, nickname, avatar string, uid int64) error

	// GetAllUIDs 获取所有用户UID
	GetAllUIDs(ctx context.Context) ([]int64, error)
}

// PreferenceRepository 用户偏好仓储接口
type PreferenceRepository interface {
	// Get 获取单个偏好，不存在时返回 gorm.ErrRecordNotFound
	Get(ctx context.Context, uid int64, key string) (*Preference, error)

	// GetAll 获取用户全部偏好
	GetAll(ctx context.Context, uid int64) ([]*Preference, error)

	// Set 写入偏好，存在则更新
	Set(ctx context.Context, uid int64, key, value string) error
}

// StorageRepository 备份目标存储仓储接口
type StorageRepository interface {
	// GetByID 根据ID获取存储配置
	GetByID(ctx context.Context, id, uid int64) (*Storage, error)

	// Create 创建存储配置
	Create(ctx context.Context, storage *Storage, uid int64) (*Storage, error)

	// Update 更新存储配置
	Update(ctx context.Context, storage *Storage, uid int64) error

	// Delete 删除存储配置（软删除）
	Delete(ctx context.Context, id, uid int64) error

	// List 获取用户存储配置列表
	List(ctx context.Context, uid int64) ([]*Storage, error)
}

// BackupRepository 备份配置与历史仓储接口
type BackupRepository interface {
	// GetConfigByID 根据ID获取备份配置
	GetConfigByID(ctx context.Context, id, uid int64) (*BackupConfig, error)

	// CreateConfig 创建备份配置
	CreateConfig(ctx context.Context, config *BackupConfig, uid int64) (*BackupConfig, error)

	// UpdateConfig 更新备份配置
	UpdateConfig(ctx context.Context, config *BackupConfig, uid int64) error

	// DeleteConfig 删除备份配置
	DeleteConfig(ctx context.Context, id, uid int64) error

	// ListConfigs 获取用户备份配置列表
	ListConfigs(ctx context.Context, uid int64) ([]*BackupConfig, error)

	// ListEnabledConfigs 获取所有用户启用中的备份配置（调度任务用）
	ListEnabledConfigs(ctx context.Context) ([]*BackupConfig, error)

	// UpdateRunStatus 更新配置的运行状态与下次运行时间
	UpdateRunStatus(ctx context.Context, id, uid int64, status int, message string, lastRun, nextRun int64) error

	// CreateHistory 创建备份历史
	CreateHistory(ctx context.Context, history *BackupHistory, uid int64) (*BackupHistory, error)

	// UpdateHistory 更新备份历史
	UpdateHistory(ctx context.Context, history *BackupHistory, uid int64) error

	// ListHistory 分页获取备份历史，开始时间倒序
	ListHistory(ctx context.Context, configID int64, page, pageSize int, uid int64) ([]*BackupHistory, int64, error)

	// ListHistoryBefore 获取某配置在指定时间（Unix 秒）之前的历史记录（归档清理用）
	ListHistoryBefore(ctx context.Context, configID int64, timestamp int64, uid int64) ([]*BackupHistory, error)

	// DeleteHistoryBefore 删除某配置在指定时间（Unix 秒）之前的历史记录
	DeleteHistoryBefore(ctx context.Context, configID int64, timestamp int64, uid int64) (int64, error)
}

// GitMirrorRepository Git 镜像配置仓储接口
type GitMirrorRepository interface {
	// GetByID 根据ID获取镜像配置
	GetByID(ctx context.Context, id, uid int64) (*GitMirrorConfig, error)

	// Create 创建镜像配置
	Create(ctx context.Context, config *GitMirrorConfig, uid int64) (*GitMirrorConfig, error)

	// Update 更新镜像配置
	Update(ctx context.Context, config *GitMirrorConfig, uid int64) error

	// Delete 删除镜像配置
	Delete(ctx context.Context, id, uid int64) error

	// List 获取用户镜像配置列表
	List(ctx context.Context, uid int64) ([]*GitMirrorConfig, error)

	// UpdateSyncStatus 更新同步状态
	UpdateSyncStatus(ctx context.Context, id, uid int64, status int64, message string, syncTime int64) error
}
