package domain

import "time"

const (
	BackupStatusIdle     = 0
	BackupStatusRunning  = 1
	BackupStatusSuccess  = 2
	BackupStatusFailed   = 3
	BackupStatusStopped  = 4
	BackupStatusNoUpdate = 5
)

// 备份类型
const (
	BackupTypeFull        = "full"        // 全量归档
	BackupTypeIncremental = "incremental" // 增量归档
	BackupTypeSync        = "sync"        // 变更触发的镜像同步
)

// BackupConfig 备份配置领域模型
type BackupConfig struct {
	ID             int64
	UID            int64
	Type           string // full, incremental, sync
	StorageIds     string // JSON 数组，如 "[1, 2]"
	IsEnabled      bool
	CronStrategy   string // daily, weekly, monthly, custom
	CronExpression string // CronStrategy 为 custom 时的表达式
	RetentionDays  int    // 历史归档保留天数
	LastRunTime    time.Time
	NextRunTime    time.Time
	LastStatus     int
	LastMessage    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BackupHistory 备份历史领域模型
type BackupHistory struct {
	ID        int64
	UID       int64
	ConfigID  int64
	StorageID int64
	Type      string
	StartTime time.Time
	EndTime   time.Time
	Status    int
	FileSize  int64
	FileCount int64
	Message   string
	FilePath  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
