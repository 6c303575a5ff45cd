package model

import "github.com/IxSyZ/my-life-diary/pkg/timex"

const TableNameBackupConfig = "backup_config"

// BackupConfig mapped from table <backup_config>
type BackupConfig struct {
	ID             int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UID            int64      `gorm:"column:uid;not null;index:idx_backup_config_uid" json:"uid" form:"uid"`
	Type           string     `gorm:"column:type;not null" json:"type" form:"type"`
	StorageIds     string     `gorm:"column:storage_ids" json:"storageIds" form:"storageIds"`
	IsEnabled      bool       `gorm:"column:is_enabled;default:true" json:"isEnabled" form:"isEnabled"`
	CronStrategy   string     `gorm:"column:cron_strategy;default:daily" json:"cronStrategy" form:"cronStrategy"`
	CronExpression string     `gorm:"column:cron_expression" json:"cronExpression" form:"cronExpression"`
	RetentionDays  int        `gorm:"column:retention_days;default:30" json:"retentionDays" form:"retentionDays"`
	LastRunTime    timex.Time `gorm:"column:last_run_time;type:datetime;default:NULL;autoCreateTime:false" json:"lastRunTime" form:"lastRunTime"`
	NextRunTime    timex.Time `gorm:"column:next_run_time;type:datetime;default:NULL;autoCreateTime:false" json:"nextRunTime" form:"nextRunTime"`
	LastStatus     int        `gorm:"column:last_status;default:0" json:"lastStatus" form:"lastStatus"`
	LastMessage    string     `gorm:"column:last_message" json:"lastMessage" form:"lastMessage"`
	CreatedAt      timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt      timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoCreateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName BackupConfig's table name
func (*BackupConfig) TableName() string {
	return TableNameBackupConfig
}

const TableNameBackupHistory = "backup_history"

// BackupHistory mapped from table <backup_history>
type BackupHistory struct {
	ID        int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UID       int64      `gorm:"column:uid;not null;index:idx_backup_history_uid" json:"uid" form:"uid"`
	ConfigID  int64      `gorm:"column:config_id;not null;index:idx_backup_history_config" json:"configId" form:"configId"`
	StorageID int64      `gorm:"column:storage_id" json:"storageId" form:"storageId"`
	Type      string     `gorm:"column:type" json:"type" form:"type"`
	StartTime timex.Time `gorm:"column:start_time;type:datetime;default:NULL;autoCreateTime:false" json:"startTime" form:"startTime"`
	EndTime   timex.Time `gorm:"column:end_time;type:datetime;default:NULL;autoCreateTime:false" json:"endTime" form:"endTime"`
	Status    int        `gorm:"column:status;default:0" json:"status" form:"status"`
	FileSize  int64      `gorm:"column:file_size;default:0" json:"fileSize" form:"fileSize"`
	FileCount int64      `gorm:"column:file_count;default:0" json:"fileCount" form:"fileCount"`
	Message   string     `gorm:"column:message" json:"message" form:"message"`
	FilePath  string     `gorm:"column:file_path" json:"filePath" form:"filePath"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoCreateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName BackupHistory's table name
func (*BackupHistory) TableName() string {
	return TableNameBackupHistory
}
