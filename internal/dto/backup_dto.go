package dto

import "github.com/IxSyZ/my-life-diary/pkg/timex"

// BackupConfigRequest Backup configuration create/update request
// 备份配置创建/更新请求
type BackupConfigRequest struct {
	ID             int64  `json:"id" form:"id" example:"1"`
	Type           string `json:"type" form:"type" binding:"required,oneof=full incremental sync" example:"full"`
	StorageIds     string `json:"storageIds" form:"storageIds" binding:"required" example:"[1, 2]"`
	IsEnabled      bool   `json:"isEnabled" form:"isEnabled" example:"true"`
	CronStrategy   string `json:"cronStrategy" form:"cronStrategy" binding:"required,oneof=daily weekly monthly custom" example:"daily"`
	CronExpression string `json:"cronExpression" form:"cronExpression" example:"0 0 * * *"`
	RetentionDays  int    `json:"retentionDays" form:"retentionDays" binding:"min=1" example:"30"`
}

// BackupExecuteRequest Manual backup trigger request
// 手动触发备份请求
type BackupExecuteRequest struct {
	ID int64 `json:"id" form:"id" binding:"required" example:"1"`
}

// BackupDeleteRequest Backup configuration delete request
// 备份配置删除请求
type BackupDeleteRequest struct {
	ID int64 `json:"id" form:"id" binding:"required" example:"1"`
}

// BackupHistoryListRequest Paged backup history request
// 分页备份历史请求
type BackupHistoryListRequest struct {
	ConfigID int64 `json:"configId" form:"configId" binding:"required" example:"1"`
}

// ---------------- DTO / Response ----------------

// BackupConfigDTO Backup configuration DTO
// BackupConfigDTO 备份配置 DTO
type BackupConfigDTO struct {
	ID             int64      `json:"id"`             // Config ID // 配置ID
	UID            int64      `json:"uid"`            // User ID // 用户ID
	Type           string     `json:"type"`           // full, incremental or sync // 备份类型
	StorageIds     string     `json:"storageIds"`     // Storage ID list // 存储ID列表
	IsEnabled      bool       `json:"isEnabled"`      // Enabled // 是否启用
	CronStrategy   string     `json:"cronStrategy"`   // daily, weekly, monthly or custom // 定时策略
	CronExpression string     `json:"cronExpression"` // Cron expression for custom strategy // 自定义 Cron 表达式
	RetentionDays  int        `json:"retentionDays"`  // Archive retention days // 归档保留天数
	LastRunTime    timex.Time `json:"lastRunTime"`    // Last run time // 上次运行时间
	NextRunTime    timex.Time `json:"nextRunTime"`    // Next run time // 下次运行时间
	LastStatus     int        `json:"lastStatus"`     // 0:Idle 1:Running 2:Success 3:Failed 4:Stopped 5:NoUpdate
	LastMessage    string     `json:"lastMessage"`    // Last run message // 上次运行结果消息
	CreatedAt      timex.Time `json:"createdAt"`      // Created time // 创建时间
	UpdatedAt      timex.Time `json:"updatedAt"`      // Updated time // 更新时间
}

// BackupHistoryDTO Backup history DTO
// BackupHistoryDTO 备份历史 DTO
type BackupHistoryDTO struct {
	ID        int64      `json:"id"`        // History ID // 历史记录ID
	UID       int64      `json:"uid"`       // User ID // 用户ID
	ConfigID  int64      `json:"configId"`  // Config ID // 配置ID
	StorageID int64      `json:"storageId"` // Storage ID // 存储ID
	Type      string     `json:"type"`      // Backup type // 备份类型
	StartTime timex.Time `json:"startTime"` // Start time // 开始时间
	EndTime   timex.Time `json:"endTime"`   // End time // 结束时间
	Status    int        `json:"status"`    // 0:Idle 1:Running 2:Success 3:Failed 4:Stopped 5:NoUpdate
	FileSize  int64      `json:"fileSize"`  // Archive size in bytes // 归档字节数
	FileCount int64      `json:"fileCount"` // Files in the archive // 归档文件数
	Message   string     `json:"message"`   // Result message // 结果消息
	FilePath  string     `json:"filePath"`  // Remote archive path // 远端归档路径
	CreatedAt timex.Time `json:"createdAt"` // Created time // 创建时间
	UpdatedAt timex.Time `json:"updatedAt"` // Updated time // 更新时间
}
