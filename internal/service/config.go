// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	User UserServiceConfig // User related config // 用户相关配置
	App  AppServiceConfig  // App related config // 应用相关配置
}

// UserServiceConfig user service configuration
// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool // Whether registration is enabled // 注册是否启用
	GuestIsEnable    bool // Whether anonymous guest sign-in is enabled // 匿名访客登录是否启用
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	Timezone             string // IANA location for the journal calendar, empty means server local // 日记日历使用的时区，空为服务器本地
	RevisionKeepCount    int    // Revisions kept per entry (default 50) // 每条目保留的历史版本数（默认 50）
	RecordingMaxAge      string // Recording session hard age limit before reaping (e.g. 10m) // 录音会话回收前的最长存活时间
	RecordingIdleTimeout string // Reap a recording session after this long without audio (e.g. 2m) // 无音频到达多久后回收录音会话
	TempPath             string // Scratch dir for backup archives // 备份归档临时目录
	GitWorkspacePath     string // Root dir for git mirror worktrees // Git 镜像工作区根目录
}
