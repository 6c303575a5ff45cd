package dto

import "github.com/IxSyZ/my-life-diary/pkg/timex"

// GitMirrorConfigRequest Git mirror create/update request; the journal is
// exported as per-day markdown files and pushed to the repository.
// Git 镜像创建/更新请求；日记导出为按天 Markdown 并推送到仓库
type GitMirrorConfigRequest struct {
	ID          int64  `json:"id" form:"id"`
	RepoURL     string `json:"repoUrl" form:"repoUrl" binding:"required"` // Remote repository URL // 远端仓库地址
	Username    string `json:"username" form:"username"`                  // Auth username // 认证用户名
	Password    string `json:"password" form:"password"`                  // Token or password // token 或密码
	Branch      string `json:"branch" form:"branch"`                      // Target branch, default main // 目标分支，默认 main
	AuthorName  string `json:"authorName" form:"authorName"`              // Commit author name // 提交作者
	AuthorEmail string `json:"authorEmail" form:"authorEmail"`            // Commit author email // 提交邮箱
	IsEnabled   bool   `json:"isEnabled" form:"isEnabled"`                // Enabled // 是否启用
	Delay       int64  `json:"delay" form:"delay"`                        // Debounce seconds after a change // 变更后延迟同步秒数
}

// GitMirrorValidateRequest Repository credential validation request
// 仓库凭证验证请求
type GitMirrorValidateRequest struct {
	RepoURL  string `json:"repoUrl" form:"repoUrl" binding:"required"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Branch   string `json:"branch" form:"branch"`
}

// GitMirrorExecuteRequest Manual mirror trigger request
// 手动触发镜像请求
type GitMirrorExecuteRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"`
}

// GitMirrorDeleteRequest Mirror configuration delete request
// 镜像配置删除请求
type GitMirrorDeleteRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"`
}

// ---------------- DTO / Response ----------------

// GitMirrorConfigDTO Git mirror configuration DTO
// GitMirrorConfigDTO Git 镜像配置 DTO
type GitMirrorConfigDTO struct {
	ID           int64      `json:"id"`           // Config ID // 配置ID
	UID          int64      `json:"uid"`          // User ID // 用户ID
	RepoURL      string     `json:"repoUrl"`      // Remote repository URL // 远端仓库地址
	Username     string     `json:"username"`     // Auth username // 认证用户名
	Branch       string     `json:"branch"`       // Target branch // 目标分支
	AuthorName   string     `json:"authorName"`   // Commit author name // 提交作者
	AuthorEmail  string     `json:"authorEmail"`  // Commit author email // 提交邮箱
	IsEnabled    bool       `json:"isEnabled"`    // Enabled // 是否启用
	Delay        int64      `json:"delay"`        // Debounce seconds // 延迟秒数
	LastSyncTime timex.Time `json:"lastSyncTime"` // Last sync time // 上次同步时间
	LastStatus   int64      `json:"lastStatus"`   // 0:Idle 1:Running 2:Success 3:Failed
	LastMessage  string     `json:"lastMessage"`  // Last run message // 上次运行结果消息
	CreatedAt    timex.Time `json:"createdAt"`    // Created time // 创建时间
	UpdatedAt    timex.Time `json:"updatedAt"`    // Updated time // 更新时间
}
