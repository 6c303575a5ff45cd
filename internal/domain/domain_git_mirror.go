package domain

import (
	"time"
)

// GitMirrorConfig 日记 Git 镜像配置，把条目导出为按天的 Markdown 并推送
type GitMirrorConfig struct {
	ID           int64      `json:"id"`
	UID          int64      `json:"uid"`
	RepoURL      string     `json:"repoUrl"`
	Username     string     `json:"username"`
	Password     string     `json:"password"` // token 或密码
	Branch       string     `json:"branch"`
	AuthorName   string     `json:"authorName"`
	AuthorEmail  string     `json:"authorEmail"`
	IsEnabled    bool       `json:"isEnabled"`
	Delay        int64      `json:"delay"` // 变更后延迟同步秒数
	LastSyncTime *time.Time `json:"lastSyncTime"`
	LastStatus   int64      `json:"lastStatus"` // 0: 闲置, 1: 运行中, 2: 成功, 3: 失败
	LastMessage  string     `json:"lastMessage"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
