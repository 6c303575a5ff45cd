package model

import "github.com/IxSyZ/my-life-diary/pkg/timex"

const TableNameGitMirrorConfig = "git_mirror_config"

// GitMirrorConfig mapped from table <git_mirror_config>
type GitMirrorConfig struct {
	ID           int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UID          int64      `gorm:"column:uid;not null;index:idx_git_mirror_uid" json:"uid" form:"uid"`
	RepoURL      string     `gorm:"column:repo_url;not null" json:"repoUrl" form:"repoUrl"`
	Username     string     `gorm:"column:username" json:"username" form:"username"`
	Password     string     `gorm:"column:password" json:"-" form:"password"`
	Branch       string     `gorm:"column:branch;default:main" json:"branch" form:"branch"`
	AuthorName   string     `gorm:"column:author_name" json:"authorName" form:"authorName"`
	AuthorEmail  string     `gorm:"column:author_email" json:"authorEmail" form:"authorEmail"`
	IsEnabled    bool       `gorm:"column:is_enabled;default:false" json:"isEnabled" form:"isEnabled"`
	Delay        int64      `gorm:"column:delay;default:60" json:"delay" form:"delay"`
	LastSyncTime timex.Time `gorm:"column:last_sync_time;type:datetime;default:NULL;autoCreateTime:false" json:"lastSyncTime" form:"lastSyncTime"`
	LastStatus   int64      `gorm:"column:last_status;default:0" json:"lastStatus" form:"lastStatus"`
	LastMessage  string     `gorm:"column:last_message" json:"lastMessage" form:"lastMessage"`
	CreatedAt    timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt    timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoCreateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName GitMirrorConfig's table name
func (*GitMirrorConfig) TableName() string {
	return TableNameGitMirrorConfig
}
