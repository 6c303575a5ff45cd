package model

import "github.com/IxSyZ/my-life-diary/pkg/timex"

const TableNameUser = "user"

// User mapped from table <user>
type User struct {
	UID       int64      `gorm:"column:uid;primaryKey" json:"uid" form:"uid"`
	Email     string     `gorm:"column:email;index:idx_user_email" json:"email" form:"email"`
	Username  string     `gorm:"column:username;not null;index:idx_user_username" json:"username" form:"username"`
	Nickname  string     `gorm:"column:nickname" json:"nickname" form:"nickname"`
	Password  string     `gorm:"column:password;not null" json:"-" form:"-"`
	Avatar    string     `gorm:"column:avatar" json:"avatar" form:"avatar"`
	IsGuest   bool       `gorm:"column:is_guest;default:false" json:"isGuest" form:"isGuest"`
	IsDeleted bool       `gorm:"column:is_deleted;default:false" json:"isDeleted" form:"isDeleted"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoCreateTime:false" json:"updatedAt" form:"updatedAt"`
	DeletedAt timex.Time `gorm:"column:deleted_at;type:datetime;default:NULL;autoCreateTime:false" json:"deletedAt" form:"deletedAt"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}
