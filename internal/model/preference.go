package model

import "github.com/IxSyZ/my-life-diary/pkg/timex"

const TableNamePreference = "preference"

// Preference mapped from table <preference>
type Preference struct {
	ID        int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UID       int64      `gorm:"column:uid;not null;uniqueIndex:idx_preference_uid_key,priority:1" json:"uid" form:"uid"`
	Key       string     `gorm:"column:key;not null;uniqueIndex:idx_preference_uid_key,priority:2" json:"key" form:"key"`
	Value     string     `gorm:"column:value" json:"value" form:"value"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoCreateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Preference's table name
func (*Preference) TableName() string {
	return TableNamePreference
}
