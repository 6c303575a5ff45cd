package model

import "github.com/IxSyZ/my-life-diary/pkg/timex"

const TableNameEntry = "entry"

// Entry mapped from table <entry>
type Entry struct {
	ID         int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	Key        string     `gorm:"column:key;not null;index:idx_entry_key,priority:1" json:"key" form:"key"`
	UID        int64      `gorm:"column:uid;not null;index:idx_entry_key,priority:2;index:idx_entry_uid" json:"uid" form:"uid"`
	Text       string     `gorm:"column:text;type:text" json:"text" form:"text"`
	Source     string     `gorm:"column:source;default:text" json:"source" form:"source"`
	Revision   int64      `gorm:"column:revision;default:1" json:"revision" form:"revision"`
	RecordedAt timex.Time `gorm:"column:recorded_at;type:datetime;default:NULL;autoCreateTime:false" json:"recordedAt" form:"recordedAt"`
	CreatedAt  timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt  timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoCreateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Entry's table name
func (*Entry) TableName() string {
	return TableNameEntry
}
