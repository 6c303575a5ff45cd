package model

import "github.com/IxSyZ/my-life-diary/pkg/timex"

const TableNameEntryRevision = "entry_revision"

// EntryRevision mapped from table <entry_revision>
type EntryRevision struct {
	ID        int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	EntryID   int64      `gorm:"column:entry_id;not null;index:idx_revision_entry,priority:1" json:"entryId" form:"entryId"`
	UID       int64      `gorm:"column:uid;not null;index:idx_revision_entry,priority:2" json:"uid" form:"uid"`
	Version   int64      `gorm:"column:version;not null" json:"version" form:"version"`
	Text      string     `gorm:"column:text;type:text" json:"text" form:"text"`
	Inserted  int        `gorm:"column:inserted;default:0" json:"inserted" form:"inserted"`
	Deleted   int        `gorm:"column:deleted;default:0" json:"deleted" form:"deleted"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName EntryRevision's table name
func (*EntryRevision) TableName() string {
	return TableNameEntryRevision
}
