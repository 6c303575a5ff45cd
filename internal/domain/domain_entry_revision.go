package domain

import "time"

// EntryRevision 条目历史版本领域模型，保存修改前的全文
type EntryRevision struct {
	ID        int64
	EntryID   int64
	UID       int64
	Version   int64 // 与 Entry.Revision 对齐的版本号
	Text      string
	Inserted  int // 相对上一版插入的字符数
	Deleted   int // 相对上一版删除的字符数
	CreatedAt time.Time
}
