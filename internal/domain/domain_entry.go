// Package domain 定义领域模型和接口
package domain

import "time"

// EntrySource 条目来源
type EntrySource string

const (
	EntrySourceVoice EntrySource = "voice"
	EntrySourceText  EntrySource = "text"
)

// Entry 日记条目领域模型。Key 是对外暴露的不透明 ID，RecordedAt 由服务端在
// 创建时赋值，之后不可变。
type Entry struct {
	ID         int64
	Key        string // 对外 UUID
	UID        int64
	Text       string
	Source     EntrySource
	Revision   int64 // 文本修订计数，创建时为 1
	RecordedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasTimestamp reports whether the entry carries a journal timestamp. Entries
// without one never appear in any grouping.
// HasTimestamp 判断条目是否带有日记时间戳
func (e *Entry) HasTimestamp() bool {
	return !e.RecordedAt.IsZero()
}

// IsVoice 判断条目是否来自语音转写
func (e *Entry) IsVoice() bool {
	return e.Source == EntrySourceVoice
}
