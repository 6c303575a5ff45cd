package dto

import "github.com/IxSyZ/my-life-diary/pkg/timex"

// RevisionListRequest Paged revision list for one entry
// 单条条目的分页历史版本列表请求
type RevisionListRequest struct {
	Key string `json:"key" form:"key" binding:"required"` // Entry key // 条目标识
}

// RevisionGetRequest Retrieves one revision by id
// 按ID获取一个历史版本
type RevisionGetRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"` // Revision ID // 版本ID
}

// RevisionRestoreRequest Restores an entry's text to a stored revision; the
// restore itself records a new revision.
// 将条目文本恢复到某个历史版本；恢复本身也会记录新版本
type RevisionRestoreRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"` // Revision ID // 版本ID
}

// ---------------- DTO / Response ----------------

// RevisionDTO Entry revision data transfer object
// RevisionDTO 条目历史版本数据传输对象
type RevisionDTO struct {
	ID        int64      `json:"id"`        // Revision ID // 版本ID
	EntryKey  string     `json:"entryKey"`  // Owning entry key // 所属条目标识
	Version   int64      `json:"version"`   // Revision number // 版本号
	Text      string     `json:"text"`      // Full text at this version // 该版本全文
	Inserted  int        `json:"inserted"`  // Characters inserted vs previous // 相对上一版插入字符数
	Deleted   int        `json:"deleted"`   // Characters deleted vs previous // 相对上一版删除字符数
	CreatedAt timex.Time `json:"createdAt"` // Recorded time // 记录时间
}

// RevisionListDTO Paged revision list response
// RevisionListDTO 分页历史版本列表响应
type RevisionListDTO struct {
	List  []*RevisionDTO `json:"list"`  // Revisions, newest first // 版本列表，新在前
	Count int64          `json:"count"` // Total revisions // 版本总数
}
