// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "github.com/IxSyZ/my-life-diary/pkg/timex"

// EntryModifyRequest Request parameters for creating or updating an entry;
// an empty key creates a new entry, the timestamp is assigned server-side.
// 创建或修改条目的请求参数；key 为空时创建新条目，时间戳由服务端赋值
type EntryModifyRequest struct {
	Key  string `json:"key" form:"key" example:"b9c7e1f0"`               // Entry key, empty on create // 条目标识，创建时为空
	Text string `json:"text" form:"text" binding:"required" example:"Went for a run."` // Entry text // 条目文本
}

// EntryDeleteRequest Parameters for deleting one or more entries in a single
// transaction.
// 单个事务中删除一个或多个条目的请求参数
type EntryDeleteRequest struct {
	Keys []string `json:"keys" form:"keys" binding:"required,min=1"` // Entry keys // 条目标识列表
}

// EntryGetRequest Parameters for retrieving a single entry
// 获取单条条目的请求参数
type EntryGetRequest struct {
	Key string `json:"key" form:"key" binding:"required"` // Entry key // 条目标识
}

// EntryListRequest Paged entry list request
// 分页获取条目列表的请求参数
type EntryListRequest struct {
	Keyword string `json:"keyword" form:"keyword" example:"coffee"` // Case-insensitive substring filter // 大小写不敏感的子串过滤
}

// ---------------- DTO / Response ----------------

// EntryDTO Journal entry data transfer object
// EntryDTO 日记条目数据传输对象
type EntryDTO struct {
	Key        string     `json:"key"`        // Opaque entry key // 对外条目标识
	Text       string     `json:"text"`       // Entry text // 条目文本
	Source     string     `json:"source"`     // voice or text // 来源（语音或文本）
	Revision   int64      `json:"revision"`   // Text revision counter // 文本修订计数
	RecordedAt int64      `json:"recordedAt"` // Journal timestamp, unix seconds // 记录时间戳（Unix 秒）
	UpdatedAt  timex.Time `json:"updatedAt"`  // Last updated time // 最后更新时间
	CreatedAt  timex.Time `json:"createdAt"`  // Created time // 创建时间
}

// EntryListDTO Paged entry list response
// EntryListDTO 分页条目列表响应
type EntryListDTO struct {
	List  []*EntryDTO `json:"list"`  // Entries // 条目列表
	Count int64       `json:"count"` // Total matching entries // 匹配总数
}
