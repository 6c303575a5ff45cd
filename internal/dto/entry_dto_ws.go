package dto

// EntrySyncPushMessage authoritative full snapshot pushed to every live
// session of a user; deliveries fully replace the client's working set.
// EntrySyncPushMessage 推送给用户全部活跃连接的权威全量快照
type EntrySyncPushMessage struct {
	Entries  []*EntryDTO `json:"entries" form:"entries"`                       // Full entry set, newest first // 全量条目，新在前
	Count    int64       `json:"count" form:"count" example:"42"`              // Entry count // 条目数量
	LastTime int64       `json:"lastTime" form:"lastTime" example:"1700000000"` // Snapshot time, unix seconds // 快照时间（Unix 秒）
}

// EntryDeleteResultMessage result of a transactional delete
// EntryDeleteResultMessage 事务删除的结果消息
type EntryDeleteResultMessage struct {
	Deleted int64 `json:"deleted" form:"deleted" example:"2"` // Rows removed // 删除条数
}
