package websocket_router

import (
	"sync"

	"github.com/IxSyZ/my-life-diary/internal/journal"
)

// journalSession holds the per-connection view state: which year and month
// nodes are expanded plus the search term of the last pushed view. The state
// lives as long as the connection and is never persisted.
// journalSession 保存单个连接的视图状态：展开的年/月节点与上次推送视图
// 的搜索词。状态与连接同生命周期，不做持久化。
type journalSession struct {
	mu       sync.Mutex
	state    *journal.ExpansionState
	lastTerm string
}

func newJournalSession() *journalSession {
	return &journalSession{state: journal.NewExpansionState()}
}
