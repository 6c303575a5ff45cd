package dto

// JournalViewRequest Grouped journal view request; the term filters entries
// by case-insensitive substring before grouping.
// 分组日记视图请求；term 为分组前的大小写不敏感子串过滤
type JournalViewRequest struct {
	Term string `json:"term" form:"term" example:"coffee"` // Search term, empty shows all // 搜索词，空为全部
}

// JournalToggleRequest Toggles one expansion node; the key "past" flips the
// whole past-section visibility.
// 切换一个展开节点；key 为 "past" 时翻转整个历史区可见性
type JournalToggleRequest struct {
	Key string `json:"key" form:"key" binding:"required" example:"2024-January"` // Year, year-month or "past" // 年、年-月 或 "past"
}

// ---------------- DTO / Response ----------------

// JournalDayDTO One calendar day inside a month group
// JournalDayDTO 月分组内的一个日历日
type JournalDayDTO struct {
	Day     int         `json:"day"`     // Day of month // 当月第几天
	Entries []*EntryDTO `json:"entries"` // Entries of the day, newest first // 当日条目，新在前
}

// JournalMonthDTO One month grouping node
// JournalMonthDTO 一个月分组节点
type JournalMonthDTO struct {
	Month    int              `json:"month"`    // 1-12
	Label    string           `json:"label"`    // English month name // 英文月份名
	Key      string           `json:"key"`      // Expansion key, e.g. "2024-January" // 展开键
	Expanded bool             `json:"expanded"` // Expansion state // 展开状态
	Days     []*JournalDayDTO `json:"days"`
}

// JournalYearDTO One year grouping node
// JournalYearDTO 一个年分组节点
type JournalYearDTO struct {
	Year     int                `json:"year"`
	Key      string             `json:"key"`      // Expansion key, e.g. "2024" // 展开键
	Expanded bool               `json:"expanded"` // Expansion state // 展开状态
	Months   []*JournalMonthDTO `json:"months"`
}

// JournalViewDTO Grouped journal view: today's entries flat, everything
// older under the year/month/day hierarchy.
// JournalViewDTO 分组日记视图：今天平铺，更早的按年/月/日分层
type JournalViewDTO struct {
	Term        string           `json:"term"`        // Active search term // 当前搜索词
	Today       []*EntryDTO      `json:"today"`       // Today's entries, newest first // 今日条目，新在前
	Past        []*JournalYearDTO `json:"past"`        // Past hierarchy // 历史分层
	PastVisible bool             `json:"pastVisible"` // Past section visibility // 历史区可见性
	PastCount   int              `json:"pastCount"`   // Entries in the past section // 历史条目总数
}
