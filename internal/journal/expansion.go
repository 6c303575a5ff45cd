package journal

// PastSectionKey 过去区块可见性的专用切换键
const PastSectionKey = "past"

// ExpansionState tracks which hierarchy nodes a session has revealed. Absent
// keys mean collapsed. Not goroutine safe; each websocket session owns one
// instance and serializes access.
// ExpansionState 记录会话展开了哪些层级节点。
type ExpansionState struct {
	nodes       map[string]bool
	pastVisible bool
}

// NewExpansionState 创建全收起状态
func NewExpansionState() *ExpansionState {
	return &ExpansionState{nodes: make(map[string]bool)}
}

// Toggle 翻转节点展开状态，缺失视为收起；PastSectionKey 切换过去区块可见性
func (s *ExpansionState) Toggle(key string) {
	if key == PastSectionKey {
		s.pastVisible = !s.pastVisible
		return
	}
	s.nodes[key] = !s.nodes[key]
}

// IsExpanded 查询节点是否展开
func (s *ExpansionState) IsExpanded(key string) bool {
	return s.nodes[key]
}

// PastVisible 查询过去区块是否可见
func (s *ExpansionState) PastVisible() bool {
	return s.pastVisible
}

// ApplySearch folds a search result into the state. An empty term resets to
// full collapse. A non-empty term force-expands the year and year-month nodes
// of every match and reveals the past section when any match exists; expansion
// gained from earlier terms is never retracted until the empty-term reset.
// ApplySearch 将搜索结果并入展开状态。
func (s *ExpansionState) ApplySearch(term string, grouped *Grouped) {
	if term == "" {
		s.nodes = make(map[string]bool)
		s.pastVisible = false
		return
	}
	if grouped == nil {
		return
	}

	for _, yg := range grouped.Past {
		s.nodes[YearKey(yg.Year)] = true
		for _, mg := range yg.Months {
			s.nodes[MonthKey(yg.Year, mg.Month)] = true
		}
	}
	if len(grouped.Past) > 0 {
		s.pastVisible = true
	}
}

// Snapshot 返回节点表副本与过去区块可见性
func (s *ExpansionState) Snapshot() (map[string]bool, bool) {
	nodes := make(map[string]bool, len(s.nodes))
	for k, v := range s.nodes {
		nodes[k] = v
	}
	return nodes, s.pastVisible
}
