package journal

import (
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestExpansionState_Toggle(t *testing.T) {
	s := NewExpansionState()

	assert.False(t, s.IsExpanded("2024"))

	s.Toggle("2024")
	assert.True(t, s.IsExpanded("2024"))

	s.Toggle("2024")
	assert.False(t, s.IsExpanded("2024"))

	// 过去区块键走独立开关，不进节点表
	assert.False(t, s.PastVisible())
	s.Toggle(PastSectionKey)
	assert.True(t, s.PastVisible())
	assert.False(t, s.IsExpanded(PastSectionKey))
	s.Toggle(PastSectionKey)
	assert.False(t, s.PastVisible())
}

func TestExpansionState_ApplySearchExpandsMatches(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	entries := []*domain.Entry{
		entryAt(1, "coffee in january", time.Date(2024, 1, 20, 9, 0, 0, 0, time.Local)),
		entryAt(2, "coffee in november", time.Date(2023, 11, 5, 18, 0, 0, 0, time.Local)),
		entryAt(3, "quiet evening", time.Date(2023, 8, 1, 19, 0, 0, 0, time.Local)),
	}

	s := NewExpansionState()
	g := Group(entries, "coffee", now, time.Local)
	s.ApplySearch("coffee", g)

	assert.True(t, s.IsExpanded("2024"))
	assert.True(t, s.IsExpanded("2024-January"))
	assert.True(t, s.IsExpanded("2023"))
	assert.True(t, s.IsExpanded("2023-November"))
	assert.True(t, s.PastVisible())

	// 未命中的月份不展开
	assert.False(t, s.IsExpanded("2023-August"))
}

func TestExpansionState_ApplySearchNoMatchesKeepsState(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	entries := []*domain.Entry{
		entryAt(1, "quiet evening", time.Date(2023, 8, 1, 19, 0, 0, 0, time.Local)),
	}

	s := NewExpansionState()
	s.Toggle("2022")

	g := Group(entries, "swimming", now, time.Local)
	s.ApplySearch("swimming", g)

	// 无命中：已展开的键保留，过去区块可见性不被强制
	assert.True(t, s.IsExpanded("2022"))
	assert.False(t, s.PastVisible())
}

func TestExpansionState_ApplySearchAdditive(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	entries := []*domain.Entry{
		entryAt(1, "morning run", time.Date(2024, 1, 20, 9, 0, 0, 0, time.Local)),
		entryAt(2, "rainy walk", time.Date(2023, 11, 5, 18, 0, 0, 0, time.Local)),
	}

	s := NewExpansionState()

	g := Group(entries, "run", now, time.Local)
	s.ApplySearch("run", g)
	assert.True(t, s.IsExpanded("2024"))
	assert.True(t, s.IsExpanded("2024-January"))
	assert.False(t, s.IsExpanded("2023"))

	// 细化到另一个词：旧展开保留，新命中追加
	g = Group(entries, "walk", now, time.Local)
	s.ApplySearch("walk", g)
	assert.True(t, s.IsExpanded("2024"))
	assert.True(t, s.IsExpanded("2024-January"))
	assert.True(t, s.IsExpanded("2023"))
	assert.True(t, s.IsExpanded("2023-November"))
}

func TestExpansionState_EmptyTermResets(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	entries := []*domain.Entry{
		entryAt(1, "morning run", time.Date(2024, 1, 20, 9, 0, 0, 0, time.Local)),
	}

	s := NewExpansionState()
	s.Toggle("2020")
	g := Group(entries, "run", now, time.Local)
	s.ApplySearch("run", g)
	assert.True(t, s.IsExpanded("2024"))
	assert.True(t, s.PastVisible())

	// 空词 = 全收起
	g = Group(entries, "", now, time.Local)
	s.ApplySearch("", g)

	nodes, pastVisible := s.Snapshot()
	assert.Len(t, nodes, 0)
	assert.False(t, pastVisible)
	assert.False(t, s.IsExpanded("2024"))
	assert.False(t, s.IsExpanded("2020"))
}

func TestExpansionState_Snapshot(t *testing.T) {
	s := NewExpansionState()
	s.Toggle("2024")
	s.Toggle(PastSectionKey)

	nodes, pastVisible := s.Snapshot()
	assert.True(t, nodes["2024"])
	assert.True(t, pastVisible)

	// 副本与内部状态解耦
	nodes["2023"] = true
	assert.False(t, s.IsExpanded("2023"))
}
