package journal

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propTexts = []string{
	"morning run in the park",
	"quiet evening at home",
	"coffee with anna",
	"rainy walk home",
	"long drive north",
}

var propTerms = []string{"", "run", "E", "coffee", "walk", "zzz"}

// entrySpec 属性测试用的条目参数
type entrySpec struct {
	DayOffset int
	Hour      int
	TextIdx   int
	HasTime   bool
}

func entrySpecGen() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 800),
		gen.IntRange(0, 23),
		gen.IntRange(0, len(propTexts)-1),
		gen.Bool(),
	).Map(func(vals []interface{}) entrySpec {
		return entrySpec{
			DayOffset: vals[0].(int),
			Hour:      vals[1].(int),
			TextIdx:   vals[2].(int),
			HasTime:   vals[3].(bool),
		}
	})
}

func buildEntries(specs []entrySpec, now time.Time) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(specs))
	for i, spec := range specs {
		at := time.Time{}
		if spec.HasTime {
			day := now.AddDate(0, 0, -spec.DayOffset)
			at = time.Date(day.Year(), day.Month(), day.Day(), spec.Hour, 0, 0, 0, time.Local)
		}
		entries = append(entries, &domain.Entry{
			ID:         int64(i + 1),
			Text:       propTexts[spec.TextIdx],
			Source:     domain.EntrySourceText,
			RecordedAt: at,
		})
	}
	return entries
}

// collectIDs 收集分组结果中的全部条目ID计数
func collectIDs(g *Grouped) map[int64]int {
	counts := make(map[int64]int)
	for _, e := range g.Today {
		counts[e.ID]++
	}
	for _, yg := range g.Past {
		for _, mg := range yg.Months {
			for _, dg := range mg.Days {
				for _, e := range dg.Entries {
					counts[e.ID]++
				}
			}
		}
	}
	return counts
}

// 每个有时间戳的命中条目恰好落入一个桶，无时间戳的条目不出现
func TestProperty_GroupPartition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	properties.Property("grouped view partitions timestamped matches", prop.ForAll(
		func(specs []entrySpec, termIdx int) bool {
			term := propTerms[termIdx]
			entries := buildEntries(specs, now)
			g := Group(entries, term, now, time.Local)
			counts := collectIDs(g)

			needle := strings.ToLower(term)
			expected := 0
			for _, e := range entries {
				matches := term == "" || strings.Contains(strings.ToLower(e.Text), needle)
				if matches && e.HasTimestamp() {
					expected++
					if counts[e.ID] != 1 {
						t.Logf("entry %d expected once, got %d", e.ID, counts[e.ID])
						return false
					}
				} else if counts[e.ID] != 0 {
					t.Logf("entry %d should be absent, got %d", e.ID, counts[e.ID])
					return false
				}
			}

			total := len(g.Today) + g.PastEntryCount()
			return total == expected
		},
		gen.SliceOf(entrySpecGen()),
		gen.IntRange(0, len(propTerms)-1),
	))

	properties.TestingRun(t)
}

// 同样输入重复分组得到完全一致的结构
func TestProperty_GroupIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	properties.Property("regrouping is deterministic", prop.ForAll(
		func(specs []entrySpec, termIdx int) bool {
			term := propTerms[termIdx]
			entries := buildEntries(specs, now)
			g1 := Group(entries, term, now, time.Local)
			g2 := Group(entries, term, now, time.Local)
			return reflect.DeepEqual(g1, g2)
		},
		gen.SliceOf(entrySpecGen()),
		gen.IntRange(0, len(propTerms)-1),
	))

	properties.TestingRun(t)
}

// 任意词的命中集合是空词命中集合的子集
func TestProperty_SearchMonotone(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	properties.Property("term matches are a subset of the full view", prop.ForAll(
		func(specs []entrySpec, termIdx int) bool {
			term := propTerms[termIdx]
			entries := buildEntries(specs, now)

			all := collectIDs(Group(entries, "", now, time.Local))
			matched := collectIDs(Group(entries, term, now, time.Local))

			for id := range matched {
				if all[id] != 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(entrySpecGen()),
		gen.IntRange(0, len(propTerms)-1),
	))

	properties.TestingRun(t)
}

// 非空词序列下展开键只增不减，直到空词重置
func TestProperty_ExpansionMonotone(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	nonEmptyTerms := propTerms[1:]

	properties.Property("expansion only grows across non-empty terms", prop.ForAll(
		func(specs []entrySpec, termIdxs []int) bool {
			entries := buildEntries(specs, now)
			s := NewExpansionState()

			var prevTrue []string
			for _, idx := range termIdxs {
				term := nonEmptyTerms[idx]
				g := Group(entries, term, now, time.Local)
				s.ApplySearch(term, g)

				nodes, _ := s.Snapshot()
				for _, key := range prevTrue {
					if !nodes[key] {
						t.Logf("key %q was retracted", key)
						return false
					}
				}
				prevTrue = prevTrue[:0]
				for key, v := range nodes {
					if v {
						prevTrue = append(prevTrue, key)
					}
				}
			}
			return true
		},
		gen.SliceOf(entrySpecGen()),
		gen.SliceOf(gen.IntRange(0, len(nonEmptyTerms)-1)),
	))

	properties.TestingRun(t)
}
