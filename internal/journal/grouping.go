// Package journal implements the grouped diary view: case-insensitive
// filtering, the today/past calendar hierarchy and the per-session
// expansion state.
// Package journal 实现日记分组视图：过滤、今天/过去日历层级与会话展开状态。
package journal

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
)

// Grouped 分组结果。Today 为今天的条目，Past 为年/月/日层级。
type Grouped struct {
	Today []*domain.Entry
	Past  []*YearGroup
}

// YearGroup 年分组，按首次出现顺序排列
type YearGroup struct {
	Year   int
	Months []*MonthGroup
}

// MonthGroup 月分组
type MonthGroup struct {
	Month time.Month
	Days  []*DayGroup
}

// DayGroup 日分组，桶内保持全集的新到旧顺序
type DayGroup struct {
	Day     int
	Entries []*domain.Entry
}

// Label 返回英文月份名，用作展示与展开键
func (m *MonthGroup) Label() string {
	return m.Month.String()
}

// YearKey 年节点展开键，如 "2024"
func YearKey(year int) string {
	return strconv.Itoa(year)
}

// MonthKey 年月节点展开键，如 "2024-January"
func MonthKey(year int, month time.Month) string {
	return strconv.Itoa(year) + "-" + month.String()
}

// Group materializes the filtered journal view at the reference instant.
// Entries without a timestamp never appear. The collection is first ordered
// newest-first (ties broken by id descending); years, months and days then
// follow first-encounter order of that iteration, so years and days run
// descending while months keep reverse-chronological encounter order.
// Group 在参考时刻构建过滤后的日记视图。
func Group(entries []*domain.Entry, term string, now time.Time, loc *time.Location) *Grouped {
	if loc == nil {
		loc = time.Local
	}

	filtered := filter(entries, term)

	sorted := make([]*domain.Entry, len(filtered))
	copy(sorted, filtered)
	sort.Slice(sorted, func(i, j int) bool {
		ti, tj := sorted[i].RecordedAt, sorted[j].RecordedAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return sorted[i].ID > sorted[j].ID
	})

	g := &Grouped{}
	nowYear, nowMonth, nowDay := now.In(loc).Date()

	for _, e := range sorted {
		if !e.HasTimestamp() {
			continue
		}
		year, month, day := e.RecordedAt.In(loc).Date()
		if year == nowYear && month == nowMonth && day == nowDay {
			g.Today = append(g.Today, e)
			continue
		}
		g.insertPast(year, month, day, e)
	}
	return g
}

// filter 大小写不敏感子串过滤；空串直通，词本身不做修剪
func filter(entries []*domain.Entry, term string) []*domain.Entry {
	if term == "" {
		return entries
	}
	needle := strings.ToLower(term)
	var matched []*domain.Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Text), needle) {
			matched = append(matched, e)
		}
	}
	return matched
}

// insertPast 将条目插入 [年][月][日] 桶，保持首次出现顺序
func (g *Grouped) insertPast(year int, month time.Month, day int, e *domain.Entry) {
	var yg *YearGroup
	for _, cand := range g.Past {
		if cand.Year == year {
			yg = cand
			break
		}
	}
	if yg == nil {
		yg = &YearGroup{Year: year}
		g.Past = append(g.Past, yg)
	}

	var mg *MonthGroup
	for _, cand := range yg.Months {
		if cand.Month == month {
			mg = cand
			break
		}
	}
	if mg == nil {
		mg = &MonthGroup{Month: month}
		yg.Months = append(yg.Months, mg)
	}

	var dg *DayGroup
	for _, cand := range mg.Days {
		if cand.Day == day {
			dg = cand
			break
		}
	}
	if dg == nil {
		dg = &DayGroup{Day: day}
		mg.Days = append(mg.Days, dg)
	}

	dg.Entries = append(dg.Entries, e)
}

// PastEntryCount 过去层级中的条目总数
func (g *Grouped) PastEntryCount() int {
	count := 0
	for _, yg := range g.Past {
		for _, mg := range yg.Months {
			for _, dg := range mg.Days {
				count += len(dg.Entries)
			}
		}
	}
	return count
}
