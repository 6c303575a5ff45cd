// Package export renders the journal as per-day markdown files. Archive
// backups and the git mirror share this output format, so a diary backed up
// to object storage and one pushed to a git repository look identical.
// Package export 将日记渲染为按天的 Markdown 文件，归档备份与 Git 镜像共用。
package export

import (
	"bytes"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/domain"
)

// DayPath returns the repository-relative path of one day file,
// e.g. "2024/01/2024-01-15.md".
// DayPath 返回某一天文件的仓库相对路径，如 "2024/01/2024-01-15.md"。
func DayPath(day time.Time) string {
	return path.Join(
		fmt.Sprintf("%04d", day.Year()),
		fmt.Sprintf("%02d", int(day.Month())),
		fmt.Sprintf("%04d-%02d-%02d.md", day.Year(), int(day.Month()), day.Day()),
	)
}

// DayFiles renders every timestamped entry into its day file, keyed by
// repository-relative path. Entries inside a day run oldest first so the
// file reads top to bottom like a diary page.
// DayFiles 将全部带时间戳的条目渲染为按天文件，天内按时间正序排列。
func DayFiles(entries []*domain.Entry, loc *time.Location) map[string][]byte {
	return render(entries, loc, nil)
}

// ChangedDayFiles renders only the day files touched since the given
// instant. A day file aggregates all of its entries, so one changed entry
// re-renders the whole day. A zero since renders everything.
// ChangedDayFiles 只渲染自给定时刻以来有变更的天文件；单条变更重渲整天。
func ChangedDayFiles(entries []*domain.Entry, since time.Time, loc *time.Location) map[string][]byte {
	if since.IsZero() {
		return render(entries, loc, nil)
	}
	if loc == nil {
		loc = time.Local
	}

	changed := make(map[string]bool)
	for _, e := range entries {
		if !e.HasTimestamp() {
			continue
		}
		if e.UpdatedAt.After(since) {
			changed[DayPath(e.RecordedAt.In(loc))] = true
		}
	}
	if len(changed) == 0 {
		return nil
	}
	return render(entries, loc, changed)
}

// render groups entries by local calendar day and renders each selected day.
// A nil selection renders every day.
// render 按本地日历日分组并渲染选中的天；selection 为 nil 时渲染全部。
func render(entries []*domain.Entry, loc *time.Location, selection map[string]bool) map[string][]byte {
	if loc == nil {
		loc = time.Local
	}

	days := make(map[string][]*domain.Entry)
	for _, e := range entries {
		if !e.HasTimestamp() {
			continue
		}
		key := DayPath(e.RecordedAt.In(loc))
		if selection != nil && !selection[key] {
			continue
		}
		days[key] = append(days[key], e)
	}

	files := make(map[string][]byte, len(days))
	for key, dayEntries := range days {
		sort.Slice(dayEntries, func(i, j int) bool {
			ti, tj := dayEntries[i].RecordedAt, dayEntries[j].RecordedAt
			if !ti.Equal(tj) {
				return ti.Before(tj)
			}
			return dayEntries[i].ID < dayEntries[j].ID
		})
		files[key] = renderDay(dayEntries, loc)
	}
	return files
}

// renderDay 渲染一天的 Markdown：日期标题加每条的时间小节
func renderDay(entries []*domain.Entry, loc *time.Location) []byte {
	var buf bytes.Buffer

	day := entries[0].RecordedAt.In(loc)
	fmt.Fprintf(&buf, "# %s\n", day.Format("Monday, January 2, 2006"))

	for _, e := range entries {
		fmt.Fprintf(&buf, "\n## %s\n\n", e.RecordedAt.In(loc).Format("15:04"))
		buf.WriteString(e.Text)
		buf.WriteString("\n")
	}
	return buf.Bytes()
}
