// Package diff summarizes the change between two revisions of an entry text.
// Package diff 概括日记条目两个历史版本之间的文本变化。
package diff

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Delta 一次修订的增删统计（按 rune 计数）
type Delta struct {
	Inserted int `json:"inserted"`
	Deleted  int `json:"deleted"`
}

// IsZero reports whether the revision changed nothing.
func (d Delta) IsZero() bool {
	return d.Inserted == 0 && d.Deleted == 0
}

// Compute counts inserted and deleted runes between two texts. Semantic
// cleanup keeps the counts aligned with what a reader perceives as the edit.
// Compute 统计两个文本之间插入与删除的字符数
func Compute(before, after string) Delta {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var d Delta
	for _, df := range diffs {
		switch df.Type {
		case diffmatchpatch.DiffInsert:
			d.Inserted += len([]rune(df.Text))
		case diffmatchpatch.DiffDelete:
			d.Deleted += len([]rune(df.Text))
		}
	}
	return d
}

// PrettyHTML renders the change as HTML with <ins>/<del> spans for the
// revision preview.
// PrettyHTML 渲染修订差异的 HTML 预览
func PrettyHTML(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyHtml(diffs)
}
