package diff

import (
	"strings"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		before       string
		after        string
		wantInserted int
		wantDeleted  int
	}{
		{"identical", "went for a run", "went for a run", 0, 0},
		{"insert only", "went for a run", "went for a run today", 6, 0},
		{"delete only", "went for a run today", "went for a run", 0, 6},
		{"replace word", "slept early", "slept late", 4, 5},
		{"from empty", "", "first entry", 11, 0},
		{"to empty", "first entry", "", 0, 11},
		{"unicode runes", "今天跑步", "今天跑步五公里", 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Compute(tt.before, tt.after)
			if d.Inserted != tt.wantInserted {
				t.Errorf("Compute(%q, %q).Inserted = %d, want %d", tt.before, tt.after, d.Inserted, tt.wantInserted)
			}
			if d.Deleted != tt.wantDeleted {
				t.Errorf("Compute(%q, %q).Deleted = %d, want %d", tt.before, tt.after, d.Deleted, tt.wantDeleted)
			}
		})
	}
}

func TestDelta_IsZero(t *testing.T) {
	if !Compute("same", "same").IsZero() {
		t.Error("identical texts should produce a zero delta")
	}
	if Compute("a", "b").IsZero() {
		t.Error("different texts should not produce a zero delta")
	}
}

func TestPrettyHTML(t *testing.T) {
	html := PrettyHTML("went for a run", "went for a walk")

	if !strings.Contains(html, "<ins") {
		t.Errorf("expected an <ins> span in %q", html)
	}
	if !strings.Contains(html, "<del") {
		t.Errorf("expected a <del> span in %q", html)
	}

	// 无变化时不应出现增删标记
	same := PrettyHTML("stable", "stable")
	if strings.Contains(same, "<ins") || strings.Contains(same, "<del") {
		t.Errorf("unchanged text should render without ins/del spans, got %q", same)
	}
}
