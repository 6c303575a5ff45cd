package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelativeLuminance(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want float64
	}{
		{"white", "#ffffff", 1.0},
		{"black", "#000000", 0.0},
		{"pure red", "#ff0000", 0.2126},
		{"pure green", "#00ff00", 0.7152},
		{"pure blue", "#0000ff", 0.0722},
		{"mid gray", "#808080", 0.215861},
		{"linear segment", "#0a0a0a", 0.0030353},
		{"no hash prefix", "ff0000", 0.2126},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RelativeLuminance(tt.hex)
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-4)
		})
	}
}

func TestRelativeLuminanceInvalid(t *testing.T) {
	for _, hex := range []string{"", "#fff", "#12345", "#1234567", "#12345z", "nothex"} {
		_, err := RelativeLuminance(hex)
		assert.Error(t, err, "input %q", hex)
	}
}

func TestPickForegroundColor(t *testing.T) {
	tests := []struct {
		bg   string
		want string
	}{
		{"#ffffff", Black},
		{"#000000", White},
		{"#ff0000", Black},  // 0.2126 is just above the threshold
		{"#0000ff", White},  // 0.0722
		{"#808080", Black},  // 0.2159, a 0.5 midpoint would pick white here
		{"#008080", White},  // 0.1700, just below the threshold
		{"#336699", White},  // 0.1250
		{"#ffd700", Black},
	}
	for _, tt := range tests {
		got, err := PickForegroundColor(tt.bg)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got, "background %s", tt.bg)
	}
}

func TestShade(t *testing.T) {
	tests := []struct {
		hex     string
		percent int
		want    string
	}{
		{"#808080", 50, "#c0c0c0"},
		{"#808080", -50, "#404040"},
		{"#123456", 0, "#123456"},
		{"#ffffff", 20, "#ffffff"}, // clamped at 255
		{"#404040", -100, "#000000"},
		{"#0080ff", 25, "#00a0ff"}, // blue channel clamps, green scales
		{"#0a0a0a", 15, "#0b0b0b"}, // 10*1.15 = 11.5 truncates to 11
	}
	for _, tt := range tests {
		got, err := Shade(tt.hex, tt.percent)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got, "shade(%s, %d)", tt.hex, tt.percent)
	}
}

func TestShadeInvalid(t *testing.T) {
	_, err := Shade("#12", 10)
	assert.Error(t, err)
	_, err = PickForegroundColor("zzz")
	assert.Error(t, err)
}
