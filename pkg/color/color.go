// Package color implements the theme palette math shared with the web
// client: relative luminance, foreground picking and channel shading.
// Package color 实现与前端一致的主题配色计算
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// luminanceThreshold is the empirically chosen cutoff between dark text
// on light backgrounds and light text on dark backgrounds. It is lower
// than the 0.5 midpoint on purpose; both ends must stay in sync with the
// client or themes render with different foregrounds per device.
const luminanceThreshold = 0.179

const (
	Black = "#000000"
	White = "#ffffff"
)

// ParseHex decodes a 6-hex-digit RGB color, with or without the leading
// '#', into its three channels.
// ParseHex 解析 6 位十六进制颜色值
func ParseHex(hexColor string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(hexColor, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("color: invalid hex color %q", hexColor)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("color: invalid hex color %q", hexColor)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// RelativeLuminance computes the relative luminance of a 6-hex-digit RGB
// color. Each channel is normalized to [0,1] and gamma corrected with the
// standard piecewise curve (linear below 0.03928, scaled by 1/12.92, else
// ((c+0.055)/1.055)^2.4), then the channels are combined with the
// 0.2126/0.7152/0.0722 weights.
// RelativeLuminance 计算颜色的相对亮度
func RelativeLuminance(hexColor string) (float64, error) {
	r, g, b, err := ParseHex(hexColor)
	if err != nil {
		return 0, err
	}
	lr := channelLuminance(r)
	lg := channelLuminance(g)
	lb := channelLuminance(b)
	return 0.2126*lr + 0.7152*lg + 0.0722*lb, nil
}

func channelLuminance(c uint8) float64 {
	cs := float64(c) / 255
	if cs <= 0.03928 {
		return cs / 12.92
	}
	return math.Pow((cs+0.055)/1.055, 2.4)
}

// PickForegroundColor returns pure black for light backgrounds and pure
// white for dark ones, judged against the fixed luminance threshold.
// PickForegroundColor 根据背景亮度选择黑色或白色前景
func PickForegroundColor(bg string) (string, error) {
	l, err := RelativeLuminance(bg)
	if err != nil {
		return "", err
	}
	if l > luminanceThreshold {
		return Black, nil
	}
	return White, nil
}

// Shade scales each RGB channel by (100+percent)/100 and clamps it to
// [0,255]. Negative percent darkens, positive lightens. The result is
// re-encoded as a lowercase 6-hex-digit color with a leading '#'.
// Shade 按百分比调整颜色明暗，负值变暗，正值变亮
func Shade(hexColor string, percent int) (string, error) {
	r, g, b, err := ParseHex(hexColor)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02x%02x%02x",
		shadeChannel(r, percent),
		shadeChannel(g, percent),
		shadeChannel(b, percent)), nil
}

func shadeChannel(c uint8, percent int) uint8 {
	v := int(c) * (100 + percent) / 100
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
