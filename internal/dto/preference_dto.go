package dto

import "github.com/IxSyZ/my-life-diary/pkg/timex"

// PreferenceSetRequest Writes one preference; unknown keys are rejected
// 写入一条偏好；未知键会被拒绝
type PreferenceSetRequest struct {
	Key   string `json:"key" form:"key" binding:"required" example:"theme-color"` // theme-color, theme-mode or speech-language // 偏好键
	Value string `json:"value" form:"value" binding:"required" example:"#6750a4"` // Preference value // 偏好值
}

// PreferenceGetRequest Retrieves one preference by key
// 按键获取一条偏好
type PreferenceGetRequest struct {
	Key string `json:"key" form:"key" binding:"required"` // Preference key // 偏好键
}

// PaletteRequest Theme palette preview for an arbitrary base color
// 任意基色的主题配色预览请求
type PaletteRequest struct {
	Color string `json:"color" form:"color" binding:"required" example:"#6750a4"` // 6-hex-digit base color // 6 位十六进制基色
}

// ---------------- DTO / Response ----------------

// PreferenceDTO Preference data transfer object
// PreferenceDTO 偏好数据传输对象
type PreferenceDTO struct {
	Key       string     `json:"key"`       // Preference key // 偏好键
	Value     string     `json:"value"`     // Preference value // 偏好值
	UpdatedAt timex.Time `json:"updatedAt"` // Last updated time // 最后更新时间
}

// PaletteDTO Derived theme palette: contrast foreground plus hover and
// pressed shades of the base color.
// PaletteDTO 派生主题配色：对比前景色及悬停、按下两档明暗
type PaletteDTO struct {
	Background string `json:"background"` // Base color // 基色
	Foreground string `json:"foreground"` // Pure black or white by luminance // 按亮度取黑或白
	Hover      string `json:"hover"`      // Hover shade // 悬停色
	Pressed    string `json:"pressed"`    // Pressed shade // 按下色
}
