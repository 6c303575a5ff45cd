package domain

import "time"

// 偏好键；未知键会被拒绝
const (
	PreferenceThemeColor     = "theme-color"     // 6 位十六进制主题色
	PreferenceThemeMode      = "theme-mode"      // light / dark / auto
	PreferenceSpeechLanguage = "speech-language" // BCP-47 语言标签
)

// KnownPreferenceKeys 允许写入的偏好键集合
var KnownPreferenceKeys = map[string]bool{
	PreferenceThemeColor:     true,
	PreferenceThemeMode:      true,
	PreferenceSpeechLanguage: true,
}

// Preference 用户偏好领域模型，跨会话持久化
type Preference struct {
	ID        int64
	UID       int64
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
