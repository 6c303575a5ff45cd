package code

import (
	"errors"
)

// lang holds the English and Chinese message of a code.
// lang 保存一个响应码的英文与中文消息。
type lang struct {
	en    string
	zh_cn string
}

// Default language is English // 默认语言为英文
var lng = "en"

const FALLBACK_LNG = "en"

var supportedLanguages = []string{"en", "zh_cn"}

// GetMessage returns the message in the globally selected language, falling
// back to English when the selected text is empty.
// GetMessage 按全局语言返回消息，所选语言缺失时回退英文。
func (l lang) GetMessage() string {
	var msg string
	switch lng {
	case "zh_cn":
		msg = l.zh_cn
	default:
		msg = l.en
	}
	if msg == "" {
		msg = l.en
	}
	return msg
}

// GetSupportedLanguages returns every language the registry carries.
// GetSupportedLanguages 返回注册表支持的所有语言。
func GetSupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// SetGlobalDefaultLang sets the language used by GetMessage. Unsupported
// values fall back to English and return an error.
// SetGlobalDefaultLang 设置全局默认语言，不支持的值回退英文并返回错误。
func SetGlobalDefaultLang(language string) error {
	for _, l := range supportedLanguages {
		if language == l {
			lng = language
			return nil
		}
	}
	lng = FALLBACK_LNG
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang returns the current global language.
// GetGlobalDefaultLang 返回当前全局语言。
func GetGlobalDefaultLang() string {
	return lng
}
