package middleware

import (
	"strings"

	"github.com/IxSyZ/my-life-diary/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator resolves the request language from the "lang"
// query or header and stores the matching validator translator on the
// context. Unknown languages fall back to English.
// LangWithTranslator 解析请求语言并注入对应的校验翻译器
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("lang")
		}
		lang = strings.ToLower(strings.ReplaceAll(lang, "-", "_"))

		trans, found := uni.GetTranslator(lang)
		if !found {
			trans, _ = uni.GetTranslator("en")
		}
		c.Set("trans", trans)

		code.SetGlobalDefaultLang(lang)

		c.Next()
	}
}
