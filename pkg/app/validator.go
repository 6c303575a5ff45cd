package app

import (
	"github.com/gin-gonic/gin/binding"
)

// ValidatorInterface is the contract for the validator installed as gin's
// binding.Validator: the binding.StructValidator behaviour plus Engine access
// to the underlying validator instance.
// ValidatorInterface 是安装为 gin binding.Validator 的验证器契约：
// 在 binding.StructValidator 之上暴露底层验证器实例。
type ValidatorInterface interface {
	binding.StructValidator
	Engine() interface{}
}
