// Package validator plugs a shared validator/v10 instance into gin binding so
// HTTP binding and WebSocket payload checks use the same rules and the same
// registered translations.
// Package validator 将共享的 validator/v10 实例接入 gin binding。
package validator

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	validatorV10 "github.com/go-playground/validator/v10"
)

// CustomValidator implements binding.StructValidator on top of a lazily
// initialized validator/v10 instance.
// CustomValidator 基于懒加载的 validator/v10 实现 binding.StructValidator。
type CustomValidator struct {
	once     sync.Once
	validate *validatorV10.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

// NewCustomValidator creates the validator used as gin's binding.Validator.
// NewCustomValidator 创建用作 gin binding.Validator 的验证器。
func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct validates structs (and pointers to structs); other kinds
// pass through untouched, mirroring gin's default behaviour.
// ValidateStruct 校验结构体（含指针），其余类型直接放行。
func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		v.lazyInit()
		return v.validate.Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// Engine exposes the underlying *validator.Validate for translator setup.
// Engine 暴露底层 *validator.Validate 以便注册翻译。
func (v *CustomValidator) Engine() interface{} {
	v.lazyInit()
	return v.validate
}

// RegisterCustom registers the package's custom validation rules on the
// validator installed as gin's binding.Validator. No custom rules are defined
// yet, so this is currently a no-op hook.
// RegisterCustom 在 gin binding.Validator 上注册自定义校验规则；当前尚无
// 自定义规则，故为空挂钩。
func RegisterCustom() {}

func (v *CustomValidator) lazyInit() {
	v.once.Do(func() {
		v.validate = validatorV10.New()
		v.validate.SetTagName("binding")
	})
}
