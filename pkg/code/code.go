// Package code defines the response code registry shared by the HTTP API and
// the WebSocket channel. Codes carry a bilingual message, an optional payload
// and optional detail strings; the transport status is always 200 and the
// business outcome is expressed by the code itself.
// Package code 定义 HTTP API 与 WebSocket 通道共用的响应码注册表。
package code

import (
	"fmt"
	"net/http"
)

type Code struct {
	// business code // 业务码
	code int
	// true for success codes // 成功码为 true
	status bool
	// bilingual message // 双语消息
	Lang lang
	// optional payload // 可选数据
	data     interface{}
	haveData bool
	// optional detail strings // 可选详情
	details     []string
	haveDetails bool
	// call-site marker for logs // 日志用调用点标记
	context     string
	haveContext bool
}

var errCodes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers a failure code. Registering the same code twice is a
// programming error and panics at init time.
// NewError 注册一个失败码，重复注册同一个码视为编程错误，init 阶段直接 panic。
func NewError(code int, l lang) *Code {
	if _, ok := errCodes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	errCodes[code] = l.GetMessage()
	return &Code{code: code, status: false, Lang: l}
}

// NewSuss registers a success code.
// NewSuss 注册一个成功码。
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()
	return &Code{code: code, status: true, Lang: l}
}

// Clone returns a detached copy so chained WithData/WithDetails calls never
// mutate the registered singleton.
// Clone 返回一个独立副本，链式 WithData/WithDetails 不会污染注册的单例。
func (e *Code) Clone() *Code {
	return &Code{
		code:   e.code,
		status: e.status,
		Lang:   e.Lang,
	}
}

func (e *Code) Error() string {
	return e.Msg()
}

// Is matches by business code so WithData/WithDetails copies still compare
// equal to the registered singleton under errors.Is.
// Is 按业务码比较，WithData/WithDetails 副本仍可与注册单例匹配。
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	return ok && t.code == e.code
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Msgf(args ...interface{}) string {
	return fmt.Sprintf(e.Msg(), args...)
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) Context() string {
	return e.context
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) HaveContext() bool {
	return e.haveContext
}

// WithData attaches a payload to a copy of the code.
// WithData 在副本上附加数据。
func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	c.haveDetails = e.haveDetails
	c.details = e.details
	c.haveContext = e.haveContext
	c.context = e.context
	return c
}

// WithDetails attaches human-readable detail lines to a copy of the code.
// WithDetails 在副本上附加详情行。
func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveData = e.haveData
	c.data = e.data
	c.haveContext = e.haveContext
	c.context = e.context
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

// WithContext marks the call site, typically "package.Type.Method".
// WithContext 标记调用点，一般为 "package.Type.Method"。
func (e *Code) WithContext(context string) *Code {
	c := e.Clone()
	c.haveData = e.haveData
	c.data = e.data
	c.haveDetails = e.haveDetails
	c.details = e.details
	c.haveContext = true
	c.context = context
	return c
}

// StatusCode is the HTTP transport status, always 200; clients switch on the
// business code instead.
// StatusCode 为 HTTP 传输状态码，恒为 200，客户端依据业务码判断结果。
func (e *Code) StatusCode() int {
	return http.StatusOK
}
