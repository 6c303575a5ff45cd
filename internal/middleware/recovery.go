package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger turns handler panics into a 500-style business
// response and logs the stack, keeping a single bad request from
// killing the process.
// RecoveryWithLogger 捕获处理器 panic，记录堆栈并返回统一错误响应
func RecoveryWithLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			var errorMsg string
			switch v := r.(type) {
			case error:
				errorMsg = v.Error()
			case string:
				errorMsg = v
			default:
				errorMsg = fmt.Sprintf("%v", v)
			}

			logger.Error("recovered from panic",
				zap.Int("status", c.Writer.Status()),
				zap.String("router", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("query", c.Request.URL.RawQuery),
				zap.String("ip", c.ClientIP()),
				zap.String("user-agent", c.Request.UserAgent()),
				zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
				zap.String("panic", errorMsg),
				zap.String("stack", string(debug.Stack())),
			)

			app.NewResponse(c).ToResponse(code.ErrorServerInternal.WithDetails(errorMsg))
		}()

		c.Next()
	}
}
