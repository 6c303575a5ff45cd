package middleware

import (
	"time"

	"github.com/IxSyZ/my-life-diary/global"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog 记录每次 API 请求的访问日志
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		global.Log().Info(c.Request.URL.Path,
			zap.String("method", c.Request.Method),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("time-cost", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
		)
	}
}
