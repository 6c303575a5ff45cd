package middleware

import (
	"github.com/IxSyZ/my-life-diary/global"
	"github.com/IxSyZ/my-life-diary/pkg/app"

	"github.com/gin-gonic/gin"
)

// AppInfo 注入应用信息到请求上下文
func AppInfo(version string) gin.HandlerFunc {

	return func(c *gin.Context) {
		c.Set("app_name", global.Name)
		c.Set("app_version", version)
		c.Set("access_host", app.GetAccessHost(c))

		c.Next()
	}
}
