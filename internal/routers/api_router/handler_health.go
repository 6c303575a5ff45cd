package api_router

import (
	"time"

	"github.com/IxSyZ/my-life-diary/internal/app"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	pkgapp "github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/code"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// Check 健康检查接口
// @Summary Health check
// @Description Report service health, including database connectivity and uptime.
// @Description 检查服务健康状态，包括数据库连通性与运行时长。
// @Tags System
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.HealthDTO} "Success"
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	data := dto.HealthDTO{
		Status:   "ok",
		Database: "connected",
		Uptime:   time.Since(h.App.StartTime).Seconds(),
	}

	// 数据库连通性探测
	if err := h.App.DB.WithContext(c.Request.Context()).Raw("SELECT 1").Error; err != nil {
		data.Status = "degraded"
		data.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(data))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(data))
}
