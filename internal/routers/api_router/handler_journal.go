package api_router

import (
	"context"

	"github.com/IxSyZ/my-life-diary/internal/app"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/internal/journal"
	"github.com/IxSyZ/my-life-diary/internal/middleware"
	pkgapp "github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	apperrors "github.com/IxSyZ/my-life-diary/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JournalHandler grouped journal view API router handler
// JournalHandler 分组日记视图 API 路由处理器
// Uses App Container to inject dependencies
// 使用 App Container 注入依赖
type JournalHandler struct {
	*Handler
}

// NewJournalHandler creates JournalHandler instance
// NewJournalHandler 创建 JournalHandler 实例
func NewJournalHandler(a *app.App) *JournalHandler {
	return &JournalHandler{
		Handler: NewHandler(a),
	}
}

// View retrieves the grouped journal view
// @Summary Get the grouped journal view
// @Description Today's entries flat, older entries grouped under year/month/day. Expansion state lives on the websocket session; this REST view always starts from the default collapsed tree, with search hits auto-expanded.
// @Description 今天平铺，更早的条目按年/月/日分组。展开状态属于 WebSocket 会话；REST 视图始终从默认折叠树出发，搜索命中自动展开。
// @Tags Journal
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.JournalViewRequest false "View Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.JournalViewDTO} "Success"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/journal [get]
func (h *JournalHandler) View(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.JournalViewRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	ctx := c.Request.Context()

	// 每次请求都是新的折叠状态，搜索词非空视作一次搜索变化
	state := journal.NewExpansionState()
	view, err := h.App.JournalService.View(ctx, uid, params.Term, state, params.Term != "")
	if err != nil {
		h.logError(ctx, "JournalHandler.View", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(view))
}

// logError 记录错误日志，包含 Trace ID
func (h *JournalHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
