package api_router

import (
	"context"

	"github.com/IxSyZ/my-life-diary/internal/app"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/internal/middleware"
	pkgapp "github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	apperrors "github.com/IxSyZ/my-life-diary/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EntryHandler journal entry API router handler
// EntryHandler 日记条目 API 路由处理器
// Uses App Container to inject dependencies, supports unified error handling
// 使用 App Container 注入依赖，支持统一错误处理
type EntryHandler struct {
	*Handler
}

// NewEntryHandler creates EntryHandler instance
// NewEntryHandler 创建 EntryHandler 实例
// 条目写操作通过变更监听器向该用户的活跃 WebSocket 连接推送最新快照
func NewEntryHandler(a *app.App, wss *pkgapp.WebsocketServer) *EntryHandler {
	return &EntryHandler{
		Handler: NewHandlerWithWSS(a, wss),
	}
}

// Get retrieves a single entry
// @Summary Get a journal entry
// @Description Get one entry by its opaque key.
// @Description 按对外标识获取单条日记条目。
// @Tags Entry
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.EntryGetRequest true "Get Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.EntryDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Entry Not Found"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/entry [get]
func (h *EntryHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EntryGetRequest{}

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

	entryDTO, err := h.App.EntryService.Get(ctx, uid, params.Key)
	if err != nil {
		h.logError(ctx, "EntryHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(entryDTO))
}

// List retrieves entries with pagination
// @Summary List journal entries
// @Description List entries newest first, optionally filtered by a case-insensitive keyword.
// @Description 按时间倒序分页获取条目，可选大小写不敏感关键字过滤。
// @Tags Entry
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.EntryListRequest true "List Parameters"
// @Param pagination query pkgapp.PaginationRequest false "Pagination"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.EntryDTO}} "Success"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EntryListRequest{}

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

	list, err := h.App.EntryService.List(ctx, uid, params.Keyword, pkgapp.GetPage(c), pkgapp.GetPageSize(c))
	if err != nil {
		h.logError(ctx, "EntryHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, list.List, int(list.Count))
}

// CreateOrUpdate creates an entry or updates one entry's text
// @Summary Create or update a journal entry
// @Description An empty key creates a new entry with a server-assigned timestamp; a known key updates the entry text and records a revision. Whitespace-only text on create is a silent no-op.
// @Description key 为空时创建条目并由服务端赋时间戳；key 已存在时修改条目文本并记录历史版本。创建时空白文本静默忽略。
// @Tags Entry
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.EntryModifyRequest true "Modify Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.EntryDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Entry Not Found"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/entry [post]
func (h *EntryHandler) CreateOrUpdate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EntryModifyRequest{}

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

	_, entryDTO, err := h.App.EntryService.ModifyOrCreate(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "EntryHandler.CreateOrUpdate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	// 空白文本创建被静默忽略时没有条目可返回
	if entryDTO == nil {
		response.ToResponse(code.SuccessNoChange)
		return
	}

	response.ToResponse(code.Success.WithData(entryDTO))
}

// Delete removes one or more entries in a single transaction
// @Summary Delete journal entries
// @Description Delete one or more entries by key; the batch is removed in a single transaction.
// @Description 按标识删除一个或多个条目，整批在单个事务中移除。
// @Tags Entry
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.EntryDeleteRequest true "Delete Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.EntryDeleteResultMessage} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/entry [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EntryDeleteRequest{}

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

	deleted, err := h.App.EntryService.Delete(ctx, uid, params.Keys)
	if err != nil {
		h.logError(ctx, "EntryHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(dto.EntryDeleteResultMessage{Deleted: deleted}))
}

// DeleteAll removes every entry of the current user
// @Summary Delete all journal entries
// @Description Remove every entry of the current user and report the removed count.
// @Description 删除当前用户的全部条目并返回删除数。
// @Tags Entry
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.EntryDeleteResultMessage} "Success"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/entries [delete]
func (h *EntryHandler) DeleteAll(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	ctx := c.Request.Context()

	deleted, err := h.App.EntryService.DeleteAll(ctx, uid)
	if err != nil {
		h.logError(ctx, "EntryHandler.DeleteAll", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(dto.EntryDeleteResultMessage{Deleted: deleted}))
}

// logError 记录错误日志，包含 Trace ID
func (h *EntryHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
