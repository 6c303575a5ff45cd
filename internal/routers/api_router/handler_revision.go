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

// RevisionHandler entry revision API router handler
// RevisionHandler 条目历史版本 API 路由处理器
// Uses App Container to inject dependencies
// 使用 App Container 注入依赖
type RevisionHandler struct {
	*Handler
}

// NewRevisionHandler creates RevisionHandler instance
// NewRevisionHandler 创建 RevisionHandler 实例
func NewRevisionHandler(a *app.App) *RevisionHandler {
	return &RevisionHandler{
		Handler: NewHandler(a),
	}
}

// List retrieves revisions of one entry with pagination
// @Summary List entry revisions
// @Description List stored revisions of one entry, newest first.
// @Description 分页获取条目的历史版本，新在前。
// @Tags Revision
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.RevisionListRequest true "List Parameters"
// @Param pagination query pkgapp.PaginationRequest false "Pagination"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.RevisionDTO}} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Entry Not Found"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/revisions [get]
func (h *RevisionHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RevisionListRequest{}

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

	list, err := h.App.RevisionService.List(ctx, uid, params.Key, pkgapp.GetPage(c), pkgapp.GetPageSize(c))
	if err != nil {
		h.logError(ctx, "RevisionHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, list.List, int(list.Count))
}

// Get retrieves a single revision
// @Summary Get one entry revision
// @Description Get one stored revision by its ID, including the full text at that version.
// @Description 按ID获取一个历史版本，包含该版本的全文。
// @Tags Revision
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.RevisionGetRequest true "Get Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.RevisionDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Revision Not Found"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/revision [get]
func (h *RevisionHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RevisionGetRequest{}

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

	revisionDTO, err := h.App.RevisionService.Get(ctx, uid, params.ID)
	if err != nil {
		h.logError(ctx, "RevisionHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(revisionDTO))
}

// Restore restores an entry's text to a stored revision
// @Summary Restore an entry to a revision
// @Description Replace the entry's text with the revision text; the restore itself records a new revision and bumps the revision counter.
// @Description 将条目文本替换为历史版本的文本；恢复本身也会记录新版本并递增修订计数。
// @Tags Revision
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.RevisionRestoreRequest true "Restore Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.EntryDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Revision Not Found"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/revision/restore [put]
func (h *RevisionHandler) Restore(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RevisionRestoreRequest{}

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

	entryDTO, err := h.App.RevisionService.Restore(ctx, uid, params.ID)
	if err != nil {
		h.logError(ctx, "RevisionHandler.Restore", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(entryDTO))
}

// logError 记录错误日志，包含 Trace ID
func (h *RevisionHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
