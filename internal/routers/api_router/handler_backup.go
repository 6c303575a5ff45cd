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

// BackupHandler journal backup API router handler
// BackupHandler 日记备份 API 路由处理器
type BackupHandler struct {
	*Handler
}

// NewBackupHandler creates BackupHandler instance
// NewBackupHandler 创建 BackupHandler 实例
func NewBackupHandler(a *app.App) *BackupHandler {
	return &BackupHandler{
		Handler: NewHandler(a),
	}
}

// GetConfigs gets backup configurations
// @Summary Get backup configurations
// @Tags Backup
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.BackupConfigDTO} "Success"
// @Failure 401 {object} pkgapp.Res "Token Required"
// @Router /api/backup/configs [get]
func (h *BackupHandler) GetConfigs(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	configs, err := h.App.BackupService.GetConfigs(c.Request.Context(), uid)
	if err != nil {
		h.logError(c.Request.Context(), "BackupHandler.GetConfigs", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(configs))
}

// UpdateConfig creates or updates backup configuration
// @Summary Create or update backup configuration
// @Description Backup types: full (zip archive of every day file), incremental (archive only when changed since the last run), sync (mirror day files to storage, debounced after each change).
// @Description 备份类型：full（全量按天文件打包）、incremental（自上次运行有变更才打包）、sync（按天文件镜像到存储，变更后防抖执行）。
// @Tags Backup
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.BackupConfigRequest true "Backup Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.BackupConfigDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params / Invalid Cron / Unknown Storage"
// @Failure 401 {object} pkgapp.Res "Token Required"
// @Router /api/backup/config [post]
func (h *BackupHandler) UpdateConfig(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.BackupConfigRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	config, err := h.App.BackupService.UpdateConfig(c.Request.Context(), uid, params)
	if err != nil {
		h.logError(c.Request.Context(), "BackupHandler.UpdateConfig", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(config))
}

// DeleteConfig deletes backup configuration
// @Summary Delete backup configuration
// @Tags Backup
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.BackupDeleteRequest true "Delete Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params / Config Not Found"
// @Failure 401 {object} pkgapp.Res "Token Required"
// @Router /api/backup/config [delete]
func (h *BackupHandler) DeleteConfig(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.BackupDeleteRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	err := h.App.BackupService.DeleteConfig(c.Request.Context(), uid, params.ID)
	if err != nil {
		h.logError(c.Request.Context(), "BackupHandler.DeleteConfig", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// ListHistory gets backup history list
// @Summary Get backup history list
// @Tags Backup
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.BackupHistoryListRequest true "Backup History List Parameters"
// @Param pagination query pkgapp.PaginationRequest false "Pagination"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.BackupHistoryDTO}} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params"
// @Failure 401 {object} pkgapp.Res "Token Required"
// @Router /api/backup/historys [get]
func (h *BackupHandler) ListHistory(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.BackupHistoryListRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	pager := pkgapp.NewPager(c, 0)
	list, total, err := h.App.BackupService.ListHistory(c.Request.Context(), uid, params.ConfigID, pager)
	if err != nil {
		h.logError(c.Request.Context(), "BackupHandler.ListHistory", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, list, int(total))
}

// Execute triggers a backup manually
// @Summary Trigger a backup manually
// @Description Run the configured backup immediately in the background, regardless of its schedule.
// @Description 立即在后台执行该备份配置，忽略定时策略。
// @Tags Backup
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.BackupExecuteRequest true "Backup Execute Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params / Config Disabled"
// @Failure 401 {object} pkgapp.Res "Token Required"
// @Router /api/backup/execute [post]
func (h *BackupHandler) Execute(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.BackupExecuteRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	err := h.App.BackupService.ExecuteUserBackup(c.Request.Context(), uid, params.ID)
	if err != nil {
		h.logError(c.Request.Context(), "BackupHandler.Execute", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithDetails("Backup started in background"))
}

func (h *BackupHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
