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

// StorageHandler backup target storage API router handler
// StorageHandler 备份目标存储 API 路由处理器
type StorageHandler struct {
	*Handler
}

// NewStorageHandler creates StorageHandler instance
// NewStorageHandler 创建 StorageHandler 实例
func NewStorageHandler(a *app.App) *StorageHandler {
	return &StorageHandler{
		Handler: NewHandler(a),
	}
}

// CreateOrUpdate creates or updates storage configuration
// @Summary Create or update storage configuration
// @Description Create a backup target storage configuration, or update one when id is set. Archives and mirrored day files ship to these targets.
// @Description 创建备份目标存储配置，id 非 0 时更新。备份归档与镜像的按天文件上传到这些目标。
// @Tags Storage
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.StoragePostRequest true "Storage Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.StorageDTO} "Success"
// @Router /api/storage [post]
func (h *StorageHandler) CreateOrUpdate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.StoragePostRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.App.Logger().Error("StorageHandler.CreateOrUpdate.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	storage, err := h.App.StorageService.CreateOrUpdate(c.Request.Context(), uid, params.ID, params.Storage)
	if err != nil {
		h.logError(c.Request.Context(), "StorageHandler.CreateOrUpdate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(storage))
}

// Get gets a single storage configuration
// @Summary Get one storage configuration
// @Tags Storage
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.StorageGetRequest true "Get Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.StorageDTO} "Success"
// @Router /api/storage/config [get]
func (h *StorageHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.StorageGetRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	storage, err := h.App.StorageService.Get(c.Request.Context(), uid, params.ID)
	if err != nil {
		h.logError(c.Request.Context(), "StorageHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(storage))
}

// List gets storage configuration list
// @Summary Get storage configuration list
// @Tags Storage
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.StorageDTO} "Success"
// @Router /api/storage [get]
func (h *StorageHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	list, err := h.App.StorageService.List(c.Request.Context(), uid)
	if err != nil {
		h.logError(c.Request.Context(), "StorageHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}

// Delete deletes storage configuration
// @Summary Delete storage configuration
// @Tags Storage
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.StorageDeleteRequest true "Delete Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Router /api/storage [delete]
func (h *StorageHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.StorageDeleteRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	err := h.App.StorageService.Delete(c.Request.Context(), uid, params.ID)
	if err != nil {
		h.logError(c.Request.Context(), "StorageHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// EnabledTypes gets enabled storage types
// @Summary Get enabled storage types
// @Description Get list of storage types enabled on this server. Possible values: localfs, oss, s3, r2, minio, webdav
// @Tags Storage
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]string} "Success"
// @Router /api/storage/enabled_types [get]
func (h *StorageHandler) EnabledTypes(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	response.ToResponse(code.Success.WithData(h.App.StorageService.GetEnabledTypes()))
}

func (h *StorageHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
