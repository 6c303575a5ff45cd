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

// PreferenceHandler user preference API router handler
// PreferenceHandler 用户偏好 API 路由处理器
// Uses App Container to inject dependencies
// 使用 App Container 注入依赖
type PreferenceHandler struct {
	*Handler
}

// NewPreferenceHandler creates PreferenceHandler instance
// NewPreferenceHandler 创建 PreferenceHandler 实例
func NewPreferenceHandler(a *app.App) *PreferenceHandler {
	return &PreferenceHandler{
		Handler: NewHandler(a),
	}
}

// Get retrieves one preference
// @Summary Get one preference
// @Description Get one preference by key; known keys fall back to their defaults when never written.
// @Description 按键获取一条偏好，已知键未写入时返回默认值。
// @Tags Preference
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.PreferenceGetRequest true "Get Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.PreferenceDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Unknown Key"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/preference [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.PreferenceGetRequest{}

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

	prefDTO, err := h.App.PreferenceService.Get(ctx, uid, params.Key)
	if err != nil {
		h.logError(ctx, "PreferenceHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(prefDTO))
}

// GetAll retrieves every preference of the current user
// @Summary Get all preferences
// @Description Get all preferences of the current user, with defaults for never-written keys.
// @Description 获取当前用户的全部偏好，未写入的键补默认值。
// @Tags Preference
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.PreferenceDTO} "Success"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/preferences [get]
func (h *PreferenceHandler) GetAll(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	ctx := c.Request.Context()

	prefs, err := h.App.PreferenceService.GetAll(ctx, uid)
	if err != nil {
		h.logError(ctx, "PreferenceHandler.GetAll", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(prefs))
}

// Set validates and persists one preference
// @Summary Set one preference
// @Description Validate and persist one preference; colors are stored as lowercase "#rrggbb" and languages as canonical BCP-47 tags.
// @Description 校验并写入一条偏好；颜色统一存储为小写 "#rrggbb"，语言存储为规范化 BCP-47 标签。
// @Tags Preference
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.PreferenceSetRequest true "Set Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.PreferenceDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Unknown Key / Invalid Value"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/preference [post]
func (h *PreferenceHandler) Set(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.PreferenceSetRequest{}

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

	prefDTO, err := h.App.PreferenceService.Set(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "PreferenceHandler.Set", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(prefDTO))
}

// Palette derives the theme palette for a base color
// @Summary Preview a theme palette
// @Description Derive the contrast foreground plus hover and pressed shades for an arbitrary base color without persisting anything.
// @Description 由任意基色派生对比前景色及悬停、按下两档明暗，不写入任何偏好。
// @Tags Preference
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.PaletteRequest true "Palette Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.PaletteDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Color"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /api/preference/palette [get]
func (h *PreferenceHandler) Palette(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.PaletteRequest{}

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

	palette, err := h.App.PreferenceService.Palette(params.Color)
	if err != nil {
		h.logError(c.Request.Context(), "PreferenceHandler.Palette", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(palette))
}

// logError 记录错误日志，包含 Trace ID
func (h *PreferenceHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
