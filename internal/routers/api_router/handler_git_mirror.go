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

// GitMirrorHandler git mirror API router handler
// GitMirrorHandler Git 镜像 API 路由处理器
// The journal is exported as per-day markdown files and pushed to the
// configured repository.
// 日记导出为按天 Markdown 文件并推送到配置的仓库
type GitMirrorHandler struct {
	*Handler
}

// NewGitMirrorHandler creates GitMirrorHandler instance
// NewGitMirrorHandler 创建 GitMirrorHandler 实例
func NewGitMirrorHandler(a *app.App) *GitMirrorHandler {
	return &GitMirrorHandler{
		Handler: NewHandler(a),
	}
}

// GetConfigs gets git mirror configurations
// @Summary Get git mirror configurations
// @Tags GitMirror
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.GitMirrorConfigDTO} "Success"
// @Failure 401 {object} pkgapp.Res "Token Required"
// @Router /api/git/configs [get]
func (h *GitMirrorHandler) GetConfigs(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	configs, err := h.App.GitMirrorService.GetConfigs(c.Request.Context(), uid)
	if err != nil {
		h.logError(c.Request.Context(), "GitMirrorHandler.GetConfigs", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(configs))
}

// UpdateConfig creates or updates git mirror configuration
// @Summary Create or update git mirror configuration
// @Description The branch defaults to main. An omitted password on update keeps the stored credential. Delay is the debounce in seconds after a journal change; 0 means manual-only.
// @Description 分支默认 main。更新时密码留空保留已存凭证。Delay 为日记变更后的防抖秒数，0 表示仅手动触发。
// @Tags GitMirror
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.GitMirrorConfigRequest true "Mirror Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.GitMirrorConfigDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params"
// @Failure 401 {object} pkgapp.Res "Token Required"
// @Router /api/git/config [post]
func (h *GitMirrorHandler) UpdateConfig(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.GitMirrorConfigRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	config, err := h.App.GitMirrorService.UpdateConfig(c.Request.Context(), uid, params)
	if err != nil {
		h.logError(c.Request.Context(), "GitMirrorHandler.UpdateConfig", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(config))
}

// DeleteConfig deletes git mirror configuration
// @Summary Delete git mirror configuration
// @Tags GitMirror
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Param params query dto.GitMirrorDeleteRequest true "Delete Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params / Config Not Found"
// @Failure 401 {object} pkgapp.Res "Token Required"
// @Router /api/git/config [delete]
func (h *GitMirrorHandler) DeleteConfig(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.GitMirrorDeleteRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	err := h.App.GitMirrorService.DeleteConfig(c.Request.Context(), uid, params.ID)
	if err != nil {
		h.logError(c.Request.Context(), "GitMirrorHandler.DeleteConfig", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Validate validates repository access
// @Summary Validate git repository credentials
// @Description Probe the remote repository with the given credentials and check that the target branch exists, without persisting anything.
// @Description 使用给定凭证探测远端仓库并检查目标分支是否存在，不写入任何配置。
// @Tags GitMirror
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.GitMirrorValidateRequest true "Validate Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Repository Unreachable / Branch Missing"
// @Failure 401 {object} pkgapp.Res "Token Required"
// @Router /api/git/validate [post]
func (h *GitMirrorHandler) Validate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.GitMirrorValidateRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	if err := h.App.GitMirrorService.Validate(c.Request.Context(), params); err != nil {
		h.logError(c.Request.Context(), "GitMirrorHandler.Validate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Execute triggers a mirror sync manually
// @Summary Trigger a mirror sync manually
// @Tags GitMirror
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.GitMirrorExecuteRequest true "Execute Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params / Sync Already Running"
// @Failure 401 {object} pkgapp.Res "Token Required"
// @Router /api/git/execute [post]
func (h *GitMirrorHandler) Execute(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.GitMirrorExecuteRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	err := h.App.GitMirrorService.ExecuteSync(c.Request.Context(), uid, params.ID)
	if err != nil {
		h.logError(c.Request.Context(), "GitMirrorHandler.Execute", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithDetails("Mirror sync started in background"))
}

// CleanWorkspace drops the local clone of one mirror
// @Summary Clean the local mirror workspace
// @Description Remove the local clone used by this mirror; the next sync re-clones from the remote.
// @Description 删除该镜像使用的本地克隆，下次同步会重新克隆远端仓库。
// @Tags GitMirror
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.GitMirrorExecuteRequest true "Clean Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 401 {object} pkgapp.Res "Token Required"
// @Router /api/git/clean [post]
func (h *GitMirrorHandler) CleanWorkspace(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.GitMirrorExecuteRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	if err := h.App.GitMirrorService.CleanWorkspace(c.Request.Context(), uid, params.ID); err != nil {
		h.logError(c.Request.Context(), "GitMirrorHandler.CleanWorkspace", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

func (h *GitMirrorHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
