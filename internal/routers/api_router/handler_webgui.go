package api_router

import (
	"net/http"

	"github.com/IxSyZ/my-life-diary/internal/app"
	pkgapp "github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/code"

	"github.com/gin-gonic/gin"
)

// WebGUIHandler PWA frontend configuration API router handler
// WebGUIHandler PWA 前端配置 API 路由处理器
// Uses App Container to inject dependencies
// 使用 App Container 注入依赖
type WebGUIHandler struct {
	*Handler
}

// NewWebGUIHandler creates WebGUIHandler instance
// NewWebGUIHandler 创建 WebGUIHandler 实例
func NewWebGUIHandler(a *app.App) *WebGUIHandler {
	return &WebGUIHandler{
		Handler: NewHandler(a),
	}
}

// webGUIConfig WebGUI configuration response structure (public interface)
// webGUIConfig WebGUI 配置响应结构（公开接口）
type webGUIConfig struct {
	ThemeColor       string `json:"themeColor"`       // Default theme base color // 默认主题基色
	BackgroundColor  string `json:"backgroundColor"`  // Manifest background color // manifest 背景色
	ShortName        string `json:"shortName"`        // Manifest short name // manifest 短名称
	RegisterIsEnable bool   `json:"registerIsEnable"` // Registration enablement // 是否开启注册
	GuestIsEnable    bool   `json:"guestIsEnable"`    // Guest sign-in enablement // 是否开启访客登录
	SpeechIsEnable   bool   `json:"speechIsEnable"`   // Speech capability configured // 语音转写能力是否已配置
	AdminUID         int    `json:"adminUid"`         // Admin UID // 管理员 UID
}

// manifestIcon one icon item of the web app manifest
type manifestIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose,omitempty"`
}

// webManifest PWA manifest rendered per request so theme edits apply
// without rebuilding the frontend.
// webManifest 按请求渲染的 PWA manifest，主题调整无需重新构建前端
type webManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	ThemeColor      string         `json:"theme_color"`
	BackgroundColor string         `json:"background_color"`
	Icons           []manifestIcon `json:"icons"`
}

// Config retrieves WebGUI configuration (public interface)
// @Summary Get WebGUI basic config
// @Description Get non-sensitive configuration required for frontend display: theme colors, registration and guest toggles, speech availability.
// @Description 获取前端展示所需的非敏感配置：主题颜色、注册与访客开关、语音能力可用性。
// @Tags Config
// @Produce json
// @Success 200 {object} pkgapp.Res{data=webGUIConfig} "Success"
// @Router /api/webgui/config [get]
func (h *WebGUIHandler) Config(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	cfg := h.App.Config()
	data := webGUIConfig{
		ThemeColor:       cfg.WebGUI.ThemeColor,
		BackgroundColor:  cfg.WebGUI.BackgroundColor,
		ShortName:        cfg.WebGUI.ShortName,
		RegisterIsEnable: cfg.User.RegisterIsEnable,
		GuestIsEnable:    cfg.User.GuestIsEnable,
		SpeechIsEnable:   cfg.Speech.Endpoint != "",
		AdminUID:         cfg.User.AdminUID,
	}
	response.ToResponse(code.Success.WithData(data))
}

// Manifest renders the web app manifest
// @Summary Get the PWA manifest
// @Description Render the web app manifest with the configured theme and background colors.
// @Description 按配置的主题色与背景色渲染 PWA manifest。
// @Tags Config
// @Produce json
// @Success 200 {object} webManifest "Success"
// @Router /manifest.webmanifest [get]
func (h *WebGUIHandler) Manifest(c *gin.Context) {
	cfg := h.App.Config()

	manifest := webManifest{
		Name:            app.Name,
		ShortName:       cfg.WebGUI.ShortName,
		StartURL:        "/",
		Display:         "standalone",
		ThemeColor:      cfg.WebGUI.ThemeColor,
		BackgroundColor: cfg.WebGUI.BackgroundColor,
		Icons: []manifestIcon{
			{Src: "/static/icon-192.png", Sizes: "192x192", Type: "image/png"},
			{Src: "/static/icon-512.png", Sizes: "512x512", Type: "image/png"},
			{Src: "/static/icon-512.png", Sizes: "512x512", Type: "image/png", Purpose: "maskable"},
		},
	}

	c.Header("Content-Type", "application/manifest+json; charset=utf-8")
	c.JSON(http.StatusOK, manifest)
}
