package routers

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	_ "github.com/IxSyZ/my-life-diary/docs"
	"github.com/IxSyZ/my-life-diary/internal/app"
	"github.com/IxSyZ/my-life-diary/internal/middleware"
	"github.com/IxSyZ/my-life-diary/internal/routers/api_router"
	"github.com/IxSyZ/my-life-diary/internal/routers/websocket_router"
	"github.com/IxSyZ/my-life-diary/internal/service"
	pkgapp "github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/lxzan/gws"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/auth",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
)

func NewRouter(frontendFiles embed.FS, appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	var wss = pkgapp.NewWebsocketServer(pkgapp.WebsocketServerConfig{
		GWSOption: gws.ServerOption{
			CheckUtf8Enabled:    true,
			ParallelEnabled:     true,                                 // 开启并行消息处理
			Recovery:            gws.Recovery,                         // 开启异常恢复
			PermessageDeflate:   gws.PermessageDeflate{Enabled: true}, // 开启压缩
			ParallelGolimit:     8,
			ReadMaxPayloadSize:  1024 * 1024 * 64, // 设置最大读取缓冲区大小 64MB
			WriteMaxPayloadSize: 1024 * 1024 * 64, // 设置最大写入缓冲区大小 64MB
		},
		IsReturnSuccess: appContainer.IsReturnSuccess(),
	})

	// 认证：token 解析 + 用户有效性验证
	wss.AuthParseUse(appContainer.TokenManager.Parse)
	wss.UserDataSelectUse(func(c *pkgapp.WebsocketClient, uid int64) (*pkgapp.UserSelectEntity, error) {
		user, err := appContainer.UserService.GetInfo(c.Context(), uid)
		if err != nil {
			return nil, err
		}
		return &pkgapp.UserSelectEntity{
			UID:      user.UID,
			Email:    user.Email,
			Nickname: user.Nickname,
			Avatar:   user.Avatar,
		}, nil
	})

	// 创建 WebSocket Handlers（注入 App Container）
	entryWSHandler := websocket_router.NewEntryWSHandler(appContainer)
	journalWSHandler := websocket_router.NewJournalWSHandler(appContainer)
	recordingWSHandler := websocket_router.NewRecordingWSHandler(appContainer)

	// 条目同步
	wss.Use("EntrySync", entryWSHandler.EntrySync)
	wss.Use("EntryModify", entryWSHandler.EntryModify)
	wss.Use("EntryDelete", entryWSHandler.EntryDelete)
	wss.Use("EntryDeleteAll", entryWSHandler.EntryDeleteAll)

	// 分组视图
	wss.Use("JournalView", journalWSHandler.JournalView)
	wss.Use("JournalToggle", journalWSHandler.JournalToggle)

	// 录音控制，音频分块走二进制帧
	wss.Use("RecordingStart", recordingWSHandler.RecordingStart)
	wss.Use("RecordingStop", recordingWSHandler.RecordingStop)
	wss.Use("RecordingLanguage", recordingWSHandler.RecordingLanguage)
	wss.Use("RecordingClearError", recordingWSHandler.RecordingClearError)
	wss.UseBinary(recordingWSHandler.HandleAudioChunk)

	// 认证完成即推送权威快照，连接关闭时清理会话状态
	wss.OnAuthedUse(entryWSHandler.PushSnapshot)
	wss.OnCloseUse(journalWSHandler.CloseSession)
	wss.OnCloseUse(recordingWSHandler.CloseSession)

	// 任意来源的条目变更都向该用户的全部活跃连接广播新快照
	service.RegisterEntryChangeListener(func(uid int64) {
		for _, client := range wss.UserClientsOf(uid) {
			entryWSHandler.PushSnapshot(client)
		}
	})

	frontendAssets, _ := fs.Sub(frontendFiles, "frontend/assets")
	frontendStatic, _ := fs.Sub(frontendFiles, "frontend/static")
	frontendIndexContent, _ := frontendFiles.ReadFile("frontend/index.html")
	frontendSWContent, _ := frontendFiles.ReadFile("frontend/sw.js")

	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", frontendIndexContent)
	})
	// PWA Service Worker 必须从根路径提供以获得全站 scope
	r.GET("/sw.js", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/javascript; charset=utf-8", frontendSWContent)
	})

	cacheMiddleware := func(c *gin.Context) {
		// 设置强缓存，缓存一年
		c.Header("Cache-Control", "public, s-maxage=31536000, max-age=31536000, must-revalidate")
		c.Next()
	}

	r.Group("/assets", cacheMiddleware).StaticFS("/", http.FS(frontendAssets))
	r.Group("/static", cacheMiddleware).StaticFS("/", http.FS(frontendStatic))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 创建 Handlers（注入 App Container）
	userHandler := api_router.NewUserHandler(appContainer)
	entryHandler := api_router.NewEntryHandler(appContainer, wss)
	journalHandler := api_router.NewJournalHandler(appContainer)
	revisionHandler := api_router.NewRevisionHandler(appContainer)
	preferenceHandler := api_router.NewPreferenceHandler(appContainer)
	storageHandler := api_router.NewStorageHandler(appContainer)
	backupHandler := api_router.NewBackupHandler(appContainer)
	gitMirrorHandler := api_router.NewGitMirrorHandler(appContainer)
	healthHandler := api_router.NewHealthHandler(appContainer)
	versionHandler := api_router.NewVersionHandler(appContainer)
	webGUIHandler := api_router.NewWebGUIHandler(appContainer)
	adminHandler := api_router.NewAdminControlHandler(appContainer)

	// PWA manifest，路径由前端注册，不挂在 /api 下
	r.GET("/manifest.webmanifest", webGUIHandler.Manifest)

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfo(appContainer.Version().Version))
		api.Use(gin.Logger())
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.Metrics())
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLog())
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		api.POST("/user/register", userHandler.Register)
		api.POST("/user/login", userHandler.Login)
		api.POST("/user/guest", userHandler.Guest)
		api.GET("/user/sync", wss.Run())

		// 无需认证的公共接口
		api.GET("/version", versionHandler.ServerVersion)
		api.GET("/health", healthHandler.Check)
		api.GET("/webgui/config", webGUIHandler.Config)
		api.GET("/storage/enabled_types", storageHandler.EnabledTypes)

		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/user/change_password", userHandler.UserChangePassword)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/user/info", userHandler.UserInfo)

		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/entry", entryHandler.Get)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/entry", entryHandler.CreateOrUpdate)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).DELETE("/entry", entryHandler.Delete)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).DELETE("/entries", entryHandler.DeleteAll)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/entries", entryHandler.List)

		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/journal", journalHandler.View)

		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/revision", revisionHandler.Get)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/revisions", revisionHandler.List)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).PUT("/revision/restore", revisionHandler.Restore)

		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/preference", preferenceHandler.Get)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/preferences", preferenceHandler.GetAll)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/preference", preferenceHandler.Set)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/preference/palette", preferenceHandler.Palette)

		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/storage", storageHandler.Get)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/storages", storageHandler.List)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/storage", storageHandler.CreateOrUpdate)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).DELETE("/storage", storageHandler.Delete)

		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/backup/configs", backupHandler.GetConfigs)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/backup/config", backupHandler.UpdateConfig)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).DELETE("/backup/config", backupHandler.DeleteConfig)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/backup/histories", backupHandler.ListHistory)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/backup/execute", backupHandler.Execute)

		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/git/configs", gitMirrorHandler.GetConfigs)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/git/config", gitMirrorHandler.UpdateConfig)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).DELETE("/git/config", gitMirrorHandler.DeleteConfig)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/git/validate", gitMirrorHandler.Validate)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/git/execute", gitMirrorHandler.Execute)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/git/clean", gitMirrorHandler.CleanWorkspace)

		// 管理员配置接口
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/admin/config", adminHandler.GetConfig)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/admin/config", adminHandler.UpdateConfig)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/admin/ngrok", adminHandler.GetNgrokConfig)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/admin/ngrok", adminHandler.UpdateNgrokConfig)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).GET("/admin/system", adminHandler.GetSystemInfo)
		api.Use(middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey)).POST("/admin/gc", adminHandler.GC)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
