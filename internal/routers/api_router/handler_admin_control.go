package api_router

import (
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/app"
	pkgapp "github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	"github.com/IxSyZ/my-life-diary/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

// AdminControlHandler Admin control configuration API router handler
// AdminControlHandler 管理控制配置 API 路由处理器
// Uses App Container to inject dependencies
// 使用 App Container 注入依赖
type AdminControlHandler struct {
	*Handler
}

// NewAdminControlHandler creates AdminControlHandler instance
// NewAdminControlHandler 创建 AdminControlHandler 实例
func NewAdminControlHandler(a *app.App) *AdminControlHandler {
	return &AdminControlHandler{
		Handler: NewHandler(a),
	}
}

// adminConfig Admin configuration structure (admin interface)
// adminConfig 管理员配置结构（管理员接口）
type adminConfig struct {
	ThemeColor          string `json:"themeColor" form:"themeColor"`                             // Default theme base color // 默认主题基色
	BackgroundColor     string `json:"backgroundColor" form:"backgroundColor"`                   // Manifest background color // manifest 背景色
	ShortName           string `json:"shortName" form:"shortName"`                               // Manifest short name // manifest 短名称
	RegisterIsEnable    bool   `json:"registerIsEnable" form:"registerIsEnable"`                 // Registration enablement // 是否开启注册
	GuestIsEnable       bool   `json:"guestIsEnable" form:"guestIsEnable"`                       // Guest sign-in enablement // 是否开启访客登录
	AdminUID            int    `json:"adminUid" form:"adminUid"`                                 // Admin UID // 管理员 UID
	AuthTokenKey        string `json:"authTokenKey" form:"authTokenKey"`                         // Auth token key // 认证 Token 密钥
	TokenExpiry         string `json:"tokenExpiry" form:"tokenExpiry"`                           // Token expiry // Token 有效期
	RevisionKeepCount   int    `json:"revisionKeepCount,omitempty" form:"revisionKeepCount"`     // Revisions to keep per entry // 每条目保留的历史版本数
	RecordingMaxAge     string `json:"recordingMaxAge,omitempty" form:"recordingMaxAge"`         // Recording session max age // 录音会话最长时长
	RecordingIdleTimeout string `json:"recordingIdleTimeout,omitempty" form:"recordingIdleTimeout"` // Recording idle timeout // 录音空闲超时
}

// ngrokConfig Ngrok tunnel configuration
// ngrokConfig Ngrok 隧道配置
type ngrokConfig struct {
	Enabled   bool   `json:"enabled" form:"enabled"`     // Whether to enable ngrok tunnel // 是否启用 ngrok 隧道
	AuthToken string `json:"authToken" form:"authToken"` // ngrok auth token // ngrok 认证令牌
	Domain    string `json:"domain" form:"domain"`       // Custom domain // 自定义域名
	TunnelURL string `json:"tunnelUrl,omitempty"`        // Active tunnel URL, read-only // 当前隧道地址（只读）
}

// SystemInfo system information response structure
// SystemInfo 系统信息响应结构
type SystemInfo struct {
	StartTime     time.Time   `json:"startTime"`     // Start time // 启动时间
	Uptime        float64     `json:"uptime"`        // Uptime (seconds) // 运行时间（秒）
	RuntimeStatus RuntimeInfo `json:"runtimeStatus"` // Go runtime status // Go 运行时状态
	CPU           CPUInfo     `json:"cpu"`           // CPU information // CPU 信息
	Memory        MemoryInfo  `json:"memory"`        // Memory information // 内存信息
	Host          HostInfo    `json:"host"`          // Host information // 主机信息
	Process       ProcessInfo `json:"process"`       // Process information // 进程信息
}

// CPUInfo CPU information
// CPUInfo CPU 信息
type CPUInfo struct {
	ModelName     string    `json:"modelName"`     // Model name // 型号
	PhysicalCores int       `json:"physicalCores"` // Physical cores // 物理核心数
	LogicalCores  int       `json:"logicalCores"`  // Logical cores // 逻辑核心数
	Percent       []float64 `json:"percent"`       // Usage percentage per core // 每个核心的使用率
	LoadAvg       *LoadInfo `json:"loadAvg"`       // Load average // 平均负载
}

// LoadInfo system load information
type LoadInfo struct {
	Load1  float64 `json:"load1"`
	Load5  float64 `json:"load5"`
	Load15 float64 `json:"load15"`
}

// MemoryInfo memory information
type MemoryInfo struct {
	Total           uint64  `json:"total"`           // Total physical memory // 系统总内存
	Available       uint64  `json:"available"`       // Available memory // 可用内存
	Used            uint64  `json:"used"`            // Used memory // 已用内存
	UsedPercent     float64 `json:"usedPercent"`     // Memory usage percentage // 内存使用率
	SwapTotal       uint64  `json:"swapTotal"`       // Total swap space // 交换区总量
	SwapUsed        uint64  `json:"swapUsed"`        // Used swap space // 交换区已用
	SwapUsedPercent float64 `json:"swapUsedPercent"` // Swap usage percentage // 交换区使用率
}

// HostInfo host identification information
type HostInfo struct {
	Hostname       string    `json:"hostname"`       // Hostname // 主机名
	OS             string    `json:"os"`             // Operating system // 操作系统
	OSPretty       string    `json:"osPretty"`       // Detailed OS name // 详细操作系统名称
	Platform       string    `json:"platform"`       // Platform name // 平台
	Arch           string    `json:"arch"`           // Architecture // 架构
	KernelVersion  string    `json:"kernelVersion"`  // Kernel version // 内核版本
	Uptime         uint64    `json:"uptime"`         // System uptime // 系统运行时间
	CurrentTime    time.Time `json:"currentTime"`    // Current system time // 当前系统时间
	TimeZone       string    `json:"timezone"`       // Time zone name // 时区名称
	TimeZoneOffset int       `json:"timezoneOffset"` // Time zone offset in seconds // 时区偏移（秒）
}

// ProcessInfo current process information
type ProcessInfo struct {
	PID           int32   `json:"pid"`           // Process ID
	PPID          int32   `json:"ppid"`          // Parent Process ID
	Name          string  `json:"name"`          // Process Name
	CPUPercent    float64 `json:"cpuPercent"`    // CPU Usage percentage
	MemoryPercent float32 `json:"memoryPercent"` // Memory Usage percentage
}

// RuntimeInfo Go runtime information
// RuntimeInfo Go 运行时信息
type RuntimeInfo struct {
	NumGoroutine int    `json:"numGoroutine"` // Number of goroutines // Goroutine 数量
	MemAlloc     uint64 `json:"memAlloc"`     // Allocated memory (bytes) // 已分配内存（字节）
	MemTotal     uint64 `json:"memTotal"`     // Total memory allocated (bytes) // 累计分配内存（字节）
	MemSys       uint64 `json:"memSys"`       // Memory obtained from system (bytes) // 从系统获取的内存（字节）
	HeapSys      uint64 `json:"heapSys"`      // Memory obtained from system for heap (bytes) // 堆占用的系统内存
	HeapIdle     uint64 `json:"heapIdle"`     // Memory in idle spans (bytes) // 空闲 Span 占用的内存
	HeapInuse    uint64 `json:"heapInuse"`    // Memory in in-use spans (bytes) // 正在使用的 Span 占用的内存
	HeapReleased uint64 `json:"heapReleased"` // Memory released to OS (bytes) // 释放回操作系统的内存（字节）
	StackSys     uint64 `json:"stackSys"`     // Memory obtained from system for stack (bytes) // 栈占用的系统内存
	GCSys        uint64 `json:"gcSys"`        // Memory obtained from system for metadata for GC (bytes) // GC 元数据占用的系统内存
	NextGC       uint64 `json:"nextGc"`       // Target heap size for the next GC cycle // 下次 GC 的目标堆大小
	NumGC        uint32 `json:"numGc"`        // Number of completed GC cycles // GC 次数
}

// requireAdmin 校验管理员权限，未通过时已写出响应
func (h *AdminControlHandler) requireAdmin(c *gin.Context, response *pkgapp.Response) bool {
	cfg := h.App.Config()

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorInvalidAuthToken)
		return false
	}

	// Deny access if AdminUID is configured and current user is not an admin
	// 当配置了管理员 UID 且当前用户不是管理员时，拒绝访问
	if cfg.User.AdminUID != 0 && uid != int64(cfg.User.AdminUID) {
		response.ToResponse(code.ErrorUserIsNotAdmin)
		return false
	}
	return true
}

// GetConfig retrieves admin configuration (requires admin privileges)
// @Summary Get full admin config
// @Description Get full system configuration information, requires admin privileges
// @Tags Config
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=adminConfig} "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/config [get]
func (h *AdminControlHandler) GetConfig(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	if !h.requireAdmin(c, response) {
		return
	}
	cfg := h.App.Config()

	data := &adminConfig{
		ThemeColor:           cfg.WebGUI.ThemeColor,
		BackgroundColor:      cfg.WebGUI.BackgroundColor,
		ShortName:            cfg.WebGUI.ShortName,
		RegisterIsEnable:     cfg.User.RegisterIsEnable,
		GuestIsEnable:        cfg.User.GuestIsEnable,
		AdminUID:             cfg.User.AdminUID,
		AuthTokenKey:         cfg.Security.AuthTokenKey,
		TokenExpiry:          cfg.Security.TokenExpiry,
		RevisionKeepCount:    cfg.App.RevisionKeepCount,
		RecordingMaxAge:      cfg.App.RecordingMaxAge,
		RecordingIdleTimeout: cfg.App.RecordingIdleTimeout,
	}

	response.ToResponse(code.Success.WithData(data))
}

// UpdateConfig updates admin configuration (requires admin privileges)
// @Summary Update admin config
// @Description Modify full system configuration information, requires admin privileges
// @Tags Config
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body adminConfig true "Config Parameters"
// @Success 200 {object} pkgapp.Res{data=adminConfig} "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/config [post]
func (h *AdminControlHandler) UpdateConfig(c *gin.Context) {
	params := &adminConfig{}
	response := pkgapp.NewResponse(c)
	cfg := h.App.Config()
	logger := h.App.Logger()

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		logger.Error("AdminControlHandler.UpdateConfig.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	if !h.requireAdmin(c, response) {
		return
	}

	// 历史版本保留数过小会让恢复功能形同虚设
	if params.RevisionKeepCount != 0 && params.RevisionKeepCount < 10 {
		logger.Warn("AdminControlHandler.UpdateConfig invalid revisionKeepCount",
			zap.Int("value", params.RevisionKeepCount))
		response.ToResponse(code.ErrorInvalidParams.WithDetails("revisionKeepCount must be at least 10"))
		return
	}

	for _, d := range []struct {
		name  string
		value string
	}{
		{"recordingMaxAge", params.RecordingMaxAge},
		{"recordingIdleTimeout", params.RecordingIdleTimeout},
	} {
		if d.value == "" {
			continue
		}
		if _, err := util.ParseDuration(d.value); err != nil {
			logger.Warn("AdminControlHandler.UpdateConfig invalid duration",
				zap.String("field", d.name),
				zap.String("value", d.value))
			response.ToResponse(code.ErrorInvalidParams.WithDetails(d.name + " format invalid, e.g. 30s, 10m"))
			return
		}
	}

	// Update configuration
	// 更新配置
	cfg.WebGUI.ThemeColor = params.ThemeColor
	cfg.WebGUI.BackgroundColor = params.BackgroundColor
	cfg.WebGUI.ShortName = params.ShortName
	cfg.User.RegisterIsEnable = params.RegisterIsEnable
	cfg.User.GuestIsEnable = params.GuestIsEnable
	cfg.User.AdminUID = params.AdminUID
	cfg.Security.AuthTokenKey = params.AuthTokenKey
	cfg.Security.TokenExpiry = params.TokenExpiry
	if params.RevisionKeepCount != 0 {
		cfg.App.RevisionKeepCount = params.RevisionKeepCount
	}
	if params.RecordingMaxAge != "" {
		cfg.App.RecordingMaxAge = params.RecordingMaxAge
	}
	if params.RecordingIdleTimeout != "" {
		cfg.App.RecordingIdleTimeout = params.RecordingIdleTimeout
	}

	// Save configuration to file
	// 保存配置到文件
	if err := cfg.Save(); err != nil {
		logger.Error("AdminControlHandler.UpdateConfig.Save err", zap.Error(err))
		response.ToResponse(code.ErrorConfigSaveFailed)
		return
	}

	response.ToResponse(code.Success.WithData(params))
}

// GetNgrokConfig retrieves Ngrok tunnel configuration (requires admin privileges)
// @Summary Get Ngrok config
// @Description Get Ngrok tunnel configuration and the active tunnel URL, requires admin privileges
// @Tags Config
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=ngrokConfig} "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/config/ngrok [get]
func (h *AdminControlHandler) GetNgrokConfig(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	if !h.requireAdmin(c, response) {
		return
	}
	cfg := h.App.Config()

	data := &ngrokConfig{
		Enabled:   cfg.Ngrok.IsEnabled,
		AuthToken: cfg.Ngrok.AuthToken,
		Domain:    cfg.Ngrok.Domain,
		TunnelURL: h.App.NgrokService.TunnelURL(),
	}

	response.ToResponse(code.Success.WithData(data))
}

// UpdateNgrokConfig updates Ngrok tunnel configuration (requires admin privileges)
// @Summary Update Ngrok config
// @Description Modify Ngrok tunnel configuration; a restart applies the change. Requires admin privileges
// @Tags Config
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body ngrokConfig true "Config Parameters"
// @Success 200 {object} pkgapp.Res{data=ngrokConfig} "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/config/ngrok [post]
func (h *AdminControlHandler) UpdateNgrokConfig(c *gin.Context) {
	params := &ngrokConfig{}
	response := pkgapp.NewResponse(c)
	cfg := h.App.Config()
	logger := h.App.Logger()

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		logger.Error("AdminControlHandler.UpdateNgrokConfig.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	if !h.requireAdmin(c, response) {
		return
	}

	cfg.Ngrok.IsEnabled = params.Enabled
	cfg.Ngrok.AuthToken = params.AuthToken
	cfg.Ngrok.Domain = params.Domain

	if err := cfg.Save(); err != nil {
		logger.Error("AdminControlHandler.UpdateNgrokConfig.Save err", zap.Error(err))
		response.ToResponse(code.ErrorConfigSaveFailed)
		return
	}

	response.ToResponse(code.Success.WithData(params))
}

// GetSystemInfo retrieves system and runtime information (requires admin privileges)
// @Summary Get system and runtime info
// @Description Get system information and Go runtime data, requires admin privileges
// @Tags System
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=SystemInfo} "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/systeminfo [get]
func (h *AdminControlHandler) GetSystemInfo(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	if !h.requireAdmin(c, response) {
		return
	}

	// Go Runtime
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	// CPU
	cpuInfoList, _ := cpu.Info()
	cpuModel := ""
	if len(cpuInfoList) > 0 {
		cpuModel = cpuInfoList[0].ModelName
	}
	physCores, _ := cpu.Counts(false)
	logicCores, _ := cpu.Counts(true)
	cpuPercents, _ := cpu.Percent(time.Second, true)
	loadStat, _ := load.Avg()

	// Memory
	vMem, _ := mem.VirtualMemory()
	swapMem, _ := mem.SwapMemory()

	// Host
	hInfo, _ := host.Info()

	// Process
	p, _ := process.NewProcess(int32(os.Getpid()))
	pName, _ := p.Name()
	pPPid, _ := p.Ppid()
	pCPU, _ := p.CPUPercent()
	pMem, _ := p.MemoryPercent()

	data := SystemInfo{
		StartTime: h.App.StartTime,
		Uptime:    time.Since(h.App.StartTime).Seconds(),
		RuntimeStatus: RuntimeInfo{
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     m.Alloc,
			MemTotal:     m.TotalAlloc,
			MemSys:       m.Sys,
			HeapSys:      m.HeapSys,
			HeapIdle:     m.HeapIdle,
			HeapInuse:    m.HeapInuse,
			HeapReleased: m.HeapReleased,
			StackSys:     m.StackSys,
			GCSys:        m.GCSys,
			NextGC:       m.NextGC,
			NumGC:        m.NumGC,
		},
		CPU: CPUInfo{
			ModelName:     cpuModel,
			PhysicalCores: physCores,
			LogicalCores:  logicCores,
			Percent:       cpuPercents,
			LoadAvg: &LoadInfo{
				Load1:  loadStat.Load1,
				Load5:  loadStat.Load5,
				Load15: loadStat.Load15,
			},
		},
		Memory: MemoryInfo{
			Total:           vMem.Total,
			Available:       vMem.Available,
			Used:            vMem.Used,
			UsedPercent:     vMem.UsedPercent,
			SwapTotal:       swapMem.Total,
			SwapUsed:        swapMem.Used,
			SwapUsedPercent: swapMem.UsedPercent,
		},
		Host: HostInfo{
			Hostname:      hInfo.Hostname,
			OS:            hInfo.OS,
			OSPretty:      util.GetOSPrettyName(),
			Platform:      hInfo.Platform,
			Arch:          hInfo.KernelArch,
			KernelVersion: hInfo.KernelVersion,
			Uptime:        hInfo.Uptime,
			CurrentTime:   time.Now(),
			TimeZone:      time.Now().Location().String(),
			TimeZoneOffset: func() int {
				_, offset := time.Now().Zone()
				return offset
			}(),
		},
		Process: ProcessInfo{
			PID:           p.Pid,
			PPID:          pPPid,
			Name:          pName,
			CPUPercent:    pCPU,
			MemoryPercent: pMem,
		},
	}

	response.ToResponse(code.Success.WithData(data))
}

// GC triggers manual garbage collection and releases memory to OS (requires admin privileges)
// GC 手动触发垃圾回收并释放内存给操作系统（需要管理员权限）
// @Summary Trigger manual GC
// @Description Manually run Go runtime GC and release memory to OS, requires admin privileges
// @Tags System
// @Produce json
// @Security UserAuthToken
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/gc [get]
func (h *AdminControlHandler) GC(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	if !h.requireAdmin(c, response) {
		return
	}
	logger := h.App.Logger()

	var mBefore, mAfter runtime.MemStats
	runtime.ReadMemStats(&mBefore)

	startTime := time.Now()
	// Trigger GC // 触发 GC
	runtime.GC()
	// Release memory to OS // 释放内存给操作系统
	debug.FreeOSMemory()
	duration := time.Since(startTime)

	runtime.ReadMemStats(&mAfter)

	memReleased := int64(mBefore.Alloc) - int64(mAfter.Alloc)
	logger.Info("Manual GC completed",
		zap.Duration("duration", duration),
		zap.Uint64("allocBefore", mBefore.Alloc),
		zap.Uint64("allocAfter", mAfter.Alloc),
		zap.Int64("released", memReleased),
	)

	data := gin.H{
		"duration":    duration.String(),
		"allocBefore": mBefore.Alloc,
		"allocAfter":  mAfter.Alloc,
		"released":    memReleased,
	}

	response.ToResponse(code.Success.WithData(data).WithDetails("Manual GC completed successfully"))
}
