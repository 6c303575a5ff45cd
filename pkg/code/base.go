package code

// Success codes // 成功码
var (
	Success = NewSuss(0, lang{
		en:    "Success",
		zh_cn: "成功",
	})
	// SuccessNoChange reports an accepted request that changed nothing, e.g.
	// creating an entry from an empty transcript or re-saving identical text.
	// SuccessNoChange 表示请求被接受但没有产生变更。
	SuccessNoChange = NewSuss(1, lang{
		en:    "Success, nothing changed",
		zh_cn: "成功，无变更",
	})
)

// Generic request errors // 通用请求错误
var (
	Failed = NewError(100000, lang{
		en:    "Request failed",
		zh_cn: "请求失败",
	})
	ErrorInvalidParams = NewError(100001, lang{
		en:    "Invalid request parameters",
		zh_cn: "请求参数错误",
	})
	ErrorNotFound = NewError(100002, lang{
		en:    "Resource not found",
		zh_cn: "找不到资源",
	})
	ErrorTooManyRequests = NewError(100003, lang{
		en:    "Too many requests",
		zh_cn: "请求过多",
	})
	ErrorRequestTimeout = NewError(100004, lang{
		en:    "Request timed out",
		zh_cn: "请求超时",
	})
	ErrorServerInternal = NewError(100005, lang{
		en:    "Internal server error",
		zh_cn: "服务内部错误",
	})
	ErrorUnknownWSAction = NewError(100006, lang{
		en:    "Unknown websocket action",
		zh_cn: "未知的 WebSocket 动作",
	})
	ErrorConfigSaveFailed = NewError(100007, lang{
		en:    "Failed to save server config",
		zh_cn: "保存服务配置失败",
	})
)

// Identity and token errors // 身份与令牌错误
var (
	ErrorAuthTokenEmpty = NewError(200000, lang{
		en:    "Auth token is missing",
		zh_cn: "鉴权令牌缺失",
	})
	ErrorInvalidAuthToken = NewError(200001, lang{
		en:    "Auth token is invalid or expired",
		zh_cn: "鉴权令牌无效或已过期",
	})
	ErrorTokenGenerate = NewError(200002, lang{
		en:    "Failed to generate auth token",
		zh_cn: "生成鉴权令牌失败",
	})
	ErrorUserNotFound = NewError(200003, lang{
		en:    "User does not exist",
		zh_cn: "用户不存在",
	})
	ErrorUserAlreadyExists = NewError(200004, lang{
		en:    "Username is already taken",
		zh_cn: "用户名已被占用",
	})
	ErrorUserEmailAlreadyExists = NewError(200005, lang{
		en:    "Email is already registered",
		zh_cn: "邮箱已被注册",
	})
	ErrorUserUsernameNotValid = NewError(200006, lang{
		en:    "Username format is not valid",
		zh_cn: "用户名格式不正确",
	})
	ErrorUserPasswordNotMatch = NewError(200007, lang{
		en:    "The two passwords do not match",
		zh_cn: "两次输入的密码不一致",
	})
	ErrorUserLoginFailed = NewError(200008, lang{
		en:    "Incorrect username or password",
		zh_cn: "用户名或密码错误",
	})
	ErrorUserOldPasswordFailed = NewError(200009, lang{
		en:    "Old password is incorrect",
		zh_cn: "旧密码错误",
	})
	ErrorUserRegisterDisabled = NewError(200010, lang{
		en:    "Registration is disabled",
		zh_cn: "注册功能已关闭",
	})
	ErrorGuestDisabled = NewError(200011, lang{
		en:    "Guest sign-in is disabled",
		zh_cn: "游客登录已关闭",
	})
	ErrorPasswordHash = NewError(200012, lang{
		en:    "Password could not be processed",
		zh_cn: "密码处理失败",
	})
	ErrorUserRegister = NewError(200013, lang{
		en:    "Registration failed",
		zh_cn: "注册失败",
	})
	ErrorUserIsNotAdmin = NewError(200014, lang{
		en:    "Admin privilege required",
		zh_cn: "需要管理员权限",
	})
)

// Store errors; permission failures are distinguished from generic ones so the
// client can render them differently without dropping its cached snapshot.
// 存储错误；权限错误与一般错误区分，客户端无需丢弃已缓存的快照。
var (
	ErrorDBQuery = NewError(300000, lang{
		en:    "Data query failed",
		zh_cn: "数据查询失败",
	})
	ErrorStorePermission = NewError(300001, lang{
		en:    "Permission denied for this collection",
		zh_cn: "没有访问该数据集的权限",
	})
	ErrorEntryNotFound = NewError(300002, lang{
		en:    "Journal entry does not exist",
		zh_cn: "日记条目不存在",
	})
	ErrorEntryCreateFailed = NewError(300003, lang{
		en:    "Failed to create journal entry",
		zh_cn: "创建日记条目失败",
	})
	ErrorEntryUpdateFailed = NewError(300004, lang{
		en:    "Failed to update journal entry",
		zh_cn: "更新日记条目失败",
	})
	ErrorEntryDeleteFailed = NewError(300005, lang{
		en:    "Failed to delete journal entry",
		zh_cn: "删除日记条目失败",
	})
	ErrorHistoryNotFound = NewError(300006, lang{
		en:    "Entry revision does not exist",
		zh_cn: "条目历史版本不存在",
	})
)

// Recording and speech errors // 录音与语音识别错误
var (
	ErrorSpeechNotConfigured = NewError(400000, lang{
		en:    "Speech transcription is not configured",
		zh_cn: "语音转写服务未配置",
	})
	ErrorSpeechFailed = NewError(400001, lang{
		en:    "Speech transcription failed",
		zh_cn: "语音转写失败",
	})
	ErrorSpeechLanguage = NewError(400002, lang{
		en:    "Unsupported recognition language tag",
		zh_cn: "不支持的识别语言标签",
	})
	ErrorRecordingNotActive = NewError(400003, lang{
		en:    "No recording session is active",
		zh_cn: "当前没有进行中的录音会话",
	})
	ErrorRecordingDisabled = NewError(400004, lang{
		en:    "Recording is disabled until the last error is cleared",
		zh_cn: "录音已停用，需先清除上次的错误",
	})
)

// Preference errors // 偏好设置错误
var (
	ErrorPreferenceColor = NewError(500000, lang{
		en:    "Theme color must be a 6-digit hex value",
		zh_cn: "主题色必须为 6 位十六进制",
	})
	ErrorPreferenceKey = NewError(500001, lang{
		en:    "Unknown preference key",
		zh_cn: "未知的偏好设置项",
	})
	ErrorPreferenceValue = NewError(500002, lang{
		en:    "Invalid preference value",
		zh_cn: "无效的偏好设置值",
	})
)

// Backup, git mirror and storage errors // 备份、Git 镜像与存储错误
var (
	ErrorInvalidStorageType = NewError(600000, lang{
		en:    "Unsupported storage type",
		zh_cn: "不支持的存储类型",
	})
	ErrorStorageNotConfigured = NewError(600001, lang{
		en:    "Storage target is not configured",
		zh_cn: "存储目标未配置",
	})
	ErrorBackupConfigNotFound = NewError(600002, lang{
		en:    "Backup config does not exist",
		zh_cn: "备份配置不存在",
	})
	ErrorBackupTypeUnknown = NewError(600003, lang{
		en:    "Unknown backup type",
		zh_cn: "未知的备份类型",
	})
	ErrorBackupRunning = NewError(600004, lang{
		en:    "A backup for this config is already running",
		zh_cn: "该配置的备份已在进行中",
	})
	ErrorBackupDisabled = NewError(600005, lang{
		en:    "Backup config is disabled",
		zh_cn: "备份配置已停用",
	})
	ErrorGitMirrorNotFound = NewError(600006, lang{
		en:    "Git mirror config does not exist",
		zh_cn: "Git 镜像配置不存在",
	})
	ErrorGitMirrorRunning = NewError(600007, lang{
		en:    "Git mirror sync is already running",
		zh_cn: "Git 镜像同步已在进行中",
	})
	ErrorGitMirrorValidate = NewError(600008, lang{
		en:    "Git repository validation failed",
		zh_cn: "Git 仓库校验失败",
	})
	ErrorBackupCronInvalid = NewError(600009, lang{
		en:    "Invalid cron expression",
		zh_cn: "无效的 Cron 表达式",
	})
	ErrorStorageNotFound = NewError(600010, lang{
		en:    "Storage config does not exist",
		zh_cn: "存储配置不存在",
	})
	ErrorStorageTypeDisabled = NewError(600011, lang{
		en:    "Storage type is disabled on this server",
		zh_cn: "该存储类型在本服务上已停用",
	})
	ErrorBackupStorageIDs = NewError(600012, lang{
		en:    "Invalid backup storage list",
		zh_cn: "无效的备份存储列表",
	})
)
