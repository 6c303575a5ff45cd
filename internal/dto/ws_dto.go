package dto

// WebSocketMsgType WebSocket Binary message type
// WebSocket 二进制消息类型
type WebSocketMsgType = string

// AudioChunkMsgType recording audio chunk
// 录音音频分块消息
const AudioChunkMsgType WebSocketMsgType = "00"

// WebSocketAction WebSocket text message type
// WebSocket 文本消息类型
type WebSocketAction = string

const (
	// Entry related
	// 条目相关

	// EntrySync client asks for the authoritative snapshot
	// EntrySync 客户端请求权威全量快照
	EntrySync WebSocketAction = "EntrySync"
	// EntrySyncPush server pushes the full snapshot to every live session
	// EntrySyncPush 服务端向全部活跃连接推送全量快照
	EntrySyncPush WebSocketAction = "EntrySyncPush"
	// EntryModify creates a new entry or updates one entry's text
	// EntryModify 创建条目或修改条目文本
	EntryModify WebSocketAction = "EntryModify"
	// EntryDelete removes one or more entries in a single transaction
	// EntryDelete 单个事务中删除一个或多个条目
	EntryDelete WebSocketAction = "EntryDelete"
	// EntryDeleteAll removes every entry of the user
	// EntryDeleteAll 删除用户全部条目
	EntryDeleteAll WebSocketAction = "EntryDeleteAll"

	// Journal related
	// 日记视图相关

	// JournalView requests the grouped view for a search term
	// JournalView 按搜索词请求分组视图
	JournalView WebSocketAction = "JournalView"
	// JournalViewPush server pushes the grouped view
	// JournalViewPush 服务端推送分组视图
	JournalViewPush WebSocketAction = "JournalViewPush"
	// JournalToggle flips one expansion node
	// JournalToggle 切换一个展开节点
	JournalToggle WebSocketAction = "JournalToggle"

	// Recording related
	// 录音相关

	// RecordingStart begins a recording session
	// RecordingStart 开始录音会话
	RecordingStart WebSocketAction = "RecordingStart"
	// RecordingStop ends the session and awaits the final transcript
	// RecordingStop 结束会话并等待最终转写
	RecordingStop WebSocketAction = "RecordingStop"
	// RecordingLanguage reconfigures the recognition language
	// RecordingLanguage 重新配置识别语言
	RecordingLanguage WebSocketAction = "RecordingLanguage"
	// RecordingClearError clears a sticky capability error
	// RecordingClearError 清除粘滞的能力错误
	RecordingClearError WebSocketAction = "RecordingClearError"
	// RecordingStatus server pushes the recording state
	// RecordingStatus 服务端推送录音状态
	RecordingStatus WebSocketAction = "RecordingStatus"
	// RecordingResult server pushes the transcript turned entry
	// RecordingResult 服务端推送转写生成的条目
	RecordingResult WebSocketAction = "RecordingResult"
	// RecordingError server pushes a capability error message
	// RecordingError 服务端推送能力错误信息
	RecordingError WebSocketAction = "RecordingError"
)
