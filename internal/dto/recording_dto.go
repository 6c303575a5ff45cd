package dto

// RecordingLanguageRequest Reconfigures the recognition language; tears down
// the capability handle and invalidates any in-flight session.
// 重新配置识别语言；重建能力句柄并作废在途会话
type RecordingLanguageRequest struct {
	Language string `json:"language" form:"language" binding:"required" example:"en-US"` // BCP-47 tag // BCP-47 语言标签
}

// ---------------- DTO / Response ----------------

// RecordingStatusDTO Recording state pushed after every state transition
// RecordingStatusDTO 每次状态变化后推送的录音状态
type RecordingStatusDTO struct {
	Recording bool   `json:"recording"` // Session active // 是否在录音中
	Ready     bool   `json:"ready"`     // Capability usable // 能力是否可用
	Language  string `json:"language"`  // Active BCP-47 tag // 当前语言标签
	LastError string `json:"lastError"` // Sticky error message, empty when clear // 粘滞错误信息
}

// RecordingResultMessage Final transcript turned into an entry
// RecordingResultMessage 最终转写生成的条目
type RecordingResultMessage struct {
	Text  string    `json:"text"`  // Trimmed transcript // 修剪后的转写文本
	Entry *EntryDTO `json:"entry"` // Created entry // 新建条目
}

// RecordingErrorMessage Human-readable capability error; recording stays
// disabled until the error is cleared.
// RecordingErrorMessage 能力错误信息；清除前无法再次开始录音
type RecordingErrorMessage struct {
	Message string `json:"message" example:"speech provider unreachable"` // Error text // 错误文本
}
