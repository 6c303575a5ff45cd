package websocket_router

import (
	"context"
	"errors"

	"github.com/IxSyZ/my-life-diary/internal/app"
	"github.com/IxSyZ/my-life-diary/internal/domain"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/internal/recording"
	pkgapp "github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/code"

	"go.uber.org/zap"
)

// RecordingWSHandler drives the per-connection recording state machine.
// Audio arrives as binary frames, control actions as text frames; every
// state transition is answered with a RecordingStatus push so the client
// never has to guess.
// RecordingWSHandler 驱动连接级录音状态机。音频走二进制帧，控制动作走
// 文本帧；每次状态变化都推送 RecordingStatus，客户端无需猜测状态。
type RecordingWSHandler struct {
	*WSHandler
}

// NewRecordingWSHandler 创建 RecordingWSHandler 实例
func NewRecordingWSHandler(a *app.App) *RecordingWSHandler {
	return &RecordingWSHandler{
		WSHandler: NewWSHandler(a),
	}
}

// RecordingStart begins a recording session on this connection. The
// controller is created lazily with the user's stored language preference.
// RecordingStart 在当前连接上开始录音会话，控制器按用户语言偏好懒创建。
func (h *RecordingWSHandler) RecordingStart(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	ctrl, err := h.App.RecordingService.GetOrCreate(c.Context(), c.TraceID, c.User.UID, h.transcriptHandler(c))
	if err != nil {
		h.logError(c, "websocket_router.recording.RecordingStart.GetOrCreate", err)
		c.ToResponse(serviceCode(err, code.ErrorSpeechFailed), dto.RecordingError)
		return
	}

	if err := ctrl.Start(c.Context()); err != nil {
		switch {
		case errors.Is(err, recording.ErrAlreadyRecording):
			// 重复开始按无变化处理，只同步状态
			c.ToResponse(code.SuccessNoChange)
		case errors.Is(err, recording.ErrDisabledByError):
			h.logWarn(c, "RecordingStart", zap.Error(err))
			c.ToResponse(code.ErrorRecordingDisabled.WithDetails(err.Error()))
		case errors.Is(err, recording.ErrNotReady):
			h.logWarn(c, "RecordingStart", zap.Error(err))
			c.ToResponse(code.ErrorSpeechNotConfigured.WithDetails(err.Error()))
		default:
			h.logError(c, "websocket_router.recording.RecordingStart", err)
			c.ToResponse(code.ErrorSpeechFailed.WithData(&dto.RecordingErrorMessage{Message: err.Error()}), dto.RecordingError)
		}
		h.pushStatus(c, ctrl)
		return
	}

	h.logInfo(c, "RecordingStart", zap.Int64("uid", c.User.UID))
	h.pushStatus(c, ctrl)
}

// RecordingStop ends the session and waits for the final transcript. The
// transcript handler turns a non-empty transcript into an entry and pushes
// it back as RecordingResult before this method reports the final status.
// RecordingStop 结束会话并等待最终转写。最终转写非空时由回调生成条目并
// 以 RecordingResult 推回，随后同步最终状态。
func (h *RecordingWSHandler) RecordingStop(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	ctrl, ok := h.App.RecordingService.Get(c.TraceID)
	if !ok {
		c.ToResponse(code.ErrorRecordingNotActive)
		return
	}

	text, err := ctrl.Stop(c.Context())
	if err != nil {
		switch {
		case errors.Is(err, recording.ErrNoActiveSession):
			c.ToResponse(code.ErrorRecordingNotActive)
		default:
			h.logError(c, "websocket_router.recording.RecordingStop", err)
			c.ToResponse(serviceCode(err, code.ErrorSpeechFailed).WithData(&dto.RecordingErrorMessage{Message: err.Error()}), dto.RecordingError)
		}
		h.pushStatus(c, ctrl)
		return
	}

	h.logInfo(c, "RecordingStop",
		zap.Int64("uid", c.User.UID),
		zap.Int("transcriptLen", len(text)),
	)
	h.pushStatus(c, ctrl)
}

// RecordingLanguage persists the new recognition language and rebuilds the
// capability handle; any in-flight session is invalidated.
// RecordingLanguage 持久化新识别语言并重建能力句柄，在途会话作废。
func (h *RecordingWSHandler) RecordingLanguage(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.RecordingLanguageRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.recording.RecordingLanguage.BindAndValid")
		return
	}

	// 先持久化偏好，语言标签在偏好层做合法性校验
	if _, err := h.App.PreferenceService.Set(c.Context(), c.User.UID, &dto.PreferenceSetRequest{
		Key:   domain.PreferenceSpeechLanguage,
		Value: params.Language,
	}); err != nil {
		h.logError(c, "websocket_router.recording.RecordingLanguage.Set", err)
		c.ToResponse(serviceCode(err, code.ErrorSpeechLanguage))
		return
	}

	ctrl, ok := h.App.RecordingService.Get(c.TraceID)
	if !ok {
		// 连接上还没有控制器，偏好已保存，下次开始录音时生效
		c.ToResponse(code.Success)
		return
	}

	if err := ctrl.SetLanguage(params.Language); err != nil {
		h.logError(c, "websocket_router.recording.RecordingLanguage", err)
		c.ToResponse(code.ErrorSpeechFailed.WithData(&dto.RecordingErrorMessage{Message: err.Error()}), dto.RecordingError)
		h.pushStatus(c, ctrl)
		return
	}

	h.logInfo(c, "RecordingLanguage",
		zap.Int64("uid", c.User.UID),
		zap.String("language", params.Language),
	)
	h.pushStatus(c, ctrl)
}

// RecordingClearError clears the sticky capability error, allowing a new
// session to start.
// RecordingClearError 清除粘滞能力错误，重新允许开始录音。
func (h *RecordingWSHandler) RecordingClearError(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	ctrl, ok := h.App.RecordingService.Get(c.TraceID)
	if !ok {
		c.ToResponse(code.ErrorRecordingNotActive)
		return
	}

	ctrl.ClearError()
	h.logInfo(c, "RecordingClearError", zap.Int64("uid", c.User.UID))
	h.pushStatus(c, ctrl)
}

// HandleAudioChunk feeds one binary audio frame into the active session.
// The two byte type prefix keeps room for other binary payloads.
// HandleAudioChunk 将一帧二进制音频送入当前会话，两字节类型前缀为其他
// 二进制负载留出空间。
func (h *RecordingWSHandler) HandleAudioChunk(c *pkgapp.WebsocketClient, data []byte) {
	if len(data) < 2 || string(data[:2]) != dto.AudioChunkMsgType {
		c.ToResponse(code.ErrorInvalidParams.WithDetails("unknown binary message type"))
		return
	}

	ctrl, ok := h.App.RecordingService.Get(c.TraceID)
	if !ok {
		c.ToResponse(code.ErrorRecordingNotActive)
		return
	}

	if err := ctrl.Feed(data[2:]); err != nil {
		if errors.Is(err, recording.ErrNoActiveSession) {
			c.ToResponse(code.ErrorRecordingNotActive)
			return
		}
		// 会话级失败已在控制器内粘滞，推送错误与最新状态
		h.logError(c, "websocket_router.recording.HandleAudioChunk", err)
		c.ToResponse(code.ErrorSpeechFailed.WithData(&dto.RecordingErrorMessage{Message: err.Error()}), dto.RecordingError)
		h.pushStatus(c, ctrl)
	}
}

// CloseSession drops the connection's controller and aborts any in-flight
// session, wired into the socket close hook.
// CloseSession 移除连接的控制器并作废在途会话，挂在连接关闭回调上。
func (h *RecordingWSHandler) CloseSession(c *pkgapp.WebsocketClient) {
	h.App.RecordingService.Remove(c.TraceID)
}

// transcriptHandler turns the final transcript into a voice entry and
// pushes it back to the recording connection. The snapshot fan-out to the
// user's other sessions happens via the entry change listener.
// transcriptHandler 把最终转写生成语音条目并推回录音连接，
// 对其他连接的快照扇出由条目变更监听完成。
func (h *RecordingWSHandler) transcriptHandler(c *pkgapp.WebsocketClient) recording.TranscriptHandler {
	return func(ctx context.Context, text string, language string) error {
		entry, err := h.App.EntryService.CreateFromTranscript(ctx, c.User.UID, text)
		if err != nil {
			return err
		}

		h.logInfo(c, "RecordingResult",
			zap.Int64("uid", c.User.UID),
			zap.String("key", entry.Key),
			zap.String("language", language),
		)
		c.ToResponse(code.Success.WithData(&dto.RecordingResultMessage{
			Text:  text,
			Entry: entry,
		}), dto.RecordingResult)
		return nil
	}
}

// pushStatus 推送控制器当前状态
func (h *RecordingWSHandler) pushStatus(c *pkgapp.WebsocketClient, ctrl *recording.Controller) {
	c.ToResponse(code.Success.WithData(h.App.RecordingService.StatusDTO(ctrl)), dto.RecordingStatus)
}
