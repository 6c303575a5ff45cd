package websocket_router

import (
	"sync"

	"github.com/IxSyZ/my-life-diary/internal/app"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	pkgapp "github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/code"

	"go.uber.org/zap"
)

// JournalWSHandler serves the grouped journal view over the socket. Each
// connection carries its own expansion state, so two tabs of the same user
// can browse different parts of the hierarchy independently.
// JournalWSHandler 通过 WebSocket 提供分组日记视图。
// 每个连接持有独立的展开状态，同一用户的两个标签页可各自浏览。
type JournalWSHandler struct {
	*WSHandler

	// 按连接 TraceID 保存视图会话
	sessions sync.Map
}

// NewJournalWSHandler 创建 JournalWSHandler 实例
func NewJournalWSHandler(a *app.App) *JournalWSHandler {
	return &JournalWSHandler{
		WSHandler: NewWSHandler(a),
	}
}

func (h *JournalWSHandler) session(c *pkgapp.WebsocketClient) *journalSession {
	if v, ok := h.sessions.Load(c.TraceID); ok {
		return v.(*journalSession)
	}
	v, _ := h.sessions.LoadOrStore(c.TraceID, newJournalSession())
	return v.(*journalSession)
}

// JournalView pushes the grouped view for the requested search term. A term
// change re-derives the expansion state so every filtered node starts
// expanded; repeating the same term keeps the user's manual toggles.
// JournalView 按请求的搜索词推送分组视图。搜索词变化时重新推导展开状态，
// 使过滤结果全部展开；搜索词不变则保留用户的手动开合。
func (h *JournalWSHandler) JournalView(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.JournalViewRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.journal.JournalView.BindAndValid")
		return
	}

	sess := h.session(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	searchChanged := params.Term != sess.lastTerm
	view, err := h.App.JournalService.View(c.Context(), c.User.UID, params.Term, sess.state, searchChanged)
	if err != nil {
		h.logError(c, "websocket_router.journal.JournalView", err)
		c.ToResponse(serviceCode(err, code.ErrorDBQuery))
		return
	}
	sess.lastTerm = params.Term

	h.logDebug(c, "JournalView",
		zap.Int64("uid", c.User.UID),
		zap.String("term", params.Term),
		zap.Bool("searchChanged", searchChanged),
	)
	c.ToResponse(code.Success.WithData(view), dto.JournalViewPush)
}

// JournalToggle flips one expansion node and pushes the refreshed view.
// The key "past" flips the whole past-section visibility.
// JournalToggle 切换一个展开节点并推送刷新后的视图，
// key 为 "past" 时翻转整个历史区可见性。
func (h *JournalWSHandler) JournalToggle(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.JournalToggleRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.journal.JournalToggle.BindAndValid")
		return
	}

	sess := h.session(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.state.Toggle(params.Key)

	view, err := h.App.JournalService.View(c.Context(), c.User.UID, sess.lastTerm, sess.state, false)
	if err != nil {
		h.logError(c, "websocket_router.journal.JournalToggle", err)
		c.ToResponse(serviceCode(err, code.ErrorDBQuery))
		return
	}

	h.logDebug(c, "JournalToggle",
		zap.Int64("uid", c.User.UID),
		zap.String("key", params.Key),
	)
	c.ToResponse(code.Success.WithData(view), dto.JournalViewPush)
}

// CloseSession drops the per-connection view state, wired into the socket
// close hook.
// CloseSession 清理连接的视图状态，挂在连接关闭回调上。
func (h *JournalWSHandler) CloseSession(c *pkgapp.WebsocketClient) {
	h.sessions.Delete(c.TraceID)
}
