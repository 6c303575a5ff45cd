package websocket_router

import (
	"github.com/IxSyZ/my-life-diary/internal/app"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	pkgapp "github.com/IxSyZ/my-life-diary/pkg/app"
	"github.com/IxSyZ/my-life-diary/pkg/code"

	"go.uber.org/zap"
)

// EntryWSHandler WebSocket entry handler. Every write goes through the
// service layer; the resulting snapshot fan-out to the user's other
// sessions happens via the service change listener, not here.
// EntryWSHandler WebSocket 条目处理器。所有写操作走服务层，
// 对用户其他连接的快照扇出由服务层变更监听完成，不在此处触发。
type EntryWSHandler struct {
	*WSHandler
}

// NewEntryWSHandler 创建 EntryWSHandler 实例
func NewEntryWSHandler(a *app.App) *EntryWSHandler {
	return &EntryWSHandler{
		WSHandler: NewWSHandler(a),
	}
}

// EntrySync handles the client's request for the authoritative full
// snapshot. Concurrent requests on the same connection are merged.
// EntrySync 处理客户端的权威全量快照请求，同连接并发请求合并执行。
func (h *EntryWSHandler) EntrySync(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	res, err, _ := c.SF.Do(dto.EntrySync, func() (any, error) {
		return h.App.EntryService.Snapshot(c.Context(), c.User.UID)
	})
	if err != nil {
		h.respondError(c, code.ErrorDBQuery, err, "websocket_router.entry.EntrySync")
		return
	}

	snapshot := res.(*dto.EntrySyncPushMessage)
	h.logDebug(c, "EntrySync",
		zap.Int64("uid", c.User.UID),
		zap.Int64("count", snapshot.Count),
	)
	c.ToResponse(code.Success.WithData(snapshot), dto.EntrySyncPush)
}

// EntryModify creates a new entry or updates the text of an existing one.
// The entry itself is answered to the sender; every live session of the
// user receives a fresh snapshot through the change listener.
// EntryModify 创建条目或修改条目文本。条目本身回给发送方，
// 用户全部活跃连接经变更监听收到新快照。
func (h *EntryWSHandler) EntryModify(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.EntryModifyRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.entry.EntryModify.BindAndValid")
		return
	}

	created, entry, err := h.App.EntryService.ModifyOrCreate(c.Context(), c.User.UID, params)
	if err != nil {
		h.logError(c, "websocket_router.entry.EntryModify", err)
		c.ToResponse(serviceCode(err, code.ErrorDBQuery))
		return
	}
	// 全空白的新建请求静默忽略
	if entry == nil {
		c.ToResponse(code.SuccessNoChange)
		return
	}

	h.logInfo(c, "EntryModify",
		zap.Int64("uid", c.User.UID),
		zap.String("key", entry.Key),
		zap.Bool("created", created),
	)
	c.ToResponse(code.Success.WithData(entry), dto.EntryModify)
}

// EntryDelete removes one or more entries in a single transaction
// EntryDelete 单个事务中删除一个或多个条目
func (h *EntryWSHandler) EntryDelete(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.EntryDeleteRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.entry.EntryDelete.BindAndValid")
		return
	}

	deleted, err := h.App.EntryService.Delete(c.Context(), c.User.UID, params.Keys)
	if err != nil {
		h.logError(c, "websocket_router.entry.EntryDelete", err)
		c.ToResponse(serviceCode(err, code.ErrorDBQuery))
		return
	}

	h.logInfo(c, "EntryDelete",
		zap.Int64("uid", c.User.UID),
		zap.Int("requested", len(params.Keys)),
		zap.Int64("deleted", deleted),
	)
	c.ToResponse(code.Success.WithData(&dto.EntryDeleteResultMessage{Deleted: deleted}), dto.EntryDelete)
}

// EntryDeleteAll removes every entry of the user
// EntryDeleteAll 删除用户全部条目
func (h *EntryWSHandler) EntryDeleteAll(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	deleted, err := h.App.EntryService.DeleteAll(c.Context(), c.User.UID)
	if err != nil {
		h.logError(c, "websocket_router.entry.EntryDeleteAll", err)
		c.ToResponse(serviceCode(err, code.ErrorDBQuery))
		return
	}

	h.logInfo(c, "EntryDeleteAll",
		zap.Int64("uid", c.User.UID),
		zap.Int64("deleted", deleted),
	)
	c.ToResponse(code.Success.WithData(&dto.EntryDeleteResultMessage{Deleted: deleted}), dto.EntryDeleteAll)
}

// PushSnapshot sends the authoritative snapshot to one connection, used by
// the post-auth hook and by the entry change listener.
// PushSnapshot 向单个连接推送权威快照，供认证完成回调与变更监听使用。
func (h *EntryWSHandler) PushSnapshot(c *pkgapp.WebsocketClient) {
	if c.User == nil {
		return
	}
	snapshot, err := h.App.EntryService.Snapshot(c.Context(), c.User.UID)
	if err != nil {
		h.logError(c, "websocket_router.entry.PushSnapshot", err)
		return
	}
	c.ToResponse(code.Success.WithData(snapshot), dto.EntrySyncPush)
}
