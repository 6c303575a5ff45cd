package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/IxSyZ/my-life-diary/global"
	"github.com/IxSyZ/my-life-diary/pkg/code"
	"golang.org/x/sync/singleflight"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

type LogType string

const (
	WebSocketServerPingInterval         = 25
	WebSocketServerPingWait             = 40
	LogInfo                     LogType = "info"
	LogError                    LogType = "error"
	LogWarn                     LogType = "warn"
)

func log(t LogType, msg string, fields ...zap.Field) {
	if t == "error" {
		global.Logger.Error(msg, fields...)
	} else if t == "warn" {
		global.Logger.Warn(msg, fields...)
	} else if t == "info" {
		global.Logger.Info(msg, fields...)
	}
}

// WebSocketMessage 一条 action|payload 格式的客户端消息
type WebSocketMessage struct {
	Type string `json:"type"` // 操作类型，例如 "EntryModify", "JournalView"
	Data []byte `json:"data"` // 操作数据
}

// ParseRawMessage splits an "action|payload" text frame. The action may
// not contain the separator; everything after the first '|' is payload.
// ParseRawMessage 拆分 action|payload 格式消息
func ParseRawMessage(raw string) (*WebSocketMessage, bool) {
	index := strings.Index(raw, "|")
	if index <= 0 {
		return nil, false
	}
	return &WebSocketMessage{
		Type: raw[:index],
		Data: []byte(raw[index+1:]),
	}, true
}

type WebsocketServerConfig struct {
	GWSOption       gws.ServerOption
	PingInterval    time.Duration
	PingWait        time.Duration
	IsReturnSuccess bool
}

// WebsocketClient 存储每个 WebSocket 连接及其相关状态
type WebsocketClient struct {
	conn      *gws.Conn
	done      chan struct{}
	closeOnce sync.Once

	Ctx         *gin.Context
	User        *UserEntity
	UserClients *ConnStorage
	SF          *singleflight.Group // 合并同连接上的并发重复请求

	TraceID       string
	ClientName    string
	ClientVersion string

	baseCtx context.Context
}

// Context returns the connection scoped context. The gin request context
// dies with the HTTP upgrade, so a detached context is kept instead.
func (c *WebsocketClient) Context() context.Context {
	return c.baseCtx
}

// 基于全局验证器的 WebSocket 版本参数绑定和验证工具函数
func (c *WebsocketClient) BindAndValid(data []byte, obj any) (bool, ValidErrors) {
	var errs ValidErrors

	if err := json.Unmarshal(data, obj); err != nil {
		errs = append(errs, &ValidError{
			Key:     "body",
			Message: "Invalid message format",
		})
		return false, errs
	}

	if err := binding.Validator.ValidateStruct(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			v := c.Ctx.Value("trans")
			if trans, ok := v.(ut.Translator); ok {
				for _, validationErr := range validationErrors {
					errs = append(errs, &ValidError{
						Key:     validationErr.Field(),
						Message: validationErr.Translate(trans),
					})
				}
			} else {
				for _, validationErr := range validationErrors {
					errs = append(errs, &ValidError{
						Key:     validationErr.Field(),
						Message: validationErr.Error(),
					})
				}
			}
		} else {
			errs = append(errs, &ValidError{
				Key:     "body",
				Message: err.Error(),
			})
		}
		return false, errs
	}
	return true, nil
}

// 定期发送 Ping 消息
func (c *WebsocketClient) PingLoop(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			log(LogInfo, "WebsocketServer Client Close Ping")
			return
		case <-ticker.C:
			if c.conn == nil {
				return
			}
			if err := c.conn.WritePing(nil); err != nil {
				log(LogError, "WebsocketServer Client Ping err", zap.Error(err))
				return
			}
		}
	}
}

func (c *WebsocketClient) markDone() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// ToResponse 将结果转换为 JSON 格式并发送给客户端
func (c *WebsocketClient) ToResponse(codeObj *code.Code, action ...string) {
	var actionType string
	if len(action) > 0 {
		actionType = action[0]
	}

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.GetMessage(),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}
	if codeObj.HaveContext() {
		content.Context = codeObj.Context()
	}

	c.send(actionType, content, false, false)
}

// BroadcastResponse 将结果转换为 JSON 格式并广播给该用户的所有连接
// 第一个 options 参数为是否排除自己，第二个 options 参数为动作类型
func (c *WebsocketClient) BroadcastResponse(codeObj *code.Code, options ...any) {
	var actionType string
	if len(options) > 1 {
		actionType = options[1].(string)
	}
	isExcludeSelf := false
	if len(options) > 0 {
		isExcludeSelf = options[0].(bool)
	}

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.GetMessage(),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}
	if codeObj.HaveContext() {
		content.Context = codeObj.Context()
	}

	c.send(actionType, content, true, isExcludeSelf)
}

func (c *WebsocketClient) send(actionType string, content any, isBroadcast bool, isExcludeSelf bool) {
	responseBytes, _ := json.Marshal(content)
	if actionType != "" {
		responseBytes = []byte(fmt.Sprintf(`%s|%s`, actionType, string(responseBytes)))
	}
	if isBroadcast {
		c.broadcast(responseBytes, isExcludeSelf)
	} else {
		c.message(responseBytes)
	}
}

func (c *WebsocketClient) message(payload []byte) {
	c.conn.WriteMessage(gws.OpcodeText, payload)
}

func (c *WebsocketClient) broadcast(payload []byte, isExcludeSelf bool) {
	if c.UserClients == nil {
		return
	}
	var b = gws.NewBroadcaster(gws.OpcodeText, payload)
	defer b.Close()

	for _, uc := range *c.UserClients {
		if uc.conn == nil {
			continue
		}
		if isExcludeSelf && uc.conn == c.conn {
			continue
		}
		_ = b.Broadcast(uc.conn)
	}
}

// ------------------------------------> WebsocketServer

type ConnStorage = map[*gws.Conn]*WebsocketClient

type WebsocketServer struct {
	handlers        map[string]func(*WebsocketClient, *WebSocketMessage)
	binaryHandler   func(*WebsocketClient, []byte)
	authedHandlers  []func(*WebsocketClient)
	closeHandlers   []func(*WebsocketClient)
	tokenParser     func(string) (*UserEntity, error)
	userDataHandler func(*WebsocketClient, int64) (*UserSelectEntity, error)
	clients         ConnStorage
	userClients     map[int64]ConnStorage
	mu              sync.Mutex
	up              *gws.Upgrader
	config          *WebsocketServerConfig
}

func NewWebsocketServer(c WebsocketServerConfig) *WebsocketServer {
	if c.PingInterval == 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait == 0 {
		c.PingWait = WebSocketServerPingWait
	}
	wss := WebsocketServer{
		handlers:    make(map[string]func(*WebsocketClient, *WebSocketMessage)),
		clients:     make(ConnStorage),
		userClients: make(map[int64]ConnStorage),
		config:      &c,
	}
	return &wss
}

func (w *WebsocketServer) Upgrade() {
	w.up = gws.NewUpgrader(w, &w.config.GWSOption)
}

func (w *WebsocketServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		w.Upgrade()
		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			log(LogError, "WebsocketServer Start err", zap.Error(err))
			return
		}
		client := &WebsocketClient{
			conn:          socket,
			done:          make(chan struct{}),
			Ctx:           c,
			SF:            new(singleflight.Group),
			TraceID:       uuid.New().String(),
			ClientName:    c.Query("client"),
			ClientVersion: c.Query("version"),
			baseCtx:       context.Background(),
		}
		w.AddClient(client)
		log(LogInfo, "WebsocketServer Start", zap.String("type", "ReadLoop"), zap.String("traceId", client.TraceID))
		go socket.ReadLoop()
	}
}

// Use 注册指定 action 的消息处理器
func (w *WebsocketServer) Use(action string, handler func(*WebsocketClient, *WebSocketMessage)) {
	w.handlers[action] = handler
}

// UseBinary 注册二进制帧处理器，用于录音音频流
func (w *WebsocketServer) UseBinary(handler func(*WebsocketClient, []byte)) {
	w.binaryHandler = handler
}

// AuthParseUse 注入 token 解析函数
func (w *WebsocketServer) AuthParseUse(parser func(string) (*UserEntity, error)) {
	w.tokenParser = parser
}

// UserDataSelectUse 注入用户有效性验证函数
func (w *WebsocketServer) UserDataSelectUse(handler func(*WebsocketClient, int64) (*UserSelectEntity, error)) {
	w.userDataHandler = handler
}

// OnAuthedUse registers a hook that runs after a connection is
// authenticated, used to push the initial snapshot.
// OnAuthedUse 注册认证完成后的回调，用于推送初始快照
func (w *WebsocketServer) OnAuthedUse(handler func(*WebsocketClient)) {
	w.authedHandlers = append(w.authedHandlers, handler)
}

// OnCloseUse 注册连接关闭后的清理回调
func (w *WebsocketServer) OnCloseUse(handler func(*WebsocketClient)) {
	w.closeHandlers = append(w.closeHandlers, handler)
}

func (w *WebsocketServer) Authorization(c *WebsocketClient, msg *WebSocketMessage) {
	failAuth := func(err error) {
		log(LogError, "WebsocketServer Authorization FAILED", zap.Error(err))
		c.ToResponse(code.ErrorInvalidAuthToken, "Authorization")
		time.Sleep(2 * time.Second)
		c.conn.WriteClose(1000, []byte("AuthorizationFailed"))
	}

	if w.tokenParser == nil {
		failAuth(fmt.Errorf("token parser is not configured"))
		return
	}

	user, err := w.tokenParser(string(msg.Data))
	if err != nil {
		failAuth(err)
		return
	}

	// 用户有效性强制验证
	userSelect, err := w.userDataHandler(c, user.UID)
	if userSelect == nil || err != nil {
		failAuth(fmt.Errorf("user not exist: %w", err))
		return
	}
	user.Nickname = userSelect.Nickname

	c.User = user
	w.AddUserClient(c)

	userClients := w.userClients[user.UID]
	c.UserClients = &userClients

	c.ToResponse(code.Success, "Authorization")
	log(LogInfo, "WebsocketServer User Enters",
		zap.Int64("uid", c.User.UID),
		zap.String("nickname", c.User.Nickname),
		zap.Int("count", len(userClients)))
	go c.PingLoop(w.config.PingInterval)

	for _, handler := range w.authedHandlers {
		handler(c)
	}
}

func (w *WebsocketServer) GetClient(conn *gws.Conn) *WebsocketClient {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clients[conn]
}

func (w *WebsocketServer) AddClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[c.conn] = c
}

func (w *WebsocketServer) RemoveClient(conn *gws.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.clients, conn)
}

func (w *WebsocketServer) AddUserClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.userClients[c.User.UID] == nil {
		w.userClients[c.User.UID] = make(ConnStorage)
	}
	w.userClients[c.User.UID][c.conn] = c
}

func (w *WebsocketServer) RemoveUserClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.userClients[c.User.UID], c.conn)
	log(LogInfo, "WebsocketServer Client Remove", zap.Int("userCount", len(w.clients)))
}

// UserClientsOf returns the live connections of one user, used by
// services that push snapshots outside a request.
// UserClientsOf 返回指定用户的所有活跃连接
func (w *WebsocketServer) UserClientsOf(uid int64) []*WebsocketClient {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*WebsocketClient, 0, len(w.userClients[uid]))
	for _, uc := range w.userClients[uid] {
		out = append(out, uc)
	}
	return out
}

func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	log(LogInfo, "WebsocketServer Client Connect", zap.Int("Count", len(w.clients)))
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait * time.Second))
}

func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {
	c := w.GetClient(conn)
	w.RemoveClient(conn)
	if c == nil {
		return
	}

	if c.User != nil {
		c.markDone()
		log(LogInfo, "WebsocketServer User Leave", zap.Int64("uid", c.User.UID))
		w.RemoveUserClient(c)
		for _, handler := range w.closeHandlers {
			handler(c)
		}
	}

	log(LogInfo, "WebsocketServer Client Leave", zap.Int("Count", len(w.clients)))
}

func (w *WebsocketServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait * time.Second))
	_ = socket.WritePong(nil)
}

func (w *WebsocketServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait * time.Second))
}

func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()

	c := w.GetClient(conn)
	if c == nil {
		return
	}

	// 二进制帧承载录音音频，必须先完成认证
	if message.Opcode == gws.OpcodeBinary {
		if c.User == nil {
			c.ToResponse(code.ErrorAuthTokenEmpty)
			return
		}
		if w.binaryHandler != nil {
			data := make([]byte, message.Data.Len())
			copy(data, message.Bytes())
			w.binaryHandler(c, data)
		}
		return
	}

	if message.Opcode != gws.OpcodeText {
		return
	}
	messageStr := message.Data.String()
	if messageStr == "close" {
		conn.WriteClose(1000, []byte("ClientClose"))
		return
	}

	msg, ok := ParseRawMessage(messageStr)
	if !ok {
		log(LogError, "WebsocketServer OnMessage", zap.String("type", "Illegal message format"))
		return
	}

	if msg.Type == "Authorization" {
		w.Authorization(c, msg)
		return
	}

	// 验证用户是否登录
	if c.User == nil {
		c.ToResponse(code.ErrorAuthTokenEmpty)
		return
	}

	handler, exists := w.handlers[msg.Type]
	if exists {
		log(LogInfo, "WebsocketServer OnMessage", zap.String("Type", msg.Type), zap.Int64("uid", c.User.UID))
		handler(c, msg)
	} else {
		log(LogError, "WebsocketServer OnMessage", zap.String("msg", "Unknown message type"), zap.String("Type", msg.Type))
		c.ToResponse(code.ErrorUnknownWSAction.WithDetails(msg.Type))
	}
}
