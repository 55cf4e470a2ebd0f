package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"FirstMCP/pkg/util"
	"FirstMCP/pkg/ws"
	"FirstMCP/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

const defaultIdleTimeout = 5 * time.Minute

// messageHandler 处理一条 JSON-RPC 消息，通知返回 nil
type messageHandler interface {
	HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage
}

// WsHandler websocket 传输：一帧一条 JSON-RPC 消息
type WsHandler struct {
	hub         *ws.Hub
	messages    messageHandler
	idleTimeout time.Duration
}

func NewWsHandler(hub *ws.Hub, messages messageHandler) *WsHandler {
	return &WsHandler{
		hub:         hub,
		messages:    messages,
		idleTimeout: defaultIdleTimeout,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *WsHandler) Connect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Error("ws upgrade failed", zap.Error(err))
		return
	}

	sessionID := util.NewSessionID()
	client := ws.NewClient(sessionID, conn)
	h.hub.Register(client)
	zlog.Info("MCP: websocket session opened", zap.String("session_id", sessionID))
	defer func() {
		h.hub.Unregister(client)
		zlog.Info("MCP: websocket session closed", zap.String("session_id", sessionID))
	}()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(h.idleTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.idleTimeout))
	})

	go client.WritePump()

	ctx := c.Request.Context()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(h.idleTimeout))
		if msgType != websocket.TextMessage {
			continue
		}

		// 通知没有响应
		resp := h.messages.HandleMessage(ctx, data)
		if resp == nil {
			continue
		}
		if err := h.hub.SendJSON(sessionID, resp); err != nil {
			if errors.Is(err, ws.ErrNotDelivered) {
				zlog.Warn("MCP: websocket client too slow, session dropped", zap.String("session_id", sessionID))
				return
			}
			zlog.Error("ws encode response failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
}
