package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"FirstMCP/pkg/zlog"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub 在线的 websocket 会话，按会话 ID 索引
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	if c == nil || c.sessionID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.sessionID] = c
}

func (h *Hub) Unregister(c *Client) {
	if c == nil || c.sessionID == "" {
		return
	}
	h.mu.Lock()
	if cur, ok := h.clients[c.sessionID]; ok && cur == c {
		delete(h.clients, c.sessionID)
	}
	h.mu.Unlock()
	c.Close()
}

// Count 当前会话数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll 关闭所有会话，用于优雅退出
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
}

func (h *Hub) Send(sessionID string, payload []byte) bool {
	if sessionID == "" || len(payload) == 0 {
		return false
	}

	h.mu.RLock()
	c := h.clients[sessionID]
	h.mu.RUnlock()
	if c == nil {
		return false
	}

	if !c.enqueue(payload) {
		h.Unregister(c)
		return false
	}
	return true
}

// ErrNotDelivered 会话不存在，或发送队列已满、会话已被移除
var ErrNotDelivered = errors.New("ws: message not delivered")

func (h *Hub) SendJSON(sessionID string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if !h.Send(sessionID, b) {
		return ErrNotDelivered
	}
	return nil
}

type Client struct {
	sessionID string
	conn      *websocket.Conn
	send      chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(sessionID string, conn *websocket.Conn) *Client {
	return &Client{
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, 64),
	}
}

// SessionID 会话 ID
func (c *Client) SessionID() string {
	return c.sessionID
}

// enqueue 队列满或已关闭时返回 false
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) WritePump() {
	if c.conn == nil {
		return
	}
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			zlog.Error("ws write failed", zap.String("session_id", c.sessionID), zap.Error(err))
			return
		}
	}
}
