package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"FirstMCP/internal/modules/mcp/application/service"
	"FirstMCP/internal/modules/mcp/domain/tool"
	"FirstMCP/pkg/zlog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// MessageHandler 处理一条 JSON-RPC 消息，通知返回 nil
type MessageHandler interface {
	HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage
}

// Gate 在 mcp-go 解码之前检查 tools/call。
// mcp-go 把 params.name 解成 string，null/缺失会变成 ""，这里按原始 JSON 交给 Dispatcher 判定，
// 拒绝时直接回 JSON-RPC 错误，错误码取自错误分类
type Gate struct {
	server     *server.MCPServer
	dispatcher service.Dispatcher
}

// NewGate 创建 Gate
func NewGate(s *server.MCPServer, dispatcher service.Dispatcher) *Gate {
	return &Gate{server: s, dispatcher: dispatcher}
}

// Server 被包装的 mcp-go Server
func (g *Gate) Server() *server.MCPServer {
	return g.server
}

type callEnvelope struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params struct {
		Name      json.RawMessage `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"params"`
}

// Check 检查一条消息。rejected 为 true 时 resp 即为应答，不再交给 mcp-go
func (g *Gate) Check(ctx context.Context, message json.RawMessage) (resp mcp.JSONRPCMessage, rejected bool) {
	var env callEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		return nil, false
	}
	// 通知没有应答，交给 mcp-go
	if env.Method != string(mcp.MethodToolsCall) || len(env.ID) == 0 {
		return nil, false
	}

	var name any
	if len(env.Params.Name) > 0 {
		if err := json.Unmarshal(env.Params.Name, &name); err != nil {
			return nil, false
		}
	}
	err := g.dispatcher.Admit(ctx, tool.CallRequest{Name: name})
	if err == nil {
		err = checkArguments(env.Params.Arguments)
	}
	if err == nil {
		return nil, false
	}

	var id mcp.RequestId
	_ = json.Unmarshal(env.ID, &id)
	return mcp.NewJSONRPCError(id, tool.KindOf(err).Code(), err.Error(), nil), true
}

// checkArguments arguments 缺省或为 null 都可以，其他必须是对象
func checkArguments(raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || raw[0] == '{' {
		return nil
	}
	err := tool.NewInvalidRequest("arguments must be an object, got %s", jsonKind(raw[0]))
	zlog.Warn("MCP: Rejected malformed tool call", zap.Error(err))
	return err
}

func jsonKind(first byte) string {
	switch first {
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}

// HandleMessage 先检查再交给 mcp-go
func (g *Gate) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	if resp, rejected := g.Check(ctx, message); rejected {
		return resp
	}
	return g.server.HandleMessage(ctx, message)
}

// Wrap 给 streamable HTTP 处理器加上同样的检查，只拦截 JSON 格式的 POST
func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if r.Method != http.MethodPost || mediaType != "application/json" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			http.Error(w, "read request body error", http.StatusBadRequest)
			return
		}
		if resp, rejected := g.Check(r.Context(), body); rejected {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				zlog.Error("MCP: write rejected call failed", zap.Error(err))
			}
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

// filter 逐行读取 stdin，被拒绝的调用直接写应答，其余转发给 stdio server
func (g *Gate) filter(ctx context.Context, in io.Reader, pipe *io.PipeWriter, out io.Writer) {
	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			if resp, rejected := g.Check(ctx, bytes.TrimSpace(line)); rejected {
				if werr := writeLine(out, resp); werr != nil {
					_ = pipe.CloseWithError(werr)
					return
				}
			} else if _, werr := pipe.Write(line); werr != nil {
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				_ = pipe.Close()
			} else {
				_ = pipe.CloseWithError(err)
			}
			return
		}
	}
}

func writeLine(out io.Writer, msg mcp.JSONRPCMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
