package http

import (
	"encoding/json"
	"errors"

	"FirstMCP/internal/modules/mcp/application/service"
	"FirstMCP/internal/modules/mcp/domain/tool"
	"FirstMCP/pkg/back"
	"FirstMCP/pkg/xerr"
	"FirstMCP/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// ToolHandler list/call 的 HTTP 网关
type ToolHandler struct {
	dispatcher service.Dispatcher
}

func NewToolHandler(dispatcher service.Dispatcher) *ToolHandler {
	return &ToolHandler{dispatcher: dispatcher}
}

// Health 返回 Server 信息与能力
func (h *ToolHandler) Health(c *gin.Context) {
	back.Success(c, gin.H{
		"serverInfo":   h.dispatcher.ServerInfo(),
		"capabilities": h.dispatcher.Capabilities(),
	})
}

// ListTools GET /tools
func (h *ToolHandler) ListTools(c *gin.Context) {
	back.Success(c, gin.H{
		"tools": h.dispatcher.ListTools(c.Request.Context()),
	})
}

// CallTool POST /tools/call，name 原样交给 Dispatcher 判断
func (h *ToolHandler) CallTool(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || !json.Valid(raw) {
		zlog.Warn("tools/call body is not valid JSON", zap.Error(err))
		back.Result(c, nil, xerr.ErrParam)
		return
	}
	// 合法 JSON 但结构不对（如 arguments 不是对象）属于 InvalidRequest
	var req tool.CallRequest
	if err := binding.JSON.BindBody(raw, &req); err != nil {
		zlog.Warn("tools/call bad body", zap.Error(err))
		back.Result(c, nil, toCodeError(tool.NewInvalidRequest("%v", err)))
		return
	}

	result, err := h.dispatcher.CallTool(c.Request.Context(), req)
	if err != nil {
		back.Result(c, nil, toCodeError(err))
		return
	}
	back.Success(c, gin.H{"content": result})
}

func toCodeError(err error) error {
	var te *tool.ToolError
	if errors.As(err, &te) {
		return xerr.New(te.Code(), te.Error()).WithKind(te.Kind.String())
	}
	return err
}
