package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"FirstMCP/internal/modules/mcp/application/service"
	"FirstMCP/internal/modules/mcp/domain/tool"
	"FirstMCP/pkg/zlog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Config MCP Server 配置
type Config struct {
	Instructions string
}

// NewMCPServer 把 Dispatcher 暴露为 mcp-go Server，工具表与注册表一一对应
func NewMCPServer(conf Config, dispatcher service.Dispatcher) (*server.MCPServer, error) {
	info := dispatcher.ServerInfo()

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if conf.Instructions != "" {
		opts = append(opts, server.WithInstructions(conf.Instructions))
	}
	s := server.NewMCPServer(info.Name, info.Version, opts...)

	adapter := &toolAdapter{dispatcher: dispatcher}
	for _, desc := range dispatcher.ListTools(context.Background()) {
		t, err := toMCPTool(desc)
		if err != nil {
			return nil, err
		}
		s.AddTool(t, adapter.handle)
		zlog.Info(fmt.Sprintf("MCP: Registered tool '%s'", desc.Name))
	}

	return s, nil
}

// toMCPTool schema 原样输出，不经过 mcp-go 的结构体，保留空的 properties/required
func toMCPTool(desc tool.Descriptor) (mcp.Tool, error) {
	raw, err := json.Marshal(desc.InputSchema)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("marshal input schema of '%s': %w", desc.Name, err)
	}
	return mcp.NewToolWithRawSchema(desc.Name, desc.Description, raw), nil
}

type toolAdapter struct {
	dispatcher service.Dispatcher
}

func (a *toolAdapter) handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args tool.Arguments
	switch v := request.Params.Arguments.(type) {
	case nil:
	case map[string]any:
		args = v
	default:
		return nil, tool.NewInvalidRequest("arguments must be an object, got %T", v)
	}

	result, err := a.dispatcher.CallTool(ctx, tool.NewCallRequest(request.Params.Name, args))
	if err != nil {
		// 处理函数自身的失败作为工具结果返回。
		// 其余分类已由 Gate 在解码前按错误码拒绝，绕过 Gate 时 mcp-go 统一报 -32603
		if errors.Is(err, tool.ErrHandlerFailure) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return ToMCPResult(result), nil
}

// ToMCPResult 转换为 mcp-go 的调用结果
func ToMCPResult(result tool.CallResult) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(result))
	for _, item := range result {
		content = append(content, mcp.NewTextContent(item.Text))
	}
	return &mcp.CallToolResult{Content: content}
}
