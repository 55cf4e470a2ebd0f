package tools

import (
	"context"
	"fmt"

	"FirstMCP/internal/modules/mcp/domain/tool"
	"FirstMCP/internal/version"
	"FirstMCP/pkg/zlog"
)

// ServerVersionToolName 版本查询工具名
const ServerVersionToolName = "get_server_version"

// ServerVersionTool 版本查询工具：无参数，忽略任何传入参数
func ServerVersionTool() tool.Entry {
	return tool.Entry{
		Descriptor: tool.Descriptor{
			Name:        ServerVersionToolName,
			Description: "Get the current version of this MCP server",
			InputSchema: tool.ObjectSchema(nil),
		},
		Handler: handleServerVersion,
	}
}

func handleServerVersion(_ context.Context, _ tool.Arguments) (tool.CallResult, error) {
	zlog.Info("Getting server version")
	return tool.CallResult{
		tool.NewTextContent(fmt.Sprintf("MCP Server Version: %s", version.Version)),
	}, nil
}
