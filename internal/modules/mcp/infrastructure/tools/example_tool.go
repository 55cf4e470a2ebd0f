package tools

import (
	"context"

	"FirstMCP/internal/modules/mcp/domain/tool"
)

// ExampleToolName 示例工具名，配置 enableExampleTool 后才注册
const ExampleToolName = "example_tool"

// ExampleTool 回显 param 参数的示例工具
func ExampleTool() tool.Entry {
	return tool.Entry{
		Descriptor: tool.Descriptor{
			Name:        ExampleToolName,
			Description: "Example tool description",
			InputSchema: tool.ObjectSchema(map[string]tool.Property{
				"param": {Type: "string", Description: "Example parameter"},
			}, "param"),
		},
		Handler: handleExample,
	}
}

// schema 只是说明，缺失 param 时按空串处理
func handleExample(_ context.Context, args tool.Arguments) (tool.CallResult, error) {
	return tool.CallResult{
		tool.NewTextContent("Processed parameter: " + args.String("param")),
	}, nil
}
