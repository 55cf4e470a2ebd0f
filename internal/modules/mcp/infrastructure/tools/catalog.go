package tools

import (
	"FirstMCP/internal/modules/mcp/domain/registry"
	"FirstMCP/internal/modules/mcp/domain/tool"
)

// CatalogConfig 内置工具开关
type CatalogConfig struct {
	EnableExampleTool bool
}

// Builtin 返回内置工具条目，顺序即 list-tools 的顺序
func Builtin(conf CatalogConfig) []tool.Entry {
	entries := []tool.Entry{
		ServerVersionTool(),
	}
	if conf.EnableExampleTool {
		entries = append(entries, ExampleTool())
	}
	return entries
}

// NewBuiltinRegistry 构建内置注册表
func NewBuiltinRegistry(conf CatalogConfig) (*registry.Registry, error) {
	return registry.New(Builtin(conf)...)
}
