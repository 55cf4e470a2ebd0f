package cli

import (
	"errors"
	"fmt"

	"FirstMCP/internal/config"
	"FirstMCP/internal/modules/mcp/domain/tool"
	"FirstMCP/internal/version"
	"FirstMCP/pkg/zlog"

	"github.com/spf13/cobra"
)

// NewRootCmd 根命令
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "FirstMCP",
		Short: "Minimal MCP tool server",
		Long:  "FirstMCP exposes a small set of named tools over MCP (stdio, websocket, streamable HTTP) and a JSON HTTP gateway.",
		// 出错时不打印 usage
		SilenceUsage: true,
		Version:      version.Version,
	}
	root.SetVersionTemplate(fmt.Sprintf("%s version %s\n", version.ServerName, version.Version))
	root.PersistentFlags().String("config", config.DefaultPath, "Path to the TOML config file")

	root.AddCommand(NewServeCmd())
	root.AddCommand(NewToolsCmd())
	root.AddCommand(NewCallCmd())
	return root
}

// loadConfig 读取配置并按配置初始化日志
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	conf, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := zlog.Setup(zlog.Options{
		LogPath:    conf.LogConfig.LogPath,
		Level:      conf.LogConfig.Level,
		MaxSizeMB:  conf.LogConfig.MaxSizeMB,
		MaxBackups: conf.LogConfig.MaxBackups,
		MaxAgeDays: conf.LogConfig.MaxAgeDays,
	}); err != nil {
		return nil, err
	}
	return conf, nil
}

// 进程退出码
const (
	ExitOK             = 0
	ExitError          = 1
	ExitInvalidRequest = 2
	ExitUnknownTool    = 3
	ExitHandlerFailure = 4
)

// ExitCode 按错误分类给出退出码
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch {
	case errors.Is(err, tool.ErrInvalidRequest):
		return ExitInvalidRequest
	case errors.Is(err, tool.ErrUnknownTool):
		return ExitUnknownTool
	case errors.Is(err, tool.ErrHandlerFailure):
		return ExitHandlerFailure
	default:
		return ExitError
	}
}
