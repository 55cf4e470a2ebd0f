package cli

import (
	"encoding/json"
	"fmt"

	"FirstMCP/internal/initial"
	"FirstMCP/internal/modules/mcp/domain/tool"

	"github.com/spf13/cobra"
)

// NewCallCmd call 子命令，本地执行一次工具调用
func NewCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool-name>",
		Short: "Invoke a tool once and print its text content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var arguments tool.Arguments
			if raw, _ := cmd.Flags().GetString("args"); raw != "" {
				if err := json.Unmarshal([]byte(raw), &arguments); err != nil {
					return tool.NewInvalidRequest("--args is not a JSON object: %v", err)
				}
			}

			app, err := initial.NewApp(conf)
			if err != nil {
				return err
			}
			result, err := app.Dispatcher.CallTool(cmd.Context(), tool.NewCallRequest(args[0], arguments))
			if err != nil {
				return err
			}
			for _, item := range result {
				fmt.Fprintln(cmd.OutOrStdout(), item.Text)
			}
			return nil
		},
	}
	cmd.Flags().String("args", "", "Tool arguments as a JSON object")
	return cmd
}
