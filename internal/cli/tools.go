package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"FirstMCP/internal/initial"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewToolsCmd tools 子命令，打印 list-tools 结果
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the registered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			app, err := initial.NewApp(conf)
			if err != nil {
				return err
			}

			descriptors := app.Dispatcher.ListTools(cmd.Context())
			format, _ := cmd.Flags().GetString("format")
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(descriptors)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(descriptors); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q, want json | yaml", format)
			}
		},
	}
	cmd.Flags().String("format", "json", "Output format: json | yaml")
	return cmd
}
