package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"FirstMCP/internal/initial"
	mcpServer "FirstMCP/internal/modules/mcp/infrastructure/mcp/server"
	"FirstMCP/pkg/zlog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errStdioClosed = errors.New("stdio closed")

// NewServeCmd serve 子命令
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the configured transports until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("transport", "", "Override transports: stdio | http | all (default: from config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer zlog.Sync()

	transport, _ := cmd.Flags().GetString("transport")
	switch strings.ToLower(strings.TrimSpace(transport)) {
	case "":
	case "stdio":
		conf.TransportConfig.Stdio, conf.TransportConfig.HTTP = true, false
		conf.TransportConfig.Websocket, conf.TransportConfig.StreamableHTTP = false, false
	case "http":
		conf.TransportConfig.Stdio, conf.TransportConfig.HTTP = false, true
	case "all":
		conf.TransportConfig.Stdio, conf.TransportConfig.HTTP = true, true
	default:
		return fmt.Errorf("unknown transport %q, want stdio | http | all", transport)
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := initial.SetupTelemetry(ctx, conf.OtelConfig)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			zlog.Error("OTel shutdown failed: " + err.Error())
		}
	}()

	app, err := initial.NewApp(conf)
	if err != nil {
		return err
	}
	return Serve(ctx, app, cmd.InOrStdin(), cmd.OutOrStdout())
}

// Serve 并发运行各传输层；stdio 输入结束或 ctx 取消时整体退出
func Serve(ctx context.Context, app *initial.App, in io.Reader, out io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)

	if app.Config.TransportConfig.Stdio {
		g.Go(func() error {
			if err := mcpServer.ServeStdio(ctx, app.Gate, in, out); err != nil {
				return err
			}
			return errStdioClosed
		})
	}

	if app.Engine != nil {
		srv := &http.Server{
			Addr:              app.Config.Addr(),
			Handler:           app.Engine,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			zlog.Info(fmt.Sprintf("HTTP gateway listening on %s", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			zlog.Info("正在关闭服务器...")
			app.Hub.CloseAll()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	err := g.Wait()
	if errors.Is(err, errStdioClosed) {
		err = nil
	}
	zlog.Info("服务器已关闭")
	return err
}
