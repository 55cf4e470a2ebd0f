package server

import (
	"context"
	"io"
	"net/http"
	"sync"

	"FirstMCP/pkg/zlog"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// ServeStdio 在给定的读写流上运行 stdio 传输，直到 ctx 结束或输入 EOF
func ServeStdio(ctx context.Context, gate *Gate, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(gate.server)
	stdio.SetErrorLogger(zap.NewStdLog(zlog.L()))

	// 被拒绝的应答与 mcp-go 的应答写同一个 out
	w := &lockedWriter{w: out}
	pr, pw := io.Pipe()
	defer pr.Close()
	go gate.filter(ctx, in, pw, w)

	zlog.Info("MCP: stdio transport listening")
	err := stdio.Listen(ctx, pr, w)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// NewStreamableHandler 返回可挂到 HTTP 路由上的 streamable HTTP 处理器
func NewStreamableHandler(gate *Gate) http.Handler {
	return gate.Wrap(server.NewStreamableHTTPServer(gate.server, server.WithStateLess(true)))
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
