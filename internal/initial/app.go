package initial

import (
	"context"
	"fmt"
	"os"

	httpServer "FirstMCP/api/http"
	"FirstMCP/internal/config"
	"FirstMCP/internal/modules/mcp/application/service"
	mcpServer "FirstMCP/internal/modules/mcp/infrastructure/mcp/server"
	"FirstMCP/internal/modules/mcp/infrastructure/tools"
	"FirstMCP/internal/version"
	"FirstMCP/pkg/ws"
	"FirstMCP/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
)

// App 一个完整的 Server 实例，互相独立，可在同一进程内并存
type App struct {
	Config     *config.Config
	Dispatcher service.Dispatcher
	MCPServer  *server.MCPServer
	Gate       *mcpServer.Gate
	Hub        *ws.Hub
	Engine     *gin.Engine
}

func init() {
	// stdout 归 stdio 传输所有
	gin.DefaultWriter = os.Stderr
	gin.DefaultErrorWriter = os.Stderr
}

// NewApp 按配置构建注册表、调度器与各传输层
func NewApp(conf *config.Config) (*App, error) {
	reg, err := tools.NewBuiltinRegistry(tools.CatalogConfig{
		EnableExampleTool: conf.MCPConfig.EnableExampleTool,
	})
	if err != nil {
		return nil, fmt.Errorf("build tool registry: %w", err)
	}

	dispatcher := service.NewDispatcher(service.ServerInfo{
		Name:        conf.MCPConfig.Name,
		Version:     version.Version,
		Description: conf.MCPConfig.Description,
	}, reg)

	s, err := mcpServer.NewMCPServer(mcpServer.Config{Instructions: conf.MCPConfig.Instructions}, dispatcher)
	if err != nil {
		return nil, fmt.Errorf("build mcp server: %w", err)
	}

	app := &App{
		Config:     conf,
		Dispatcher: dispatcher,
		MCPServer:  s,
		Gate:       mcpServer.NewGate(s, dispatcher),
		Hub:        ws.NewHub(),
	}
	if conf.TransportConfig.HTTP {
		app.Engine = httpServer.NewEngine(conf, httpServer.Dependencies{
			Dispatcher: dispatcher,
			Gate:       app.Gate,
			Hub:        app.Hub,
		})
	}

	zlog.Info(fmt.Sprintf("MCP: server '%s' v%s ready with %d tools", conf.MCPConfig.Name, version.Version, len(dispatcher.ListTools(context.Background()))))
	return app, nil
}
