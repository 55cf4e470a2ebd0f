package http

import (
	"FirstMCP/internal/config"
	"FirstMCP/internal/middleware/accesslog"
	"FirstMCP/internal/modules/mcp/application/service"
	mcpServer "FirstMCP/internal/modules/mcp/infrastructure/mcp/server"
	toolHandler "FirstMCP/internal/modules/mcp/interface/http"
	wsHandler "FirstMCP/internal/modules/mcp/interface/websocket"
	"FirstMCP/pkg/ssl"
	"FirstMCP/pkg/ws"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies 路由依赖
type Dependencies struct {
	Dispatcher service.Dispatcher
	Gate       *mcpServer.Gate
	Hub        *ws.Hub
}

// NewEngine 构建 HTTP 网关。gin.Default 的 Logger 会写 stdout，这里换成 zlog
func NewEngine(conf *config.Config, deps Dependencies) *gin.Engine {
	GE := gin.New()
	GE.Use(gin.Recovery(), accesslog.AccessLog())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = conf.TransportConfig.AllowOrigins
	if len(corsConfig.AllowOrigins) == 0 || contains(corsConfig.AllowOrigins, "*") {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Mcp-Session-Id", "Mcp-Protocol-Version"}
	GE.Use(cors.New(corsConfig))
	if conf.TransportConfig.TLSRedirect {
		GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}

	toolH := toolHandler.NewToolHandler(deps.Dispatcher)
	GE.GET("/healthz", toolH.Health)
	GE.GET("/tools", toolH.ListTools)
	GE.POST("/tools/call", toolH.CallTool)

	if conf.TransportConfig.Websocket && deps.Gate != nil && deps.Hub != nil {
		GE.GET("/wss", wsHandler.NewWsHandler(deps.Hub, deps.Gate).Connect)
	}
	if conf.TransportConfig.StreamableHTTP && deps.Gate != nil {
		GE.Any("/mcp", gin.WrapH(mcpServer.NewStreamableHandler(deps.Gate)))
	}

	return GE
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
