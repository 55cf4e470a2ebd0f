package accesslog

import (
	"time"

	"FirstMCP/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog 用 zlog 记录请求，替代 gin 默认写 stdout 的 Logger
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			zlog.Warn("http request", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		zlog.Info("http request", fields...)
	}
}
