package initial

import (
	"context"
	"fmt"
	"strings"

	"FirstMCP/internal/config"
	"FirstMCP/pkg/zlog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc 刷新并关闭 provider
type ShutdownFunc func(ctx context.Context) error

// SetupTelemetry 配置了 endpoint 时安装 OTLP/HTTP trace 导出，否则保持全局 noop
func SetupTelemetry(ctx context.Context, conf config.OtelConfig) (ShutdownFunc, error) {
	endpoint := strings.TrimSpace(conf.Endpoint)
	if endpoint == "" {
		zlog.Debug("OTel endpoint 未配置，跳过 trace 导出")
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if conf.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp trace exporter: %w", err)
	}

	serviceName := conf.ServiceName
	if serviceName == "" {
		serviceName = "FirstMCP"
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetTracerProvider(tp)
	zlog.Info(fmt.Sprintf("OTel trace export enabled: %s", endpoint))

	return tp.Shutdown, nil
}
