package service

import (
	"context"
	"time"

	"FirstMCP/internal/modules/mcp/domain/tool"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "FirstMCP/internal/modules/mcp"

// Observer 把工具调用记录到 OpenTelemetry
type Observer struct {
	tracer trace.Tracer

	calls   metric.Int64Counter
	lists   metric.Int64Counter
	latency metric.Float64Histogram
}

// NewObserver 绑定给定的 meter/tracer
func NewObserver(meter metric.Meter, tracer trace.Tracer) (*Observer, error) {
	calls, err := meter.Int64Counter(
		"firstmcp.tool.calls",
		metric.WithDescription("Number of tool call requests by outcome"),
	)
	if err != nil {
		return nil, err
	}
	lists, err := meter.Int64Counter(
		"firstmcp.tool.lists",
		metric.WithDescription("Number of list-tools requests"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"firstmcp.tool.latency",
		metric.WithDescription("Tool handler latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Observer{
		tracer:  tracer,
		calls:   calls,
		lists:   lists,
		latency: latency,
	}, nil
}

// DefaultObserver 使用全局 provider；未安装 SDK 时为 noop
func DefaultObserver() *Observer {
	o, err := NewObserver(otel.Meter(instrumentationName), otel.Tracer(instrumentationName))
	if err != nil {
		return &Observer{}
	}
	return o
}

// StartCall 为一次处理函数调用开启 span
func (o *Observer) StartCall(ctx context.Context, name, callID string) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, "mcp.tool.call", trace.WithAttributes(
		attribute.String("tool_name", name),
		attribute.String("call_id", callID),
	))
}

// EndCall 记录调用结果并结束 span
func (o *Observer) EndCall(ctx context.Context, span trace.Span, name string, start time.Time, err error) {
	if o == nil {
		return
	}
	options := metric.WithAttributes(outcomeAttrs(name, err)...)
	if o.calls != nil {
		o.calls.Add(ctx, 1, options)
	}
	if o.latency != nil {
		o.latency.Record(ctx, time.Since(start).Seconds(), options)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, tool.KindOf(err).String())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// ObserveRejected 记录未进入处理函数的调用
func (o *Observer) ObserveRejected(ctx context.Context, name string, err error) {
	if o == nil || o.calls == nil {
		return
	}
	o.calls.Add(ctx, 1, metric.WithAttributes(outcomeAttrs(name, err)...))
}

// ObserveList 记录一次 list-tools
func (o *Observer) ObserveList(ctx context.Context, count int) {
	if o == nil || o.lists == nil {
		return
	}
	o.lists.Add(ctx, 1, metric.WithAttributes(attribute.Int("tool_count", count)))
}

func outcomeAttrs(name string, err error) []attribute.KeyValue {
	outcome := "ok"
	if err != nil {
		outcome = tool.KindOf(err).String()
	}
	return []attribute.KeyValue{
		attribute.String("tool_name", name),
		attribute.String("outcome", outcome),
	}
}
