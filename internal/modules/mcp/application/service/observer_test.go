package service

import (
	"context"
	"testing"
	"time"

	"FirstMCP/internal/modules/mcp/domain/registry"
	"FirstMCP/internal/modules/mcp/domain/tool"
	"FirstMCP/internal/modules/mcp/infrastructure/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func TestObserverRecordsCallsAndSpans(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	observer, err := NewObserver(mp.Meter("test"), tp.Tracer("test"))
	require.NoError(t, err)

	reg, err := registry.New(append(tools.Builtin(tools.CatalogConfig{}), failingEntry())...)
	require.NoError(t, err)
	d := NewDispatcher(ServerInfo{Name: "t", Version: "1.0.0"}, reg, WithObserver(observer))

	ctx := context.Background()
	d.ListTools(ctx)
	_, err = d.CallTool(ctx, tool.NewCallRequest("get_server_version", nil))
	require.NoError(t, err)
	_, _ = d.CallTool(ctx, tool.NewCallRequest("always_fails", nil))
	_, _ = d.CallTool(ctx, tool.NewCallRequest("missing", nil))
	_, _ = d.CallTool(ctx, tool.CallRequest{})

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "mcp.tool.call", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "HandlerFailure", spans[1].Status().Description)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	calls := findMetric(&rm, "firstmcp.tool.calls")
	require.NotNil(t, calls)
	sum, ok := calls.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byOutcome := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("outcome"))
		byOutcome[v.AsString()] += dp.Value
	}
	assert.Equal(t, map[string]int64{
		"ok":             1,
		"HandlerFailure": 1,
		"UnknownTool":    1,
		"InvalidRequest": 1,
	}, byOutcome)

	require.NotNil(t, findMetric(&rm, "firstmcp.tool.lists"))
	latency := findMetric(&rm, "firstmcp.tool.latency")
	require.NotNil(t, latency)
	_, ok = latency.Data.(metricdata.Histogram[float64])
	assert.True(t, ok)
}

func TestNilObserverIsSafe(t *testing.T) {
	var o *Observer
	ctx, span := o.StartCall(context.Background(), "x", "id")
	o.EndCall(ctx, span, "x", time.Now(), nil)
	o.ObserveRejected(ctx, "x", tool.NewUnknownTool("x"))
	o.ObserveList(ctx, 0)
}
