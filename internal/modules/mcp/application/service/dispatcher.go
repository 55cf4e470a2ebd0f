package service

import (
	"context"
	"fmt"
	"time"

	"FirstMCP/internal/modules/mcp/domain/registry"
	"FirstMCP/internal/modules/mcp/domain/tool"
	"FirstMCP/pkg/util"
	"FirstMCP/pkg/zlog"

	"go.uber.org/zap"
)

// ServerInfo MCP Server 基本信息
type ServerInfo struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Dispatcher MCP 调度器接口
type Dispatcher interface {
	// ServerInfo 获取 Server 基本信息
	ServerInfo() ServerInfo

	// Capabilities 初始化时对外声明的能力
	Capabilities() map[string]any

	// ListTools 列出所有工具，顺序与注册顺序一致
	ListTools(ctx context.Context) []tool.Descriptor

	// CallTool 调用指定工具
	CallTool(ctx context.Context, req tool.CallRequest) (tool.CallResult, error)

	// Admit 只检查名称（类型与是否注册），不调用处理函数。返回值与 CallTool 的拒绝错误一致
	Admit(ctx context.Context, req tool.CallRequest) error
}

// dispatcherImpl 调度器实现，本身无状态，唯一的状态是只读的注册表
type dispatcherImpl struct {
	info     ServerInfo
	registry *registry.Registry
	observer *Observer
}

// Option 调度器可选项
type Option func(*dispatcherImpl)

// WithObserver 指定 otel 观测器
func WithObserver(o *Observer) Option {
	return func(d *dispatcherImpl) {
		d.observer = o
	}
}

// NewDispatcher 创建 Dispatcher
func NewDispatcher(info ServerInfo, reg *registry.Registry, opts ...Option) Dispatcher {
	d := &dispatcherImpl{
		info:     info,
		registry: reg,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.observer == nil {
		d.observer = DefaultObserver()
	}
	return d
}

func (d *dispatcherImpl) ServerInfo() ServerInfo {
	return d.info
}

func (d *dispatcherImpl) Capabilities() map[string]any {
	return map[string]any{
		"tools": map[string]any{
			"listChanged": false,
		},
	}
}

func (d *dispatcherImpl) ListTools(ctx context.Context) []tool.Descriptor {
	d.observer.ObserveList(ctx, d.registry.Len())
	return d.registry.List()
}

func (d *dispatcherImpl) Admit(ctx context.Context, req tool.CallRequest) error {
	_, _, err := d.resolve(ctx, req)
	return err
}

// resolve 名称检查与查找，拒绝时记录日志和指标
func (d *dispatcherImpl) resolve(ctx context.Context, req tool.CallRequest) (string, tool.Handler, error) {
	// 1. 名称必须是字符串，否则不做查找
	name, ok := req.Name.(string)
	if !ok {
		err := tool.NewInvalidRequest("tool name must be a string, got %s", describe(req.Name))
		zlog.Warn("MCP: Rejected malformed tool call", zap.Error(err))
		d.observer.ObserveRejected(ctx, "", err)
		return "", nil, err
	}

	// 2. 精确查找
	handler, exists := d.registry.Resolve(name)
	if !exists {
		err := tool.NewUnknownTool(name)
		zlog.Warn("MCP: Unknown tool", zap.String("tool", name))
		d.observer.ObserveRejected(ctx, name, err)
		return "", nil, err
	}
	return name, handler, nil
}

func (d *dispatcherImpl) CallTool(ctx context.Context, req tool.CallRequest) (tool.CallResult, error) {
	name, handler, err := d.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. 参数缺省为空 map，不做 schema 校验
	args := req.Arguments
	if args == nil {
		args = tool.Arguments{}
	}

	callID := util.NewCallID()
	ctx, span := d.observer.StartCall(ctx, name, callID)
	defer span.End()

	start := time.Now()
	zlog.Info(fmt.Sprintf("MCP: Calling tool '%s'", name), zap.String("call_id", callID), zap.Any("args", args))
	result, err := handler(ctx, args)
	if err != nil {
		failure := tool.NewHandlerFailure(name, err)
		zlog.Error(fmt.Sprintf("MCP: Tool '%s' execution failed", name), zap.String("call_id", callID), zap.Error(err))
		d.observer.EndCall(ctx, span, name, start, failure)
		return nil, failure
	}

	d.observer.EndCall(ctx, span, name, start, nil)
	return result, nil
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
