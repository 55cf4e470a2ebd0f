package tool

import (
	"errors"
	"fmt"
)

// ErrorKind 调用错误分类
type ErrorKind int

const (
	KindInvalidRequest ErrorKind = iota + 1
	KindUnknownTool
	KindHandlerFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidRequest:
		return "InvalidRequest"
	case KindUnknownTool:
		return "UnknownTool"
	case KindHandlerFailure:
		return "HandlerFailure"
	default:
		return "Unknown"
	}
}

// JSON-RPC 错误代码
const (
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
	ErrCodeToolNotFound   = -32001
	ErrCodeToolExecFailed = -32002
)

// Code 返回该分类对应的错误码
func (k ErrorKind) Code() int {
	switch k {
	case KindInvalidRequest:
		return ErrCodeInvalidRequest
	case KindUnknownTool:
		return ErrCodeToolNotFound
	case KindHandlerFailure:
		return ErrCodeToolExecFailed
	default:
		return ErrCodeInternalError
	}
}

// ToolError 派发错误
type ToolError struct {
	Kind    ErrorKind
	Tool    string
	Message string
	Err     error
}

// 预定义错误，配合 errors.Is 按分类匹配
var (
	ErrInvalidRequest = &ToolError{Kind: KindInvalidRequest, Message: "invalid request"}
	ErrUnknownTool    = &ToolError{Kind: KindUnknownTool, Message: "unknown tool"}
	ErrHandlerFailure = &ToolError{Kind: KindHandlerFailure, Message: "handler failure"}
)

func (e *ToolError) Error() string {
	if e.Kind == KindHandlerFailure && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Is 同分类即匹配
func (e *ToolError) Is(target error) bool {
	t, ok := target.(*ToolError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Code 错误码
func (e *ToolError) Code() int {
	return e.Kind.Code()
}

// NewInvalidRequest 请求结构错误
func NewInvalidRequest(format string, args ...any) *ToolError {
	return &ToolError{
		Kind:    KindInvalidRequest,
		Message: fmt.Sprintf("Invalid request: "+format, args...),
	}
}

// NewUnknownTool 工具不存在
func NewUnknownTool(name string) *ToolError {
	return &ToolError{
		Kind:    KindUnknownTool,
		Tool:    name,
		Message: "Unknown tool: " + name,
	}
}

// NewHandlerFailure 包装处理函数的错误，不改写其内容
func NewHandlerFailure(name string, err error) *ToolError {
	return &ToolError{
		Kind:    KindHandlerFailure,
		Tool:    name,
		Message: err.Error(),
		Err:     err,
	}
}

// KindOf 取错误分类，非 ToolError 返回 0
func KindOf(err error) ErrorKind {
	var te *ToolError
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
