package xerr

import "fmt"

// CodeError 网关统一错误，Code 与 MCP 的 JSON-RPC 错误码保持一致
type CodeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// Error 实现 error 接口
func (e *CodeError) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.Code, e.Message)
}

// New 创建新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Message: msg}
}

// WithKind 附带错误分类
func (e *CodeError) WithKind(kind string) *CodeError {
	return &CodeError{Code: e.Code, Message: e.Message, Kind: kind}
}

// 常用通用错误码
const (
	OK             = 0
	ParseError     = -32700
	InvalidRequest = -32600
	InternalError  = -32603
)

// 常用预定义错误
var (
	ErrServerError = New(InternalError, "internal error")
	ErrParam       = New(ParseError, "request body is not valid JSON")
)
