package tool

import "context"

// ContentTypeText 目前唯一的内容类型
const ContentTypeText = "text"

// Property 单个参数的类型描述
type Property struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// InputSchema 工具入参的 JSON Schema（仅作说明，不做强校验）
type InputSchema struct {
	Type       string              `json:"type" yaml:"type"`
	Properties map[string]Property `json:"properties" yaml:"properties"`
	Required   []string            `json:"required" yaml:"required"`
}

// ObjectSchema 构造 object 类型的 schema，properties/required 永不为 nil，序列化时保留 {} 和 []
func ObjectSchema(properties map[string]Property, required ...string) InputSchema {
	if properties == nil {
		properties = map[string]Property{}
	}
	if required == nil {
		required = []string{}
	}
	return InputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// Descriptor 工具描述符，注册后不可变
type Descriptor struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	InputSchema InputSchema `json:"inputSchema" yaml:"inputSchema"`
}

// Arguments 调用参数
type Arguments map[string]any

// String 取字符串参数，缺失或类型不符时返回空串
func (a Arguments) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// ContentItem 返回给调用方的内容单元
type ContentItem struct {
	Type string `json:"type" yaml:"type"`
	Text string `json:"text" yaml:"text"`
}

// NewTextContent 创建 text 内容
func NewTextContent(text string) ContentItem {
	return ContentItem{Type: ContentTypeText, Text: text}
}

// CallResult 成功调用的结果，按约定非空
type CallResult []ContentItem

// Handler 工具处理函数
type Handler func(ctx context.Context, args Arguments) (CallResult, error)

// Entry 描述符与处理函数作为一个整体注册
type Entry struct {
	Descriptor Descriptor
	Handler    Handler
}

// CallRequest 一次调用请求。Name 保持原始 JSON 值，非字符串在派发前即被拒绝
type CallRequest struct {
	Name      any       `json:"name"`
	Arguments Arguments `json:"arguments,omitempty"`
}

// NewCallRequest 便捷构造
func NewCallRequest(name string, args Arguments) CallRequest {
	return CallRequest{Name: name, Arguments: args}
}
