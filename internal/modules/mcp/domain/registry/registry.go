package registry

import (
	"encoding/json"
	"fmt"
	"strings"

	"FirstMCP/internal/modules/mcp/domain/tool"

	"github.com/google/jsonschema-go/jsonschema"
)

// Registry 工具注册表。构造完成后只读，并发读取无需加锁
type Registry struct {
	descriptors []tool.Descriptor
	handlers    map[string]tool.Handler
}

// New 按注册顺序构建注册表，任一条目非法则整体失败
func New(entries ...tool.Entry) (*Registry, error) {
	r := &Registry{
		descriptors: make([]tool.Descriptor, 0, len(entries)),
		handlers:    make(map[string]tool.Handler, len(entries)),
	}

	for _, entry := range entries {
		desc := entry.Descriptor
		if desc.Name == "" {
			return nil, fmt.Errorf("registry: tool name is empty")
		}
		if _, exists := r.handlers[desc.Name]; exists {
			return nil, fmt.Errorf("registry: tool '%s' already registered", desc.Name)
		}
		if entry.Handler == nil {
			return nil, fmt.Errorf("registry: tool '%s' has no handler", desc.Name)
		}
		if err := checkSchema(desc.InputSchema); err != nil {
			return nil, fmt.Errorf("registry: tool '%s': %w", desc.Name, err)
		}

		r.descriptors = append(r.descriptors, cloneDescriptor(desc))
		r.handlers[desc.Name] = entry.Handler
	}

	return r, nil
}

// MustNew 同 New，失败时 panic，用于内置工具表
func MustNew(entries ...tool.Entry) *Registry {
	r, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// List 按注册顺序返回描述符副本
func (r *Registry) List() []tool.Descriptor {
	out := make([]tool.Descriptor, len(r.descriptors))
	for i, d := range r.descriptors {
		out[i] = cloneDescriptor(d)
	}
	return out
}

// Resolve 按名称精确匹配（区分大小写）
func (r *Registry) Resolve(name string) (tool.Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Len 已注册工具数
func (r *Registry) Len() int {
	return len(r.descriptors)
}

func checkSchema(schema tool.InputSchema) error {
	if schema.Type != "object" {
		return fmt.Errorf("input schema type must be \"object\", got %q", schema.Type)
	}
	for _, name := range schema.Required {
		if _, ok := schema.Properties[name]; !ok {
			return fmt.Errorf("required parameter '%s' is not declared in properties", name)
		}
	}
	for name, prop := range schema.Properties {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("input schema has an empty property name")
		}
		if prop.Type == "" {
			return fmt.Errorf("property '%s' has no type", name)
		}
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal input schema: %w", err)
	}
	var js jsonschema.Schema
	if err := json.Unmarshal(raw, &js); err != nil {
		return fmt.Errorf("decode input schema: %w", err)
	}
	if _, err := js.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true}); err != nil {
		return fmt.Errorf("resolve input schema: %w", err)
	}
	return nil
}

func cloneDescriptor(d tool.Descriptor) tool.Descriptor {
	props := make(map[string]tool.Property, len(d.InputSchema.Properties))
	for k, v := range d.InputSchema.Properties {
		props[k] = v
	}
	required := make([]string, len(d.InputSchema.Required))
	copy(required, d.InputSchema.Required)

	d.InputSchema.Properties = props
	d.InputSchema.Required = required
	return d
}
