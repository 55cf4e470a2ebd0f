package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcReply struct {
	ID     any             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newGate(t *testing.T) *Gate {
	t.Helper()
	d := newDispatcher(t)
	s, err := NewMCPServer(Config{}, d)
	require.NoError(t, err)
	return NewGate(s, d)
}

func decodeReply(t *testing.T, msg any) rpcReply {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	var reply rpcReply
	require.NoError(t, json.Unmarshal(raw, &reply))
	return reply
}

func toolsCall(params string) json.RawMessage {
	return json.RawMessage(`{"jsonrpc":"2.0","id":"req-1","method":"tools/call","params":` + params + `}`)
}

func TestGateErrorCodes(t *testing.T) {
	g := newGate(t)

	tests := []struct {
		name    string
		params  string
		code    int
		message string
	}{
		{name: "null name", params: `{"name":null,"arguments":{}}`, code: -32600, message: "null"},
		{name: "missing name", params: `{"arguments":{}}`, code: -32600, message: "null"},
		{name: "missing params", params: `null`, code: -32600, message: "null"},
		{name: "numeric name", params: `{"name":42}`, code: -32600, message: "float64"},
		{name: "unknown name", params: `{"name":"nonexistent_tool","arguments":{}}`, code: -32001, message: "Unknown tool: nonexistent_tool"},
		{name: "empty name", params: `{"name":""}`, code: -32001, message: "Unknown tool: "},
		{name: "case mismatch", params: `{"name":"GET_SERVER_VERSION"}`, code: -32001, message: "GET_SERVER_VERSION"},
		{name: "array arguments", params: `{"name":"get_server_version","arguments":[1]}`, code: -32600, message: "array"},
		{name: "string arguments", params: `{"name":"get_server_version","arguments":"x"}`, code: -32600, message: "string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := decodeReply(t, g.HandleMessage(context.Background(), toolsCall(tt.params)))
			require.NotNil(t, reply.Error)
			assert.Equal(t, "req-1", reply.ID)
			assert.Equal(t, tt.code, reply.Error.Code)
			assert.Contains(t, reply.Error.Message, tt.message)
		})
	}
}

func TestGatePassesValidCalls(t *testing.T) {
	g := newGate(t)
	ctx := context.Background()

	for _, params := range []string{
		`{"name":"get_server_version"}`,
		`{"name":"get_server_version","arguments":null}`,
		`{"name":"get_server_version","arguments":{"unused":true}}`,
	} {
		_, rejected := g.Check(ctx, toolsCall(params))
		assert.False(t, rejected, params)

		reply := decodeReply(t, g.HandleMessage(ctx, toolsCall(params)))
		require.Nil(t, reply.Error, params)
		assert.Contains(t, string(reply.Result), "MCP Server Version: 1.0.0")
	}

	// 处理函数失败仍是工具结果
	reply := decodeReply(t, g.HandleMessage(ctx, toolsCall(`{"name":"always_fails"}`)))
	require.Nil(t, reply.Error)
	assert.Contains(t, string(reply.Result), `"isError":true`)
}

func TestGateIgnoresOtherMessages(t *testing.T) {
	g := newGate(t)
	ctx := context.Background()

	for _, msg := range []string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":null}}`,
		`not json`,
	} {
		_, rejected := g.Check(ctx, json.RawMessage(msg))
		assert.False(t, rejected, msg)
	}
}

func TestAdapterFallbackWithoutGate(t *testing.T) {
	s, err := NewMCPServer(Config{}, newDispatcher(t))
	require.NoError(t, err)

	reply := decodeReply(t, s.HandleMessage(context.Background(), toolsCall(`{"name":"get_server_version","arguments":[1]}`)))
	require.NotNil(t, reply.Error)
	assert.Equal(t, -32603, reply.Error.Code)
	assert.Contains(t, reply.Error.Message, "arguments must be an object")
}

func TestServeStdioAnswersRejectedCalls(t *testing.T) {
	g := newGate(t)

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":null}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"nonexistent_tool"}}`,
	}, "\n") + "\n"
	var out bytes.Buffer

	require.NoError(t, ServeStdio(context.Background(), g, strings.NewReader(in), &out))

	var codes []int
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var reply rpcReply
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &reply))
		require.NotNil(t, reply.Error)
		codes = append(codes, reply.Error.Code)
	}
	assert.Equal(t, []int{-32600, -32001}, codes)
}
