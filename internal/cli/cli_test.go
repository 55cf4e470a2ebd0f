package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"FirstMCP/internal/config"
	"FirstMCP/internal/initial"
	"FirstMCP/internal/modules/mcp/domain/tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "my-mcp-server version 1.0.0\n", out)
}

func TestToolsJSON(t *testing.T) {
	out, err := run(t, "tools", "--config", writeConfig(t, ""))
	require.NoError(t, err)

	var got []tool.Descriptor
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "get_server_version", got[0].Name)
	assert.Contains(t, out, `"properties": {}`)
	assert.Contains(t, out, `"required": []`)
}

func TestToolsYAMLWithExampleTool(t *testing.T) {
	path := writeConfig(t, "[mcpConfig]\nenableExampleTool = true\n")
	out, err := run(t, "tools", "--config", path, "--format", "yaml")
	require.NoError(t, err)

	var got []tool.Descriptor
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "get_server_version", got[0].Name)
	assert.Equal(t, "example_tool", got[1].Name)
	assert.Equal(t, []string{"param"}, got[1].InputSchema.Required)
}

func TestToolsUnknownFormat(t *testing.T) {
	_, err := run(t, "tools", "--config", writeConfig(t, ""), "--format", "xml")
	assert.Error(t, err)
}

func TestCall(t *testing.T) {
	path := writeConfig(t, "[mcpConfig]\nenableExampleTool = true\n")

	tests := []struct {
		name     string
		args     []string
		want     string
		exitCode int
	}{
		{name: "version", args: []string{"call", "get_server_version"}, want: "MCP Server Version: 1.0.0\n"},
		{name: "ignored args", args: []string{"call", "get_server_version", "--args", `{"x":1}`}, want: "MCP Server Version: 1.0.0\n"},
		{name: "example", args: []string{"call", "example_tool", "--args", `{"param":"hi"}`}, want: "Processed parameter: hi\n"},
		{name: "unknown", args: []string{"call", "nope"}, exitCode: ExitUnknownTool},
		{name: "empty name", args: []string{"call", ""}, exitCode: ExitUnknownTool},
		{name: "bad args", args: []string{"call", "example_tool", "--args", `[1]`}, exitCode: ExitInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append(tt.args, "--config", path)...)
			assert.Equal(t, tt.exitCode, ExitCode(err))
			if tt.exitCode == ExitOK {
				assert.Equal(t, tt.want, out)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitError, ExitCode(fmt.Errorf("boom")))
	assert.Equal(t, ExitInvalidRequest, ExitCode(tool.NewInvalidRequest("bad")))
	assert.Equal(t, ExitUnknownTool, ExitCode(tool.NewUnknownTool("x")))
	assert.Equal(t, ExitHandlerFailure, ExitCode(tool.NewHandlerFailure("x", fmt.Errorf("inner"))))
}

func TestServeUnknownTransport(t *testing.T) {
	_, err := run(t, "serve", "--config", writeConfig(t, ""), "--transport", "carrier-pigeon")
	assert.ErrorContains(t, err, "unknown transport")
}

func TestServeStdioRoundTrip(t *testing.T) {
	app, err := initial.NewApp(config.Default())
	require.NoError(t, err)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	done := make(chan error, 1)
	go func() { done <- Serve(context.Background(), app, inR, outW) }()

	reader := bufio.NewReader(outR)
	send := func(msg string) map[string]any {
		_, err := io.WriteString(inW, msg+"\n")
		require.NoError(t, err)
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		var resp map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		return resp
	}

	initResp := send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"t","version":"0"}}}`)
	info := initResp["result"].(map[string]any)["serverInfo"].(map[string]any)
	assert.Equal(t, "my-mcp-server", info["name"])
	assert.Equal(t, "1.0.0", info["version"])

	callResp := send(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_server_version","arguments":{}}}`)
	content := callResp["result"].(map[string]any)["content"].([]any)
	require.Len(t, content, 1)
	assert.Equal(t, "MCP Server Version: 1.0.0", content[0].(map[string]any)["text"])

	rejected := send(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"arguments":{}}}`)
	assert.Equal(t, float64(3), rejected["id"])
	assert.Equal(t, float64(-32600), rejected["error"].(map[string]any)["code"])

	require.NoError(t, inW.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after stdin closed")
	}
}
