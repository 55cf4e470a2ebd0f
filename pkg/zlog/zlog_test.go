package zlog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"info":    zapcore.InfoLevel,
		"DEBUG":   zapcore.DebugLevel,
		" warn ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestHelpersWriteThroughGlobalLogger(t *testing.T) {
	prev := L()
	t.Cleanup(func() { SetLogger(prev) })

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	Info("MCP: hello", zap.String("tool", "get_server_version"))
	Error("MCP: boom")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "MCP: hello", entries[0].Message)
	assert.Equal(t, "get_server_version", entries[0].ContextMap()["tool"])
	assert.Contains(t, entries[0].ContextMap()["caller"], "zlog_test.go")
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestSetupWithFile(t *testing.T) {
	prev := L()
	t.Cleanup(func() { SetLogger(prev) })

	path := filepath.Join(t.TempDir(), "logs", "server.log")
	require.NoError(t, Setup(Options{LogPath: path, Level: "debug"}))
	Debug("written")
	Sync()

	require.FileExists(t, path)
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	require.Error(t, Setup(Options{Level: "verbose"}))
}
