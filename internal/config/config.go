package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"FirstMCP/internal/version"

	"github.com/BurntSushi/toml"
)

// DefaultPath 默认配置文件位置，不存在时使用默认值
const DefaultPath = "configs/config_local.toml"

type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

type LogConfig struct {
	LogPath    string `toml:"logPath"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"maxSizeMB"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAgeDays int    `toml:"maxAgeDays"`
}

// MCPConfig MCP Server 配置
type MCPConfig struct {
	Name              string `toml:"name"`
	Description       string `toml:"description"`
	Instructions      string `toml:"instructions"`
	EnableExampleTool bool   `toml:"enableExampleTool"`
}

// TransportConfig 传输层开关
type TransportConfig struct {
	Stdio          bool     `toml:"stdio"`
	HTTP           bool     `toml:"http"`
	Websocket      bool     `toml:"websocket"`
	StreamableHTTP bool     `toml:"streamableHTTP"`
	TLSRedirect    bool     `toml:"tlsRedirect"`
	AllowOrigins   []string `toml:"allowOrigins"`
}

// OtelConfig OTLP/HTTP trace 导出，endpoint 为空时不导出
type OtelConfig struct {
	Endpoint    string `toml:"endpoint"`
	Insecure    bool   `toml:"insecure"`
	ServiceName string `toml:"serviceName"`
}

type Config struct {
	MainConfig      `toml:"mainConfig"`
	LogConfig       `toml:"logConfig"`
	MCPConfig       `toml:"mcpConfig"`
	TransportConfig `toml:"transportConfig"`
	OtelConfig      `toml:"otelConfig"`
}

// Default 默认配置：仅开启 stdio
func Default() *Config {
	return &Config{
		MainConfig: MainConfig{
			AppName: "FirstMCP",
			Host:    "127.0.0.1",
			Port:    8080,
		},
		LogConfig: LogConfig{
			Level: "info",
		},
		MCPConfig: MCPConfig{
			Name:        version.ServerName,
			Description: "MCP Server with version query tool and extensible architecture",
		},
		TransportConfig: TransportConfig{
			Stdio:        true,
			AllowOrigins: []string{"*"},
		},
		OtelConfig: OtelConfig{
			ServiceName: "FirstMCP",
		},
	}
}

// Load 在默认值之上叠加配置文件。默认路径不存在不算错误
func Load(path string) (*Config, error) {
	conf := Default()
	if path == "" {
		path = DefaultPath
	}

	if _, err := toml.DecodeFile(path, conf); err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			return conf, conf.Validate()
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return conf, conf.Validate()
}

// Decode 从 TOML 文本解析，主要给测试和内嵌场景用
func Decode(data string) (*Config, error) {
	conf := Default()
	if _, err := toml.Decode(data, conf); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return conf, conf.Validate()
}

// Validate 校验配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MCPConfig.Name) == "" {
		return errors.New("mcpConfig.name is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.LogConfig.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logConfig.level %q is not one of debug|info|warn|error", c.LogConfig.Level)
	}
	t := c.TransportConfig
	if !t.Stdio && !t.HTTP {
		return errors.New("transportConfig: at least one of stdio or http must be enabled")
	}
	// /wss 与 /mcp 挂在 HTTP 网关上
	if (t.Websocket || t.StreamableHTTP) && !t.HTTP {
		return errors.New("transportConfig: websocket and streamableHTTP require http = true")
	}
	if t.HTTP && (c.MainConfig.Port <= 0 || c.MainConfig.Port > 65535) {
		return fmt.Errorf("mainConfig.port %d is out of range", c.MainConfig.Port)
	}
	return nil
}

// Addr HTTP 监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.MainConfig.Host, c.MainConfig.Port)
}
