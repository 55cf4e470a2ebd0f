package zlog

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志初始化参数
type Options struct {
	LogPath    string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var logger atomic.Pointer[zap.Logger]

func init() {
	// 默认只写 stderr，stdout 留给 stdio 传输
	logger.Store(zap.New(newStderrCore(zapcore.InfoLevel)))
}

// Setup 按配置重建全局 logger
func Setup(opts Options) error {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	cores := []zapcore.Core{newStderrCore(level)}
	if path := strings.TrimSpace(opts.LogPath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		writer := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    withDefault(opts.MaxSizeMB, 100),
			MaxBackups: withDefault(opts.MaxBackups, 5),
			MaxAge:     withDefault(opts.MaxAgeDays, 30),
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig()),
			zapcore.AddSync(writer),
			level,
		))
	}

	logger.Store(zap.New(zapcore.NewTee(cores...)))
	return nil
}

// SetLogger 替换全局 logger，测试里用 zaptest/observer
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// L 返回当前全局 logger
func L() *zap.Logger {
	return logger.Load()
}

// ParseLevel 解析日志级别，空串为 info
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func Debug(message string, fields ...zap.Field) {
	L().Debug(message, append(fields, callerField())...)
}

func Info(message string, fields ...zap.Field) {
	L().Info(message, append(fields, callerField())...)
}

func Warn(message string, fields ...zap.Field) {
	L().Warn(message, append(fields, callerField())...)
}

func Error(message string, fields ...zap.Field) {
	L().Error(message, append(fields, callerField())...)
}

func Fatal(message string, fields ...zap.Field) {
	L().Fatal(message, append(fields, callerField())...)
}

// Sync 刷新缓冲
func Sync() {
	_ = L().Sync()
}

func newStderrCore(level zapcore.Level) zapcore.Core {
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func callerField() zap.Field {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return zap.Skip()
	}
	return zap.String("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
