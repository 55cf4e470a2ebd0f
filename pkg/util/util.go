package util

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewSessionID websocket 会话 ID，标准 UUID v4 格式
func NewSessionID() string {
	return uuid.NewString()
}

// NewCallID 调用 ID，UUID v7 去掉中划线，按时间递增便于在日志中排序
func NewCallID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return hex.EncodeToString(id[:])
}
