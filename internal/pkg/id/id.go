package id

import (
	"strings"

	"github.com/google/uuid"
)

// maxRequestIDLen 调用方传入的请求 ID 最大长度
const maxRequestIDLen = 64

// New 生成新的请求 ID (UUID v4)
func New() string {
	return uuid.New().String()
}

// RequestID 沿用调用方传入的请求 ID，缺失或不合法时生成新的
// 合法的请求 ID 为 UUID，或不超过 64 个字符的字母、数字、'-'、'_'
func RequestID(incoming string) string {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" {
		return New()
	}
	if _, err := uuid.Parse(incoming); err == nil {
		return incoming
	}
	if len(incoming) > maxRequestIDLen {
		return New()
	}
	for _, r := range incoming {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return New()
		}
	}
	return incoming
}
