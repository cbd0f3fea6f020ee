// Package credential 处理调用方凭证
package credential

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// fingerprintLen 指纹长度 (十六进制字符数)
const fingerprintLen = 16

// Fingerprint 返回 API Key 的不可逆指纹，用于日志中区分调用方
// 空 Key 返回空字符串
func Fingerprint(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// Mask 遮盖 API Key，只保留前后各 4 位
func Mask(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:4] + "****" + apiKey[len(apiKey)-4:]
}
