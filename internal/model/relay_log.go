package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelayLog 转发请求日志（仅写入，不参与后续请求）
type RelayLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID      string             `bson:"request_id" json:"request_id"`
	ClientIP       string             `bson:"client_ip" json:"client_ip"`
	Model          string             `bson:"model" json:"model"`
	KeyFingerprint string             `bson:"key_fingerprint" json:"key_fingerprint"` // API Key 指纹，不保存原文
	MaxTokens      int                `bson:"max_tokens" json:"max_tokens"`
	UserContent    string             `bson:"user_content" json:"user_content"`
	Answer         string             `bson:"answer,omitempty" json:"answer,omitempty"`
	StatusCode     int                `bson:"status_code" json:"status_code"`
	Error          string             `bson:"error,omitempty" json:"error,omitempty"`
	Usage          *TokenUsage        `bson:"usage,omitempty" json:"usage,omitempty"`
	LatencyMs      int64              `bson:"latency_ms" json:"latency_ms"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
