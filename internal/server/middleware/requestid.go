package middleware

import (
	"github.com/gin-gonic/gin"

	"chatrelay/internal/pkg/ctxutil"
	"chatrelay/internal/pkg/id"
)

const (
	// RequestIDHeader 请求 ID 头
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey 请求 ID 在 gin.Context 中的 key
	RequestIDKey = "request_id"
)

// RequestID 为每个请求分配请求 ID，写回响应头并注入 request context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := id.RequestID(c.GetHeader(RequestIDHeader))
		c.Set(RequestIDKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}
