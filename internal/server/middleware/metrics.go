package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/pkg/metrics"
)

// Metrics 记录请求数和耗时
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
