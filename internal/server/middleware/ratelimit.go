package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"chatrelay/internal/locale"
	"chatrelay/internal/pkg/errcode"
	httpx "chatrelay/internal/pkg/http"
	"chatrelay/internal/pkg/metrics"
	"chatrelay/internal/pkg/ratelimit"
)

// RateLimit 按客户端地址限流
// limiter 出错时放行，避免 redis 故障导致服务不可用
func RateLimit(limiter ratelimit.Limiter, policy ratelimit.Policy, lang locale.Language, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn().Err(err).Str("client_ip", key).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !decision.Allowed {
			m.RecordRateLimitHit(decision.Window)
			httpx.Error(c, lang, errcode.RateLimited(policy.Ceilings()))
			return
		}

		c.Next()
	}
}
