package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"chatrelay/internal/locale"
	"chatrelay/internal/pkg/errcode"
	httpx "chatrelay/internal/pkg/http"
)

// Recovery 异常恢复中间件，panic 转换为 500 响应
// panic 内容只写入日志，响应使用通用的服务器错误提示
func Recovery(lang locale.Language) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("path", c.Request.URL.Path).
					Str("method", c.Request.Method).
					Str("request_id", c.GetString(RequestIDKey)).
					Msg("panic recovered")

				httpx.Error(c, lang, errcode.Server(nil))
			}
		}()
		c.Next()
	}
}
