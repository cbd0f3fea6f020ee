package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/locale"
	"chatrelay/internal/model"
	"chatrelay/internal/pkg/errcode"
	httpx "chatrelay/internal/pkg/http"
	"chatrelay/internal/server/middleware"
	"chatrelay/internal/service"
)

// defaultMaxBodyBytes 请求体默认上限 (1 MiB)
const defaultMaxBodyBytes int64 = 1 << 20

// Relayer 转发服务接口
type Relayer interface {
	Relay(ctx context.Context, req *model.RelayRequest, meta service.RequestMeta) (*model.ChatOutput, error)
}

// RelayHandler 转发接口处理器
type RelayHandler struct {
	svc          Relayer
	lang         locale.Language
	maxBodyBytes int64
}

// NewRelayHandler 创建转发接口处理器
func NewRelayHandler(svc Relayer, lang locale.Language, maxBodyBytes int64) *RelayHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &RelayHandler{
		svc:          svc,
		lang:         lang,
		maxBodyBytes: maxBodyBytes,
	}
}

// Relay 转发对话请求
// @Summary      转发对话
// @Description  将对话请求转发到上游对话接口，返回包含本轮问答的完整对话。多轮对话由调用方在 continuous_dialogue 中回传 result 实现。
// @Tags         对话
// @Accept       json
// @Produce      json
// @Param        request  body      model.RelayRequest   true  "转发请求"
// @Success      200      {object}  model.RelayResponse  "请求成功"
// @Failure      400      {object}  model.ErrorResponse  "请求参数错误"
// @Failure      401      {object}  model.ErrorResponse  "上游鉴权失败"
// @Failure      429      {object}  model.ErrorResponse  "请求过于频繁"
// @Failure      500      {object}  model.ErrorResponse  "服务器内部错误"
// @Router       / [post]
func (h *RelayHandler) Relay(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	var req model.RelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, h.lang, bindError(err))
		return
	}

	out, err := h.svc.Relay(c.Request.Context(), &req, service.RequestMeta{
		RequestID:   c.GetString(middleware.RequestIDKey),
		ClientIP:    c.ClientIP(),
		BearerToken: bearerToken(c.GetHeader("Authorization")),
	})
	if err != nil {
		httpx.Error(c, h.lang, err)
		return
	}

	httpx.Success(c, h.lang, out)
}

// Deny 拒绝访问 (转发接口只接受 POST)
// @Summary      拒绝访问
// @Tags         对话
// @Produce      json
// @Failure      403  {object}  model.ErrorResponse  "拒绝访问"
// @Router       / [get]
func (h *RelayHandler) Deny(c *gin.Context) {
	httpx.Error(c, h.lang, errcode.AccessDenied())
}

// NotFound 路由不存在
func (h *RelayHandler) NotFound(c *gin.Context) {
	httpx.Error(c, h.lang, errcode.NotFound())
}

// bearerToken 提取 Authorization: Bearer <token>
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
