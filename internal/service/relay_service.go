package service

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"chatrelay/internal/ai"
	"chatrelay/internal/config"
	"chatrelay/internal/model"
	"chatrelay/internal/pkg/credential"
	"chatrelay/internal/pkg/errcode"
	"chatrelay/internal/pkg/metrics"
)

// saveLogTimeout 写入请求日志的超时时间
const saveLogTimeout = 3 * time.Second

// Completer 上游对话接口
type Completer interface {
	Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error)
}

// RelayLogWriter 请求日志存储
type RelayLogWriter interface {
	Insert(ctx context.Context, entry *model.RelayLog) error
}

// RequestMeta 请求的元信息
type RequestMeta struct {
	RequestID   string
	ClientIP    string
	BearerToken string
}

// RelayService 转发服务 - 业务逻辑层
// 职责: 校验请求 -> 组装对话 -> 调用上游 -> 返回完整对话
type RelayService struct {
	cfg       *config.RelayConfig
	completer Completer
	logs      RelayLogWriter // 可为 nil
	metrics   *metrics.Metrics
}

// NewRelayService 创建转发服务
func NewRelayService(cfg *config.RelayConfig, completer Completer, logs RelayLogWriter, m *metrics.Metrics) *RelayService {
	return &RelayService{
		cfg:       cfg,
		completer: completer,
		logs:      logs,
		metrics:   m,
	}
}

// Relay 处理一次转发请求
// 返回的错误均为 *errcode.Error
func (s *RelayService) Relay(ctx context.Context, req *model.RelayRequest, meta RequestMeta) (*model.ChatOutput, error) {
	logger := log.With().Str("request_id", meta.RequestID).Logger()

	in, err := ParseRequest(req, meta.BearerToken, s.cfg)
	if err != nil {
		logger.Debug().Err(err).Msg("invalid relay request")
		return nil, err
	}

	dialogue := NewDialogue(in.ContinuousDialogue, in.SystemContent, in.UserContent)

	start := time.Now()
	resp, err := s.completer.Complete(ctx, &ai.CompletionRequest{
		APIKey:    in.APIKey,
		Model:     in.Model,
		MaxTokens: in.MaxTokens,
		Messages:  dialogue.Messages(),
	})
	latency := time.Since(start)

	if err != nil {
		var relayErr *errcode.Error
		outcome := "error"
		if ai.IsUnauthorized(err) {
			relayErr = errcode.Unauthorized(err)
			outcome = "unauthorized"
		} else {
			relayErr = errcode.Server(err)
		}
		s.metrics.ObserveUpstream(in.Model, outcome, latency)

		logger.Warn().
			Err(err).
			Str("model", in.Model).
			Str("key", credential.Mask(in.APIKey)).
			Dur("latency", latency).
			Msg("upstream chat completion failed")

		s.saveLog(ctx, meta, in, &model.RelayLog{
			StatusCode: relayErr.Kind.Status(),
			Error:      err.Error(),
			LatencyMs:  latency.Milliseconds(),
		})
		return nil, relayErr
	}
	s.metrics.ObserveUpstream(in.Model, "ok", latency)

	out := &model.ChatOutput{
		Result:          dialogue.Result(resp.Content),
		CurrentResponse: resp.Content,
		Usage:           resp.Usage,
	}

	event := logger.Info().
		Str("model", in.Model).
		Int("turns", len(out.Result)).
		Dur("latency", latency)
	if resp.Usage != nil {
		event = event.
			Int("prompt_tokens", resp.Usage.PromptTokens).
			Int("completion_tokens", resp.Usage.CompletionTokens)
	}
	event.Msg("chat relayed")

	s.saveLog(ctx, meta, in, &model.RelayLog{
		Answer:     resp.Content,
		StatusCode: http.StatusOK,
		Usage:      resp.Usage,
		LatencyMs:  latency.Milliseconds(),
	})

	return out, nil
}

// saveLog 在开启 save_logs 时记录本次转发，失败不影响响应
func (s *RelayService) saveLog(ctx context.Context, meta RequestMeta, in *model.ChatInput, entry *model.RelayLog) {
	if !s.cfg.SaveLogs {
		return
	}

	entry.RequestID = meta.RequestID
	entry.ClientIP = meta.ClientIP
	entry.Model = in.Model
	entry.KeyFingerprint = credential.Fingerprint(in.APIKey)
	entry.MaxTokens = in.MaxTokens
	entry.UserContent = in.UserContent
	entry.CreatedAt = time.Now()

	if s.logs == nil {
		log.Info().
			Str("request_id", entry.RequestID).
			Str("client_ip", entry.ClientIP).
			Str("model", entry.Model).
			Str("key_fingerprint", entry.KeyFingerprint).
			Int("status", entry.StatusCode).
			Str("user_content", entry.UserContent).
			Str("answer", entry.Answer).
			Str("error", entry.Error).
			Int64("latency_ms", entry.LatencyMs).
			Msg("relay log")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveLogTimeout)
	defer cancel()

	if err := s.logs.Insert(ctx, entry); err != nil {
		log.Warn().Err(err).Str("request_id", meta.RequestID).Msg("failed to save relay log")
	}
}
