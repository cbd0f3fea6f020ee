package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog/log"

	"chatrelay/internal/ai/component"
	"chatrelay/internal/config"
	relaymodel "chatrelay/internal/model"
	"chatrelay/internal/pkg/ctxutil"
)

// ModelFactory 根据配置创建 ChatModel
type ModelFactory func(ctx context.Context, cfg *config.AIConfig) (model.BaseChatModel, error)

// Client AI 能力层客户端
// 职责: 用请求携带的凭证调用上游对话接口，一次请求一次调用，不重试
type Client struct {
	cfg      *config.AIConfig
	newModel ModelFactory
}

// Option 客户端选项
type Option func(*Client)

// WithModelFactory 替换 ChatModel 的创建方式 (用于测试)
func WithModelFactory(f ModelFactory) Option {
	return func(c *Client) {
		c.newModel = f
	}
}

// NewClient 创建 AI 客户端
func NewClient(cfg *config.AIConfig, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg,
		newModel: component.NewChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompletionRequest 上游对话请求
type CompletionRequest struct {
	APIKey    string
	Model     string
	MaxTokens int
	Messages  []relaymodel.Turn
}

// CompletionResponse 上游对话响应
type CompletionResponse struct {
	Content string
	Usage   *relaymodel.TokenUsage
}

// Complete 同步调用上游对话接口
func (c *Client) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	// 每个请求使用独立的配置副本，避免并发请求互相覆盖凭证
	modelCfg := *c.cfg
	modelCfg.APIKey = req.APIKey
	modelCfg.Model = req.Model
	modelCfg.Options.MaxTokens = req.MaxTokens

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	chatModel, err := c.newModel(ctx, &modelCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	resp, err := chatModel.Generate(ctx, ToSchemaMessages(req.Messages))
	if err != nil {
		ue := classify(err)
		rid, _ := ctxutil.GetRequestID(ctx)
		log.Debug().
			Err(err).
			Str("request_id", rid).
			Str("model", req.Model).
			Int("upstream_status", ue.StatusCode).
			Bool("unauthorized", ue.Unauthorized).
			Msg("upstream chat completion failed")
		return nil, ue
	}
	if resp == nil {
		return nil, &UpstreamError{Err: errors.New("empty response from chat model")}
	}

	return &CompletionResponse{
		Content: resp.Content,
		Usage:   usageOf(resp),
	}, nil
}
