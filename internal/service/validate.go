package service

import (
	"slices"
	"strings"

	"chatrelay/internal/config"
	"chatrelay/internal/model"
	"chatrelay/internal/pkg/errcode"
)

// fallbackMaxTokens 配置未指定 default_max_tokens 时的默认值
const fallbackMaxTokens = 64

// ParseRequest 根据配置补全已绑定的请求，缺省字段使用默认值
// 字段类型、必填及取值范围由 binding 标签校验；这里只处理依赖配置的规则
// bearer 为 Authorization 头中的凭证，仅在请求体未携带 api_key 时使用
func ParseRequest(req *model.RelayRequest, bearer string, cfg *config.RelayConfig) (*model.ChatInput, error) {
	if req == nil || req.UserContent == nil {
		return nil, errcode.Parameter("missing user_content")
	}

	in := &model.ChatInput{
		SystemContent:      req.SystemContent,
		UserContent:        *req.UserContent,
		Model:              cfg.DefaultModel,
		MaxTokens:          cfg.DefaultMaxTokens,
		ContinuousDialogue: req.ContinuousDialogue,
	}
	if in.MaxTokens <= 0 {
		in.MaxTokens = fallbackMaxTokens
	}

	in.APIKey = strings.TrimSpace(req.APIKey)
	if in.APIKey == "" {
		in.APIKey = strings.TrimSpace(bearer)
	}
	if in.APIKey == "" {
		if !cfg.HasDefaultKey() {
			return nil, errcode.Parameter("missing api_key")
		}
		in.APIKey = strings.TrimSpace(cfg.APIKey)
	}

	if m := strings.TrimSpace(req.Model); m != "" {
		in.Model = m
	}
	if len(cfg.SupportedModels) > 0 && !slices.Contains(cfg.SupportedModels, in.Model) {
		return nil, errcode.UnsupportedModel(cfg.SupportedModels)
	}

	if req.MaxTokens != nil {
		if *req.MaxTokens <= 0 {
			return nil, errcode.Parameter("max_tokens must be a positive integer")
		}
		in.MaxTokens = *req.MaxTokens
	}

	return in, nil
}
