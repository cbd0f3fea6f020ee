package model

// RelayResponse 转发成功响应
type RelayResponse struct {
	Code            int    `json:"code"`
	Msg             string `json:"msg"`
	Result          []Turn `json:"result"`           // 完整对话，调用方下次请求时作为 continuous_dialogue 传入
	CurrentResponse string `json:"current_response"` // 本次回复内容
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code            int       `json:"code"`
	Msg             string    `json:"msg"`
	SupportedModels []string  `json:"supported_models,omitempty"`
	Limits          *Ceilings `json:"limits,omitempty"`
}

// Ceilings 生效中的限流阈值
type Ceilings struct {
	Second int `json:"second,omitempty"`
	Minute int `json:"minute,omitempty"`
	Hour   int `json:"hour,omitempty"`
}

// TokenUsage Token 使用统计
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens" bson:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" bson:"completion_tokens"`
	TotalTokens      int `json:"total_tokens" bson:"total_tokens"`
}

// ChatOutput 转发结果
type ChatOutput struct {
	Result          []Turn
	CurrentResponse string
	Usage           *TokenUsage
}
