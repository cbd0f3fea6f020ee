package ai

import (
	"github.com/cloudwego/eino/schema"

	"chatrelay/internal/model"
)

// ToSchemaMessages 将对话转换为 Eino 消息，保持顺序
func ToSchemaMessages(turns []model.Turn) []*schema.Message {
	messages := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case model.RoleSystem:
			messages = append(messages, schema.SystemMessage(t.Content))
		case model.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(t.Content, nil))
		default:
			messages = append(messages, schema.UserMessage(t.Content))
		}
	}
	return messages
}

// usageOf 提取 token 使用统计
func usageOf(msg *schema.Message) *model.TokenUsage {
	if msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return nil
	}
	u := msg.ResponseMeta.Usage
	return &model.TokenUsage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}
