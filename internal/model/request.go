package model

// Role 对话角色
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn 一轮对话消息
type Turn struct {
	Role    Role   `json:"role" bson:"role" binding:"oneof=system user assistant"`
	Content string `json:"content" bson:"content"`
}

// SystemTurn 创建系统消息
func SystemTurn(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

// UserTurn 创建用户消息
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn 创建助手消息
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// RelayRequest 转发请求
// UserContent/MaxTokens 使用指针，区分字段缺失 (或 null) 与零值
type RelayRequest struct {
	SystemContent      string  `json:"system_content,omitempty"`                               // 系统提示
	UserContent        *string `json:"user_content" binding:"required"`                        // 用户输入（必填）
	Model              string  `json:"model,omitempty"`                                        // 模型名称
	APIKey             string  `json:"api_key,omitempty"`                                      // API Key，系统配置了默认 Key 时可省略
	MaxTokens          *int    `json:"max_tokens,omitempty" binding:"omitempty,gt=0"`          // 最大生成 token 数
	ContinuousDialogue []Turn  `json:"continuous_dialogue,omitempty" binding:"omitempty,dive"` // 历史对话，由调用方维护
}

// ChatInput 校验后的转发请求
type ChatInput struct {
	SystemContent      string
	UserContent        string
	Model              string
	APIKey             string
	MaxTokens          int
	ContinuousDialogue []Turn
}
