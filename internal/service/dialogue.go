package service

import (
	"slices"

	"chatrelay/internal/model"
)

// Dialogue 一次转发涉及的对话
// History 为调用方传入的历史；若其中没有系统消息，会在开头补上一条
type Dialogue struct {
	History []model.Turn
	System  string
	User    string
}

// NewDialogue 组装对话，不修改调用方的历史切片
func NewDialogue(history []model.Turn, system, user string) Dialogue {
	h := make([]model.Turn, 0, len(history)+1)
	if !slices.ContainsFunc(history, func(t model.Turn) bool { return t.Role == model.RoleSystem }) {
		h = append(h, model.SystemTurn(system))
	}
	h = append(h, history...)

	return Dialogue{History: h, System: system, User: user}
}

// Messages 发送给上游的消息: 历史 + 本轮系统消息 + 用户消息
func (d Dialogue) Messages() []model.Turn {
	out := make([]model.Turn, 0, len(d.History)+2)
	out = append(out, d.History...)
	return append(out, model.SystemTurn(d.System), model.UserTurn(d.User))
}

// Result 返回给调用方的完整对话: 历史 + 用户消息 + 助手回复
func (d Dialogue) Result(answer string) []model.Turn {
	out := make([]model.Turn, 0, len(d.History)+2)
	out = append(out, d.History...)
	return append(out, model.UserTurn(d.User), model.AssistantTurn(answer))
}
