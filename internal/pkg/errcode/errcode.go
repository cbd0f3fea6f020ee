// Package errcode 定义转发接口的错误分类
package errcode

import (
	"errors"
	"net/http"
	"strings"

	"chatrelay/internal/model"
)

// Kind 错误类别
type Kind int

const (
	KindServer Kind = iota
	KindParameter
	KindUnauthorized
	KindAccessDenied
	KindNotFound
	KindRateLimited
)

// Status 错误类别对应的 HTTP 状态码
func (k Kind) Status() int {
	switch k {
	case KindParameter:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindAccessDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// String 错误类别名称（日志和指标使用）
func (k Kind) String() string {
	switch k {
	case KindParameter:
		return "parameter_error"
	case KindUnauthorized:
		return "unauthorized"
	case KindAccessDenied:
		return "access_denied"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "server_error"
	}
}

// Error 转发接口错误
type Error struct {
	Kind     Kind
	Detail   string          // 附加在提示文本中的详情
	Models   []string        // 不支持的模型时，返回支持的模型列表
	Ceilings *model.Ceilings // 限流时，返回生效的阈值
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil && (e.Detail == "" || e.Detail != e.Err.Error()) {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parameter 请求参数错误
func Parameter(detail string) *Error {
	return &Error{Kind: KindParameter, Detail: detail}
}

// UnsupportedModel 不支持的模型
func UnsupportedModel(models []string) *Error {
	return &Error{Kind: KindParameter, Models: models}
}

// Unauthorized 上游鉴权失败
func Unauthorized(err error) *Error {
	e := &Error{Kind: KindUnauthorized, Err: err}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// AccessDenied 拒绝访问
func AccessDenied() *Error {
	return &Error{Kind: KindAccessDenied}
}

// NotFound 路由不存在
func NotFound() *Error {
	return &Error{Kind: KindNotFound}
}

// RateLimited 请求过于频繁
func RateLimited(ceilings model.Ceilings) *Error {
	return &Error{Kind: KindRateLimited, Ceilings: &ceilings}
}

// Server 服务器内部错误，err 的内容会附加在提示中
func Server(err error) *Error {
	e := &Error{Kind: KindServer, Err: err}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// From 将任意错误转换为 *Error，未分类的错误视为服务器内部错误
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Server(err)
}
