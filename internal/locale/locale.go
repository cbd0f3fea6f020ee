// Package locale 提供转发接口的多语言提示文本
package locale

import (
	"fmt"
	"strings"
)

// Language 提示语言
type Language int

const (
	Chinese Language = iota
	English
)

// Default 无法识别语言标签时使用的语言
const Default = Chinese

// Languages 所有支持的语言
var Languages = []Language{Chinese, English}

// Parse 解析语言标签，无法识别时返回 Default
func Parse(tag string) Language {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.ReplaceAll(tag, "_", "-")
	if i := strings.IndexByte(tag, '-'); i > 0 {
		tag = tag[:i]
	}

	switch tag {
	case "zh", "cn", "chinese":
		return Chinese
	case "en", "english":
		return English
	default:
		return Default
	}
}

// String 返回语言标签
func (l Language) String() string {
	switch l {
	case English:
		return "en"
	default:
		return "zh"
	}
}

// Key 提示文本的键
type Key int

const (
	Success Key = iota
	BadRequest
	UnsupportedModel
	Unauthorized
	Forbidden
	NotFound
	RateLimited
	ServerError
	ServerErrorDetail
)

// Keys 所有提示文本的键
var Keys = []Key{
	Success, BadRequest, UnsupportedModel, Unauthorized, Forbidden,
	NotFound, RateLimited, ServerError, ServerErrorDetail,
}

var catalog = map[Language]map[Key]string{
	Chinese: {
		Success:           "请求成功",
		BadRequest:        "请求参数错误",
		UnsupportedModel:  "不支持的模型，支持的模型：%s",
		Unauthorized:      "未授权，请检查您的API Key，错误代码：%s",
		Forbidden:         "拒绝访问",
		NotFound:          "请求错误",
		RateLimited:       "请求过于频繁，请稍后再试，请求次数限制：%s",
		ServerError:       "服务器内部错误，请联系管理员",
		ServerErrorDetail: "服务器内部错误，请联系管理员，错误代码：%s",
	},
	English: {
		Success:           "request succeeded",
		BadRequest:        "invalid request parameters",
		UnsupportedModel:  "unsupported model, supported models: %s",
		Unauthorized:      "unauthorized, please check your API key, error: %s",
		Forbidden:         "access denied",
		NotFound:          "not found",
		RateLimited:       "too many requests, please try again later, limits: %s",
		ServerError:       "internal server error, please contact the administrator",
		ServerErrorDetail: "internal server error, please contact the administrator, error: %s",
	},
}

// Text 返回提示文本，缺失时回退到默认语言
func (l Language) Text(k Key) string {
	if msgs, ok := catalog[l]; ok {
		if s, ok := msgs[k]; ok {
			return s
		}
	}
	return catalog[Default][k]
}

// Format 使用参数格式化提示文本
func (l Language) Format(k Key, args ...any) string {
	return fmt.Sprintf(l.Text(k), args...)
}

// Separator 列表分隔符
func (l Language) Separator() string {
	if l == English {
		return ", "
	}
	return "、"
}

// WithDetail 在提示文本后附加详情
func (l Language) WithDetail(k Key, detail string) string {
	if detail == "" {
		return l.Text(k)
	}
	if l == English {
		return l.Text(k) + ": " + detail
	}
	return l.Text(k) + "：" + detail
}

// RateLimitMessage 生成限流提示，只列出已启用的阈值
func (l Language) RateLimitMessage(perSecond, perMinute, perHour int) string {
	var parts []string
	add := func(n int, zh, en string) {
		if n <= 0 {
			return
		}
		if l == English {
			parts = append(parts, fmt.Sprintf("%d per %s", n, en))
		} else {
			parts = append(parts, fmt.Sprintf("每%s：%d次", zh, n))
		}
	}
	add(perSecond, "秒", "second")
	add(perMinute, "分钟", "minute")
	add(perHour, "小时", "hour")

	return l.Format(RateLimited, strings.Join(parts, l.Separator()))
}
