// Package ratelimit 按客户端地址限流
//
// 支持每小时、每分钟、每秒三个窗口，任一窗口超限即拒绝。
// 未配置任何阈值时不创建限流器。
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"chatrelay/internal/config"
	"chatrelay/internal/model"
)

// Window 一个限流窗口
type Window struct {
	Name   string        // second, minute, hour
	Period time.Duration // 窗口长度
	Limit  int           // 窗口内允许的请求数
}

// Policy 限流策略
type Policy struct {
	Windows []Window
}

// NewPolicy 根据配置创建限流策略，阈值 <= 0 的窗口不启用
func NewPolicy(cfg config.RateLimitConfig) Policy {
	var p Policy
	if cfg.Second > 0 {
		p.Windows = append(p.Windows, Window{Name: "second", Period: time.Second, Limit: cfg.Second})
	}
	if cfg.Minute > 0 {
		p.Windows = append(p.Windows, Window{Name: "minute", Period: time.Minute, Limit: cfg.Minute})
	}
	if cfg.Hour > 0 {
		p.Windows = append(p.Windows, Window{Name: "hour", Period: time.Hour, Limit: cfg.Hour})
	}
	return p
}

// Enabled 是否启用了任意窗口
func (p Policy) Enabled() bool {
	return len(p.Windows) > 0
}

// Ceilings 生效中的阈值 (用于提示信息)
func (p Policy) Ceilings() model.Ceilings {
	var c model.Ceilings
	for _, w := range p.Windows {
		switch w.Name {
		case "second":
			c.Second = w.Limit
		case "minute":
			c.Minute = w.Limit
		case "hour":
			c.Hour = w.Limit
		}
	}
	return c
}

// longest 最长的窗口长度
func (p Policy) longest() time.Duration {
	var d time.Duration
	for _, w := range p.Windows {
		if w.Period > d {
			d = w.Period
		}
	}
	return d
}

// Decision 限流结果
type Decision struct {
	Allowed bool
	Window  string // 被拒绝时，超限的窗口名
}

// Limiter 限流器
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// New 根据配置创建限流器
// 未配置阈值时返回 nil；redis 后端需要传入 counter
func New(cfg config.RateLimitConfig, counter Counter) (Limiter, error) {
	policy := NewPolicy(cfg)
	if !policy.Enabled() {
		return nil, nil
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryLimiter(policy, cfg.IdleTTL), nil
	case "redis":
		if counter == nil {
			return nil, fmt.Errorf("redis rate limit backend requires a redis connection")
		}
		return NewRedisLimiter(policy, counter, cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", cfg.Backend)
	}
}
