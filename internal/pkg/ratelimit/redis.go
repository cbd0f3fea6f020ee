package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// defaultKeyPrefix redis key 默认前缀
const defaultKeyPrefix = "chatrelay:ratelimit:"

// Counter 固定窗口计数器
// IncrWindow 对 key 自增并设置过期时间，返回自增后的值
type Counter interface {
	IncrWindow(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RedisLimiter 基于 redis 的固定窗口限流，多个实例共享计数
type RedisLimiter struct {
	policy  Policy
	counter Counter
	prefix  string
	now     func() time.Time
}

// NewRedisLimiter 创建 redis 限流器
func NewRedisLimiter(policy Policy, counter Counter, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisLimiter{
		policy:  policy,
		counter: counter,
		prefix:  prefix,
		now:     time.Now,
	}
}

// Allow 判断请求是否放行
// 计数失败时返回错误，由调用方决定是否放行
func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := r.now()
	for _, w := range r.policy.Windows {
		slot := now.UnixNano() / int64(w.Period)
		k := fmt.Sprintf("%s%s:%s:%d", r.prefix, key, w.Name, slot)

		n, err := r.counter.IncrWindow(ctx, k, w.Period)
		if err != nil {
			return Decision{Allowed: true}, fmt.Errorf("rate limit counter: %w", err)
		}
		if n > int64(w.Limit) {
			return Decision{Allowed: false, Window: w.Name}, nil
		}
	}
	return Decision{Allowed: true}, nil
}
