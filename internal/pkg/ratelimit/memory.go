package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// minSweepInterval 回收空闲客户端的最小间隔
const minSweepInterval = time.Minute

// MemoryLimiter 进程内令牌桶限流
// 每个客户端每个窗口一个 rate.Limiter，容量等于阈值，按阈值/窗口长度匀速补充
type MemoryLimiter struct {
	policy  Policy
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientState
	lastSweep time.Time
}

type clientState struct {
	limiters []*rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter 创建进程内限流器
// idleTTL 小于最长窗口时按最长窗口处理，保证回收的客户端令牌已补满
func NewMemoryLimiter(policy Policy, idleTTL time.Duration) *MemoryLimiter {
	if l := policy.longest(); idleTTL < l {
		idleTTL = l
	}
	return &MemoryLimiter{
		policy:  policy,
		idleTTL: idleTTL,
		now:     time.Now,
		clients: make(map[string]*clientState),
	}
}

// Allow 判断请求是否放行；任一窗口超限时不消耗其他窗口的令牌
func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	st, ok := m.clients[key]
	if !ok {
		st = &clientState{limiters: make([]*rate.Limiter, len(m.policy.Windows))}
		for i, w := range m.policy.Windows {
			st.limiters[i] = rate.NewLimiter(rate.Every(w.Period/time.Duration(w.Limit)), w.Limit)
		}
		m.clients[key] = st
	}
	st.lastSeen = now

	reservations := make([]*rate.Reservation, 0, len(st.limiters))
	for i, l := range st.limiters {
		r := l.ReserveN(now, 1)
		if !r.OK() || r.DelayFrom(now) > 0 {
			r.CancelAt(now)
			for _, prev := range reservations {
				prev.CancelAt(now)
			}
			return Decision{Allowed: false, Window: m.policy.Windows[i].Name}, nil
		}
		reservations = append(reservations, r)
	}

	return Decision{Allowed: true}, nil
}

// Len 当前跟踪的客户端数量
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

func (m *MemoryLimiter) sweepLocked(now time.Time) {
	interval := m.idleTTL
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	if now.Sub(m.lastSweep) < interval {
		return
	}
	m.lastSweep = now

	for key, st := range m.clients {
		if now.Sub(st.lastSeen) >= m.idleTTL {
			delete(m.clients, key)
		}
	}
}
