package publish

import (
	"sync"
	"time"

	"github.com/failsafe-go/failsafe-go/ratelimiter"

	"github.com/FilippTrigub/showNDev/internal/content"
)

// Throttle enforces minimum spacing between consecutive publishes to
// the same platform. A denied permit is reported as rate_limited
// without touching the network; this is a courtesy throttle, not a
// stand-in for the platform's own limits.
type Throttle struct {
	interval time.Duration

	mu       sync.Mutex
	limiters map[content.Platform]ratelimiter.RateLimiter[any]
}

// NewThrottle creates a per-platform throttle with the given minimum
// spacing. An interval of zero disables throttling.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		limiters: make(map[content.Platform]ratelimiter.RateLimiter[any]),
	}
}

// Allow reports whether a publish to the platform may proceed now.
func (t *Throttle) Allow(platform content.Platform) bool {
	if t == nil || t.interval <= 0 {
		return true
	}

	t.mu.Lock()
	limiter, ok := t.limiters[platform]
	if !ok {
		limiter = ratelimiter.NewSmoothBuilderWithMaxRate[any](t.interval).Build()
		t.limiters[platform] = limiter
	}
	t.mu.Unlock()

	return limiter.TryAcquirePermit()
}
