package ratelimiter

import (
	"sync"
	"time"

	"github.com/SeakMengs/MarsAI/internal/config"
	"github.com/SeakMengs/MarsAI/internal/util"
	"go.uber.org/zap"
)

func NewRateLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("test")
	}

	return NewFixedWindowLimiter(cfg, logger)
}

type window struct {
	start time.Time
	count int
}

// FixedWindowRateLimiter allows Limit requests per key in each TimeFrame. The window
// of a key starts at its first request.
type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	frame   time.Duration
	enabled bool
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewFixedWindowLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   cfg.RequestsPerTimeFrame,
		frame:   cfg.TimeFrame,
		enabled: cfg.Enabled && cfg.RequestsPerTimeFrame > 0 && cfg.TimeFrame > 0,
		logger:  logger,
		now:     time.Now,
	}
}

func (rl *FixedWindowRateLimiter) Enabled() bool {
	return rl.enabled
}

// Allow records a request for key. When it is refused the second value tells how long
// until the window resets.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	if !rl.enabled {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok || now.Sub(w.start) >= rl.frame {
		rl.clients[key] = &window{start: now, count: 1}
		rl.evict(now)
		return true, 0
	}

	if w.count >= rl.limit {
		retryAfter := w.start.Add(rl.frame).Sub(now)
		rl.logger.Debugf("Rate limit exceeded for %s, retry after %s", key, retryAfter)
		return false, retryAfter
	}

	w.count++
	return true, 0
}

// evict drops expired windows so the map does not grow with every client ever seen.
// Caller holds the lock.
func (rl *FixedWindowRateLimiter) evict(now time.Time) {
	if len(rl.clients) < 1024 {
		return
	}
	for k, w := range rl.clients {
		if now.Sub(w.start) >= rl.frame {
			delete(rl.clients, k)
		}
	}
}
