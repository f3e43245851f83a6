package governor

import (
	"time"

	"github.com/dinehub/orderflow/internal/models"
)

// Governor guards calls to an external provider with a per-tenant fixed
// window rate limiter and a circuit breaker. Both checks run before the
// provider is invoked; a rejection from either means it is never called.
type Governor struct {
	store     KeyedStore
	limit     int
	window    time.Duration
	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

// Option configures Governor
type Option func(*Governor)

// WithLimit sets rate limit per window
func WithLimit(limit int) Option {
	return func(g *Governor) { g.limit = limit }
}

// WithWindow sets rate window length
func WithWindow(window time.Duration) Option {
	return func(g *Governor) { g.window = window }
}

// WithThreshold sets consecutive failures before the breaker opens
func WithThreshold(threshold int) Option {
	return func(g *Governor) { g.threshold = threshold }
}

// WithCooldown sets how long the breaker stays open
func WithCooldown(cooldown time.Duration) Option {
	return func(g *Governor) { g.cooldown = cooldown }
}

// New creates new Governor instance with default limits (10 calls / 60s,
// 3 failures to open, 60s cooldown)
func New(store KeyedStore, opts ...Option) *Governor {
	g := &Governor{
		store:     store,
		limit:     10,
		window:    60 * time.Second,
		threshold: 3,
		cooldown:  60 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Allow evaluates the rate limiter and then the breaker for tenant. It
// returns ErrRateLimited or ErrCircuitOpen, nil when the call may proceed.
func (g *Governor) Allow(tenantID string) error {
	for {
		prev, _ := g.store.Get(tenantID)
		now := g.now()
		next := prev

		// fixed window: reset once elapsed, then count this call
		if now.Sub(next.WindowStart) >= g.window {
			next.WindowStart = now
			next.Count = 0
		}
		next.Count++
		rateOK := next.Count <= g.limit

		// lazily close the breaker after the cooldown
		if !next.OpenedAt.IsZero() && now.Sub(next.OpenedAt) > g.cooldown {
			next.OpenedAt = time.Time{}
			next.ConsecutiveFailures = 0
		}
		open := !next.OpenedAt.IsZero()

		if !g.store.CompareAndSwap(tenantID, prev, next) {
			continue
		}

		if !rateOK {
			return models.ErrRateLimited
		}
		if open {
			return models.ErrCircuitOpen
		}
		return nil
	}
}

// Record feeds a provider call result into the breaker for tenant
func (g *Governor) Record(tenantID string, callErr error) {
	for {
		prev, _ := g.store.Get(tenantID)
		next := prev

		if callErr != nil {
			next.ConsecutiveFailures++
			if next.ConsecutiveFailures >= g.threshold {
				next.OpenedAt = g.now()
				next.ConsecutiveFailures = 0
			}
		} else if next.OpenedAt.IsZero() {
			next.ConsecutiveFailures = 0
		}

		if g.store.CompareAndSwap(tenantID, prev, next) {
			return
		}
	}
}
