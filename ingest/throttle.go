package ingest

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle paces outbound extraction calls. It exists purely to respect
// upstream rate limits, not for correctness; a zero-valued DelayThrottle
// disables pacing entirely (useful in tests).
type Throttle interface {
	// BeforePage blocks before extracting a page. It is not called for the
	// first page of a document.
	BeforePage(ctx context.Context, page int) error

	// AfterRateLimit blocks after a page failed with a rate-limit error,
	// before the next page is attempted.
	AfterRateLimit(ctx context.Context) error
}

// DelayThrottle paces with fixed sleeps: PageDelay between pages and
// Cooldown after a rate-limit failure.
type DelayThrottle struct {
	PageDelay time.Duration
	Cooldown  time.Duration
}

var _ Throttle = (*DelayThrottle)(nil)

// BeforePage sleeps the configured inter-page delay.
func (t *DelayThrottle) BeforePage(ctx context.Context, _ int) error {
	return sleep(ctx, t.PageDelay)
}

// AfterRateLimit sleeps the configured cooldown.
func (t *DelayThrottle) AfterRateLimit(ctx context.Context) error {
	return sleep(ctx, t.Cooldown)
}

// LimiterThrottle paces with a token bucket instead of fixed sleeps,
// letting bursts through when the upstream quota allows it.
type LimiterThrottle struct {
	limiter  *rate.Limiter
	cooldown time.Duration
}

var _ Throttle = (*LimiterThrottle)(nil)

// NewLimiterThrottle creates a LimiterThrottle allowing rps extraction
// calls per second (burst of 1) and sleeping cooldown after a rate-limit
// failure.
func NewLimiterThrottle(rps float64, cooldown time.Duration) *LimiterThrottle {
	return &LimiterThrottle{
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		cooldown: cooldown,
	}
}

// BeforePage waits until the token bucket allows the next call.
func (t *LimiterThrottle) BeforePage(ctx context.Context, _ int) error {
	return t.limiter.Wait(ctx)
}

// AfterRateLimit sleeps the cooldown.
func (t *LimiterThrottle) AfterRateLimit(ctx context.Context) error {
	return sleep(ctx, t.cooldown)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
