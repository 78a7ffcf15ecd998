package match

import (
	"context"
	"time"

	xrate "golang.org/x/time/rate"

	"github.com/teranos/tabix/errors"
	"github.com/teranos/tabix/logger"
	"github.com/teranos/tabix/rate"
	"github.com/teranos/tabix/table"
)

// WithTimeout bounds each matcher call to d. A call that runs out of time
// counts 0 matches instead of failing. d <= 0 returns m unchanged.
func WithTimeout(m rate.Matcher, d time.Duration) rate.Matcher {
	if d <= 0 {
		return m
	}
	log := logger.ComponentLogger("match.timeout")

	return rate.MatcherFunc(func(ctx context.Context, column int, t table.Table) (int, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		type result struct {
			n   int
			err error
		}
		done := make(chan result, 1)
		go func() {
			n, err := m.CountMatchingColumns(ctx, column, t)
			done <- result{n, err}
		}()

		select {
		case r := <-done:
			if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.Warnw("Matcher timed out, counting 0 matches", logger.FieldColumn, column, "timeout", d)
				return 0, nil
			}
			return r.n, r.err
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.Warnw("Matcher timed out, counting 0 matches", logger.FieldColumn, column, "timeout", d)
				return 0, nil
			}
			return 0, ctx.Err()
		}
	})
}

// WithRateLimit makes each matcher call wait for a token from limiter.
// A nil limiter returns m unchanged.
func WithRateLimit(m rate.Matcher, limiter *xrate.Limiter) rate.Matcher {
	if limiter == nil {
		return m
	}
	return rate.MatcherFunc(func(ctx context.Context, column int, t table.Table) (int, error) {
		if err := limiter.Wait(ctx); err != nil {
			return 0, errors.Wrap(err, "matcher rate limit")
		}
		return m.CountMatchingColumns(ctx, column, t)
	})
}

// NewLimiter returns a limiter allowing perSecond calls with a burst of one,
// or nil when perSecond <= 0.
func NewLimiter(perSecond float64) *xrate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return xrate.NewLimiter(xrate.Limit(perSecond), 1)
}

// Static reports a fixed count per column; columns not in the map count 0.
type Static map[int]int

// CountMatchingColumns implements rate.Matcher.
func (s Static) CountMatchingColumns(_ context.Context, column int, _ table.Table) (int, error) {
	return s[column], nil
}

// Failing is a matcher whose every call fails with Err.
type Failing struct {
	Err error
}

// CountMatchingColumns implements rate.Matcher.
func (f Failing) CountMatchingColumns(context.Context, int, table.Table) (int, error) {
	if f.Err == nil {
		return 0, errors.New("matcher unavailable")
	}
	return 0, f.Err
}
