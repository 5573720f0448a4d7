package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

const (
	defaultMaxAttempts  = 5
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errors.New("base delay must not be negative")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

type Func func(ctx context.Context) error

type config struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	onRetry      func(attempt int, err error)
	retryIf      func(err error) bool
}

// WithExponentialBackoff runs fn until it succeeds, fails with an error that is
// not retryable (Conflict by default), or runs out of attempts. Delays grow as
// baseDelay * 2^(attempt-1) plus jitter.
func WithExponentialBackoff(ctx context.Context, fn Func, options ...Option) error {
	conf := &config{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
		retryIf:      func(err error) bool { return domain.IsKind(err, domain.KindConflict) },
	}

	for _, option := range options {
		if err := option(conf); err != nil {
			return err
		}
	}

	var lastErr error

	for attempt := 0; attempt < conf.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := conf.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * conf.jitterFactor //nolint:gosec

			select {
			case <-time.After(delay + time.Duration(jitter)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !conf.retryIf(lastErr) {
			return lastErr
		}

		if conf.onRetry != nil && attempt < conf.maxAttempts-1 {
			conf.onRetry(attempt+1, lastErr)
		}
	}

	return lastErr
}

type Option func(*config) error

func WithMaxAttempts(attempts int) Option {
	return func(c *config) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		c.maxAttempts = attempts

		return nil
	}
}

func WithBaseDelay(delay time.Duration) Option {
	return func(c *config) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		c.baseDelay = delay

		return nil
	}
}

func WithJitterFactor(factor float64) Option {
	return func(c *config) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		c.jitterFactor = factor

		return nil
	}
}

// WithOnRetry registers a hook called before each repeated attempt.
func WithOnRetry(hook func(attempt int, err error)) Option {
	return func(c *config) error {
		c.onRetry = hook
		return nil
	}
}

// WithRetryIf replaces the retryable-error predicate.
func WithRetryIf(retryable func(err error) bool) Option {
	return func(c *config) error {
		if retryable != nil {
			c.retryIf = retryable
		}

		return nil
	}
}
