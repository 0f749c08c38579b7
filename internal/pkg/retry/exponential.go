package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
)

// Operation is a unit of work that may be attempted more than once
type Operation func(ctx context.Context) error

// Config holds retry configuration
type Config struct {
	MaxRetries int           // attempts after the first one
	BaseDelay  time.Duration // delay before the first retry
	MaxDelay   time.Duration // cap for a single delay
	Multiplier float64
	Jitter     bool
	// Retryable decides whether an error is worth another attempt
	Retryable func(error) bool
}

// DefaultConfig returns the persistence retry policy
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
		Retryable:  IsTransient,
	}
}

// FromConfig builds a Config from the application retry section
func FromConfig(cfg models.RetryConfig) Config {
	c := DefaultConfig()
	if cfg.MaxRetries >= 0 {
		c.MaxRetries = cfg.MaxRetries
	}
	if cfg.BaseDelay > 0 {
		c.BaseDelay = cfg.BaseDelay
	}
	if cfg.MaxDelay > 0 {
		c.MaxDelay = cfg.MaxDelay
	}
	return c
}

// IsTransient reports whether err may succeed on a later attempt. Domain
// rule violations and cancellations never do.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled),
		errors.Is(err, models.ErrTripNotFound),
		errors.Is(err, models.ErrStaleTrip),
		errors.Is(err, models.ErrIllegalTransition),
		errors.Is(err, models.ErrPreconditionNotMet):
		return false
	}
	return true
}

// ErrExhausted wraps the last error once every attempt has failed
var ErrExhausted = errors.New("retry limit exceeded")

// Retrier runs operations with exponential backoff
type Retrier struct {
	config Config
	logger *logger.ZapLogger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a new retrier with the given configuration
func New(config Config, l *logger.ZapLogger) *Retrier {
	if config.Retryable == nil {
		config.Retryable = IsTransient
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Retrier{
		config: config,
		logger: l,
		sleep:  sleepContext,
	}
}

// NewWithDefaults creates a new retrier with default configuration
func NewWithDefaults(l *logger.ZapLogger) *Retrier {
	return New(DefaultConfig(), l)
}

// Execute runs fn until it succeeds, returns a non-retryable error, the
// context ends, or the attempts run out
func (r *Retrier) Execute(ctx context.Context, name string, fn Operation) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				r.logger.Info("Operation succeeded after retries",
					logger.String("operation", name),
					logger.Int("attempts", attempt+1))
			}
			return nil
		}
		lastErr = err

		if !r.config.Retryable(err) {
			r.logger.Debug("Error is not retryable, stopping",
				logger.String("operation", name),
				logger.Err(err),
				logger.Int("attempt", attempt+1))
			return err
		}

		if attempt == r.config.MaxRetries {
			break
		}

		delay := r.Delay(attempt)
		r.logger.Warn("Operation failed, retrying",
			logger.String("operation", name),
			logger.Err(err),
			logger.Int("attempt", attempt+1),
			logger.Duration("delay", delay))

		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}

	r.logger.Error("Operation failed after all retries",
		logger.String("operation", name),
		logger.Err(lastErr),
		logger.Int("attempts", r.config.MaxRetries+1))

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, r.config.MaxRetries+1, lastErr)
}

// Delay returns the backoff before retry number attempt+1
func (r *Retrier) Delay(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt))
	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	// up to 10% jitter
	if r.config.Jitter {
		delay += delay * 0.1 * rand.Float64()
	}

	return time.Duration(delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
