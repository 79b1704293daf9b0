// Package retry runs an operation with exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Permanent wraps an error so that it is returned without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// IsPermanent checks if an error was marked permanent.
func IsPermanent(err error) bool {
	var permanentErr *backoff.PermanentError
	return errors.As(err, &permanentErr)
}

// Config holds retry configuration.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts uint

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration

	// Multiplier is the factor by which the delay grows after each attempt.
	Multiplier float64

	// JitterFactor randomises delays (0 = none, 0.5 = ±50%).
	JitterFactor float64

	// RetryIf decides whether an error is worth another attempt.
	// Nil retries every error not marked Permanent.
	RetryIf func(error) bool

	// OnRetry is called before each wait.
	OnRetry func(err error, delay time.Duration)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// Option is a functional option for configuring retries.
type Option func(*Config)

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(n uint) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxAttempts = n
		}
	}
}

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) { c.InitialDelay = d }
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) { c.MaxDelay = d }
}

// WithJitter sets the jitter factor.
func WithJitter(j float64) Option {
	return func(c *Config) { c.JitterFactor = j }
}

// WithRetryIf sets the retry predicate.
func WithRetryIf(fn func(error) bool) Option {
	return func(c *Config) { c.RetryIf = fn }
}

// WithOnRetry sets a callback run before each wait.
func WithOnRetry(fn func(err error, delay time.Duration)) Option {
	return func(c *Config) { c.OnRetry = fn }
}

// Retrier executes operations with retries.
type Retrier struct {
	config Config
}

// New creates a new Retrier with the given options.
func New(opts ...Option) *Retrier {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Retrier{config: config}
}

func (r *Retrier) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.InitialDelay
	b.MaxInterval = r.config.MaxDelay
	b.Multiplier = r.config.Multiplier
	b.RandomizationFactor = r.config.JitterFactor
	return b
}

// Do executes the operation until it succeeds, fails permanently, runs out
// of attempts or ctx ends. The last operation error is returned unwrapped.
func (r *Retrier) Do(ctx context.Context, operation func(ctx context.Context) error) error {
	_, err := DoWithData(ctx, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})
	return err
}

// DoWithData is Do for operations that return a value.
func DoWithData[T any](ctx context.Context, r *Retrier, operation func(ctx context.Context) (T, error)) (T, error) {
	opts := []backoff.RetryOption{
		backoff.WithBackOff(r.backOff()),
		backoff.WithMaxTries(r.config.MaxAttempts),
		backoff.WithMaxElapsedTime(0),
	}
	if r.config.OnRetry != nil {
		opts = append(opts, backoff.WithNotify(backoff.Notify(r.config.OnRetry)))
	}

	result, err := backoff.Retry(ctx, func() (T, error) {
		v, err := operation(ctx)
		if err != nil && r.config.RetryIf != nil && !r.config.RetryIf(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, opts...)

	var permanentErr *backoff.PermanentError
	if errors.As(err, &permanentErr) {
		err = permanentErr.Unwrap()
	}
	return result, err
}

// StoreConnectRetrier retries opening a networked snapshot store at startup.
// Extra options are applied after the defaults.
func StoreConnectRetrier(opts ...Option) *Retrier {
	base := []Option{
		WithMaxAttempts(5),
		WithInitialDelay(500 * time.Millisecond),
		WithMaxDelay(10 * time.Second),
		WithJitter(0.2),
	}
	return New(append(base, opts...)...)
}
