package keepalive

import (
	"log/slog"
	"time"
)

// Option is a function type that can be used to configure the `Retrier` struct.
type Option func(*Retrier)

// applyOptions applies the options to the retrier.
func applyOptions(retrier *Retrier, options ...Option) {
	for _, option := range options {
		option(retrier)
	}
}

// WithMaxAttempts returns an option that sets the maximum number of attempts.
func WithMaxAttempts(num int) Option {
	return func(retrier *Retrier) {
		retrier.MaxAttempts = num
	}
}

// WithBackoffFactor returns an option that sets the backoff factor.
func WithBackoffFactor(factor float64) Option {
	return func(retrier *Retrier) {
		retrier.BackoffFactor = factor
	}
}

// WithBaseDelay returns an option that sets the delay after the first failure.
func WithBaseDelay(delay time.Duration) Option {
	return func(retrier *Retrier) {
		retrier.BaseDelay = delay
	}
}

// WithLogger returns an option that sets the logger. Pass nil to disable logging.
func WithLogger(logger *slog.Logger) Option {
	return func(retrier *Retrier) {
		retrier.Logger = logger
	}
}

// WithHooks returns an option that sets the retry hooks.
func WithHooks(hooks Hooks) Option {
	return func(retrier *Retrier) {
		retrier.Hooks = hooks
	}
}
