package keepalive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hyp3rd/ewrap"
)

const (
	defaultMaxAttempts   = 3
	defaultBackoffFactor = 2
	defaultBaseDelay     = 1 * time.Second
)

var (
	// ErrInvalidRetrier is the error returned when the retrier is invalid.
	ErrInvalidRetrier = ewrap.New("invalid retrier")
	// ErrMaxAttemptsReached is the error returned when every attempt failed.
	ErrMaxAttemptsReached = ewrap.New("maximum number of attempts reached")
	// ErrNilRetryableFunc is the error returned when the retryable function is nil.
	ErrNilRetryableFunc = ewrap.New("failed to invoke the function. It appears to be nil")
)

// RetryableFunc is invoked once per attempt. Attempts are numbered from 1.
type RetryableFunc func(ctx context.Context, attempt int) error

// Hooks are optional callbacks fired while retrying.
type Hooks struct {
	// OnRetry runs after a failed attempt, before sleeping for delay.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Errors holds the error returned by the retry function along with the trace of each attempt.
type Errors struct {
	// Attempts holds the trace of each attempt in order.
	Attempts []error
	// Last holds the last error returned by the retry function.
	Last error
}

// Join aggregates all attempt errors into one.
func (e *Errors) Join() error {
	return errors.Join(e.Attempts...)
}

// Count returns how many attempts failed.
func (e *Errors) Count() int {
	return len(e.Attempts)
}

// Retrier runs a function up to MaxAttempts times, sleeping an exponentially
// growing delay between failed attempts.
type Retrier struct {
	// MaxAttempts is the maximum number of calls, the first one included.
	MaxAttempts int
	// BackoffFactor is the base of the exponential delay.
	BackoffFactor float64
	// BaseDelay is the delay after the first failed attempt.
	BaseDelay time.Duration
	// Registry is the registry for temporary errors.
	Registry *Registry
	// Logger used for logging attempts.
	Logger *slog.Logger
	// Hooks executed during retries.
	Hooks Hooks
	// timer is the timer pool.
	timer *TimerPool
}

// NewRetrier returns a new Retrier configured with the given options.
// If no options are provided, the default options are used.
// The default options are:
//   - MaxAttempts: 3
//   - BackoffFactor: 2
//   - BaseDelay: 1 * time.Second
func NewRetrier(opts ...Option) (*Retrier, error) {
	retrier := &Retrier{
		MaxAttempts:   defaultMaxAttempts,
		BackoffFactor: defaultBackoffFactor,
		BaseDelay:     defaultBaseDelay,
		Registry:      NewRegistry(),
		Logger:        slog.Default(),
	}

	applyOptions(retrier, opts...)

	err := retrier.Validate()
	if err != nil {
		return retrier, err
	}

	// one timer is enough for a sequential retry loop.
	retrier.timer = NewTimerPool(1)

	return retrier, nil
}

// Validate validates the Retrier.
// This method will check if:
//   - `MaxAttempts` is less than one
//   - `BaseDelay` is not positive
//   - `BackoffFactor` is not positive
func (r *Retrier) Validate() error {
	if r.MaxAttempts < 1 {
		return ewrap.Wrapf(ErrInvalidRetrier, "invalid max attempts: %d, the value should be at least 1", r.MaxAttempts)
	}

	if r.BaseDelay <= 0 {
		return ewrap.Wrapf(ErrInvalidRetrier, "invalid base delay: %s, the value should be greater than zero", r.BaseDelay)
	}

	if r.BackoffFactor <= 0 || math.IsNaN(r.BackoffFactor) || math.IsInf(r.BackoffFactor, 0) {
		return ewrap.Wrapf(ErrInvalidRetrier, "invalid backoff factor: %f, the value should be greater than zero", r.BackoffFactor)
	}

	return nil
}

// Backoff returns the delay slept after the given failed attempt:
// BaseDelay * BackoffFactor^(attempt-1).
func (r *Retrier) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	return time.Duration(float64(r.BaseDelay) * math.Pow(r.BackoffFactor, float64(attempt-1)))
}

// Do calls `retryableFunc` until it returns a nil error or MaxAttempts calls were made.
//   - If the `retryableFunc` returns a nil error, `Errors.Last` is nil.
//   - If the error is not temporary, the sequence stops and the error is assigned to `Errors.Last`.
//   - Temporary errors are matched against `temporaryErrors`, or the registry when the list is empty.
//     When both are empty every error is temporary.
//   - The context is checked before each attempt and interrupts the backoff sleep.
func (r *Retrier) Do(ctx context.Context, retryableFunc RetryableFunc, temporaryErrors ...error) *Errors {
	errs := &Errors{Attempts: make([]error, 0, r.MaxAttempts)}

	err := r.Validate()
	if err != nil {
		errs.Last = err

		return errs
	}

	if retryableFunc == nil {
		errs.Last = ErrNilRetryableFunc

		return errs
	}

	if r.timer == nil {
		r.timer = NewTimerPool(1)
	}

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			errs.Last = ctx.Err()

			return errs
		}

		err = retryableFunc(ctx, attempt)
		if err == nil {
			errs.Last = nil

			return errs
		}

		errs.Attempts = append(errs.Attempts, err)

		if !r.isTemporary(err, temporaryErrors) {
			errs.Last = err

			return errs
		}

		if attempt == r.MaxAttempts {
			break
		}

		delay := r.Backoff(attempt)

		if r.Hooks.OnRetry != nil {
			r.Hooks.OnRetry(attempt, err, delay)
		}

		if r.Logger != nil {
			r.Logger.Log(ctx, slog.LevelDebug, "retry", slog.Int("attempt", attempt), slog.Duration("delay", delay), slog.Any("error", err))
		}

		sleepErr := r.timer.Sleep(ctx, delay)
		if sleepErr != nil {
			errs.Last = sleepErr

			return errs
		}
	}

	errs.Last = fmt.Errorf("%w: %w", ErrMaxAttemptsReached, err)

	return errs
}

// DoWithResult retries a function that returns a result and an error.
func DoWithResult[T any](ctx context.Context, r *Retrier, fn func(ctx context.Context, attempt int) (T, error), temporaryErrors ...error) (T, *Errors) {
	var result T

	errs := r.Do(ctx, func(ctx context.Context, attempt int) error {
		var err error

		result, err = fn(ctx, attempt)

		return err
	}, temporaryErrors...)

	return result, errs
}

func (r *Retrier) isTemporary(err error, temporaryErrors []error) bool {
	if len(temporaryErrors) > 0 {
		return IsTemporaryError(err, temporaryErrors...)
	}

	if r.Registry == nil || r.Registry.Len() == 0 {
		return true
	}

	return r.Registry.IsTemporaryError(err)
}
