package scheduler

import (
	"log/slog"
)

// Option configures the scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxCycles stops the loop after n cycles. Zero means run until cancelled.
func WithMaxCycles(n int) Option {
	return func(s *Scheduler) {
		s.maxCycles = n
	}
}

// WithClock replaces time.Now when measuring elapsed cycle time.
func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.now = clock
		}
	}
}
