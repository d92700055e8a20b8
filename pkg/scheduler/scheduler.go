package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	keepalive "github.com/hyp3rd/go-keepalive"
	"github.com/hyp3rd/go-keepalive/pkg/executor"
)

// Scheduler runs an executor once per interval until its context is cancelled.
// The sleep after each cycle is shortened by the time the cycle took, so slow
// cycles shrink the gap between request starts but never extend it.
type Scheduler struct {
	exec      Executor
	interval  time.Duration
	logger    *slog.Logger
	maxCycles int
	now       Clock
	timers    *keepalive.TimerPool
	stats     Stats
}

// New creates a scheduler for exec with the given cycle interval.
func New(exec Executor, interval time.Duration, opts ...Option) (*Scheduler, error) {
	if exec == nil {
		return nil, fmt.Errorf("%w: executor is required", ErrInvalidSchedule)
	}

	if interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be > 0", ErrInvalidSchedule)
	}

	s := &Scheduler{
		exec:     exec,
		interval: interval,
		logger:   slog.Default(),
		now:      time.Now,
		timers:   keepalive.NewTimerPool(1),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.maxCycles < 0 {
		return nil, fmt.Errorf("%w: max cycles must be >= 0", ErrInvalidSchedule)
	}

	return s, nil
}

// Run cycles until ctx is cancelled or the max cycle count is reached, then
// returns nil. Cancellation is observed at the top of every cycle, inside
// the executor and during the inter-cycle sleep.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting, interrupt to stop",
		slog.Duration("interval", s.interval),
		slog.Int("max_cycles", s.maxCycles),
	)

	for {
		if ctx.Err() != nil {
			break
		}

		if s.maxCycles > 0 && s.stats.Cycles >= s.maxCycles {
			break
		}

		startedAt := s.now()
		outcome := s.exec.Execute(ctx)
		s.record(ctx, outcome)

		if ctx.Err() != nil {
			break
		}

		elapsed := s.now().Sub(startedAt)

		remaining := NextDelay(s.interval, elapsed)
		if remaining <= 0 {
			s.stats.Drifts++
			s.logger.WarnContext(ctx, "cycle took longer than the interval, starting next cycle now",
				slog.Duration("elapsed", elapsed),
				slog.Duration("overrun", elapsed-s.interval),
			)

			continue
		}

		if s.maxCycles > 0 && s.stats.Cycles >= s.maxCycles {
			break
		}

		s.logger.InfoContext(ctx, "waiting for next cycle",
			slog.String("wait", formatWait(remaining)),
			slog.Duration("remaining", remaining),
		)

		err := s.timers.Sleep(ctx, remaining)
		if err != nil {
			break
		}
	}

	s.logger.InfoContext(ctx, "stopped",
		slog.Int("cycles", s.stats.Cycles),
		slog.Int("successes", s.stats.Successes),
		slog.Int("failures", s.stats.Failures),
		slog.Int("drifts", s.stats.Drifts),
	)

	return nil
}

// Stats returns the counters collected so far. Call it after Run returns.
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// Interval returns the configured cycle interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

func (s *Scheduler) record(ctx context.Context, outcome executor.Outcome) {
	s.stats.Cycles++

	if outcome.Success {
		s.stats.Successes++
		s.logger.InfoContext(ctx, "cycle succeeded",
			slog.Int("cycle", s.stats.Cycles),
			slog.Int("attempts", outcome.Attempts),
			slog.Int("status", outcome.StatusCode),
		)

		return
	}

	s.stats.Failures++

	if ctx.Err() != nil {
		s.logger.InfoContext(ctx, "cycle interrupted", slog.Int("cycle", s.stats.Cycles))

		return
	}

	s.logger.WarnContext(ctx, "cycle failed",
		slog.Int("cycle", s.stats.Cycles),
		slog.Int("attempts", outcome.Attempts),
		slog.Any("error", outcome.Err),
	)
}

// NextDelay returns interval minus elapsed, clamped at zero.
func NextDelay(interval, elapsed time.Duration) time.Duration {
	remaining := interval - elapsed
	if remaining < 0 {
		return 0
	}

	return remaining
}

func formatWait(d time.Duration) string {
	total := int(d / time.Second)

	return fmt.Sprintf("%dm%02ds", total/60, total%60)
}
