package keepalive

import (
	"context"
	"time"
)

// TimerPool is a pool of timers.
type TimerPool struct {
	ch chan *time.Timer // Channel of idle, stopped timers.
}

// NewTimerPool creates a new timer pool holding up to size idle timers.
func NewTimerPool(size int) *TimerPool {
	pool := &TimerPool{
		ch: make(chan *time.Timer, size),
	}

	for range size {
		t := time.NewTimer(time.Hour)
		t.Stop() // ensure the timer isn't running while in the pool

		pool.ch <- t
	}

	return pool
}

// Get returns a timer armed to fire after d.
// An idle timer is reused when one is available, otherwise a new one is created.
func (p *TimerPool) Get(d time.Duration) *time.Timer {
	select {
	case t := <-p.ch:
		t.Reset(d)

		return t
	default:
		return time.NewTimer(d)
	}
}

// Put returns a timer back into the pool.
func (p *TimerPool) Put(t *time.Timer) {
	// Stop the timer and drain its channel to avoid spurious wake-ups.
	t.Stop()

	select {
	case <-t.C:
	default:
	}

	select {
	case p.ch <- t:
	default:
		// Timer pool is full, discard the timer.
	}
}

// Sleep blocks for d or until ctx is done, whichever comes first.
// It returns ctx.Err() when interrupted. A non-positive d returns immediately.
func (p *TimerPool) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := p.Get(d)
	defer p.Put(timer)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
