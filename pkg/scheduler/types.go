package scheduler

import (
	"context"
	"time"

	"github.com/hyp3rd/go-keepalive/pkg/executor"
)

// Executor runs one attempt sequence per cycle.
type Executor interface {
	Execute(ctx context.Context) executor.Outcome
}

// ExecutorFunc adapts a plain function to Executor.
type ExecutorFunc func(ctx context.Context) executor.Outcome

// Execute calls f(ctx).
func (f ExecutorFunc) Execute(ctx context.Context) executor.Outcome {
	return f(ctx)
}

// Stats counts what the loop has done so far.
type Stats struct {
	Cycles    int
	Successes int
	Failures  int
	Drifts    int
}

// Clock returns the current time.
type Clock func() time.Time
