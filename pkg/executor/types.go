package executor

import (
	"time"
)

// Request describes the target HTTP request.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is sent with POST requests only, unchanged on every attempt.
	Body    []byte
	Timeout time.Duration
}

// AttemptResult is the result of a single HTTP call.
type AttemptResult struct {
	Attempt    int
	StatusCode int
	Bytes      int64
	Duration   time.Duration
	Err        error
}

// Success reports whether the endpoint answered with a non-5xx status.
func (r AttemptResult) Success() bool {
	return r.Err == nil
}

// Outcome summarizes one attempt sequence.
type Outcome struct {
	Success    bool
	Attempts   int
	StatusCode int
	Bytes      int64
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the sequence took, backoff sleeps included.
func (o Outcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}
