package executor

import (
	"log/slog"
	"net/http"

	"github.com/hyp3rd/sectools/pkg/validate"
)

// Option configures the executor.
type Option func(*Executor)

// WithHTTPClient sets a shared HTTP client. Its idle connections are still
// released at the end of every sequence.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Executor) {
		if client != nil {
			e.newClient = func() *http.Client { return client }
		}
	}
}

// WithClientFactory sets the function that opens the client for each sequence.
func WithClientFactory(factory func() *http.Client) Option {
	return func(e *Executor) {
		if factory != nil {
			e.newClient = factory
		}
	}
}

// WithLogger sets the executor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithURLValidator sets the URL validator used for the target URL.
// Pass nil to disable URL validation.
func WithURLValidator(validator *validate.URLValidator) Option {
	return func(e *Executor) {
		e.urlValidator = validator
		e.validatorSet = true
	}
}
