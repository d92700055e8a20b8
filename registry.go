package keepalive

import (
	"errors"
	"sync"
)

// Registry for temporary errors.
type Registry struct {
	storage sync.Map // store for temporary errors
}

// NewRegistry creates a new Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterTemporaryError registers a single temporary error.
func (r *Registry) RegisterTemporaryError(name string, err error) {
	r.storage.Store(name, err)
}

// RegisterTemporaryErrors registers multiple temporary errors.
func (r *Registry) RegisterTemporaryErrors(temporaryErrors map[string]error) {
	for name, err := range temporaryErrors {
		r.RegisterTemporaryError(name, err)
	}
}

// ListTemporaryErrors returns every registered temporary error.
func (r *Registry) ListTemporaryErrors() []error {
	var list []error

	r.storage.Range(func(_, value any) bool {
		if err, ok := value.(error); ok {
			list = append(list, err)
		}

		return true
	})

	return list
}

// Len returns the number of registered errors.
func (r *Registry) Len() int {
	var n int

	r.storage.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// IsTemporaryError reports whether err matches any registered temporary error.
func (r *Registry) IsTemporaryError(err error) bool {
	return IsTemporaryError(err, r.ListTemporaryErrors()...)
}

// IsTemporaryError reports whether err wraps any of the candidates.
func IsTemporaryError(err error, candidates ...error) bool {
	if err == nil {
		return false
	}

	for _, candidate := range candidates {
		if errors.Is(err, candidate) {
			return true
		}
	}

	return false
}
