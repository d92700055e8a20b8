package executor

import (
	"github.com/hyp3rd/ewrap"
)

var (
	// ErrInvalidRequest is returned when a request fails validation.
	ErrInvalidRequest = ewrap.New("invalid request")
	// ErrUnsupportedMethod is returned for methods other than GET and POST.
	ErrUnsupportedMethod = ewrap.New("unsupported method")
	// ErrTransport marks failures where no usable response was received:
	// timeouts, refused connections, DNS errors, truncated bodies.
	ErrTransport = ewrap.New("transport failure")
	// ErrServerStatus marks responses with a 5xx status.
	ErrServerStatus = ewrap.New("server error status")
)
