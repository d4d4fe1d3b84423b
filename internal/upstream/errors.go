// Package upstream defines the error model for outbound calls to the
// Overpass and USGS services.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error wraps a failed upstream call. StatusCode is set when the upstream
// answered with a non-2xx status; Timeout is set when the per-service
// deadline was exceeded.
type Error struct {
	Service    string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: upstream timeout: %v", e.Service, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: upstream returned status %d", e.Service, e.StatusCode)
	default:
		return fmt.Sprintf("%s: upstream call failed: %v", e.Service, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusError builds an Error for a non-2xx upstream response.
func StatusError(service string, statusCode int) *Error {
	return &Error{Service: service, StatusCode: statusCode}
}

// Wrap classifies a transport-level error from an upstream call, marking
// timeouts so callers can surface them distinctly.
func Wrap(service string, err error) *Error {
	return &Error{Service: service, Timeout: isTimeout(err), Err: err}
}

// As extracts an *Error from anywhere in err's chain.
func As(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}

// isTimeout reports whether the error chain indicates an exceeded deadline.
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
