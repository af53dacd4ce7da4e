package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Fetch errors.
// Callers match these with errors.Is; the concrete *Error returned by
// HTTPFetcher carries the request and the underlying cause.
var (
	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork is returned for any other transport-level failure
	// (DNS, connection refused, TLS handshake, proxy failure).
	ErrNetwork = errors.New("network error")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// Error describes a failed fetch.
type Error struct {
	// Method is the HTTP method of the failed request.
	Method string

	// URL is the requested URL.
	URL string

	// Kind is ErrTimeout or ErrNetwork.
	Kind error

	// Err is the underlying cause.
	Err error
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Method, e.URL, e.Kind, e.Err)
}

// Unwrap exposes both the error kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// classify wraps a transport error into an *Error with the matching kind.
func classify(method, rawURL string, err error) *Error {
	kind := ErrNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = ErrTimeout
	}
	return &Error{Method: method, URL: rawURL, Kind: kind, Err: err}
}

// IsTimeout reports whether err is a fetch timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
