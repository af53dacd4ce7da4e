package metadata

import (
	"errors"
	"fmt"
)

// ErrFetchFailure matches every error returned by Resolve.
var ErrFetchFailure = errors.New("failed to expand URL")

// FetchError describes why a URL could not be resolved.
type FetchError struct {
	// URL is the URL being resolved.
	URL string

	// StatusCode is the HTTP status of a non-2xx response, or 0 when the
	// request itself failed.
	StatusCode int

	// Err is the underlying cause, nil for status failures.
	Err error
}

// Error returns the error message.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP status %d", ErrFetchFailure, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", ErrFetchFailure, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFetchFailure.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailure
}
