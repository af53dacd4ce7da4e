package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/linkpeek/internal/model"
	"golang.org/x/net/html/charset"
)

// Fetcher performs a single HTTP request, following redirects.
//
// Implementations must return an error only for transport-level failures;
// any HTTP status, including 4xx and 5xx, is a successful fetch.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

// Request describes one fetch.
type Request struct {
	// Method is the HTTP method, typically HEAD or GET.
	Method string

	// URL is the absolute URL to request.
	URL string

	// Headers are sent with the request and with every redirected request.
	Headers http.Header

	// Timeout bounds the whole call including redirects and reading the body.
	// Zero means no timeout beyond the caller's context.
	Timeout time.Duration
}

// Response is the result of a fetch after all redirects were followed.
// Close must be called once the response is no longer needed.
type Response struct {
	// StatusCode is the status of the final response.
	StatusCode int

	// Header is the header set of the final response. Lookups through
	// Get are case-insensitive.
	Header http.Header

	// FinalURL is the URL of the final response.
	FinalURL string

	// Redirects lists every followed redirect in order.
	Redirects []model.RedirectHop

	body        io.ReadCloser
	maxBodySize int64
	cancel      context.CancelFunc

	once    sync.Once
	text    string
	readErr error
}

// Redirected reports whether at least one redirect was followed.
func (r *Response) Redirected() bool {
	return len(r.Redirects) > 0
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// ContentType returns the Content-Type header of the final response.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// BodyText reads the body once, decodes it to UTF-8 according to the
// Content-Type charset and returns it. Later calls return the same result.
// The body is capped at the fetcher's maximum body size.
func (r *Response) BodyText() (string, error) {
	r.once.Do(func() {
		if r.body == nil {
			return
		}
		defer r.Close()

		var reader io.Reader = r.body
		if r.maxBodySize > 0 {
			reader = io.LimitReader(reader, r.maxBodySize)
		}

		decoded, err := charset.NewReader(reader, r.ContentType())
		if err != nil {
			// Unknown charset labels fall back to the raw bytes.
			decoded = reader
		}

		var sb strings.Builder
		if _, err := io.Copy(&sb, decoded); err != nil {
			r.readErr = err
			return
		}
		r.text = sb.String()
	})
	return r.text, r.readErr
}

// Close releases the connection and the request deadline. It is safe to
// call more than once.
func (r *Response) Close() error {
	var err error
	if r.body != nil {
		err = r.body.Close()
	}
	if r.cancel != nil {
		r.cancel()
	}
	return err
}
