package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds each individual call made by Resilient.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is a realistic desktop browser User-Agent. Many URL
	// shorteners and CDNs answer differently to obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultAccept is the Accept header sent with every request.
	DefaultAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Resilient issues requests with shared defaults on top of a Fetcher.
type Resilient struct {
	fetcher   Fetcher
	timeout   time.Duration
	userAgent string
	accept    string
	logger    *slog.Logger
}

// ResilientOption configures a Resilient.
type ResilientOption func(*Resilient)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ResilientOption {
	return func(r *Resilient) {
		r.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ResilientOption {
	return func(r *Resilient) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// WithLogger sets the logger used to report HEAD fallbacks.
func WithLogger(logger *slog.Logger) ResilientOption {
	return func(r *Resilient) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResilient wraps f with the default timeout and headers.
func NewResilient(f Fetcher, opts ...ResilientOption) *Resilient {
	r := &Resilient{
		fetcher:   f,
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		accept:    DefaultAccept,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do issues a single request with the given method. There is no fallback.
func (r *Resilient) Do(ctx context.Context, method, rawURL string) (*Response, error) {
	return r.fetcher.Fetch(ctx, Request{
		Method:  method,
		URL:     rawURL,
		Headers: r.headers(),
		Timeout: r.timeout,
	})
}

// Head issues a HEAD request.
func (r *Resilient) Head(ctx context.Context, rawURL string) (*Response, error) {
	return r.Do(ctx, http.MethodHead, rawURL)
}

// Get issues a GET request.
func (r *Resilient) Get(ctx context.Context, rawURL string) (*Response, error) {
	return r.Do(ctx, http.MethodGet, rawURL)
}

// Probe issues a HEAD request and falls back to GET when HEAD fails at the
// transport level. An HTTP error status from HEAD is returned as-is and
// never triggers the fallback.
func (r *Resilient) Probe(ctx context.Context, rawURL string) (*Response, error) {
	resp, err := r.Head(ctx, rawURL)
	if err == nil {
		return resp, nil
	}
	r.logger.Debug("HEAD failed, falling back to GET", "url", rawURL, "error", err)
	return r.Get(ctx, rawURL)
}

func (r *Resilient) headers() http.Header {
	h := make(http.Header, 2)
	h.Set("User-Agent", r.userAgent)
	h.Set("Accept", r.accept)
	return h
}
