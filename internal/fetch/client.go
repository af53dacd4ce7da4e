package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/nao1215/linkpeek/internal/model"
	"golang.org/x/net/proxy"
)

const (
	// DefaultMaxRedirects is the number of redirects followed before the
	// last redirect response is returned as-is.
	DefaultMaxRedirects = 10

	// DefaultMaxBodySize caps how much of a response body BodyText reads.
	DefaultMaxBodySize int64 = 5 * 1024 * 1024
)

// HTTPFetcher is a Fetcher backed by net/http.
//
// Design decision: one http.Client (and thus one connection pool) is shared
// by all calls, but each call gets its own shallow client copy whose
// CheckRedirect closure records the hops of that call only. This keeps
// redirect chains isolated between concurrent calls without locking.
type HTTPFetcher struct {
	client       *http.Client
	transport    *http.Transport
	proxyAddress string
	maxRedirects int
	maxBodySize  int64
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher) error

// WithProxy routes all connections through the SOCKS5 proxy at address
// ("host:port"). An empty address means direct connections.
func WithProxy(address string) Option {
	return func(f *HTTPFetcher) error {
		if address == "" {
			return nil
		}
		if !isValidProxyAddress(address) {
			return ErrInvalidProxyAddress
		}
		f.proxyAddress = address
		return nil
	}
}

// WithMaxRedirects sets the redirect limit. Values below 1 disable
// redirect following.
func WithMaxRedirects(n int) Option {
	return func(f *HTTPFetcher) error {
		f.maxRedirects = n
		return nil
	}
}

// WithMaxBodySize sets the body cap used by Response.BodyText.
func WithMaxBodySize(n int64) Option {
	return func(f *HTTPFetcher) error {
		f.maxBodySize = n
		return nil
	}
}

// WithTransport replaces the default transport. A configured proxy still
// overrides the transport's dialer.
func WithTransport(t *http.Transport) Option {
	return func(f *HTTPFetcher) error {
		f.transport = t
		return nil
	}
}

// NewHTTPFetcher creates an HTTPFetcher.
//
// The constructor never touches the network; an unreachable proxy shows up
// as ErrNetwork on the first fetch.
func NewHTTPFetcher(opts ...Option) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		maxRedirects: DefaultMaxRedirects,
		maxBodySize:  DefaultMaxBodySize,
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	transport := f.transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}

	if f.proxyAddress != "" {
		// Tor-style SOCKS ports don't require auth.
		dialer, err := proxy.SOCKS5("tcp", f.proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = contextDialer(dialer)
	}

	f.client = &http.Client{Transport: transport}
	return f, nil
}

// contextDialer adapts a proxy.Dialer to http.Transport.DialContext.
func contextDialer(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)
		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// ProxyAddress returns the configured SOCKS5 proxy address, or "" if none.
func (f *HTTPFetcher) ProxyAddress() string {
	return f.proxyAddress
}

// Fetch performs req and follows redirects up to the configured limit.
// When the limit is reached the last redirect response is returned.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	cancel := context.CancelFunc(func() {})
	if req.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		cancel()
		return nil, classify(method, req.URL, err)
	}
	for name, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}

	var hops []model.RedirectHop
	client := *f.client
	client.CheckRedirect = func(next *http.Request, via []*http.Request) error {
		if len(via) > f.maxRedirects {
			return http.ErrUseLastResponse
		}
		status := 0
		if next.Response != nil {
			status = next.Response.StatusCode
		}
		hops = append(hops, model.RedirectHop{
			URL:        via[len(via)-1].URL.String(),
			StatusCode: status,
		})
		return nil
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		cancel()
		return nil, classify(method, req.URL, err)
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
		FinalURL:    finalURL,
		Redirects:   hops,
		body:        resp.Body,
		maxBodySize: f.maxBodySize,
		cancel:      cancel,
	}, nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
