// Package fetch provides the HTTP capability shared by linkpeek's analyzers.
//
// # Architecture
//
// The Fetcher interface is the only way the risk scorer and the metadata
// resolver talk to the network. HTTPFetcher implements it on top of
// net/http and records every redirect hop it follows, so callers can see
// the full redirect chain and not just the final URL.
//
// Resilient wraps a Fetcher with the request defaults both analyzers use
// (timeout, browser User-Agent, Accept header) and the HEAD-then-GET
// fallback used to resolve a URL.
//
// # Usage
//
//	f, err := fetch.NewHTTPFetcher(fetch.WithProxy("127.0.0.1:9050"))
//	r := fetch.NewResilient(f, fetch.WithTimeout(10*time.Second))
//	resp, err := r.Probe(ctx, "https://bit.ly/example")
//	defer resp.Close()
//
// # Timeouts
//
// Every call gets its own deadline derived from the caller's context.
// A timeout cancels only that call; concurrent calls are unaffected.
// Nothing is retried.
package fetch
