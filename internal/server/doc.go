// Package server exposes the URL analyzer over HTTP.
//
// Routes:
//   - POST /api/expand: analyze one URL and return the risk verdict and
//     preview metadata
//   - GET /healthz: liveness probe
//   - GET /metrics: Prometheus exposition
//
// The router is chi. Every request gets an X-Request-Id (a UUID), is
// logged through slog once it completes and is counted in the
// linkpeek_http_requests_total metric.
package server
