// Package log provides secure logging built on the standard slog package.
//
// The SecureHandler wraps any slog.Handler and sanitizes records before
// they are written:
//   - attributes whose key names a secret (Authorization, Cookie, token,
//     password, ...) are replaced with MaskValue,
//   - string values that look like credentials (bearer tokens, JWTs, basic
//     auth, long API keys) are replaced with MaskValue,
//   - URLs inside string and error values keep their host and path but
//     have passwords and secret query parameters masked.
//
// linkpeek logs the URLs it analyzes. Shortened and tracking URLs often
// carry signed query strings or session tokens, so URL redaction applies
// even in verbose mode.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("probe failed", "url", "https://example.com/?token=abc")
//	// url=https://example.com/?token=***REDACTED***
package log
