package model

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned for input that is not an absolute http(s) URL.
// The message doubles as the API error text.
var ErrInvalidURL = errors.New("Invalid URL format") //nolint:staticcheck // API error text is user facing

// ParseTargetURL validates raw as an analyzable URL: absolute, http or
// https, with a host. Surrounding whitespace is ignored.
func ParseTargetURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrInvalidURL
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, ErrInvalidURL
	}
	if u.Host == "" || u.Hostname() == "" {
		return nil, ErrInvalidURL
	}

	return u, nil
}
