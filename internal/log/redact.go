package log

import (
	"net/url"
	"regexp"
	"strings"
)

// sensitiveQueryParams are query parameter names whose values are masked.
var sensitiveQueryParams = map[string]bool{
	"key":              true,
	"api_key":          true,
	"apikey":           true,
	"sig":              true,
	"signature":        true,
	"code":             true,
	"session":          true,
	"sid":              true,
	"x-amz-signature":  true,
	"x-amz-credential": true,
	"x-goog-signature": true,
}

var urlInText = regexp.MustCompile(`(?i)https?://[^\s"'<>]+`)

// RedactURL masks the password in the userinfo and the values of secret
// query parameters. Host, path and parameter order are preserved. Input
// that does not parse is returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	changed := false
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
			changed = true
		}
	}

	if u.RawQuery != "" {
		parts := strings.Split(u.RawQuery, "&")
		for i, part := range parts {
			name, _, hasValue := strings.Cut(part, "=")
			if !hasValue {
				continue
			}
			decoded, err := url.QueryUnescape(name)
			if err != nil {
				decoded = name
			}
			if isSensitiveQueryParam(decoded) {
				parts[i] = name + "=" + MaskValue
				changed = true
			}
		}
		u.RawQuery = strings.Join(parts, "&")
	}

	if !changed {
		return raw
	}
	return u.String()
}

func isSensitiveQueryParam(name string) bool {
	lower := strings.ToLower(name)
	return sensitiveQueryParams[lower] || isSensitiveKey(lower)
}

// redactURLsIn applies RedactURL to every http(s) URL found in text.
func redactURLsIn(text string) string {
	if !strings.Contains(text, "://") {
		return text
	}
	return urlInText.ReplaceAllStringFunc(text, RedactURL)
}
