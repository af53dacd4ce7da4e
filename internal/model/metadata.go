package model

import "time"

// PreviewTypeImage is the only preview type linkpeek produces.
const PreviewTypeImage = "image"

// TimestampFormat is the ISO-8601 layout used for PageMetadata.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// PageMetadata is the preview information resolved for a URL.
// Optional fields are nil when the response did not provide them and
// serialize as JSON null.
type PageMetadata struct {
	ContentType   *string `json:"contentType"`
	LastModified  *string `json:"lastModified"`
	ContentLength *string `json:"contentLength"`
	Server        *string `json:"server"`

	// Timestamp is the evaluation time in UTC.
	Timestamp string `json:"timestamp"`

	PreviewURL  *string `json:"previewUrl"`
	PreviewType *string `json:"previewType"`
	FaviconURL  *string `json:"faviconUrl"`
	Title       *string `json:"title"`
	Description *string `json:"description"`

	// FinalURL is the URL of the resolved response after redirects.
	FinalURL string `json:"finalUrl"`
}

// FormatTimestamp renders t the way PageMetadata.Timestamp expects.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// OptionalString returns nil for the empty string and a pointer otherwise.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
