package model

import "time"

// Analysis is the merged result of running the risk scorer and the
// metadata resolver on one URL.
type Analysis struct {
	// OriginalURL is the URL as submitted.
	OriginalURL string `json:"originalUrl"`

	// ExpandedURL is Metadata.FinalURL, or empty when resolving failed.
	ExpandedURL string `json:"expandedUrl"`

	// Security is the risk verdict. It is always present.
	Security RiskAssessment `json:"security"`

	// Metadata is nil when the resolver failed.
	Metadata *PageMetadata `json:"metadata,omitempty"`

	// Timestamp is when the analysis finished.
	Timestamp time.Time `json:"timestamp"`

	// Error is the resolver failure, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// Failed reports whether the metadata resolver failed.
func (a *Analysis) Failed() bool {
	return a.Error != nil
}

// SetError records a resolver failure.
func (a *Analysis) SetError(err error) {
	a.Error = err
	if err != nil {
		a.ErrorMessage = err.Error()
	}
}
