package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nao1215/linkpeek/internal/fetch"
	"github.com/nao1215/linkpeek/internal/metadata"
	"github.com/nao1215/linkpeek/internal/model"
)

// maxRequestBodySize caps the POST /api/expand body.
const maxRequestBodySize = 64 << 10

// Analyzer analyzes a single URL. *pipeline.Analyzer satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) (*model.Analysis, error)
}

// expandRequest is the POST /api/expand body.
type expandRequest struct {
	URL string `json:"url"`
}

// errorDetails names the failure without exposing internals.
type errorDetails struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// expandResponse is the body of every /api/expand response.
type expandResponse struct {
	Success     bool                  `json:"success"`
	Security    *model.RiskAssessment `json:"security,omitempty"`
	Metadata    *model.PageMetadata   `json:"metadata,omitempty"`
	ExpandedURL string                `json:"expandedUrl,omitempty"`
	Error       string                `json:"error,omitempty"`
	Details     *errorDetails         `json:"details,omitempty"`
}

// handleExpand runs the analyzer on the submitted URL.
func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req expandRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil || req.URL == "" {
		s.metrics.observeAnalysis(outcomeInvalidURL, 0, 0)
		writeJSON(w, http.StatusBadRequest, expandResponse{Error: model.ErrInvalidURL.Error()})
		return
	}

	start := time.Now()
	analysis, err := s.analyzer.Analyze(r.Context(), req.URL)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, model.ErrInvalidURL):
		s.metrics.observeAnalysis(outcomeInvalidURL, 0, elapsed)
		writeJSON(w, http.StatusBadRequest, expandResponse{Error: model.ErrInvalidURL.Error()})
	case err != nil:
		score := 0
		if analysis != nil {
			score = analysis.Security.Score
		}
		s.metrics.observeAnalysis(outcomeError, score, elapsed)
		s.logger.Warn("analysis failed",
			"request_id", RequestIDFromContext(r.Context()),
			"url", req.URL,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, expandResponse{
			Error: err.Error(),
			Details: &errorDetails{
				Name:    errorName(err),
				Message: err.Error(),
			},
		})
	default:
		s.metrics.observeAnalysis(outcomeSuccess, analysis.Security.Score, elapsed)
		s.logger.Debug("analysis finished",
			"request_id", RequestIDFromContext(r.Context()),
			"url", req.URL,
			"score", analysis.Security.Score,
		)
		writeJSON(w, http.StatusOK, expandResponse{
			Success:     true,
			Security:    &analysis.Security,
			Metadata:    analysis.Metadata,
			ExpandedURL: analysis.ExpandedURL,
		})
	}
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorName classifies err for the "details.name" field.
func errorName(err error) string {
	var fetchErr *metadata.FetchError
	switch {
	case fetch.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return "TimeoutError"
	case errors.As(err, &fetchErr):
		return "FetchError"
	case errors.Is(err, context.Canceled):
		return "AbortError"
	default:
		return "Error"
	}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
