package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/linkpeek/internal/fetch"
	"github.com/nao1215/linkpeek/internal/metadata"
	"github.com/nao1215/linkpeek/internal/model"
)

// analyzerFunc adapts a function to the Analyzer interface.
type analyzerFunc func(ctx context.Context, rawURL string) (*model.Analysis, error)

func (f analyzerFunc) Analyze(ctx context.Context, rawURL string) (*model.Analysis, error) {
	return f(ctx, rawURL)
}

// successAnalyzer returns a safe analysis whose final URL is finalURL.
func successAnalyzer(finalURL string) analyzerFunc {
	return func(_ context.Context, rawURL string) (*model.Analysis, error) {
		if _, err := model.ParseTargetURL(rawURL); err != nil {
			return nil, err
		}
		title := "Example"
		return &model.Analysis{
			OriginalURL: rawURL,
			ExpandedURL: finalURL,
			Security: model.NewRiskAssessment(
				[]model.Finding{model.NewFinding(model.RuleMissingCSP, "Missing Content Security Policy", 10)},
				model.RiskDetails{SSL: true},
			),
			Metadata: &model.PageMetadata{Title: &title, FinalURL: finalURL},
		}, nil
	}
}

func postExpand(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/expand", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not JSON: %v: %s", err, rec.Body.String())
	}
	return rec, got
}

func TestHandleExpand(t *testing.T) {
	t.Parallel()

	t.Run("returns security metadata and expanded url on success", func(t *testing.T) {
		t.Parallel()

		s := New(":0", successAnalyzer("https://example.com/final"))
		rec, got := postExpand(t, s.Handler(), `{"url":"https://bit.ly/x"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got["success"] != true {
			t.Errorf("success = %v, want true", got["success"])
		}
		if got["expandedUrl"] != "https://example.com/final" {
			t.Errorf("expandedUrl = %v", got["expandedUrl"])
		}
		security, ok := got["security"].(map[string]any)
		if !ok {
			t.Fatalf("security missing: %v", got)
		}
		if security["score"] != float64(90) || security["isSafe"] != true {
			t.Errorf("security = %v, want score 90 safe", security)
		}
		meta, ok := got["metadata"].(map[string]any)
		if !ok {
			t.Fatalf("metadata missing: %v", got)
		}
		if meta["title"] != "Example" {
			t.Errorf("metadata.title = %v", meta["title"])
		}
		if _, present := meta["previewUrl"]; !present {
			t.Error("absent optional fields should serialize as null")
		}
		if _, present := got["error"]; present {
			t.Error("success response should not carry an error")
		}
	})

	invalid := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ``},
		{name: "malformed json", body: `{"url":`},
		{name: "missing url field", body: `{}`},
		{name: "relative url", body: `{"url":"/path"}`},
		{name: "non http scheme", body: `{"url":"ftp://example.com"}`},
		{name: "not a url", body: `{"url":"not a url"}`},
	}
	for _, tt := range invalid {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			analyzer := analyzerFunc(func(ctx context.Context, rawURL string) (*model.Analysis, error) {
				calls.Add(1)
				return successAnalyzer("https://example.com")(ctx, rawURL)
			})
			s := New(":0", analyzer)
			rec, got := postExpand(t, s.Handler(), tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got["success"] != false {
				t.Errorf("success = %v, want false", got["success"])
			}
			if got["error"] != "Invalid URL format" {
				t.Errorf("error = %v, want Invalid URL format", got["error"])
			}
			if _, present := got["security"]; present {
				t.Error("400 response should not carry security")
			}
		})
	}

	t.Run("returns 500 with error details when resolving fails", func(t *testing.T) {
		t.Parallel()

		fetchErr := &metadata.FetchError{URL: "https://example.com/missing", StatusCode: http.StatusNotFound}
		analyzer := analyzerFunc(func(_ context.Context, rawURL string) (*model.Analysis, error) {
			a := &model.Analysis{
				OriginalURL: rawURL,
				Security:    model.NewRiskAssessment(nil, model.RiskDetails{SSL: true}),
			}
			a.SetError(fetchErr)
			return a, fetchErr
		})
		s := New(":0", analyzer)
		rec, got := postExpand(t, s.Handler(), `{"url":"https://example.com/missing"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
		if got["success"] != false {
			t.Errorf("success = %v, want false", got["success"])
		}
		if got["error"] != "failed to expand URL: HTTP status 404" {
			t.Errorf("error = %v", got["error"])
		}
		details, ok := got["details"].(map[string]any)
		if !ok {
			t.Fatalf("details missing: %v", got)
		}
		if details["name"] != "FetchError" {
			t.Errorf("details.name = %v, want FetchError", details["name"])
		}
		if details["message"] != "failed to expand URL: HTTP status 404" {
			t.Errorf("details.message = %v", details["message"])
		}
		if _, present := details["stack"]; present {
			t.Error("details must not carry a stack")
		}
	})

	t.Run("sets json content type", func(t *testing.T) {
		t.Parallel()

		s := New(":0", successAnalyzer("https://example.com"))
		rec, _ := postExpand(t, s.Handler(), `{"url":"https://example.com"}`)
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("Content-Type = %q", ct)
		}
	})

	t.Run("rejects other methods", func(t *testing.T) {
		t.Parallel()

		s := New(":0", successAnalyzer("https://example.com"))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/expand", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

// headerCountingWriter records how often WriteHeader is called.
type headerCountingWriter struct {
	http.ResponseWriter
	calls []int
}

func (w *headerCountingWriter) WriteHeader(code int) {
	w.calls = append(w.calls, code)
	w.ResponseWriter.WriteHeader(code)
}

func (w *headerCountingWriter) Write(b []byte) (int, error) {
	if len(w.calls) == 0 {
		w.calls = append(w.calls, http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func TestRequestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("slow analysis answers once with a timeout error", func(t *testing.T) {
		t.Parallel()

		slow := analyzerFunc(func(ctx context.Context, _ string) (*model.Analysis, error) {
			<-ctx.Done()
			return nil, fmt.Errorf("analyze: %w", ctx.Err())
		})
		s := New(":0", slow, WithRequestTimeout(20*time.Millisecond))

		req := httptest.NewRequest(http.MethodPost, "/api/expand", strings.NewReader(`{"url":"https://example.com"}`))
		rec := httptest.NewRecorder()
		w := &headerCountingWriter{ResponseWriter: rec}
		s.Handler().ServeHTTP(w, req)

		if len(w.calls) != 1 || w.calls[0] != http.StatusInternalServerError {
			t.Fatalf("WriteHeader calls = %v, want exactly [500]", w.calls)
		}
		var got expandResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("response is not JSON: %v: %s", err, rec.Body.String())
		}
		if got.Details == nil || got.Details.Name != "TimeoutError" {
			t.Errorf("details = %+v, want name TimeoutError", got.Details)
		}
	})

	t.Run("deadline does not apply outside the api routes", func(t *testing.T) {
		t.Parallel()

		s := New(":0", successAnalyzer("https://example.com"), WithRequestTimeout(time.Nanosecond))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestErrorName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "fetch error with status",
			err:  &metadata.FetchError{URL: "https://example.com", StatusCode: 500},
			want: "FetchError",
		},
		{
			name: "fetch error caused by timeout",
			err:  &metadata.FetchError{URL: "https://example.com", Err: fmt.Errorf("head: %w", fetch.ErrTimeout)},
			want: "TimeoutError",
		},
		{
			name: "request deadline exceeded",
			err:  fmt.Errorf("analyze: %w", context.DeadlineExceeded),
			want: "TimeoutError",
		},
		{
			name: "canceled request",
			err:  fmt.Errorf("analyze: %w", context.Canceled),
			want: "AbortError",
		},
		{
			name: "anything else",
			err:  errors.New("boom"),
			want: "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := errorName(tt.err); got != tt.want {
				t.Errorf("errorName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	s := New(":0", successAnalyzer("https://example.com"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("exposes analysis and request counters", func(t *testing.T) {
		t.Parallel()

		s := New(":0", successAnalyzer("https://example.com"))
		postExpand(t, s.Handler(), `{"url":"https://example.com"}`)
		postExpand(t, s.Handler(), `{"url":"ftp://example.com"}`)

		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		body := rec.Body.String()
		for _, want := range []string{
			`linkpeek_analyses_total{outcome="success"} 1`,
			`linkpeek_analyses_total{outcome="invalid_url"} 1`,
			`linkpeek_risk_score_count 1`,
			`linkpeek_analysis_duration_seconds_count 1`,
			`linkpeek_http_requests_total{method="POST",route="/api/expand",status="200"} 1`,
			`linkpeek_http_requests_total{method="POST",route="/api/expand",status="400"} 1`,
		} {
			if !strings.Contains(body, want) {
				t.Errorf("metrics output missing %q", want)
			}
		}
	})

	t.Run("separate servers do not share collectors", func(t *testing.T) {
		t.Parallel()

		a := New(":0", successAnalyzer("https://example.com"))
		b := New(":0", successAnalyzer("https://example.com"))
		postExpand(t, a.Handler(), `{"url":"https://example.com"}`)

		rec := httptest.NewRecorder()
		b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if strings.Contains(rec.Body.String(), `linkpeek_analyses_total{outcome="success"} 1`) {
			t.Error("metrics leaked between servers")
		}
	})
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates an id when none is sent", func(t *testing.T) {
		t.Parallel()

		s := New(":0", successAnalyzer("https://example.com"))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if id := rec.Header().Get(RequestIDHeader); len(id) != 36 {
			t.Errorf("request id = %q, want a UUID", id)
		}
	})

	t.Run("reuses a well formed incoming id", func(t *testing.T) {
		t.Parallel()

		const id = "3f1c2b9e-8d4a-4f6b-9c2d-1a2b3c4d5e6f"
		s := New(":0", successAnalyzer("https://example.com"))
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, id)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != id {
			t.Errorf("request id = %q, want %q", got, id)
		}
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		t.Parallel()

		s := New(":0", successAnalyzer("https://example.com"))
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got == "<script>" {
			t.Error("malformed request id was echoed")
		}
	})

	t.Run("is available to handlers", func(t *testing.T) {
		t.Parallel()

		var seen string
		analyzer := analyzerFunc(func(ctx context.Context, rawURL string) (*model.Analysis, error) {
			seen = RequestIDFromContext(ctx)
			return successAnalyzer("https://example.com")(ctx, rawURL)
		})
		s := New(":0", analyzer)
		rec, _ := postExpand(t, s.Handler(), `{"url":"https://example.com"}`)

		if seen == "" || seen != rec.Header().Get(RequestIDHeader) {
			t.Errorf("handler saw %q, response header %q", seen, rec.Header().Get(RequestIDHeader))
		}
	})
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	analyzer := analyzerFunc(func(context.Context, string) (*model.Analysis, error) {
		panic("analyzer exploded")
	})
	s := New(":0", analyzer)

	req := httptest.NewRequest(http.MethodPost, "/api/expand", strings.NewReader(`{"url":"https://example.com"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestServe(t *testing.T) {
	t.Parallel()

	t.Run("serves requests and shuts down when the context ends", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("listen: %v", err)
		}

		s := New(ln.Addr().String(), successAnalyzer("https://example.com"), WithShutdownTimeout(time.Second))
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Serve(ctx, ln) }()

		resp, err := http.Post("http://"+ln.Addr().String()+"/api/expand", "application/json",
			bytes.NewBufferString(`{"url":"https://example.com"}`))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve() error = %v, want nil", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("run fails on an unusable address", func(t *testing.T) {
		t.Parallel()

		s := New("256.0.0.1:bad", successAnalyzer("https://example.com"))
		if err := s.Run(context.Background()); err == nil {
			t.Error("expected listen error")
		}
	})
}
