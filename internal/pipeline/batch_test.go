package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/linkpeek/internal/model"
)

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(New(&mockScorer{}, &mockResolver{}))

		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(New(&mockScorer{}, &mockResolver{}), WithConcurrency(5))

		if bp.concurrency != 5 {
			t.Errorf("expected concurrency 5, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(New(&mockScorer{}, &mockResolver{}), WithConcurrency(0))

		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})
}

// TestBatchProcessorProcessBatch tests batch processing.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		resolver := &mockResolver{resolveFunc: func(_ context.Context, rawURL string) (model.PageMetadata, error) {
			// Earlier URLs finish later.
			if strings.Contains(rawURL, "first") {
				time.Sleep(30 * time.Millisecond)
			}
			return model.PageMetadata{FinalURL: rawURL}, nil
		}}
		bp := NewBatchProcessor(New(&mockScorer{}, resolver))

		urls := []string{"https://first.example/", "https://second.example/", "https://third.example/"}
		results, err := bp.ProcessBatch(context.Background(), urls)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != len(urls) {
			t.Fatalf("expected %d results, got %d", len(urls), len(results))
		}
		for i, r := range results {
			if r.OriginalURL != urls[i] {
				t.Errorf("results[%d].OriginalURL = %q, expected %q", i, r.OriginalURL, urls[i])
			}
		}
	})

	t.Run("failures are recorded per URL", func(t *testing.T) {
		t.Parallel()

		resolver := &mockResolver{resolveFunc: func(_ context.Context, rawURL string) (model.PageMetadata, error) {
			if strings.Contains(rawURL, "bad") {
				return model.PageMetadata{}, errors.New("unreachable")
			}
			return model.PageMetadata{FinalURL: rawURL}, nil
		}}
		bp := NewBatchProcessor(New(&mockScorer{}, resolver))

		results, err := bp.ProcessBatch(context.Background(), []string{
			"https://good.example/",
			"https://bad.example/",
			"not a url",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results[0].Failed() {
			t.Error("expected first URL to succeed")
		}
		if !results[1].Failed() || results[1].ErrorMessage != "unreachable" {
			t.Errorf("results[1] = %+v", results[1])
		}
		if !errors.Is(results[2].Error, model.ErrInvalidURL) {
			t.Errorf("results[2].Error = %v, expected ErrInvalidURL", results[2].Error)
		}
		if results[2].OriginalURL != "not a url" {
			t.Errorf("results[2].OriginalURL = %q", results[2].OriginalURL)
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		resolver := &mockResolver{resolveFunc: func(_ context.Context, rawURL string) (model.PageMetadata, error) {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			current.Add(-1)
			return model.PageMetadata{FinalURL: rawURL}, nil
		}}
		bp := NewBatchProcessor(New(&mockScorer{}, resolver), WithConcurrency(2))

		urls := make([]string, 8)
		for i := range urls {
			urls[i] = "https://example.com/" + string(rune('a'+i))
		}
		if _, err := bp.ProcessBatch(context.Background(), urls); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("peak concurrency = %d, expected at most 2", peak.Load())
		}
	})

	t.Run("cancelled context stops the batch", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(New(&mockScorer{}, &mockResolver{}), WithConcurrency(1))
		results, err := bp.ProcessBatch(ctx, []string{"https://a.example/", "https://b.example/"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(results) != 2 {
			t.Errorf("expected results slice of 2, got %d", len(results))
		}
	})

	t.Run("empty input returns empty results", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(New(&mockScorer{}, &mockResolver{}))
		results, err := bp.ProcessBatch(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})
}
