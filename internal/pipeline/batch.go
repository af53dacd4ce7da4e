package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/linkpeek/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of URLs analyzed at once in a batch.
const DefaultConcurrency = 10

// BatchProcessor analyzes many URLs concurrently.
//
// Design decision: BatchProcessor is separate from Analyzer so a single
// analysis stays a plain function call for the HTTP server, while the CLI
// gets bounded fan-out.
type BatchProcessor struct {
	// analyzer is shared by every goroutine; it holds no per-call state.
	analyzer *Analyzer

	// concurrency is the maximum number of concurrent analyses.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
// Default is DefaultConcurrency if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(analyzer *Analyzer, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		analyzer:    analyzer,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes urls and returns one Analysis per URL in input
// order. A URL that fails to resolve or validate is recorded in its
// Analysis and does not stop the others.
//
// The error is non-nil only when ctx is cancelled; analyses that did not
// start are then nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]*model.Analysis, error) {
	bp.logger.Info("starting batch processing",
		"total_urls", len(urls),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.Analysis, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			analysis, err := bp.analyzer.Analyze(ctx, rawURL)
			if analysis == nil {
				analysis = &model.Analysis{OriginalURL: rawURL, Timestamp: time.Now().UTC()}
				analysis.SetError(err)
			}
			results[i] = analysis

			if err != nil {
				bp.logger.Warn("analysis failed",
					"url", rawURL,
					"index", i+1,
					"error", err,
				)
				return nil
			}

			bp.logger.Info("analysis completed",
				"url", rawURL,
				"index", i+1,
				"total", len(urls),
			)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_urls", len(urls),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
