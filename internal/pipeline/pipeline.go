package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/linkpeek/internal/model"
	"golang.org/x/sync/errgroup"
)

// RiskScorer produces a risk verdict. Implementations fold network
// failures into the verdict instead of returning them.
type RiskScorer interface {
	Assess(ctx context.Context, rawURL string) model.RiskAssessment
}

// MetadataResolver resolves preview metadata for a URL.
type MetadataResolver interface {
	Resolve(ctx context.Context, rawURL string) (model.PageMetadata, error)
}

// Analyzer runs a RiskScorer and a MetadataResolver side by side.
type Analyzer struct {
	scorer   RiskScorer
	resolver MetadataResolver
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets a custom logger for the analyzer.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithClock sets the time source for Analysis.Timestamp.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Analyzer.
func New(scorer RiskScorer, resolver MetadataResolver, opts ...Option) *Analyzer {
	a := &Analyzer{
		scorer:   scorer,
		resolver: resolver,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a
}

// Analyze validates rawURL and analyzes it.
//
// An invalid URL returns model.ErrInvalidURL and no Analysis; nothing
// touches the network. Otherwise the returned Analysis is never nil and
// always carries the risk verdict, and the error is the resolver's failure,
// if any.
//
// Design decision: the goroutines share a plain errgroup.Group, not
// errgroup.WithContext, because a resolver failure must not cancel the
// scorer's in-flight requests.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*model.Analysis, error) {
	u, err := model.ParseTargetURL(rawURL)
	if err != nil {
		return nil, err
	}
	target := u.String()

	a.logger.Debug("analyzing URL", "url", target)

	var (
		g        errgroup.Group
		security model.RiskAssessment
		metadata model.PageMetadata
	)

	g.Go(func() error {
		security = a.scorer.Assess(ctx, target)
		return nil
	})
	g.Go(func() error {
		var err error
		metadata, err = a.resolver.Resolve(ctx, target)
		return err
	})
	resolveErr := g.Wait()

	analysis := &model.Analysis{
		OriginalURL: target,
		Security:    security,
		Timestamp:   a.now().UTC(),
	}

	if resolveErr != nil {
		a.logger.Warn("metadata resolution failed",
			"url", target,
			"error", resolveErr,
		)
		analysis.SetError(resolveErr)
		return analysis, resolveErr
	}

	analysis.Metadata = &metadata
	analysis.ExpandedURL = metadata.FinalURL

	a.logger.Debug("analysis complete",
		"url", target,
		"expanded_url", analysis.ExpandedURL,
		"score", security.Score,
	)

	return analysis, nil
}
