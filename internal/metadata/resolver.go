package metadata

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/linkpeek/internal/fetch"
	"github.com/nao1215/linkpeek/internal/htmlmeta"
	"github.com/nao1215/linkpeek/internal/model"
)

// Tag queries, in priority order where more than one applies.
var (
	previewImageQueries = []htmlmeta.Query{
		{Tag: "meta", MatchAttr: "property", MatchValues: []string{"og:image"}, ReturnAttr: "content"},
		{Tag: "meta", MatchAttr: "name", MatchValues: []string{"twitter:image"}, ReturnAttr: "content"},
	}
	faviconQuery = htmlmeta.Query{
		Tag: "link", MatchAttr: "rel", MatchValues: []string{"icon", "shortcut icon"}, ReturnAttr: "href",
	}
	descriptionQuery = htmlmeta.Query{
		Tag: "meta", MatchAttr: "name", MatchValues: []string{"description"}, ReturnAttr: "content",
	}
)

// Resolver resolves page metadata. It is safe for concurrent use.
type Resolver struct {
	fetcher *fetch.Resilient
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock sets the time source for PageMetadata.Timestamp.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a Resolver that fetches through f.
func NewResolver(f *fetch.Resilient, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher: f,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve follows rawURL to its final destination and collects preview
// metadata. Every failure is a *FetchError.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (model.PageMetadata, error) {
	probe, err := r.fetcher.Probe(ctx, rawURL)
	if err != nil {
		return model.PageMetadata{}, &FetchError{URL: rawURL, Err: err}
	}
	defer probe.Close()

	if !probe.OK() {
		return model.PageMetadata{}, &FetchError{URL: rawURL, StatusCode: probe.StatusCode}
	}

	md := model.PageMetadata{
		ContentType:   model.OptionalString(probe.Header.Get("Content-Type")),
		LastModified:  model.OptionalString(probe.Header.Get("Last-Modified")),
		ContentLength: model.OptionalString(probe.Header.Get("Content-Length")),
		Server:        model.OptionalString(probe.Header.Get("Server")),
		FinalURL:      probe.FinalURL,
	}

	if strings.HasPrefix(strings.ToLower(probe.ContentType()), "image/") {
		md.PreviewURL = model.OptionalString(probe.FinalURL)
		md.PreviewType = model.OptionalString(model.PreviewTypeImage)
		md.Timestamp = model.FormatTimestamp(r.now())
		r.logger.Debug("resolved direct image", "url", rawURL, "final_url", probe.FinalURL)
		return md, nil
	}

	page, err := r.extract(ctx, rawURL)
	if err != nil {
		return model.PageMetadata{}, err
	}

	for _, q := range previewImageQueries {
		if v, ok := page.FirstAttr(q); ok {
			if abs, ok := htmlmeta.ResolveURL(rawURL, v); ok {
				md.PreviewURL = &abs
				md.PreviewType = model.OptionalString(model.PreviewTypeImage)
				break
			}
		}
	}
	if v, ok := page.FirstAttr(faviconQuery); ok {
		if abs, ok := htmlmeta.ResolveURL(rawURL, v); ok {
			md.FaviconURL = &abs
		}
	}
	if v, ok := page.Text("title"); ok {
		md.Title = model.OptionalString(strings.TrimSpace(v))
	}
	if v, ok := page.FirstAttr(descriptionQuery); ok {
		md.Description = model.OptionalString(strings.TrimSpace(v))
	}

	md.Timestamp = model.FormatTimestamp(r.now())
	r.logger.Debug("resolved page", "url", rawURL, "final_url", probe.FinalURL)
	return md, nil
}

// extract downloads the page body and tokenizes it.
func (r *Resolver) extract(ctx context.Context, rawURL string) (*htmlmeta.Extractor, error) {
	resp, err := r.fetcher.Get(ctx, rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Close()

	if !resp.OK() {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := resp.BodyText()
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	page, err := htmlmeta.ParseString(body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	return page, nil
}
