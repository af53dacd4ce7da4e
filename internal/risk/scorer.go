package risk

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/nao1215/linkpeek/internal/fetch"
	"github.com/nao1215/linkpeek/internal/model"
)

// Scorer assesses URLs. It is safe for concurrent use.
type Scorer struct {
	fetcher *fetch.Resilient
	logger  *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScorer creates a Scorer that probes URLs through f.
func NewScorer(f *fetch.Resilient, opts ...Option) *Scorer {
	s := &Scorer{
		fetcher: f,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess scores rawURL. Network failures are part of the verdict, so
// Assess never fails.
//
// The network is touched at most twice: one HEAD probe and, for HTML
// responses, one GET for the body.
func (s *Scorer) Assess(ctx context.Context, rawURL string) model.RiskAssessment {
	var findings []model.Finding
	var details model.RiskDetails

	u, parseErr := url.Parse(rawURL)

	if parseErr == nil && strings.EqualFold(u.Scheme, "https") {
		details.SSL = true
	} else {
		findings = append(findings, model.NewFinding(model.RuleNoSSL, ReasonNoSSL, PenaltyNoSSL))
	}

	if parseErr != nil {
		s.logger.Debug("unparsable URL scored as unreachable", "url", rawURL, "error", parseErr)
		findings = append(findings, model.NewFinding(model.RuleFetchFailed, ReasonFetchFailed, PenaltyFetchFailed))
		return model.NewRiskAssessment(findings, details)
	}

	probe, err := s.fetcher.Head(ctx, rawURL)
	if err != nil {
		s.logger.Debug("probe failed", "url", rawURL, "error", err)
		findings = append(findings, model.NewFinding(model.RuleFetchFailed, ReasonFetchFailed, PenaltyFetchFailed))
		return model.NewRiskAssessment(findings, details)
	}
	defer probe.Close()

	findings = append(findings, s.checkHeaders(probe, &details)...)
	findings = append(findings, s.checkPatterns(u, &details)...)
	findings = append(findings, s.checkRedirects(probe, &details)...)
	findings = append(findings, s.checkContent(ctx, rawURL, probe, &details)...)

	assessment := model.NewRiskAssessment(findings, details)
	s.logger.Debug("URL assessed", "url", rawURL, "score", assessment.Score, "safe", assessment.IsSafe)
	return assessment
}

// checkHeaders looks for the two browser-side protection headers.
func (s *Scorer) checkHeaders(probe *fetch.Response, details *model.RiskDetails) []model.Finding {
	findings := make([]model.Finding, 0)

	details.ContentSecurityPolicy = probe.Header.Get("Content-Security-Policy") != ""
	if !details.ContentSecurityPolicy {
		findings = append(findings, model.NewFinding(model.RuleMissingCSP, ReasonMissingCSP, PenaltyMissingCSP))
	}

	details.XSSProtection = probe.Header.Get("X-XSS-Protection") != ""
	if !details.XSSProtection {
		findings = append(findings, model.NewFinding(model.RuleMissingXSSProtection, ReasonMissingXSS, PenaltyMissingXSS))
	}

	return findings
}

// checkPatterns runs every lexical rule. Matches are cumulative.
func (s *Scorer) checkPatterns(u *url.URL, details *model.RiskDetails) []model.Finding {
	findings := make([]model.Finding, 0)
	details.SuspiciousPatterns = make([]string, 0)

	for _, rule := range lexicalRules {
		if !rule.match(u) {
			continue
		}
		details.SuspiciousPatterns = append(details.SuspiciousPatterns, rule.id)
		findings = append(findings, model.NewFinding(rule.id, rule.reason, PenaltyLexicalPattern))
	}

	return findings
}

// checkRedirects penalizes long redirect chains.
func (s *Scorer) checkRedirects(probe *fetch.Response, details *model.RiskDetails) []model.Finding {
	details.RedirectCount = len(probe.Redirects)
	details.RedirectChain = probe.Redirects

	if details.RedirectCount > MaxRedirectsBeforePenalty {
		return []model.Finding{
			model.NewFinding(model.RuleMultipleRedirects, ReasonMultipleRedirects, PenaltyMultipleRedirects),
		}
	}
	return nil
}

// checkContent searches HTML bodies for phishing vocabulary. HEAD carries
// no body, so an HTML probe is followed by one GET. A failed GET leaves the
// rule unapplied.
func (s *Scorer) checkContent(ctx context.Context, rawURL string, probe *fetch.Response, details *model.RiskDetails) []model.Finding {
	if !strings.Contains(strings.ToLower(probe.ContentType()), "text/html") {
		return nil
	}

	resp, err := s.fetcher.Get(ctx, rawURL)
	if err != nil {
		s.logger.Debug("content fetch failed, keyword check skipped", "url", rawURL, "error", err)
		return nil
	}
	defer resp.Close()

	body, err := resp.BodyText()
	if err != nil {
		s.logger.Debug("content read failed, keyword check skipped", "url", rawURL, "error", err)
		return nil
	}

	if containsMaliciousKeyword(body) {
		details.MaliciousKeywords = true
		return []model.Finding{
			model.NewFinding(model.RuleMaliciousKeywords, ReasonMaliciousKeywords, PenaltyMaliciousKeywords),
		}
	}
	return nil
}
