package model

// Score bounds and the safety threshold.
const (
	// MaxScore is the score of a URL that triggered no rule.
	MaxScore = 100

	// MinScore is the floor the score is clamped to. Penalties can add up
	// to more than MaxScore; anything below the floor is reported as MinScore.
	MinScore = 0

	// SafeThreshold is the lowest score still considered safe.
	SafeThreshold = 70
)

// RedirectHop is a single step of a redirect chain.
type RedirectHop struct {
	// URL is the address that answered with a redirect.
	URL string `json:"url"`

	// StatusCode is the redirect status (301, 302, 303, 307 or 308).
	StatusCode int `json:"statusCode"`
}

// Finding is one triggered scoring rule.
type Finding struct {
	// Rule is the rule identifier (see the Rule* constants).
	Rule string `json:"rule"`

	// Reason is the human-readable risk text listed in RiskAssessment.Risks.
	Reason string `json:"reason"`

	// Penalty is the number of points the rule subtracted.
	Penalty int `json:"penalty"`

	// Severity is the report grouping of the rule.
	Severity Severity `json:"-"`

	// SeverityText is the string form of Severity for serialization.
	SeverityText string `json:"severity"`
}

// NewFinding creates a Finding with severity taken from the rule mapping.
func NewFinding(rule, reason string, penalty int) Finding {
	severity := GetSeverity(rule)
	return Finding{
		Rule:         rule,
		Reason:       reason,
		Penalty:      penalty,
		Severity:     severity,
		SeverityText: severity.String(),
	}
}

// RiskDetails is the structured evidence behind a RiskAssessment.
type RiskDetails struct {
	// SSL is true when the URL scheme is https.
	SSL bool `json:"ssl"`

	// Age is reserved for a domain-age signal and is always nil.
	Age *string `json:"age"`

	// SuspiciousPatterns lists the identifiers of matched lexical rules.
	SuspiciousPatterns []string `json:"suspiciousPatterns"`

	// MaliciousKeywords is true when the page body contained a phrase
	// from the keyword list.
	MaliciousKeywords bool `json:"maliciousKeywords"`

	// RedirectCount is the number of redirects the probe followed.
	RedirectCount int `json:"redirectCount"`

	// RedirectChain lists every redirect hop in order.
	RedirectChain []RedirectHop `json:"redirectChain,omitempty"`

	// ContentSecurityPolicy is true when the response carried a CSP header.
	ContentSecurityPolicy bool `json:"contentSecurityPolicy"`

	// XSSProtection is true when the response carried X-XSS-Protection.
	XSSProtection bool `json:"xssProtection"`
}

// RiskAssessment is the heuristic safety verdict for a URL.
//
// IsSafe is always Score >= SafeThreshold. Build values with
// NewRiskAssessment so that invariant and the score clamp hold.
type RiskAssessment struct {
	IsSafe   bool        `json:"isSafe"`
	Score    int         `json:"score"`
	Risks    []string    `json:"risks"`
	Details  RiskDetails `json:"details"`
	Findings []Finding   `json:"findings,omitempty"`
}

// NewRiskAssessment computes score, safety flag and risk list from the
// triggered findings. Findings keep their order in Risks.
func NewRiskAssessment(findings []Finding, details RiskDetails) RiskAssessment {
	score := MaxScore
	risks := make([]string, 0, len(findings))
	for _, f := range findings {
		score -= f.Penalty
		risks = append(risks, f.Reason)
	}
	if score < MinScore {
		score = MinScore
	}
	if details.SuspiciousPatterns == nil {
		details.SuspiciousPatterns = make([]string, 0)
	}

	return RiskAssessment{
		IsSafe:   score >= SafeThreshold,
		Score:    score,
		Risks:    risks,
		Details:  details,
		Findings: findings,
	}
}

// FindingsBySeverity returns findings with the given severity, in order.
func (r RiskAssessment) FindingsBySeverity(severity Severity) []Finding {
	result := make([]Finding, 0)
	for _, f := range r.Findings {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}

// CountBySeverity returns how many findings have the given severity.
func (r RiskAssessment) CountBySeverity(severity Severity) int {
	return len(r.FindingsBySeverity(severity))
}
