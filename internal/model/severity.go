package model

// Severity represents how strongly a risk finding counts against a URL.
// This allows grouping findings in reports by their impact on the score.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates informational findings with no score impact.
	SeverityInfo Severity = iota

	// SeverityLow indicates hardening gaps such as missing security headers.
	SeverityLow

	// SeverityMedium indicates lexical warning signs in the URL itself
	// and unusual redirect behaviour.
	SeverityMedium

	// SeverityHigh indicates issues that expose visitors directly, such as
	// plaintext transport or credential-harvesting vocabulary.
	SeverityHigh

	// SeverityCritical indicates the URL could not be analyzed at all.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Rule identifiers. They appear in Finding.Rule and, for the lexical
// rules, in RiskDetails.SuspiciousPatterns.
const (
	RuleNoSSL                 = "no_ssl"
	RuleFetchFailed           = "fetch_failed"
	RuleMissingCSP            = "missing_csp"
	RuleMissingXSSProtection  = "missing_xss_protection"
	RuleIPAddressHost         = "ip_address_host"
	RuleNonStandardCharacters = "non_standard_characters"
	RulePromotionalBait       = "promotional_bait"
	RuleSuspiciousTLD         = "suspicious_tld"
	RuleMultipleRedirects     = "multiple_redirects"
	RuleMaliciousKeywords     = "malicious_keywords"
)

// RuleInfo contains metadata about a rule including severity,
// impact description, and remediation recommendation.
type RuleInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// ruleInfoMapping maps rule identifiers to their metadata.
// This centralized mapping keeps report output consistent with the scorer.
var ruleInfoMapping = map[string]RuleInfo{
	RuleFetchFailed: {
		Severity:       SeverityCritical,
		Impact:         "The URL could not be fetched, so nothing about its destination can be verified.",
		Recommendation: "Do not open links whose destination cannot be resolved.",
	},
	RuleNoSSL: {
		Severity:       SeverityHigh,
		Impact:         "Traffic to this URL is sent in plaintext and can be read or modified in transit.",
		Recommendation: "Prefer the https:// version of the link or avoid entering data on the page.",
	},
	RuleMaliciousKeywords: {
		Severity:       SeverityHigh,
		Impact:         "The page asks about credentials or financial data, a common trait of phishing pages.",
		Recommendation: "Never enter passwords or payment details on pages reached through shortened links.",
	},
	RuleIPAddressHost: {
		Severity:       SeverityMedium,
		Impact:         "The link points at a raw IP address instead of a registered domain name.",
		Recommendation: "Be suspicious of links that hide who operates the destination.",
	},
	RuleNonStandardCharacters: {
		Severity:       SeverityMedium,
		Impact:         "The host name contains encoded or unusual characters that may imitate a familiar domain.",
		Recommendation: "Compare the host name letter by letter with the site you expect.",
	},
	RulePromotionalBait: {
		Severity:       SeverityMedium,
		Impact:         "The URL uses prize or giveaway phrasing typical for scam campaigns.",
		Recommendation: "Treat unsolicited offers with suspicion.",
	},
	RuleSuspiciousTLD: {
		Severity:       SeverityMedium,
		Impact:         "The domain uses a top-level domain that is frequently abused for malicious sites.",
		Recommendation: "Verify the destination through an independent channel.",
	},
	RuleMultipleRedirects: {
		Severity:       SeverityMedium,
		Impact:         "The link bounces through several redirects, which can hide the real destination.",
		Recommendation: "Review the redirect chain before trusting the final page.",
	},
	RuleMissingCSP: {
		Severity:       SeverityLow,
		Impact:         "Without a Content-Security-Policy the page is more exposed to script injection.",
		Recommendation: "Site operators should add a Content-Security-Policy header.",
	},
	RuleMissingXSSProtection: {
		Severity:       SeverityLow,
		Impact:         "The legacy X-XSS-Protection header is absent.",
		Recommendation: "Site operators should send X-XSS-Protection or rely on a strict CSP.",
	},
}

// GetSeverity returns the severity level for a rule identifier.
// Returns SeverityInfo if the rule is not in the mapping.
func GetSeverity(rule string) Severity {
	if info, ok := ruleInfoMapping[rule]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetRuleInfo returns the full rule information for a rule identifier.
// Returns a default RuleInfo with SeverityInfo if the rule is not in the mapping.
func GetRuleInfo(rule string) RuleInfo {
	if info, ok := ruleInfoMapping[rule]; ok {
		return info
	}
	return RuleInfo{
		Severity:       SeverityInfo,
		Impact:         "Unknown rule. Review manually.",
		Recommendation: "Investigate the finding and assess risk.",
	}
}
