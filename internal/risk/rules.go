package risk

import (
	"net/netip"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/nao1215/linkpeek/internal/model"
	"golang.org/x/net/publicsuffix"
)

// Penalties subtracted from the score when a rule fires.
const (
	PenaltyNoSSL             = 30
	PenaltyFetchFailed       = 50
	PenaltyMissingCSP        = 10
	PenaltyMissingXSS        = 10
	PenaltyLexicalPattern    = 15
	PenaltyMultipleRedirects = 10
	PenaltyMaliciousKeywords = 20
)

// MaxRedirectsBeforePenalty is the number of redirects tolerated before
// the multiple-redirects rule fires.
const MaxRedirectsBeforePenalty = 2

// Risk reasons.
const (
	ReasonNoSSL             = "No SSL/HTTPS encryption"
	ReasonFetchFailed       = "Failed to fetch URL content"
	ReasonMissingCSP        = "Missing Content Security Policy"
	ReasonMissingXSS        = "Missing XSS Protection"
	ReasonMultipleRedirects = "Multiple redirects detected"
	ReasonMaliciousKeywords = "Suspicious keywords detected in content"
)

// MaliciousKeywords are searched case-insensitively in HTML bodies.
var MaliciousKeywords = []string{
	"phishing",
	"password",
	"credit card",
	"bank account",
	"social security",
	"verify your account",
}

// SuspiciousTLDs are top-level domains frequently abused for throwaway
// phishing and malware hosts.
var SuspiciousTLDs = []string{"ru", "cn", "tk", "ga", "ml", "cf", "gq", "top"}

// lexicalRule inspects the URL string alone, without network access.
type lexicalRule struct {
	id     string
	reason string
	match  func(u *url.URL) bool
}

var promotionalBait = regexp.MustCompile(`(?i)(free|win|lucky|prize|money).{0,10}(offer|now|today|limited)`)

var nonStandardHost = regexp.MustCompile(`[^A-Za-z0-9.\-]`)

// lexicalRules are evaluated independently and in this order.
var lexicalRules = []lexicalRule{
	{
		id:     model.RuleIPAddressHost,
		reason: "IP address used instead of a domain name",
		match: func(u *url.URL) bool {
			addr, err := netip.ParseAddr(u.Hostname())
			return err == nil && addr.Is4()
		},
	},
	{
		id:     model.RuleNonStandardCharacters,
		reason: "Non-standard characters in domain name",
		match: func(u *url.URL) bool {
			return nonStandardHost.MatchString(authority(u))
		},
	},
	{
		id:     model.RulePromotionalBait,
		reason: "Promotional bait wording in URL",
		match: func(u *url.URL) bool {
			return promotionalBait.MatchString(u.String())
		},
	},
	{
		id:     model.RuleSuspiciousTLD,
		reason: "Suspicious top-level domain",
		match: func(u *url.URL) bool {
			return slices.Contains(SuspiciousTLDs, topLevelDomain(u.Hostname()))
		},
	},
}

// authority returns the host prefixed with any userinfo, so that
// "http://bank.example@evil.example/" is judged on more than its real host.
// The port is left out.
func authority(u *url.URL) string {
	if u.User == nil {
		return u.Hostname()
	}
	return u.User.String() + "@" + u.Hostname()
}

// topLevelDomain returns the last label of the host's public suffix, or ""
// for IP literals and empty hosts.
func topLevelDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return ""
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return ""
	}
	suffix, _ := publicsuffix.PublicSuffix(host)
	if i := strings.LastIndexByte(suffix, '.'); i >= 0 {
		return suffix[i+1:]
	}
	return suffix
}

// containsMaliciousKeyword reports whether body contains any keyword.
func containsMaliciousKeyword(body string) bool {
	lower := strings.ToLower(body)
	for _, kw := range MaliciousKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
