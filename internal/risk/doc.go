// Package risk computes a heuristic safety score for a URL.
//
// The Scorer starts every URL at model.MaxScore and subtracts a fixed
// penalty for each rule that fires:
//
//	no https                          -30
//	HEAD probe failed                 -50 (all later checks skipped)
//	missing Content-Security-Policy   -10
//	missing X-XSS-Protection          -10
//	each lexical rule                 -15
//	more than two redirects           -10
//	suspicious keywords in HTML body  -20
//
// The score is clamped at model.MinScore and a URL is safe when its score is
// at least model.SafeThreshold. Every fired rule contributes one
// human-readable reason, so a verdict can always be explained.
//
// The rules are static heuristics. They do not consult reputation feeds
// and do not render pages.
package risk
