package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/linkpeek/internal/model"
)

// severityOrder lists severities from most to least severe.
var severityOrder = []model.Severity{
	model.SeverityCritical,
	model.SeverityHigh,
	model.SeverityMedium,
	model.SeverityLow,
	model.SeverityInfo,
}

// Summary aggregates a batch of analyses.
type Summary struct {
	// Total is the number of analyses, nil entries excluded.
	Total int `json:"total"`

	// Safe and Unsafe count risk verdicts.
	Safe   int `json:"safe"`
	Unsafe int `json:"unsafe"`

	// Failed counts analyses whose metadata could not be resolved.
	Failed int `json:"failed"`

	// BySeverity counts findings per severity label (CRITICAL, HIGH, ...).
	BySeverity map[string]int `json:"bySeverity"`
}

// Summarize builds a Summary over analyses. Nil entries are skipped.
func Summarize(analyses []*model.Analysis) Summary {
	s := Summary{BySeverity: make(map[string]int, len(severityOrder))}
	for _, sev := range severityOrder {
		s.BySeverity[sev.String()] = 0
	}

	for _, a := range analyses {
		if a == nil {
			continue
		}
		s.Total++
		if a.Security.IsSafe {
			s.Safe++
		} else {
			s.Unsafe++
		}
		if a.Failed() {
			s.Failed++
		}
		for _, sev := range severityOrder {
			s.BySeverity[sev.String()] += a.Security.CountBySeverity(sev)
		}
	}
	return s
}

// Count returns the number of findings with the given severity.
func (s Summary) Count(severity model.Severity) int {
	return s.BySeverity[severity.String()]
}

// TotalFindings returns the number of findings across all severities.
func (s Summary) TotalFindings() int {
	total := 0
	for _, n := range s.BySeverity {
		total += n
	}
	return total
}

// severityLabel renders a severity as "Critical", "High", and so on.
// A Caser is stateful, so each call gets its own.
func severityLabel(severity model.Severity) string {
	return cases.Title(language.English).String(strings.ToLower(severity.String()))
}

// verdict returns the human-readable safety verdict.
func verdict(a *model.Analysis) string {
	if a.Security.IsSafe {
		return "SAFE"
	}
	return "UNSAFE"
}
