package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/linkpeek/internal/model"
)

// lineWidth is the width of the separator lines.
const lineWidth = 70

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and a severity indicator per risk.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so the output can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose adds rule impact text and the redirect chain.
	verbose bool

	// summaryOnly prints the batch summary and one line per URL.
	summaryOnly bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithSummaryOnly limits the output to the batch summary and one
// verdict line per URL.
func WithSummaryOnly(summaryOnly bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.summaryOnly = summaryOnly
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the analyses in human-readable format.
func (w *SimpleWriter) Write(analyses []*model.Analysis) (int, error) {
	var sb strings.Builder
	summary := Summarize(analyses)

	w.writeHeader(&sb, summary)

	if w.summaryOnly {
		w.writeVerdictLines(&sb, analyses)
	} else {
		for i, a := range analyses {
			if a == nil {
				continue
			}
			w.writeAnalysis(&sb, i+1, a)
		}
	}

	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with batch totals.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
	sb.WriteString("                         LINKPEEK REPORT\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("URLs Analyzed:  %d\n", summary.Total))
	sb.WriteString(fmt.Sprintf("Safe:           %d\n", summary.Safe))
	sb.WriteString(fmt.Sprintf("Unsafe:         %d\n", summary.Unsafe))
	sb.WriteString(fmt.Sprintf("Not Resolved:   %d\n", summary.Failed))
	sb.WriteString("\n")
}

// writeVerdictLines writes one line per analysis.
func (w *SimpleWriter) writeVerdictLines(sb *strings.Builder, analyses []*model.Analysis) {
	for _, a := range analyses {
		if a == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-6s %3d  %s\n", verdict(a), a.Security.Score, a.OriginalURL))
	}
	sb.WriteString("\n")
}

// writeAnalysis writes the section for a single URL.
func (w *SimpleWriter) writeAnalysis(sb *strings.Builder, index int, a *model.Analysis) {
	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("[%d] %s\n", index, a.OriginalURL))
	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n\n")

	if a.ExpandedURL != "" {
		sb.WriteString(fmt.Sprintf("Expanded URL:   %s\n", a.ExpandedURL))
	}
	sb.WriteString(fmt.Sprintf("Risk Score:     %d/%d (%s)\n", a.Security.Score, model.MaxScore, verdict(a)))
	sb.WriteString(fmt.Sprintf("HTTPS:          %s\n", yesNo(a.Security.Details.SSL)))
	sb.WriteString(fmt.Sprintf("Redirects:      %d\n", a.Security.Details.RedirectCount))
	if a.Failed() {
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", a.ErrorMessage))
	}
	sb.WriteString("\n")

	w.writeRisks(sb, a.Security)

	if w.verbose && len(a.Security.Details.RedirectChain) > 0 {
		sb.WriteString("REDIRECT CHAIN\n")
		for _, hop := range a.Security.Details.RedirectChain {
			sb.WriteString(fmt.Sprintf("  %d %s\n", hop.StatusCode, hop.URL))
		}
		sb.WriteString("\n")
	}

	if a.Metadata != nil {
		w.writeMetadata(sb, a.Metadata)
	}
}

// writeRisks writes triggered rules grouped by severity.
func (w *SimpleWriter) writeRisks(sb *strings.Builder, assessment model.RiskAssessment) {
	sb.WriteString("RISKS\n")
	if len(assessment.Findings) == 0 {
		sb.WriteString("  No risks detected\n\n")
		return
	}

	for _, severity := range severityOrder {
		for _, f := range assessment.FindingsBySeverity(severity) {
			sb.WriteString(fmt.Sprintf("  [%s] %s (-%d)\n", getSeverityIndicator(severity), f.Reason, f.Penalty))
			if w.verbose {
				sb.WriteString(fmt.Sprintf("        %s\n", model.GetRuleInfo(f.Rule).Impact))
			}
		}
	}
	sb.WriteString("\n")
}

// writeMetadata writes the resolved preview fields that are present.
func (w *SimpleWriter) writeMetadata(sb *strings.Builder, meta *model.PageMetadata) {
	fields := []struct {
		label string
		value *string
	}{
		{"Title", meta.Title},
		{"Description", meta.Description},
		{"Preview", meta.PreviewURL},
		{"Favicon", meta.FaviconURL},
		{"Content-Type", meta.ContentType},
		{"Server", meta.Server},
	}

	sb.WriteString("METADATA\n")
	written := 0
	for _, field := range fields {
		if field.value == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-13s %s\n", field.label+":", *field.value))
		written++
	}
	if written == 0 {
		sb.WriteString("  No metadata found\n")
	}
	sb.WriteString("\n")
}

// getSeverityIndicator returns a visual indicator for the severity level.
func getSeverityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by linkpeek\n")
	sb.WriteString("https://github.com/nao1215/linkpeek\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
