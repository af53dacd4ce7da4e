package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/linkpeek/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for sharing results in issues and chat.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which gives us tables, mermaid charts and GitHub-flavored
// alerts without hand-escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the analyses in Markdown format.
func (w *MarkdownWriter) Write(analyses []*model.Analysis) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := Summarize(analyses)

	md.H1("linkpeek Report")
	md.PlainText("")

	w.writeSummary(md, summary, analyses)

	for _, a := range analyses {
		if a == nil {
			continue
		}
		w.writeAnalysis(md, a)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeSummary writes the overview table and the severity distribution.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary Summary, analyses []*model.Analysis) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(analyses))
	for _, a := range analyses {
		if a == nil {
			continue
		}
		expanded := a.ExpandedURL
		if expanded == "" {
			expanded = "-"
		}
		rows = append(rows, []string{
			"`" + a.OriginalURL + "`",
			"`" + expanded + "`",
			strconv.Itoa(a.Security.Score),
			verdictBadge(a),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Expanded", "Score", "Verdict"},
		Rows:   rows,
	})
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(summary.Count(model.SeverityCritical))},
			{"🟠 High", strconv.Itoa(summary.Count(model.SeverityHigh))},
			{"🟡 Medium", strconv.Itoa(summary.Count(model.SeverityMedium))},
			{"🔵 Low", strconv.Itoa(summary.Count(model.SeverityLow))},
			{"**Total**", "**" + strconv.Itoa(summary.TotalFindings()) + "**"},
		},
	})
	md.PlainText("")

	if summary.TotalFindings() > 0 {
		w.writePieChart(md, summary)
	}
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Risk Severity Distribution"),
		piechart.WithShowData(true),
	)

	for _, severity := range severityOrder {
		if n := summary.Count(severity); n > 0 {
			chart.LabelAndIntValue(severityLabel(severity), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAnalysis writes the section for a single URL.
func (w *MarkdownWriter) writeAnalysis(md *markdown.Markdown, a *model.Analysis) {
	md.H2(a.OriginalURL)
	md.PlainText("")

	w.writeAlert(md, a)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Expanded URL", orDash(a.ExpandedURL)},
			{"Risk Score", fmt.Sprintf("%d/%d", a.Security.Score, model.MaxScore)},
			{"HTTPS", yesNo(a.Security.Details.SSL)},
			{"Redirects", strconv.Itoa(a.Security.Details.RedirectCount)},
			{"Content-Security-Policy", yesNo(a.Security.Details.ContentSecurityPolicy)},
			{"X-XSS-Protection", yesNo(a.Security.Details.XSSProtection)},
		},
	})
	md.PlainText("")

	w.writeFindings(md, a.Security)

	if len(a.Security.Details.RedirectChain) > 0 {
		chain := make([]string, 0, len(a.Security.Details.RedirectChain))
		for _, hop := range a.Security.Details.RedirectChain {
			chain = append(chain, fmt.Sprintf("%d `%s`", hop.StatusCode, hop.URL))
		}
		md.PlainText("### Redirect Chain")
		md.PlainText("")
		md.OrderedList(chain...)
		md.PlainText("")
	}

	if a.Metadata != nil {
		w.writeMetadata(md, a.Metadata)
	}
}

// writeAlert writes an alert that matches the verdict.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, a *model.Analysis) {
	switch {
	case a.Failed():
		md.Cautionf("The destination could not be resolved: %s", a.ErrorMessage)
	case !a.Security.IsSafe:
		md.Warningf("Score %d is below the safety threshold of %d.", a.Security.Score, model.SafeThreshold)
	case len(a.Security.Findings) > 0:
		md.Note("Only minor risks detected.")
	default:
		md.Tip("No risks detected.")
	}
	md.PlainText("")
}

// writeFindings writes a table of triggered rules, most severe first.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, assessment model.RiskAssessment) {
	md.PlainText("### Risks")
	md.PlainText("")

	if len(assessment.Findings) == 0 {
		md.PlainText("No risks detected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(assessment.Findings))
	for _, severity := range severityOrder {
		for _, f := range assessment.FindingsBySeverity(severity) {
			rows = append(rows, []string{
				severityLabel(severity),
				f.Reason,
				"-" + strconv.Itoa(f.Penalty),
				truncateString(model.GetRuleInfo(f.Rule).Recommendation, 60),
			})
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Risk", "Penalty", "Recommendation"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeMetadata writes the resolved preview inside a collapsible block.
func (w *MarkdownWriter) writeMetadata(md *markdown.Markdown, meta *model.PageMetadata) {
	md.Details("Metadata", fmt.Sprintf(
		"Title: %s<br>Description: %s<br>Preview: %s<br>Favicon: %s<br>Content-Type: %s<br>Server: %s",
		orDash(model.StringValue(meta.Title)),
		orDash(truncateString(model.StringValue(meta.Description), 120)),
		orDash(model.StringValue(meta.PreviewURL)),
		orDash(model.StringValue(meta.FaviconURL)),
		orDash(model.StringValue(meta.ContentType)),
		orDash(model.StringValue(meta.Server)),
	))
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [linkpeek](https://github.com/nao1215/linkpeek)*")
}

func verdictBadge(a *model.Analysis) string {
	if a.Security.IsSafe {
		return "✅ Safe"
	}
	return "⚠️ Unsafe"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
