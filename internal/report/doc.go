// Package report renders analysis results for people and tools.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown for sharing results
//
// Design decision: We separate report writing from the analysis data
// structures (which are in the model package). The HTTP service serializes
// the same model types directly, so report formatting never leaks into the
// API responses.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report
