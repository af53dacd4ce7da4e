// Package model defines the value objects produced by linkpeek's analyzers.
//
// This package contains the following main types:
//   - RiskAssessment: The heuristic safety score of a URL with its reasons
//   - RiskDetails: Structured evidence behind a RiskAssessment
//   - PageMetadata: Preview metadata resolved for a URL
//   - Analysis: The merged result of one URL analysis
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The risk scorer, metadata resolver, pipeline, report writers
// and HTTP server all share these types.
//
// Every type is built once per analyzed URL and never mutated afterwards.
// The JSON field names follow the camelCase wire format of the HTTP API.
package model
