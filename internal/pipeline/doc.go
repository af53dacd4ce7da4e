// Package pipeline runs the two URL analyzers and merges their results.
//
// An Analyzer runs the risk scorer and the metadata resolver concurrently
// for one URL. The analyzers share nothing, so neither can slow down or
// cancel the other. The scorer never fails; a resolver failure is recorded
// in the resulting model.Analysis and also returned.
//
// A BatchProcessor runs an Analyzer over many URLs with bounded
// concurrency using errgroup.SetLimit. Results keep input order and a
// failing URL never aborts the batch.
package pipeline
