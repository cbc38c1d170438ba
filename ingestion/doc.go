// Package ingestion provides pipeline orchestration for clinical records.
//
// The Pipeline validates and normalizes incoming records, persists them,
// and generates embeddings asynchronously on a worker pool. Embedding
// errors are logged but never fail the ingest call, so records become
// searchable as soon as their vectors arrive.
package ingestion
