// Package reembed migrates stored embeddings to a new or updated
// embedding model.
//
// Clinical records and guidelines are processed in batches with retry
// and exponential backoff, normalized to unit length, and written back
// through their repositories. Progress is reported incrementally so
// long migrations remain observable.
package reembed
