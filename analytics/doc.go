// Package analytics provides population-level analysis over stored
// clinical records.
//
// A PopulationAnalyzer selects a cohort by ICD code prefix, encounter
// time range, and optional record types, then summarizes it into
// PopulationInsights: record and patient counts, severity and record
// type breakdowns, the most frequent diagnosis codes, and the share of
// high-risk encounters. Per-type record groups are summarized
// concurrently on a worker pool and merged with an associative fold.
package analytics
