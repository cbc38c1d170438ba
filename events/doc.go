// Package events publishes analytics notifications about platform operations.
//
// Every significant operation (semantic search, risk assessment, record
// ingestion, population analysis, decision support) emits an AnalyticsEvent.
// Delivery is best-effort: operational results never depend on whether an
// event reached its consumers, so the BestEffort wrapper logs and swallows
// publish failures.
//
// Production deployments publish to a Redis pub/sub channel
// ("clinical-analytics-events" by default). Tests and broker-less
// deployments use MemoryPublisher.
package events
