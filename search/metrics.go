package search

import (
	"sync"
	"time"
)

// Metrics is a snapshot of search latency aggregates.
type Metrics struct {
	// Searches is the total number of completed searches.
	Searches int64

	// CacheHits is the number of searches served from the result cache.
	CacheHits int64

	// AvgLatency is the mean end-to-end search latency.
	AvgLatency time.Duration

	// MaxLatency is the slowest observed search.
	MaxLatency time.Duration
}

// MetricsCollector accumulates search latency aggregates.
// Safe for concurrent use.
type MetricsCollector struct {
	mu           sync.Mutex
	searches     int64
	cacheHits    int64
	totalLatency time.Duration
	maxLatency   time.Duration
}

// NewMetricsCollector creates an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordSearch records one completed search.
func (m *MetricsCollector) RecordSearch(latency time.Duration, cacheHit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searches++
	if cacheHit {
		m.cacheHits++
	}
	m.totalLatency += latency
	if latency > m.maxLatency {
		m.maxLatency = latency
	}
}

// Snapshot returns the current aggregates.
func (m *MetricsCollector) Snapshot() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Metrics{
		Searches:   m.searches,
		CacheHits:  m.cacheHits,
		MaxLatency: m.maxLatency,
	}
	if m.searches > 0 {
		snap.AvgLatency = m.totalLatency / time.Duration(m.searches)
	}
	return snap
}

// Reset clears all aggregates.
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = 0
	m.cacheHits = 0
	m.totalLatency = 0
	m.maxLatency = 0
}
