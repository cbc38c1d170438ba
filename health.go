package clinsight

import (
	"context"
	"time"

	"github.com/oraclehealth/clinsight/search"
)

// Status grades the availability of the platform or one of its components.
type Status string

const (
	StatusHealthy   Status = "HEALTHY"
	StatusDegraded  Status = "DEGRADED"
	StatusUnhealthy Status = "UNHEALTHY"
)

// ComponentHealth is the probe result for a single dependency.
type ComponentHealth struct {
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// HealthReport aggregates per-dependency probes into an overall status.
// Storage is load-bearing: when it is down the platform is UNHEALTHY.
// Any other failing dependency degrades the platform instead.
type HealthReport struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	CheckedAt  time.Time                  `json:"checkedAt"`
}

// pinger is implemented by publishers with a live broker connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// Health probes the platform's dependencies.
func (p *Platform) Health(ctx context.Context) *HealthReport {
	report := &HealthReport{
		Components: make(map[string]ComponentHealth),
		CheckedAt:  time.Now().UTC(),
	}

	storageHealth := ComponentHealth{Status: StatusHealthy}
	if err := p.backend.Ping(ctx); err != nil {
		storageHealth = ComponentHealth{Status: StatusUnhealthy, Detail: err.Error()}
	}
	report.Components["storage"] = storageHealth

	aiHealth := ComponentHealth{Status: StatusHealthy}
	if p.provider.Embedder() == nil || p.provider.RiskFactorExtractor() == nil {
		aiHealth = ComponentHealth{Status: StatusUnhealthy, Detail: "AI provider not configured"}
	}
	report.Components["ai"] = aiHealth

	// In-memory publishers have no connection to probe
	eventsHealth := ComponentHealth{Status: StatusHealthy}
	if pingable, ok := p.publisher.Inner().(pinger); ok {
		if err := pingable.Ping(ctx); err != nil {
			eventsHealth = ComponentHealth{Status: StatusUnhealthy, Detail: err.Error()}
		}
	}
	report.Components["events"] = eventsHealth

	switch {
	case storageHealth.Status != StatusHealthy:
		report.Status = StatusUnhealthy
	case aiHealth.Status != StatusHealthy || eventsHealth.Status != StatusHealthy:
		report.Status = StatusDegraded
	default:
		report.Status = StatusHealthy
	}

	return report
}

// PerformanceMetrics reports measured operation aggregates.
type PerformanceMetrics struct {
	Searches         int64         `json:"searches"`
	CacheHits        int64         `json:"cacheHits"`
	AvgSearchLatency time.Duration `json:"avgSearchLatency"`
	MaxSearchLatency time.Duration `json:"maxSearchLatency"`
	EventsPublished  uint64        `json:"eventsPublished"`
	EventsDropped    uint64        `json:"eventsDropped"`
}

// Metrics snapshots the platform's performance aggregates.
func (p *Platform) Metrics() PerformanceMetrics {
	var snap search.Metrics
	if collector := p.searcher.Metrics(); collector != nil {
		snap = collector.Snapshot()
	}

	return PerformanceMetrics{
		Searches:         snap.Searches,
		CacheHits:        snap.CacheHits,
		AvgSearchLatency: snap.AvgLatency,
		MaxSearchLatency: snap.MaxLatency,
		EventsPublished:  p.publisher.Published(),
		EventsDropped:    p.publisher.Dropped(),
	}
}
