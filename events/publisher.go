// Copyright 2025 Oracle Health Analytics
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package events

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Analytics event types published by the platform.
const (
	TypeSemanticSearchPerformed     = "SEMANTIC_SEARCH_PERFORMED"
	TypeRiskAssessmentCompleted     = "RISK_ASSESSMENT_COMPLETED"
	TypeRecordIngested              = "RECORD_INGESTED"
	TypePopulationAnalysisCompleted = "POPULATION_ANALYSIS_COMPLETED"
	TypeDecisionSupportProvided     = "CLINICAL_DECISION_SUPPORT_PROVIDED"
)

// AnalyticsEvent is a notification about a platform operation.
// Events are observational; no platform behavior depends on their delivery.
type AnalyticsEvent struct {
	// Type identifies the operation, one of the Type* constants.
	Type string `json:"type"`

	// Timestamp records when the operation completed.
	Timestamp time.Time `json:"timestamp"`

	// Data carries operation-specific payload fields.
	Data map[string]any `json:"data,omitempty"`
}

// NewEvent creates an analytics event with the current timestamp.
func NewEvent(eventType string, data map[string]any) *AnalyticsEvent {
	return &AnalyticsEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// Publisher delivers analytics events to downstream consumers.
// Implementations must be thread-safe for concurrent use.
type Publisher interface {
	// Publish delivers an event. Returns an error if delivery fails.
	Publish(ctx context.Context, event *AnalyticsEvent) error

	// Close releases resources held by the publisher.
	Close() error
}

// BestEffort wraps a Publisher so delivery failures are logged and swallowed.
// Analytics events never fail the operation that produced them.
type BestEffort struct {
	inner     Publisher
	logger    *slog.Logger
	published atomic.Uint64
	dropped   atomic.Uint64
}

var _ Publisher = (*BestEffort)(nil)

// NewBestEffort wraps the given publisher in best-effort delivery semantics.
func NewBestEffort(inner Publisher) *BestEffort {
	return &BestEffort{
		inner:  inner,
		logger: slog.Default().With("component", "events"),
	}
}

// Publish attempts delivery and logs a warning on failure. Always returns nil.
func (b *BestEffort) Publish(ctx context.Context, event *AnalyticsEvent) error {
	if err := b.inner.Publish(ctx, event); err != nil {
		b.dropped.Add(1)
		b.logger.Warn("failed to publish analytics event",
			"type", event.Type,
			"err", err)
		return nil
	}
	b.published.Add(1)
	return nil
}

// Inner returns the wrapped publisher.
func (b *BestEffort) Inner() Publisher {
	return b.inner
}

// Published returns the number of events successfully delivered.
func (b *BestEffort) Published() uint64 {
	return b.published.Load()
}

// Dropped returns the number of events lost to delivery failures.
func (b *BestEffort) Dropped() uint64 {
	return b.dropped.Load()
}

// Close closes the wrapped publisher.
func (b *BestEffort) Close() error {
	return b.inner.Close()
}
