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


package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/events"
	"github.com/oraclehealth/clinsight/storage"
)

// PopulationAnalyzer computes cohort-level insights from stored clinical
// records. Record groups are summarized concurrently on a worker pool and
// folded into a single result.
type PopulationAnalyzer struct {
	records   storage.RecordRepository
	publisher events.Publisher
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a PopulationAnalyzer.
type Option func(*PopulationAnalyzer) error

// WithPoolSize sets the worker pool size for group summarization.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(a *PopulationAnalyzer) error {
		if size < 1 {
			size = 1
		}
		if a.pool != nil {
			a.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		a.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *PopulationAnalyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithPublisher sets the analytics event publisher.
func WithPublisher(publisher events.Publisher) Option {
	return func(a *PopulationAnalyzer) error {
		a.publisher = publisher
		return nil
	}
}

// NewPopulationAnalyzer creates a population analyzer backed by the given
// record repository.
func NewPopulationAnalyzer(records storage.RecordRepository, opts ...Option) (*PopulationAnalyzer, error) {
	if records == nil {
		return nil, ErrRecordRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	a := &PopulationAnalyzer{
		records: records,
		pool:    pool,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(a); optErr != nil {
			a.Release()
			return nil, optErr
		}
	}

	return a, nil
}

// Analyze summarizes the cohort selected by the criteria. Records are
// fetched for the encounter time range, filtered by condition prefix and
// record type, then summarized per record type on the worker pool.
func (a *PopulationAnalyzer) Analyze(ctx context.Context, criteria Criteria) (*PopulationInsights, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()

	records, err := a.records.GetRecordsByDateRange(ctx, criteria.Start, criteria.End)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cohort records: %w", err)
	}

	groups := make(map[core.RecordType][]*core.ClinicalRecord)
	for _, record := range records {
		if criteria.matches(record) {
			groups[record.RecordType] = append(groups[record.RecordType], record)
		}
	}

	merged := newInsightAccumulator()

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, group := range groups {
		group := group
		wg.Add(1)
		task := func() {
			defer wg.Done()
			acc := newInsightAccumulator()
			for _, record := range group {
				acc.add(record)
			}
			mu.Lock()
			merged.Merge(acc)
			mu.Unlock()
		}
		if submitErr := a.pool.Submit(task); submitErr != nil {
			task()
		}
	}
	wg.Wait()

	insights := merged.finalize(criteria)

	a.logger.Info("population analysis completed",
		"condition", criteria.ConditionPrefix,
		"records", insights.TotalRecords,
		"patients", insights.PatientCount,
		"groups", len(groups),
		"durationMs", time.Since(started).Milliseconds())

	a.publishAnalysisEvent(ctx, criteria, insights)

	return insights, nil
}

// Release releases the worker pool. The analyzer should not be used after
// calling Release.
func (a *PopulationAnalyzer) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

func (a *PopulationAnalyzer) publishAnalysisEvent(ctx context.Context, criteria Criteria, insights *PopulationInsights) {
	if a.publisher == nil {
		return
	}

	event := events.NewEvent(events.TypePopulationAnalysisCompleted, map[string]any{
		"conditionPrefix": criteria.ConditionPrefix,
		"periodStart":     criteria.Start,
		"periodEnd":       criteria.End,
		"totalRecords":    insights.TotalRecords,
		"patientCount":    insights.PatientCount,
		"highRiskShare":   insights.HighRiskShare,
	})
	if err := a.publisher.Publish(ctx, event); err != nil {
		a.logger.Warn("failed to publish analysis event", "err", err)
	}
}
