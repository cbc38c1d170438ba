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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/oraclehealth/clinsight/ai"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of items to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of items)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates the reembedding of all clinical records in a database.
type Reembedder struct {
	repo      storage.RecordRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *RecordIterator
}

// NewReembedder creates a new clinical record reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.RecordRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewRecordIterator(repo, config.BatchSize),
	}
}

// Run executes the reembedding operation. Every clinical record in the
// database is reembedded with the configured embedder.
func (r *Reembedder) Run(ctx context.Context) error {
	// Count total records up front so progress has a denominator
	startTime := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	endTime := time.Date(2100, 12, 31, 23, 59, 59, 0, time.UTC)

	allRecords, err := r.repo.GetRecordsByDateRange(ctx, startTime, endTime)
	if err != nil {
		return fmt.Errorf("failed to query records: %w", err)
	}

	totalRecords := len(allRecords)
	if totalRecords == 0 {
		fmt.Fprintf(r.progress, "No records found in database (0 records)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d records (batch size: %d)\n",
		totalRecords, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalRecords, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(records []*core.ClinicalRecord) error {
		if err := r.processor.Process(ctx, records); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(records)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d records in %v (%.1f records/sec)\n",
		totalRecords, elapsed.Round(time.Second), float64(totalRecords)/elapsed.Seconds())

	return nil
}

// GuidelineReembedder orchestrates the reembedding of all guidelines in a database.
type GuidelineReembedder struct {
	repo      storage.GuidelineRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *GuidelineBatchProcessor
	iterator  *GuidelineIterator
}

// NewGuidelineReembedder creates a new guideline reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewGuidelineReembedder(repo storage.GuidelineRepository, embedder ai.Embedder, config *Config, progress io.Writer) *GuidelineReembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &GuidelineReembedder{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewGuidelineBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewGuidelineIterator(repo, config.BatchSize),
	}
}

// Run executes the reembedding operation. Every guideline in the database
// is reembedded with the configured embedder.
func (r *GuidelineReembedder) Run(ctx context.Context) error {
	allGuidelines, err := r.repo.GetAllGuidelines(ctx)
	if err != nil {
		return fmt.Errorf("failed to query guidelines: %w", err)
	}

	totalGuidelines := len(allGuidelines)
	if totalGuidelines == 0 {
		fmt.Fprintf(r.progress, "No guidelines found in database (0 guidelines)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d guidelines (batch size: %d)\n",
		totalGuidelines, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalGuidelines, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(guidelines []*core.Guideline) error {
		if err := r.processor.Process(ctx, guidelines); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(guidelines)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d guidelines in %v (%.1f guidelines/sec)\n",
		totalGuidelines, elapsed.Round(time.Second), float64(totalGuidelines)/elapsed.Seconds())

	return nil
}
