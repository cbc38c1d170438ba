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

	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/storage"
)

// GuidelineIterator iterates over all guidelines in batches.
type GuidelineIterator struct {
	repo      storage.GuidelineRepository
	batchSize int
}

// NewGuidelineIterator creates a new guideline iterator.
// batchSize: number of guidelines to fetch in each batch (must be > 0)
func NewGuidelineIterator(repo storage.GuidelineRepository, batchSize int) *GuidelineIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &GuidelineIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all guidelines, calling fn for each batch.
// Iteration stops on first error from fn or when all guidelines are processed.
// Context cancellation is checked between batches.
func (it *GuidelineIterator) ForEach(ctx context.Context, fn func([]*core.Guideline) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	guidelines, err := it.repo.GetAllGuidelines(ctx)
	if err != nil {
		return err
	}

	if len(guidelines) == 0 {
		return nil
	}

	for i := 0; i < len(guidelines); i += it.batchSize {
		end := i + it.batchSize
		if end > len(guidelines) {
			end = len(guidelines)
		}

		if err := fn(guidelines[i:end]); err != nil {
			return err
		}

		// Check context after each batch
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
