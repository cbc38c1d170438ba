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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/oraclehealth/clinsight/ai"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/storage"
)

// embeddingProcessor generates embeddings for stored clinical records.
type embeddingProcessor struct {
	records  storage.RecordRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(records storage.RecordRepository, embedder ai.Embedder, logger *slog.Logger) (*embeddingProcessor, error) {
	if records == nil {
		return nil, ErrRecordRepositoryRequired
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		records:  records,
		embedder: embedder,
		logger:   logger.With("processor", "embeddings"),
	}, nil
}

// process generates unit-length embeddings for the specified records.
func (ep *embeddingProcessor) process(ctx context.Context, ids ...core.ID) error {
	ep.logger.Info("processing records for embeddings", "records", len(ids))

	slices.Sort(ids)

	records, err := ep.records.GetRecords(ctx, ids...)
	if err != nil {
		ep.logger.Error("error retrieving clinical records", "err", err)
		return err
	}
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.SearchText()
	}

	ep.logger.Debug("generating embeddings for clinical records", "records", len(texts))
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(records), len(embeddings))
	}

	for i := range embeddings {
		records[i].Embedding = core.NormalizeVector(embeddings[i])
	}

	_, err = ep.records.UpdateRecords(ctx, records...)
	return err
}
