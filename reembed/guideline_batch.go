package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/oraclehealth/clinsight/ai"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/storage"
)

// GuidelineBatchProcessor handles embedding generation for batches of guidelines.
type GuidelineBatchProcessor struct {
	repo           storage.GuidelineRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewGuidelineBatchProcessor creates a new guideline batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewGuidelineBatchProcessor(repo storage.GuidelineRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *GuidelineBatchProcessor {
	return &GuidelineBatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of guidelines and writes them
// back. Guideline IDs are content-derived, so re-adding an existing
// guideline overwrites it in place.
func (bp *GuidelineBatchProcessor) Process(ctx context.Context, guidelines []*core.Guideline) error {
	if len(guidelines) == 0 {
		return nil
	}

	texts := make([]string, len(guidelines))
	for i, guideline := range guidelines {
		texts[i] = guidelineText(guideline)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(guidelines) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(guidelines), len(embeddings))
	}

	for i := range guidelines {
		guidelines[i].Embedding = core.NormalizeVector(embeddings[i])
	}

	_, err = bp.repo.AddGuidelines(ctx, guidelines...)
	if err != nil {
		return fmt.Errorf("failed to update guidelines: %w", err)
	}

	return nil
}

// guidelineText is the text embedded for a guideline.
func guidelineText(g *core.Guideline) string {
	return g.Title + "\n\n" + g.Body
}
