package openai

import (
	"context"
	"log/slog"

	"github.com/oraclehealth/clinsight/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxEmbedChars bounds the text sent per embedding request. Long discharge
// summaries can exceed embedding model context windows; the head of a
// clinical narrative carries the presenting problem, so truncation keeps
// the most discriminative text.
const maxEmbedChars = 8000

// Embedder embeds clinical text through an OpenAI-compatible embedding API.
// Narratives are scrubbed of markup punctuation and truncated before they
// are sent.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// newEmbedder returns the concrete type for use by Provider.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Token "none" satisfies local OpenAI-compatible services that skip auth
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates an embedder from the configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText embeds a single clinical narrative.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedding service returned no vector")
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts embeds a batch of clinical narratives in one request.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	prepared := make([]string, len(texts))
	for i, text := range texts {
		prepared[i] = prepareNarrative(text)
	}

	e.logger.Debug("embedding clinical text", "count", len(prepared))

	vectors, err := e.embedder.EmbedDocuments(ctx, prepared)
	if err != nil {
		e.logger.Error("embedding request failed", "count", len(prepared), "err", err)
		return nil, err
	}
	return vectors, nil
}

// prepareNarrative scrubs markup punctuation and truncates to the
// embedding request bound. Clinical measurement punctuation survives
// the scrub (see scrubString).
func prepareNarrative(text string) string {
	text = scrubString(text)
	if len(text) > maxEmbedChars {
		text = text[:maxEmbedChars]
	}
	return text
}
