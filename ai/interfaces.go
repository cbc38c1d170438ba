package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// RiskFactorExtractor extracts clinical risk factors from narrative text.
// Implementations must be thread-safe for concurrent use.
type RiskFactorExtractor interface {
	// ExtractRiskFactors analyzes clinical text and extracts risk factors with
	// their categories and weights. Risk factors represent conditions,
	// behaviors, or findings that contribute to patient risk.
	// Returns an empty slice if no risk factors are found.
	// Returns an error if extraction fails.
	ExtractRiskFactors(ctx context.Context, text string) ([]ExtractedRiskFactor, error)
}

// ExtractedRiskFactor represents a clinical risk factor identified in text.
// Each factor has a name, a category, and a weight indicating how much it
// contributes to overall patient risk.
type ExtractedRiskFactor struct {
	// Name is the factor identifier in lowercase, 1-4 words.
	// Example: "uncontrolled hypertension", "tobacco use", "renal failure"
	Name string

	// Category classifies the factor (e.g., "chronic_condition", "lifestyle").
	// Must match one of the predefined risk factor categories.
	Category string

	// Weight is a score from 1-10 indicating how strongly this factor
	// contributes to patient risk. Higher scores = greater risk contribution.
	Weight int
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and RiskFactorExtractor instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// RiskFactorExtractor returns the risk factor extraction service.
	// The returned RiskFactorExtractor is safe for concurrent use.
	RiskFactorExtractor() RiskFactorExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
