package mock

import (
	"context"
	"strings"

	"github.com/oraclehealth/clinsight/ai"
)

// MockRiskFactorExtractor is a test double for ai.RiskFactorExtractor.
// It allows custom behavior injection via function fields.
type MockRiskFactorExtractor struct {
	// ExtractRiskFactorsFunc is called by ExtractRiskFactors if set.
	// If nil, uses default simple keyword extraction.
	ExtractRiskFactorsFunc func(ctx context.Context, text string) ([]ai.ExtractedRiskFactor, error)

	callCount int
}

// NewMockRiskFactorExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockRiskFactorExtractor() *MockRiskFactorExtractor {
	return &MockRiskFactorExtractor{}
}

// riskKeywords maps recognizable terms in clinical text to mock factors.
var riskKeywords = map[string]ai.ExtractedRiskFactor{
	"diabetes":     {Name: "diabetes", Category: "chronic_condition", Weight: 8},
	"hypertension": {Name: "hypertension", Category: "chronic_condition", Weight: 7},
	"smoking":      {Name: "tobacco use", Category: "substance_use", Weight: 7},
	"tobacco":      {Name: "tobacco use", Category: "substance_use", Weight: 7},
	"obesity":      {Name: "obesity", Category: "lifestyle", Weight: 6},
	"sepsis":       {Name: "sepsis", Category: "acute_condition", Weight: 10},
}

// ExtractRiskFactors extracts simple mock risk factors from text.
// Default behavior: scans for known clinical keywords, then falls back to
// generic word-derived factors so every non-empty narrative yields something.
func (m *MockRiskFactorExtractor) ExtractRiskFactors(ctx context.Context, text string) ([]ai.ExtractedRiskFactor, error) {
	m.callCount++

	if m.ExtractRiskFactorsFunc != nil {
		return m.ExtractRiskFactorsFunc(ctx, text)
	}

	lower := strings.ToLower(text)
	factors := make([]ai.ExtractedRiskFactor, 0, 4)
	seen := make(map[string]bool)

	for keyword, factor := range riskKeywords {
		if strings.Contains(lower, keyword) && !seen[factor.Name] {
			factors = append(factors, factor)
			seen[factor.Name] = true
		}
	}
	if len(factors) > 0 {
		return factors, nil
	}

	// Fallback: derive factors from the first few words
	words := strings.Fields(lower)
	weight := 8
	for i, word := range words {
		if i >= 3 {
			break
		}
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}
		factors = append(factors, ai.ExtractedRiskFactor{
			Name:     word,
			Category: "chronic_condition",
			Weight:   weight,
		})
		if weight > 1 {
			weight--
		}
	}

	return factors, nil
}

// CallCount returns the number of times ExtractRiskFactors was called.
func (m *MockRiskFactorExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockRiskFactorExtractor) Reset() {
	m.callCount = 0
	m.ExtractRiskFactorsFunc = nil
}
