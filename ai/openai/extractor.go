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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/oraclehealth/clinsight/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// RiskFactorExtractor implements ai.RiskFactorExtractor using OpenAI-compatible chat APIs.
type RiskFactorExtractor struct {
	client    llms.Model
	minWeight int
	logger    *slog.Logger
}

// riskFactor is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type riskFactor struct {
	Factor   string `json:"factor"`
	Category string `json:"category"`
	Weight   int    `json:"weight"`
}

// analysis is the wrapper structure for the LLM's JSON response.
type analysis struct {
	RiskFactors []riskFactor `json:"risk_factors"`
}

// newRiskFactorExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newRiskFactorExtractor(config *ai.Config) (*RiskFactorExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/extraction
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &RiskFactorExtractor{
		client:    client,
		minWeight: config.MinWeight,
		logger:    slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewRiskFactorExtractor creates a new risk factor extractor using the provided configuration.
//
// Returns ai.RiskFactorExtractor interface to enforce abstraction.
func NewRiskFactorExtractor(config *ai.Config) (ai.RiskFactorExtractor, error) {
	return newRiskFactorExtractor(config)
}

// ExtractRiskFactors extracts clinical risk factors from text using an LLM.
// It applies weight filtering and returns only factors above the minimum threshold.
func (e *RiskFactorExtractor) ExtractRiskFactors(ctx context.Context, text string) ([]ai.ExtractedRiskFactor, error) {
	// Scrub input text
	text = scrubString(text)

	// Build the system and user prompts
	systemPrompt := buildSystemPrompt()
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result analysis
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []ai.ExtractedRiskFactor{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
		return nil, lastErr
	}

	// Filter by weight and convert to ai.ExtractedRiskFactor
	extracted := make([]ai.ExtractedRiskFactor, 0, len(result.RiskFactors))
	for _, f := range result.RiskFactors {
		if f.Weight >= e.minWeight {
			extracted = append(extracted, ai.ExtractedRiskFactor{
				Name:     f.Factor,
				Category: f.Category,
				Weight:   f.Weight,
			})
		}
	}

	// Sort by weight (descending)
	slices.SortFunc(extracted, func(a, b ai.ExtractedRiskFactor) int {
		if a.Weight == b.Weight {
			return 0
		}
		if a.Weight < b.Weight {
			return 1
		}
		return -1
	})

	e.logger.Debug("extracted risk factors",
		"total", len(result.RiskFactors),
		"filtered", len(extracted))

	for i, f := range extracted {
		extracted[i].Category = strings.ReplaceAll(f.Category, " ", "_")
	}
	return extracted, nil
}
