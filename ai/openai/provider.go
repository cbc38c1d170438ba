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
	"log/slog"

	"github.com/oraclehealth/clinsight/ai"
)

// Provider bundles the embedding and risk factor extraction services built
// from one configuration. Both may point at the same OpenAI-compatible host
// or at separate ones (ai.Config keeps distinct hosts and models per
// service).
type Provider struct {
	embedder  *Embedder
	extractor *RiskFactorExtractor
	logger    *slog.Logger
}

// NewProvider validates the configuration and constructs both services.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	extractor, err := newRiskFactorExtractor(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		embedder:  embedder,
		extractor: extractor,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// RiskFactorExtractor returns the risk factor extraction service.
func (p *Provider) RiskFactorExtractor() ai.RiskFactorExtractor {
	return p.extractor
}

// Close releases provider resources. The langchaingo clients hold no
// connections that need explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
