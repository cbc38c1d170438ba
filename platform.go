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


package clinsight

import (
	"io"
	"log/slog"

	"github.com/oraclehealth/clinsight/ai"
	"github.com/oraclehealth/clinsight/ai/openai"
	"github.com/oraclehealth/clinsight/analytics"
	"github.com/oraclehealth/clinsight/decision"
	"github.com/oraclehealth/clinsight/events"
	"github.com/oraclehealth/clinsight/ingestion"
	"github.com/oraclehealth/clinsight/reembed"
	"github.com/oraclehealth/clinsight/risk"
	"github.com/oraclehealth/clinsight/search"
	"github.com/oraclehealth/clinsight/storage"
	"github.com/oraclehealth/clinsight/storage/badger"
)

// Platform wires storage, AI services, and event publication together and
// hands out the analytics services built on them.
type Platform struct {
	backend       *badger.Backend
	recordRepo    storage.RecordRepository
	guidelineRepo storage.GuidelineRepository
	provider      ai.AIProvider
	publisher     *events.BestEffort
	searcher      *search.CaseSearcher
	logger        *slog.Logger
}

// PlatformOption configures a Platform.
type PlatformOption func(*platformOptions)

type platformOptions struct {
	aiConfig  *ai.Config
	provider  ai.AIProvider
	publisher events.Publisher
	logger    *slog.Logger
}

// WithAIConfig sets the AI provider configuration.
// Ignored when WithAIProvider is also given.
func WithAIConfig(config *ai.Config) PlatformOption {
	return func(o *platformOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider supplies a pre-built AI provider instead of constructing
// one from configuration.
func WithAIProvider(provider ai.AIProvider) PlatformOption {
	return func(o *platformOptions) {
		o.provider = provider
	}
}

// WithEventPublisher sets the analytics event publisher.
// Default is an in-memory publisher.
func WithEventPublisher(publisher events.Publisher) PlatformOption {
	return func(o *platformOptions) {
		o.publisher = publisher
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) PlatformOption {
	return func(o *platformOptions) {
		o.logger = logger
	}
}

// NewPlatform opens the storage backend at filePath (empty for in-memory)
// and wires up repositories, AI services, and event publication.
func NewPlatform(filePath string, opts ...PlatformOption) (*Platform, error) {
	options := &platformOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	recordRepo, err := badger.NewRecordRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	guidelineRepo, err := badger.NewGuidelineRepository(backend)
	if err != nil {
		recordRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			guidelineRepo.Close()
			recordRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	publisher := options.publisher
	if publisher == nil {
		publisher = events.NewMemoryPublisher()
	}
	bestEffort := events.NewBestEffort(publisher)

	searcher, err := search.NewCaseSearcher(recordRepo, provider,
		search.WithPublisher(bestEffort),
		search.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		guidelineRepo.Close()
		recordRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Platform{
		backend:       backend,
		recordRepo:    recordRepo,
		guidelineRepo: guidelineRepo,
		provider:      provider,
		publisher:     bestEffort,
		searcher:      searcher,
		logger:        options.logger,
	}, nil
}

// Close releases the platform's resources.
func (p *Platform) Close() error {
	if err := p.publisher.Close(); err != nil {
		p.logger.Error("error closing event publisher", "err", err)
	}
	if err := p.provider.Close(); err != nil {
		p.logger.Error("error closing AI provider", "err", err)
	}

	if err := p.guidelineRepo.Close(); err != nil {
		p.logger.Error("error closing guideline repository", "err", err)
		return err
	}
	if err := p.recordRepo.Close(); err != nil {
		p.logger.Error("error closing record repository", "err", err)
		return err
	}
	if err := p.backend.Close(); err != nil {
		p.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// RecordRepository exposes the clinical record repository.
func (p *Platform) RecordRepository() storage.RecordRepository {
	return p.recordRepo
}

// GuidelineRepository exposes the clinical guideline repository.
func (p *Platform) GuidelineRepository() storage.GuidelineRepository {
	return p.guidelineRepo
}

// Searcher returns the shared similar-case searcher.
func (p *Platform) Searcher() *search.CaseSearcher {
	return p.searcher
}

// NewIngestionPipeline builds an ingestion pipeline on the platform's
// repositories and publisher.
func (p *Platform) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{
		ingestion.WithPublisher(p.publisher),
		ingestion.WithLogger(p.logger),
	}, opts...)
	return ingestion.NewPipeline(p.recordRepo, p.provider, opts...)
}

// NewRiskEngine builds a risk engine on the shared searcher.
func (p *Platform) NewRiskEngine(opts ...risk.Option) (*risk.Engine, error) {
	opts = append([]risk.Option{
		risk.WithPublisher(p.publisher),
		risk.WithLogger(p.logger),
	}, opts...)
	return risk.NewEngine(p.searcher, p.provider, opts...)
}

// NewPopulationAnalyzer builds a population analyzer.
func (p *Platform) NewPopulationAnalyzer(opts ...analytics.Option) (*analytics.PopulationAnalyzer, error) {
	opts = append([]analytics.Option{
		analytics.WithPublisher(p.publisher),
		analytics.WithLogger(p.logger),
	}, opts...)
	return analytics.NewPopulationAnalyzer(p.recordRepo, opts...)
}

// NewDecisionSupport builds a decision support service.
func (p *Platform) NewDecisionSupport(opts ...decision.Option) (*decision.Support, error) {
	opts = append([]decision.Option{
		decision.WithPublisher(p.publisher),
		decision.WithLogger(p.logger),
	}, opts...)
	return decision.NewSupport(p.searcher, p.guidelineRepo, p.provider, opts...)
}

// NewReembedder builds a clinical record reembedder writing progress to w.
func (p *Platform) NewReembedder(config *reembed.Config, w io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(p.recordRepo, p.provider.Embedder(), config, w)
}

// NewGuidelineReembedder builds a guideline reembedder writing progress to w.
func (p *Platform) NewGuidelineReembedder(config *reembed.Config, w io.Writer) *reembed.GuidelineReembedder {
	return reembed.NewGuidelineReembedder(p.guidelineRepo, p.provider.Embedder(), config, w)
}
