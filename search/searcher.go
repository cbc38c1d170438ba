package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/oraclehealth/clinsight/ai"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/events"
	"github.com/oraclehealth/clinsight/storage"
)

// Default search bounds applied when a query leaves them unset.
const (
	DefaultThreshold = 0.7
	DefaultLimit     = 10
)

// Query describes a similar-case search request.
type Query struct {
	// Text is the clinical query narrative.
	Text string

	// Demographics optionally enriches the query with patient context.
	Demographics *core.Demographics

	// Threshold is the minimum cosine similarity, in [0, 1].
	// Zero selects DefaultThreshold.
	Threshold float32

	// Limit bounds the number of results. Zero selects DefaultLimit.
	Limit int

	// Filter restricts the scan. Nil selects the searcher's default filter
	// (diagnosis and treatment plan records).
	Filter *storage.SearchFilter
}

// CaseSearcher finds clinical records similar to a query narrative.
// Results are served from a TTL cache when an identical query repeats.
type CaseSearcher struct {
	records   storage.RecordRepository
	embedder  ai.Embedder
	cache     *resultCache
	cacheTTL  time.Duration
	metrics   *MetricsCollector
	publisher events.Publisher
	filter    *storage.SearchFilter
	logger    *slog.Logger
}

// Option configures a CaseSearcher.
type Option func(*CaseSearcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *CaseSearcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithCacheTTL sets the result cache TTL. Default is 5 minutes.
// A non-positive TTL disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *CaseSearcher) error {
		s.cacheTTL = ttl
		return nil
	}
}

// WithPublisher sets the analytics event publisher.
// Default is no event publication.
func WithPublisher(publisher events.Publisher) Option {
	return func(s *CaseSearcher) error {
		s.publisher = publisher
		return nil
	}
}

// WithDefaultFilter overrides the filter applied when a query carries none.
func WithDefaultFilter(filter *storage.SearchFilter) Option {
	return func(s *CaseSearcher) error {
		s.filter = filter
		return nil
	}
}

// NewCaseSearcher creates a new similar-case searcher.
func NewCaseSearcher(
	records storage.RecordRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*CaseSearcher, error) {
	if records == nil {
		return nil, ErrRecordRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &CaseSearcher{
		records:  records,
		embedder: provider.Embedder(),
		cacheTTL: defaultCacheTTL,
		metrics:  NewMetricsCollector(),
		filter: &storage.SearchFilter{
			RecordTypes: []core.RecordType{
				core.RecordTypeDiagnosis,
				core.RecordTypeTreatmentPlan,
			},
		},
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	// Build the cache only after options settle so an overridden TTL
	// never leaves an orphaned default cache behind
	if s.cacheTTL > 0 {
		cache, err := newResultCache(s.cacheTTL)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}

	return s, nil
}

// Metrics returns the searcher's latency metrics collector.
func (s *CaseSearcher) Metrics() *MetricsCollector {
	return s.metrics
}

// Search finds clinical records similar to the query.
// Returns up to query.Limit results, ranked by relevance score.
func (s *CaseSearcher) Search(ctx context.Context, query Query) ([]*core.SimilarCase, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor searches with stage monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *CaseSearcher) SearchWithMonitor(ctx context.Context, query Query, monitor SearchMonitor) ([]*core.SimilarCase, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if query.Threshold == 0 {
		query.Threshold = DefaultThreshold
	}
	if query.Limit == 0 {
		query.Limit = DefaultLimit
	}
	if query.Filter == nil {
		query.Filter = s.filter
	}

	if query.Text == "" {
		return nil, fmt.Errorf("%w: empty query text", ErrInvalidQuery)
	}
	if query.Threshold < 0 || query.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %v outside [0, 1]", ErrInvalidQuery, query.Threshold)
	}
	if query.Limit < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, query.Limit)
	}

	started := time.Now()

	// 1. Enhance the query with demographic context
	enhanced := buildEnhancedQuery(query.Text, query.Demographics)
	monitor.Start(enhanced)

	// 2. Cache lookup
	cacheKey := cacheKeyFor(enhanced, query)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			monitor.CacheHit(cacheKey)
			monitor.Finish(cached)
			s.metrics.RecordSearch(time.Since(started), true)
			s.publishSearchEvent(ctx, query, len(cached), true, time.Since(started))
			return cached, nil
		}
		monitor.CacheMiss(cacheKey)
	}

	// 3. Embed the enhanced query
	embedding, err := s.embedder.EmbedText(ctx, enhanced)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(len(embedding))

	// 4. Vector scan with predicate push-down
	matches, err := s.records.FindSimilar(ctx, embedding, query.Threshold, query.Limit, query.Filter)
	if err != nil {
		s.logger.Error("error querying for similar records", "err", err)
		return nil, err
	}

	ids := make([]uint64, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, uint64(match.Record.Id))
	}
	monitor.AfterVectorSearch(ids)

	// 5. Apply verbatim match boost and re-rank
	for _, match := range matches {
		if containsAllQueryWords(match.Record.SearchText(), query.Text) {
			match.Score += 0.3
			monitor.VerbatimHit(match.Record)
		}
	}

	// Sort by score descending
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > query.Limit {
		matches = matches[:query.Limit]
	}
	monitor.Finish(matches)

	if s.cache != nil {
		s.cache.Set(cacheKey, matches)
	}

	elapsed := time.Since(started)
	s.metrics.RecordSearch(elapsed, false)
	s.publishSearchEvent(ctx, query, len(matches), false, elapsed)

	return matches, nil
}

// publishSearchEvent emits a best-effort analytics event for the search.
func (s *CaseSearcher) publishSearchEvent(ctx context.Context, query Query, resultCount int, cacheHit bool, elapsed time.Duration) {
	if s.publisher == nil {
		return
	}
	event := events.NewEvent(events.TypeSemanticSearchPerformed, map[string]any{
		"queryLength": len(query.Text),
		"threshold":   query.Threshold,
		"limit":       query.Limit,
		"resultCount": resultCount,
		"cacheHit":    cacheHit,
		"latencyMs":   elapsed.Milliseconds(),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish search event", "err", err)
	}
}
