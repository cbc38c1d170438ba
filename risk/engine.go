package risk

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oraclehealth/clinsight/ai"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/events"
	"github.com/oraclehealth/clinsight/search"
)

// Assessment bounds. Similar-case retrieval casts a wide net so the
// historical component reflects real precedent, not just the top hits.
const (
	DefaultTimeout       = 10 * time.Second
	similarCaseLimit     = 50
	similarCaseThreshold = 0.8

	// Score fusion weights: current presentation dominates, history moderates.
	baseWeight       = 0.7
	historicalWeight = 0.3

	// Historical risk when no comparable cases exist.
	neutralHistoricalRisk = 0.5
)

// Engine produces risk assessments by fusing extracted risk features with
// the outcomes of similar historical cases.
type Engine struct {
	searcher  *search.CaseSearcher
	extractor ai.RiskFactorExtractor
	publisher events.Publisher
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithTimeout bounds the end-to-end assessment latency.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Engine) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		e.timeout = timeout
		return nil
	}
}

// WithPublisher sets the analytics event publisher.
// Default is no event publication.
func WithPublisher(publisher events.Publisher) Option {
	return func(e *Engine) error {
		e.publisher = publisher
		return nil
	}
}

// NewEngine creates a risk assessment engine.
func NewEngine(searcher *search.CaseSearcher, provider ai.AIProvider, opts ...Option) (*Engine, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	e := &Engine{
		searcher:  searcher,
		extractor: provider.RiskFactorExtractor(),
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Assess produces a risk assessment for the given record.
// History, when provided, extends the narrative submitted for feature
// extraction with the patient's prior presentations.
//
// Similar-case retrieval and risk factor extraction run concurrently under
// the engine's deadline; either failure cancels the other.
func (e *Engine) Assess(ctx context.Context, record *core.ClinicalRecord, history []*core.ClinicalRecord) (*core.RiskAssessment, error) {
	if record == nil {
		return nil, ErrRecordRequired
	}

	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var (
		cases   []*core.SimilarCase
		factors []ai.ExtractedRiskFactor
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		found, err := e.searcher.Search(gctx, search.Query{
			Text:      record.SearchText(),
			Threshold: similarCaseThreshold,
			Limit:     similarCaseLimit,
		})
		if err != nil {
			return err
		}
		cases = found
		return nil
	})

	g.Go(func() error {
		extracted, err := e.extractor.ExtractRiskFactors(gctx, assessmentText(record, history))
		if err != nil {
			return err
		}
		factors = extracted
		return nil
	})

	if err := g.Wait(); err != nil {
		e.logger.Error("risk assessment failed", "patientId", record.PatientId, "err", err)
		return nil, err
	}

	base := computeBaseRisk(factors, record.Severity)
	historical := computeHistoricalRisk(cases)
	score := baseWeight*base + historicalWeight*historical
	level := core.RiskLevelForScore(score)

	assessment := &core.RiskAssessment{
		PatientId:            record.PatientId,
		RiskScore:            score,
		RiskLevel:            level,
		ContributingFactors:  factorNames(factors),
		Recommendations:      recommendationsFor(level, factors),
		SimilarCasesAnalyzed: len(cases),
	}

	e.logger.Info("risk assessment completed",
		"patientId", record.PatientId,
		"score", score,
		"level", level.String(),
		"similarCases", len(cases),
		"elapsed", time.Since(started))

	if e.publisher != nil {
		event := events.NewEvent(events.TypeRiskAssessmentCompleted, map[string]any{
			"patientId":    record.PatientId.String(),
			"riskScore":    score,
			"riskLevel":    level.String(),
			"similarCases": len(cases),
			"latencyMs":    time.Since(started).Milliseconds(),
		})
		if err := e.publisher.Publish(ctx, event); err != nil {
			e.logger.Warn("failed to publish risk assessment event", "err", err)
		}
	}

	return assessment, nil
}

// assessmentText joins the record narrative with prior presentations so the
// extractor sees longitudinal context.
func assessmentText(record *core.ClinicalRecord, history []*core.ClinicalRecord) string {
	if len(history) == 0 {
		return record.Narrative
	}

	var sb strings.Builder
	sb.WriteString(record.Narrative)
	for _, prior := range history {
		sb.WriteString("\n\nPrior encounter: ")
		sb.WriteString(prior.Narrative)
	}
	return sb.String()
}

// computeHistoricalRisk averages the risk indicators of similar cases.
// With no comparable cases, history contributes a neutral value.
func computeHistoricalRisk(cases []*core.SimilarCase) float64 {
	if len(cases) == 0 {
		return neutralHistoricalRisk
	}

	var sum float64
	for _, c := range cases {
		sum += c.RiskIndicator()
	}
	return sum / float64(len(cases))
}

func factorNames(factors []ai.ExtractedRiskFactor) []string {
	names := make([]string, 0, len(factors))
	for _, f := range factors {
		names = append(names, f.Name)
	}
	return names
}
