package decision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oraclehealth/clinsight/ai"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/events"
	"github.com/oraclehealth/clinsight/search"
	"github.com/oraclehealth/clinsight/storage"
)

// Evidence retrieval bounds. Guidelines use a looser threshold than cases
// because guideline prose matches scenario narratives less literally.
const (
	guidelineThreshold = 0.75
	guidelineLimit     = 10
	caseThreshold      = 0.8
	caseLimit          = 20
)

// Evidence set weights for confidence fusion. A missing set reduces the
// overall confidence instead of renormalizing the remaining weight.
const (
	guidelineConfidenceWeight = 0.6
	caseConfidenceWeight      = 0.4
)

// Support provides evidence-based decision support for clinical scenarios.
type Support struct {
	searcher   *search.CaseSearcher
	guidelines storage.GuidelineRepository
	embedder   ai.Embedder
	publisher  events.Publisher
	logger     *slog.Logger
}

// Option configures a Support service.
type Option func(*Support) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Support) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPublisher sets the analytics event publisher.
func WithPublisher(publisher events.Publisher) Option {
	return func(s *Support) error {
		s.publisher = publisher
		return nil
	}
}

// NewSupport creates a decision support service.
func NewSupport(
	searcher *search.CaseSearcher,
	guidelines storage.GuidelineRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Support, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if guidelines == nil {
		return nil, ErrGuidelineRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Support{
		searcher:   searcher,
		guidelines: guidelines,
		embedder:   provider.Embedder(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Advise retrieves guidelines and similar cases for the scenario and
// assembles decision support. Both retrievals run concurrently; a failure
// in either fails the request.
func (s *Support) Advise(ctx context.Context, clinicalContext core.ClinicalContext) (*core.DecisionSupport, error) {
	if strings.TrimSpace(clinicalContext.Scenario) == "" {
		return nil, ErrScenarioRequired
	}

	started := time.Now()

	var guidelineMatches []*core.GuidelineMatch
	var similarCases []*core.SimilarCase

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		vector, err := s.embedder.EmbedText(gctx, clinicalContext.Scenario)
		if err != nil {
			return fmt.Errorf("failed to embed scenario: %w", err)
		}
		guidelineMatches, err = s.guidelines.FindSimilar(gctx, vector, guidelineThreshold, guidelineLimit)
		if err != nil {
			return fmt.Errorf("guideline search failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		similarCases, err = s.searcher.Search(gctx, search.Query{
			Text:         clinicalContext.Scenario,
			Demographics: clinicalContext.Demographics,
			Threshold:    caseThreshold,
			Limit:        caseLimit,
		})
		if err != nil {
			return fmt.Errorf("similar case search failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	support := &core.DecisionSupport{
		Recommendations:   recommendationsFrom(guidelineMatches),
		SimilarCases:      similarCases,
		RiskFactors:       riskFactorsFrom(clinicalContext),
		Contraindications: contraindicationsFrom(clinicalContext.Demographics, similarCases),
		Confidence:        fuseConfidence(guidelineMatches, similarCases),
	}

	s.logger.Info("decision support provided",
		"patientId", clinicalContext.PatientId,
		"guidelines", len(guidelineMatches),
		"similarCases", len(similarCases),
		"confidence", support.Confidence,
		"durationMs", time.Since(started).Milliseconds())

	s.publishSupportEvent(ctx, clinicalContext, support)

	return support, nil
}

// recommendationsFrom turns guideline hits into recommendation strings,
// strongest match first.
func recommendationsFrom(matches []*core.GuidelineMatch) []string {
	recs := make([]string, 0, len(matches))
	for _, match := range matches {
		recs = append(recs, fmt.Sprintf("Per %s: %s", match.Guideline.Source, match.Guideline.Title))
	}
	return recs
}

// riskFactorsFrom derives scenario-independent risk factors from the
// patient context: stated comorbidities plus demographic thresholds.
func riskFactorsFrom(clinicalContext core.ClinicalContext) []string {
	demographics := clinicalContext.Demographics
	if demographics == nil {
		return nil
	}

	factors := make([]string, 0, len(demographics.Comorbidities)+2)
	for _, comorbidity := range demographics.Comorbidities {
		factors = append(factors, "comorbidity: "+comorbidity)
	}
	if demographics.Age >= 65 {
		factors = append(factors, "advanced age")
	}
	if demographics.BMI >= 30 {
		factors = append(factors, "elevated BMI")
	}
	return factors
}

// contraindicationsFrom flags comorbidities whose diagnosis category also
// appears on a high-severity similar case. Comorbidities that are not ICD
// codes never match and are skipped.
func contraindicationsFrom(demographics *core.Demographics, cases []*core.SimilarCase) []string {
	if demographics == nil || len(demographics.Comorbidities) == 0 {
		return nil
	}

	highSeverityCategories := make(map[string]bool)
	for _, c := range cases {
		if c.Record == nil || !c.Record.IsHighRisk() {
			continue
		}
		for _, code := range c.Record.IcdCodes {
			highSeverityCategories[icdCategory(code)] = true
		}
	}
	if len(highSeverityCategories) == 0 {
		return nil
	}

	var contraindications []string
	seen := make(map[string]bool)
	for _, comorbidity := range demographics.Comorbidities {
		category := icdCategory(comorbidity)
		if !highSeverityCategories[category] || seen[category] {
			continue
		}
		seen[category] = true
		contraindications = append(contraindications,
			fmt.Sprintf("Comorbidity %s overlaps high-severity outcomes in similar cases", comorbidity))
	}
	return contraindications
}

// icdCategory reduces an ICD-10 code to its three character category,
// e.g. "E11.9" and "E11.65" both map to "E11".
func icdCategory(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if i := strings.IndexByte(code, '.'); i >= 0 {
		code = code[:i]
	}
	if len(code) > 3 {
		code = code[:3]
	}
	return code
}

// fuseConfidence combines the mean similarity of each evidence set.
// With no evidence at all the confidence is zero.
func fuseConfidence(guidelines []*core.GuidelineMatch, cases []*core.SimilarCase) float64 {
	var confidence float64
	if len(guidelines) > 0 {
		var sum float64
		for _, match := range guidelines {
			sum += float64(match.Score)
		}
		confidence += guidelineConfidenceWeight * (sum / float64(len(guidelines)))
	}
	if len(cases) > 0 {
		var sum float64
		for _, c := range cases {
			sum += float64(c.Score)
		}
		confidence += caseConfidenceWeight * (sum / float64(len(cases)))
	}
	return confidence
}

func (s *Support) publishSupportEvent(ctx context.Context, clinicalContext core.ClinicalContext, support *core.DecisionSupport) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(events.TypeDecisionSupportProvided, map[string]any{
		"patientId":            clinicalContext.PatientId.String(),
		"providerId":           clinicalContext.ProviderId.String(),
		"recommendationsCount": len(support.Recommendations),
		"confidence":           support.Confidence,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish decision support event", "err", err)
	}
}
