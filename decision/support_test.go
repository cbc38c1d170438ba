package decision

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraclehealth/clinsight/ai/mock"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/events"
	"github.com/oraclehealth/clinsight/search"
	"github.com/oraclehealth/clinsight/storage"
	"github.com/oraclehealth/clinsight/storage/badger"
)

type supportFixture struct {
	support    *Support
	records    storage.RecordRepository
	guidelines storage.GuidelineRepository
	publisher  *events.MemoryPublisher
}

func newSupportFixture(t *testing.T) *supportFixture {
	t.Helper()

	recordRepo, guidelineRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		guidelineRepo.Close()
		recordRepo.Close()
		backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1.0, 0.0, 0.0}, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockRiskFactorExtractor())

	searcher, err := search.NewCaseSearcher(recordRepo, provider)
	require.NoError(t, err)

	publisher := events.NewMemoryPublisher()
	support, err := NewSupport(searcher, guidelineRepo, provider,
		WithPublisher(events.NewBestEffort(publisher)))
	require.NoError(t, err)

	return &supportFixture{
		support:    support,
		records:    recordRepo,
		guidelines: guidelineRepo,
		publisher:  publisher,
	}
}

func scenarioContext(comorbidities ...string) core.ClinicalContext {
	return core.ClinicalContext{
		PatientId:  uuid.New(),
		ProviderId: uuid.New(),
		Scenario:   "sepsis management protocol",
		Demographics: &core.Demographics{
			Age:           58,
			Gender:        "F",
			Comorbidities: comorbidities,
		},
	}
}

func evidenceGuideline(source, title string, score float32) *core.Guideline {
	return &core.Guideline{
		Title:     title,
		Body:      "guideline body",
		Source:    source,
		Embedding: []float32{score, 0.0, 0.0},
	}
}

func evidenceCase(severity core.SeverityLevel, score float32, icdCodes ...string) *core.ClinicalRecord {
	return &core.ClinicalRecord{
		PatientId:     uuid.New(),
		ProviderId:    uuid.New(),
		RecordType:    core.RecordTypeDiagnosis,
		Title:         "Prior admission",
		Narrative:     "bacteremia with hypotension",
		Embedding:     []float32{score, 0.0, 0.0},
		IcdCodes:      icdCodes,
		EncounterDate: time.Now().UTC().Add(-24 * time.Hour),
		Severity:      severity,
	}
}

func TestNewSupport_Validation(t *testing.T) {
	fx := newSupportFixture(t)
	provider := mock.NewMockProvider()

	t.Run("nil searcher", func(t *testing.T) {
		_, err := NewSupport(nil, fx.guidelines, provider)
		assert.ErrorIs(t, err, ErrSearcherRequired)
	})

	t.Run("nil guidelines", func(t *testing.T) {
		_, err := NewSupport(fx.support.searcher, nil, provider)
		assert.ErrorIs(t, err, ErrGuidelineRepositoryRequired)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewSupport(fx.support.searcher, fx.guidelines, nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})
}

func TestAdvise_EmptyScenario(t *testing.T) {
	fx := newSupportFixture(t)
	_, err := fx.support.Advise(context.Background(), core.ClinicalContext{Scenario: "   "})
	assert.ErrorIs(t, err, ErrScenarioRequired)
}

func TestAdvise_NoEvidence(t *testing.T) {
	fx := newSupportFixture(t)

	support, err := fx.support.Advise(context.Background(), scenarioContext())
	require.NoError(t, err)

	assert.Empty(t, support.Recommendations)
	assert.Empty(t, support.SimilarCases)
	assert.Empty(t, support.Contraindications)
	assert.Equal(t, 0.0, support.Confidence)
}

func TestAdvise_GuidelineRecommendations(t *testing.T) {
	fx := newSupportFixture(t)
	ctx := context.Background()

	_, err := fx.guidelines.AddGuidelines(ctx,
		evidenceGuideline("Surviving Sepsis Campaign", "Hour-1 bundle", 0.95),
		evidenceGuideline("IDSA", "Empiric antibiotic selection", 0.8),
		evidenceGuideline("NICE", "Unrelated pathway", 0.1),
	)
	require.NoError(t, err)

	support, err := fx.support.Advise(ctx, scenarioContext())
	require.NoError(t, err)

	// Strongest guideline first, below-threshold guideline excluded
	assert.Equal(t, []string{
		"Per Surviving Sepsis Campaign: Hour-1 bundle",
		"Per IDSA: Empiric antibiotic selection",
	}, support.Recommendations)
}

func TestAdvise_SimilarCasesAndConfidence(t *testing.T) {
	fx := newSupportFixture(t)
	ctx := context.Background()

	_, err := fx.guidelines.AddGuidelines(ctx,
		evidenceGuideline("Surviving Sepsis Campaign", "Hour-1 bundle", 0.9),
	)
	require.NoError(t, err)

	_, err = fx.records.AddRecords(ctx, evidenceCase(core.SeverityModerate, 0.85, "A41.9"))
	require.NoError(t, err)

	support, err := fx.support.Advise(ctx, scenarioContext())
	require.NoError(t, err)

	require.Len(t, support.SimilarCases, 1)
	// confidence = 0.6*0.9 + 0.4*0.85 = 0.88
	assert.InDelta(t, 0.88, support.Confidence, 0.0001)
}

func TestAdvise_Contraindications(t *testing.T) {
	fx := newSupportFixture(t)
	ctx := context.Background()

	_, err := fx.records.AddRecords(ctx,
		evidenceCase(core.SeverityCritical, 0.9, "I21.9"),
		evidenceCase(core.SeverityModerate, 0.85, "E11.9"),
	)
	require.NoError(t, err)

	// I21.4 shares the I21 category with the critical case; E11 only
	// appears on a moderate case and must not be flagged.
	support, err := fx.support.Advise(ctx, scenarioContext("I21.4", "E11.9"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Comorbidity I21.4 overlaps high-severity outcomes in similar cases",
	}, support.Contraindications)
}

func TestAdvise_RiskFactorsFromContext(t *testing.T) {
	fx := newSupportFixture(t)

	clinicalContext := scenarioContext("I10")
	clinicalContext.Demographics.Age = 72
	clinicalContext.Demographics.BMI = 33.5

	support, err := fx.support.Advise(context.Background(), clinicalContext)
	require.NoError(t, err)

	assert.Equal(t, []string{"comorbidity: I10", "advanced age", "elevated BMI"}, support.RiskFactors)
}

func TestAdvise_PublishesEvent(t *testing.T) {
	fx := newSupportFixture(t)
	ctx := context.Background()

	_, err := fx.guidelines.AddGuidelines(ctx,
		evidenceGuideline("Surviving Sepsis Campaign", "Hour-1 bundle", 0.9),
	)
	require.NoError(t, err)

	clinicalContext := scenarioContext()
	_, err = fx.support.Advise(ctx, clinicalContext)
	require.NoError(t, err)

	published := fx.publisher.EventsOfType(events.TypeDecisionSupportProvided)
	require.Len(t, published, 1)
	assert.Equal(t, clinicalContext.PatientId.String(), published[0].Data["patientId"])
	assert.Equal(t, 1, published[0].Data["recommendationsCount"])
}

func TestIcdCategory(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"E11.9", "E11"},
		{"E11.65", "E11"},
		{"i21.4", "I21"},
		{"N183", "N18"},
		{"I10", "I10"},
		{" A41.9 ", "A41"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, icdCategory(tt.code), "code %q", tt.code)
	}
}

func TestFuseConfidence(t *testing.T) {
	guidelines := []*core.GuidelineMatch{{Score: 0.9}, {Score: 0.8}}
	cases := []*core.SimilarCase{{Score: 0.85}}

	t.Run("both sets", func(t *testing.T) {
		// 0.6*0.85 + 0.4*0.85 = 0.85
		assert.InDelta(t, 0.85, fuseConfidence(guidelines, cases), 0.0001)
	})

	t.Run("guidelines only", func(t *testing.T) {
		assert.InDelta(t, 0.51, fuseConfidence(guidelines, nil), 0.0001)
	})

	t.Run("cases only", func(t *testing.T) {
		assert.InDelta(t, 0.34, fuseConfidence(nil, cases), 0.0001)
	})

	t.Run("no evidence", func(t *testing.T) {
		assert.Equal(t, 0.0, fuseConfidence(nil, nil))
	})
}
