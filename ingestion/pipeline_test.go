package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraclehealth/clinsight/ai/mock"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/events"
	"github.com/oraclehealth/clinsight/storage"
	"github.com/oraclehealth/clinsight/storage/badger"
)

type pipelineFixture struct {
	pipeline  *Pipeline
	records   storage.RecordRepository
	embedder  *mock.MockEmbedder
	publisher *events.MemoryPublisher
}

func newPipelineFixture(t *testing.T, opts ...Option) *pipelineFixture {
	t.Helper()

	recordRepo, guidelineRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		guidelineRepo.Close()
		recordRepo.Close()
		backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockRiskFactorExtractor())

	publisher := events.NewMemoryPublisher()
	opts = append([]Option{WithPoolSize(1), WithPublisher(events.NewBestEffort(publisher))}, opts...)

	pipeline, err := NewPipeline(recordRepo, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &pipelineFixture{
		pipeline:  pipeline,
		records:   recordRepo,
		embedder:  embedder,
		publisher: publisher,
	}
}

func ingestableRecord() *core.ClinicalRecord {
	return &core.ClinicalRecord{
		PatientId:     uuid.New(),
		ProviderId:    uuid.New(),
		RecordType:    core.RecordTypeDiagnosis,
		Title:         "Admission note",
		Narrative:     "patient presents with acute symptoms",
		EncounterDate: time.Now().UTC().Add(-time.Hour),
		Severity:      core.SeverityModerate,
	}
}

// waitForEmbedding polls until the record's embedding arrives or the
// deadline expires.
func waitForEmbedding(t *testing.T, records storage.RecordRepository, id core.ID) *core.ClinicalRecord {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		record, err := records.GetRecord(context.Background(), id)
		require.NoError(t, err)
		if len(record.Embedding) > 0 {
			return record
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("embedding for record %d never arrived", id)
	return nil
}

func TestNewPipeline(t *testing.T) {
	fx := newPipelineFixture(t)
	provider := mock.NewMockProvider()

	t.Run("nil record repository", func(t *testing.T) {
		_, err := NewPipeline(nil, provider)
		assert.ErrorIs(t, err, ErrRecordRepositoryRequired)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewPipeline(fx.records, nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})

	t.Run("with pool size zero defaults to 1", func(t *testing.T) {
		pipeline, err := NewPipeline(fx.records, provider, WithPoolSize(0))
		require.NoError(t, err)
		pipeline.Release()
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		pipeline, err := NewPipeline(fx.records, provider, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, pipeline.logger)
		pipeline.Release()
	})

	t.Run("with custom logger", func(t *testing.T) {
		logger := slog.Default()
		pipeline, err := NewPipeline(fx.records, provider, WithLogger(logger))
		require.NoError(t, err)
		assert.Equal(t, logger, pipeline.logger)
		pipeline.Release()
	})
}

func TestIngest_EmptyBatch(t *testing.T) {
	fx := newPipelineFixture(t)

	added, err := fx.pipeline.Ingest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, added)
}

func TestIngest_AssignsIDsAndNormalizes(t *testing.T) {
	fx := newPipelineFixture(t)

	record := ingestableRecord()
	record.Title = "  Admission note  "
	record.IcdCodes = []string{"E11.9", "E11.9", "I10"}
	record.Confidentiality = 0

	added, err := fx.pipeline.Ingest(context.Background(), record)
	require.NoError(t, err)
	require.Len(t, added, 1)

	assert.NotZero(t, added[0].Id)
	assert.Equal(t, uint64(1), added[0].Version)
	assert.Equal(t, "Admission note", added[0].Title)
	assert.Equal(t, []string{"E11.9", "I10"}, added[0].IcdCodes)
	assert.Equal(t, core.ConfidentialityNormal, added[0].Confidentiality)
}

func TestIngest_ValidationFailure(t *testing.T) {
	fx := newPipelineFixture(t)

	record := ingestableRecord()
	record.Narrative = ""

	_, err := fx.pipeline.Ingest(context.Background(), record)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidRecord)

	// Nothing was stored
	stored, err := fx.records.GetRecentRecords(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestIngest_GeneratesUnitEmbeddings(t *testing.T) {
	fx := newPipelineFixture(t)

	added, err := fx.pipeline.Ingest(context.Background(), ingestableRecord())
	require.NoError(t, err)
	require.Len(t, added, 1)

	stored := waitForEmbedding(t, fx.records, added[0].Id)
	require.Len(t, stored.Embedding, core.EmbeddingDim)

	var magnitude float64
	for _, v := range stored.Embedding {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 0.001)
}

func TestIngest_EmbeddingFailureDoesNotFailIngest(t *testing.T) {
	fx := newPipelineFixture(t)
	fx.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedder unavailable")
	}

	added, err := fx.pipeline.Ingest(context.Background(), ingestableRecord())
	require.NoError(t, err)
	require.Len(t, added, 1)

	// The record persists without an embedding
	time.Sleep(100 * time.Millisecond)
	stored, err := fx.records.GetRecord(context.Background(), added[0].Id)
	require.NoError(t, err)
	assert.Empty(t, stored.Embedding)
}

func TestIngest_SkipsCallerSuppliedEmbeddings(t *testing.T) {
	fx := newPipelineFixture(t)

	record := ingestableRecord()
	record.Embedding = core.NormalizeVector(make([]float32, core.EmbeddingDim))
	record.Embedding[0] = 1.0

	_, err := fx.pipeline.Ingest(context.Background(), record)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, fx.embedder.CallCount())
}

func TestIngest_PublishesEvents(t *testing.T) {
	fx := newPipelineFixture(t)

	first := ingestableRecord()
	second := ingestableRecord()
	second.RecordType = core.RecordTypeLabResult

	_, err := fx.pipeline.Ingest(context.Background(), first, second)
	require.NoError(t, err)

	published := fx.publisher.EventsOfType(events.TypeRecordIngested)
	require.Len(t, published, 2)
	assert.Equal(t, first.PatientId.String(), published[0].Data["patientId"])
	assert.Equal(t, "LAB_RESULT", published[1].Data["recordType"])
}

func TestNormalizeRecord(t *testing.T) {
	record := &core.ClinicalRecord{
		Title:     "  Note ",
		Narrative: " text\n",
		CptCodes:  []string{"99213", "99213"},
	}

	normalizeRecord(record)

	assert.Equal(t, "Note", record.Title)
	assert.Equal(t, "text", record.Narrative)
	assert.Equal(t, []string{"99213"}, record.CptCodes)
	assert.False(t, record.EncounterDate.IsZero())
	assert.Equal(t, core.ConfidentialityNormal, record.Confidentiality)
}
