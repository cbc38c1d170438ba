package badger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())
}

func TestPing(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Ping(context.Background()))

	require.NoError(t, backend.Close())
	assert.ErrorIs(t, backend.Ping(context.Background()), storage.ErrStorageClosed)
}

func TestFindSimilarRecords_NoRecords(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	vector := []float32{0.1, 0.2, 0.3}

	results, err := backend.FindSimilarRecords(ctx, vector, 0.5, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilarRecords_WithRecords(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		guidelineRepo.Close()
		recordRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC()

	// Create records with different embeddings
	records := []*core.ClinicalRecord{
		{
			PatientId:     uuid.New(),
			ProviderId:    uuid.New(),
			RecordType:    core.RecordTypeDiagnosis,
			Title:         "Closest case",
			Narrative:     "n",
			EncounterDate: now,
			Embedding:     []float32{1.0, 0.0, 0.0}, // Very similar to query
		},
		{
			PatientId:     uuid.New(),
			ProviderId:    uuid.New(),
			RecordType:    core.RecordTypeDiagnosis,
			Title:         "Close case",
			Narrative:     "n",
			EncounterDate: now,
			Embedding:     []float32{0.9, 0.1, 0.0}, // Somewhat similar
		},
		{
			PatientId:     uuid.New(),
			ProviderId:    uuid.New(),
			RecordType:    core.RecordTypeDiagnosis,
			Title:         "Unrelated case",
			Narrative:     "n",
			EncounterDate: now,
			Embedding:     []float32{0.0, 0.0, 1.0}, // Not similar
		},
		{
			PatientId:     uuid.New(),
			ProviderId:    uuid.New(),
			RecordType:    core.RecordTypeDiagnosis,
			Title:         "Pending embedding",
			Narrative:     "n",
			EncounterDate: now,
			Embedding:     nil, // No embedding - should be skipped
		},
	}

	added, err := recordRepo.AddRecords(ctx, records...)
	require.NoError(t, err)
	require.Len(t, added, 4)

	// Search for similar records
	queryVector := []float32{1.0, 0.0, 0.0}
	results, err := backend.FindSimilarRecords(ctx, queryVector, 0.8, 10, nil)
	require.NoError(t, err)

	require.NotEmpty(t, results)

	// Results should be sorted by score descending
	for i := 0; i < len(results)-1; i++ {
		assert.GreaterOrEqual(t, results[i].Score, results[i+1].Score)
	}

	assert.Equal(t, "Closest case", results[0].Record.Title)
	assert.Greater(t, results[0].Score, float32(0.8))
}

func TestFindSimilarRecords_FilterPushDown(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		guidelineRepo.Close()
		recordRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC()
	patientId := uuid.New()

	records := []*core.ClinicalRecord{
		{
			PatientId:     patientId,
			ProviderId:    uuid.New(),
			RecordType:    core.RecordTypeDiagnosis,
			Title:         "Diagnosis for patient",
			Narrative:     "n",
			EncounterDate: now,
			Severity:      core.SeverityHigh,
			Embedding:     []float32{1.0, 0.0, 0.0},
		},
		{
			PatientId:     uuid.New(),
			ProviderId:    uuid.New(),
			RecordType:    core.RecordTypeDiagnosis,
			Title:         "Diagnosis for other patient",
			Narrative:     "n",
			EncounterDate: now,
			Severity:      core.SeverityLow,
			Embedding:     []float32{1.0, 0.0, 0.0},
		},
		{
			PatientId:     patientId,
			ProviderId:    uuid.New(),
			RecordType:    core.RecordTypeProgressNote,
			Title:         "Progress note",
			Narrative:     "n",
			EncounterDate: now,
			Severity:      core.SeverityHigh,
			Embedding:     []float32{1.0, 0.0, 0.0},
		},
	}
	_, err = recordRepo.AddRecords(ctx, records...)
	require.NoError(t, err)

	queryVector := []float32{1.0, 0.0, 0.0}

	t.Run("record type filter", func(t *testing.T) {
		filter := &storage.SearchFilter{RecordTypes: []core.RecordType{core.RecordTypeDiagnosis}}
		results, err := backend.FindSimilarRecords(ctx, queryVector, 0.5, 10, filter)
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, r := range results {
			assert.Equal(t, core.RecordTypeDiagnosis, r.Record.RecordType)
		}
	})

	t.Run("patient filter", func(t *testing.T) {
		filter := &storage.SearchFilter{PatientId: &patientId}
		results, err := backend.FindSimilarRecords(ctx, queryVector, 0.5, 10, filter)
		require.NoError(t, err)
		require.Len(t, results, 2)
	})

	t.Run("severity filter", func(t *testing.T) {
		filter := &storage.SearchFilter{MinSeverity: core.SeverityHigh}
		results, err := backend.FindSimilarRecords(ctx, queryVector, 0.5, 10, filter)
		require.NoError(t, err)
		require.Len(t, results, 2)
	})

	t.Run("combined filter", func(t *testing.T) {
		filter := &storage.SearchFilter{
			RecordTypes: []core.RecordType{core.RecordTypeDiagnosis},
			PatientId:   &patientId,
		}
		results, err := backend.FindSimilarRecords(ctx, queryVector, 0.5, 10, filter)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Diagnosis for patient", results[0].Record.Title)
	})

	t.Run("nil filter matches all", func(t *testing.T) {
		results, err := backend.FindSimilarRecords(ctx, queryVector, 0.5, 10, nil)
		require.NoError(t, err)
		require.Len(t, results, 3)
	})
}

func TestFindSimilarRecords_LimitResults(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		guidelineRepo.Close()
		recordRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC()

	records := make([]*core.ClinicalRecord, 10)
	for i := 0; i < 10; i++ {
		records[i] = &core.ClinicalRecord{
			PatientId:     uuid.New(),
			ProviderId:    uuid.New(),
			RecordType:    core.RecordTypeDiagnosis,
			Title:         "Case",
			Narrative:     "n",
			EncounterDate: now,
			Embedding:     []float32{0.9, 0.1, 0.0}, // All similar
		}
	}

	_, err = recordRepo.AddRecords(ctx, records...)
	require.NoError(t, err)

	queryVector := []float32{1.0, 0.0, 0.0}

	t.Run("limit to 3", func(t *testing.T) {
		results, err := backend.FindSimilarRecords(ctx, queryVector, 0.5, 3, nil)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("limit higher than results", func(t *testing.T) {
		results, err := backend.FindSimilarRecords(ctx, queryVector, 0.5, 100, nil)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), 10)
	})
}

func TestFindSimilarGuidelines(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		guidelineRepo.Close()
		recordRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	guidelines := []*core.Guideline{
		{Title: "Relevant", Body: "b", Source: "S", Embedding: []float32{1.0, 0.0, 0.0}},
		{Title: "Somewhat relevant", Body: "b", Source: "S", Embedding: []float32{0.8, 0.2, 0.0}},
		{Title: "Irrelevant", Body: "b", Source: "S", Embedding: []float32{0.0, 1.0, 0.0}},
	}
	_, err = guidelineRepo.AddGuidelines(ctx, guidelines...)
	require.NoError(t, err)

	results, err := backend.FindSimilarGuidelines(ctx, []float32{1.0, 0.0, 0.0}, 0.75, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Relevant", results[0].Guideline.Title)
}

func TestDotProduct(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float32
	}{
		{
			name:     "identical vectors",
			a:        []float32{1.0, 0.0, 0.0},
			b:        []float32{1.0, 0.0, 0.0},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1.0, 0.0, 0.0},
			b:        []float32{0.0, 1.0, 0.0},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1.0, 0.0, 0.0},
			b:        []float32{-1.0, 0.0, 0.0},
			expected: -1.0,
		},
		{
			name:     "general case",
			a:        []float32{0.6, 0.8},
			b:        []float32{0.8, 0.6},
			expected: 0.96, // 0.6*0.8 + 0.8*0.6 = 0.48 + 0.48 = 0.96
		},
		{
			name:     "different lengths - use min",
			a:        []float32{1.0, 2.0, 3.0},
			b:        []float32{1.0, 2.0},
			expected: 5.0, // 1*1 + 2*2 = 5
		},
		{
			name:     "empty vectors",
			a:        []float32{},
			b:        []float32{},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := dotProduct(tt.a, tt.b)
			assert.InDelta(t, tt.expected, result, 0.0001)
		})
	}
}

func TestWithTransaction(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	t.Run("successful transaction", func(t *testing.T) {
		err := backend.WithTransaction(ctx, func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("failed transaction", func(t *testing.T) {
		testErr := assert.AnError
		err := backend.WithTransaction(ctx, func(ctx context.Context) error {
			return testErr
		})
		assert.Equal(t, testErr, err)
	})
}

func TestGetSequence(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	seq, err := backend.GetSequence("test_sequence")
	require.NoError(t, err)
	require.NotNil(t, seq)
	defer seq.Release()

	id1, err := seq.Next()
	require.NoError(t, err)

	id2, err := seq.Next()
	require.NoError(t, err)

	assert.Greater(t, id2, id1)
}
