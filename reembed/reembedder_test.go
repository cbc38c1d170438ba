package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraclehealth/clinsight/ai/mock"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/storage"
	"github.com/oraclehealth/clinsight/storage/badger"
)

func setupReembedRepos(t *testing.T) (storage.RecordRepository, storage.GuidelineRepository) {
	t.Helper()

	recordRepo, guidelineRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		guidelineRepo.Close()
		recordRepo.Close()
		backend.Close()
	})

	return recordRepo, guidelineRepo
}

func reembedableRecord(i int) *core.ClinicalRecord {
	return &core.ClinicalRecord{
		PatientId:     uuid.New(),
		ProviderId:    uuid.New(),
		RecordType:    core.RecordTypeDiagnosis,
		Title:         fmt.Sprintf("Encounter %d", i),
		Narrative:     fmt.Sprintf("narrative %d", i),
		EncounterDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
		Severity:      core.SeverityModerate,
	}
}

func assertUnitLength(t *testing.T, vec []float32) {
	t.Helper()

	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 0.001)
}

func TestRecordIterator_Batches(t *testing.T) {
	recordRepo, _ := setupReembedRepos(t)
	ctx := context.Background()

	records := make([]*core.ClinicalRecord, 5)
	for i := range records {
		records[i] = reembedableRecord(i)
	}
	_, err := recordRepo.AddRecords(ctx, records...)
	require.NoError(t, err)

	iterator := NewRecordIterator(recordRepo, 2)

	var batchSizes []int
	err = iterator.ForEach(ctx, func(batch []*core.ClinicalRecord) error {
		batchSizes = append(batchSizes, len(batch))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, batchSizes)
}

func TestRecordIterator_EmptyDatabase(t *testing.T) {
	recordRepo, _ := setupReembedRepos(t)

	iterator := NewRecordIterator(recordRepo, 10)
	calls := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.ClinicalRecord) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
}

func TestRecordIterator_StopsOnError(t *testing.T) {
	recordRepo, _ := setupReembedRepos(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := recordRepo.AddRecords(ctx, reembedableRecord(i))
		require.NoError(t, err)
	}

	iterator := NewRecordIterator(recordRepo, 2)
	batchErr := errors.New("batch failed")
	calls := 0
	err := iterator.ForEach(ctx, func(batch []*core.ClinicalRecord) error {
		calls++
		return batchErr
	})
	assert.ErrorIs(t, err, batchErr)
	assert.Equal(t, 1, calls, "should stop after the first failing batch")
}

func TestBatchProcessor_Process(t *testing.T) {
	recordRepo, _ := setupReembedRepos(t)
	ctx := context.Background()

	added, err := recordRepo.AddRecords(ctx, reembedableRecord(0), reembedableRecord(1))
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	processor := NewBatchProcessor(recordRepo, embedder, 3, time.Millisecond)

	require.NoError(t, processor.Process(ctx, added))

	for _, record := range added {
		stored, err := recordRepo.GetRecord(ctx, record.Id)
		require.NoError(t, err)
		require.Len(t, stored.Embedding, core.EmbeddingDim)
		assertUnitLength(t, stored.Embedding)
	}
}

func TestBatchProcessor_RetriesThenFails(t *testing.T) {
	recordRepo, _ := setupReembedRepos(t)
	ctx := context.Background()

	added, err := recordRepo.AddRecords(ctx, reembedableRecord(0))
	require.NoError(t, err)

	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		return nil, errors.New("model offline")
	}

	processor := NewBatchProcessor(recordRepo, embedder, 3, time.Millisecond)
	err = processor.Process(ctx, added)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestReembedder_Run(t *testing.T) {
	recordRepo, _ := setupReembedRepos(t)
	ctx := context.Background()

	records := make([]*core.ClinicalRecord, 7)
	for i := range records {
		records[i] = reembedableRecord(i)
	}
	added, err := recordRepo.AddRecords(ctx, records...)
	require.NoError(t, err)

	var progress bytes.Buffer
	reembedder := NewReembedder(recordRepo, mock.NewMockEmbedder(), &Config{
		BatchSize:      3,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &progress)

	require.NoError(t, reembedder.Run(ctx))

	output := progress.String()
	assert.Contains(t, output, "Starting reembedding of 7 records")
	assert.Contains(t, output, "Reembedding complete")

	for _, record := range added {
		stored, err := recordRepo.GetRecord(ctx, record.Id)
		require.NoError(t, err)
		assert.Len(t, stored.Embedding, core.EmbeddingDim)
	}
}

func TestReembedder_Run_EmptyDatabase(t *testing.T) {
	recordRepo, _ := setupReembedRepos(t)

	var progress bytes.Buffer
	reembedder := NewReembedder(recordRepo, mock.NewMockEmbedder(), nil, &progress)

	require.NoError(t, reembedder.Run(context.Background()))
	assert.Contains(t, progress.String(), "No records found")
}

func TestGuidelineReembedder_Run(t *testing.T) {
	_, guidelineRepo := setupReembedRepos(t)
	ctx := context.Background()

	guidelines := []*core.Guideline{
		{Title: "Hour-1 bundle", Body: "bundle body", Source: "Surviving Sepsis Campaign"},
		{Title: "Glycemic targets", Body: "targets body", Source: "ADA"},
	}
	added, err := guidelineRepo.AddGuidelines(ctx, guidelines...)
	require.NoError(t, err)

	var progress bytes.Buffer
	reembedder := NewGuidelineReembedder(guidelineRepo, mock.NewMockEmbedder(), &Config{
		BatchSize:      1,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &progress)

	require.NoError(t, reembedder.Run(ctx))

	assert.Contains(t, progress.String(), "Starting reembedding of 2 guidelines")

	for _, guideline := range added {
		stored, err := guidelineRepo.GetGuideline(ctx, guideline.Id)
		require.NoError(t, err)
		require.Len(t, stored.Embedding, core.EmbeddingDim)
		assertUnitLength(t, stored.Embedding)
	}
}

func TestGuidelineIterator_Batches(t *testing.T) {
	_, guidelineRepo := setupReembedRepos(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := guidelineRepo.AddGuidelines(ctx, &core.Guideline{
			Title:  fmt.Sprintf("Guideline %d", i),
			Body:   "body",
			Source: "ADA",
		})
		require.NoError(t, err)
	}

	iterator := NewGuidelineIterator(guidelineRepo, 2)
	var batchSizes []int
	err := iterator.ForEach(ctx, func(batch []*core.Guideline) error {
		batchSizes = append(batchSizes, len(batch))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, batchSizes)
}
