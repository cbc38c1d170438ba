package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/oraclehealth/clinsight/ai"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/events"
	"github.com/oraclehealth/clinsight/storage"
)

// Pipeline orchestrates the ingestion and processing of clinical records.
// Persisted records are embedded asynchronously on a worker pool.
type Pipeline struct {
	records       storage.RecordRepository
	embeddingPool *ants.Pool
	embeddingProc *embeddingProcessor
	publisher     events.Publisher
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for embedding generation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithPublisher sets the analytics event publisher.
func WithPublisher(publisher events.Publisher) Option {
	return func(p *Pipeline) error {
		p.publisher = publisher
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	records storage.RecordRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if records == nil {
		return nil, ErrRecordRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		records:       records,
		embeddingPool: pool,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	embeddingProc, err := newEmbeddingProcessor(records, provider.Embedder(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = embeddingProc

	return p, nil
}

// Ingest validates, normalizes, and stores clinical records, then submits
// them for asynchronous embedding generation. The returned records carry
// their assigned IDs. Embedding errors are logged but never fail the
// ingest call.
func (p *Pipeline) Ingest(ctx context.Context, records ...*core.ClinicalRecord) ([]*core.ClinicalRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	for i, record := range records {
		normalizeRecord(record)
		if err := core.ValidateClinicalRecord(record); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	added, err := p.records.AddRecords(ctx, records...)
	if err != nil {
		return nil, err
	}

	// Only records without a caller-supplied embedding need processing.
	var pending []core.ID
	for _, record := range added {
		if len(record.Embedding) == 0 {
			pending = append(pending, record.Id)
		}
	}

	if len(pending) > 0 {
		ids := pending
		p.embeddingPool.Submit(func() {
			if procErr := p.embeddingProc.process(context.Background(), ids...); procErr != nil {
				p.logger.Error("error processing embeddings", "err", procErr)
			}
		})
	}

	p.publishIngestEvents(ctx, added)

	return added, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}

// normalizeRecord applies defaults and trims free-text fields in place.
func normalizeRecord(record *core.ClinicalRecord) {
	if record == nil {
		return
	}
	record.Title = strings.TrimSpace(record.Title)
	record.Narrative = strings.TrimSpace(record.Narrative)
	record.IcdCodes = core.DedupCodes(record.IcdCodes)
	record.CptCodes = core.DedupCodes(record.CptCodes)
	if record.EncounterDate.IsZero() {
		record.EncounterDate = time.Now().UTC()
	}
	if record.Confidentiality == 0 {
		record.Confidentiality = core.ConfidentialityNormal
	}
}

func (p *Pipeline) publishIngestEvents(ctx context.Context, records []*core.ClinicalRecord) {
	if p.publisher == nil {
		return
	}

	for _, record := range records {
		event := events.NewEvent(events.TypeRecordIngested, map[string]any{
			"recordId":   uint64(record.Id),
			"patientId":  record.PatientId.String(),
			"recordType": record.RecordType.String(),
			"severity":   record.Severity.String(),
		})
		if err := p.publisher.Publish(ctx, event); err != nil {
			p.logger.Warn("failed to publish ingest event", "err", err)
		}
	}
}
