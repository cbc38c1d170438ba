package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oraclehealth/clinsight/core"
)

// SearchFilter restricts a similarity search to records matching all set predicates.
// The zero value matches every record.
type SearchFilter struct {
	// RecordTypes limits results to the given types. Empty means all types.
	RecordTypes []core.RecordType

	// PatientId limits results to a single patient when non-nil.
	PatientId *uuid.UUID

	// MinSeverity excludes records below the given severity when non-zero.
	MinSeverity core.SeverityLevel

	// Department limits results to a department when non-empty.
	Department string
}

// Matches reports whether a record satisfies every set predicate.
func (f *SearchFilter) Matches(record *core.ClinicalRecord) bool {
	if f == nil {
		return true
	}
	if len(f.RecordTypes) > 0 {
		found := false
		for _, t := range f.RecordTypes {
			if record.RecordType == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.PatientId != nil && record.PatientId != *f.PatientId {
		return false
	}
	if f.MinSeverity != 0 && record.Severity < f.MinSeverity {
		return false
	}
	if f.Department != "" && record.Department != f.Department {
		return false
	}
	return true
}

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// RecordRepository provides operations for managing clinical records.
// Records are never hard-deleted: the interface deliberately exposes no
// delete operation (audit retention).
type RecordRepository interface {
	Repository

	// FindSimilar finds clinical records similar to the given vector.
	// Returns records with similarity >= minSimilarity that satisfy the
	// filter, up to limit results, ordered by similarity score (highest first).
	// Records without embeddings are skipped.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int, filter *SearchFilter) ([]*core.SimilarCase, error)

	// AddRecords adds one or more clinical records to storage.
	// Generates IDs from a sequence, sets CreatedAt/UpdatedAt, initializes
	// Version to 1, and deduplicates code lists.
	// Returns the records with generated fields populated.
	AddRecords(ctx context.Context, records ...*core.ClinicalRecord) ([]*core.ClinicalRecord, error)

	// UpdateRecords updates existing clinical records.
	// Enforces optimistic concurrency: returns ErrVersionConflict if a
	// record's Version does not match the stored Version. On success the
	// Version is incremented and UpdatedAt refreshed.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateRecords(ctx context.Context, records ...*core.ClinicalRecord) ([]*core.ClinicalRecord, error)

	// GetRecord retrieves a single clinical record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.ClinicalRecord, error)

	// GetRecords retrieves multiple clinical records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetRecords(ctx context.Context, ids ...core.ID) ([]*core.ClinicalRecord, error)

	// GetRecordsByPatient retrieves all records for a patient, ordered by encounter date.
	GetRecordsByPatient(ctx context.Context, patientId uuid.UUID) ([]*core.ClinicalRecord, error)

	// GetRecordsByType retrieves all records of the given type.
	GetRecordsByType(ctx context.Context, recordType core.RecordType) ([]*core.ClinicalRecord, error)

	// GetRecordsByDateRange retrieves records within an encounter time range.
	// Returns records where start <= EncounterDate < end, ordered by encounter date.
	GetRecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.ClinicalRecord, error)

	// GetRecentRecords retrieves the N most recent records, ordered by
	// encounter date descending. Returns up to limit records.
	GetRecentRecords(ctx context.Context, limit int) ([]*core.ClinicalRecord, error)
}

// GuidelineRepository provides operations for managing clinical guidelines.
type GuidelineRepository interface {
	Repository

	// FindSimilar finds guidelines similar to the given vector.
	// Returns guidelines with similarity >= minSimilarity, up to limit
	// results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.GuidelineMatch, error)

	// AddGuidelines adds one or more guidelines to storage.
	// Uses content-based IDs (IDFromContent of the guideline content key).
	// Sets InsertedAt if not already set.
	AddGuidelines(ctx context.Context, guidelines ...*core.Guideline) ([]*core.Guideline, error)

	// GetGuideline retrieves a single guideline by ID.
	// Returns ErrNotFound if the guideline doesn't exist.
	GetGuideline(ctx context.Context, id core.ID) (*core.Guideline, error)

	// GetGuidelines retrieves multiple guidelines by their IDs.
	// Returns only the guidelines that exist.
	GetGuidelines(ctx context.Context, ids ...core.ID) ([]*core.Guideline, error)

	// GetAllGuidelines retrieves every stored guideline.
	// Used by maintenance tooling such as embedding migration.
	GetAllGuidelines(ctx context.Context) ([]*core.Guideline, error)
}
