package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/storage"
)

// RecordRepository implements storage.RecordRepository for BadgerDB.
type RecordRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(backend *Backend) (storage.RecordRepository, error) {
	idSeq, err := backend.GetSequence(clinicalRecordIDSeq)
	if err != nil {
		return nil, err
	}

	return &RecordRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *RecordRepository) Close() error {
	return r.idSeq.Release()
}

// FindSimilar delegates to the backend.
func (r *RecordRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int, filter *storage.SearchFilter) ([]*core.SimilarCase, error) {
	return r.backend.FindSimilarRecords(ctx, vector, minSimilarity, limit, filter)
}

// WithTransaction delegates to the backend.
func (r *RecordRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddRecords adds one or more clinical records to storage.
func (r *RecordRepository) AddRecords(ctx context.Context, records ...*core.ClinicalRecord) ([]*core.ClinicalRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			// Always generate new ID from sequence
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			record.Id = core.ID(nextID)

			record.CreatedAt = time.Now().UTC()
			record.UpdatedAt = record.CreatedAt
			record.Version = 1

			// Code lists are deduplicated on insert
			record.IcdCodes = core.DedupCodes(record.IcdCodes)
			record.CptCodes = core.DedupCodes(record.CptCodes)

			// Store primary record
			key := makeRecordKey(record.Id)
			value := storage.MarshalClinicalRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			if err := r.setIndexes(tx, record); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// UpdateRecords updates existing clinical records.
// A record whose Version no longer matches storage fails with ErrVersionConflict.
func (r *RecordRepository) UpdateRecords(ctx context.Context, records ...*core.ClinicalRecord) ([]*core.ClinicalRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			key := makeRecordKey(record.Id)

			// Read old record to check the version and detect index changes
			old, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if record.Version != old.Version {
				return storage.ErrVersionConflict
			}

			record.Version = old.Version + 1
			record.UpdatedAt = time.Now().UTC()
			record.IcdCodes = core.DedupCodes(record.IcdCodes)
			record.CptCodes = core.DedupCodes(record.CptCodes)

			// Store updated record
			value := storage.MarshalClinicalRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update encounter-date index if the date changed
			if !old.EncounterDate.Equal(record.EncounterDate) {
				if err := tx.Delete(makeRecordDateKey(old.EncounterDate, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeRecordDateKey(record.EncounterDate, record.Id), storage.MarshalID(record.Id)); err != nil {
					return err
				}
			}

			// Update patient index if the patient changed
			if old.PatientId != record.PatientId {
				if err := tx.Delete(makeRecordPatientKey(old.PatientId, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeRecordPatientKey(record.PatientId, record.Id), storage.MarshalID(record.Id)); err != nil {
					return err
				}
			}

			// Update type index if the record type changed
			if old.RecordType != record.RecordType {
				if err := tx.Delete(makeRecordTypeKey(old.RecordType, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeRecordTypeKey(record.RecordType, record.Id), storage.MarshalID(record.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetRecord retrieves a single clinical record by ID.
func (r *RecordRepository) GetRecord(ctx context.Context, id core.ID) (*core.ClinicalRecord, error) {
	var result *core.ClinicalRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(id)
		var err error
		result, err = r.readRecord(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRecords retrieves multiple clinical records by their IDs.
func (r *RecordRepository) GetRecords(ctx context.Context, ids ...core.ID) ([]*core.ClinicalRecord, error) {
	var result []*core.ClinicalRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeRecordKey(id)
			record, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetRecordsByPatient retrieves all records for a patient via the patient index.
func (r *RecordRepository) GetRecordsByPatient(ctx context.Context, patientId uuid.UUID) ([]*core.ClinicalRecord, error) {
	var results []*core.ClinicalRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialRecordPatientKey(patientId)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := r.readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Patient index is ordered by ID; present records in encounter order
	slices.SortFunc(results, func(a, b *core.ClinicalRecord) int {
		return a.EncounterDate.Compare(b.EncounterDate)
	})
	return results, nil
}

// GetRecordsByType retrieves all records of the given type via the type index.
func (r *RecordRepository) GetRecordsByType(ctx context.Context, recordType core.RecordType) ([]*core.ClinicalRecord, error) {
	var results []*core.ClinicalRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialRecordTypeKey(recordType)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := r.readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetRecordsByDateRange retrieves records within an encounter time range.
func (r *RecordRepository) GetRecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.ClinicalRecord, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.ClinicalRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialRecordDateKey(start)
		endKey := makePartialRecordDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			// Read the ID from the index
			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			record, err := r.readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentRecords retrieves the N most recent records, ordered by encounter date descending.
func (r *RecordRepository) GetRecentRecords(ctx context.Context, limit int) ([]*core.ClinicalRecord, error) {
	var results []*core.ClinicalRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent records first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key in the date index
		startKey := makePartialRecordDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(clinicalRecordDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()

			// Check if we're still in the date index
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := r.readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// setIndexes writes all secondary index entries for a record.
func (r *RecordRepository) setIndexes(tx *badger.Txn, record *core.ClinicalRecord) error {
	id := storage.MarshalID(record.Id)
	if err := tx.Set(makeRecordDateKey(record.EncounterDate, record.Id), id); err != nil {
		return err
	}
	if err := tx.Set(makeRecordPatientKey(record.PatientId, record.Id), id); err != nil {
		return err
	}
	return tx.Set(makeRecordTypeKey(record.RecordType, record.Id), id)
}

// readRecord reads a single record by key within a transaction.
// Returns nil (no error) if the key does not exist.
func (r *RecordRepository) readRecord(tx *badger.Txn, key []byte) (*core.ClinicalRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.ClinicalRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalClinicalRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
