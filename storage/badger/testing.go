package badger

import (
	"github.com/oraclehealth/clinsight/storage"
)

// NewMemoryRepositories creates an in-memory backend with both repositories.
// Intended for tests; the caller owns the backend and must Close it.
func NewMemoryRepositories() (storage.RecordRepository, storage.GuidelineRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	records, err := NewRecordRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	guidelines, err := NewGuidelineRepository(backend)
	if err != nil {
		records.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return records, guidelines, backend, nil
}
