package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/storage"
)

// GuidelineRepository implements storage.GuidelineRepository for BadgerDB.
type GuidelineRepository struct {
	backend *Backend
}

var _ storage.GuidelineRepository = (*GuidelineRepository)(nil)

// NewGuidelineRepository creates a new GuidelineRepository.
func NewGuidelineRepository(backend *Backend) (storage.GuidelineRepository, error) {
	return &GuidelineRepository{backend: backend}, nil
}

func (g *GuidelineRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (g *GuidelineRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.GuidelineMatch, error) {
	return g.backend.FindSimilarGuidelines(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (g *GuidelineRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return g.backend.WithTransaction(ctx, fn)
}

// AddGuidelines adds one or more guidelines to storage.
// Guideline IDs derive from the (Source, Title) content key, so re-adding
// the same guideline overwrites the stored copy instead of duplicating it.
func (g *GuidelineRepository) AddGuidelines(ctx context.Context, guidelines ...*core.Guideline) ([]*core.Guideline, error) {
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		for _, guideline := range guidelines {
			guideline.Id = core.IDFromContent(guideline.ContentKey())

			if guideline.InsertedAt.IsZero() {
				guideline.InsertedAt = time.Now().UTC()
			}
			guideline.UpdatedAt = time.Now().UTC()

			key := makeGuidelineKey(guideline.Id)
			value := storage.MarshalGuideline(guideline)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return guidelines, err
}

// GetGuideline retrieves a single guideline by ID.
func (g *GuidelineRepository) GetGuideline(ctx context.Context, id core.ID) (*core.Guideline, error) {
	var result *core.Guideline
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = g.readGuideline(tx, makeGuidelineKey(id))
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

// GetGuidelines retrieves multiple guidelines by their IDs.
func (g *GuidelineRepository) GetGuidelines(ctx context.Context, ids ...core.ID) ([]*core.Guideline, error) {
	var result []*core.Guideline
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			guideline, err := g.readGuideline(tx, makeGuidelineKey(id))
			if err != nil {
				return err
			}
			if guideline != nil {
				result = append(result, guideline)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetAllGuidelines retrieves every stored guideline via a prefix scan.
func (g *GuidelineRepository) GetAllGuidelines(ctx context.Context) ([]*core.Guideline, error) {
	var result []*core.Guideline
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(guidelinePrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				guideline, err := storage.UnmarshalGuideline(val)
				if err != nil {
					return err
				}
				result = append(result, guideline)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return result, err
}

func (g *GuidelineRepository) readGuideline(tx *badger.Txn, key []byte) (*core.Guideline, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var guideline *core.Guideline
	err = item.Value(func(val []byte) error {
		var err error
		guideline, err = storage.UnmarshalGuideline(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return guideline, nil
}
