package search

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/go-crypt/x/blake2b"
	"github.com/oraclehealth/clinsight/core"
)

const (
	defaultCacheTTL = 5 * time.Minute

	// Sized for result slices, not raw embeddings; each entry costs its
	// result count.
	cacheNumCounters = 10_000
	cacheMaxCost     = 100_000
	cacheBufferItems = 64
)

// resultCache is a TTL cache over search result slices.
type resultCache struct {
	cache *ristretto.Cache[string, []*core.SimilarCase]
	ttl   time.Duration
}

func newResultCache(ttl time.Duration) (*resultCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, []*core.SimilarCase]{
		NumCounters: cacheNumCounters,
		MaxCost:     cacheMaxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &resultCache{cache: cache, ttl: ttl}, nil
}

func (c *resultCache) Get(key string) ([]*core.SimilarCase, bool) {
	return c.cache.Get(key)
}

func (c *resultCache) Set(key string, results []*core.SimilarCase) {
	cost := int64(len(results))
	if cost == 0 {
		cost = 1
	}
	c.cache.SetWithTTL(key, results, cost, c.ttl)
}

// Wait blocks until pending writes are visible. Used by tests.
func (c *resultCache) Wait() {
	c.cache.Wait()
}

func (c *resultCache) Close() {
	c.cache.Close()
}

// cacheKeyFor derives a deterministic key from everything that shapes the
// result set: enhanced query text, threshold, limit, and filter predicates.
func cacheKeyFor(enhanced string, query Query) string {
	var sb strings.Builder
	sb.WriteString(enhanced)
	fmt.Fprintf(&sb, "|t=%v|l=%d", query.Threshold, query.Limit)
	if f := query.Filter; f != nil {
		for _, rt := range f.RecordTypes {
			fmt.Fprintf(&sb, "|rt=%d", rt)
		}
		if f.PatientId != nil {
			fmt.Fprintf(&sb, "|p=%s", f.PatientId.String())
		}
		if f.MinSeverity != 0 {
			fmt.Fprintf(&sb, "|s=%d", f.MinSeverity)
		}
		if f.Department != "" {
			fmt.Fprintf(&sb, "|d=%s", f.Department)
		}
	}

	h, _ := blake2b.New(16, nil)
	h.Write([]byte(sb.String()))
	return hex.EncodeToString(h.Sum(nil))
}
