package search

import (
	"github.com/oraclehealth/clinsight/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(enhancedQuery string)
	CacheHit(key string)
	CacheMiss(key string)
	AfterEmbedding(dim int)
	AfterVectorSearch(ids []uint64)
	VerbatimHit(record *core.ClinicalRecord)
	Finish(results []*core.SimilarCase)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                    {}
func (n *noopMonitor) CacheHit(_ string)                 {}
func (n *noopMonitor) CacheMiss(_ string)                {}
func (n *noopMonitor) AfterEmbedding(_ int)              {}
func (n *noopMonitor) AfterVectorSearch(_ []uint64)      {}
func (n *noopMonitor) VerbatimHit(_ *core.ClinicalRecord) {}
func (n *noopMonitor) Finish(_ []*core.SimilarCase)      {}
