package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/oraclehealth/clinsight/core"
)

// topConditionCount bounds the number of ICD codes reported per analysis.
const topConditionCount = 10

// CodeFrequency is an ICD code and the number of cohort records carrying it.
type CodeFrequency struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// PopulationInsights summarizes a patient cohort over a time period.
type PopulationInsights struct {
	ConditionPrefix     string          `json:"conditionPrefix,omitempty"`
	PeriodStart         time.Time       `json:"periodStart"`
	PeriodEnd           time.Time       `json:"periodEnd"`
	TotalRecords        int             `json:"totalRecords"`
	PatientCount        int             `json:"patientCount"`
	SeverityBreakdown   map[string]int  `json:"severityBreakdown"`
	RecordTypeBreakdown map[string]int  `json:"recordTypeBreakdown"`
	TopConditions       []CodeFrequency `json:"topConditions"`
	HighRiskShare       float64         `json:"highRiskShare"`
	GeneratedAt         time.Time       `json:"generatedAt"`
}

// insightAccumulator collects cohort statistics for one record group.
// Merge is associative and commutative, so per-group accumulators can be
// folded together in any order.
type insightAccumulator struct {
	records     int
	highRisk    int
	patients    map[uuid.UUID]struct{}
	severities  map[core.SeverityLevel]int
	recordTypes map[core.RecordType]int
	icdCounts   map[string]int
}

func newInsightAccumulator() *insightAccumulator {
	return &insightAccumulator{
		patients:    make(map[uuid.UUID]struct{}),
		severities:  make(map[core.SeverityLevel]int),
		recordTypes: make(map[core.RecordType]int),
		icdCounts:   make(map[string]int),
	}
}

func (a *insightAccumulator) add(record *core.ClinicalRecord) {
	a.records++
	if record.IsHighRisk() {
		a.highRisk++
	}
	a.patients[record.PatientId] = struct{}{}
	a.severities[record.Severity]++
	a.recordTypes[record.RecordType]++
	for _, code := range record.IcdCodes {
		a.icdCounts[code]++
	}
}

// Merge folds other into a.
func (a *insightAccumulator) Merge(other *insightAccumulator) {
	a.records += other.records
	a.highRisk += other.highRisk
	for patient := range other.patients {
		a.patients[patient] = struct{}{}
	}
	for severity, count := range other.severities {
		a.severities[severity] += count
	}
	for recordType, count := range other.recordTypes {
		a.recordTypes[recordType] += count
	}
	for code, count := range other.icdCounts {
		a.icdCounts[code] += count
	}
}

// finalize converts the accumulator into the exported insight summary.
func (a *insightAccumulator) finalize(criteria Criteria) *PopulationInsights {
	insights := &PopulationInsights{
		ConditionPrefix:     criteria.ConditionPrefix,
		PeriodStart:         criteria.Start,
		PeriodEnd:           criteria.End,
		TotalRecords:        a.records,
		PatientCount:        len(a.patients),
		SeverityBreakdown:   make(map[string]int, len(a.severities)),
		RecordTypeBreakdown: make(map[string]int, len(a.recordTypes)),
		TopConditions:       topConditions(a.icdCounts, topConditionCount),
		GeneratedAt:         time.Now().UTC(),
	}

	for severity, count := range a.severities {
		insights.SeverityBreakdown[severity.String()] = count
	}
	for recordType, count := range a.recordTypes {
		insights.RecordTypeBreakdown[recordType.String()] = count
	}
	if a.records > 0 {
		insights.HighRiskShare = float64(a.highRisk) / float64(a.records)
	}

	return insights
}

// topConditions returns the n most frequent codes, most frequent first.
// Ties break lexicographically so results are deterministic.
func topConditions(counts map[string]int, n int) []CodeFrequency {
	frequencies := make([]CodeFrequency, 0, len(counts))
	for code, count := range counts {
		frequencies = append(frequencies, CodeFrequency{Code: code, Count: count})
	}

	sort.Slice(frequencies, func(i, j int) bool {
		if frequencies[i].Count != frequencies[j].Count {
			return frequencies[i].Count > frequencies[j].Count
		}
		return frequencies[i].Code < frequencies[j].Code
	})

	if len(frequencies) > n {
		frequencies = frequencies[:n]
	}
	return frequencies
}
