package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/oraclehealth/clinsight/core"
)

// Criteria selects the cohort for a population analysis: an ICD code
// prefix identifying the condition, an encounter time range, and an
// optional record type filter.
type Criteria struct {
	ConditionPrefix string            // ICD code prefix, e.g. "E11" for type 2 diabetes
	Start           time.Time
	End             time.Time
	RecordTypes     []core.RecordType // empty means all record types
}

// Validate checks that the criteria describe a usable cohort.
func (c Criteria) Validate() error {
	if c.Start.IsZero() || c.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidCriteria)
	}
	if c.End.Before(c.Start) {
		return fmt.Errorf("%w: end precedes start", ErrInvalidCriteria)
	}
	return nil
}

// matches reports whether the record belongs to the cohort.
func (c Criteria) matches(record *core.ClinicalRecord) bool {
	if len(c.RecordTypes) > 0 {
		found := false
		for _, rt := range c.RecordTypes {
			if record.RecordType == rt {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if c.ConditionPrefix == "" {
		return true
	}
	for _, code := range record.IcdCodes {
		if strings.HasPrefix(code, c.ConditionPrefix) {
			return true
		}
	}
	return false
}
