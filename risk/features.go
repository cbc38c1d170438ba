package risk

import (
	"github.com/oraclehealth/clinsight/ai"
	"github.com/oraclehealth/clinsight/core"
)

// Severity baselines anchor the base risk before factor contributions.
var severityBaselines = map[core.SeverityLevel]float64{
	core.SeverityLow:      0.1,
	core.SeverityModerate: 0.3,
	core.SeverityHigh:     0.5,
	core.SeverityCritical: 0.7,
}

// Each factor adds weight/100, so a single maximal factor moves base risk
// by 0.1 and saturation requires several severe factors.
const factorScale = 100.0

// computeBaseRisk derives the presentation-driven risk component from the
// record's severity and the extracted risk factors. Result is in [0, 1].
func computeBaseRisk(factors []ai.ExtractedRiskFactor, severity core.SeverityLevel) float64 {
	base := severityBaselines[severity]

	for _, f := range factors {
		base += float64(f.Weight) / factorScale
	}

	if base > 1.0 {
		base = 1.0
	}
	return base
}
