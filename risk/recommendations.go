package risk

import (
	"github.com/oraclehealth/clinsight/ai"
	"github.com/oraclehealth/clinsight/core"
)

// Level recommendations are deterministic so identical assessments always
// produce identical guidance.
var levelRecommendations = map[core.RiskLevel][]string{
	core.RiskMinimal: {
		"Continue routine care and standard preventive screening",
	},
	core.RiskLow: {
		"Schedule routine follow-up within 90 days",
		"Reinforce preventive care and lifestyle guidance",
	},
	core.RiskModerate: {
		"Schedule follow-up within 30 days",
		"Review medication adherence and care plan",
		"Consider referral to relevant specialist",
	},
	core.RiskHigh: {
		"Expedite specialist referral",
		"Schedule follow-up within 7 days",
		"Initiate care coordination and review escalation criteria",
	},
	core.RiskCritical: {
		"Escalate for immediate clinical review",
		"Activate care team notification",
	},
}

// Category-specific guidance appended when a matching factor contributed.
var categoryRecommendations = map[string]string{
	"substance_use":      "Offer substance use counseling and cessation support",
	"medication":         "Perform medication reconciliation",
	"lifestyle":          "Refer to lifestyle modification program",
	"mental_health":      "Screen for behavioral health follow-up",
	"social_determinant": "Engage social work or community health resources",
}

// recommendationsFor builds the recommendation list for an assessment:
// level-driven guidance first, then one entry per contributing category.
func recommendationsFor(level core.RiskLevel, factors []ai.ExtractedRiskFactor) []string {
	recs := make([]string, 0, 4)
	recs = append(recs, levelRecommendations[level]...)

	seen := make(map[string]bool)
	for _, f := range factors {
		if seen[f.Category] {
			continue
		}
		seen[f.Category] = true
		if rec, ok := categoryRecommendations[f.Category]; ok {
			recs = append(recs, rec)
		}
	}

	return recs
}
