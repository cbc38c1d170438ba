package ai

// RiskFactorCategories defines the valid categories for extracted risk factors.
// These categories are used by extractors to classify clinical risk factors.
var RiskFactorCategories = []string{
	"acute_condition",
	"chronic_condition",
	"demographic",
	"family_history",
	"lab_abnormality",
	"lifestyle",
	"medication",
	"mental_health",
	"procedure_complication",
	"social_determinant",
	"substance_use",
	"vital_sign",
}
