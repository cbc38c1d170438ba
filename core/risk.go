package core

// RiskLevel grades an aggregate risk score.
type RiskLevel int

const (
	RiskMinimal RiskLevel = iota + 1
	RiskLow
	RiskModerate
	RiskHigh
	// RiskCritical is reserved for manual escalation workflows.
	// RiskLevelForScore never produces it.
	RiskCritical
)

func (l RiskLevel) String() string {
	switch l {
	case RiskMinimal:
		return "MINIMAL"
	case RiskLow:
		return "LOW"
	case RiskModerate:
		return "MODERATE"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// RiskLevelForScore maps an aggregate risk score to a risk level.
// Pure step function: score >= 0.8 is HIGH, >= 0.6 MODERATE, >= 0.3 LOW,
// anything below is MINIMAL.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= 0.8:
		return RiskHigh
	case score >= 0.6:
		return RiskModerate
	case score >= 0.3:
		return RiskLow
	default:
		return RiskMinimal
	}
}
