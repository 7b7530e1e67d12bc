package risk

import "riskconsole/pkg/models"

// MaxScore is the upper bound of a composite risk score.
const MaxScore = 100.0

// Aggregate sums the factors and clamps the result to [0, 100]. The value is
// kept at full precision; rounding happens only when rendering.
func Aggregate(f models.RiskFactors) float64 {
	return clamp(f.Sum(), 0, MaxScore)
}
