package risk

import (
	"sort"
	"time"

	"riskconsole/pkg/models"
)

// Engine computes incident risk scores from linked entities.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt creates an engine with a fixed clock.
func NewEngineAt(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Score computes a fresh RiskScore for the incident in the inputs.
func (e *Engine) Score(in Inputs) models.RiskScore {
	factors, incomplete := ExtractFactors(in, e.now())
	score := Aggregate(factors)
	class := Classify(score)
	return models.RiskScore{
		IncidentID:        in.Incident.IncidentID,
		IncidentType:      in.Incident.IncidentType,
		Severity:          in.Incident.Severity,
		RiskScore:         score,
		RiskFactors:       factors,
		RecommendedAction: class.RecommendedAction,
		Incomplete:        incomplete || in.Partial,
	}
}

// Rank orders scores highest risk first; ties keep incident id order.
func Rank(scores []models.RiskScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].RiskScore != scores[j].RiskScore {
			return scores[i].RiskScore > scores[j].RiskScore
		}
		return scores[i].IncidentID < scores[j].IncidentID
	})
}

// IsOpen reports whether an incident with this status belongs in risk lists.
func IsOpen(status string) bool {
	switch status {
	case models.IncidentStatusOpen, models.IncidentStatusInvestigating:
		return true
	}
	return false
}
