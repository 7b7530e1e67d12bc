package risk

import (
	"math"
	"strings"
	"time"

	"riskconsole/pkg/models"
)

// Factor caps.
const (
	AssetCap         = 50.0
	VulnerabilityCap = 40.0
	ThreatCap        = 30.0
	AlertCap         = 30.0
	TimeCap          = 30.0
)

// Inputs are the entities linked to one incident.
type Inputs struct {
	Incident        models.Incident
	Assets          []models.Asset
	Vulnerabilities []models.Vulnerability
	Threats         []models.ThreatIntel
	Alerts          []models.Alert
	// Partial is set when some linked data could not be fetched.
	Partial bool
}

var assetWeight = map[string]float64{
	"critical": 10,
	"high":     7.5,
	"medium":   5,
	"low":      2.5,
}

var vulnerabilityWeight = map[string]float64{
	"critical": 6,
	"high":     4.5,
	"medium":   3,
	"low":      1.5,
}

var threatWeight = map[string]float64{
	"very_high": 15,
	"high":      10,
	"medium":    5,
	"low":       2.5,
}

var alertWeight = map[string]float64{
	"critical": 10,
	"high":     7.5,
	"medium":   5,
	"low":      2.5,
}

// ExtractFactors derives the five bounded factors for an incident. The second
// return value is true when the time factor could not be evaluated.
func ExtractFactors(in Inputs, now time.Time) (models.RiskFactors, bool) {
	var assets, vulns, threats, alerts float64

	for _, a := range in.Assets {
		assets += weightOf(assetWeight, a.CriticalityLevel)
	}
	for _, v := range in.Vulnerabilities {
		vulns += weightOf(vulnerabilityWeight, v.Severity)
	}
	for _, t := range in.Threats {
		threats += weightOf(threatWeight, t.ConfidenceLevel)
	}
	for _, a := range in.Alerts {
		alerts += weightOf(alertWeight, a.Severity) * alertStatusMultiplier(a)
	}

	days, ok := openDays(in.Incident, now)

	return models.RiskFactors{
		AssetFactor:         clamp(assets, 0, AssetCap),
		VulnerabilityFactor: clamp(vulns, 0, VulnerabilityCap),
		ThreatFactor:        clamp(threats, 0, ThreatCap),
		AlertFactor:         clamp(alerts, 0, AlertCap),
		TimeFactor:          clamp(days, 0, TimeCap),
	}, !ok
}

// ClampFactors bounds every factor to its documented range.
func ClampFactors(f models.RiskFactors) models.RiskFactors {
	return models.RiskFactors{
		AssetFactor:         clamp(f.AssetFactor, 0, AssetCap),
		VulnerabilityFactor: clamp(f.VulnerabilityFactor, 0, VulnerabilityCap),
		ThreatFactor:        clamp(f.ThreatFactor, 0, ThreatCap),
		AlertFactor:         clamp(f.AlertFactor, 0, AlertCap),
		TimeFactor:          clamp(f.TimeFactor, 0, TimeCap),
	}
}

// openDays returns how long the incident has been open, in days. Closed
// incidents are measured up to their resolution time.
func openDays(inc models.Incident, now time.Time) (float64, bool) {
	if inc.ReportedDate == nil || inc.ReportedDate.IsZero() {
		return 0, false
	}
	end := now
	if inc.Closed() {
		if inc.ResolvedDate == nil || inc.ResolvedDate.IsZero() {
			return 0, false
		}
		end = *inc.ResolvedDate
	}
	elapsed := end.Sub(*inc.ReportedDate)
	if elapsed <= 0 {
		return 0, true
	}
	return elapsed.Hours() / 24, true
}

// alertStatusMultiplier discounts alerts an analyst has already handled.
// Every multiplier is positive so severity always counts.
func alertStatusMultiplier(a models.Alert) float64 {
	switch {
	case a.Closed():
		return 0.25
	case a.Acknowledged():
		return 0.5
	default:
		return 1
	}
}

// weightOf scores unknown levels like the lowest known level.
func weightOf(table map[string]float64, level string) float64 {
	if w, ok := table[strings.ToLower(strings.TrimSpace(level))]; ok {
		return w
	}
	return table["low"]
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
