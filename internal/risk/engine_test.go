package risk

import (
	"testing"
	"time"

	"riskconsole/pkg/models"
)

func TestEngineScoreNewIncidentIsLowRisk(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewEngineAt(func() time.Time { return now })

	rs := e.Score(Inputs{Incident: models.Incident{IncidentID: 7, IncidentType: "phishing", Severity: "low", Status: "open", ReportedDate: &now}})
	if rs.RiskScore != 0 {
		t.Fatalf("expected score 0, got %v", rs.RiskScore)
	}
	if rs.RiskFactors != (models.RiskFactors{}) {
		t.Fatalf("expected zero factors, got %+v", rs.RiskFactors)
	}
	if Classify(rs.RiskScore).Band != BandLow {
		t.Fatalf("expected LOW RISK")
	}
	if rs.RecommendedAction != "No action required" {
		t.Fatalf("unexpected action %q", rs.RecommendedAction)
	}
	if rs.IncidentID != 7 || rs.IncidentType != "phishing" || rs.Severity != "low" {
		t.Fatalf("incident fields not copied: %+v", rs)
	}
}

func TestEngineScoreSaturatedIncidentIsCritical(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reported := now.Add(-60 * 24 * time.Hour)
	e := NewEngineAt(func() time.Time { return now })

	in := Inputs{Incident: models.Incident{IncidentID: 9, Severity: "critical", Status: "investigating", ReportedDate: &reported}}
	for i := 0; i < 10; i++ {
		in.Assets = append(in.Assets, models.Asset{CriticalityLevel: "critical"})
		in.Vulnerabilities = append(in.Vulnerabilities, models.Vulnerability{Severity: "critical"})
		in.Threats = append(in.Threats, models.ThreatIntel{ConfidenceLevel: "very_high"})
		in.Alerts = append(in.Alerts, models.Alert{Severity: "critical"})
	}

	rs := e.Score(in)
	if rs.RiskFactors.Sum() != 180 {
		t.Fatalf("expected factor sum 180, got %v", rs.RiskFactors.Sum())
	}
	if rs.RiskScore != 100 {
		t.Fatalf("expected clamp to 100, got %v", rs.RiskScore)
	}
	if Classify(rs.RiskScore).Band != BandCritical {
		t.Fatalf("expected CRITICAL RISK")
	}
}

func TestEngineScoreIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reported := now.Add(-52 * time.Hour)
	e := NewEngineAt(func() time.Time { return now })
	in := Inputs{
		Incident:        models.Incident{IncidentID: 3, Status: "open", ReportedDate: &reported},
		Assets:          []models.Asset{{CriticalityLevel: "high"}, {CriticalityLevel: "medium"}},
		Vulnerabilities: []models.Vulnerability{{Severity: "high"}},
		Threats:         []models.ThreatIntel{{ConfidenceLevel: "medium"}},
		Alerts:          []models.Alert{{Severity: "low", Status: "acknowledged"}},
	}

	a := e.Score(in)
	b := e.Score(in)
	if a != b {
		t.Fatalf("expected identical scores, got %+v and %+v", a, b)
	}
}

func TestEngineFlagsMissingReportedDate(t *testing.T) {
	e := NewEngine()
	rs := e.Score(Inputs{Incident: models.Incident{IncidentID: 4, Status: "open"}, Assets: []models.Asset{{CriticalityLevel: "critical"}}})
	if !rs.Incomplete {
		t.Fatalf("expected incomplete flag")
	}
	if rs.RiskFactors.TimeFactor != 0 || rs.RiskScore != 10 {
		t.Fatalf("unexpected score %+v", rs)
	}
}

func TestEngineFlagsPartialInputs(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewEngineAt(func() time.Time { return now })
	rs := e.Score(Inputs{
		Incident: models.Incident{IncidentID: 5, Status: "open", ReportedDate: &now},
		Assets:   []models.Asset{{CriticalityLevel: "critical"}},
		Partial:  true,
	})
	if !rs.Incomplete {
		t.Fatalf("expected incomplete flag for partial inputs")
	}
	if rs.RiskScore != 10 {
		t.Fatalf("expected score 10, got %v", rs.RiskScore)
	}
}

func TestRankOrdersHighestFirst(t *testing.T) {
	scores := []models.RiskScore{
		{IncidentID: 1, RiskScore: 40},
		{IncidentID: 2, RiskScore: 95},
		{IncidentID: 4, RiskScore: 40},
		{IncidentID: 3, RiskScore: 40},
	}
	Rank(scores)
	want := []int{2, 1, 3, 4}
	for i, id := range want {
		if scores[i].IncidentID != id {
			t.Fatalf("position %d: expected incident %d, got %d", i, id, scores[i].IncidentID)
		}
	}
}

func TestIsOpen(t *testing.T) {
	cases := map[string]bool{"open": true, "investigating": true, "resolved": false, "closed": false, "": false}
	for status, want := range cases {
		if got := IsOpen(status); got != want {
			t.Fatalf("IsOpen(%q)=%v, want %v", status, got, want)
		}
	}
}
