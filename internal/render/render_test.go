package render

import (
	"strings"
	"testing"

	"riskconsole/internal/risk"
	"riskconsole/pkg/models"
)

func sample(incomplete bool) models.RiskScore {
	return models.RiskScore{
		IncidentID:   12,
		IncidentType: "ransomware",
		Severity:     "critical",
		RiskScore:    92.4,
		RiskFactors: models.RiskFactors{
			AssetFactor: 50, VulnerabilityFactor: 20, ThreatFactor: 10, AlertFactor: 7.4, TimeFactor: 5,
		},
		RecommendedAction: "Trigger immediate escalation",
		Incomplete:        incomplete,
	}
}

func TestSummaryContainsFields(t *testing.T) {
	out := Summary(risk.Compact(sample(false)))
	for _, want := range []string{"92/100", "#12: ransomware", "[Critical]", "CRITICAL RISK", "Trigger immediate escalation", "✖"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "incomplete") {
		t.Fatalf("complete score rendered as incomplete: %s", out)
	}
}

func TestBreakdownShowsFactorsAndWarning(t *testing.T) {
	out := Breakdown(risk.Expand(sample(true)))
	for _, want := range []string{"50/50", "20/40", "7.4/30", "5/30", risk.IncompleteWarning} {
		if !strings.Contains(out, want) {
			t.Fatalf("breakdown missing %q:\n%s", want, out)
		}
	}
}

func TestViewPlaceholder(t *testing.T) {
	v := risk.Render(models.RiskScorePayload{IncidentID: 1, RiskFactors: []byte("null")})
	out := View(v, true)
	if !strings.Contains(out, risk.Unavailable) {
		t.Fatalf("expected placeholder, got %q", out)
	}
	if strings.Contains(out, "/100") {
		t.Fatalf("placeholder must not show a score: %q", out)
	}
}

func TestListEmpty(t *testing.T) {
	if out := List(nil); !strings.Contains(out, "no open incidents") {
		t.Fatalf("unexpected empty list rendering %q", out)
	}
}

func TestBar(t *testing.T) {
	if got := bar(50); strings.Count(got, "█") != 10 {
		t.Fatalf("expected half bar, got %q", got)
	}
	if got := bar(250); strings.Count(got, "░") != 0 {
		t.Fatalf("expected full bar, got %q", got)
	}
	if got := bar(-5); strings.Count(got, "█") != 0 {
		t.Fatalf("expected empty bar, got %q", got)
	}
}

func TestTrimFloat(t *testing.T) {
	cases := map[float64]string{50: "50", 7.5: "7.5", 0: "0", 2.25: "2.25"}
	for in, want := range cases {
		if got := trimFloat(in); got != want {
			t.Fatalf("trimFloat(%v)=%q, want %q", in, got, want)
		}
	}
}
