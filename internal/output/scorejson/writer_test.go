package scorejson

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"riskconsole/pkg/models"
)

func TestWriteEventsAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.jsonl")

	for round := 0; round < 2; round++ {
		w, err := NewWriter(path)
		if err != nil {
			t.Fatalf("NewWriter: %v", err)
		}
		events := []*models.RiskEvent{
			{EventID: "a", Band: "LOW RISK", RiskScore: models.RiskScore{IncidentID: 1}},
			{EventID: "b", Band: "HIGH RISK", RiskScore: models.RiskScore{IncidentID: 2, RiskScore: 80}},
		}
		if err := w.WriteEvents(events); err != nil {
			t.Fatalf("WriteEvents: %v", err)
		}
		if w.Written() != 2 {
			t.Fatalf("expected 2 written, got %d", w.Written())
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var lines []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", sc.Text(), err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines across reopen, got %d", len(lines))
	}
	if lines[1]["incident_id"] != float64(2) || lines[1]["risk_score"] != float64(80) {
		t.Fatalf("risk score fields not flattened into event: %v", lines[1])
	}
	if _, ok := lines[0]["risk_factors"].(map[string]interface{}); !ok {
		t.Fatalf("risk_factors must be an object: %v", lines[0])
	}
}

func TestWriteAfterClose(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "events.jsonl"))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	w.Close()
	if err := w.WriteEvents([]*models.RiskEvent{{EventID: "x"}}); err == nil {
		t.Fatalf("expected error writing to closed writer")
	}
}
