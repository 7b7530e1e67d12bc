package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"riskconsole/config"
	"riskconsole/internal/console"
	"riskconsole/internal/output/scorejson"
)

func TestFindConfigFilePrefersExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	if err := os.WriteFile(path, []byte("riskconsole: {}\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if got := findConfigFile(path); got != path {
		t.Fatalf("expected %s, got %s", path, got)
	}
}

func TestFindConfigFileMissing(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	if got := findConfigFile(filepath.Join(dir, "nope.yml")); got != "" {
		t.Fatalf("expected no config file, got %q", got)
	}
}

func TestNewFeedWriterModes(t *testing.T) {
	w, err := newFeedWriter(config.FeedOutputConfig{Mode: "file", File: config.FileOutputConfig{Path: filepath.Join(t.TempDir(), "e.jsonl")}})
	if err != nil {
		t.Fatalf("file writer: %v", err)
	}
	if _, ok := w.(*scorejson.Writer); !ok {
		t.Fatalf("expected JSON writer, got %T", w)
	}
	w.Close()

	if _, err := newFeedWriter(config.FeedOutputConfig{Mode: "http"}); err == nil {
		t.Fatalf("expected error for http writer without URL")
	}
	if _, err := newFeedWriter(config.FeedOutputConfig{Mode: "kafka"}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestNewFeedSourceModes(t *testing.T) {
	src, err := newFeedSource(config.FeedInputConfig{Mode: "redis", Redis: config.RedisConfig{Key: "changes"}})
	if err != nil {
		t.Fatalf("redis source: %v", err)
	}
	src.Close()

	if _, err := newFeedSource(config.FeedInputConfig{Mode: "nats"}); err == nil {
		t.Fatalf("expected error for nats source without subject")
	}
	if _, err := newFeedSource(config.FeedInputConfig{Mode: "file"}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestPrintTable(t *testing.T) {
	cfg, _ := console.LookupEntity("assets")
	rows := []map[string]interface{}{
		{"asset_id": float64(3), "asset_name": "db01", "asset_type": "server", "criticality_level": "high"},
	}
	var buf bytes.Buffer
	if err := printTable(&buf, cfg, rows); err != nil {
		t.Fatalf("printTable: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "Asset Name", "db01", "high", "-"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(strings.Split(out, "\n")[1], "3 ") {
		t.Fatalf("expected id in first column:\n%s", out)
	}
}

func TestScoreArgs(t *testing.T) {
	cmd := newScoreCmd()
	if err := cmd.Args(cmd, nil); err == nil {
		t.Fatalf("expected error without id or --all")
	}
	cmd.Flags().Set("all", "true")
	if err := cmd.Args(cmd, []string{"3"}); err == nil {
		t.Fatalf("expected error for id with --all")
	}
	if err := cmd.Args(cmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScoreJSONWritesToCommandOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/risk/5" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"incident_id":5,"incident_type":"malware","severity":"critical","risk_score":80,` +
			`"risk_factors":{"asset_factor":30,"vulnerability_factor":20,"threat_factor":10,"alert_factor":10,"time_factor":10}}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "riskconsole.yml")
	cfg := "riskconsole:\n  backend:\n    base_url: \"" + srv.URL + "\"\n    api_prefix: /api\n  scoring:\n    source: remote\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	defer func() { configArg = "" }()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "score", "5", "--json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("score --json failed: %v", err)
	}

	var view struct {
		Available bool `json:"available"`
		Summary   struct {
			IncidentID int `json:"incident_id"`
			Score      int `json:"score"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(out.Bytes(), &view); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if !view.Available || view.Summary.IncidentID != 5 || view.Summary.Score != 80 {
		t.Fatalf("unexpected view %+v", view)
	}
}
