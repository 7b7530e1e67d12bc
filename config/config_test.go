package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseAndApplyDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
riskconsole:
  backend:
    base_url: http://soc.internal:8000
    timeout: 3s
    rate_limit: 20
  scoring:
    source: Remote
  feed:
    input:
      mode: nats
    output:
      mode: clickhouse
      clickhouse:
        url: http://ch:8123
    schedule: "0 */5 * * * *"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ApplyDefaults(cfg)
	rc := cfg.RiskConsole

	if rc.Backend.BaseURL != "http://soc.internal:8000" || rc.Backend.Timeout != 3*time.Second {
		t.Fatalf("backend not parsed: %+v", rc.Backend)
	}
	if rc.Backend.APIPrefix != "/app/v1/cyber" || rc.Backend.Burst != 1 {
		t.Fatalf("backend defaults not applied: %+v", rc.Backend)
	}
	if rc.Scoring.Source != "remote" {
		t.Fatalf("expected normalized scoring source, got %q", rc.Scoring.Source)
	}
	if rc.Feed.Input.Mode != "nats" || rc.Feed.Input.NATS.Subject != "soc.incidents.changed" {
		t.Fatalf("feed input not resolved: %+v", rc.Feed.Input)
	}
	if rc.Feed.Output.ClickHouse.Table != "risk_events" || rc.Feed.Schedule != "0 */5 * * * *" {
		t.Fatalf("feed output not resolved: %+v", rc.Feed)
	}
	if rc.Server.Addr != ":8080" || rc.Metrics.Path != "/metrics" || rc.Logging.Level != "info" {
		t.Fatalf("server defaults not applied: %+v", rc)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskconsole.yml")
	if err := os.WriteFile(path, []byte("riskconsole:\n  server:\n    addr: \":9090\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RiskConsole.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.RiskConsole.Server.Addr)
	}
}
