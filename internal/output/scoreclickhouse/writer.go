package scoreclickhouse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"riskconsole/pkg/models"
)

// Config configures the ClickHouse HTTP writer.
type Config struct {
	URL      string
	Database string
	Table    string
	Username string
	Password string
	Timeout  time.Duration
	Headers  map[string]string
}

// Writer inserts risk events into ClickHouse over HTTP using JSONEachRow.
type Writer struct {
	endpoint string
	headers  map[string]string
	client   *http.Client
}

// row is the flat table layout of a risk event.
type row struct {
	EventID             string  `json:"event_id"`
	EmittedAt           string  `json:"emitted_at"`
	Trigger             string  `json:"trigger"`
	IncidentID          int     `json:"incident_id"`
	IncidentType        string  `json:"incident_type"`
	Severity            string  `json:"severity"`
	RiskScore           float64 `json:"risk_score"`
	Band                string  `json:"band"`
	AssetFactor         float64 `json:"asset_factor"`
	VulnerabilityFactor float64 `json:"vulnerability_factor"`
	ThreatFactor        float64 `json:"threat_factor"`
	AlertFactor         float64 `json:"alert_factor"`
	TimeFactor          float64 `json:"time_factor"`
	RecommendedAction   string  `json:"recommended_action"`
	Incomplete          uint8   `json:"incomplete"`
}

// NewWriter creates a ClickHouse writer.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("clickhouse URL is empty")
	}
	if cfg.Database == "" {
		cfg.Database = "default"
	}
	if cfg.Table == "" {
		cfg.Table = "risk_events"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	q := fmt.Sprintf("INSERT INTO %s.%s FORMAT JSONEachRow", quoteIdent(cfg.Database), quoteIdent(cfg.Table))
	endpoint := strings.TrimRight(cfg.URL, "/") + "/?query=" + url.QueryEscape(q)

	headers := map[string]string{}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if cfg.Username != "" {
		headers["X-ClickHouse-User"] = cfg.Username
	}
	if cfg.Password != "" {
		headers["X-ClickHouse-Key"] = cfg.Password
	}

	return &Writer{
		endpoint: endpoint,
		headers:  headers,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// WriteEvents inserts a batch of events.
func (w *Writer) WriteEvents(events []*models.RiskEvent) error {
	if len(events) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, ev := range events {
		if err := enc.Encode(toRow(ev)); err != nil {
			return fmt.Errorf("failed to marshal risk event: %w", err)
		}
	}

	req, err := http.NewRequest(http.MethodPost, w.endpoint, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("clickhouse request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 300 {
		return fmt.Errorf("clickhouse request failed with status %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

// Close releases resources.
func (w *Writer) Close() error {
	w.client.CloseIdleConnections()
	return nil
}

func toRow(ev *models.RiskEvent) row {
	r := row{
		EventID:             ev.EventID,
		EmittedAt:           ev.EmittedAt.UTC().Format("2006-01-02 15:04:05.000"),
		Trigger:             ev.Trigger,
		IncidentID:          ev.IncidentID,
		IncidentType:        ev.IncidentType,
		Severity:            ev.Severity,
		RiskScore:           ev.RiskScore.RiskScore,
		Band:                ev.Band,
		AssetFactor:         ev.RiskFactors.AssetFactor,
		VulnerabilityFactor: ev.RiskFactors.VulnerabilityFactor,
		ThreatFactor:        ev.RiskFactors.ThreatFactor,
		AlertFactor:         ev.RiskFactors.AlertFactor,
		TimeFactor:          ev.RiskFactors.TimeFactor,
		RecommendedAction:   ev.RecommendedAction,
	}
	if ev.Incomplete {
		r.Incomplete = 1
	}
	return r
}

func quoteIdent(v string) string {
	if v == "" {
		return ""
	}
	return "`" + strings.ReplaceAll(v, "`", "") + "`"
}
