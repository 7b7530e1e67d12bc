package scorehttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"riskconsole/internal/logger"
	"riskconsole/pkg/models"
)

// IdempotencyHeader carries a key derived from the batch's event ids, so a
// retried batch is recognisable by the receiver.
const IdempotencyHeader = "Idempotency-Key"

var log = logger.Named("scorehttp")

// Config configures the HTTP writer.
type Config struct {
	URL     string
	Timeout time.Duration
	Headers map[string]string
	// BandChangesOnly posts an incident only when its risk band differs
	// from the last band this writer delivered for it.
	BandChangesOnly bool
}

// Writer posts batches of risk events to a webhook.
type Writer struct {
	url         string
	headers     map[string]string
	client      *http.Client
	changesOnly bool

	mu    sync.Mutex
	bands map[int]string
}

// NewWriter creates an HTTP writer.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("risk event URL is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Writer{
		url:         cfg.URL,
		headers:     cfg.Headers,
		client:      &http.Client{Timeout: timeout},
		changesOnly: cfg.BandChangesOnly,
		bands:       make(map[int]string),
	}, nil
}

// WriteEvents posts the batch as one JSON array. Band state is only
// advanced once the receiver accepted the batch.
func (w *Writer) WriteEvents(events []*models.RiskEvent) error {
	events = w.pending(events)
	if len(events) == 0 {
		return nil
	}

	body, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to marshal risk events: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyHeader, batchKey(events))
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("risk event post failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("risk event post of %d events failed with status %s", len(events), resp.Status)
	}

	w.mu.Lock()
	for _, ev := range events {
		w.bands[ev.IncidentID] = ev.Band
	}
	w.mu.Unlock()
	return nil
}

// pending keeps the latest event per incident and, in band-change mode,
// drops incidents whose band was already delivered.
func (w *Writer) pending(events []*models.RiskEvent) []*models.RiskEvent {
	if !w.changesOnly {
		return events
	}
	latest := make(map[int]int, len(events))
	for i, ev := range events {
		latest[ev.IncidentID] = i
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*models.RiskEvent, 0, len(latest))
	for i, ev := range events {
		if latest[ev.IncidentID] != i {
			continue
		}
		if prev, ok := w.bands[ev.IncidentID]; ok && prev == ev.Band {
			continue
		}
		out = append(out, ev)
	}
	if skipped := len(events) - len(out); skipped > 0 {
		log.Debugf("skipped %d risk events with unchanged band", skipped)
	}
	return out
}

func batchKey(events []*models.RiskEvent) string {
	ids := make([]string, len(events))
	for i, ev := range events {
		ids[i] = ev.EventID
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join(ids, ","))).String()
}

// Close releases HTTP resources.
func (w *Writer) Close() error {
	w.client.CloseIdleConnections()
	return nil
}
