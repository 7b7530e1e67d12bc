package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"riskconsole/internal/backend"
	"riskconsole/internal/logger"
	"riskconsole/internal/metrics"
	"riskconsole/internal/risk"
	"riskconsole/pkg/models"
)

var log = logger.Named("feed")

// Event triggers.
const (
	TriggerChange   = "change"
	TriggerSchedule = "schedule"
)

// finalAttempts bounds writes of the last batch on shutdown.
const finalAttempts = 3

// Source yields raw change notifications. Pop returns nil with no error when
// nothing arrived within its wait window.
type Source interface {
	Pop(ctx context.Context) ([]byte, error)
	Close() error
}

// Writer persists batches of risk events.
type Writer interface {
	WriteEvents(events []*models.RiskEvent) error
	Close() error
}

// Scorer computes risk scores.
type Scorer interface {
	Score(ctx context.Context, incidentID int) (models.RiskScore, error)
	ScoreAll(ctx context.Context) ([]models.RiskScore, error)
}

// Config controls the feed loops.
type Config struct {
	Workers       int
	BatchSize     int
	FlushInterval time.Duration
	RetryInterval time.Duration
	Schedule      string
}

// Feed rescores incidents as change notifications arrive and publishes the
// results.
type Feed struct {
	cfg     Config
	source  Source
	scorer  Scorer
	writer  Writer
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a feed.
func New(cfg Config, source Source, scorer Scorer, writer Writer, m *metrics.Metrics) (*Feed, error) {
	if source == nil || scorer == nil || writer == nil {
		return nil, errors.New("feed: source, scorer and writer are required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = time.Second
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			return nil, fmt.Errorf("feed: invalid schedule %q: %w", cfg.Schedule, err)
		}
	}
	return &Feed{cfg: cfg, source: source, scorer: scorer, writer: writer, metrics: m, now: time.Now}, nil
}

// Run consumes notifications until ctx is cancelled, then drains and flushes.
func (f *Feed) Run(ctx context.Context) error {
	log.Infof("risk feed started (workers=%d batch=%d flush=%s)", f.cfg.Workers, f.cfg.BatchSize, f.cfg.FlushInterval)

	msgCh := make(chan []byte, f.cfg.Workers*4)
	eventCh := make(chan *models.RiskEvent, f.cfg.Workers*4)

	var readers, producers sync.WaitGroup

	readers.Add(1)
	go func() {
		defer readers.Done()
		f.readLoop(ctx, msgCh)
		close(msgCh)
	}()

	for i := 0; i < f.cfg.Workers; i++ {
		producers.Add(1)
		go func() {
			defer producers.Done()
			f.workerLoop(ctx, msgCh, eventCh)
		}()
	}

	var sched *cron.Cron
	if f.cfg.Schedule != "" {
		sched = cron.New()
		if _, err := sched.AddFunc(f.cfg.Schedule, func() { f.Rescore(ctx, eventCh) }); err != nil {
			return fmt.Errorf("feed: schedule rescoring: %w", err)
		}
		sched.Start()
		log.Infof("full rescoring scheduled: %s", f.cfg.Schedule)
	}

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		f.writeLoop(ctx, eventCh)
	}()

	<-ctx.Done()
	readers.Wait()
	producers.Wait()
	if sched != nil {
		<-sched.Stop().Done()
	}
	close(eventCh)
	<-writeDone

	log.Infof("risk feed stopped")
	return ctx.Err()
}

// Rescore scores every open incident and emits one event each.
func (f *Feed) Rescore(ctx context.Context, out chan<- *models.RiskEvent) {
	scores, err := f.scorer.ScoreAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Errorf("scheduled rescoring failed: %v", err)
		}
		return
	}
	for _, rs := range scores {
		select {
		case out <- f.event(TriggerSchedule, rs):
		case <-ctx.Done():
			return
		}
	}
	log.Infof("scheduled rescoring emitted %d events", len(scores))
}

// Once rescores every open incident and writes the events immediately.
func (f *Feed) Once(ctx context.Context) (int, error) {
	scores, err := f.scorer.ScoreAll(ctx)
	if err != nil {
		return 0, err
	}
	events := make([]*models.RiskEvent, len(scores))
	for i, rs := range scores {
		events[i] = f.event(TriggerSchedule, rs)
	}
	if err := f.writer.WriteEvents(events); err != nil {
		return 0, err
	}
	f.metrics.AddFeedEvents(len(events))
	return len(events), nil
}

// Close releases the source and the writer.
func (f *Feed) Close() error {
	if err := f.writer.Close(); err != nil {
		log.Errorf("failed to close writer: %v", err)
	}
	return f.source.Close()
}

func (f *Feed) readLoop(ctx context.Context, out chan<- []byte) {
	for {
		if ctx.Err() != nil {
			return
		}
		payload, err := f.source.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Errorf("failed to read change notification: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(500 * time.Millisecond):
			}
			continue
		}
		if payload == nil {
			continue
		}
		select {
		case out <- payload:
		case <-ctx.Done():
			return
		}
	}
}

func (f *Feed) workerLoop(ctx context.Context, in <-chan []byte, out chan<- *models.RiskEvent) {
	for payload := range in {
		change, err := ParseChange(payload)
		if err != nil {
			log.Warnf("dropping notification: %v", err)
			continue
		}
		if change.Entity == "incident" && change.Action == "deleted" {
			log.Debugf("incident %d deleted, nothing to score", change.IncidentID)
			continue
		}

		rs, err := f.scorer.Score(ctx, change.IncidentID)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return
			case backend.IsNotFound(err):
				log.Debugf("incident %d no longer exists", change.IncidentID)
			default:
				log.Errorf("failed to score incident %d: %v", change.IncidentID, err)
			}
			continue
		}
		select {
		case out <- f.event(TriggerChange, rs):
		case <-ctx.Done():
			return
		}
	}
}

// writeLoop batches events until in is closed. Once ctx is cancelled a
// failing batch is kept for the final flush instead of being retried.
func (f *Feed) writeLoop(ctx context.Context, in <-chan *models.RiskEvent) {
	ticker := time.NewTicker(f.cfg.FlushInterval)
	defer ticker.Stop()

	var batch []*models.RiskEvent
	flush := func(final bool) {
		if len(batch) == 0 {
			return
		}
		for attempt := 1; ; attempt++ {
			err := f.writer.WriteEvents(batch)
			if err == nil {
				f.metrics.AddFeedEvents(len(batch))
				batch = nil
				return
			}
			log.Errorf("failed to write %d risk events (attempt %d): %v", len(batch), attempt, err)
			if final {
				// Shutdown gets a few attempts, then the batch is dropped.
				if attempt >= finalAttempts {
					log.Errorf("dropping %d risk events", len(batch))
					batch = nil
					return
				}
				time.Sleep(f.cfg.RetryInterval)
				continue
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(f.cfg.RetryInterval):
			}
		}
	}

	for {
		select {
		case <-ticker.C:
			flush(false)
		case ev, ok := <-in:
			if !ok {
				flush(true)
				return
			}
			batch = append(batch, ev)
			if len(batch) >= f.cfg.BatchSize {
				flush(false)
			}
		}
	}
}

func (f *Feed) event(trigger string, rs models.RiskScore) *models.RiskEvent {
	return &models.RiskEvent{
		EventID:   uuid.NewString(),
		EmittedAt: f.now().UTC(),
		Trigger:   trigger,
		Band:      risk.Classify(rs.RiskScore).Band.String(),
		RiskScore: rs,
	}
}

// ParseChange decodes a change notification. A bare incident id is accepted
// as well as the JSON object form.
func ParseChange(payload []byte) (models.IncidentChange, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return models.IncidentChange{}, errors.New("empty notification")
	}
	if id, err := strconv.Atoi(string(payload)); err == nil {
		if id <= 0 {
			return models.IncidentChange{}, fmt.Errorf("invalid incident id %d", id)
		}
		return models.IncidentChange{IncidentID: id}, nil
	}

	var change models.IncidentChange
	if err := json.Unmarshal(payload, &change); err != nil {
		return models.IncidentChange{}, fmt.Errorf("decode notification: %w", err)
	}
	if change.IncidentID <= 0 {
		return models.IncidentChange{}, errors.New("notification has no incident_id")
	}
	return change, nil
}
