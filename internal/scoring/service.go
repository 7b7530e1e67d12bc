package scoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"riskconsole/internal/backend"
	"riskconsole/internal/logger"
	"riskconsole/internal/metrics"
	"riskconsole/internal/risk"
	"riskconsole/pkg/models"
)

// Score sources.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

const fetchConcurrency = 8

var log = logger.Named("scoring")

// ErrIncidentNotFound is returned when the incident itself no longer exists.
var ErrIncidentNotFound = errors.New("incident not found")

// Service produces risk scores either locally from backend entities or from
// the backend's own risk contract.
type Service struct {
	client  *backend.Client
	engine  *risk.Engine
	source  string
	metrics *metrics.Metrics
}

// New creates a scoring service.
func New(client *backend.Client, engine *risk.Engine, source string, m *metrics.Metrics) (*Service, error) {
	if client == nil {
		return nil, errors.New("scoring: backend client is required")
	}
	if engine == nil {
		engine = risk.NewEngine()
	}
	source = strings.ToLower(strings.TrimSpace(source))
	switch source {
	case "":
		source = SourceLocal
	case SourceLocal, SourceRemote:
	default:
		return nil, fmt.Errorf("scoring: unsupported source %q", source)
	}
	return &Service{client: client, engine: engine, source: source, metrics: m}, nil
}

// Source returns the configured score source.
func (s *Service) Source() string { return s.source }

// Payload returns the wire record for one incident. Locally computed scores
// are always emitted with structured factors; remote ones are passed through.
func (s *Service) Payload(ctx context.Context, incidentID int) (models.RiskScorePayload, error) {
	if s.source == SourceRemote {
		p, err := s.client.RiskScore(ctx, incidentID)
		if err != nil {
			return models.RiskScorePayload{}, err
		}
		if err := ctx.Err(); err != nil {
			return models.RiskScorePayload{}, err
		}
		return p, nil
	}
	rs, err := s.Score(ctx, incidentID)
	if err != nil {
		return models.RiskScorePayload{}, err
	}
	return risk.Payload(rs), nil
}

// Score returns the risk score for one incident.
func (s *Service) Score(ctx context.Context, incidentID int) (models.RiskScore, error) {
	var (
		rs  models.RiskScore
		err error
	)
	if s.source == SourceRemote {
		rs, err = s.remoteScore(ctx, incidentID)
	} else {
		rs, err = s.localScore(ctx, incidentID)
	}
	if err != nil {
		return models.RiskScore{}, err
	}
	// Results for a request nobody is waiting on any more are dropped.
	if err := ctx.Err(); err != nil {
		return models.RiskScore{}, err
	}
	s.metrics.ObserveScore(risk.Classify(rs.RiskScore).Band.String(), rs.RiskScore)
	return rs, nil
}

// ScoreAll returns scores for every open incident, highest risk first.
// Remote payloads that fail to decode are skipped.
func (s *Service) ScoreAll(ctx context.Context) ([]models.RiskScore, error) {
	var (
		out []models.RiskScore
		err error
	)
	if s.source == SourceRemote {
		out, err = s.remoteScoreAll(ctx)
	} else {
		out, err = s.localScoreAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, rs := range out {
		s.metrics.ObserveScore(risk.Classify(rs.RiskScore).Band.String(), rs.RiskScore)
	}
	risk.Rank(out)
	return out, nil
}

// Inputs gathers everything the engine needs for one incident. Linked data
// the backend does not serve is left empty and marks the inputs partial.
func (s *Service) Inputs(ctx context.Context, incidentID int) (risk.Inputs, error) {
	detail, err := s.client.IncidentDetail(ctx, incidentID)
	if err != nil {
		if backend.IsNotFound(err) {
			return risk.Inputs{}, fmt.Errorf("%w: %d: %w", ErrIncidentNotFound, incidentID, err)
		}
		return risk.Inputs{}, fmt.Errorf("fetch incident %d: %w", incidentID, err)
	}

	in := risk.Inputs{Incident: detail.Incident, Threats: detail.Threats}
	assets := make([]models.Asset, len(detail.Assets))
	found := make([]bool, len(detail.Assets))
	vulns := make([][]models.Vulnerability, len(detail.Assets))
	var partial atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, link := range detail.Assets {
		i, assetID := i, link.AssetID
		g.Go(func() error {
			a, err := s.client.Assets().Get(gctx, assetID)
			switch {
			case backend.IsNotFound(err):
				log.Debugf("incident %d: linked asset %d not found", incidentID, assetID)
				partial.Store(true)
				return nil
			case err != nil:
				return fmt.Errorf("fetch asset %d: %w", assetID, err)
			}
			assets[i], found[i] = a, true
			return nil
		})
		g.Go(func() error {
			v, err := s.client.AssetVulnerabilities(gctx, assetID)
			switch {
			case backend.IsNotFound(err):
				log.Debugf("incident %d: no vulnerabilities for asset %d", incidentID, assetID)
				partial.Store(true)
				return nil
			case err != nil:
				return fmt.Errorf("fetch vulnerabilities for asset %d: %w", assetID, err)
			}
			vulns[i] = v
			return nil
		})
	}
	if detail.Alerts != nil {
		in.Alerts = detail.Alerts
	} else {
		g.Go(func() error {
			a, err := s.client.IncidentAlerts(gctx, incidentID)
			switch {
			case backend.IsNotFound(err):
				partial.Store(true)
				return nil
			case err != nil:
				return fmt.Errorf("fetch alerts for incident %d: %w", incidentID, err)
			}
			in.Alerts = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return risk.Inputs{}, err
	}

	for i, a := range assets {
		if found[i] {
			in.Assets = append(in.Assets, a)
		}
	}
	in.Vulnerabilities = dedupeVulnerabilities(vulns)
	in.Partial = partial.Load()
	return in, nil
}

func (s *Service) localScore(ctx context.Context, incidentID int) (models.RiskScore, error) {
	in, err := s.Inputs(ctx, incidentID)
	if err != nil {
		return models.RiskScore{}, err
	}
	return s.engine.Score(in), nil
}

func (s *Service) localScoreAll(ctx context.Context) ([]models.RiskScore, error) {
	incidents, err := s.client.OpenIncidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open incidents: %w", err)
	}

	var (
		mu  sync.Mutex
		out = make([]models.RiskScore, 0, len(incidents))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	seen := make(map[int]bool, len(incidents))
	for _, inc := range incidents {
		if !risk.IsOpen(inc.Status) || seen[inc.IncidentID] {
			continue
		}
		seen[inc.IncidentID] = true
		id := inc.IncidentID
		g.Go(func() error {
			rs, err := s.localScore(gctx, id)
			if err != nil {
				if errors.Is(err, ErrIncidentNotFound) {
					log.Warnf("incident %d disappeared while scoring", id)
					return nil
				}
				return err
			}
			mu.Lock()
			out = append(out, rs)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) remoteScore(ctx context.Context, incidentID int) (models.RiskScore, error) {
	p, err := s.client.RiskScore(ctx, incidentID)
	if err != nil {
		return models.RiskScore{}, err
	}
	rs, enc, err := risk.Decode(p)
	s.metrics.ObserveDecode(string(enc))
	if err != nil {
		return models.RiskScore{}, fmt.Errorf("incident %d: %w", incidentID, err)
	}
	return rs, nil
}

func (s *Service) remoteScoreAll(ctx context.Context) ([]models.RiskScore, error) {
	payloads, err := s.client.RiskScores(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.RiskScore, 0, len(payloads))
	for _, p := range payloads {
		rs, enc, err := risk.Decode(p)
		s.metrics.ObserveDecode(string(enc))
		if err != nil {
			log.Warnf("skipping incident %d: %v", p.IncidentID, err)
			continue
		}
		out = append(out, rs)
	}
	return out, nil
}

func dedupeVulnerabilities(groups [][]models.Vulnerability) []models.Vulnerability {
	seen := make(map[int]bool)
	var out []models.Vulnerability
	for _, group := range groups {
		for _, v := range group {
			if v.VulnerabilityID != 0 && seen[v.VulnerabilityID] {
				continue
			}
			seen[v.VulnerabilityID] = true
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].VulnerabilityID < out[j].VulnerabilityID })
	return out
}
