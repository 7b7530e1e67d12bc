package scoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskconsole/internal/backend"
	"riskconsole/internal/risk"
	"riskconsole/pkg/models"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	reported := testNow.Add(-10 * 24 * time.Hour).Format(time.RFC3339)
	routes := map[string]string{
		"/api/incidents/": `{"incidents":[
			{"incident_id":1,"incident_type":"ransomware","severity":"high","status":"open","reported_date":"` + reported + `"},
			{"incident_id":2,"incident_type":"phishing","severity":"low","status":"open","reported_date":"` + testNow.Format(time.RFC3339) + `"}
		],"count":2}`,
		"/api/incidents/1": `{"incident_id":1,"incident_type":"ransomware","severity":"high","status":"open","reported_date":"` + reported + `",
			"assets":[{"incident_id":1,"asset_id":8},{"incident_id":1,"asset_id":9}],
			"threats":[{"threat_id":3,"confidence_level":"high"}]}`,
		"/api/incidents/2": `{"incident_id":2,"incident_type":"phishing","severity":"low","status":"open","reported_date":"` + testNow.Format(time.RFC3339) + `",
			"assets":[],"alerts":[],"threats":[]}`,
		"/api/incidents/3": `{"incident_id":3,"incident_type":"intrusion","severity":"medium","status":"investigating","reported_date":"` + testNow.Format(time.RFC3339) + `",
			"assets":[{"incident_id":3,"asset_id":10}],"alerts":[],"threats":[]}`,
		"/api/assets/10":                `{"asset_id":10,"criticality_level":"critical"}`,
		"/api/assets/8":                 `{"asset_id":8,"criticality_level":"critical"}`,
		"/api/assets/9":                 `{"asset_id":9,"criticality_level":"high"}`,
		"/api/assets/8/vulnerabilities": `[{"vulnerability_id":1,"severity":"critical"},{"vulnerability_id":2,"severity":"high"}]`,
		"/api/assets/9/vulnerabilities": `[{"vulnerability_id":2,"severity":"high"}]`,
		"/api/alerts/": `{"alerts":[
			{"alert_id":1,"severity":"high","status":"new","incident_id":1},
			{"alert_id":2,"severity":"critical","status":"acknowledged","incident_id":1},
			{"alert_id":3,"severity":"critical","status":"closed","incident_id":1}
		],"count":3}`,
		"/api/risk/": `[
			{"incident_id":4,"incident_type":"dos","severity":"medium","risk_score":30,"risk_factors":{"asset_factor":10,"vulnerability_factor":10,"threat_factor":5,"alert_factor":5,"time_factor":0},"recommended_action":"Routine monitoring"},
			{"incident_id":5,"incident_type":"malware","severity":"critical","risk_score":80,"risk_factors":"{\"asset_factor\":30,\"vulnerability_factor\":20,\"threat_factor\":10,\"alert_factor\":10,\"time_factor\":10}","recommended_action":""},
			{"incident_id":6,"incident_type":"insider","severity":"high","risk_score":55,"risk_factors":null,"recommended_action":"Review and monitor"}
		]`,
		"/api/risk/5": `{"incident_id":5,"incident_type":"malware","severity":"critical","risk_score":80,"risk_factors":"{\"asset_factor\":30,\"vulnerability_factor\":20,\"threat_factor\":10,\"alert_factor\":10,\"time_factor\":10}"}`,
		"/api/risk/6": `{"incident_id":6,"risk_score":55,"risk_factors":"not json"}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/incidents/" && r.URL.Query().Get("status") == "investigating" {
			w.Write([]byte(`{"incidents":[{"incident_id":3,"incident_type":"intrusion","severity":"medium","status":"investigating","reported_date":"` + testNow.Format(time.RFC3339) + `"}],"count":1}`))
			return
		}
		if r.URL.Path == "/api/incidents/" && r.URL.Query().Get("status") != "open" {
			w.Write([]byte(`{"incidents":[],"count":0}`))
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newService(t *testing.T, source string) *Service {
	t.Helper()
	srv := fakeBackend(t)
	client, err := backend.NewClient(backend.Config{BaseURL: srv.URL, APIPrefix: "api"})
	require.NoError(t, err)
	svc, err := New(client, risk.NewEngineAt(func() time.Time { return testNow }), source, nil)
	require.NoError(t, err)
	return svc
}

func TestNewRejectsUnknownSource(t *testing.T) {
	client, err := backend.NewClient(backend.Config{BaseURL: "http://localhost"})
	require.NoError(t, err)
	_, err = New(client, nil, "cache", nil)
	require.Error(t, err)

	svc, err := New(client, nil, " ", nil)
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, svc.Source())
}

func TestLocalScoreFetchesLinkedEntities(t *testing.T) {
	svc := newService(t, SourceLocal)

	rs, err := svc.Score(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 17.5, rs.RiskFactors.AssetFactor)
	assert.Equal(t, 10.5, rs.RiskFactors.VulnerabilityFactor, "shared vulnerability counted once")
	assert.Equal(t, 10.0, rs.RiskFactors.ThreatFactor)
	assert.Equal(t, 15.0, rs.RiskFactors.AlertFactor, "closed alert still counts at a quarter weight")
	assert.InDelta(t, 10.0, rs.RiskFactors.TimeFactor, 1e-9)
	assert.InDelta(t, 63.0, rs.RiskScore, 1e-9)
	assert.Equal(t, "Review and monitor", rs.RecommendedAction)
	assert.False(t, rs.Incomplete)
}

func TestLocalScoreAllRanksHighestFirst(t *testing.T) {
	svc := newService(t, SourceLocal)

	scores, err := svc.ScoreAll(context.Background())
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, 1, scores[0].IncidentID)
	assert.Equal(t, 3, scores[1].IncidentID)
	assert.Equal(t, 2, scores[2].IncidentID)
	assert.Equal(t, 0.0, scores[2].RiskScore)
}

func TestMissingVulnerabilityRouteMarksIncomplete(t *testing.T) {
	svc := newService(t, SourceLocal)

	rs, err := svc.Score(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 10.0, rs.RiskFactors.AssetFactor)
	assert.Equal(t, 0.0, rs.RiskFactors.VulnerabilityFactor)
	assert.True(t, rs.Incomplete)

	in, err := svc.Inputs(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, in.Partial)
	assert.Len(t, in.Assets, 1)
	assert.Empty(t, in.Vulnerabilities)
}

func TestLocalPayloadIsStructured(t *testing.T) {
	svc := newService(t, SourceLocal)

	p, err := svc.Payload(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), p.RiskFactors[0])

	_, enc, err := risk.Decode(p)
	require.NoError(t, err)
	assert.Equal(t, risk.EncodingObject, enc)
}

func TestRemoteScoreDecodesStringFactors(t *testing.T) {
	svc := newService(t, SourceRemote)

	rs, err := svc.Score(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 30.0, rs.RiskFactors.AssetFactor)
	assert.Equal(t, "Escalate within SLA window", rs.RecommendedAction)
}

func TestRemoteScoreMalformed(t *testing.T) {
	svc := newService(t, SourceRemote)

	_, err := svc.Score(context.Background(), 6)
	require.ErrorIs(t, err, risk.ErrMalformedFactors)
}

func TestRemoteScoreAllSkipsMalformed(t *testing.T) {
	svc := newService(t, SourceRemote)

	scores, err := svc.ScoreAll(context.Background())
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 5, scores[0].IncidentID)
	assert.Equal(t, 4, scores[1].IncidentID)
}

func TestScoreNotFound(t *testing.T) {
	svc := newService(t, SourceLocal)

	_, err := svc.Score(context.Background(), 404)
	require.ErrorIs(t, err, ErrIncidentNotFound)
	assert.True(t, backend.IsNotFound(err))
}

func TestCancelledScoreIsDiscarded(t *testing.T) {
	svc := newService(t, SourceLocal)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rs, err := svc.Score(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.RiskScore{}, rs)
}

func TestDedupeVulnerabilities(t *testing.T) {
	out := dedupeVulnerabilities([][]models.Vulnerability{
		{{VulnerabilityID: 3}, {VulnerabilityID: 1}},
		{{VulnerabilityID: 1}, {VulnerabilityID: 2}},
	})
	require.Len(t, out, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{out[0].VulnerabilityID, out[1].VulnerabilityID, out[2].VulnerabilityID})
}
