package models

import (
	"encoding/json"
	"time"
)

// RiskFactors holds the five bounded sub-scores of an incident risk score.
type RiskFactors struct {
	AssetFactor         float64 `json:"asset_factor"`
	VulnerabilityFactor float64 `json:"vulnerability_factor"`
	ThreatFactor        float64 `json:"threat_factor"`
	AlertFactor         float64 `json:"alert_factor"`
	TimeFactor          float64 `json:"time_factor"`
}

// Sum returns the unclamped total of all factors.
func (f RiskFactors) Sum() float64 {
	return f.AssetFactor + f.VulnerabilityFactor + f.ThreatFactor + f.AlertFactor + f.TimeFactor
}

// RiskScore is a read-only projection of an incident's current risk.
type RiskScore struct {
	IncidentID        int         `json:"incident_id"`
	IncidentType      string      `json:"incident_type"`
	Severity          string      `json:"severity"`
	RiskScore         float64     `json:"risk_score"`
	RiskFactors       RiskFactors `json:"risk_factors"`
	RecommendedAction string      `json:"recommended_action"`
	Incomplete        bool        `json:"incomplete,omitempty"`
}

// RiskScorePayload is a RiskScore as received from a producer, with the
// factors left undecoded.
type RiskScorePayload struct {
	IncidentID        int             `json:"incident_id"`
	IncidentType      string          `json:"incident_type"`
	Severity          string          `json:"severity"`
	RiskScore         float64         `json:"risk_score"`
	RiskFactors       json.RawMessage `json:"risk_factors"`
	RecommendedAction string          `json:"recommended_action"`
	Incomplete        bool            `json:"incomplete,omitempty"`
}

// RiskEvent is one record of the published risk feed.
type RiskEvent struct {
	EventID   string    `json:"event_id"`
	EmittedAt time.Time `json:"emitted_at"`
	Trigger   string    `json:"trigger"`
	Band      string    `json:"band"`
	RiskScore
}

// IncidentChange is a notification that an incident or one of its linked
// entities changed.
type IncidentChange struct {
	IncidentID int    `json:"incident_id"`
	Entity     string `json:"entity,omitempty"`
	Action     string `json:"action,omitempty"`
}
