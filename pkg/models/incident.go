package models

import "time"

// Incident statuses.
const (
	IncidentStatusOpen          = "open"
	IncidentStatusInvestigating = "investigating"
	IncidentStatusResolved      = "resolved"
	IncidentStatusClosed        = "closed"
)

// Severity levels shared by incidents, alerts and vulnerabilities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Incident is a tracked security event.
type Incident struct {
	IncidentID   int        `json:"incident_id"`
	IncidentType string     `json:"incident_type" validate:"required,max=100"`
	Description  string     `json:"description" validate:"required"`
	Severity     string     `json:"severity" validate:"required,oneof=low medium high critical"`
	Status       string     `json:"status" validate:"omitempty,oneof=open investigating resolved closed"`
	ReportedDate *time.Time `json:"reported_date,omitempty"`
	ResolvedDate *time.Time `json:"resolved_date,omitempty"`
	AssignedTo   *int       `json:"assigned_to_id,omitempty"`
}

// Key returns the incident identity.
func (i Incident) Key() int { return i.IncidentID }

// Closed reports whether the incident is resolved or closed.
func (i Incident) Closed() bool {
	return i.Status == IncidentStatusResolved || i.Status == IncidentStatusClosed
}

// Open reports whether the incident is still being worked.
func (i Incident) Open() bool {
	return i.Status == IncidentStatusOpen || i.Status == IncidentStatusInvestigating
}

// IncidentAsset links an asset to an incident.
type IncidentAsset struct {
	IncidentID  int    `json:"incident_id" validate:"required"`
	AssetID     int    `json:"asset_id" validate:"required"`
	ImpactLevel string `json:"impact_level,omitempty" validate:"required,max=50"`
}

// IncidentThreat links a threat-intelligence entry to an incident.
type IncidentThreat struct {
	IncidentID int    `json:"incident_id" validate:"required"`
	ThreatID   int    `json:"threat_id" validate:"required"`
	Notes      string `json:"notes,omitempty"`
}

// IncidentDetail is an incident with its directly linked entities.
type IncidentDetail struct {
	Incident
	Assets  []IncidentAsset `json:"assets"`
	Alerts  []Alert         `json:"alerts"`
	Threats []ThreatIntel   `json:"threats"`
}
