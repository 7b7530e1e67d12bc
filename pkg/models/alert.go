package models

import "time"

// Alert statuses.
const (
	AlertStatusNew          = "new"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
	AlertStatusClosed       = "closed"
)

// Alert is a detection raised by a monitoring source, optionally linked to an incident.
type Alert struct {
	AlertID    int       `json:"alert_id"`
	Source     string    `json:"source" validate:"required,max=255"`
	AlertType  string    `json:"alert_type" validate:"required,max=100"`
	AlertTime  time.Time `json:"alert_time,omitempty"`
	Severity   string    `json:"severity" validate:"required,oneof=low medium high critical"`
	Status     string    `json:"status" validate:"omitempty,oneof=new acknowledged resolved closed"`
	IncidentID *int      `json:"incident_id,omitempty"`
}

// Key returns the alert identity.
func (a Alert) Key() int { return a.AlertID }

// Acknowledged reports whether an analyst has already seen the alert.
func (a Alert) Acknowledged() bool {
	return a.Status == AlertStatusAcknowledged
}

// Closed reports whether the alert no longer needs attention.
func (a Alert) Closed() bool {
	return a.Status == AlertStatusResolved || a.Status == AlertStatusClosed
}
