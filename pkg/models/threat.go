package models

// Threat intelligence confidence levels.
const (
	ConfidenceLow      = "low"
	ConfidenceMedium   = "medium"
	ConfidenceHigh     = "high"
	ConfidenceVeryHigh = "very_high"
)

// ThreatIntel is a threat-intelligence entry (actor plus indicator).
type ThreatIntel struct {
	ThreatID        int    `json:"threat_id"`
	ThreatActorName string `json:"threat_actor_name" validate:"required,max=100"`
	IndicatorType   string `json:"indicator_type" validate:"required,max=50"`
	IndicatorValue  string `json:"indicator_value" validate:"required,max=255"`
	ConfidenceLevel string `json:"confidence_level" validate:"required,oneof=low medium high very_high"`
	Description     string `json:"description"`
	RelatedCVE      string `json:"related_cve,omitempty" validate:"max=100"`
}

// Key returns the threat identity.
func (t ThreatIntel) Key() int { return t.ThreatID }
