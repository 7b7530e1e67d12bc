package models

import "time"

// Vulnerability is a known weakness that can be present on assets.
type Vulnerability struct {
	VulnerabilityID  int        `json:"vulnerability_id"`
	Title            string     `json:"title" validate:"required,max=255"`
	Description      string     `json:"description"`
	Severity         string     `json:"severity" validate:"required,oneof=low medium high critical"`
	CVEReference     string     `json:"cve_reference" validate:"max=100"`
	RemediationSteps string     `json:"remediation_steps"`
	DiscoveryDate    *time.Time `json:"discovery_date,omitempty"`
	PatchAvailable   bool       `json:"patch_available"`
}

// Key returns the vulnerability identity.
func (v Vulnerability) Key() int { return v.VulnerabilityID }
