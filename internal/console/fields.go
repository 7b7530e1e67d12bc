package console

import "sort"

// Field kinds.
const (
	KindText     = "text"
	KindTextArea = "textarea"
	KindSelect   = "select"
	KindNumber   = "number"
	KindDate     = "date"
	KindCheckbox = "checkbox"
	KindPassword = "password"
)

// Field describes one form/table column of an entity.
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
	Column   bool     `json:"column,omitempty"`
	ReadOnly bool     `json:"read_only,omitempty"`
}

// EntityConfig is the per-entity configuration of the generic CRUD list.
type EntityConfig struct {
	Name   string  `json:"name"`
	Title  string  `json:"title"`
	IDName string  `json:"id_field"`
	Fields []Field `json:"fields"`
}

var levels = []string{"low", "medium", "high", "critical"}

var entityConfigs = map[string]EntityConfig{
	"users": {
		Name: "users", Title: "Users", IDName: "user_id",
		Fields: []Field{
			{Name: "username", Label: "Username", Kind: KindText, Required: true, Column: true},
			{Name: "email", Label: "Email", Kind: KindText, Required: true, Column: true},
			{Name: "role", Label: "Role", Kind: KindSelect, Options: []string{"admin", "analyst", "manager", "user"}, Column: true},
			{Name: "password", Label: "Password", Kind: KindPassword},
			{Name: "is_active", Label: "Active", Kind: KindCheckbox, Column: true},
			{Name: "last_login", Label: "Last Login", Kind: KindDate, ReadOnly: true, Column: true},
			{Name: "date_joined", Label: "Date Joined", Kind: KindDate, ReadOnly: true},
		},
	},
	"assets": {
		Name: "assets", Title: "Assets", IDName: "asset_id",
		Fields: []Field{
			{Name: "asset_name", Label: "Asset Name", Kind: KindText, Required: true, Column: true},
			{Name: "asset_type", Label: "Asset Type", Kind: KindText, Required: true, Column: true},
			{Name: "location", Label: "Location", Kind: KindText, Column: true},
			{Name: "owner", Label: "Owner", Kind: KindText, Column: true},
			{Name: "criticality_level", Label: "Criticality Level", Kind: KindSelect, Required: true, Options: levels, Column: true},
		},
	},
	"vulnerabilities": {
		Name: "vulnerabilities", Title: "Vulnerabilities", IDName: "vulnerability_id",
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindText, Required: true, Column: true},
			{Name: "description", Label: "Description", Kind: KindTextArea},
			{Name: "severity", Label: "Severity", Kind: KindSelect, Required: true, Options: levels, Column: true},
			{Name: "cve_reference", Label: "CVE Reference", Kind: KindText, Column: true},
			{Name: "remediation_steps", Label: "Remediation Steps", Kind: KindTextArea},
			{Name: "discovery_date", Label: "Discovery Date", Kind: KindDate, Column: true},
			{Name: "patch_available", Label: "Patch Available", Kind: KindCheckbox, Column: true},
		},
	},
	"alerts": {
		Name: "alerts", Title: "Alerts", IDName: "alert_id",
		Fields: []Field{
			{Name: "source", Label: "Source", Kind: KindText, Required: true, Column: true},
			{Name: "alert_type", Label: "Alert Type", Kind: KindText, Required: true, Column: true},
			{Name: "alert_time", Label: "Alert Time", Kind: KindDate, Column: true},
			{Name: "severity", Label: "Severity", Kind: KindSelect, Required: true, Options: levels, Column: true},
			{Name: "status", Label: "Status", Kind: KindSelect, Options: []string{"new", "acknowledged", "resolved", "closed"}, Column: true},
			{Name: "incident_id", Label: "Incident", Kind: KindNumber},
		},
	},
	"incidents": {
		Name: "incidents", Title: "Incidents", IDName: "incident_id",
		Fields: []Field{
			{Name: "incident_type", Label: "Incident Type", Kind: KindText, Required: true, Column: true},
			{Name: "description", Label: "Description", Kind: KindTextArea, Required: true},
			{Name: "severity", Label: "Severity", Kind: KindSelect, Required: true, Options: levels, Column: true},
			{Name: "status", Label: "Status", Kind: KindSelect, Options: []string{"open", "investigating", "resolved", "closed"}, Column: true},
			{Name: "reported_date", Label: "Reported", Kind: KindDate, Column: true},
			{Name: "resolved_date", Label: "Resolved", Kind: KindDate},
			{Name: "assigned_to_id", Label: "Assigned To", Kind: KindNumber, Column: true},
		},
	},
	"threat_intelligence": {
		Name: "threat_intelligence", Title: "Threat Intelligence", IDName: "threat_id",
		Fields: []Field{
			{Name: "threat_actor_name", Label: "Threat Actor", Kind: KindText, Required: true, Column: true},
			{Name: "indicator_type", Label: "Indicator Type", Kind: KindText, Required: true, Column: true},
			{Name: "indicator_value", Label: "Indicator Value", Kind: KindText, Required: true, Column: true},
			{Name: "confidence_level", Label: "Confidence", Kind: KindSelect, Required: true, Options: []string{"low", "medium", "high", "very_high"}, Column: true},
			{Name: "description", Label: "Description", Kind: KindTextArea},
			{Name: "related_cve", Label: "Related CVE", Kind: KindText},
		},
	},
}

// LookupEntity returns the configuration for an entity name.
func LookupEntity(name string) (EntityConfig, bool) {
	cfg, ok := entityConfigs[name]
	return cfg, ok
}

// Entities returns all entity configurations sorted by name.
func Entities() []EntityConfig {
	out := make([]EntityConfig, 0, len(entityConfigs))
	for _, cfg := range entityConfigs {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Columns returns the fields shown in the list table.
func (c EntityConfig) Columns() []Field {
	var out []Field
	for _, f := range c.Fields {
		if f.Column {
			out = append(out, f)
		}
	}
	return out
}
