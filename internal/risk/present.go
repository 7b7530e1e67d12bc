package risk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"riskconsole/pkg/models"
)

// Unavailable is shown in place of a risk view whose payload cannot be decoded.
const Unavailable = "risk data unavailable"

// IncompleteWarning is shown when the time factor could not be evaluated or
// some linked data was missing.
const IncompleteWarning = "Incomplete inputs: incident age or linked data missing"

// Encoding describes how risk_factors arrived on the wire.
type Encoding string

const (
	EncodingObject    Encoding = "object"
	EncodingString    Encoding = "string"
	EncodingMalformed Encoding = "malformed"
)

// ErrMalformedFactors is returned when risk_factors cannot be decoded.
var ErrMalformedFactors = errors.New("malformed risk factors")

// SeverityBadge is the incident severity as shown next to a score.
type SeverityBadge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Summary is the compact, one-line projection used in lists.
type Summary struct {
	IncidentID        int           `json:"incident_id"`
	Title             string        `json:"title"`
	Score             int           `json:"score"`
	ScoreText         string        `json:"score_text"`
	Band              Band          `json:"band"`
	Color             string        `json:"color"`
	Icon              string        `json:"icon"`
	Severity          SeverityBadge `json:"severity"`
	RecommendedAction string        `json:"recommended_action"`
	Incomplete        bool          `json:"incomplete,omitempty"`
}

// FactorView is one row of the expanded breakdown.
type FactorView struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Caption      string  `json:"caption"`
	Value        float64 `json:"value"`
	Display      string  `json:"display"`
	Cap          float64 `json:"cap"`
	PercentOfCap float64 `json:"percent_of_cap"`
	Color        string  `json:"color"`
}

// Breakdown is the expanded projection used in detail views.
type Breakdown struct {
	Summary
	Factors []FactorView `json:"factors"`
	Warning string       `json:"warning,omitempty"`
}

// View is the decode-or-placeholder result handed to a renderer.
type View struct {
	Available   bool       `json:"available"`
	Placeholder string     `json:"placeholder,omitempty"`
	Encoding    Encoding   `json:"encoding"`
	Summary     *Summary   `json:"summary,omitempty"`
	Breakdown   *Breakdown `json:"breakdown,omitempty"`
}

type factorField struct {
	key     string
	label   string
	caption string
	cap     float64
	color   string
	value   func(models.RiskFactors) float64
}

var factorFields = []factorField{
	{"asset_factor", "Assets", "Criticality of affected assets", AssetCap, "#1890ff",
		func(f models.RiskFactors) float64 { return f.AssetFactor }},
	{"vulnerability_factor", "Vulnerabilities", "Severity of vulnerabilities on affected assets", VulnerabilityCap, "#faad14",
		func(f models.RiskFactors) float64 { return f.VulnerabilityFactor }},
	{"threat_factor", "Threats", "Confidence of linked threat intelligence", ThreatCap, "#ff4d4f",
		func(f models.RiskFactors) float64 { return f.ThreatFactor }},
	{"alert_factor", "Alerts", "Volume and severity of related alerts", AlertCap, "#fa8c16",
		func(f models.RiskFactors) float64 { return f.AlertFactor }},
	{"time_factor", "Time (days)", "Days the incident has been open", TimeCap, "#722ed1",
		func(f models.RiskFactors) float64 { return f.TimeFactor }},
}

var severityColors = map[string]string{
	models.SeverityCritical: "danger",
	models.SeverityHigh:     "warning",
	models.SeverityMedium:   "primary",
	models.SeverityLow:      "success",
}

// Decode turns a wire payload into a RiskScore. Factors may arrive as an
// object or as a JSON-encoded string holding that object.
func Decode(p models.RiskScorePayload) (models.RiskScore, Encoding, error) {
	raw := bytes.TrimSpace(p.RiskFactors)
	enc := EncodingObject
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return models.RiskScore{}, EncodingMalformed, fmt.Errorf("%w: %v", ErrMalformedFactors, err)
		}
		raw = bytes.TrimSpace([]byte(inner))
		enc = EncodingString
	}
	if len(raw) == 0 || raw[0] != '{' {
		return models.RiskScore{}, EncodingMalformed, fmt.Errorf("%w: expected object", ErrMalformedFactors)
	}

	var wire struct {
		AssetFactor         *float64 `json:"asset_factor"`
		VulnerabilityFactor *float64 `json:"vulnerability_factor"`
		ThreatFactor        *float64 `json:"threat_factor"`
		AlertFactor         *float64 `json:"alert_factor"`
		TimeFactor          *float64 `json:"time_factor"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return models.RiskScore{}, EncodingMalformed, fmt.Errorf("%w: %v", ErrMalformedFactors, err)
	}
	if wire.AssetFactor == nil || wire.VulnerabilityFactor == nil || wire.ThreatFactor == nil ||
		wire.AlertFactor == nil || wire.TimeFactor == nil {
		return models.RiskScore{}, EncodingMalformed, fmt.Errorf("%w: missing factor", ErrMalformedFactors)
	}

	score := clamp(p.RiskScore, 0, MaxScore)
	action := p.RecommendedAction
	if strings.TrimSpace(action) == "" {
		action = Classify(score).RecommendedAction
	}
	return models.RiskScore{
		IncidentID:   p.IncidentID,
		IncidentType: p.IncidentType,
		Severity:     p.Severity,
		RiskScore:    score,
		RiskFactors: ClampFactors(models.RiskFactors{
			AssetFactor:         *wire.AssetFactor,
			VulnerabilityFactor: *wire.VulnerabilityFactor,
			ThreatFactor:        *wire.ThreatFactor,
			AlertFactor:         *wire.AlertFactor,
			TimeFactor:          *wire.TimeFactor,
		}),
		RecommendedAction: action,
		Incomplete:        p.Incomplete,
	}, enc, nil
}

// Payload converts a RiskScore to its wire form with structured factors.
func Payload(rs models.RiskScore) models.RiskScorePayload {
	factors, _ := json.Marshal(rs.RiskFactors)
	return models.RiskScorePayload{
		IncidentID:        rs.IncidentID,
		IncidentType:      rs.IncidentType,
		Severity:          rs.Severity,
		RiskScore:         rs.RiskScore,
		RiskFactors:       factors,
		RecommendedAction: rs.RecommendedAction,
		Incomplete:        rs.Incomplete,
	}
}

// Compact builds the list projection of a score.
func Compact(rs models.RiskScore) Summary {
	class := Classify(rs.RiskScore)
	rounded := int(math.Round(rs.RiskScore))
	return Summary{
		IncidentID:        rs.IncidentID,
		Title:             fmt.Sprintf("#%d: %s", rs.IncidentID, rs.IncidentType),
		Score:             rounded,
		ScoreText:         fmt.Sprintf("%d/100", rounded),
		Band:              class.Band,
		Color:             class.Color,
		Icon:              class.Icon,
		Severity:          Severity(rs.Severity),
		RecommendedAction: rs.RecommendedAction,
		Incomplete:        rs.Incomplete,
	}
}

// Expand builds the detail projection of a score.
func Expand(rs models.RiskScore) Breakdown {
	b := Breakdown{Summary: Compact(rs)}
	for _, ff := range factorFields {
		v := ff.value(rs.RiskFactors)
		b.Factors = append(b.Factors, FactorView{
			Key:          ff.key,
			Label:        ff.label,
			Caption:      ff.caption,
			Value:        v,
			Display:      strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64),
			Cap:          ff.cap,
			PercentOfCap: v / ff.cap * 100,
			Color:        ff.color,
		})
	}
	if rs.Incomplete {
		b.Warning = IncompleteWarning
	}
	return b
}

// Render decodes a payload and builds both projections, or a placeholder when
// the payload is unusable.
func Render(p models.RiskScorePayload) View {
	rs, enc, err := Decode(p)
	if err != nil {
		return View{Placeholder: Unavailable, Encoding: EncodingMalformed}
	}
	summary := Compact(rs)
	breakdown := Expand(rs)
	return View{
		Available: true,
		Encoding:  enc,
		Summary:   &summary,
		Breakdown: &breakdown,
	}
}

// Severity returns the badge for an incident severity.
func Severity(severity string) SeverityBadge {
	s := strings.ToLower(strings.TrimSpace(severity))
	color, ok := severityColors[s]
	if !ok {
		color = "subdued"
	}
	label := s
	if r, size := utf8.DecodeRuneInString(s); size > 0 {
		label = string(unicode.ToUpper(r)) + s[size:]
	}
	return SeverityBadge{Label: label, Color: color}
}
