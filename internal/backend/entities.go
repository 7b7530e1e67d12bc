package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"riskconsole/pkg/models"
)

// Users returns the user collection.
func (c *Client) Users() *Collection[models.User] {
	return NewCollection[models.User](c, "users", "")
}

// Assets returns the asset collection.
func (c *Client) Assets() *Collection[models.Asset] {
	return NewCollection[models.Asset](c, "assets", "")
}

// Vulnerabilities returns the vulnerability collection.
func (c *Client) Vulnerabilities() *Collection[models.Vulnerability] {
	return NewCollection[models.Vulnerability](c, "vulnerabilities", "")
}

// Alerts returns the alert collection.
func (c *Client) Alerts() *Collection[models.Alert] {
	return NewCollection[models.Alert](c, "alerts", "alerts")
}

// Incidents returns the incident collection.
func (c *Client) Incidents() *Collection[models.Incident] {
	return NewCollection[models.Incident](c, "incidents", "incidents")
}

// Threats returns the threat-intelligence collection.
func (c *Client) Threats() *Collection[models.ThreatIntel] {
	return NewCollection[models.ThreatIntel](c, "threat_intelligence", "threats")
}

// IncidentDetail fetches an incident with its linked assets, alerts and threats.
func (c *Client) IncidentDetail(ctx context.Context, incidentID int) (models.IncidentDetail, error) {
	var out models.IncidentDetail
	err := c.Do(ctx, http.MethodGet, "/incidents/"+strconv.Itoa(incidentID), nil, nil, &out)
	return out, err
}

// IncidentAlerts lists alerts raised for an incident.
func (c *Client) IncidentAlerts(ctx context.Context, incidentID int) ([]models.Alert, error) {
	return c.Alerts().List(ctx, url.Values{"incident_id": {strconv.Itoa(incidentID)}})
}

// AssetVulnerabilities lists vulnerabilities present on an asset.
func (c *Client) AssetVulnerabilities(ctx context.Context, assetID int) ([]models.Vulnerability, error) {
	var out []models.Vulnerability
	err := c.Do(ctx, http.MethodGet, "/assets/"+strconv.Itoa(assetID)+"/vulnerabilities", nil, nil, &out)
	return out, err
}

// IncidentPageSize is the page size OpenIncidents requests.
const IncidentPageSize = 200

// OpenIncidents lists incidents with the given statuses, following pages
// until the backend's count is reached.
func (c *Client) OpenIncidents(ctx context.Context, statuses ...string) ([]models.Incident, error) {
	if len(statuses) == 0 {
		statuses = []string{models.IncidentStatusOpen, models.IncidentStatusInvestigating}
	}
	var out []models.Incident
	for _, st := range statuses {
		offset := 0
		for {
			q := url.Values{
				"status": {st},
				"limit":  {strconv.Itoa(IncidentPageSize)},
				"offset": {strconv.Itoa(offset)},
			}
			items, count, err := c.Incidents().Page(ctx, q)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
			offset += len(items)
			if len(items) == 0 || (count >= 0 && offset >= count) || (count < 0 && len(items) < IncidentPageSize) {
				break
			}
		}
	}
	return out, nil
}

// RiskScores fetches the risk contract for all open incidents.
func (c *Client) RiskScores(ctx context.Context) ([]models.RiskScorePayload, error) {
	var out []models.RiskScorePayload
	err := c.Do(ctx, http.MethodGet, "/risk/", nil, nil, &out)
	return out, err
}

// RiskScore fetches the risk contract for one incident.
func (c *Client) RiskScore(ctx context.Context, incidentID int) (models.RiskScorePayload, error) {
	var out models.RiskScorePayload
	err := c.Do(ctx, http.MethodGet, "/risk/"+strconv.Itoa(incidentID), nil, nil, &out)
	return out, err
}
