package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"riskconsole/pkg/models"
)

// LinkAsset associates an asset with an incident. The backend updates the
// impact level when the link already exists.
func (c *Client) LinkAsset(ctx context.Context, link models.IncidentAsset) (models.IncidentAsset, error) {
	var out models.IncidentAsset
	err := c.Do(ctx, http.MethodPost, "/incidents/assets/", nil, link, &out)
	return out, err
}

// UpdateAssetLink replaces the link between incidentID and assetID.
func (c *Client) UpdateAssetLink(ctx context.Context, incidentID, assetID int, link models.IncidentAsset) (models.IncidentAsset, error) {
	q := url.Values{
		"original_incident_id": {strconv.Itoa(incidentID)},
		"original_asset_id":    {strconv.Itoa(assetID)},
	}
	var out models.IncidentAsset
	err := c.Do(ctx, http.MethodPut, "/incidents/assets/", q, link, &out)
	return out, err
}

// UnlinkAsset removes an asset from an incident.
func (c *Client) UnlinkAsset(ctx context.Context, incidentID, assetID int) error {
	path := "/incidents/assets/" + strconv.Itoa(incidentID) + "/" + strconv.Itoa(assetID) + "/"
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// LinkThreat associates a threat-intelligence entry with an incident.
func (c *Client) LinkThreat(ctx context.Context, link models.IncidentThreat) (models.IncidentThreat, error) {
	var out models.IncidentThreat
	err := c.Do(ctx, http.MethodPost, "/incidents/threats/", nil, link, &out)
	return out, err
}

// UnlinkThreat removes a threat-intelligence entry from an incident.
func (c *Client) UnlinkThreat(ctx context.Context, incidentID, threatID int) error {
	path := "/incidents/threats/" + strconv.Itoa(incidentID) + "/" + strconv.Itoa(threatID)
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// AssignAlert attaches an alert to an incident and returns the updated alert.
func (c *Client) AssignAlert(ctx context.Context, alertID, incidentID int) (models.Alert, error) {
	var out models.Alert
	path := "/alerts/" + strconv.Itoa(alertID) + "/assign-incident/" + strconv.Itoa(incidentID) + "/"
	err := c.Do(ctx, http.MethodPost, path, nil, nil, &out)
	return out, err
}

// UnassignAlert detaches an alert from its incident.
func (c *Client) UnassignAlert(ctx context.Context, alertID int) (models.Alert, error) {
	var out models.Alert
	err := c.Do(ctx, http.MethodPost, "/alerts/"+strconv.Itoa(alertID)+"/remove-incident/", nil, nil, &out)
	return out, err
}
