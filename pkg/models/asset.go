package models

// Asset is an inventoried system that incidents and threats can affect.
type Asset struct {
	AssetID          int    `json:"asset_id"`
	AssetName        string `json:"asset_name" validate:"required,max=150"`
	AssetType        string `json:"asset_type" validate:"required,max=50"`
	Location         string `json:"location" validate:"max=50"`
	Owner            string `json:"owner" validate:"max=100"`
	CriticalityLevel string `json:"criticality_level" validate:"required,oneof=low medium high critical"`
}

// Key returns the asset identity.
func (a Asset) Key() int { return a.AssetID }
