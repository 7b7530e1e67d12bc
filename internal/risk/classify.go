package risk

// Band is a discrete risk classification.
type Band string

// Risk bands, lowest to highest.
const (
	BandLow         Band = "LOW RISK"
	BandLowModerate Band = "LOW-MODERATE"
	BandModerate    Band = "MODERATE RISK"
	BandHigh        Band = "HIGH RISK"
	BandCritical    Band = "CRITICAL RISK"
)

// Classification is the band of a score together with its display attributes.
type Classification struct {
	Band              Band   `json:"band"`
	Color             string `json:"color"`
	Icon              string `json:"icon"`
	RecommendedAction string `json:"recommended_action"`
}

type bandRule struct {
	min    float64
	band   Band
	action string
}

// bandRules is evaluated top to bottom; the first rule whose lower bound is
// reached wins.
var bandRules = []bandRule{
	{min: 90, band: BandCritical, action: "Trigger immediate escalation"},
	{min: 75, band: BandHigh, action: "Escalate within SLA window"},
	{min: 50, band: BandModerate, action: "Review and monitor"},
	{min: 25, band: BandLowModerate, action: "Routine monitoring"},
	{min: 0, band: BandLow, action: "No action required"},
}

type bandStyle struct {
	color string
	icon  string
	rank  int
}

var bandStyles = map[Band]bandStyle{
	BandCritical:    {color: "#ff4d4f", icon: "alert", rank: 4},
	BandHigh:        {color: "#fa8c16", icon: "warning", rank: 3},
	BandModerate:    {color: "#faad14", icon: "bell", rank: 2},
	BandLowModerate: {color: "#1890ff", icon: "eye", rank: 1},
	BandLow:         {color: "#52c41a", icon: "checkInCircleFilled", rank: 0},
}

// Classify maps a composite score to its band.
func Classify(score float64) Classification {
	rule := bandRules[len(bandRules)-1]
	for _, r := range bandRules {
		if score >= r.min {
			rule = r
			break
		}
	}
	return Classification{
		Band:              rule.band,
		Color:             rule.band.Color(),
		Icon:              rule.band.Icon(),
		RecommendedAction: rule.action,
	}
}

// Bands lists every classification from highest to lowest band.
func Bands() []Classification {
	out := make([]Classification, 0, len(bandRules))
	for _, r := range bandRules {
		out = append(out, Classification{
			Band:              r.band,
			Color:             r.band.Color(),
			Icon:              r.band.Icon(),
			RecommendedAction: r.action,
		})
	}
	return out
}

// Color returns the display color of the band.
func (b Band) Color() string { return bandStyles[b].color }

// Icon returns the display icon key of the band.
func (b Band) Icon() string { return bandStyles[b].icon }

// Rank orders bands by severity, 0 being the lowest.
func (b Band) Rank() int { return bandStyles[b].rank }

// Threshold returns the inclusive lower bound of the band, or -1 for an
// unknown band.
func (b Band) Threshold() float64 {
	for _, r := range bandRules {
		if r.band == b {
			return r.min
		}
	}
	return -1
}

func (b Band) String() string { return string(b) }
