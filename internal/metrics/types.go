package metrics

import "time"

// EntityLevel names a node granularity in the campaign hierarchy.
type EntityLevel string

const (
	LevelCampaign EntityLevel = "campaign"
	LevelAdGroup  EntityLevel = "ad_group"
	LevelAd       EntityLevel = "ad"
)

// ParseLevel maps a user-supplied string onto a known entity level.
func ParseLevel(s string) (EntityLevel, bool) {
	switch EntityLevel(s) {
	case LevelCampaign, LevelAdGroup, LevelAd:
		return EntityLevel(s), true
	}
	return "", false
}

// EntityMetrics aggregates one entity's performance over a lookback window.
type EntityMetrics struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Platform    string      `json:"platform"`
	EntityType  EntityLevel `json:"entity_type"`
	SpendCents  int64       `json:"spend_cents"`
	Conversions float64     `json:"conversions"`
	Impressions int64       `json:"impressions"`
	Clicks      int64       `json:"clicks"`
	CTR         float64     `json:"ctr"`
	CPCCents    float64     `json:"cpc_cents"`
}

// HistoricalDataPoint is one day's (or hour's) observation for one entity.
// Spend and conversions may independently be zero on inactive periods.
type HistoricalDataPoint struct {
	Date        time.Time `json:"date"`
	SpendCents  int64     `json:"spend_cents"`
	Conversions float64   `json:"conversions"`
	Impressions int64     `json:"impressions,omitempty"`
	Clicks      int64     `json:"clicks,omitempty"`
	Hour        *int      `json:"hour,omitempty"`
}
