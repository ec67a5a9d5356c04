package simulation

import "campaign-sim/internal/metrics"

// Confidence grades how much evidence backs a projection. It is threaded
// through every computation path rather than inferred after the fact, since
// rules like fallback-is-always-low must be applied exactly once.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	default:
		return 1
	}
}

// combineConfidence takes the weaker of two tiers.
func combineConfidence(a, b Confidence) Confidence {
	if b.rank() < a.rank() {
		return b
	}
	return a
}

// capConfidence caps a tier at a ceiling.
func capConfidence(c, ceiling Confidence) Confidence {
	return combineConfidence(c, ceiling)
}

// ActionType enumerates the closed set of simulatable campaign changes.
type ActionType string

const (
	ActionPause          ActionType = "pause"
	ActionEnable         ActionType = "enable"
	ActionBudgetChange   ActionType = "budget_change"
	ActionReallocate     ActionType = "reallocate_budget"
	ActionAudienceChange ActionType = "audience_change"
	ActionBidChange      ActionType = "bid_change"
	ActionScheduleChange ActionType = "schedule_change"
)

// ParseAction maps a user-supplied string onto a known action type.
func ParseAction(s string) (ActionType, bool) {
	switch ActionType(s) {
	case ActionPause, ActionEnable, ActionBudgetChange, ActionReallocate,
		ActionAudienceChange, ActionBidChange, ActionScheduleChange:
		return ActionType(s), true
	}
	return "", false
}

// ActionParams carries the per-action parameters of a Request. Only the
// fields relevant to the requested action are consulted.
type ActionParams struct {
	BudgetChangePct float64 `json:"budget_change_percent,omitempty"`
	AmountCents     int64   `json:"amount_cents,omitempty"`
	AudienceAction  string  `json:"audience_action,omitempty"`
	ReachChangePct  float64 `json:"reach_change_percent,omitempty"`
	BidChangePct    float64 `json:"bid_change_percent,omitempty"`
	BidStrategy     string  `json:"bid_strategy,omitempty"`
	AddHours        []int   `json:"add_hours,omitempty"`
	RemoveHours     []int   `json:"remove_hours,omitempty"`
}

// Request identifies one simulation to run. TargetRef is an opaque
// reference: an internal ID, an exact name, or a name fragment.
type Request struct {
	Action       ActionType          `json:"action"`
	TargetRef    string              `json:"target"`
	SecondaryRef string              `json:"to,omitempty"`
	Level        metrics.EntityLevel `json:"level"`
	LookbackDays int                 `json:"lookback_days,omitempty"`
	Params       ActionParams        `json:"params"`
}

// EntityState is the target entity's standalone view inside the portfolio.
// EfficiencyVsAverage is positive when the entity converts cheaper than the
// blended average.
type EntityState struct {
	CACCents            float64 `json:"cac_cents"`
	EfficiencyVsAverage float64 `json:"efficiency_vs_average"`
}

// PortfolioState aggregates all entities at one level over the window.
type PortfolioState struct {
	TotalSpendCents  int64       `json:"total_spend_cents"`
	TotalConversions float64     `json:"total_conversions"`
	BlendedCACCents  float64     `json:"blended_cac_cents"`
	Entity           EntityState `json:"entity"`
}

// SimulatedState is the projected portfolio after the action. Percent
// changes are relative to the current PortfolioState.
type SimulatedState struct {
	TotalSpendCents     float64 `json:"total_spend_cents"`
	TotalConversions    float64 `json:"total_conversions"`
	BlendedCACCents     float64 `json:"blended_cac_cents"`
	SpendChangePct      float64 `json:"spend_change_percent"`
	ConversionChangePct float64 `json:"conversion_change_percent"`
	CACChangePct        float64 `json:"cac_change_percent"`
}

// Model holds fitted or assumed power-law parameters for
// conversions = k * spend^alpha. Alpha is always within [0.3, 1.0].
type Model struct {
	K             float64 `json:"k"`
	Alpha         float64 `json:"alpha"`
	RSquared      float64 `json:"r_squared"`
	DataPoints    int     `json:"data_points"`
	Extrapolating bool    `json:"extrapolating,omitempty"`
}

// Result is the full output envelope of one simulation. Success=false is a
// valid, non-exceptional outcome: the engine answers "cannot simulate
// confidently" with a value, never an error.
type Result struct {
	Success         bool            `json:"success"`
	Action          ActionType      `json:"action,omitempty"`
	EntityID        string          `json:"entity_id,omitempty"`
	EntityName      string          `json:"entity_name,omitempty"`
	CurrentState    *PortfolioState `json:"current_state,omitempty"`
	SimulatedState  *SimulatedState `json:"simulated_state,omitempty"`
	Confidence      Confidence      `json:"confidence"`
	Assumptions     []string        `json:"assumptions,omitempty"`
	MathExplanation string          `json:"math_explanation"`
	Model           *Model          `json:"diminishing_returns_model,omitempty"`
}
