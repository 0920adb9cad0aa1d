package analysis

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action is the tradeable conclusion of a run.
type Action string

const (
	ActionLongYes Action = "LONG_YES"
	ActionLongNo  Action = "LONG_NO"
	ActionNoTrade Action = "NO_TRADE"
)

func (a Action) String() string {
	return string(a)
}

// LiquidityRisk grades how hard the recommended position is to enter and exit.
type LiquidityRisk string

const (
	LiquidityRiskLow    LiquidityRisk = "low"
	LiquidityRiskMedium LiquidityRisk = "medium"
	LiquidityRiskHigh   LiquidityRisk = "high"
)

// Zone is a closed price interval [Min, Max] in probability space.
type Zone struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Explanation is the human-readable rationale attached to a recommendation.
type Explanation struct {
	Summary          string   `json:"summary"`
	CoreThesis       string   `json:"core_thesis"`
	Catalysts        []string `json:"catalysts,omitempty"`
	FailureScenarios []string `json:"failure_scenarios,omitempty"`
	UncertaintyNote  string   `json:"uncertainty_note,omitempty"`
}

// RecommendationMetadata carries the quantitative context the action was
// derived from, for downstream consumers and audits.
type RecommendationMetadata struct {
	ConsensusProbability float64 `json:"consensus_probability"`
	MarketProbability    float64 `json:"market_probability"`
	Edge                 float64 `json:"edge"`
	ConfidenceBand       Band    `json:"confidence_band"`
}

// TradeRecommendation is the terminal artifact of a run, immutable once
// produced. ExpectedValue is dollars of expected profit per $100 notional
// at the entry price.
type TradeRecommendation struct {
	Action         Action                 `json:"action"`
	EntryZone      Zone                   `json:"entry_zone"`
	TargetZone     Zone                   `json:"target_zone"`
	ExpectedValue  decimal.Decimal        `json:"expected_value"`
	WinProbability float64                `json:"win_probability"`
	LiquidityRisk  LiquidityRisk          `json:"liquidity_risk"`
	Explanation    Explanation            `json:"explanation"`
	Metadata       RecommendationMetadata `json:"metadata"`
	GeneratedAt    time.Time              `json:"generated_at"`
}
