package market

import (
	"fmt"
	"time"
)

// VolatilityRegime buckets recent price variance of a market.
type VolatilityRegime string

const (
	VolatilityLow    VolatilityRegime = "low"
	VolatilityMedium VolatilityRegime = "medium"
	VolatilityHigh   VolatilityRegime = "high"
)

func (vr VolatilityRegime) String() string {
	return string(vr)
}

func (vr VolatilityRegime) IsValid() bool {
	switch vr {
	case VolatilityLow, VolatilityMedium, VolatilityHigh:
		return true
	default:
		return false
	}
}

func NewVolatilityRegime(s string) (VolatilityRegime, error) {
	vr := VolatilityRegime(s)
	if !vr.IsValid() {
		return "", fmt.Errorf("invalid volatility regime: %s", s)
	}
	return vr, nil
}

// BriefingDocument is the immutable input record of one analysis run:
// a snapshot of a single prediction-market question and its trading context.
type BriefingDocument struct {
	MarketID           string           `json:"market_id"`
	ConditionID        string           `json:"condition_id"`
	EventType          string           `json:"event_type"`
	Question           string           `json:"question"`
	ResolutionCriteria string           `json:"resolution_criteria"`
	ExpiresAt          time.Time        `json:"expires_at"`
	MarketProbability  float64          `json:"market_probability"`
	LiquidityScore     float64          `json:"liquidity_score"`
	BidAskSpread       float64          `json:"bid_ask_spread"`
	Volatility         VolatilityRegime `json:"volatility"`
	Volume24h          float64          `json:"volume_24h"`
	Catalysts          []string         `json:"catalysts,omitempty"`
}

// Validate rejects briefings that cannot be analyzed. The caller decides how
// to surface the failure; the venue client wraps it as a validation error.
func (b BriefingDocument) Validate() error {
	if b.MarketID == "" {
		return fmt.Errorf("market id is empty")
	}
	if b.Question == "" {
		return fmt.Errorf("market %s: question is empty", b.MarketID)
	}
	if b.MarketProbability < 0 || b.MarketProbability > 1 {
		return fmt.Errorf("market %s: market probability %.4f outside [0,1]", b.MarketID, b.MarketProbability)
	}
	if b.LiquidityScore < 0 || b.LiquidityScore > 10 {
		return fmt.Errorf("market %s: liquidity score %.2f outside [0,10]", b.MarketID, b.LiquidityScore)
	}
	if b.BidAskSpread < 0 || b.BidAskSpread > 1 {
		return fmt.Errorf("market %s: bid-ask spread %.4f outside [0,1]", b.MarketID, b.BidAskSpread)
	}
	if !b.Volatility.IsValid() {
		return fmt.Errorf("market %s: invalid volatility regime %q", b.MarketID, string(b.Volatility))
	}
	if b.ExpiresAt.IsZero() || !b.ExpiresAt.After(time.Now()) {
		return fmt.Errorf("market %s: expiry %s is not in the future", b.MarketID, b.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// HoursToExpiry reports how long the market stays open from the given moment.
func (b BriefingDocument) HoursToExpiry(now time.Time) float64 {
	return b.ExpiresAt.Sub(now).Hours()
}
