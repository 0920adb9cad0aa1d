package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"main/internal/config"
	domain "main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

const (
	entryZoneHalfWidth  = 0.02
	targetZoneHalfWidth = 0.03
	zoneFloor           = 0.01
	zoneCeil            = 0.99
)

// RecommendationBuilder converts the consensus and the market price into the
// terminal trade recommendation.
type RecommendationBuilder struct {
	cfg    config.ConsensusConfig
	logger *logrus.Logger
}

func NewRecommendationBuilder(cfg config.ConsensusConfig, logger *logrus.Logger) *RecommendationBuilder {
	return &RecommendationBuilder{cfg: cfg, logger: logger}
}

// Build always returns a complete recommendation. When the edge is below the
// configured threshold it returns a NO_TRADE recommendation together with a
// NO_EDGE outcome; NO_EDGE is a normal terminal result, not a failure.
func (rb *RecommendationBuilder) Build(briefing market.BriefingDocument, consensus *domain.ConsensusProbability, bull, bear *domain.Thesis, debate *domain.DebateRecord) (*domain.TradeRecommendation, *domain.RecommendationError) {
	edge := abs(consensus.Consensus - briefing.MarketProbability)
	meta := domain.RecommendationMetadata{
		ConsensusProbability: consensus.Consensus,
		MarketProbability:    briefing.MarketProbability,
		Edge:                 edge,
		ConfidenceBand:       consensus.Band,
	}

	winning := bull
	if consensus.Consensus < briefing.MarketProbability {
		winning = bear
	}

	explanation := domain.Explanation{
		CoreThesis:       winning.CoreArgument,
		Catalysts:        winning.Catalysts,
		FailureScenarios: winning.FailureConditions,
	}
	if consensus.DisagreementIndex > rb.cfg.HighDisagreementThreshold {
		explanation.UncertaintyNote = fmt.Sprintf(
			"agent disagreement index %.2f exceeds %.2f; treat the consensus with caution",
			consensus.DisagreementIndex, rb.cfg.HighDisagreementThreshold,
		)
	}
	if debate != nil && len(debate.KeyDisagreements) > 0 {
		explanation.FailureScenarios = dedupeCapped(
			append(append([]string{}, explanation.FailureScenarios...), debate.KeyDisagreements...),
			maxThesisPoints,
		)
	}

	rec := &domain.TradeRecommendation{
		LiquidityRisk: liquidityRiskFromScore(briefing.LiquidityScore),
		Metadata:      meta,
		GeneratedAt:   time.Now(),
		ExpectedValue: decimal.Zero,
	}

	if edge < rb.cfg.MinEdgeThreshold {
		rec.Action = domain.ActionNoTrade
		rec.WinProbability = maxf(consensus.Consensus, 1-consensus.Consensus)
		explanation.Summary = fmt.Sprintf(
			"consensus %.2f sits %.3f from the market's %.2f, under the %.3f edge threshold; stand aside",
			consensus.Consensus, edge, briefing.MarketProbability, rb.cfg.MinEdgeThreshold,
		)
		rec.Explanation = explanation
		rb.logger.WithFields(logrus.Fields{
			"market_id": briefing.MarketID,
			"edge":      edge,
		}).Info("no tradable edge")
		return rec, domain.NewRecommendationError(
			domain.RecommendationNoEdge,
			domain.StageRecommendation,
			fmt.Errorf("edge %.4f below threshold %.4f", edge, rb.cfg.MinEdgeThreshold),
		)
	}

	if consensus.Consensus > briefing.MarketProbability {
		rec.Action = domain.ActionLongYes
		rec.WinProbability = consensus.Consensus
		rec.ExpectedValue = expectedValuePer100(consensus.Consensus, briefing.MarketProbability)
	} else {
		rec.Action = domain.ActionLongNo
		rec.WinProbability = 1 - consensus.Consensus
		rec.ExpectedValue = expectedValuePer100(1-consensus.Consensus, 1-briefing.MarketProbability)
	}

	rec.EntryZone = zoneAround(briefing.MarketProbability, entryZoneHalfWidth)
	rec.TargetZone = zoneAround(consensus.Consensus, targetZoneHalfWidth)

	explanation.Summary = fmt.Sprintf(
		"%s: consensus %.2f vs market %.2f gives a %.3f edge in the %s regime (%s liquidity risk)",
		rec.Action, consensus.Consensus, briefing.MarketProbability, edge,
		strings.ReplaceAll(consensus.Regime.String(), "-", " "), rec.LiquidityRisk,
	)
	rec.Explanation = explanation

	rb.logger.WithFields(logrus.Fields{
		"market_id": briefing.MarketID,
		"action":    string(rec.Action),
		"edge":      edge,
		"ev":        rec.ExpectedValue.String(),
	}).Info("recommendation generated")
	return rec, nil
}

// expectedValuePer100 prices $100 notional bought at price: the position
// pays out 100/price on a win and loses the stake otherwise.
func expectedValuePer100(winProb, price float64) decimal.Decimal {
	if price <= 0 {
		return decimal.Zero
	}
	gross := decimal.NewFromFloat(winProb).
		Div(decimal.NewFromFloat(price)).
		Sub(decimal.NewFromInt(1)).
		Mul(decimal.NewFromInt(100))
	return gross.Round(2)
}

func zoneAround(center, halfWidth float64) domain.Zone {
	return domain.Zone{
		Min: maxf(zoneFloor, center-halfWidth),
		Max: minf(zoneCeil, center+halfWidth),
	}
}

func liquidityRiskFromScore(score float64) domain.LiquidityRisk {
	switch {
	case score < 3:
		return domain.LiquidityRiskHigh
	case score < 7:
		return domain.LiquidityRiskMedium
	default:
		return domain.LiquidityRiskLow
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
