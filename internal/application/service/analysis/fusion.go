package analysis

import (
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"main/internal/config"
	domain "main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

// ContextAdjuster scales a category weight for the market being analyzed.
// It receives the base weight already resolved from configuration and
// returns the effective weight used in fusion.
type ContextAdjuster func(category string, weight float64, briefing market.BriefingDocument) float64

// SignalContribution is one signal's share of the fused score, kept for the
// audit trail and the thesis stage.
type SignalContribution struct {
	Agent           string           `json:"agent"`
	Category        string           `json:"category"`
	Direction       domain.Direction `json:"direction"`
	Confidence      float64          `json:"confidence"`
	FairProbability float64          `json:"fair_probability"`
	BaseWeight      float64          `json:"base_weight"`
	EffectiveWeight float64          `json:"effective_weight"`
	Score           float64          `json:"score"`
}

// FusionResult is the weighted directional summary of one run's signals.
type FusionResult struct {
	YesScore         float64              `json:"yes_score"`
	NoScore          float64              `json:"no_score"`
	AlignmentApplied float64              `json:"alignment_applied"`
	HighConflict     bool                 `json:"high_conflict"`
	WeightedFairProb float64              `json:"weighted_fair_prob"`
	Contributions    []SignalContribution `json:"contributions"`
	YesCategories    int                  `json:"yes_categories"`
	NoCategories     int                  `json:"no_categories"`
}

// Leader reports the direction with the higher fused score, or NEUTRAL on a tie.
func (r *FusionResult) Leader() domain.Direction {
	switch {
	case r.YesScore > r.NoScore:
		return domain.DirectionYes
	case r.NoScore > r.YesScore:
		return domain.DirectionNo
	default:
		return domain.DirectionNeutral
	}
}

// FusionEngine converts raw agent signals into weighted directional scores.
type FusionEngine struct {
	cfg    config.FusionConfig
	adjust ContextAdjuster
	logger *logrus.Logger
}

func NewFusionEngine(cfg config.FusionConfig, logger *logrus.Logger) *FusionEngine {
	e := &FusionEngine{cfg: cfg, logger: logger}
	if cfg.ContextAdjustments {
		e.adjust = defaultContextAdjuster
	}
	return e
}

// UseContextAdjuster swaps the pluggable market-context adjustment. Passing
// nil disables adjustments entirely.
func (e *FusionEngine) UseContextAdjuster(fn ContextAdjuster) {
	e.adjust = fn
}

// Fuse computes per-direction weighted scores, the alignment bonus, and the
// conflict flag for one run's signals.
func (e *FusionEngine) Fuse(briefing market.BriefingDocument, signals []domain.AgentSignal) *FusionResult {
	res := &FusionResult{Contributions: make([]SignalContribution, 0, len(signals))}

	categoryNet := make(map[string]float64)
	fairs := make([]float64, 0, len(signals))
	weights := make([]float64, 0, len(signals))

	for _, s := range signals {
		base := e.baseWeight(s.Category)
		effective := base
		if e.adjust != nil {
			effective = e.adjust(s.Category, base, briefing)
		}
		score := s.Confidence * effective

		c := SignalContribution{
			Agent:           s.AgentName,
			Category:        s.Category,
			Direction:       s.Direction,
			Confidence:      s.Confidence,
			FairProbability: s.FairProbability,
			BaseWeight:      base,
			EffectiveWeight: effective,
			Score:           score,
		}
		res.Contributions = append(res.Contributions, c)

		switch s.Direction {
		case domain.DirectionYes:
			res.YesScore += score
			categoryNet[s.Category] += score
			fairs = append(fairs, s.FairProbability)
			weights = append(weights, score)
		case domain.DirectionNo:
			res.NoScore += score
			categoryNet[s.Category] -= score
			fairs = append(fairs, s.FairProbability)
			weights = append(weights, score)
		default:
			// NEUTRAL stays a contributor but moves no score.
		}
	}

	for _, net := range categoryNet {
		switch {
		case net > 0:
			res.YesCategories++
		case net < 0:
			res.NoCategories++
		}
	}

	totalCategories := len(categoryNet)
	if bonusSide, count := alignmentSide(res.YesCategories, res.NoCategories, totalCategories); bonusSide != domain.DirectionNeutral {
		bonus := e.cfg.AlignmentBonus * float64(count-1)
		res.AlignmentApplied = bonus
		if bonusSide == domain.DirectionYes {
			res.YesScore += bonus
		} else {
			res.NoScore += bonus
		}
	}

	if len(fairs) > 0 {
		totalWeight := 0.0
		for _, w := range weights {
			totalWeight += w
		}
		if totalWeight > 0 {
			res.WeightedFairProb = stat.Mean(fairs, weights)
		} else {
			// Every directional score is zero (zero confidence or a zero
			// category weight); fall back to the unweighted mean instead of
			// dividing by the zero weight sum.
			res.WeightedFairProb = stat.Mean(fairs, nil)
		}
	}

	total := res.YesScore + res.NoScore
	if total <= 0 {
		res.HighConflict = true
	} else {
		gap := (res.YesScore - res.NoScore) / total
		if gap < 0 {
			gap = -gap
		}
		res.HighConflict = gap < e.cfg.ConflictThreshold
	}

	e.logger.WithFields(logrus.Fields{
		"market_id":     briefing.MarketID,
		"yes_score":     res.YesScore,
		"no_score":      res.NoScore,
		"high_conflict": res.HighConflict,
	}).Debug("signals fused")
	return res
}

func (e *FusionEngine) baseWeight(category string) float64 {
	if w, ok := e.cfg.BaseWeights[category]; ok {
		return w
	}
	return 1.0
}

// alignmentSide reports which direction earns the alignment bonus: the one
// backed by a strict majority of the distinct categories present.
func alignmentSide(yesCats, noCats, total int) (domain.Direction, int) {
	if total == 0 {
		return domain.DirectionNeutral, 0
	}
	half := float64(total) / 2
	if float64(yesCats) > half && yesCats > 1 {
		return domain.DirectionYes, yesCats
	}
	if float64(noCats) > half && noCats > 1 {
		return domain.DirectionNo, noCats
	}
	return domain.DirectionNeutral, 0
}

// defaultContextAdjuster is the built-in market-context rule set: fast
// regimes favor news flow over resting-order structure, near expiry the
// order book is the freshest read, and sleepy markets mute crowd chatter.
func defaultContextAdjuster(category string, weight float64, briefing market.BriefingDocument) float64 {
	switch briefing.Volatility {
	case market.VolatilityHigh:
		switch category {
		case domain.CategoryBreakingNews:
			weight *= 1.25
		case domain.CategoryMicrostructure:
			weight *= 0.85
		}
	case market.VolatilityLow:
		if category == domain.CategorySentiment {
			weight *= 0.9
		}
	}

	if briefing.HoursToExpiry(time.Now()) < 48 {
		switch category {
		case domain.CategoryMicrostructure:
			weight *= 1.2
		case domain.CategoryPolling:
			weight *= 0.8
		}
	}
	return weight
}
