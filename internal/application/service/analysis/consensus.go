package analysis

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"main/internal/config"
	domain "main/internal/domain/entity/analysis"
)

const (
	// debateTiltSpan caps how far the combined fusion+debate score balance
	// can shift the consensus away from the weighted fair probability.
	debateTiltSpan = 0.06
	// tiltSmoothing keeps the tilt from saturating on small score sums.
	tiltSmoothing = 0.5
	// bandBase scales the confidence band half-width by total confidence.
	bandBase = 0.09
	// conflictBandFactor widens the band when fusion flagged high conflict.
	conflictBandFactor = 1.5
	// narrowBandWidth is the band width at or under which a low-disagreement
	// run qualifies as high-confidence.
	narrowBandWidth = 0.12
	// spreadScale normalizes the weighted fair-probability spread: 0.25 is
	// treated as full disagreement.
	spreadScale = 0.25
)

// ConsensusCalculator folds the fusion output and the debate record into the
// final probability estimate with its uncertainty quantification.
type ConsensusCalculator struct {
	cfg    config.ConsensusConfig
	min    int
	logger *logrus.Logger
}

// NewConsensusCalculator keeps minAgentsRequired for the defensive re-check
// of how many directional signals actually survived fusion.
func NewConsensusCalculator(cfg config.ConsensusConfig, minAgentsRequired int, logger *logrus.Logger) *ConsensusCalculator {
	return &ConsensusCalculator{cfg: cfg, min: minAgentsRequired, logger: logger}
}

// Calculate produces the ConsensusProbability for one run.
func (cc *ConsensusCalculator) Calculate(signals []domain.AgentSignal, fusion *FusionResult, debate *domain.DebateRecord) (*domain.ConsensusProbability, error) {
	directional := 0
	for _, s := range signals {
		if s.Direction != domain.DirectionNeutral {
			directional++
		}
	}
	if directional < cc.min {
		return nil, domain.NewRecommendationError(
			domain.RecommendationConsensusFailed,
			domain.StageConsensus,
			fmt.Errorf("%d directional signals survived fusion, need at least %d", directional, cc.min),
		)
	}

	consensus := cc.shiftedConsensus(signals, fusion, debate)
	if math.IsNaN(consensus) || math.IsInf(consensus, 0) {
		return nil, domain.NewRecommendationError(
			domain.RecommendationConsensusFailed,
			domain.StageConsensus,
			fmt.Errorf("consensus %v is not a finite probability", consensus),
		)
	}
	band := cc.confidenceBand(consensus, signals, fusion.HighConflict)
	index := cc.disagreementIndex(consensus, signals)

	out := &domain.ConsensusProbability{
		Consensus:          consensus,
		Band:               band,
		DisagreementIndex:  index,
		Regime:             cc.classifyRegime(index, band.Width()),
		ContributingAgents: signalNames(signals),
	}
	cc.logger.WithFields(logrus.Fields{
		"consensus":    out.Consensus,
		"band_width":   band.Width(),
		"disagreement": index,
		"regime":       string(out.Regime),
	}).Debug("consensus calculated")
	return out, nil
}

// shiftedConsensus starts from the fusion-weighted fair probability and
// shifts it toward the side with the higher combined fusion+debate score,
// never leaving the hull of the individual fair-probability estimates.
func (cc *ConsensusCalculator) shiftedConsensus(signals []domain.AgentSignal, fusion *FusionResult, debate *domain.DebateRecord) float64 {
	combinedYes := fusion.YesScore
	combinedNo := fusion.NoScore
	if debate != nil {
		combinedYes += debate.BullScore
		combinedNo += debate.BearScore
	}
	combinedYes = math.Max(combinedYes, 0)
	combinedNo = math.Max(combinedNo, 0)

	tilt := 0.0
	if combinedYes+combinedNo > 0 {
		tilt = (combinedYes - combinedNo) / (combinedYes + combinedNo + tiltSmoothing)
	}

	consensus := fusion.WeightedFairProb + tilt*debateTiltSpan

	lo, hi := fairProbabilityHull(signals)
	consensus = math.Max(lo, math.Min(hi, consensus))
	return clamp01(consensus)
}

func (cc *ConsensusCalculator) confidenceBand(consensus float64, signals []domain.AgentSignal, highConflict bool) domain.Band {
	totalConf := 0.0
	for _, s := range signals {
		totalConf += s.Confidence
	}
	halfWidth := bandBase
	if totalConf > 0 {
		halfWidth = bandBase / math.Sqrt(totalConf)
	}
	if highConflict {
		halfWidth *= conflictBandFactor
	}
	return domain.Band{
		Lower: clamp01(consensus - halfWidth),
		Upper: clamp01(consensus + halfWidth),
	}
}

// disagreementIndex blends the confidence-weighted spread of fair
// probabilities around the consensus with a penalty for low confidence
// overall: it grows when agents disagree or when nobody is sure.
func (cc *ConsensusCalculator) disagreementIndex(consensus float64, signals []domain.AgentSignal) float64 {
	if len(signals) == 0 {
		return 1
	}
	devs := make([]float64, 0, len(signals))
	confs := make([]float64, 0, len(signals))
	totalConf := 0.0
	for _, s := range signals {
		devs = append(devs, s.FairProbability-consensus)
		confs = append(confs, s.Confidence)
		totalConf += s.Confidence
	}
	// Zero total confidence would make the weighted moment divide by zero;
	// weight the spread evenly instead.
	weights := confs
	if totalConf == 0 {
		weights = nil
	}
	variance := stat.MomentAbout(2, devs, 0, weights)
	spread := math.Sqrt(variance)

	meanConf := stat.Mean(confs, nil)
	return clamp01(0.85*(spread/spreadScale) + 0.30*(1-meanConf))
}

func (cc *ConsensusCalculator) classifyRegime(index, bandWidth float64) domain.Regime {
	switch {
	case index > cc.cfg.HighDisagreementThreshold:
		return domain.RegimeHighUncertainty
	case index < cc.cfg.HighDisagreementThreshold && bandWidth <= narrowBandWidth:
		return domain.RegimeHighConfidence
	default:
		return domain.RegimeModerateConfidence
	}
}

func fairProbabilityHull(signals []domain.AgentSignal) (float64, float64) {
	lo, hi := 1.0, 0.0
	found := false
	for _, s := range signals {
		if s.Direction == domain.DirectionNeutral {
			continue
		}
		found = true
		lo = math.Min(lo, s.FairProbability)
		hi = math.Max(hi, s.FairProbability)
	}
	if !found {
		return 0, 1
	}
	return lo, hi
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
