package analysis

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	domain "main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

const maxThesisPoints = 4

// ThesisBuilder constructs the Bull and Bear theses from the fused signal
// set. Both sides are always argued: when no agent backs a side, that side
// becomes the devil's-advocate case resting on the market's own pricing and
// the majority's conceded risks, so cross-examination stays meaningful.
type ThesisBuilder struct {
	logger *logrus.Logger
}

func NewThesisBuilder(logger *logrus.Logger) *ThesisBuilder {
	return &ThesisBuilder{logger: logger}
}

// Build returns the Bull (YES) thesis and the Bear (NO) thesis. It fails
// with INSUFFICIENT_DATA when no directional signal exists at all: with
// every agent neutral there is nothing to argue on either side.
func (tb *ThesisBuilder) Build(briefing market.BriefingDocument, signals []domain.AgentSignal) (*domain.Thesis, *domain.Thesis, error) {
	yesSide := filterByDirection(signals, domain.DirectionYes)
	noSide := filterByDirection(signals, domain.DirectionNo)

	if len(yesSide) == 0 && len(noSide) == 0 {
		return nil, nil, domain.NewRecommendationError(
			domain.RecommendationInsufficientData,
			domain.StageThesis,
			fmt.Errorf("no directional signals among %d contributors", len(signals)),
		)
	}

	bull := tb.buildSide(briefing, domain.DirectionYes, yesSide, noSide)
	bear := tb.buildSide(briefing, domain.DirectionNo, noSide, yesSide)
	return bull, bear, nil
}

func (tb *ThesisBuilder) buildSide(briefing market.BriefingDocument, dir domain.Direction, backing, opposing []domain.AgentSignal) *domain.Thesis {
	t := &domain.Thesis{
		Direction:         dir,
		MarketProbability: briefing.MarketProbability,
		SupportingAgents:  signalNames(backing),
	}

	if len(backing) == 0 {
		// Devil's-advocate side: its fair value is the market's own pricing,
		// its drivers are the risks the backing side concedes.
		t.FairProbability = briefing.MarketProbability
		t.Catalysts = collectStrings(opposing, maxThesisPoints, func(s domain.AgentSignal) []string { return s.RiskFactors })
		t.FailureConditions = collectStrings(opposing, maxThesisPoints, func(s domain.AgentSignal) []string { return s.KeyDrivers })
		t.CoreArgument = fmt.Sprintf(
			"no agent argues %s outright; the counter-case rests on the market pricing %.2f and %d conceded risk factors",
			dir, briefing.MarketProbability, len(t.Catalysts),
		)
		tb.logger.WithFields(logrus.Fields{
			"market_id": briefing.MarketID,
			"side":      string(dir),
		}).Debug("built devil's-advocate thesis")
	} else {
		fairs := make([]float64, 0, len(backing))
		confs := make([]float64, 0, len(backing))
		totalConf := 0.0
		strongest := backing[0]
		for _, s := range backing {
			fairs = append(fairs, s.FairProbability)
			confs = append(confs, s.Confidence)
			totalConf += s.Confidence
			if s.Confidence > strongest.Confidence {
				strongest = s
			}
		}
		// A side backed only by zero-confidence voices still needs a finite
		// fair value; weight evenly rather than divide by zero.
		if totalConf == 0 {
			confs = nil
		}
		t.FairProbability = stat.Mean(fairs, confs)
		t.Catalysts = collectStrings(backing, maxThesisPoints, func(s domain.AgentSignal) []string { return s.KeyDrivers })
		failures := collectStrings(opposing, maxThesisPoints, func(s domain.AgentSignal) []string { return s.KeyDrivers })
		failures = append(failures, collectStrings(backing, maxThesisPoints, func(s domain.AgentSignal) []string { return s.RiskFactors })...)
		t.FailureConditions = dedupeCapped(failures, maxThesisPoints)
		t.CoreArgument = fmt.Sprintf(
			"%d of %d directional signals back %s at fair %.2f against market %.2f; strongest voice is %s at %.2f confidence",
			len(backing), len(backing)+len(opposing), dir, t.FairProbability, briefing.MarketProbability, strongest.AgentName, strongest.Confidence,
		)
	}

	t.Edge = abs(t.FairProbability - briefing.MarketProbability)
	return t
}

func filterByDirection(signals []domain.AgentSignal, dir domain.Direction) []domain.AgentSignal {
	out := make([]domain.AgentSignal, 0, len(signals))
	for _, s := range signals {
		if s.Direction == dir {
			out = append(out, s)
		}
	}
	return out
}

func signalNames(signals []domain.AgentSignal) []string {
	out := make([]string, 0, len(signals))
	for _, s := range signals {
		out = append(out, s.AgentName)
	}
	return out
}

func collectStrings(signals []domain.AgentSignal, limit int, pick func(domain.AgentSignal) []string) []string {
	var all []string
	for _, s := range signals {
		all = append(all, pick(s)...)
	}
	return dedupeCapped(all, limit)
}

func dedupeCapped(in []string, limit int) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, limit)
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
