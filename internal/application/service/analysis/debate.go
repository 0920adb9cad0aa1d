package analysis

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	domain "main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

// Margins that split survived / weakened / refuted, and the weakened-score
// offset keeping weakened outcomes strictly inside (-1, 0).
const (
	surviveMargin  = 0.15
	refuteMargin   = -0.15
	weakenedOffset = -0.25
)

var debateBattery = []domain.DebateTestType{
	domain.DebateTestEvidence,
	domain.DebateTestCausality,
	domain.DebateTestTiming,
	domain.DebateTestLiquidity,
	domain.DebateTestTailRisk,
}

// DebateEngine cross-examines both theses with a fixed adversarial battery.
// It never fails fatally: with nothing to examine it returns zero scores.
type DebateEngine struct {
	logger *logrus.Logger
}

func NewDebateEngine(logger *logrus.Logger) *DebateEngine {
	return &DebateEngine{logger: logger}
}

// sideCase bundles everything one side brings to the debate table.
type sideCase struct {
	thesis     *domain.Thesis
	signals    []domain.AgentSignal
	meanConf   float64
	drivers    int
	riskDepth  float64
	claimDepth float64
}

// CrossExamine runs the full battery against the bull thesis, then the bear
// thesis, and aggregates per-side scores and the key disagreements.
func (de *DebateEngine) CrossExamine(briefing market.BriefingDocument, bull, bear *domain.Thesis, signals []domain.AgentSignal) *domain.DebateRecord {
	rec := &domain.DebateRecord{}
	if bull == nil || bear == nil {
		return rec
	}

	bullCase := buildSideCase(bull, filterByDirection(signals, domain.DirectionYes))
	bearCase := buildSideCase(bear, filterByDirection(signals, domain.DirectionNo))

	for _, side := range []struct {
		claim, rebut sideCase
	}{
		{claim: bullCase, rebut: bearCase},
		{claim: bearCase, rebut: bullCase},
	} {
		for _, testType := range debateBattery {
			t := de.runTest(briefing, testType, side.claim, side.rebut)
			rec.Tests = append(rec.Tests, t)
			if side.claim.thesis.Direction == domain.DirectionYes {
				rec.BullScore += t.Score
			} else {
				rec.BearScore += t.Score
			}
			if t.Outcome != domain.OutcomeSurvived {
				rec.KeyDisagreements = append(rec.KeyDisagreements, t.Challenge)
			}
		}
	}

	de.logger.WithFields(logrus.Fields{
		"market_id":  briefing.MarketID,
		"bull_score": rec.BullScore,
		"bear_score": rec.BearScore,
		"tests":      len(rec.Tests),
	}).Debug("cross-examination complete")
	return rec
}

func buildSideCase(thesis *domain.Thesis, signals []domain.AgentSignal) sideCase {
	confs := make([]float64, 0, len(signals))
	drivers, risks := 0, 0
	for _, s := range signals {
		confs = append(confs, s.Confidence)
		drivers += len(s.KeyDrivers)
		risks += len(s.RiskFactors)
	}
	mean, err := stats.Mean(confs)
	if err != nil {
		mean = 0
	}
	return sideCase{
		thesis:     thesis,
		signals:    signals,
		meanConf:   mean,
		drivers:    drivers,
		riskDepth:  minf(1, float64(risks)/4),
		claimDepth: minf(1, float64(drivers)/4),
	}
}

// runTest computes claim strength vs rebuttal strength for one test type and
// classifies the margin.
func (de *DebateEngine) runTest(briefing market.BriefingDocument, testType domain.DebateTestType, claim, rebut sideCase) domain.DebateTest {
	var s, r float64
	var claimText, challengeText string

	switch testType {
	case domain.DebateTestEvidence:
		s = claim.meanConf
		r = rebut.meanConf
		claimText = fmt.Sprintf("%s case is backed by %d signals at %.2f mean confidence", claim.thesis.Direction, len(claim.signals), claim.meanConf)
		challengeText = fmt.Sprintf("opposing side answers with %d signals at %.2f mean confidence", len(rebut.signals), rebut.meanConf)

	case domain.DebateTestCausality:
		s = claim.meanConf * claim.claimDepth
		r = rebut.meanConf * rebut.claimDepth
		claimText = fmt.Sprintf("%s catalysts trace to %d identified drivers", claim.thesis.Direction, claim.drivers)
		challengeText = fmt.Sprintf("opposing side disputes the causal chain with %d drivers of its own", rebut.drivers)

	case domain.DebateTestTiming:
		hours := briefing.HoursToExpiry(time.Now())
		if hours < 24 {
			s = claim.meanConf * 0.6
			r = rebut.meanConf
			challengeText = fmt.Sprintf("only %.0f hours to expiry leave no room for the %s catalysts to land", hours, claim.thesis.Direction)
		} else {
			s = claim.meanConf
			r = rebut.meanConf * 0.7
			challengeText = fmt.Sprintf("%.0f hours to expiry give the opposing side time to be proven right", hours)
		}
		claimText = fmt.Sprintf("%s catalysts resolve before expiry", claim.thesis.Direction)

	case domain.DebateTestLiquidity:
		s = briefing.LiquidityScore / 10
		r = minf(1, briefing.BidAskSpread*20)
		claimText = fmt.Sprintf("market depth (score %.1f/10) can absorb the %s position", briefing.LiquidityScore, claim.thesis.Direction)
		challengeText = fmt.Sprintf("bid-ask spread of %.3f taxes entry and exit", briefing.BidAskSpread)

	case domain.DebateTestTailRisk:
		s = claim.meanConf * (1 - minf(1, float64(len(claim.thesis.FailureConditions))/6)/2)
		r = rebut.riskDepth * rebut.meanConf
		claimText = fmt.Sprintf("%s case survives its %d failure conditions", claim.thesis.Direction, len(claim.thesis.FailureConditions))
		challengeText = fmt.Sprintf("opposing side names tail scenarios the %s case does not price", claim.thesis.Direction)
	}

	test := domain.DebateTest{
		Type:      testType,
		Side:      claim.thesis.Direction,
		Claim:     claimText,
		Challenge: challengeText,
	}

	margin := s - r
	switch {
	case margin >= surviveMargin:
		test.Outcome = domain.OutcomeSurvived
		test.Score = minf(margin, 1)
	case margin <= refuteMargin:
		test.Outcome = domain.OutcomeRefuted
		test.Score = -1
	default:
		test.Outcome = domain.OutcomeWeakened
		test.Score = margin + weakenedOffset
	}
	return test
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
