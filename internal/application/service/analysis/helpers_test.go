package analysis

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"main/internal/config"
	domain "main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *config.Config {
	return &config.Config{
		Agents: config.AgentsConfig{
			TimeoutMs:         500,
			MinAgentsRequired: 2,
		},
		SignalFusion: config.FusionConfig{
			BaseWeights: map[string]float64{
				domain.CategoryMicrostructure: 1.0,
				domain.CategoryBreakingNews:   1.0,
				domain.CategoryPolling:        1.0,
				domain.CategoryFundamentals:   1.0,
				domain.CategorySentiment:      1.0,
			},
			ConflictThreshold:  0.2,
			AlignmentBonus:     0.1,
			ContextAdjustments: false,
		},
		Consensus: config.ConsensusConfig{
			MinEdgeThreshold:          0.05,
			HighDisagreementThreshold: 0.6,
		},
		Pipeline: config.PipelineConfig{MaxSteps: 16},
	}
}

func testBriefing() market.BriefingDocument {
	return market.BriefingDocument{
		MarketID:           "mkt-test",
		ConditionID:        "cond-test",
		EventType:          "politics",
		Question:           "Will the measure pass?",
		ResolutionCriteria: "Resolves YES if the measure is enacted before expiry.",
		ExpiresAt:          time.Now().Add(30 * 24 * time.Hour),
		MarketProbability:  0.50,
		LiquidityScore:     8,
		BidAskSpread:       0.02,
		Volatility:         market.VolatilityMedium,
		Volume24h:          250000,
	}
}

func newTestSignal(name, category string, dir domain.Direction, confidence, fair float64, drivers, risks []string) domain.AgentSignal {
	return domain.AgentSignal{
		AgentName:       name,
		Category:        category,
		Timestamp:       time.Now(),
		Confidence:      confidence,
		Direction:       dir,
		FairProbability: fair,
		KeyDrivers:      drivers,
		RiskFactors:     risks,
	}
}

// scenarioSignals is the canonical three-agent setup: two YES voices against
// one NO voice on a 50c market.
func scenarioSignals() []domain.AgentSignal {
	return []domain.AgentSignal{
		newTestSignal("alpha", domain.CategoryMicrostructure, domain.DirectionYes, 0.8, 0.65,
			[]string{"order flow tilts yes", "book depth one-sided"},
			[]string{"thin book overnight"}),
		newTestSignal("bravo", domain.CategoryBreakingNews, domain.DirectionYes, 0.7, 0.70,
			[]string{"late headline favors yes", "confirming second source"},
			[]string{"headline momentum may fade"}),
		newTestSignal("charlie", domain.CategoryPolling, domain.DirectionNo, 0.6, 0.40,
			[]string{"polling average sits below market"},
			[]string{"polls lag late shifts"}),
	}
}

// stubAgent is a scripted agent capability for executor and orchestrator tests.
type stubAgent struct {
	name     string
	category string
	signal   domain.AgentSignal
	err      error
	delay    time.Duration
	panicMsg string
}

func (a *stubAgent) Name() string     { return a.name }
func (a *stubAgent) Category() string { return a.category }

func (a *stubAgent) Run(ctx context.Context, _ market.BriefingDocument) (domain.AgentSignal, error) {
	if a.panicMsg != "" {
		panic(a.panicMsg)
	}
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return domain.AgentSignal{}, ctx.Err()
		}
	}
	if a.err != nil {
		return domain.AgentSignal{}, a.err
	}
	return a.signal, nil
}

func agentFor(s domain.AgentSignal) *stubAgent {
	return &stubAgent{name: s.AgentName, category: s.Category, signal: s}
}

func scenarioAgents() []*stubAgent {
	signals := scenarioSignals()
	agents := make([]*stubAgent, 0, len(signals))
	for _, s := range signals {
		agents = append(agents, agentFor(s))
	}
	return agents
}
