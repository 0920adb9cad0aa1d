package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

func briefingFixture() market.BriefingDocument {
	return market.BriefingDocument{
		MarketID:           "mkt-agents",
		ConditionID:        "cond-agents",
		EventType:          "politics",
		Question:           "Will the incumbent win re-election?",
		ResolutionCriteria: "Resolves YES if the incumbent is certified the winner of the general election.",
		ExpiresAt:          time.Now().Add(45 * 24 * time.Hour),
		MarketProbability:  0.62,
		LiquidityScore:     7,
		BidAskSpread:       0.015,
		Volatility:         market.VolatilityMedium,
		Volume24h:          120000,
		Catalysts:          []string{"challenger confirms debate appearance", "court rejects ballot challenge"},
	}
}

func TestRoster(t *testing.T) {
	t.Run("order follows request", func(t *testing.T) {
		roster := Roster([]string{"polling_intel", "order_flow"})
		require.Len(t, roster, 2)
		assert.Equal(t, "polling_intel", roster[0].Name())
		assert.Equal(t, "order_flow", roster[1].Name())
	})

	t.Run("unknown names are skipped", func(t *testing.T) {
		roster := Roster([]string{"order_flow", "oracle", "crowd_pulse"})
		require.Len(t, roster, 2)
		assert.Equal(t, "order_flow", roster[0].Name())
		assert.Equal(t, "crowd_pulse", roster[1].Name())
	})

	t.Run("full roster", func(t *testing.T) {
		roster := Roster([]string{"order_flow", "headline_catalyst", "polling_intel", "event_model", "crowd_pulse"})
		assert.Len(t, roster, 5)
	})
}

// TestAllAgentsEmitValidSignals runs every built-in agent over a spread of
// briefings and checks the contract: a signal that passes validation, tagged
// with the agent's own name and category.
func TestAllAgentsEmitValidSignals(t *testing.T) {
	briefings := map[string]market.BriefingDocument{
		"baseline": briefingFixture(),
	}

	thin := briefingFixture()
	thin.LiquidityScore = 1.5
	thin.BidAskSpread = 0.09
	thin.Volume24h = 900
	briefings["thin book"] = thin

	hot := briefingFixture()
	hot.Volatility = market.VolatilityHigh
	hot.Volume24h = 800000
	hot.MarketProbability = 0.88
	briefings["crowded high vol"] = hot

	sports := briefingFixture()
	sports.EventType = "sports"
	sports.Catalysts = nil
	briefings["non political no catalysts"] = sports

	vague := briefingFixture()
	vague.ResolutionCriteria = "Resolves per event."
	vague.ExpiresAt = time.Now().Add(18 * time.Hour)
	briefings["vague near expiry"] = vague

	roster := Roster([]string{"order_flow", "headline_catalyst", "polling_intel", "event_model", "crowd_pulse"})
	for label, briefing := range briefings {
		for _, ag := range roster {
			t.Run(label+"/"+ag.Name(), func(t *testing.T) {
				signal, err := ag.Run(context.Background(), briefing)
				require.NoError(t, err)
				require.NoError(t, signal.Validate())
				assert.Equal(t, ag.Name(), signal.AgentName)
				assert.Equal(t, ag.Category(), signal.Category)
				assert.NotEmpty(t, signal.KeyDrivers)
			})
		}
	}
}

func TestAgentsHonorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, ag := range Roster([]string{"order_flow", "headline_catalyst", "polling_intel", "event_model", "crowd_pulse"}) {
		_, err := ag.Run(ctx, briefingFixture())
		assert.ErrorIs(t, err, context.Canceled, ag.Name())
	}
}

func TestOrderFlowDiscountsThinMarkets(t *testing.T) {
	briefing := briefingFixture()
	briefing.MarketProbability = 0.80
	briefing.LiquidityScore = 1
	briefing.BidAskSpread = 0.08

	signal, err := NewOrderFlowAgent().Run(context.Background(), briefing)
	require.NoError(t, err)

	// Full spread penalty pulls 30% of the distance back to the mid.
	assert.InDelta(t, 0.71, signal.FairProbability, 0.001)
	assert.Equal(t, analysis.DirectionNo, signal.Direction)
	assert.NotEmpty(t, signal.RiskFactors)
}

func TestOrderFlowTrustsDeepTightBooks(t *testing.T) {
	briefing := briefingFixture()
	briefing.LiquidityScore = 9
	briefing.BidAskSpread = 0.005

	signal, err := NewOrderFlowAgent().Run(context.Background(), briefing)
	require.NoError(t, err)

	assert.Equal(t, analysis.DirectionNeutral, signal.Direction)
	assert.Greater(t, signal.Confidence, 0.75)
	assert.Empty(t, signal.RiskFactors)
}

func TestHeadlineCatalystCueScoring(t *testing.T) {
	cases := []struct {
		name      string
		catalysts []string
		direction analysis.Direction
	}{
		{
			name:      "bullish cues",
			catalysts: []string{"senate expected to approve the bill", "leadership confirms floor vote"},
			direction: analysis.DirectionYes,
		},
		{
			name:      "bearish cues",
			catalysts: []string{"committee vote hit by another delay", "key sponsor may resign"},
			direction: analysis.DirectionNo,
		},
		{
			name:      "no cues stay neutral",
			catalysts: []string{"markets quiet ahead of the session"},
			direction: analysis.DirectionNeutral,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			briefing := briefingFixture()
			briefing.Catalysts = tc.catalysts

			signal, err := NewHeadlineCatalystAgent().Run(context.Background(), briefing)
			require.NoError(t, err)
			assert.Equal(t, tc.direction, signal.Direction)
		})
	}
}

func TestHeadlineCatalystNoCatalysts(t *testing.T) {
	briefing := briefingFixture()
	briefing.Catalysts = nil

	signal, err := NewHeadlineCatalystAgent().Run(context.Background(), briefing)
	require.NoError(t, err)

	assert.Equal(t, analysis.DirectionNeutral, signal.Direction)
	assert.InDelta(t, 0.4, signal.Confidence, 0.001)
	require.Len(t, signal.KeyDrivers, 1)
	assert.Contains(t, signal.KeyDrivers[0], "no live catalysts")
}

func TestPollingIntelDampensFavorites(t *testing.T) {
	briefing := briefingFixture()
	briefing.MarketProbability = 0.80

	signal, err := NewPollingIntelAgent().Run(context.Background(), briefing)
	require.NoError(t, err)

	assert.InDelta(t, 0.755, signal.FairProbability, 0.001)
	assert.Equal(t, analysis.DirectionNo, signal.Direction)
}

func TestPollingIntelNonPoliticalIsNeutral(t *testing.T) {
	briefing := briefingFixture()
	briefing.EventType = "crypto"

	signal, err := NewPollingIntelAgent().Run(context.Background(), briefing)
	require.NoError(t, err)

	assert.Equal(t, analysis.DirectionNeutral, signal.Direction)
	assert.Equal(t, briefing.MarketProbability, signal.FairProbability)
	assert.InDelta(t, 0.35, signal.Confidence, 0.001)
}

func TestEventModelVagueCriteriaLeansNo(t *testing.T) {
	briefing := briefingFixture()
	briefing.ResolutionCriteria = "Resolves per event."

	signal, err := NewEventModelAgent().Run(context.Background(), briefing)
	require.NoError(t, err)

	assert.Equal(t, analysis.DirectionNo, signal.Direction)
	assert.InDelta(t, briefing.MarketProbability-0.05, signal.FairProbability, 0.001)
	assert.NotEmpty(t, signal.RiskFactors)
}

func TestEventModelSpecificCriteriaBacksLeader(t *testing.T) {
	signal, err := NewEventModelAgent().Run(context.Background(), briefingFixture())
	require.NoError(t, err)

	// Market above 0.5, so the structural tilt backs YES.
	assert.Equal(t, analysis.DirectionYes, signal.Direction)
	assert.InDelta(t, 0.65, signal.FairProbability, 0.001)
}

func TestCrowdPulseFadesCrowdedMarkets(t *testing.T) {
	briefing := briefingFixture()
	briefing.Volatility = market.VolatilityHigh
	briefing.Volume24h = 500000
	briefing.MarketProbability = 0.80

	signal, err := NewCrowdPulseAgent().Run(context.Background(), briefing)
	require.NoError(t, err)

	assert.InDelta(t, 0.74, signal.FairProbability, 0.001)
	assert.Equal(t, analysis.DirectionNo, signal.Direction)
}

func TestCrowdPulseThinTapeIsNeutral(t *testing.T) {
	briefing := briefingFixture()
	briefing.Volume24h = 2000

	signal, err := NewCrowdPulseAgent().Run(context.Background(), briefing)
	require.NoError(t, err)

	assert.Equal(t, analysis.DirectionNeutral, signal.Direction)
	assert.Equal(t, briefing.MarketProbability, signal.FairProbability)
}
