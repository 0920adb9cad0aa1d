package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "main/internal/domain/entity/analysis"
)

func TestThesisBuilderBuildsBothSides(t *testing.T) {
	builder := NewThesisBuilder(testLogger())

	bull, bear, err := builder.Build(testBriefing(), scenarioSignals())
	require.NoError(t, err)
	require.NotNil(t, bull)
	require.NotNil(t, bear)

	assert.Equal(t, domain.DirectionYes, bull.Direction)
	assert.Equal(t, domain.DirectionNo, bear.Direction)

	// Bull fair value is the confidence-weighted mean of its supporters.
	assert.InDelta(t, (0.8*0.65+0.7*0.70)/1.5, bull.FairProbability, 1e-9)
	assert.InDelta(t, 0.40, bear.FairProbability, 1e-9)

	assert.Equal(t, []string{"alpha", "bravo"}, bull.SupportingAgents)
	assert.Equal(t, []string{"charlie"}, bear.SupportingAgents)

	assert.InDelta(t, bull.FairProbability-0.50, bull.Edge, 1e-9)
	assert.InDelta(t, 0.10, bear.Edge, 1e-9)

	// Catalysts come from the backing side's key drivers.
	assert.Contains(t, bull.Catalysts, "order flow tilts yes")
	assert.Contains(t, bear.Catalysts, "polling average sits below market")

	// Failure conditions blend the opposition's drivers with conceded risks.
	assert.Contains(t, bull.FailureConditions, "polling average sits below market")
	assert.NotEmpty(t, bull.CoreArgument)
	assert.NotEmpty(t, bear.CoreArgument)
}

func TestThesisBuilderAllNeutralFails(t *testing.T) {
	builder := NewThesisBuilder(testLogger())

	signals := []domain.AgentSignal{
		newTestSignal("alpha", domain.CategoryMicrostructure, domain.DirectionNeutral, 0.5, 0.5, nil, nil),
		newTestSignal("bravo", domain.CategoryBreakingNews, domain.DirectionNeutral, 0.4, 0.5, nil, nil),
	}
	_, _, err := builder.Build(testBriefing(), signals)
	require.Error(t, err)

	var recErr *domain.RecommendationError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, domain.RecommendationInsufficientData, recErr.Code)
	assert.Equal(t, domain.StageThesis, recErr.Stage)
}

func TestThesisBuilderOneSidedSetGetsCounterCase(t *testing.T) {
	builder := NewThesisBuilder(testLogger())

	signals := []domain.AgentSignal{
		newTestSignal("alpha", domain.CategoryMicrostructure, domain.DirectionYes, 0.8, 0.65,
			[]string{"order flow tilts yes"}, []string{"thin book overnight"}),
		newTestSignal("bravo", domain.CategoryBreakingNews, domain.DirectionYes, 0.7, 0.70,
			[]string{"late headline favors yes"}, []string{"headline momentum may fade"}),
	}
	briefing := testBriefing()

	bull, bear, err := builder.Build(briefing, signals)
	require.NoError(t, err)

	// The unbacked bear side argues from the market's own pricing and the
	// risks the bulls concede; it never defaults silently.
	assert.Empty(t, bear.SupportingAgents)
	assert.InDelta(t, briefing.MarketProbability, bear.FairProbability, 1e-9)
	assert.Contains(t, bear.Catalysts, "thin book overnight")
	assert.Contains(t, bear.FailureConditions, "order flow tilts yes")
	assert.Contains(t, bear.CoreArgument, "no agent argues NO")

	assert.Len(t, bull.SupportingAgents, 2)
}

func TestThesisPointsAreDedupedAndCapped(t *testing.T) {
	builder := NewThesisBuilder(testLogger())

	drivers := []string{"driver one", "driver one", "driver two", "driver three", "driver four", "driver five"}
	signals := []domain.AgentSignal{
		newTestSignal("alpha", domain.CategoryMicrostructure, domain.DirectionYes, 0.8, 0.6, drivers[:5], nil),
		newTestSignal("bravo", domain.CategoryBreakingNews, domain.DirectionYes, 0.7, 0.62, drivers[3:], nil),
		newTestSignal("charlie", domain.CategoryPolling, domain.DirectionNo, 0.6, 0.4, []string{"contra"}, nil),
	}

	bull, _, err := builder.Build(testBriefing(), signals)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(bull.Catalysts), 4)
	assert.LessOrEqual(t, len(bull.FailureConditions), 4)

	seen := map[string]int{}
	for _, c := range bull.Catalysts {
		seen[c]++
	}
	for c, n := range seen {
		assert.Equal(t, 1, n, "catalyst %q duplicated", c)
	}
}
