package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/config"
	domain "main/internal/domain/entity/analysis"
	interfaces "main/internal/domain/interfaces"
)

func newTestExecutor(timeoutMs, minAgents int) *Executor {
	return NewExecutor(config.AgentsConfig{
		TimeoutMs:         timeoutMs,
		MinAgentsRequired: minAgents,
	}, testLogger())
}

func toAgents(stubs []*stubAgent) []interfaces.Agent {
	out := make([]interfaces.Agent, 0, len(stubs))
	for _, s := range stubs {
		out = append(out, s)
	}
	return out
}

func TestExecutorAllAgentsSucceed(t *testing.T) {
	exec := newTestExecutor(500, 2)

	res, err := exec.Execute(context.Background(), testBriefing(), toAgents(scenarioAgents()))
	require.NoError(t, err)
	require.Len(t, res.Signals, 3)
	assert.Empty(t, res.Failures)

	// Fan-in is sorted by agent name for determinism.
	assert.Equal(t, "alpha", res.Signals[0].AgentName)
	assert.Equal(t, "bravo", res.Signals[1].AgentName)
	assert.Equal(t, "charlie", res.Signals[2].AgentName)

	require.Len(t, res.Outcomes, 3)
	for _, o := range res.Outcomes {
		assert.Equal(t, "ok", o.Status)
	}
}

func TestExecutorIsolatesFailures(t *testing.T) {
	agents := scenarioAgents()
	agents[2].err = errors.New("upstream feed unavailable")
	exec := newTestExecutor(500, 2)

	res, err := exec.Execute(context.Background(), testBriefing(), toAgents(agents))
	require.NoError(t, err)
	assert.Len(t, res.Signals, 2)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "charlie", res.Failures[0].Agent)
	assert.Equal(t, domain.AgentExecutionFailed, res.Failures[0].Code)
}

func TestExecutorTimeoutIsPerAgent(t *testing.T) {
	agents := scenarioAgents()
	agents[1].delay = 2 * time.Second
	exec := newTestExecutor(50, 2)

	started := time.Now()
	res, err := exec.Execute(context.Background(), testBriefing(), toAgents(agents))
	require.NoError(t, err)

	// The slow agent times out without stalling the fast ones or the run.
	assert.Less(t, time.Since(started), time.Second)
	assert.Len(t, res.Signals, 2)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "bravo", res.Failures[0].Agent)
	assert.Equal(t, domain.AgentTimeout, res.Failures[0].Code)
}

func TestExecutorRecoversPanics(t *testing.T) {
	agents := scenarioAgents()
	agents[0].panicMsg = "index out of range"
	exec := newTestExecutor(500, 2)

	res, err := exec.Execute(context.Background(), testBriefing(), toAgents(agents))
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, domain.AgentExecutionFailed, res.Failures[0].Code)
	assert.Contains(t, res.Failures[0].Err.Error(), "panicked")
}

func TestExecutorRejectsInvalidSignals(t *testing.T) {
	agents := scenarioAgents()
	agents[0].signal.Confidence = 1.7
	exec := newTestExecutor(500, 2)

	res, err := exec.Execute(context.Background(), testBriefing(), toAgents(agents))
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "alpha", res.Failures[0].Agent)
	assert.Equal(t, domain.AgentExecutionFailed, res.Failures[0].Code)
}

func TestExecutorRejectsDuplicateAgentNames(t *testing.T) {
	signals := scenarioSignals()
	dupe := signals[1]
	dupe.AgentName = signals[0].AgentName
	agents := []interfaces.Agent{agentFor(signals[0]), agentFor(dupe), agentFor(signals[2])}
	exec := newTestExecutor(500, 2)

	res, err := exec.Execute(context.Background(), testBriefing(), agents)
	require.NoError(t, err)
	assert.Len(t, res.Signals, 2)
	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0].Err.Error(), "duplicate agent name")
}

func TestExecutorBelowThresholdAborts(t *testing.T) {
	agents := scenarioAgents()
	agents[0].err = errors.New("boom")
	agents[1].err = errors.New("boom")
	exec := newTestExecutor(500, 2)

	res, err := exec.Execute(context.Background(), testBriefing(), toAgents(agents))
	require.Error(t, err)

	var recErr *domain.RecommendationError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, domain.RecommendationInsufficientData, recErr.Code)
	assert.Equal(t, domain.StageAgentExecution, recErr.Stage)
	assert.True(t, recErr.IsFatal())

	// The surviving signal and both failures are still reported for the audit trail.
	assert.Len(t, res.Signals, 1)
	assert.Len(t, res.Failures, 2)
}

func TestExecutorFillsSignalDefaults(t *testing.T) {
	ag := &stubAgent{
		name:     "delta",
		category: domain.CategoryFundamentals,
		signal: domain.AgentSignal{
			// Name, category and timestamp left for the executor to fill.
			Confidence:      0.6,
			Direction:       domain.DirectionYes,
			FairProbability: 0.55,
		},
	}
	other := agentFor(scenarioSignals()[0])
	exec := newTestExecutor(500, 2)

	res, err := exec.Execute(context.Background(), testBriefing(), []interfaces.Agent{ag, other})
	require.NoError(t, err)
	require.Len(t, res.Signals, 2)

	for _, s := range res.Signals {
		if s.AgentName != "delta" {
			continue
		}
		assert.Equal(t, domain.CategoryFundamentals, s.Category)
		assert.False(t, s.Timestamp.IsZero())
	}
}
