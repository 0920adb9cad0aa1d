package analysis

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"main/internal/domain/entity/market"
)

// ErrStepBudgetExceeded aborts a run whose stage transitions outran the
// configured pipeline budget.
var ErrStepBudgetExceeded = errors.New("pipeline step budget exceeded")

// RunState is the mutable record threaded through one pipeline run. It is
// owned exclusively by the run's orchestrator goroutine; concurrent agent
// results are merged in through the executor's fan-in, never written here
// from multiple goroutines.
type RunState struct {
	RunID       string
	Briefing    market.BriefingDocument
	Signals     []AgentSignal
	AgentErrors []AgentError
	Bull        *Thesis
	Bear        *Thesis
	Debate      *DebateRecord
	Consensus   *ConsensusProbability
	Result      *TradeRecommendation
	Trail       AuditTrail
	StartedAt   time.Time

	steps int
}

// NewRunState opens a run for the given briefing.
func NewRunState(briefing market.BriefingDocument) *RunState {
	return &RunState{
		RunID:     uuid.NewString(),
		Briefing:  briefing,
		StartedAt: time.Now(),
	}
}

// AddSignal appends an accepted agent signal.
func (rs *RunState) AddSignal(s AgentSignal) {
	rs.Signals = append(rs.Signals, s)
}

// AddAgentError appends an isolated agent failure.
func (rs *RunState) AddAgentError(e AgentError) {
	rs.AgentErrors = append(rs.AgentErrors, e)
}

// SetTheses stores the two debate sides.
func (rs *RunState) SetTheses(bull, bear *Thesis) {
	rs.Bull = bull
	rs.Bear = bear
}

// SetDebate stores the cross-examination record.
func (rs *RunState) SetDebate(d *DebateRecord) {
	rs.Debate = d
}

// SetConsensus stores the consensus output.
func (rs *RunState) SetConsensus(c *ConsensusProbability) {
	rs.Consensus = c
}

// SetResult stores the terminal recommendation.
func (rs *RunState) SetResult(r *TradeRecommendation) {
	rs.Result = r
}

// RecordStage appends an audit entry for a completed stage transition.
func (rs *RunState) RecordStage(stage Stage, started time.Time, data map[string]any, errs ...string) {
	rs.Trail.Append(AuditEntry{
		Stage:     stage,
		Timestamp: started,
		Duration:  time.Since(started),
		Data:      data,
		Errors:    errs,
	})
}

// NextStep charges one stage transition against the budget.
func (rs *RunState) NextStep(maxSteps int) error {
	rs.steps++
	if maxSteps > 0 && rs.steps > maxSteps {
		return ErrStepBudgetExceeded
	}
	return nil
}

// Steps reports how many stage transitions the run has consumed.
func (rs *RunState) Steps() int {
	return rs.steps
}

// SignalNames lists the accepted signals' agent names in arrival order.
func (rs *RunState) SignalNames() []string {
	out := make([]string, 0, len(rs.Signals))
	for _, s := range rs.Signals {
		out = append(out, s.AgentName)
	}
	return out
}
