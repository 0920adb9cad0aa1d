package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"main/internal/config"
	domain "main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"
)

// AgentOutcome is one agent's settled result, success or failure, kept for
// the audit trail.
type AgentOutcome struct {
	Agent      string `json:"agent"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
}

const outcomeOK = "ok"

// ExecutionResult is the fan-in product of one agent execution stage.
type ExecutionResult struct {
	Signals  []domain.AgentSignal
	Failures []domain.AgentError
	Outcomes []AgentOutcome
}

// Executor runs the enabled agents concurrently against one briefing.
// Failures are isolated: an agent timing out or erroring never cancels the
// others. The zero value is not usable; construct with NewExecutor.
type Executor struct {
	cfg    config.AgentsConfig
	logger *logrus.Logger
}

func NewExecutor(cfg config.AgentsConfig, logger *logrus.Logger) *Executor {
	return &Executor{cfg: cfg, logger: logger}
}

type settledAgent struct {
	name     string
	signal   *domain.AgentSignal
	failure  *domain.AgentError
	duration time.Duration
}

// Execute fans out all agents, waits for every one to settle, and merges the
// results sorted by agent name. It fails with INSUFFICIENT_DATA when fewer
// than the configured minimum of signals survive.
func (e *Executor) Execute(ctx context.Context, briefing market.BriefingDocument, agents []interfaces.Agent) (*ExecutionResult, error) {
	timeout := time.Duration(e.cfg.TimeoutMs) * time.Millisecond

	results := make(chan settledAgent, len(agents))
	var wg sync.WaitGroup
	for _, ag := range agents {
		wg.Add(1)
		go func(ag interfaces.Agent) {
			defer wg.Done()
			results <- e.runAgent(ctx, ag, briefing, timeout)
		}(ag)
	}
	wg.Wait()
	close(results)

	settled := make([]settledAgent, 0, len(agents))
	for r := range results {
		settled = append(settled, r)
	}
	sort.Slice(settled, func(i, j int) bool { return settled[i].name < settled[j].name })

	res := &ExecutionResult{}
	seen := make(map[string]struct{}, len(settled))
	for _, s := range settled {
		outcome := AgentOutcome{Agent: s.name, Status: outcomeOK, DurationMs: s.duration.Milliseconds()}
		if s.failure == nil {
			if _, dup := seen[s.name]; dup {
				s.failure = &domain.AgentError{
					Agent: s.name,
					Code:  domain.AgentExecutionFailed,
					Err:   fmt.Errorf("duplicate agent name %q in one run", s.name),
				}
			} else {
				seen[s.name] = struct{}{}
			}
		}
		if s.failure != nil {
			outcome.Status = string(s.failure.Code)
			res.Failures = append(res.Failures, *s.failure)
			e.logger.WithFields(logrus.Fields{
				"market_id": briefing.MarketID,
				"agent":     s.name,
				"code":      string(s.failure.Code),
			}).WithError(s.failure.Err).Warn("agent failed")
		} else {
			res.Signals = append(res.Signals, *s.signal)
		}
		res.Outcomes = append(res.Outcomes, outcome)
	}

	if len(res.Signals) < e.cfg.MinAgentsRequired {
		return res, domain.NewRecommendationError(
			domain.RecommendationInsufficientData,
			domain.StageAgentExecution,
			fmt.Errorf("%d signals from %d agents, need at least %d", len(res.Signals), len(agents), e.cfg.MinAgentsRequired),
		)
	}
	return res, nil
}

// runAgent drives a single agent under its own deadline. The agent call runs
// in its own goroutine so a non-cooperative agent cannot stall the fan-in
// past the deadline; its in-flight work is abandoned once the deadline fires.
func (e *Executor) runAgent(ctx context.Context, ag interfaces.Agent, briefing market.BriefingDocument, timeout time.Duration) settledAgent {
	name := ag.Name()
	started := time.Now()

	agentCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type agentReturn struct {
		signal domain.AgentSignal
		err    error
	}
	done := make(chan agentReturn, 1)
	go func() {
		signal, err := invokeAgent(agentCtx, ag, briefing)
		done <- agentReturn{signal: signal, err: err}
	}()

	var ret agentReturn
	select {
	case ret = <-done:
	case <-agentCtx.Done():
		ret = agentReturn{err: agentCtx.Err()}
	}
	elapsed := time.Since(started)

	if ret.err != nil {
		return settledAgent{name: name, failure: classifyAgentError(name, ret.err), duration: elapsed}
	}

	signal := ret.signal
	if signal.AgentName == "" {
		signal.AgentName = name
	}
	if signal.Category == "" {
		signal.Category = ag.Category()
	}
	if signal.Timestamp.IsZero() {
		signal.Timestamp = time.Now()
	}
	if err := signal.Validate(); err != nil {
		return settledAgent{
			name:     name,
			failure:  &domain.AgentError{Agent: name, Code: domain.AgentExecutionFailed, Err: err},
			duration: elapsed,
		}
	}
	return settledAgent{name: name, signal: &signal, duration: elapsed}
}

// invokeAgent shields the run from panicking agents.
func invokeAgent(ctx context.Context, ag interfaces.Agent, briefing market.BriefingDocument) (signal domain.AgentSignal, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent panicked: %v", r)
		}
	}()
	return ag.Run(ctx, briefing)
}

func classifyAgentError(agent string, err error) *domain.AgentError {
	code := domain.AgentExecutionFailed
	if errors.Is(err, context.DeadlineExceeded) {
		code = domain.AgentTimeout
	}
	return &domain.AgentError{Agent: agent, Code: code, Err: err}
}
