package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"main/internal/config"
	domain "main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"
)

// Orchestrator sequences one analysis run through its stages. Stages after
// agent execution are synchronous and always run to a terminal state, so a
// run that got its signals finishes even when the caller's context is gone.
type Orchestrator struct {
	executor  *Executor
	fusion    *FusionEngine
	theses    *ThesisBuilder
	debate    *DebateEngine
	consensus *ConsensusCalculator
	builder   *RecommendationBuilder
	cfg       config.PipelineConfig
	logger    *logrus.Logger
}

func NewOrchestrator(cfg *config.Config, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		executor:  NewExecutor(cfg.Agents, logger),
		fusion:    NewFusionEngine(cfg.SignalFusion, logger),
		theses:    NewThesisBuilder(logger),
		debate:    NewDebateEngine(logger),
		consensus: NewConsensusCalculator(cfg.Consensus, cfg.Agents.MinAgentsRequired, logger),
		builder:   NewRecommendationBuilder(cfg.Consensus, logger),
		cfg:       cfg.Pipeline,
		logger:    logger,
	}
}

// FusionEngine exposes the fusion stage for callers that install a custom
// context adjuster before running.
func (o *Orchestrator) FusionEngine() *FusionEngine {
	return o.fusion
}

// Analyze drives briefing validation, agent fan-out, fusion, thesis
// construction, debate, consensus and the recommendation in order,
// short-circuiting on the first fatal error. The returned state is never nil
// and carries the audit trail for whatever stages ran.
func (o *Orchestrator) Analyze(ctx context.Context, briefing market.BriefingDocument, agents []interfaces.Agent) (*domain.RunState, error) {
	state := domain.NewRunState(briefing)
	log := o.logger.WithFields(logrus.Fields{
		"run_id":    state.RunID,
		"market_id": briefing.MarketID,
	})
	log.WithField("agents", len(agents)).Info("analysis run started")

	if err := o.ingest(state, briefing); err != nil {
		return state, err
	}

	fusionRes, err := o.executeAgents(ctx, state, agents)
	if err != nil {
		return state, err
	}

	if err := o.argue(state); err != nil {
		return state, err
	}

	if err := o.conclude(state, fusionRes); err != nil {
		return state, err
	}

	log.WithFields(logrus.Fields{
		"action": string(state.Result.Action),
		"steps":  state.Steps(),
	}).Info("analysis run finished")
	return state, nil
}

// ingest re-validates the briefing so runs started from hand-built documents
// fail the same way as runs fed by the market data provider.
func (o *Orchestrator) ingest(state *domain.RunState, briefing market.BriefingDocument) error {
	started := time.Now()
	if err := state.NextStep(o.cfg.MaxSteps); err != nil {
		return wrapBudget(domain.StageIngestion, err)
	}
	if err := briefing.Validate(); err != nil {
		ingErr := domain.NewIngestionError(domain.IngestionValidationFailed, briefing.MarketID, err)
		state.RecordStage(domain.StageIngestion, started, nil, ingErr.Error())
		return ingErr
	}
	state.RecordStage(domain.StageIngestion, started, map[string]any{
		"question":           briefing.Question,
		"market_probability": briefing.MarketProbability,
		"liquidity_score":    briefing.LiquidityScore,
		"volatility":         briefing.Volatility.String(),
		"hours_to_expiry":    briefing.HoursToExpiry(started),
	})
	return nil
}

// executeAgents runs the fan-out stage and, when enough signals survive,
// immediately fuses them. Fusion is folded in here so the fusion result stays
// a stage-local value instead of run state.
func (o *Orchestrator) executeAgents(ctx context.Context, state *domain.RunState, agents []interfaces.Agent) (*FusionResult, error) {
	started := time.Now()
	if err := state.NextStep(o.cfg.MaxSteps); err != nil {
		return nil, wrapBudget(domain.StageAgentExecution, err)
	}
	res, execErr := o.executor.Execute(ctx, state.Briefing, agents)
	for _, s := range res.Signals {
		state.AddSignal(s)
	}
	errStrs := make([]string, 0, len(res.Failures))
	for _, f := range res.Failures {
		state.AddAgentError(f)
		errStrs = append(errStrs, f.Error())
	}
	state.RecordStage(domain.StageAgentExecution, started, map[string]any{
		"requested": len(agents),
		"succeeded": len(res.Signals),
		"failed":    len(res.Failures),
		"outcomes":  res.Outcomes,
	}, errStrs...)
	if execErr != nil {
		return nil, execErr
	}

	started = time.Now()
	if err := state.NextStep(o.cfg.MaxSteps); err != nil {
		return nil, wrapBudget(domain.StageSignalFusion, err)
	}
	fusionRes := o.fusion.Fuse(state.Briefing, state.Signals)
	state.RecordStage(domain.StageSignalFusion, started, map[string]any{
		"yes_score":          fusionRes.YesScore,
		"no_score":           fusionRes.NoScore,
		"leader":             string(fusionRes.Leader()),
		"weighted_fair_prob": fusionRes.WeightedFairProb,
		"alignment_applied":  fusionRes.AlignmentApplied,
		"high_conflict":      fusionRes.HighConflict,
		"contributions":      fusionRes.Contributions,
	})
	return fusionRes, nil
}

// argue builds both theses and cross-examines them.
func (o *Orchestrator) argue(state *domain.RunState) error {
	started := time.Now()
	if err := state.NextStep(o.cfg.MaxSteps); err != nil {
		return wrapBudget(domain.StageThesis, err)
	}
	bull, bear, err := o.theses.Build(state.Briefing, state.Signals)
	if err != nil {
		state.RecordStage(domain.StageThesis, started, nil, err.Error())
		return err
	}
	state.SetTheses(bull, bear)
	state.RecordStage(domain.StageThesis, started, map[string]any{
		"bull_fair_probability": bull.FairProbability,
		"bear_fair_probability": bear.FairProbability,
		"bull_supporters":       len(bull.SupportingAgents),
		"bear_supporters":       len(bear.SupportingAgents),
	})

	started = time.Now()
	if err := state.NextStep(o.cfg.MaxSteps); err != nil {
		return wrapBudget(domain.StageDebate, err)
	}
	debate := o.debate.CrossExamine(state.Briefing, bull, bear, state.Signals)
	state.SetDebate(debate)
	state.RecordStage(domain.StageDebate, started, map[string]any{
		"tests":             debate.Tests,
		"bull_score":        debate.BullScore,
		"bear_score":        debate.BearScore,
		"key_disagreements": debate.KeyDisagreements,
	})
	return nil
}

// conclude computes the consensus and the terminal recommendation. A NO_EDGE
// outcome still sets a complete NO_TRADE result and finishes the run cleanly.
func (o *Orchestrator) conclude(state *domain.RunState, fusionRes *FusionResult) error {
	started := time.Now()
	if err := state.NextStep(o.cfg.MaxSteps); err != nil {
		return wrapBudget(domain.StageConsensus, err)
	}
	cons, err := o.consensus.Calculate(state.Signals, fusionRes, state.Debate)
	if err != nil {
		state.RecordStage(domain.StageConsensus, started, nil, err.Error())
		return err
	}
	state.SetConsensus(cons)
	state.RecordStage(domain.StageConsensus, started, map[string]any{
		"consensus":          cons.Consensus,
		"band_lower":         cons.Band.Lower,
		"band_upper":         cons.Band.Upper,
		"disagreement_index": cons.DisagreementIndex,
		"regime":             cons.Regime.String(),
	})

	started = time.Now()
	if err := state.NextStep(o.cfg.MaxSteps); err != nil {
		return wrapBudget(domain.StageRecommendation, err)
	}
	rec, recErr := o.builder.Build(state.Briefing, cons, state.Bull, state.Bear, state.Debate)
	state.SetResult(rec)
	data := map[string]any{
		"action":          string(rec.Action),
		"edge":            rec.Metadata.Edge,
		"expected_value":  rec.ExpectedValue.String(),
		"win_probability": rec.WinProbability,
		"liquidity_risk":  string(rec.LiquidityRisk),
	}
	if recErr != nil {
		state.RecordStage(domain.StageRecommendation, started, data, recErr.Error())
		if recErr.IsFatal() {
			return recErr
		}
		return nil
	}
	state.RecordStage(domain.StageRecommendation, started, data)
	return nil
}

// wrapBudget tags a budget overrun with the stage that tripped it.
func wrapBudget(stage domain.Stage, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
