package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	domain "main/internal/domain/entity/analysis"
	interfaces "main/internal/domain/interfaces"
)

// AnalysisTypeFull is the default analysis type recorded when the caller does
// not name one.
const AnalysisTypeFull = "full"

// Service runs complete market analyses: briefing ingestion, the pipeline,
// and terminal-state persistence.
type Service struct {
	provider interfaces.MarketDataProvider
	store    interfaces.AnalysisStore
	orch     *Orchestrator
	agents   []interfaces.Agent
	logger   *logrus.Logger
}

func NewService(provider interfaces.MarketDataProvider, store interfaces.AnalysisStore, orch *Orchestrator, agents []interfaces.Agent, logger *logrus.Logger) *Service {
	return &Service{
		provider: provider,
		store:    store,
		orch:     orch,
		agents:   agents,
		logger:   logger,
	}
}

// AnalyzeMarket fetches the briefing for marketID, runs the pipeline, and
// persists the terminal state. Ingestion failures abort before any agent runs
// and leave nothing in storage. Persistence runs on a context detached from
// the caller's cancellation, so a run that reached a terminal state is never
// cut off mid-write; either the complete recommendation lands or none of it.
func (s *Service) AnalyzeMarket(ctx context.Context, marketID, analysisType string) (*domain.RunState, error) {
	marketID = strings.TrimSpace(marketID)
	if marketID == "" {
		return nil, domain.NewIngestionError(domain.IngestionInvalidMarketID, marketID, errors.New("empty market id"))
	}
	if analysisType == "" {
		analysisType = AnalysisTypeFull
	}

	briefing, err := s.provider.FetchBriefing(ctx, marketID)
	if err != nil {
		s.logger.WithField("market_id", marketID).WithError(err).Error("briefing ingestion failed")
		return nil, err
	}

	state, runErr := s.orch.Analyze(ctx, briefing, s.agents)

	var ingErr *domain.IngestionError
	if errors.As(runErr, &ingErr) {
		return state, runErr
	}

	if err := s.persist(context.WithoutCancel(ctx), state, analysisType, runErr); err != nil {
		s.logger.WithField("run_id", state.RunID).WithError(err).Error("persisting analysis failed")
		return state, err
	}
	return state, runErr
}

// persist writes the market, the recommendation with its signals when the run
// produced one, and the run record. Failed runs get only the run record.
func (s *Service) persist(ctx context.Context, state *domain.RunState, analysisType string, runErr error) error {
	marketRowID, err := s.store.UpsertMarket(ctx, state.Briefing)
	if err != nil {
		return fmt.Errorf("upsert market %s: %w", state.Briefing.MarketID, err)
	}

	record := domain.Record{
		RunID:      state.RunID,
		Type:       analysisType,
		Status:     domain.RunStatusCompleted,
		DurationMs: time.Since(state.StartedAt).Milliseconds(),
		AgentsUsed: state.SignalNames(),
		CreatedAt:  time.Now(),
	}

	if runErr != nil {
		record.Status = domain.RunStatusFailed
		record.ErrorMessage = runErr.Error()
	} else if state.Result != nil {
		recID, err := s.store.StoreRecommendation(ctx, marketRowID, state.RunID, state.Result)
		if err != nil {
			return fmt.Errorf("store recommendation for market %s: %w", state.Briefing.MarketID, err)
		}
		if err := s.store.StoreAgentSignals(ctx, marketRowID, recID, state.Signals); err != nil {
			return fmt.Errorf("store signals for market %s: %w", state.Briefing.MarketID, err)
		}
	}

	if err := s.store.RecordAnalysis(ctx, marketRowID, record); err != nil {
		return fmt.Errorf("record analysis %s: %w", state.RunID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":    state.RunID,
		"market_id": state.Briefing.MarketID,
		"status":    string(record.Status),
	}).Info("analysis run persisted")
	return nil
}
