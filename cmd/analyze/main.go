package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	appanalysis "main/internal/application/service/analysis"
	"main/internal/config"
	domain "main/internal/domain/entity/analysis"
	"main/internal/infrastructure/agents"
	infraanalysis "main/internal/infrastructure/analysis"
	"main/internal/infrastructure/venue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		analysisType string
		persist      bool
		compact      bool
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze MARKET_ID",
		Short: "Run a multi-agent analysis for one prediction market",
		Long: `Fetch a market briefing from the venue, run the full agent, debate and
consensus pipeline against it and print the resulting recommendation with its
audit trail as JSON. With --persist the run is also stored in postgres the
same way the queue worker stores it.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], analysisType, persist, compact, verbose)
		},
	}

	cmd.Flags().StringVar(&analysisType, "type", appanalysis.AnalysisTypeFull, "analysis type recorded with the run")
	cmd.Flags().BoolVar(&persist, "persist", false, "store the run in postgres")
	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log pipeline stages to stderr")

	return cmd
}

func run(ctx context.Context, marketID, analysisType string, persist, compact, verbose bool) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if !verbose {
		logger.SetLevel(logrus.WarnLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	roster := agents.Roster(cfg.Agents.Enabled)
	if len(roster) == 0 {
		return errors.New("no analysis agents enabled")
	}

	provider := venue.NewClient(cfg.Venue, logger)
	orchestrator := appanalysis.NewOrchestrator(cfg, logger)

	var (
		state  *domain.RunState
		runErr error
	)
	if persist {
		store, err := infraanalysis.NewRepository(ctx, cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("init analysis repo: %w", err)
		}
		defer store.Close()

		service := appanalysis.NewService(provider, store, orchestrator, roster, logger)
		state, runErr = service.AnalyzeMarket(ctx, marketID, analysisType)
	} else {
		briefing, err := provider.FetchBriefing(ctx, marketID)
		if err != nil {
			return err
		}
		state, runErr = orchestrator.Analyze(ctx, briefing, roster)
	}

	if state != nil {
		if err := printRun(state, compact); err != nil {
			return err
		}
	}
	return runErr
}

type runOutput struct {
	RunID          string                       `json:"run_id"`
	MarketID       string                       `json:"market_id"`
	Question       string                       `json:"question"`
	Signals        []domain.AgentSignal         `json:"signals,omitempty"`
	Consensus      *domain.ConsensusProbability `json:"consensus,omitempty"`
	Recommendation *domain.TradeRecommendation  `json:"recommendation,omitempty"`
	AuditTrail     domain.AuditTrail            `json:"audit_trail"`
}

func printRun(state *domain.RunState, compact bool) error {
	out := runOutput{
		RunID:          state.RunID,
		MarketID:       state.Briefing.MarketID,
		Question:       state.Briefing.Question,
		Signals:        state.Signals,
		Consensus:      state.Consensus,
		Recommendation: state.Result,
		AuditTrail:     state.Trail,
	}

	enc := json.NewEncoder(os.Stdout)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
