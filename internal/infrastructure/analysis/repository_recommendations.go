package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domain "main/internal/domain/entity/analysis"
	interfaces "main/internal/domain/interfaces"
	"main/internal/infrastructure/analysis/models"
)

// Recommendations

const insertRecommendationQuery = `
	INSERT INTO recommendations (market_id, run_id, action, payload, created_at)
	VALUES ($1,$2,$3,$4,$5)
	RETURNING id`

func (r *Repository) StoreRecommendation(ctx context.Context, marketID int64, runID string, rec *domain.TradeRecommendation) (int64, error) {
	if rec == nil {
		return 0, errors.New("nil recommendation")
	}
	row, err := models.NewRecommendation(marketID, runID, rec, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.pool.QueryRow(ctx, insertRecommendationQuery,
		row.MarketID,
		row.RunID,
		row.Action,
		row.Payload,
		row.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) StoreAgentSignals(ctx context.Context, marketID, recommendationID int64, signals []domain.AgentSignal) error {
	if len(signals) == 0 {
		return nil
	}
	rows := make([][]interface{}, 0, len(signals))
	for i := range signals {
		row, err := models.NewAgentSignal(marketID, recommendationID, signals[i])
		if err != nil {
			return err
		}
		rows = append(rows, []interface{}{
			row.MarketID,
			row.RecommendationID,
			row.AgentName,
			row.Category,
			row.Direction,
			row.Confidence,
			row.FairProbability,
			row.Payload,
			row.CreatedAt,
		})
	}
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"agent_signals"},
		[]string{
			"market_id",
			"recommendation_id",
			"agent_name",
			"category",
			"direction",
			"confidence",
			"fair_probability",
			"payload",
			"created_at",
		},
		pgx.CopyFromRows(rows),
	)
	return err
}

const latestRecommendationQuery = `
	SELECT r.id, m.market_id, r.run_id, r.payload, r.created_at
	FROM recommendations r
	JOIN markets m ON m.id = r.market_id
	WHERE m.market_id = $1 AND m.deleted_at IS NULL
	ORDER BY r.created_at DESC, r.id DESC
	LIMIT 1`

func (r *Repository) GetLatestRecommendation(ctx context.Context, marketID string) (*domain.StoredRecommendation, error) {
	var (
		row        models.Recommendation
		externalID string
	)
	err := r.pool.QueryRow(ctx, latestRecommendationQuery, marketID).Scan(
		&row.ID,
		&externalID,
		&row.RunID,
		&row.Payload,
		&row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interfaces.ErrRecommendationNotFound
		}
		return nil, err
	}
	stored, err := row.ToStored(externalID)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}
