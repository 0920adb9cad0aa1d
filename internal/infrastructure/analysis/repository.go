package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"main/internal/domain/entity/market"
	"main/internal/infrastructure/analysis/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

// Markets

const upsertMarketQuery = `
	INSERT INTO markets (
		market_id, condition_id, event_type, question, expires_at,
		probability, liquidity_score, volume_24h, created_at, updated_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (market_id) DO UPDATE SET
		probability = EXCLUDED.probability,
		liquidity_score = EXCLUDED.liquidity_score,
		volume_24h = EXCLUDED.volume_24h,
		expires_at = EXCLUDED.expires_at,
		updated_at = EXCLUDED.updated_at,
		deleted_at = NULL
	RETURNING id`

// UpsertMarket inserts or refreshes the market snapshot and returns the row id
// the rest of the run's writes hang off. Re-analyzing a soft-deleted market
// revives it.
func (r *Repository) UpsertMarket(ctx context.Context, briefing market.BriefingDocument) (int64, error) {
	row := models.NewMarket(briefing, time.Now().UTC())
	var id int64
	err := r.pool.QueryRow(ctx, upsertMarketQuery,
		row.MarketID,
		row.ConditionID,
		row.EventType,
		row.Question,
		row.ExpiresAt,
		row.Probability,
		row.Liquidity,
		row.Volume24h,
		row.CreatedAt,
		row.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert market %s: %w", briefing.MarketID, err)
	}
	return id, nil
}
