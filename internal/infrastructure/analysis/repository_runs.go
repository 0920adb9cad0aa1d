package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	domain "main/internal/domain/entity/analysis"
	"main/internal/infrastructure/analysis/models"
)

// Analysis runs

const insertRunQuery = `
	INSERT INTO analysis_runs (
		market_id, run_id, type, status, duration_ms,
		cost_usd, error_message, agents_used, created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

func (r *Repository) RecordAnalysis(ctx context.Context, marketID int64, record domain.Record) error {
	row, err := models.NewAnalysisRun(marketID, record)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, insertRunQuery,
		row.MarketID,
		row.RunID,
		row.Type,
		row.Status,
		row.DurationMs,
		row.CostUSD,
		nullableString(row.ErrorMessage),
		row.AgentsUsed,
		row.CreatedAt,
	)
	return err
}

const listRunsQuery = `
	SELECT a.run_id, a.type, a.status, a.duration_ms, a.cost_usd, a.error_message, a.agents_used, a.created_at
	FROM analysis_runs a
	JOIN markets m ON m.id = a.market_id
	WHERE m.market_id = $1
	ORDER BY a.created_at DESC, a.id DESC
	LIMIT $2`

func (r *Repository) ListAnalyses(ctx context.Context, marketID string, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	rows, err := r.pool.Query(ctx, listRunsQuery, marketID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanRun(row pgx.Row) (domain.Record, error) {
	var (
		status     string
		costUSD    sql.NullFloat64
		errMessage sql.NullString
		agentsUsed []byte
	)
	record := domain.Record{}
	err := row.Scan(
		&record.RunID,
		&record.Type,
		&status,
		&record.DurationMs,
		&costUSD,
		&errMessage,
		&agentsUsed,
		&record.CreatedAt,
	)
	if err != nil {
		return domain.Record{}, err
	}
	record.Status = domain.RunStatus(status)
	if costUSD.Valid {
		val := costUSD.Float64
		record.CostUSD = &val
	}
	record.ErrorMessage = errMessage.String
	if len(agentsUsed) > 0 {
		if err := json.Unmarshal(agentsUsed, &record.AgentsUsed); err != nil {
			return domain.Record{}, err
		}
	}
	return record, nil
}

func nullableString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
