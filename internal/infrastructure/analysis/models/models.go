// Package models mirrors the analysis tables. Tags document the schema;
// all reads and writes go through pgx in the repository.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

// Market is the base `markets` row. Recommendations and runs reference it by id.
type Market struct {
	ID          int64          `gorm:"primaryKey;column:id;type:bigserial"`
	MarketID    string         `gorm:"column:market_id;type:varchar(255);not null;uniqueIndex"`
	ConditionID string         `gorm:"column:condition_id;type:varchar(255)"`
	EventType   string         `gorm:"column:event_type;type:varchar(100);index"`
	Question    string         `gorm:"column:question;type:text;not null"`
	ExpiresAt   time.Time      `gorm:"column:expires_at;type:timestamp"`
	Probability float64        `gorm:"column:probability;type:decimal(6,4)"`
	Liquidity   float64        `gorm:"column:liquidity_score;type:decimal(6,2)"`
	Volume24h   float64        `gorm:"column:volume_24h;type:decimal(18,2)"`
	CreatedAt   time.Time      `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;type:timestamp;index"`
}

func NewMarket(b market.BriefingDocument, now time.Time) Market {
	return Market{
		MarketID:    b.MarketID,
		ConditionID: b.ConditionID,
		EventType:   b.EventType,
		Question:    b.Question,
		ExpiresAt:   b.ExpiresAt,
		Probability: b.MarketProbability,
		Liquidity:   b.LiquidityScore,
		Volume24h:   b.Volume24h,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Recommendation is one `recommendations` row. The complete trade
// recommendation travels as a jsonb payload; action is broken out for queries.
type Recommendation struct {
	ID        int64     `gorm:"primaryKey;column:id;type:bigserial"`
	MarketID  int64     `gorm:"column:market_id;type:bigint;not null;index"`
	RunID     string    `gorm:"column:run_id;type:uuid;not null;index"`
	Action    string    `gorm:"column:action;type:varchar(20);not null"`
	Payload   []byte    `gorm:"column:payload;type:jsonb;not null"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}

func NewRecommendation(marketID int64, runID string, rec *domain.TradeRecommendation, now time.Time) (Recommendation, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return Recommendation{}, fmt.Errorf("marshal recommendation: %w", err)
	}
	return Recommendation{
		MarketID:  marketID,
		RunID:     runID,
		Action:    string(rec.Action),
		Payload:   payload,
		CreatedAt: now,
	}, nil
}

// ToStored rebuilds the domain view of a scanned row. externalID is the
// venue-facing market id joined in from the markets table.
func (r Recommendation) ToStored(externalID string) (domain.StoredRecommendation, error) {
	var rec domain.TradeRecommendation
	if err := json.Unmarshal(r.Payload, &rec); err != nil {
		return domain.StoredRecommendation{}, fmt.Errorf("unmarshal recommendation %d: %w", r.ID, err)
	}
	return domain.StoredRecommendation{
		ID:             r.ID,
		MarketID:       externalID,
		RunID:          r.RunID,
		Recommendation: rec,
		CreatedAt:      r.CreatedAt,
	}, nil
}

// signalPayload is the jsonb tail of an agent_signals row.
type signalPayload struct {
	KeyDrivers  []string       `json:"key_drivers,omitempty"`
	RiskFactors []string       `json:"risk_factors,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// AgentSignal is one `agent_signals` row, tied to the recommendation its run
// produced.
type AgentSignal struct {
	ID               int64     `gorm:"primaryKey;column:id;type:bigserial"`
	MarketID         int64     `gorm:"column:market_id;type:bigint;not null;index"`
	RecommendationID int64     `gorm:"column:recommendation_id;type:bigint;not null;index"`
	AgentName        string    `gorm:"column:agent_name;type:varchar(100);not null"`
	Category         string    `gorm:"column:category;type:varchar(100);not null"`
	Direction        string    `gorm:"column:direction;type:varchar(10);not null"`
	Confidence       float64   `gorm:"column:confidence;type:decimal(5,4)"`
	FairProbability  float64   `gorm:"column:fair_probability;type:decimal(6,4)"`
	Payload          []byte    `gorm:"column:payload;type:jsonb"`
	CreatedAt        time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}

func NewAgentSignal(marketID, recommendationID int64, s domain.AgentSignal) (AgentSignal, error) {
	payload, err := json.Marshal(signalPayload{
		KeyDrivers:  s.KeyDrivers,
		RiskFactors: s.RiskFactors,
		Metadata:    s.Metadata,
	})
	if err != nil {
		return AgentSignal{}, fmt.Errorf("marshal signal payload for %s: %w", s.AgentName, err)
	}
	return AgentSignal{
		MarketID:         marketID,
		RecommendationID: recommendationID,
		AgentName:        s.AgentName,
		Category:         s.Category,
		Direction:        string(s.Direction),
		Confidence:       s.Confidence,
		FairProbability:  s.FairProbability,
		Payload:          payload,
		CreatedAt:        s.Timestamp,
	}, nil
}

// AnalysisRun is one `analysis_runs` row: the terminal summary of a pipeline
// run, success or failure.
type AnalysisRun struct {
	ID           int64     `gorm:"primaryKey;column:id;type:bigserial"`
	MarketID     int64     `gorm:"column:market_id;type:bigint;not null;index"`
	RunID        string    `gorm:"column:run_id;type:uuid;not null;uniqueIndex"`
	Type         string    `gorm:"column:type;type:varchar(50);not null"`
	Status       string    `gorm:"column:status;type:varchar(20);not null"`
	DurationMs   int64     `gorm:"column:duration_ms;type:bigint"`
	CostUSD      *float64  `gorm:"column:cost_usd;type:decimal(10,4)"`
	ErrorMessage string    `gorm:"column:error_message;type:text"`
	AgentsUsed   []byte    `gorm:"column:agents_used;type:jsonb"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}

func NewAnalysisRun(marketID int64, record domain.Record) (AnalysisRun, error) {
	agents, err := json.Marshal(record.AgentsUsed)
	if err != nil {
		return AnalysisRun{}, fmt.Errorf("marshal agents used for run %s: %w", record.RunID, err)
	}
	return AnalysisRun{
		MarketID:     marketID,
		RunID:        record.RunID,
		Type:         record.Type,
		Status:       string(record.Status),
		DurationMs:   record.DurationMs,
		CostUSD:      record.CostUSD,
		ErrorMessage: record.ErrorMessage,
		AgentsUsed:   agents,
		CreatedAt:    record.CreatedAt,
	}, nil
}
