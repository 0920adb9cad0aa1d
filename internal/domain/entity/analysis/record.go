package analysis

import "time"

// RunStatus is the lifecycle of a persisted analysis run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Record is the persisted summary of one analysis run, written once the run
// reaches a terminal state.
type Record struct {
	RunID        string    `json:"run_id"`
	Type         string    `json:"type"`
	Status       RunStatus `json:"status"`
	DurationMs   int64     `json:"duration_ms"`
	CostUSD      *float64  `json:"cost_usd,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	AgentsUsed   []string  `json:"agents_used"`
	CreatedAt    time.Time `json:"created_at"`
}

// StoredRecommendation is a recommendation as read back from storage.
type StoredRecommendation struct {
	ID             int64               `json:"id"`
	MarketID       string              `json:"market_id"`
	RunID          string              `json:"run_id"`
	Recommendation TradeRecommendation `json:"recommendation"`
	CreatedAt      time.Time           `json:"created_at"`
}
