package analysis

import "fmt"

// IngestionErrorCode tags failures that happen before any agent runs.
type IngestionErrorCode string

const (
	IngestionAPIUnavailable    IngestionErrorCode = "API_UNAVAILABLE"
	IngestionRateLimitExceeded IngestionErrorCode = "RATE_LIMIT_EXCEEDED"
	IngestionInvalidMarketID   IngestionErrorCode = "INVALID_MARKET_ID"
	IngestionValidationFailed  IngestionErrorCode = "VALIDATION_FAILED"
)

// IngestionError aborts a run before agent execution. Always fatal.
type IngestionError struct {
	Code     IngestionErrorCode
	MarketID string
	Err      error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingestion %s: market %s: %v", e.Code, e.MarketID, e.Err)
	}
	return fmt.Sprintf("ingestion %s: market %s", e.Code, e.MarketID)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// NewIngestionError wraps err with an ingestion code for a market.
func NewIngestionError(code IngestionErrorCode, marketID string, err error) *IngestionError {
	return &IngestionError{Code: code, MarketID: marketID, Err: err}
}

// AgentErrorCode tags per-agent failures inside the executor.
type AgentErrorCode string

const (
	AgentTimeout         AgentErrorCode = "TIMEOUT"
	AgentExecutionFailed AgentErrorCode = "EXECUTION_FAILED"
)

// AgentError is one agent's failure within a run. Isolated and accumulated:
// it never aborts the run by itself, only via the minimum-signals check.
type AgentError struct {
	Agent string
	Code  AgentErrorCode
	Err   error
}

func (e *AgentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("agent %s: %s: %v", e.Agent, e.Code, e.Err)
	}
	return fmt.Sprintf("agent %s: %s", e.Agent, e.Code)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// RecommendationErrorCode tags terminal pipeline outcomes that are not a trade.
type RecommendationErrorCode string

const (
	RecommendationInsufficientData RecommendationErrorCode = "INSUFFICIENT_DATA"
	RecommendationConsensusFailed  RecommendationErrorCode = "CONSENSUS_FAILED"
	RecommendationNoEdge           RecommendationErrorCode = "NO_EDGE"
)

// RecommendationError is a typed terminal outcome of the pipeline.
// INSUFFICIENT_DATA and CONSENSUS_FAILED are fatal; NO_EDGE is a normal
// terminal outcome that still carries a valid NO_TRADE recommendation.
type RecommendationError struct {
	Code  RecommendationErrorCode
	Stage Stage
	Err   error
}

func (e *RecommendationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %v", e.Code, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s at %s", e.Code, e.Stage)
}

func (e *RecommendationError) Unwrap() error {
	return e.Err
}

// NewRecommendationError builds a typed terminal outcome for a stage.
func NewRecommendationError(code RecommendationErrorCode, stage Stage, err error) *RecommendationError {
	return &RecommendationError{Code: code, Stage: stage, Err: err}
}

// IsFatal reports whether the outcome fails the run. NO_EDGE does not: the
// caller still receives a complete NO_TRADE recommendation.
func (e *RecommendationError) IsFatal() bool {
	return e.Code != RecommendationNoEdge
}
