package interfaces

import "context"

// AnalysisRequest asks the worker fleet to analyze one market.
type AnalysisRequest struct {
	MarketID    string `json:"market_id"`
	RequestID   string `json:"request_id"`
	Type        string `json:"type,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// RequestPublisher enqueues analysis requests for asynchronous execution.
type RequestPublisher interface {
	PublishAnalysisRequest(ctx context.Context, req AnalysisRequest) error
	Close() error
}
