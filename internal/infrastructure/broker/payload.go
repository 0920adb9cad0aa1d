package broker

import interfaces "main/internal/domain/interfaces"

// RequestMessage is the wire envelope for queued analysis work.
type RequestMessage struct {
	AnalysisRequest *interfaces.AnalysisRequest `json:"analysis_request,omitempty"`
}
