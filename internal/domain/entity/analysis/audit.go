package analysis

import "time"

// Stage names the pipeline stages audit entries are keyed by.
type Stage string

const (
	StageIngestion      Stage = "ingestion"
	StageAgentExecution Stage = "agent_execution"
	StageSignalFusion   Stage = "signal_fusion"
	StageThesis         Stage = "thesis_construction"
	StageDebate         Stage = "debate"
	StageConsensus      Stage = "consensus"
	StageRecommendation Stage = "recommendation"
)

// AuditEntry is one stage's record: what went in, what came out, what failed.
type AuditEntry struct {
	Stage     Stage          `json:"stage"`
	Timestamp time.Time      `json:"timestamp"`
	Duration  time.Duration  `json:"duration"`
	Data      map[string]any `json:"data,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
}

// AuditTrail is the append-only sequence of stage records for one run.
// Entries are never mutated or removed.
type AuditTrail []AuditEntry

// Append adds an entry to the trail.
func (t *AuditTrail) Append(e AuditEntry) {
	*t = append(*t, e)
}

// Stages lists the stage names in recorded order.
func (t AuditTrail) Stages() []Stage {
	out := make([]Stage, 0, len(t))
	for _, e := range t {
		out = append(out, e.Stage)
	}
	return out
}

// Find returns the first entry recorded for the given stage.
func (t AuditTrail) Find(stage Stage) (AuditEntry, bool) {
	for _, e := range t {
		if e.Stage == stage {
			return e, true
		}
	}
	return AuditEntry{}, false
}
