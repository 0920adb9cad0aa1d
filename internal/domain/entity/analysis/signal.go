package analysis

import (
	"fmt"
	"time"
)

// Direction is an agent's call on the market outcome.
type Direction string

const (
	DirectionYes     Direction = "YES"
	DirectionNo      Direction = "NO"
	DirectionNeutral Direction = "NEUTRAL"
)

func (d Direction) String() string {
	return string(d)
}

func (d Direction) IsValid() bool {
	switch d {
	case DirectionYes, DirectionNo, DirectionNeutral:
		return true
	default:
		return false
	}
}

// Signal categories the fusion weights are keyed by. Agents may report other
// categories; those fall back to the default weight.
const (
	CategoryMicrostructure = "market_microstructure"
	CategoryBreakingNews   = "breaking_news"
	CategoryPolling        = "polling_intelligence"
	CategoryFundamentals   = "event_fundamentals"
	CategorySentiment      = "crowd_sentiment"
)

const maxKeyDrivers = 5

// AgentSignal is one agent's probabilistic opinion about a market.
// Produced once per agent per run and never mutated afterwards.
type AgentSignal struct {
	AgentName       string         `json:"agent_name"`
	Category        string         `json:"category"`
	Timestamp       time.Time      `json:"timestamp"`
	Confidence      float64        `json:"confidence"`
	Direction       Direction      `json:"direction"`
	FairProbability float64        `json:"fair_probability"`
	KeyDrivers      []string       `json:"key_drivers,omitempty"`
	RiskFactors     []string       `json:"risk_factors,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// Validate enforces the signal shape before a signal is admitted to a run.
// A violating signal is the producing agent's failure, not the run's.
func (s AgentSignal) Validate() error {
	if s.AgentName == "" {
		return fmt.Errorf("agent name is empty")
	}
	if !s.Direction.IsValid() {
		return fmt.Errorf("agent %s: invalid direction %q", s.AgentName, string(s.Direction))
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("agent %s: confidence %.4f outside [0,1]", s.AgentName, s.Confidence)
	}
	if s.FairProbability < 0 || s.FairProbability > 1 {
		return fmt.Errorf("agent %s: fair probability %.4f outside [0,1]", s.AgentName, s.FairProbability)
	}
	if len(s.KeyDrivers) > maxKeyDrivers {
		return fmt.Errorf("agent %s: %d key drivers exceed the cap of %d", s.AgentName, len(s.KeyDrivers), maxKeyDrivers)
	}
	return nil
}
