package analysis

// Regime classifies how much the consensus output can be trusted.
type Regime string

const (
	RegimeHighConfidence     Regime = "high-confidence"
	RegimeModerateConfidence Regime = "moderate-confidence"
	RegimeHighUncertainty    Regime = "high-uncertainty"
)

func (r Regime) String() string {
	return string(r)
}

// Band is a closed probability interval [Lower, Upper].
type Band struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Width reports the band size.
func (b Band) Width() float64 {
	return b.Upper - b.Lower
}

// Contains reports whether p lies inside the band.
func (b Band) Contains(p float64) bool {
	return p >= b.Lower && p <= b.Upper
}

// ConsensusProbability is the engine's final probability estimate with its
// uncertainty quantification. Invariant: Band.Lower <= Consensus <= Band.Upper.
type ConsensusProbability struct {
	Consensus          float64  `json:"consensus"`
	Band               Band     `json:"band"`
	DisagreementIndex  float64  `json:"disagreement_index"`
	Regime             Regime   `json:"regime"`
	ContributingAgents []string `json:"contributing_agents"`
}
