package analysis

// Thesis is a structured argument for one market outcome. Every run carries
// exactly two: the Bull thesis (YES) and the Bear thesis (NO).
type Thesis struct {
	Direction         Direction `json:"direction"`
	FairProbability   float64   `json:"fair_probability"`
	MarketProbability float64   `json:"market_probability"`
	Edge              float64   `json:"edge"`
	CoreArgument      string    `json:"core_argument"`
	Catalysts         []string  `json:"catalysts,omitempty"`
	FailureConditions []string  `json:"failure_conditions,omitempty"`
	SupportingAgents  []string  `json:"supporting_agents"`
}
