package analysis

// DebateTestType names one adversarial test in the fixed cross-examination battery.
type DebateTestType string

const (
	DebateTestEvidence  DebateTestType = "evidence"
	DebateTestCausality DebateTestType = "causality"
	DebateTestTiming    DebateTestType = "timing"
	DebateTestLiquidity DebateTestType = "liquidity"
	DebateTestTailRisk  DebateTestType = "tail_risk"
)

// DebateOutcome classifies how a thesis claim held up under cross-examination.
type DebateOutcome string

const (
	OutcomeSurvived DebateOutcome = "survived"
	OutcomeWeakened DebateOutcome = "weakened"
	OutcomeRefuted  DebateOutcome = "refuted"
)

// DebateTest records a single challenge against one thesis.
// Score is in [-1,1]: positive when the claim survived, negative otherwise.
type DebateTest struct {
	Type      DebateTestType `json:"type"`
	Side      Direction      `json:"side"`
	Claim     string         `json:"claim"`
	Challenge string         `json:"challenge"`
	Outcome   DebateOutcome  `json:"outcome"`
	Score     float64        `json:"score"`
}

// DebateRecord is the ordered result of the full battery against both theses.
type DebateRecord struct {
	Tests            []DebateTest `json:"tests"`
	BullScore        float64      `json:"bull_score"`
	BearScore        float64      `json:"bear_score"`
	KeyDisagreements []string     `json:"key_disagreements,omitempty"`
}
