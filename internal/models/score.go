package models

// ScoreResult is the output of the dual-axis scoring engine. Both scores
// are clamped to [0,100]. Explanations is an append-only audit trail: one
// entry for the baseline plus one per adjustment that actually fired.
type ScoreResult struct {
	Risk         int      `json:"risk"`
	Confidence   int      `json:"confidence"`
	Explanations []string `json:"explanations"`
}

// BandedScore pairs a numeric score with its qualitative band.
type BandedScore struct {
	Score     int    `json:"score"`
	Band      string `json:"band"`
	Indicator string `json:"indicator"` // hex color for UI consumers
}
