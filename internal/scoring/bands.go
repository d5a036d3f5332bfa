package scoring

import "github.com/cad-profiler/backend/internal/models"

// Axis selects which band ladder a score is read against. Risk and
// confidence share the ceiling layout but carry different label sets.
type Axis string

const (
	AxisRisk       Axis = "risk"
	AxisConfidence Axis = "confidence"
)

type band struct {
	ceiling   int
	label     string
	indicator string
}

// The ladders are ceiling-inclusive, first-match: a boundary score (20,
// 40, 60, 80) belongs to the lower band, and 100 resolves to the final
// band. Order matters; do not sort or reshuffle.
var riskBands = []band{
	{20, "Low", "#2ecc71"},
	{40, "Moderate", "#f1c40f"},
	{60, "Elevated", "#e67e22"},
	{80, "High", "#e74c3c"},
	{100, "Severe", "#c0392b"},
}

var confidenceBands = []band{
	{20, "Very low", "#c0392b"},
	{40, "Low", "#e74c3c"},
	{60, "Medium", "#e67e22"},
	{80, "High", "#f1c40f"},
	{100, "Very high", "#2ecc71"},
}

// ScoreToBand maps a 0-100 score onto its qualitative band for the given
// axis, returning the label and a hex indicator color.
func ScoreToBand(score int, axis Axis) (string, string) {
	bands := riskBands
	if axis == AxisConfidence {
		bands = confidenceBands
	}
	for _, b := range bands {
		if score <= b.ceiling {
			return b.label, b.indicator
		}
	}
	last := bands[len(bands)-1]
	return last.label, last.indicator
}

// Banded pairs a score with its band for the given axis.
func Banded(score int, axis Axis) models.BandedScore {
	label, indicator := ScoreToBand(score, axis)
	return models.BandedScore{Score: score, Band: label, Indicator: indicator}
}
