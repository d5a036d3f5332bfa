package scoring

import (
	"fmt"
	"strconv"

	"github.com/cad-profiler/backend/internal/models"
)

// Metric adjustment thresholds.
const (
	// HighTriangleCount marks heavy meshes that are harder to process and
	// may indicate a poor export.
	HighTriangleCount = 500_000

	// VeryHighTriangleCount marks meshes past the component-split cutoff
	// territory; the component pass has been skipped by then.
	VeryHighTriangleCount = 2_000_000

	// LargeExtent and SmallExtent flag probable unit-scale errors in a
	// drawing (mm read as a larger unit, or the inverse).
	LargeExtent = 10_000
	SmallExtent = 1
)

// meshRule is one ordered scoring adjustment for mesh metrics. Rules are
// evaluated in slice order; each fired rule appends exactly one
// explanation entry.
type meshRule struct {
	when    func(m *models.MeshMetrics) bool
	risk    int
	conf    int
	explain func(m *models.MeshMetrics) string
}

var meshRules = []meshRule{
	{
		when: func(m *models.MeshMetrics) bool { return !m.IsWatertight },
		risk: 10, conf: -10,
		explain: func(m *models.MeshMetrics) string {
			return "Non-watertight mesh: risk +10, confidence -10"
		},
	},
	{
		when: func(m *models.MeshMetrics) bool {
			return m.ComponentCount != nil && *m.ComponentCount > 1
		},
		risk: 8,
		explain: func(m *models.MeshMetrics) string {
			return fmt.Sprintf("%d disconnected components: risk +8", *m.ComponentCount)
		},
	},
	// The two triangle-count rules are mutually exclusive by
	// construction: the very-high check supersedes the high check, so at
	// most one of them ever fires.
	{
		when: func(m *models.MeshMetrics) bool { return m.TriangleCount > VeryHighTriangleCount },
		risk: 10,
		explain: func(m *models.MeshMetrics) string {
			return fmt.Sprintf("Very high triangle count (%s): risk +10", groupDigits(m.TriangleCount))
		},
	},
	{
		when: func(m *models.MeshMetrics) bool {
			return m.TriangleCount <= VeryHighTriangleCount && m.TriangleCount > HighTriangleCount
		},
		risk: 5,
		explain: func(m *models.MeshMetrics) string {
			return fmt.Sprintf("High triangle count (%s): risk +5", groupDigits(m.TriangleCount))
		},
	},
}

// drawingRule mirrors meshRule for drawing metrics.
type drawingRule struct {
	when    func(d *models.DrawingMetrics) bool
	risk    int
	conf    int
	explain func(d *models.DrawingMetrics) string
}

func maxPlanarDim(d *models.DrawingMetrics) float64 {
	if d.Extents == nil {
		return 0
	}
	if d.Extents.Size.X > d.Extents.Size.Y {
		return d.Extents.Size.X
	}
	return d.Extents.Size.Y
}

var drawingRules = []drawingRule{
	{
		when: func(d *models.DrawingMetrics) bool { return d.CountOf("SPLINE") > 0 },
		risk: 10, conf: -5,
		explain: func(d *models.DrawingMetrics) string {
			return fmt.Sprintf("Splines present (%d): risk +10, confidence -5", d.CountOf("SPLINE"))
		},
	},
	// The extent rules are mutually exclusive: an extent cannot be both
	// over 10,000 and under 1 drawing unit.
	{
		when: func(d *models.DrawingMetrics) bool { return maxPlanarDim(d) > LargeExtent },
		risk: 5,
		explain: func(d *models.DrawingMetrics) string {
			return fmt.Sprintf("Very large extents (%.1f): risk +5, verify units", maxPlanarDim(d))
		},
	},
	{
		when: func(d *models.DrawingMetrics) bool {
			dim := maxPlanarDim(d)
			return dim > 0 && dim < SmallExtent
		},
		risk: 5,
		explain: func(d *models.DrawingMetrics) string {
			return fmt.Sprintf("Very small extents (%.4f): risk +5, verify units", maxPlanarDim(d))
		},
	},
}

// ComputeScores runs the dual-axis scoring model: baseline by geometry
// class, then the ordered metric adjustments for whichever metrics record
// is present (a file has one geometry modality, so at most one of mesh and
// drawing is non-nil), then a final clamp of both axes to [0,100].
// Intermediate values outside the range are expected; only the end result
// is clamped.
func ComputeScores(gc models.GeometryClass, mesh *models.MeshMetrics, drawing *models.DrawingMetrics) models.ScoreResult {
	base := BaselineFor(gc)
	risk := base.Risk
	confidence := base.Confidence
	explanations := []string{
		fmt.Sprintf("Baseline for %s: risk %d, confidence %d", gc, base.Risk, base.Confidence),
	}

	if mesh != nil {
		for _, r := range meshRules {
			if r.when(mesh) {
				risk += r.risk
				confidence += r.conf
				explanations = append(explanations, r.explain(mesh))
			}
		}
	}

	if drawing != nil {
		for _, r := range drawingRules {
			if r.when(drawing) {
				risk += r.risk
				confidence += r.conf
				explanations = append(explanations, r.explain(drawing))
			}
		}
	}

	return models.ScoreResult{
		Risk:         clamp(risk),
		Confidence:   clamp(confidence),
		Explanations: explanations,
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// groupDigits formats an integer with thousands separators for
// explanation text.
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
