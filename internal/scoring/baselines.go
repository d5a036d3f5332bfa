// Package scoring turns a geometry class and extracted metrics into a
// dual-axis (risk, confidence) assessment with an explanation trail. All
// tables in this package are immutable after init; scoring is pure and
// safe to call from concurrent requests.
package scoring

import "github.com/cad-profiler/backend/internal/models"

// Baseline is the default (risk, confidence) pair for a geometry class
// before any metric-derived adjustment.
type Baseline struct {
	Risk       int
	Confidence int
}

// baselines maps geometry class to its CNC-intake scoring baseline.
var baselines = map[models.GeometryClass]Baseline{
	models.ClassBRep:       {Risk: 15, Confidence: 85},
	models.ClassSurface:    {Risk: 40, Confidence: 55},
	models.ClassMesh:       {Risk: 75, Confidence: 25},
	models.ClassParametric: {Risk: 20, Confidence: 80},
	models.ClassDrawing2D:  {Risk: 45, Confidence: 50},
}

// unknownBaseline is the median fallback for a geometry class missing from
// the table. Callers gate unknown *extensions* long before this point; the
// fallback only covers a class value the table has never heard of.
var unknownBaseline = Baseline{Risk: 50, Confidence: 50}

// BaselineFor returns the baseline for a geometry class, falling back to
// the median pair for unmapped classes.
func BaselineFor(gc models.GeometryClass) Baseline {
	if b, ok := baselines[gc]; ok {
		return b
	}
	return unknownBaseline
}
