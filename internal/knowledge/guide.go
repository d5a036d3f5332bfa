package knowledge

import (
	"fmt"
	"sort"

	"github.com/cad-profiler/backend/internal/geometry"
	"github.com/cad-profiler/backend/internal/models"
	"github.com/cad-profiler/backend/internal/scoring"
)

// ComparisonRow is one line of the all-formats comparison table.
type ComparisonRow struct {
	Extension          string               `json:"extension"`
	GeometryClass      models.GeometryClass `json:"geometryClass"`
	RiskBaseline       int                  `json:"riskBaseline"`
	RiskBand           string               `json:"riskBand"`
	ConfidenceBaseline int                  `json:"confidenceBaseline"`
	ConfidenceBand     string               `json:"confidenceBand"`
	Automation         string               `json:"automation"`
	Suitability        string               `json:"suitability"`
}

// ComparisonRows builds the comparison table for every canonical format,
// sorted from lowest to highest baseline risk.
func (b *Base) ComparisonRows() []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(b.formatOrder))
	for _, f := range b.Formats() {
		base := scoring.BaselineFor(f.GeometryClass)
		riskBand, _ := scoring.ScoreToBand(base.Risk, scoring.AxisRisk)
		confBand, _ := scoring.ScoreToBand(base.Confidence, scoring.AxisConfidence)
		rows = append(rows, ComparisonRow{
			Extension:          f.Extension,
			GeometryClass:      f.GeometryClass,
			RiskBaseline:       base.Risk,
			RiskBand:           riskBand,
			ConfidenceBaseline: base.Confidence,
			ConfidenceBand:     confBand,
			Automation:         f.Automation,
			Suitability:        suitabilityLine(f.GeometryClass, f.QuoteConfidence),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].RiskBaseline < rows[j].RiskBaseline
	})
	return rows
}

// suitabilityLine is the one-line CNC suitability verdict derived from
// geometry class and DFM quote confidence.
func suitabilityLine(gc models.GeometryClass, conf string) string {
	switch {
	case gc == models.ClassBRep && conf == "High":
		return "Ideal for CNC: exact geometry, reliable quoting"
	case gc == models.ClassBRep:
		return "Good for CNC: exact geometry, verify completeness"
	case gc == models.ClassSurface && (conf == "High" || conf == "Medium"):
		return "Usable for CNC: may need healing; STEP preferred"
	case gc == models.ClassSurface:
		return "Risky for CNC: surface gaps common; healing required"
	case gc == models.ClassMesh:
		return "Poor for CNC: no exact geometry; reverse engineering likely needed"
	case gc == models.ClassParametric && conf == "High":
		return "Excellent in-house: requires native CAD; export to STEP for handoff"
	case gc == models.ClassParametric:
		return "Good if accessible: requires native CAD license to open"
	case gc == models.ClassDrawing2D && (conf == "High" || conf == "Medium"):
		return "Good for 2D CNC / profiles: confirm dims and tolerances"
	default:
		return "Usable for 2D work: verify completeness"
	}
}

// QuotingReality turns a profile's confidence/risk/automation ratings into
// a short narrative paragraph.
func QuotingReality(f *models.FormatProfile) string {
	var parts []string

	switch f.QuoteConfidence {
	case "High":
		parts = append(parts, "Quote confidence is high: the format usually carries enough information to estimate and program without guesswork.")
	case "Medium":
		parts = append(parts, "Quote confidence is medium: you can often quote from the file, but missing details (units, tolerances, condition) may require a round of clarification.")
	default:
		parts = append(parts, "Quote confidence is low: the file alone is rarely enough to quote accurately; expect to ask for units, native or STEP geometry, or additional specs.")
	}

	switch f.RiskBaseline {
	case "High":
		parts = append(parts, "Baseline quote risk is high: rework, miscommunication, or conversion failures are more likely.")
	case "Medium":
		parts = append(parts, "Baseline quote risk is medium; access to the right tools or a neutral export reduces risk.")
	default:
		parts = append(parts, "Baseline quote risk is low for CNC intake.")
	}

	switch f.Automation {
	case "High":
		parts = append(parts, "Automation friendliness is high: the format is well suited to scripted checks and toolpath generation.")
	case "Medium":
		parts = append(parts, "Automation is possible but may require format-specific handling or cleanup.")
	default:
		parts = append(parts, "Automation is limited; manual review or conversion is often needed.")
	}

	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// ScoringReference documents, per format, the baseline and which metric
// adjustments can apply when a file of that format is analyzed.
type ScoringReference struct {
	RiskBaseline       int      `json:"riskBaseline"`
	ConfidenceBaseline int      `json:"confidenceBaseline"`
	Adjustments        []string `json:"adjustments"`
	Note               string   `json:"note,omitempty"`
}

// ScoringReferenceFor builds the scoring reference for a canonical
// extension.
func (b *Base) ScoringReferenceFor(f *models.FormatProfile) ScoringReference {
	base := scoring.BaselineFor(f.GeometryClass)
	ref := ScoringReference{
		RiskBaseline:       base.Risk,
		ConfidenceBaseline: base.Confidence,
	}

	switch {
	case geometry.MeshExtensions[f.Extension]:
		ref.Adjustments = []string{
			"Non-watertight mesh: risk +10, confidence -10 (gaps or holes in the surface)",
			"Multiple disconnected components: risk +8 (more than one body in the file)",
			fmt.Sprintf("High triangle count (>%dk): risk +5 (heavy meshes are harder to process and may indicate poor export)", scoring.HighTriangleCount/1000),
			fmt.Sprintf("Very high triangle count (>%dM): risk +10 (component count is skipped for performance; risk still increases)", scoring.VeryHighTriangleCount/1_000_000),
		}
	case f.Extension == ".dxf":
		ref.Adjustments = []string{
			"Splines present: risk +10, confidence -5 (may need conversion to arcs/polylines for CAM)",
			fmt.Sprintf("Very large extents (max dimension >%d): risk +5 (verify units, e.g. mm vs tenths)", scoring.LargeExtent),
			fmt.Sprintf("Very small extents (0 < max dimension < %d): risk +5 (verify units, e.g. in vs mm)", scoring.SmallExtent),
		}
	default:
		ref.Note = "No file-level metrics are extracted for this format; scoring uses the baseline only."
	}

	return ref
}
