package models

import "time"

// AnalysisReport is the full outcome of analyzing one uploaded file. It is
// assembled fresh per analyze call and stored only for the report-store
// retention window; there is no cross-request mutation.
type AnalysisReport struct {
	ID           string    `json:"id"`
	File         *FileInfo `json:"file"`
	Extension    string    `json:"extension"`
	CanonicalExt string    `json:"canonicalExt"`

	GeometryClass  GeometryClass `json:"geometryClass"`
	Risk           BandedScore   `json:"risk"`
	Confidence     BandedScore   `json:"confidence"`
	ContextualRisk string        `json:"contextualRisk"`
	Workflow       string        `json:"workflow"`
	Explanations   []string      `json:"explanations"`

	MeshMetrics    *MeshMetrics    `json:"meshMetrics,omitempty"`
	DrawingMetrics *DrawingMetrics `json:"drawingMetrics,omitempty"`

	// ExtractionWarning is set when metric extraction failed and scoring
	// fell back to the format baseline. The analysis still completes.
	ExtractionWarning string `json:"extractionWarning,omitempty"`

	TriageSummary string `json:"triageSummary"`

	Format   *FormatProfile   `json:"format"`
	Material *MaterialProfile `json:"material,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// MaterialName returns the report's material name, or empty when the
// material was unknown to the knowledge base.
func (r *AnalysisReport) MaterialName() string {
	if r.Material == nil {
		return ""
	}
	return r.Material.Name
}
