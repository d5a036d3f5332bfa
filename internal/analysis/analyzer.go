// Package analysis orchestrates one file assessment: format
// classification, metric extraction, scoring, banding, contextual
// adjustment, and triage composition. Analysis is synchronous; every call
// gets fresh records and shares only the read-only knowledge base.
package analysis

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cad-profiler/backend/internal/geometry"
	"github.com/cad-profiler/backend/internal/knowledge"
	"github.com/cad-profiler/backend/internal/models"
	"github.com/cad-profiler/backend/internal/scoring"
	"github.com/cad-profiler/backend/internal/triage"
	"github.com/google/uuid"
)

// UnknownFormatError is returned when the declared extension has no
// profile in the format knowledge base. The file is never scored; a
// baseline fallback here would fabricate a risk number for a format the
// system knows nothing about.
type UnknownFormatError struct {
	Extension string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("no format profile in knowledge base for extension %q", e.Extension)
}

// Request is one analysis call.
type Request struct {
	File     *models.FileInfo
	Data     []byte
	Material string // empty means not specified
	Workflow string // empty means scoring.DefaultWorkflow
}

// Service runs analyses against a loaded knowledge base.
type Service struct {
	kb *knowledge.Base
}

func NewService(kb *knowledge.Base) *Service {
	return &Service{kb: kb}
}

// Analyze classifies, measures, and scores one uploaded file. Extraction
// failures are not fatal: the report carries the failure message as a
// warning and the scores fall back to the format baseline. Only an unknown
// extension aborts the analysis.
func (s *Service) Analyze(req Request) (*models.AnalysisReport, error) {
	ext := strings.ToLower(filepath.Ext(req.File.Name))
	canonical := s.kb.Resolve(ext)

	format, ok := s.kb.Format(ext)
	if !ok {
		return nil, &UnknownFormatError{Extension: ext}
	}

	workflow := req.Workflow
	if workflow == "" {
		workflow = scoring.DefaultWorkflow
	}

	material := req.Material
	if material == "" {
		material = knowledge.MaterialUnknown
	}

	var (
		meshMetrics    *models.MeshMetrics
		drawingMetrics *models.DrawingMetrics
		warning        string
	)
	switch {
	case geometry.MeshExtensions[canonical]:
		m, err := geometry.ExtractMeshMetrics(req.Data, canonical)
		if err != nil {
			warning = err.Error()
		} else {
			meshMetrics = m
		}
	case canonical == ".dxf":
		d, err := geometry.ExtractDrawingMetrics(req.Data)
		if err != nil {
			warning = err.Error()
		} else {
			drawingMetrics = d
		}
	}
	// Remaining classes (B-Rep, Surface, Parametric, DWG) carry no
	// file-level metric extraction; they score on the baseline alone.

	score := scoring.ComputeScores(format.GeometryClass, meshMetrics, drawingMetrics)
	contextual := scoring.ContextualRisk(canonical, format.GeometryClass, workflow)

	summary := triage.Summary(triage.Input{
		Format:         format,
		ContextualRisk: contextual,
		Workflow:       workflow,
		Material:       material,
		MeshMetrics:    meshMetrics,
		DrawingMetrics: drawingMetrics,
	})

	report := &models.AnalysisReport{
		ID:                uuid.New().String(),
		File:              req.File,
		Extension:         ext,
		CanonicalExt:      canonical,
		GeometryClass:     format.GeometryClass,
		Risk:              scoring.Banded(score.Risk, scoring.AxisRisk),
		Confidence:        scoring.Banded(score.Confidence, scoring.AxisConfidence),
		ContextualRisk:    contextual,
		Workflow:          workflow,
		Explanations:      score.Explanations,
		MeshMetrics:       meshMetrics,
		DrawingMetrics:    drawingMetrics,
		ExtractionWarning: warning,
		TriageSummary:     summary,
		Format:            format,
		CreatedAt:         time.Now(),
	}

	if mat, ok := s.kb.Material(material); ok {
		report.Material = mat
	}

	return report, nil
}
