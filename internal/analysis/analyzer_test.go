package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/cad-profiler/backend/internal/knowledge"
	"github.com/cad-profiler/backend/internal/models"
	"github.com/cad-profiler/backend/internal/scoring"
	"github.com/cad-profiler/backend/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	kb, err := knowledge.Load()
	if err != nil {
		t.Fatalf("Failed to load knowledge base: %v", err)
	}
	return NewService(kb)
}

func fileInfo(name string) *models.FileInfo {
	return &models.FileInfo{ID: "file-1", Name: name, Status: "uploaded"}
}

func TestAnalyzeSTL(t *testing.T) {
	svc := newTestService(t)

	report, err := svc.Analyze(Request{
		File: fileInfo("bracket.stl"),
		Data: testutil.BinarySTL(testutil.TetrahedronTris()),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.ID == "" {
		t.Error("Expected report ID")
	}
	if report.GeometryClass != models.ClassMesh {
		t.Errorf("Expected Mesh class, got %s", report.GeometryClass)
	}
	if report.MeshMetrics == nil {
		t.Fatal("Expected mesh metrics")
	}
	if report.MeshMetrics.TriangleCount != 4 {
		t.Errorf("Expected 4 triangles, got %d", report.MeshMetrics.TriangleCount)
	}
	// Clean watertight mesh scores the bare mesh baseline.
	if report.Risk.Score != 75 {
		t.Errorf("Expected risk 75, got %d", report.Risk.Score)
	}
	if report.Risk.Band != "High" {
		t.Errorf("Expected High band, got %s", report.Risk.Band)
	}
	if report.Confidence.Score != 25 {
		t.Errorf("Expected confidence 25, got %d", report.Confidence.Score)
	}
	if report.Workflow != scoring.DefaultWorkflow {
		t.Errorf("Expected default workflow, got %s", report.Workflow)
	}
	if report.ContextualRisk != "High" {
		t.Errorf("Expected contextual High under CNC, got %s", report.ContextualRisk)
	}
	if report.ExtractionWarning != "" {
		t.Errorf("Unexpected warning: %s", report.ExtractionWarning)
	}
	if report.TriageSummary == "" {
		t.Error("Expected triage summary")
	}
	if report.Format == nil || report.Format.Extension != ".stl" {
		t.Error("Expected attached format profile")
	}
}

func TestAnalyzeAliasResolution(t *testing.T) {
	svc := newTestService(t)

	report, err := svc.Analyze(Request{
		File: fileInfo("housing.STP"),
		Data: []byte("ISO-10303-21;"),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.Extension != ".stp" {
		t.Errorf("Expected declared extension .stp, got %s", report.Extension)
	}
	if report.CanonicalExt != ".step" {
		t.Errorf("Expected canonical .step, got %s", report.CanonicalExt)
	}
	if report.GeometryClass != models.ClassBRep {
		t.Errorf("Expected B-Rep, got %s", report.GeometryClass)
	}
	// No extractor for B-Rep: baseline only, no metrics, no warning.
	if report.MeshMetrics != nil || report.DrawingMetrics != nil {
		t.Error("Expected no metrics for B-Rep file")
	}
	if report.Risk.Score != 15 || report.Confidence.Score != 85 {
		t.Errorf("Expected (15,85), got (%d,%d)", report.Risk.Score, report.Confidence.Score)
	}
}

func TestAnalyzeUnknownFormat(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Analyze(Request{
		File: fileInfo("scan.xyz"),
		Data: []byte("0 0 0"),
	})
	if err == nil {
		t.Fatal("Expected error for unknown format")
	}

	var unknownErr *UnknownFormatError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Expected UnknownFormatError, got %T", err)
	}
	if unknownErr.Extension != ".xyz" {
		t.Errorf("Expected extension .xyz, got %s", unknownErr.Extension)
	}
}

func TestAnalyzeCorruptMeshFallsBackToBaseline(t *testing.T) {
	svc := newTestService(t)

	report, err := svc.Analyze(Request{
		File: fileInfo("broken.stl"),
		Data: []byte{0x01, 0x02},
	})
	if err != nil {
		t.Fatalf("Analyze should not fail on corrupt content: %v", err)
	}

	if report.ExtractionWarning == "" {
		t.Error("Expected extraction warning")
	}
	if report.MeshMetrics != nil {
		t.Error("Expected no mesh metrics for corrupt file")
	}
	// Baseline-only scoring.
	if report.Risk.Score != 75 || report.Confidence.Score != 25 {
		t.Errorf("Expected mesh baseline (75,25), got (%d,%d)", report.Risk.Score, report.Confidence.Score)
	}
}

func TestAnalyzeDXF(t *testing.T) {
	svc := newTestService(t)

	var tags []testutil.DXFTag
	tags = append(tags, testutil.DXFLine("OUTLINE", 0, 0, 250, 100)...)
	tags = append(tags, testutil.DXFTag{Code: 0, Value: "SPLINE"}, testutil.DXFTag{Code: 8, Value: "OUTLINE"})

	report, err := svc.Analyze(Request{
		File:     fileInfo("plate.dxf"),
		Data:     testutil.DXF(tags),
		Workflow: scoring.WorkflowSheetMetal,
		Material: "Stainless Steel - 304/316",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.DrawingMetrics == nil {
		t.Fatal("Expected drawing metrics")
	}
	if report.DrawingMetrics.TotalEntities != 2 {
		t.Errorf("Expected 2 entities, got %d", report.DrawingMetrics.TotalEntities)
	}
	// Drawing baseline 45 plus splines +10.
	if report.Risk.Score != 55 {
		t.Errorf("Expected risk 55, got %d", report.Risk.Score)
	}
	if report.Confidence.Score != 45 {
		t.Errorf("Expected confidence 45, got %d", report.Confidence.Score)
	}
	if report.ContextualRisk != "Low" {
		t.Errorf("Expected contextual Low under sheet metal, got %s", report.ContextualRisk)
	}
	if report.Material == nil || report.Material.Name != "Stainless Steel - 304/316" {
		t.Error("Expected attached material profile")
	}
	if !strings.Contains(report.TriageSummary, "splines present") {
		t.Errorf("Expected spline flag in summary: %q", report.TriageSummary)
	}
}

func TestAnalyzeUnknownMaterialDefaults(t *testing.T) {
	svc := newTestService(t)

	report, err := svc.Analyze(Request{
		File: fileInfo("part.step"),
		Data: []byte("ISO-10303-21;"),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.Material == nil || report.Material.Name != knowledge.MaterialUnknown {
		t.Errorf("Expected catch-all material profile, got %+v", report.Material)
	}
	if !strings.Contains(report.TriageSummary, "heat treat condition") {
		t.Errorf("Expected unknown-material ask in summary: %q", report.TriageSummary)
	}
}

func TestAnalyzeExplanationsStartWithBaseline(t *testing.T) {
	svc := newTestService(t)

	report, err := svc.Analyze(Request{
		File: fileInfo("bracket.stl"),
		Data: testutil.BinarySTL(testutil.TetrahedronTris()[:1]),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(report.Explanations) < 2 {
		t.Fatalf("Expected baseline plus watertight explanation, got %v", report.Explanations)
	}
	if !strings.HasPrefix(report.Explanations[0], "Baseline for Mesh") {
		t.Errorf("Expected baseline first, got %q", report.Explanations[0])
	}
	if report.Explanations[1] != "Non-watertight mesh: risk +10, confidence -10" {
		t.Errorf("Unexpected second explanation: %q", report.Explanations[1])
	}
}
