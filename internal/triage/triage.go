// Package triage composes the human-readable synopsis appended to every
// analysis report: two sentences a quoting engineer can paste into an
// intake note.
package triage

import (
	"fmt"
	"strings"

	"github.com/cad-profiler/backend/internal/knowledge"
	"github.com/cad-profiler/backend/internal/models"
	"github.com/cad-profiler/backend/internal/scoring"
)

// unknownClause is appended to the next-ask when no material was given.
const unknownClause = "material, heat treat condition, and any coatings/special processes"

var workflowLabels = map[string]string{
	scoring.WorkflowCNCMachining: "CNC machining intake",
	scoring.Workflow3DPrinting:   "3D printing intake",
	scoring.WorkflowSheetMetal:   "sheet metal intake",
}

// Input bundles everything the summary draws from.
type Input struct {
	Format         *models.FormatProfile
	ContextualRisk string
	Workflow       string
	Material       string
	MeshMetrics    *models.MeshMetrics
	DrawingMetrics *models.DrawingMetrics
}

// Summary returns exactly two sentences. The first states geometry class
// and risk (mentioning the adjusted label only when it differs from the
// format baseline) followed by any true issue flags joined with
// semicolons. The second is the next-ask recommendation selected by
// geometry class.
func Summary(in Input) string {
	gc := in.Format.GeometryClass
	baseline := in.Format.RiskBaseline
	matLabel := knowledge.MaterialTriageLabel(in.Material)
	unknownMaterial := in.Material == knowledge.MaterialUnknown

	var riskPart string
	if in.ContextualRisk == baseline {
		riskPart = fmt.Sprintf(
			"Material: %s - %s geometry with %s quote risk",
			matLabel, gc, strings.ToLower(baseline),
		)
	} else {
		workflow := workflowLabels[in.Workflow]
		if workflow == "" {
			workflow = workflowLabels[scoring.DefaultWorkflow]
		}
		riskPart = fmt.Sprintf(
			"Material: %s - %s geometry with %s baseline risk, adjusted to %s for %s",
			matLabel, gc, strings.ToLower(baseline), strings.ToLower(in.ContextualRisk), workflow,
		)
	}

	var issues []string
	if in.MeshMetrics != nil {
		if !in.MeshMetrics.IsWatertight {
			issues = append(issues, "mesh is not watertight")
		}
		if cc := in.MeshMetrics.ComponentCount; cc != nil && *cc > 1 {
			issues = append(issues, fmt.Sprintf("%d disconnected components detected", *cc))
		}
	}
	if in.DrawingMetrics != nil {
		if in.DrawingMetrics.CountOf("SPLINE") > 0 {
			issues = append(issues, "splines present that may need conversion for CAM")
		}
	}

	sentence1 := riskPart + "."
	if len(issues) > 0 {
		sentence1 = fmt.Sprintf("%s: %s.", riskPart, strings.Join(issues, "; "))
	}

	return sentence1 + " " + nextAsk(gc, unknownMaterial)
}

// nextAsk picks the follow-up recommendation solely by geometry class.
func nextAsk(gc models.GeometryClass, unknownMaterial bool) string {
	switch gc {
	case models.ClassMesh:
		if unknownMaterial {
			return "Confirm units (mm vs in) and request a STEP or native CAD file if available; also confirm " + unknownClause + "."
		}
		return "Confirm units (mm vs in) and request a STEP or native CAD file if available."
	case models.ClassDrawing2D:
		if unknownMaterial {
			return "Confirm dimensions, tolerances, and material thickness are specified in the drawing; also confirm " + unknownClause + "."
		}
		return "Confirm dimensions, tolerances, and material thickness are specified in the drawing."
	default:
		if unknownMaterial {
			return "Confirm tolerances, surface finish requirements, " + unknownClause + "."
		}
		return "Confirm tolerances and surface finish requirements."
	}
}
