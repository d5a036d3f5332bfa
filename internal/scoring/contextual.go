package scoring

import "github.com/cad-profiler/backend/internal/models"

// Workflow contexts the contextual adjuster knows about.
const (
	WorkflowCNCMachining = "cnc-machining"
	Workflow3DPrinting   = "3d-printing"
	WorkflowSheetMetal   = "sheet-metal"

	// DefaultWorkflow is assumed when the caller does not name one.
	DefaultWorkflow = WorkflowCNCMachining
)

// contextualDefault is returned when neither an extension override nor a
// class default is defined for the workflow.
const contextualDefault = "Medium"

type workflowOverrides struct {
	byExtension map[string]string
	byClass     map[models.GeometryClass]string
}

// contextualOverrides maps workflow context to its qualitative risk
// tables. This label is a second, independent signal shown alongside the
// numeric band; consumers must not merge the two.
var contextualOverrides = map[string]workflowOverrides{
	WorkflowCNCMachining: {
		byClass: map[models.GeometryClass]string{
			models.ClassBRep:       "Low",
			models.ClassSurface:    "Medium",
			models.ClassMesh:       "High",
			models.ClassParametric: "Medium",
			models.ClassDrawing2D:  "Medium",
		},
		byExtension: map[string]string{
			// Assemblies quote per part; a single machining intake file
			// that turns out to be an assembly usually stalls the quote.
			".sldasm": "High",
		},
	},
	Workflow3DPrinting: {
		byClass: map[models.GeometryClass]string{
			models.ClassBRep:       "Low",
			models.ClassSurface:    "Medium",
			models.ClassMesh:       "Low",
			models.ClassParametric: "Medium",
			models.ClassDrawing2D:  "High",
		},
		byExtension: map[string]string{
			// OBJ is an appearance format; printable but units and
			// manifoldness are rarely trustworthy.
			".obj": "Medium",
		},
	},
	WorkflowSheetMetal: {
		byClass: map[models.GeometryClass]string{
			models.ClassBRep:       "Medium",
			models.ClassSurface:    "High",
			models.ClassMesh:       "High",
			models.ClassParametric: "Medium",
			models.ClassDrawing2D:  "Low",
		},
		byExtension: map[string]string{
			// DWG profiles often mix 2D layouts with stray 3D data.
			".dwg": "Medium",
		},
	},
}

// KnownWorkflow reports whether the adjuster has tables for a workflow.
func KnownWorkflow(workflow string) bool {
	_, ok := contextualOverrides[workflow]
	return ok
}

// ContextualRisk resolves the qualitative risk label for a canonical
// extension and geometry class under a workflow context. Resolution order:
// extension override, then geometry-class default, then "Medium".
func ContextualRisk(canonicalExt string, gc models.GeometryClass, workflow string) string {
	ov, ok := contextualOverrides[workflow]
	if !ok {
		ov = contextualOverrides[DefaultWorkflow]
	}
	if label, ok := ov.byExtension[canonicalExt]; ok {
		return label
	}
	if label, ok := ov.byClass[gc]; ok {
		return label
	}
	return contextualDefault
}
