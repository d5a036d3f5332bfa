// Package geometry extracts quoting-relevant metrics from uploaded CAD
// geometry: triangle meshes (STL, OBJ) and text drawings (DXF). Extractors
// return a metrics record or an *ExtractionError; they never panic across
// the package boundary, so callers branch on the result instead of
// recovering.
package geometry

import (
	"strings"

	"github.com/cad-profiler/backend/internal/models"
)

// MeshExtensions lists the mesh formats the extractor can load.
var MeshExtensions = map[string]bool{
	".stl": true,
	".obj": true,
}

// ExtractMeshMetrics loads a mesh from raw bytes using the declared format
// tag and measures it. Multi-object sources are flattened into a single
// combined mesh before measuring.
func ExtractMeshMetrics(data []byte, format string) (*models.MeshMetrics, error) {
	format = strings.ToLower(format)

	var (
		mesh *TriangleMesh
		err  error
	)
	switch format {
	case ".stl", "stl":
		mesh, err = loadSTL(data)
		format = "STL"
	case ".obj", "obj":
		mesh, err = loadOBJ(data)
		format = "OBJ"
	default:
		return nil, unsupportedErr("mesh", "unrecognized format tag "+format)
	}
	if err != nil {
		return nil, parseErr(format, err)
	}

	if len(mesh.Vertices) == 0 {
		return nil, emptyErr(format + " mesh")
	}
	if len(mesh.Faces) == 0 {
		// Vertices without faces is a point cloud, not a triangulated
		// surface.
		return nil, unsupportedErr(format, "no triangulated faces (point cloud?)")
	}

	return mesh.Metrics(), nil
}
