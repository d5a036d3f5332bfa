package models

// GeometryClass is the coarse category of a CAD file's content fidelity.
// It is derived from the file extension via the format knowledge base,
// never inferred from file content.
type GeometryClass string

const (
	ClassBRep       GeometryClass = "B-Rep"
	ClassSurface    GeometryClass = "Surface"
	ClassMesh       GeometryClass = "Mesh"
	ClassParametric GeometryClass = "Parametric"
	ClassDrawing2D  GeometryClass = "2D Drawing"
)

// Vec3 is a point or size in file-native units. Units are not normalized
// or inferred; mesh formats frequently do not encode them at all.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BoundingBox is an axis-aligned extent.
type BoundingBox struct {
	Min  Vec3 `json:"min"`
	Max  Vec3 `json:"max"`
	Size Vec3 `json:"size"`
}

// MeshMetrics holds the geometric measurements extracted from one mesh
// upload. Records are created per analysis and never mutated afterwards.
type MeshMetrics struct {
	TriangleCount int         `json:"triangleCount"`
	Bounds        BoundingBox `json:"bounds"`
	IsWatertight  bool        `json:"isWatertight"`

	// ComponentCount is nil when the triangle count exceeded the split
	// cutoff and the component pass was skipped. Nil means "not computed",
	// not "one component".
	ComponentCount *int `json:"componentCount"`
}

// EntityCount is one tracked-entity-type tally in a drawing.
type EntityCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// DrawingMetrics holds the measurements extracted from one 2D/3D drawing
// upload. CountsByType is ordered by the tracked-type allow-list, not by
// first appearance in the file.
type DrawingMetrics struct {
	TotalEntities int           `json:"totalEntities"`
	CountsByType  []EntityCount `json:"countsByType"`
	LayerCount    int           `json:"layerCount"`

	// Extents is nil when the drawing has no geometric content.
	Extents *BoundingBox `json:"extents"`
}

// CountOf returns the tally for one tracked entity type, zero if the type
// was not seen (or is not tracked).
func (m *DrawingMetrics) CountOf(entityType string) int {
	for _, ec := range m.CountsByType {
		if ec.Type == entityType {
			return ec.Count
		}
	}
	return 0
}

// IsPlanar reports whether the drawing content is flat. A zero Z extent is
// the planarity signal; there is no separate stored flag.
func (m *DrawingMetrics) IsPlanar() bool {
	return m.Extents != nil && m.Extents.Size.Z == 0
}
