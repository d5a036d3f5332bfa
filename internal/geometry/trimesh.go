package geometry

import (
	"math"

	"github.com/cad-profiler/backend/internal/models"
)

// ComponentSplitMaxTriangles bounds the connected-component pass. Above
// this triangle count the split is skipped and ComponentCount is reported
// as nil ("not computed"), trading disconnection accuracy for bounded
// per-request cost.
const ComponentSplitMaxTriangles = 1_000_000

// TriangleMesh is a flattened, welded triangle soup. Loaders concatenate
// all sub-objects of a file into one vertex/face set before metrics run.
type TriangleMesh struct {
	Vertices [][3]float64
	Faces    [][3]int
}

// vertexWelder deduplicates vertices on exact coordinates while loading, so
// edge adjacency works on formats like STL that repeat vertices per facet.
type vertexWelder struct {
	mesh  *TriangleMesh
	index map[[3]float64]int
}

func newVertexWelder() *vertexWelder {
	return &vertexWelder{
		mesh:  &TriangleMesh{},
		index: make(map[[3]float64]int),
	}
}

func (w *vertexWelder) add(v [3]float64) int {
	if i, ok := w.index[v]; ok {
		return i
	}
	i := len(w.mesh.Vertices)
	w.mesh.Vertices = append(w.mesh.Vertices, v)
	w.index[v] = i
	return i
}

func (w *vertexWelder) addFace(a, b, c [3]float64) {
	w.mesh.Faces = append(w.mesh.Faces, [3]int{w.add(a), w.add(b), w.add(c)})
}

// edgeKey packs an undirected vertex-index pair. Vertex counts are bounded
// well below 2^32 by the triangle cutoff.
func edgeKey(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

// Bounds returns the component-wise min and max over all vertices.
func (m *TriangleMesh) Bounds() (min, max [3]float64) {
	min = m.Vertices[0]
	max = m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return min, max
}

// IsWatertight reports whether every edge is shared by exactly two faces,
// i.e. the mesh is a closed manifold with no boundary edges.
func (m *TriangleMesh) IsWatertight() bool {
	if len(m.Faces) == 0 {
		return false
	}
	edgeUse := make(map[uint64]int, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		edgeUse[edgeKey(f[0], f[1])]++
		edgeUse[edgeKey(f[1], f[2])]++
		edgeUse[edgeKey(f[2], f[0])]++
	}
	for _, n := range edgeUse {
		if n != 2 {
			return false
		}
	}
	return true
}

// ComponentCount splits the mesh into maximal face-connected sub-meshes and
// returns how many there are. Connectivity is shared-edge adjacency only;
// the components are not required to be individually watertight, so several
// touching-but-open shells still count separately.
func (m *TriangleMesh) ComponentCount() int {
	if len(m.Faces) == 0 {
		return 0
	}

	parent := make([]int, len(m.Faces))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	// First face seen per edge; later faces on the same edge are unioned.
	edgeFace := make(map[uint64]int, len(m.Faces)*3/2)
	for fi, f := range m.Faces {
		for _, e := range [3]uint64{
			edgeKey(f[0], f[1]),
			edgeKey(f[1], f[2]),
			edgeKey(f[2], f[0]),
		} {
			if other, ok := edgeFace[e]; ok {
				union(fi, other)
			} else {
				edgeFace[e] = fi
			}
		}
	}

	roots := make(map[int]struct{})
	for fi := range m.Faces {
		roots[find(fi)] = struct{}{}
	}
	return len(roots)
}

// round4 rounds to 4 decimal places for display stability. Cosmetic only;
// scoring thresholds operate on the raw triangle count.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func roundedVec(v [3]float64) models.Vec3 {
	return models.Vec3{X: round4(v[0]), Y: round4(v[1]), Z: round4(v[2])}
}

// Metrics measures the mesh. The component pass is skipped entirely when
// the triangle count exceeds ComponentSplitMaxTriangles; the cutoff check
// uses the triangle count alone.
func (m *TriangleMesh) Metrics() *models.MeshMetrics {
	min, max := m.Bounds()
	size := [3]float64{max[0] - min[0], max[1] - min[1], max[2] - min[2]}

	var componentCount *int
	if len(m.Faces) <= ComponentSplitMaxTriangles {
		n := m.ComponentCount()
		componentCount = &n
	}

	return &models.MeshMetrics{
		TriangleCount: len(m.Faces),
		Bounds: models.BoundingBox{
			Min:  roundedVec(min),
			Max:  roundedVec(max),
			Size: roundedVec(size),
		},
		IsWatertight:   m.IsWatertight(),
		ComponentCount: componentCount,
	}
}
