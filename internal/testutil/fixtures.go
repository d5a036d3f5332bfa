// fixtures.go - CAD file fixtures for testing
package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Tri is one triangle given by its three corner coordinates.
type Tri [3][3]float64

// TetrahedronTris returns the four faces of a unit tetrahedron. Every edge
// is shared by exactly two faces, so the resulting mesh is watertight.
func TetrahedronTris() []Tri {
	a := [3]float64{0, 0, 0}
	b := [3]float64{1, 0, 0}
	c := [3]float64{0, 1, 0}
	d := [3]float64{0, 0, 1}
	return []Tri{
		{a, b, c},
		{a, b, d},
		{a, c, d},
		{b, c, d},
	}
}

// TranslateTris shifts every vertex of each triangle by (dx, dy, dz).
func TranslateTris(tris []Tri, dx, dy, dz float64) []Tri {
	out := make([]Tri, len(tris))
	for i, t := range tris {
		for j := 0; j < 3; j++ {
			out[i][j] = [3]float64{t[j][0] + dx, t[j][1] + dy, t[j][2] + dz}
		}
	}
	return out
}

// BinarySTL encodes triangles as a binary STL payload.
func BinarySTL(tris []Tri) []byte {
	var buf bytes.Buffer
	header := make([]byte, 80)
	copy(header, "test fixture")
	buf.Write(header)
	binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, t := range tris {
		// Normal is ignored by the loader
		binary.Write(&buf, binary.LittleEndian, [3]float32{0, 0, 0})
		for _, v := range t {
			binary.Write(&buf, binary.LittleEndian, [3]float32{
				float32(v[0]), float32(v[1]), float32(v[2]),
			})
		}
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

// ASCIISTL encodes triangles as an ASCII STL payload.
func ASCIISTL(name string, tris []Tri) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "solid %s\n", name)
	for _, t := range tris {
		sb.WriteString("  facet normal 0 0 0\n    outer loop\n")
		for _, v := range t {
			fmt.Fprintf(&sb, "      vertex %s %s %s\n",
				formatCoord(v[0]), formatCoord(v[1]), formatCoord(v[2]))
		}
		sb.WriteString("    endloop\n  endfacet\n")
	}
	fmt.Fprintf(&sb, "endsolid %s\n", name)
	return []byte(sb.String())
}

func formatCoord(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%g", v)
}

// OBJ encodes triangles as a Wavefront OBJ payload. Vertices are shared
// across faces so edge adjacency is preserved.
func OBJ(tris []Tri) []byte {
	var sb strings.Builder
	sb.WriteString("# test fixture\n")
	index := make(map[[3]float64]int)
	var faces [][3]int
	for _, t := range tris {
		var f [3]int
		for j, v := range t {
			i, ok := index[v]
			if !ok {
				i = len(index)
				index[v] = i
				fmt.Fprintf(&sb, "v %g %g %g\n", v[0], v[1], v[2])
			}
			f[j] = i + 1
		}
		faces = append(faces, f)
	}
	for _, f := range faces {
		fmt.Fprintf(&sb, "f %d %d %d\n", f[0], f[1], f[2])
	}
	return []byte(sb.String())
}

// DXFTag is one group code / value pair.
type DXFTag struct {
	Code  int
	Value string
}

// DXF builds a minimal DXF document whose ENTITIES section contains the
// given tags.
func DXF(entityTags []DXFTag) []byte {
	var sb strings.Builder
	write := func(code int, value string) {
		fmt.Fprintf(&sb, "%d\n%s\n", code, value)
	}
	write(0, "SECTION")
	write(2, "HEADER")
	write(0, "ENDSEC")
	write(0, "SECTION")
	write(2, "ENTITIES")
	for _, t := range entityTags {
		write(t.Code, t.Value)
	}
	write(0, "ENDSEC")
	write(0, "EOF")
	return []byte(sb.String())
}

// DXFLine returns the tags for a LINE entity on the given layer.
func DXFLine(layer string, x1, y1, x2, y2 float64) []DXFTag {
	return []DXFTag{
		{0, "LINE"},
		{8, layer},
		{10, fmt.Sprintf("%g", x1)},
		{20, fmt.Sprintf("%g", y1)},
		{11, fmt.Sprintf("%g", x2)},
		{21, fmt.Sprintf("%g", y2)},
	}
}

// DXFCircle returns the tags for a CIRCLE entity on the given layer.
func DXFCircle(layer string, cx, cy, radius float64) []DXFTag {
	return []DXFTag{
		{0, "CIRCLE"},
		{8, layer},
		{10, fmt.Sprintf("%g", cx)},
		{20, fmt.Sprintf("%g", cy)},
		{40, fmt.Sprintf("%g", radius)},
	}
}
