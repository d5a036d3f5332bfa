package geometry

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// loadOBJ reads a Wavefront OBJ. Object and group statements are ignored,
// which flattens a multi-object file into one combined face set. Faces with
// more than three vertices are fan-triangulated. A file with vertices but
// no faces (a point cloud or polyline export) is rejected by the extractor,
// not here.
func loadOBJ(data []byte) (*TriangleMesh, error) {
	mesh := &TriangleMesh{}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("OBJ line %d: vertex needs 3 coordinates", line)
			}
			var v [3]float64
			for c := 0; c < 3; c++ {
				f, err := strconv.ParseFloat(fields[c+1], 64)
				if err != nil {
					return nil, fmt.Errorf("OBJ line %d: %w", line, err)
				}
				v[c] = f
			}
			mesh.Vertices = append(mesh.Vertices, v)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("OBJ line %d: face needs at least 3 vertices", line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := parseOBJIndex(ref, len(mesh.Vertices))
				if err != nil {
					return nil, fmt.Errorf("OBJ line %d: %w", line, err)
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				mesh.Faces = append(mesh.Faces, [3]int{idx[0], idx[k], idx[k+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return mesh, nil
}

// parseOBJIndex resolves a face vertex reference ("7", "7/2", "7//3",
// "-1") to a zero-based vertex index. Negative references count back from
// the most recently declared vertex.
func parseOBJIndex(ref string, vertexCount int) (int, error) {
	if s := strings.IndexByte(ref, '/'); s >= 0 {
		ref = ref[:s]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("bad face index %q: %w", ref, err)
	}
	switch {
	case n > 0 && n <= vertexCount:
		return n - 1, nil
	case n < 0 && -n <= vertexCount:
		return vertexCount + n, nil
	default:
		return 0, fmt.Errorf("face index %d out of range (have %d vertices)", n, vertexCount)
	}
}
