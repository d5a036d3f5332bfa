package geometry

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// binarySTLHeaderSize is the fixed header before the uint32 facet count.
const binarySTLHeaderSize = 80

// binarySTLFacetSize is 12 little-endian float32s (normal + 3 vertices)
// plus a 2-byte attribute count.
const binarySTLFacetSize = 50

// loadSTL reads either STL flavor. Detection cannot rely on the "solid"
// keyword alone: plenty of binary exporters write headers that start with
// it, so the layout check decides.
func loadSTL(data []byte) (*TriangleMesh, error) {
	if looksLikeASCIISTL(data) {
		return loadASCIISTL(data)
	}
	return loadBinarySTL(data)
}

func looksLikeASCIISTL(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("solid")) {
		return false
	}
	// A binary file of matching length is binary no matter what the
	// header says.
	if len(data) >= binarySTLHeaderSize+4 {
		count := binary.LittleEndian.Uint32(data[binarySTLHeaderSize : binarySTLHeaderSize+4])
		if len(data) == binarySTLHeaderSize+4+int(count)*binarySTLFacetSize {
			return false
		}
	}
	head := trimmed
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("facet"))
}

func loadBinarySTL(data []byte) (*TriangleMesh, error) {
	if len(data) < binarySTLHeaderSize+4 {
		return nil, fmt.Errorf("binary STL truncated: %d bytes", len(data))
	}
	count := binary.LittleEndian.Uint32(data[binarySTLHeaderSize : binarySTLHeaderSize+4])
	want := binarySTLHeaderSize + 4 + int(count)*binarySTLFacetSize
	if len(data) < want {
		return nil, fmt.Errorf("binary STL truncated: header declares %d facets, need %d bytes, have %d", count, want, len(data))
	}

	w := newVertexWelder()
	off := binarySTLHeaderSize + 4
	for i := 0; i < int(count); i++ {
		// Skip the 12-byte normal; it is recomputable and does not
		// affect any metric.
		base := off + i*binarySTLFacetSize + 12
		var tri [3][3]float64
		for v := 0; v < 3; v++ {
			for c := 0; c < 3; c++ {
				bits := binary.LittleEndian.Uint32(data[base+(v*3+c)*4:])
				f := float64(math.Float32frombits(bits))
				if math.IsNaN(f) || math.IsInf(f, 0) {
					return nil, fmt.Errorf("binary STL facet %d has non-finite coordinate", i)
				}
				tri[v][c] = f
			}
		}
		w.addFace(tri[0], tri[1], tri[2])
	}
	return w.mesh, nil
}

func loadASCIISTL(data []byte) (*TriangleMesh, error) {
	w := newVertexWelder()
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var tri [3][3]float64
	vi := 0
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("ASCII STL line %d: malformed vertex", line)
		}
		for c := 0; c < 3; c++ {
			v, err := strconv.ParseFloat(fields[c+1], 64)
			if err != nil {
				return nil, fmt.Errorf("ASCII STL line %d: %w", line, err)
			}
			tri[vi][c] = v
		}
		vi++
		if vi == 3 {
			w.addFace(tri[0], tri[1], tri[2])
			vi = 0
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ASCII STL: %w", err)
	}
	if vi != 0 {
		return nil, fmt.Errorf("ASCII STL ends mid-facet (%d dangling vertices)", vi)
	}
	return w.mesh, nil
}
