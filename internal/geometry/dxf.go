package geometry

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cad-profiler/backend/internal/models"
	"golang.org/x/text/encoding/charmap"
)

// TrackedEntityTypes is the allow-list of drawing entity types reported
// individually. CountsByType follows this order, not file order. Entities
// outside the list still count toward the total.
var TrackedEntityTypes = []string{
	"LINE",
	"ARC",
	"CIRCLE",
	"LWPOLYLINE",
	"POLYLINE",
	"SPLINE",
	"TEXT",
	"MTEXT",
}

// ExtractDrawingMetrics parses a DXF from raw bytes and tallies its model
// space: total entities, tracked-type counts, distinct layers, and overall
// extents. Legacy exporters frequently mislabel encodings, so a failed
// UTF-8 decode falls back to Latin-1 rather than rejecting the file.
func ExtractDrawingMetrics(data []byte) (*models.DrawingMetrics, error) {
	text, err := decodeDrawingText(data)
	if err != nil {
		return nil, parseErr("DXF", err)
	}

	metrics, err := parseDXF(text)
	if err != nil {
		return nil, parseErr("DXF", err)
	}
	return metrics, nil
}

// decodeDrawingText decodes UTF-8 with a Latin-1 retry. Latin-1 maps every
// byte, so the fallback itself cannot fail; only genuinely unreadable input
// errors out at the parse stage.
func decodeDrawingText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding drawing text: %w", err)
	}
	return string(decoded), nil
}

// dxfTag is one group-code/value pair from the tagged DXF structure.
type dxfTag struct {
	code  int
	value string
}

func readDXFTags(text string) ([]dxfTag, error) {
	sc := bufio.NewScanner(bytes.NewReader([]byte(text)))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var tags []dxfTag
	line := 0
	for sc.Scan() {
		line++
		codeStr := strings.TrimSpace(sc.Text())
		if !sc.Scan() {
			return nil, fmt.Errorf("line %d: group code %q has no value line", line, codeStr)
		}
		line++
		code, err := strconv.Atoi(codeStr)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad group code %q", line-1, codeStr)
		}
		// Values keep interior whitespace; only the line ending is
		// stripped.
		tags = append(tags, dxfTag{code: code, value: strings.TrimRight(sc.Text(), "\r")})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// extentsAccum accumulates per-axis min/max over all geometry-bearing
// coordinates seen in model space.
type extentsAccum struct {
	hasData  bool
	min, max [3]float64
}

func (a *extentsAccum) point(x, y, z float64) {
	if !a.hasData {
		a.min = [3]float64{x, y, z}
		a.max = a.min
		a.hasData = true
		return
	}
	p := [3]float64{x, y, z}
	for i := 0; i < 3; i++ {
		if p[i] < a.min[i] {
			a.min[i] = p[i]
		}
		if p[i] > a.max[i] {
			a.max[i] = p[i]
		}
	}
}

func (a *extentsAccum) box() *models.BoundingBox {
	if !a.hasData {
		return nil
	}
	size := [3]float64{a.max[0] - a.min[0], a.max[1] - a.min[1], a.max[2] - a.min[2]}
	return &models.BoundingBox{
		Min:  roundedVec(a.min),
		Max:  roundedVec(a.max),
		Size: roundedVec(size),
	}
}

// entityState carries the per-entity parse state needed to turn tag runs
// into extents contributions.
type entityState struct {
	dxfType    string
	paperSpace bool
	radius     float64
	hasRadius  bool
	// Set once a legacy POLYLINE starts its VERTEX run; later tags
	// belong to the sub-records, not the polyline header.
	inVertices bool
	// Center point for radial entities, deferred until the radius is
	// known; other points contribute immediately.
	points [][3]float64
	curX   float64
	curY   float64
	hasXY  bool
	curZ   float64
}

func (e *entityState) flushPoint() {
	if e.hasXY {
		e.points = append(e.points, [3]float64{e.curX, e.curY, e.curZ})
	}
	e.hasXY = false
	e.curZ = 0
}

func (e *entityState) finish(t *drawingTally, layer string) {
	e.flushPoint()
	if e.paperSpace {
		// Model space only; layout entities do not describe the part.
		return
	}
	t.total++
	if t.tracked[e.dxfType] {
		t.countsByType[e.dxfType]++
	}
	t.layers[layer] = struct{}{}

	radial := e.hasRadius && (e.dxfType == "CIRCLE" || e.dxfType == "ARC")
	for _, p := range e.points {
		if radial {
			// Conservative radial expansion in the drawing plane;
			// good enough for unit-scale sanity checks.
			t.acc.point(p[0]-e.radius, p[1]-e.radius, p[2])
			t.acc.point(p[0]+e.radius, p[1]+e.radius, p[2])
		} else {
			t.acc.point(p[0], p[1], p[2])
		}
	}
}

// drawingTally collects the model-space totals while entities stream by.
type drawingTally struct {
	total        int
	countsByType map[string]int
	tracked      map[string]bool
	layers       map[string]struct{}
	acc          *extentsAccum
}

func parseDXF(text string) (*models.DrawingMetrics, error) {
	tags, err := readDXFTags(text)
	if err != nil {
		return nil, err
	}

	tally := &drawingTally{
		countsByType: make(map[string]int),
		tracked:      make(map[string]bool, len(TrackedEntityTypes)),
		layers:       make(map[string]struct{}),
		acc:          &extentsAccum{},
	}
	for _, t := range TrackedEntityTypes {
		tally.tracked[t] = true
	}

	inEntities := false
	var sectionName string
	var cur *entityState
	curLayer := "0"

	finishCurrent := func() {
		if cur != nil {
			cur.finish(tally, curLayer)
			cur = nil
		}
	}

	for i := 0; i < len(tags); i++ {
		tag := tags[i]

		if tag.code == 0 {
			switch tag.value {
			case "SECTION":
				sectionName = ""
				continue
			case "ENDSEC":
				finishCurrent()
				inEntities = false
				continue
			case "EOF":
				finishCurrent()
				continue
			}

			if !inEntities {
				continue
			}

			// Legacy POLYLINE geometry lives in VERTEX sub-records
			// terminated by SEQEND; only the POLYLINE itself is an
			// entity.
			if cur != nil && cur.dxfType == "POLYLINE" {
				switch tag.value {
				case "VERTEX":
					if !cur.inVertices {
						// The header point is a placeholder,
						// not geometry.
						cur.points = nil
						cur.hasXY = false
						cur.inVertices = true
					}
					continue
				case "SEQEND":
					finishCurrent()
					continue
				}
			}

			// A new entity begins; close out the previous one.
			finishCurrent()
			cur = &entityState{dxfType: tag.value}
			curLayer = "0"
			continue
		}

		if tag.code == 2 && sectionName == "" {
			sectionName = tag.value
			inEntities = tag.value == "ENTITIES"
			continue
		}

		if cur == nil {
			continue
		}

		switch {
		case tag.code == 8:
			// VERTEX/SEQEND layers do not count; the polyline's
			// own layer already has.
			if !cur.inVertices {
				curLayer = tag.value
			}
		case tag.code == 67:
			cur.paperSpace = strings.TrimSpace(tag.value) == "1"
		case tag.code == 40 && !cur.hasRadius:
			if v, err := strconv.ParseFloat(strings.TrimSpace(tag.value), 64); err == nil {
				cur.radius = v
				cur.hasRadius = true
			}
		case tag.code >= 10 && tag.code <= 18:
			cur.flushPoint()
			if v, err := strconv.ParseFloat(strings.TrimSpace(tag.value), 64); err == nil {
				cur.curX = v
				cur.hasXY = false
			}
		case tag.code >= 20 && tag.code <= 28:
			if v, err := strconv.ParseFloat(strings.TrimSpace(tag.value), 64); err == nil {
				cur.curY = v
				cur.hasXY = true
			}
		case tag.code >= 30 && tag.code <= 38:
			if v, err := strconv.ParseFloat(strings.TrimSpace(tag.value), 64); err == nil {
				cur.curZ = v
			}
		}
	}
	finishCurrent()

	ordered := make([]models.EntityCount, 0, len(tally.countsByType))
	for _, t := range TrackedEntityTypes {
		if n, ok := tally.countsByType[t]; ok {
			ordered = append(ordered, models.EntityCount{Type: t, Count: n})
		}
	}

	return &models.DrawingMetrics{
		TotalEntities: tally.total,
		CountsByType:  ordered,
		LayerCount:    len(tally.layers),
		Extents:       tally.acc.box(),
	}, nil
}
