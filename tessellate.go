package textmesh

import (
	"fmt"
	"math"
	"sort"

	poly2tri "github.com/ByteArena/poly2tri-go"
)

// defaultTessTolerance is the vertex-merge tolerance for tessellation,
// in font design units. It is scaled by fontSize/unitsPerEm before use
// so the merge distance tracks the glyph's final size.
const defaultTessTolerance = 0.25

// FillRule selects how contour nesting determines filled regions.
type FillRule uint8

const (
	// FillEvenOdd fills regions with odd containment depth.
	FillEvenOdd FillRule = iota

	// FillNonZero fills regions with non-zero accumulated winding.
	FillNonZero
)

// String returns the fill rule name.
func (r FillRule) String() string {
	switch r {
	case FillEvenOdd:
		return "EvenOdd"
	case FillNonZero:
		return "NonZero"
	default:
		return "Unknown"
	}
}

// TessellatedGeometry is a triangulated flat cap. Vertices lie in the
// z=0 plane; the winding faces the front (negative z).
type TessellatedGeometry struct {
	Vertices []Vec3
	Indices  []uint32

	// ScaleFactor and center record the font-unit to mesh-unit mapping
	// applied during tessellation, so callers can place related
	// geometry in the same frame.
	ScaleFactor      float64
	CenterX, CenterY float64
}

// TessellateFrontCap fills the flattened glyph path into a triangulated
// front cap. Coordinates are recentered around the font-unit bounding
// box center before scaling by fontSize/unitsPerEm, so transform pivots
// align with the glyph's visual center.
//
// Font outlines occasionally contain self-intersections or near
// degenerate loops that a strict fill rejects, so tessellation retries
// with escalating strategies: default tolerance and even-odd fill,
// doubled tolerance, then non-zero fill. ErrTessellation is returned
// only when all three fail.
func TessellateFrontCap(path *Path, bounds Rect, fontSize float64, unitsPerEm uint16, glyphID GlyphID) (*TessellatedGeometry, error) {
	if path == nil || path.IsEmpty() {
		return nil, fmt.Errorf("%w: empty path for glyph %d", ErrPathBuilding, glyphID)
	}
	if unitsPerEm == 0 || fontSize <= 0 {
		return nil, fmt.Errorf("%w: fontSize %v, unitsPerEm %d", ErrInvalidInput, fontSize, unitsPerEm)
	}

	scale := fontSize / float64(unitsPerEm)
	center := bounds.Center()
	contours := ExtractContours(path, scale, center.X, center.Y)
	if len(contours) == 0 {
		return nil, fmt.Errorf("%w: no contours for glyph %d", ErrTessellation, glyphID)
	}

	attempts := []struct {
		tolerance float64
		rule      FillRule
	}{
		{defaultTessTolerance, FillEvenOdd},
		{defaultTessTolerance * 2, FillEvenOdd},
		{defaultTessTolerance, FillNonZero},
	}

	var lastErr error
	for i, attempt := range attempts {
		verts, indices, err := tessellateFill(contours, attempt.rule, attempt.tolerance*scale)
		if err == nil {
			if i > 0 {
				Logger().Debug("textmesh: tessellation recovered on retry",
					"glyph", glyphID, "attempt", i+1, "fill", attempt.rule.String())
			}
			out := &TessellatedGeometry{
				Vertices:    make([]Vec3, len(verts)),
				Indices:     indices,
				ScaleFactor: scale,
				CenterX:     center.X,
				CenterY:     center.Y,
			}
			for vi, v := range verts {
				out.Vertices[vi] = Vec3{X: v.X, Y: v.Y}
			}
			// Front cap faces negative z.
			flipTriangleWinding(out.Indices)
			return out, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: glyph %d: %v", ErrTessellation, glyphID, lastErr)
}

// flipTriangleWinding reverses the winding of every triangle in place.
func flipTriangleWinding(indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		indices[i+1], indices[i+2] = indices[i+2], indices[i+1]
	}
}

// contourGroup is one filled region: an outer boundary plus the holes
// nested directly inside it.
type contourGroup struct {
	outer Contour
	holes []Contour
}

// classifyContours assigns each contour outer/hole status under the
// given fill rule and attaches every hole to its smallest enclosing
// outer boundary. If nothing classifies as outer, all contours are
// treated as outers (valid glyph outlines never hit this).
func classifyContours(contours []Contour, rule FillRule) []contourGroup {
	n := len(contours)
	type info struct {
		area    float64 // signed
		depth   int     // number of containing contours
		winding int     // accumulated orientation of self + containers
		outer   bool
	}
	infos := make([]info, n)
	for i := range contours {
		infos[i].area = contours[i].SignedArea()
	}

	contains := func(outer, inner int) bool {
		if len(contours[inner].Vertices) == 0 {
			return false
		}
		return pointInPolygon(contours[inner].Vertices[0], contours[outer].Vertices)
	}

	for i := 0; i < n; i++ {
		orient := 1
		if infos[i].area < 0 {
			orient = -1
		}
		infos[i].winding = orient
		for j := 0; j < n; j++ {
			if j == i || !contains(j, i) {
				continue
			}
			infos[i].depth++
			if infos[j].area < 0 {
				infos[i].winding--
			} else {
				infos[i].winding++
			}
		}
	}

	anyOuter := false
	for i := 0; i < n; i++ {
		switch rule {
		case FillNonZero:
			infos[i].outer = infos[i].winding != 0
		default:
			infos[i].outer = infos[i].depth%2 == 0
		}
		if infos[i].outer {
			anyOuter = true
		}
	}
	if !anyOuter {
		for i := 0; i < n; i++ {
			infos[i].outer = true
		}
	}

	// Outers sorted by ascending |area| so a hole lands on its
	// smallest enclosing boundary.
	var outerIdx []int
	for i := 0; i < n; i++ {
		if infos[i].outer {
			outerIdx = append(outerIdx, i)
		}
	}
	sort.Slice(outerIdx, func(a, b int) bool {
		return math.Abs(infos[outerIdx[a]].area) < math.Abs(infos[outerIdx[b]].area)
	})

	groups := make([]contourGroup, 0, len(outerIdx))
	groupOf := make(map[int]int, len(outerIdx))
	for _, i := range outerIdx {
		groupOf[i] = len(groups)
		groups = append(groups, contourGroup{outer: contours[i]})
	}
	for i := 0; i < n; i++ {
		if infos[i].outer {
			continue
		}
		for _, oi := range outerIdx {
			if contains(oi, i) {
				gi := groupOf[oi]
				groups[gi].holes = append(groups[gi].holes, contours[i])
				break
			}
		}
	}
	return groups
}

// tessellateFill triangulates the filled region described by the
// contours under the given fill rule. Returned triangles are
// normalized to counter-clockwise winding (positive-z normal).
func tessellateFill(contours []Contour, rule FillRule, mergeDist float64) ([]Point, []uint32, error) {
	groups := classifyContours(contours, rule)
	if len(groups) == 0 {
		return nil, nil, fmt.Errorf("%w: no fillable regions", ErrTessellation)
	}

	var (
		verts   []Point
		indices []uint32
	)
	for _, g := range groups {
		gv, gi, err := tessellateGroup(g, mergeDist)
		if err != nil {
			return nil, nil, err
		}
		base := uint32(len(verts))
		verts = append(verts, gv...)
		for _, idx := range gi {
			indices = append(indices, base+idx)
		}
	}

	// Normalize winding so every triangle is CCW in the XY plane.
	for i := 0; i+2 < len(indices); i += 3 {
		a := verts[indices[i]]
		b := verts[indices[i+1]]
		c := verts[indices[i+2]]
		if b.Sub(a).Cross(c.Sub(a)) < 0 {
			indices[i+1], indices[i+2] = indices[i+2], indices[i+1]
		}
	}
	return verts, indices, nil
}

// tessellateGroup runs the sweep triangulation for one outer boundary
// and its holes. The sweep implementation panics on degenerate input
// (coincident points, zero-length edges), which is converted into an
// error here so the caller's retry ladder can escalate.
func tessellateGroup(g contourGroup, mergeDist float64) (verts []Point, indices []uint32, err error) {
	defer func() {
		if r := recover(); r != nil {
			verts, indices = nil, nil
			err = fmt.Errorf("%w: sweep failed: %v", ErrTessellation, r)
		}
	}()

	outer := cleanRing(g.outer.Vertices, mergeDist)
	if len(outer) < 3 {
		return nil, nil, fmt.Errorf("%w: outer boundary collapsed below 3 vertices", ErrTessellation)
	}

	index := make(map[*poly2tri.Point]uint32)
	addRing := func(pts []Point) []*poly2tri.Point {
		ring := make([]*poly2tri.Point, len(pts))
		for i, p := range pts {
			tp := poly2tri.NewPoint(p.X, p.Y)
			index[tp] = uint32(len(verts))
			verts = append(verts, p)
			ring[i] = tp
		}
		return ring
	}

	swctx := poly2tri.NewSweepContext(addRing(outer), false)
	for _, hole := range g.holes {
		cleaned := cleanRing(hole.Vertices, mergeDist)
		if len(cleaned) < 3 {
			continue
		}
		swctx.AddHole(addRing(cleaned))
	}

	swctx.Triangulate()
	for _, tri := range swctx.GetTriangles() {
		for _, tp := range tri.Points {
			vi, ok := index[tp]
			if !ok {
				// Point introduced by the sweep itself.
				vi = uint32(len(verts))
				verts = append(verts, Point{X: tp.X, Y: tp.Y})
				index[tp] = vi
			}
			indices = append(indices, vi)
		}
	}
	if len(indices) == 0 {
		return nil, nil, fmt.Errorf("%w: sweep produced no triangles", ErrTessellation)
	}
	return verts, indices, nil
}

// cleanRing merges consecutive vertices within mergeDist (including
// the wrap-around pair). The sweep is numerically intolerant of
// coincident points and zero-length edges.
func cleanRing(pts []Point, mergeDist float64) []Point {
	if mergeDist < vertexTolerance {
		mergeDist = vertexTolerance
	}
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Distance(p) <= mergeDist {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Distance(out[0]) <= mergeDist {
		out = out[:len(out)-1]
	}
	return out
}
