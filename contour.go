package textmesh

import "math"

// Vertex dedup and sampling constants for contour extraction.
const (
	// vertexTolerance is the distance below which two contour vertices
	// are considered coincident, in scaled (mesh) units.
	vertexTolerance = 1e-4

	// quadSampleSegments is the fixed segment count used to subdivide
	// quadratic curve elements during contour extraction.
	quadSampleSegments = 8

	// cubicSampleSegments is the fixed segment count used to subdivide
	// cubic curve elements during contour extraction.
	cubicSampleSegments = 10
)

// Contour is a polygonal loop approximating part of a glyph outline,
// in mesh units with Y up. Closed contours do not repeat the start
// vertex at the end; the Closed flag carries that.
type Contour struct {
	Vertices []Point
	Closed   bool
}

// SignedArea returns the shoelace area of the contour. Positive means
// counter-clockwise winding (an outer boundary after extraction),
// negative means clockwise (a hole).
func (c Contour) SignedArea() float64 {
	n := len(c.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		a := c.Vertices[i]
		b := c.Vertices[(i+1)%n]
		area += a.Cross(b)
	}
	return area / 2
}

// IsCCW reports whether the contour winds counter-clockwise.
func (c Contour) IsCCW() bool {
	return c.SignedArea() > 0
}

// Perimeter returns the total edge length of the contour, including
// the closing edge for closed contours.
func (c Contour) Perimeter() float64 {
	n := len(c.Vertices)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n-1; i++ {
		total += c.Vertices[i].Distance(c.Vertices[i+1])
	}
	if c.Closed {
		total += c.Vertices[n-1].Distance(c.Vertices[0])
	}
	return total
}

// Reversed returns a copy of the contour with opposite winding.
func (c Contour) Reversed() Contour {
	n := len(c.Vertices)
	rev := make([]Point, n)
	for i, v := range c.Vertices {
		rev[n-1-i] = v
	}
	return Contour{Vertices: rev, Closed: c.Closed}
}

// IsDegenerate reports whether every vertex lies within tolerance of
// the first, i.e. the contour has collapsed to a point.
func (c Contour) IsDegenerate() bool {
	if len(c.Vertices) < 3 {
		return true
	}
	first := c.Vertices[0]
	for _, v := range c.Vertices[1:] {
		if v.Distance(first) > vertexTolerance {
			return false
		}
	}
	return true
}

// ExtractContours walks the path and converts its subpaths into polygonal
// contours in mesh units. Coordinates are recentered around (centerX,
// centerY) in font units and scaled by scaleFactor; the Y axis is flipped
// so that the Y-down font convention becomes Y-up mesh space.
//
// Curve elements are subdivided with a fixed segment count (8 for
// quadratics, 10 for cubics). Near-coincident consecutive vertices are
// merged within vertexTolerance, and contours with fewer than 3 vertices
// after dedup are silently dropped.
func ExtractContours(path *Path, scaleFactor, centerX, centerY float64) []Contour {
	transform := func(p Point) Point {
		return Point{
			X: (p.X - centerX) * scaleFactor,
			Y: -(p.Y - centerY) * scaleFactor,
		}
	}

	var (
		contours []Contour
		verts    []Point
		closed   bool
		rawCur   Point // current point in font units, for curve sampling
	)

	appendVert := func(p Point) {
		if len(verts) > 0 && verts[len(verts)-1].Distance(p) <= vertexTolerance {
			return
		}
		verts = append(verts, p)
	}

	finalize := func() {
		if len(verts) == 0 {
			return
		}
		// Drop a trailing vertex that coincides with the start; the
		// Closed flag carries the closing edge.
		if closed && len(verts) > 1 &&
			verts[len(verts)-1].Distance(verts[0]) <= vertexTolerance {
			verts = verts[:len(verts)-1]
		}
		if len(verts) < 3 {
			Logger().Debug("textmesh: dropping sub-3-vertex contour", "vertices", len(verts))
			verts = nil
			closed = false
			return
		}
		contours = append(contours, Contour{Vertices: verts, Closed: closed})
		verts = nil
		closed = false
	}

	for _, elem := range path.Elements() {
		switch e := elem.(type) {
		case MoveTo:
			finalize()
			verts = append(verts, transform(e.Point))
			rawCur = e.Point
		case LineTo:
			appendVert(transform(e.Point))
			rawCur = e.Point
		case QuadTo:
			q := QuadBez{P0: rawCur, P1: e.Control, P2: e.Point}
			for i := 1; i <= quadSampleSegments; i++ {
				t := float64(i) / quadSampleSegments
				appendVert(transform(q.Eval(t)))
			}
			rawCur = e.Point
		case CubicTo:
			cb := CubicBez{P0: rawCur, P1: e.Control1, P2: e.Control2, P3: e.Point}
			for i := 1; i <= cubicSampleSegments; i++ {
				t := float64(i) / cubicSampleSegments
				appendVert(transform(cb.Eval(t)))
			}
			rawCur = e.Point
		case Close:
			closed = true
			finalize()
		}
	}
	finalize() // unterminated trailing subpath

	return contours
}

// Polyline is the closed-polygon representation consumed by the offset
// engine: consecutive duplicates merged and tiny segments dropped.
type Polyline struct {
	Points []Point
	Closed bool
}

// ContourToPolyline converts a contour into a cleaned polyline.
// Consecutive vertices within vertexTolerance are merged (including the
// wrap-around pair for closed contours). Returns a polyline with fewer
// than 3 points if the contour is degenerate; callers should check.
func ContourToPolyline(c Contour) Polyline {
	pts := make([]Point, 0, len(c.Vertices))
	for _, v := range c.Vertices {
		if len(pts) > 0 && pts[len(pts)-1].Distance(v) <= vertexTolerance {
			continue
		}
		pts = append(pts, v)
	}
	if c.Closed {
		for len(pts) > 1 && pts[len(pts)-1].Distance(pts[0]) <= vertexTolerance {
			pts = pts[:len(pts)-1]
		}
	}
	return Polyline{Points: pts, Closed: c.Closed}
}

// PolylineToContour converts a polyline back into a contour.
func PolylineToContour(p Polyline) Contour {
	verts := make([]Point, len(p.Points))
	copy(verts, p.Points)
	return Contour{Vertices: verts, Closed: p.Closed}
}

// contourBounds returns the bounding box of a set of contours.
func contourBounds(contours []Contour) Rect {
	first := true
	var bbox Rect
	for _, c := range contours {
		for _, v := range c.Vertices {
			if first {
				bbox = Rect{Min: v, Max: v}
				first = false
				continue
			}
			bbox.Min.X = math.Min(bbox.Min.X, v.X)
			bbox.Min.Y = math.Min(bbox.Min.Y, v.Y)
			bbox.Max.X = math.Max(bbox.Max.X, v.X)
			bbox.Max.Y = math.Max(bbox.Max.Y, v.Y)
		}
	}
	return bbox
}
