package textmesh

import "math"

// PathElement represents a single element in a glyph path.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point without drawing, starting a new subpath.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// Path represents a glyph outline as a sequence of path elements in
// font design units. Paths produced by the outline extractor contain
// only MoveTo/LineTo/Close (curves are flattened at extraction time);
// paths built by hand may also carry QuadTo/CubicTo elements, which
// the contour extractor subdivides with a fixed segment count.
type Path struct {
	elements []PathElement
	start    Point // Starting point of current subpath
	current  Point // Current point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		elements: make([]PathElement, 0, 16),
	}
}

// MoveTo moves to a point without drawing.
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo draws a line to a point.
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// QuadraticTo draws a quadratic Bezier curve.
func (p *Path) QuadraticTo(cx, cy, x, y float64) {
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: Pt(x, y)})
	p.current = Pt(x, y)
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    Pt(x, y),
	})
	p.current = Pt(x, y)
}

// Close closes the current subpath by drawing a line to the start point.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// Elements returns the path elements.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// IsEmpty reports whether the path contains no elements.
func (p *Path) IsEmpty() bool {
	return len(p.elements) == 0
}

// Rect is an axis-aligned rectangle. Glyph bounding boxes are in font
// design units.
type Rect struct {
	Min, Max Point
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Empty reports whether the rectangle has zero or negative extent.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// BoundingBox returns the control-point bounding box of the path.
// For flattened paths (lines only) this is the exact bounds; for paths
// with curves it conservatively includes the control points.
func (p *Path) BoundingBox() Rect {
	first := true
	bbox := Rect{}
	expand := func(pt Point) {
		if first {
			bbox = Rect{Min: pt, Max: pt}
			first = false
			return
		}
		bbox.Min.X = math.Min(bbox.Min.X, pt.X)
		bbox.Min.Y = math.Min(bbox.Min.Y, pt.Y)
		bbox.Max.X = math.Max(bbox.Max.X, pt.X)
		bbox.Max.Y = math.Max(bbox.Max.Y, pt.Y)
	}

	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			expand(e.Point)
		case LineTo:
			expand(e.Point)
		case QuadTo:
			expand(e.Control)
			expand(e.Point)
		case CubicTo:
			expand(e.Control1)
			expand(e.Control2)
			expand(e.Point)
		case Close:
		}
	}
	return bbox
}
