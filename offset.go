package textmesh

import (
	"fmt"
	"math"
)

// BevelParameters configures the bevel profile cut into a glyph's edge.
type BevelParameters struct {
	// Width is the total inward offset distance, in mesh units. Must be
	// positive.
	Width float64

	// Segments is the number of bevel steps. Must be at least 1; one
	// segment produces a single chamfer with no intermediate rings.
	Segments int

	// ProfilePower remaps the per-ring offset distance:
	// distance = Width * (ring/Segments)^ProfilePower. 1 is linear,
	// >1 biases rings toward the outer edge for a rounded profile.
	ProfilePower float64
}

// DefaultBevelParameters returns a shallow four-step linear bevel.
func DefaultBevelParameters() BevelParameters {
	return BevelParameters{Width: 2.0, Segments: 4, ProfilePower: 1.0}
}

// validate checks parameter ranges.
func (p BevelParameters) validate() error {
	if p.Width <= 0 || math.IsNaN(p.Width) || math.IsInf(p.Width, 0) {
		return fmt.Errorf("%w: bevel width %v must be positive and finite", ErrInvalidInput, p.Width)
	}
	if p.Segments < 1 {
		return fmt.Errorf("%w: bevel segments %d must be at least 1", ErrInvalidInput, p.Segments)
	}
	if p.ProfilePower <= 0 || math.IsNaN(p.ProfilePower) {
		return fmt.Errorf("%w: profile power %v must be positive", ErrInvalidInput, p.ProfilePower)
	}
	return nil
}

// BevelRings holds one subcontour's progressive inward offsets.
// The logical ring sequence is [Outer, Rings..., Inner]: Outer is the
// unshrunk boundary, Inner the final offset, Rings everything strictly
// between. When no ring vanishes early the sequence has Segments+1
// entries.
type BevelRings struct {
	Outer Contour
	Inner Contour
	Rings []Contour
}

// RingSequence returns the full ordered ring list [Outer, Rings..., Inner].
// When ring generation stopped before producing any offset, Outer and
// Inner coincide and the sequence has a single entry.
func (b *BevelRings) RingSequence() []Contour {
	seq := make([]Contour, 0, len(b.Rings)+2)
	seq = append(seq, b.Outer)
	seq = append(seq, b.Rings...)
	if len(b.Rings) > 0 || !sameContour(b.Outer, b.Inner) {
		seq = append(seq, b.Inner)
	}
	return seq
}

func sameContour(a, b Contour) bool {
	if len(a.Vertices) != len(b.Vertices) {
		return false
	}
	for i := range a.Vertices {
		if a.Vertices[i] != b.Vertices[i] {
			return false
		}
	}
	return true
}

// offsetAreaEpsilon is the signed-area magnitude below which an offset
// loop is treated as degenerate and dropped.
const offsetAreaEpsilon = 1e-6

// ComputeBevelRings computes progressive inward offsets for each input
// contour independently. Each contour is treated as its own
// single-polygon shape; offsets are taken from the original polygon at
// cumulative distances, not incrementally ring-to-ring, so numeric
// error does not accumulate across rings.
//
// A subcontour that cannot be converted into a valid closed polygon is
// skipped with a warning rather than failing the whole glyph. If an
// offset distance yields no loops (the shape vanished past a local
// feature), ring generation stops early for that subcontour.
func ComputeBevelRings(contours []Contour, width float64, segments int, profilePower float64, glyphID GlyphID) ([]BevelRings, error) {
	params := BevelParameters{Width: width, Segments: segments, ProfilePower: profilePower}
	if err := params.validate(); err != nil {
		return nil, err
	}
	if len(contours) == 0 {
		return nil, fmt.Errorf("%w: no contours to offset", ErrInvalidInput)
	}

	log := Logger()
	result := make([]BevelRings, 0, len(contours))

	for ci, c := range contours {
		pl := ContourToPolyline(c)
		if len(pl.Points) < 3 {
			log.Warn("textmesh: skipping degenerate subcontour",
				"glyph", glyphID, "contour", ci, "vertices", len(pl.Points))
			continue
		}
		base := PolylineToContour(pl)
		base.Closed = true
		if base.IsDegenerate() || math.Abs(base.SignedArea()) < offsetAreaEpsilon {
			log.Warn("textmesh: skipping zero-area subcontour",
				"glyph", glyphID, "contour", ci)
			continue
		}

		rings := make([]Contour, 0, segments)
		for k := 1; k <= segments; k++ {
			dist := width * math.Pow(float64(k)/float64(segments), profilePower)
			loops := offsetPolygonInward(base.Vertices, dist)
			if len(loops) == 0 {
				log.Debug("textmesh: ring vanished before full bevel width",
					"glyph", glyphID, "contour", ci, "ring", k, "distance", dist)
				break
			}
			// Splits at narrow features can yield several loops; keep
			// the dominant one so ring bridging has a single chain. The
			// minor loops are lost from the bevel, and a split can
			// rotate the surviving loop's start vertex relative to the
			// source ring, twisting the bridge across that step.
			best := loops[0]
			if len(loops) > 1 {
				bestArea := math.Abs(loopArea(best))
				for _, l := range loops[1:] {
					if a := math.Abs(loopArea(l)); a > bestArea {
						best, bestArea = l, a
					}
				}
			}
			rings = append(rings, Contour{Vertices: best, Closed: true})
		}

		br := BevelRings{Outer: base}
		switch len(rings) {
		case 0:
			br.Inner = base
		default:
			br.Inner = rings[len(rings)-1]
			br.Rings = rings[:len(rings)-1]
		}
		result = append(result, br)
	}

	return result, nil
}

// offsetPolygonInward offsets a simple closed polygon toward its
// interior by dist and returns the surviving loops, each in the same
// winding as the source. Returns nil when the polygon vanishes.
//
// The approach is edge offset + miter joins, then splitting the raw
// result at self-intersections and pruning loops that flipped winding,
// fell below the area epsilon, or came closer than dist to the source
// boundary (spikes and necks collapse into such loops).
func offsetPolygonInward(poly []Point, dist float64) [][]Point {
	n := len(poly)
	if n < 3 || dist <= 0 {
		return nil
	}
	area := loopArea(poly)
	if math.Abs(area) < offsetAreaEpsilon {
		return nil
	}
	// Interior is to the left of edges for CCW loops, right for CW.
	sign := 1.0
	if area < 0 {
		sign = -1.0
	}

	raw := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		prev := poly[(i+n-1)%n]
		cur := poly[i]
		next := poly[(i+1)%n]

		dirIn := cur.Sub(prev).Normalize()
		dirOut := next.Sub(cur).Normalize()
		nIn := dirIn.Perp().Mul(sign)
		nOut := dirOut.Perp().Mul(sign)

		// Intersect the two offset edge lines for a miter join; fall
		// back to the averaged normal when the edges are collinear.
		p1 := prev.Add(nIn.Mul(dist))
		p2 := cur.Add(nOut.Mul(dist))
		if pt, ok := lineIntersect(p1, dirIn, p2, dirOut); ok {
			raw = append(raw, pt)
		} else {
			avg := nIn.Add(nOut).Normalize()
			if avg.LengthSquared() == 0 {
				avg = nIn
			}
			raw = append(raw, cur.Add(avg.Mul(dist)))
		}
	}

	loops := splitSelfIntersections(raw)

	distTol := math.Max(vertexTolerance, dist*0.01)
	var out [][]Point
	for _, loop := range loops {
		loop = dedupLoop(loop)
		if len(loop) < 3 {
			continue
		}
		la := loopArea(loop)
		if math.Abs(la) < offsetAreaEpsilon {
			continue
		}
		if math.Signbit(la) != math.Signbit(area) {
			continue // winding flipped: spike artifact
		}
		if !loopValidAtDistance(loop, poly, dist-distTol) {
			continue
		}
		out = append(out, loop)
	}
	return out
}

// loopArea returns the signed shoelace area of a closed point loop.
func loopArea(pts []Point) float64 {
	area := 0.0
	for i := range pts {
		area += pts[i].Cross(pts[(i+1)%len(pts)])
	}
	return area / 2
}

// dedupLoop merges consecutive near-coincident points, including the
// wrap-around pair.
func dedupLoop(pts []Point) []Point {
	out := pts[:0]
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Distance(p) <= vertexTolerance {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Distance(out[0]) <= vertexTolerance {
		out = out[:len(out)-1]
	}
	return out
}

// loopValidAtDistance reports whether every vertex of loop is inside
// the source polygon and at least minDist away from its boundary.
func loopValidAtDistance(loop, source []Point, minDist float64) bool {
	for _, v := range loop {
		if !pointInPolygon(v, source) {
			return false
		}
		if distanceToPolygon(v, source) < minDist {
			return false
		}
	}
	return true
}

// pointInPolygon tests containment with an even-odd ray cast.
func pointInPolygon(pt Point, poly []Point) bool {
	inside := false
	n := len(poly)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// distanceToPolygon returns the minimum distance from pt to the
// polygon's boundary edges.
func distanceToPolygon(pt Point, poly []Point) float64 {
	minDist := math.Inf(1)
	n := len(poly)
	for i := 0; i < n; i++ {
		d := distancePointSegment(pt, poly[i], poly[(i+1)%n])
		if d < minDist {
			minDist = d
		}
	}
	return minDist
}

// distancePointSegment returns the distance from pt to segment ab.
func distancePointSegment(pt, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq == 0 {
		return pt.Distance(a)
	}
	t := pt.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return pt.Distance(a.Add(ab.Mul(t)))
}

// lineIntersect intersects two infinite lines given as point+direction.
// Returns false for (near-)parallel lines.
func lineIntersect(p1, d1, p2, d2 Point) (Point, bool) {
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	t := p2.Sub(p1).Cross(d2) / denom
	return p1.Add(d1.Mul(t)), true
}

// segmentIntersectStrict intersects segments ab and cd at a point
// strictly interior to both (endpoint touches are rejected so loop
// splitting terminates).
func segmentIntersectStrict(a, b, c, d Point) (Point, bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := r.Cross(s)
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	ac := c.Sub(a)
	t := ac.Cross(s) / denom
	u := ac.Cross(r) / denom
	const eps = 1e-9
	if t <= eps || t >= 1-eps || u <= eps || u >= 1-eps {
		return Point{}, false
	}
	return a.Add(r.Mul(t)), true
}

// splitSelfIntersections splits a possibly self-intersecting loop into
// simple loops. The raw miter-offset loop self-intersects wherever the
// offset distance exceeds a local feature size; each crossing is cut
// and the two sides are split recursively.
func splitSelfIntersections(pts []Point) [][]Point {
	n := len(pts)
	if n < 4 {
		return [][]Point{pts}
	}
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		for j := i + 2; j < n; j++ {
			// Skip edges adjacent to edge i (shared endpoints).
			if i == 0 && j == n-1 {
				continue
			}
			c := pts[j]
			d := pts[(j+1)%n]
			x, ok := segmentIntersectStrict(a, b, c, d)
			if !ok {
				continue
			}
			// First loop: x, pts[i+1..j]; second: x, pts[j+1..], pts[..i].
			loop1 := make([]Point, 0, j-i+1)
			loop1 = append(loop1, x)
			loop1 = append(loop1, pts[i+1:j+1]...)

			loop2 := make([]Point, 0, n-(j-i)+1)
			loop2 = append(loop2, x)
			loop2 = append(loop2, pts[j+1:]...)
			loop2 = append(loop2, pts[:i+1]...)

			out := splitSelfIntersections(loop1)
			return append(out, splitSelfIntersections(loop2)...)
		}
	}
	return [][]Point{pts}
}
