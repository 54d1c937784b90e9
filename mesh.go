package textmesh

import (
	"fmt"
	"math"
)

// Ring resampling bounds for vertex-count harmonization.
const (
	minRingVertices = 4
	maxRingVertices = 256
)

// capMergeTolerance is the vertex-merge distance for cap tessellation,
// in mesh units. Escalated once (doubled) when the fill fails.
const capMergeTolerance = 1e-3

// ExtrudedMeshGeometry is a complete extruded glyph mesh: positions,
// per-vertex smooth normals and UVs (parallel arrays), and a 32-bit
// triangle-list index buffer. Immutable once validated.
type ExtrudedMeshGeometry struct {
	Vertices []Vec3
	Normals  []Vec3
	UVs      []Point
	Indices  []uint32

	// Depth is the extrusion depth the mesh was built with.
	Depth float64

	// GlyphID records which glyph the mesh belongs to.
	GlyphID GlyphID
}

// TriangleCount returns the number of triangles in the mesh.
func (g *ExtrudedMeshGeometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// meshBuilder accumulates vertices and triangles.
type meshBuilder struct {
	verts   []Vec3
	indices []uint32
}

func (b *meshBuilder) addVertex(v Vec3) uint32 {
	b.verts = append(b.verts, v)
	return uint32(len(b.verts) - 1)
}

func (b *meshBuilder) addTriangle(i0, i1, i2 uint32) {
	b.indices = append(b.indices, i0, i1, i2)
}

// BuildBeveledMesh assembles a mesh from an already-tessellated front
// cap plus bevel-wall and back-cap geometry derived from the ring sets.
// The front cap vertices are expected in the z=0 plane with front-facing
// winding, as produced by TessellateFrontCap.
func BuildBeveledMesh(frontVertices []Vec3, frontIndices []uint32, bevelRings []BevelRings, depth float64, glyphID GlyphID) (*ExtrudedMeshGeometry, error) {
	if len(frontIndices)%3 != 0 {
		return nil, fmt.Errorf("%w: front cap index count %d not divisible by 3", ErrInvalidInput, len(frontIndices))
	}
	for _, idx := range frontIndices {
		if int(idx) >= len(frontVertices) {
			return nil, fmt.Errorf("%w: front cap index %d out of range", ErrInvalidInput, idx)
		}
	}
	if err := checkExtrusionArgs(bevelRings, depth); err != nil {
		return nil, err
	}

	b := &meshBuilder{
		verts:   append([]Vec3(nil), frontVertices...),
		indices: append([]uint32(nil), frontIndices...),
	}

	usable := 0
	for _, br := range bevelRings {
		if appendRingWalls(b, br, depth) {
			usable++
		}
	}
	if usable == 0 {
		return nil, fmt.Errorf("%w: no usable subcontours for glyph %d", ErrInvalidContour, glyphID)
	}

	if err := appendTessellatedCap(b, outerContours(bevelRings), depth, true, glyphID); err != nil {
		return nil, err
	}

	return finalizeMesh(b, depth, glyphID), nil
}

// BuildMeshFromBevelRings builds the entire mesh, both caps included,
// purely from ring data. Outer/hole status is decided by signed area:
// counter-clockwise contours are outer boundaries, clockwise are holes.
func BuildMeshFromBevelRings(bevelRings []BevelRings, depth float64, glyphID GlyphID) (*ExtrudedMeshGeometry, error) {
	if err := checkExtrusionArgs(bevelRings, depth); err != nil {
		return nil, err
	}

	b := &meshBuilder{}
	usable := 0
	for _, br := range bevelRings {
		if appendRingWalls(b, br, depth) {
			usable++
		}
	}
	if usable == 0 {
		return nil, fmt.Errorf("%w: no usable subcontours for glyph %d", ErrInvalidContour, glyphID)
	}

	// Both caps are filled by hole-aware tessellation over the original
	// contours. A fan from a boundary vertex is only correct for
	// polygons star-shaped from that vertex; glyph contours are
	// routinely concave.
	if err := appendTessellatedCap(b, outerContours(bevelRings), 0, false, glyphID); err != nil {
		return nil, err
	}
	if err := appendTessellatedCap(b, outerContours(bevelRings), depth, true, glyphID); err != nil {
		return nil, err
	}

	return finalizeMesh(b, depth, glyphID), nil
}

// outerContours collects each ring set's unshrunk boundary, the contour
// set the caps are tessellated over.
func outerContours(bevelRings []BevelRings) []Contour {
	out := make([]Contour, 0, len(bevelRings))
	for _, br := range bevelRings {
		out = append(out, br.Outer)
	}
	return out
}

func checkExtrusionArgs(bevelRings []BevelRings, depth float64) error {
	if len(bevelRings) == 0 {
		return fmt.Errorf("%w: no bevel rings", ErrInvalidInput)
	}
	if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return fmt.Errorf("%w: extrusion depth %v", ErrInvalidInput, depth)
	}
	return nil
}

// appendRingWalls resamples one subcontour's ring sequence, appends the
// ring vertices at their interpolated depths, and bridges consecutive
// rings with side-wall quads. Returns false when the subcontour's rings
// are unusable (degenerate outer contour).
//
// The ring sequence is [outer, intermediates..., inner] plus an
// implicit repeat of the outer contour at full depth, so side geometry
// bridges from the innermost bevel ring back out to a back-cap boundary
// matching the glyph's hole topology.
func appendRingWalls(b *meshBuilder, br BevelRings, depth float64) bool {
	seq := br.RingSequence()
	seq = append(seq, br.Outer) // implicit outer contour at full depth
	total := len(seq)

	target := 0
	for _, r := range seq {
		if len(r.Vertices) > target {
			target = len(r.Vertices)
		}
	}
	if target < 3 {
		return false
	}
	if target < minRingVertices {
		target = minRingVertices
	}
	if target > maxRingVertices {
		target = maxRingVertices
	}

	resampled := make([][]Point, total)
	for i, r := range seq {
		resampled[i] = resampleRing(r, target)
		if resampled[i] == nil {
			return false
		}
	}

	// Ring depths: the final (repeated outer) ring sits at full depth;
	// the bevel rings spread across [0, depth] by index fraction, so
	// the inner ring also reaches full depth and the last bridge forms
	// the flat back surface between inner and outer boundaries.
	zs := make([]float64, total)
	for i := range zs {
		switch {
		case i == total-1:
			zs[i] = depth
		case total == 2:
			zs[i] = 0
		default:
			zs[i] = depth * float64(i) / float64(total-2)
		}
	}

	starts := make([]uint32, total)
	for i, ring := range resampled {
		starts[i] = uint32(len(b.verts))
		for _, p := range ring {
			b.addVertex(Vec3{X: p.X, Y: p.Y, Z: zs[i]})
		}
	}

	// Side walls: quad per edge per ring pair, split into two
	// triangles. With CCW outer boundaries and CW holes the same
	// split yields outward normals for both.
	n := uint32(target)
	for r := 0; r < total-1; r++ {
		s0, s1 := starts[r], starts[r+1]
		for i := uint32(0); i < n; i++ {
			j := (i + 1) % n
			a := s0 + i
			c := s0 + j
			d := s1 + j
			e := s1 + i
			b.addTriangle(a, c, d)
			b.addTriangle(a, d, e)
		}
	}

	return true
}

// appendTessellatedCap fills the given contours (outers plus holes,
// decided by even-odd nesting) at depth z and appends the resulting
// triangles as new vertices. The tolerance escalates once on failure.
//
// The cap is appended without welding against the boundary-ring
// vertices already in the mesh: the coincident duplicates along the
// seam are harmless for rendering and keep the fill independent of
// ring resampling.
func appendTessellatedCap(b *meshBuilder, contours []Contour, z float64, back bool, glyphID GlyphID) error {
	verts, indices, err := tessellateFill(contours, FillEvenOdd, capMergeTolerance)
	if err != nil {
		Logger().Debug("textmesh: cap tessellation escalating tolerance",
			"glyph", glyphID, "z", z, "err", err)
		verts, indices, err = tessellateFill(contours, FillEvenOdd, capMergeTolerance*2)
	}
	if err != nil {
		return fmt.Errorf("cap at z=%v for glyph %d: %w", z, glyphID, err)
	}
	if !back {
		flipTriangleWinding(indices)
	}
	base := uint32(len(b.verts))
	for _, v := range verts {
		b.addVertex(Vec3{X: v.X, Y: v.Y, Z: z})
	}
	for _, idx := range indices {
		b.indices = append(b.indices, base+idx)
	}
	return nil
}

// resampleRing redistributes a ring's vertices to exactly count points
// at equal arc-length intervals along its perimeter, linearly
// interpolating between source vertices. Rings in one bridge set are
// resampled to a common count so the i-th vertex of ring N connects to
// the i-th vertex of ring N+1. Returns nil for degenerate rings.
func resampleRing(c Contour, count int) []Point {
	src := c.Vertices
	n := len(src)
	if n < 3 || count < 3 {
		return nil
	}

	perimeter := 0.0
	segLens := make([]float64, n)
	for i := 0; i < n; i++ {
		segLens[i] = src[i].Distance(src[(i+1)%n])
		perimeter += segLens[i]
	}
	if perimeter <= vertexTolerance {
		return nil
	}

	out := make([]Point, count)
	seg := 0
	segStart := 0.0
	for i := 0; i < count; i++ {
		s := perimeter * float64(i) / float64(count)
		for seg < n-1 && segStart+segLens[seg] < s {
			segStart += segLens[seg]
			seg++
		}
		t := 0.0
		if segLens[seg] > 0 {
			t = (s - segStart) / segLens[seg]
		}
		out[i] = src[seg].Lerp(src[(seg+1)%n], t)
	}
	return out
}

// finalizeMesh attaches smooth normals and UVs to the accumulated
// geometry.
func finalizeMesh(b *meshBuilder, depth float64, glyphID GlyphID) *ExtrudedMeshGeometry {
	g := &ExtrudedMeshGeometry{
		Vertices: b.verts,
		Indices:  b.indices,
		Depth:    depth,
		GlyphID:  glyphID,
	}
	g.Normals = generateSmoothNormals(g.Vertices, g.Indices)
	g.UVs = generateUVs(g.Vertices, depth)
	return g
}

// generateSmoothNormals accumulates unnormalized face normals into each
// triangle's three vertices and normalizes at the end. Area-weighted
// accumulation smooths shading across the bevel rings. A zero-length
// accumulator normalizes to the zero vector, which validation flags as
// a degenerate normal instead of producing NaN.
func generateSmoothNormals(verts []Vec3, indices []uint32) []Vec3 {
	normals := make([]Vec3, len(verts))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		a := verts[i0]
		face := verts[i1].Sub(a).Cross(verts[i2].Sub(a))
		normals[i0] = normals[i0].Add(face)
		normals[i1] = normals[i1].Add(face)
		normals[i2] = normals[i2].Add(face)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

// generateUVs maps vertices with a simple planar/depth-based scheme:
// u from x, v from extrusion depth when present, otherwise from y.
// U/V stay bounded and finite for any finite vertex coordinate.
func generateUVs(verts []Vec3, depth float64) []Point {
	uvs := make([]Point, len(verts))
	for i, v := range verts {
		u := (v.X + 50) / 100
		var vv float64
		if depth > 0 {
			vv = v.Z / depth
		} else {
			vv = (v.Y + 50) / 100
		}
		uvs[i] = Point{X: u, Y: vv}
	}
	return uvs
}
