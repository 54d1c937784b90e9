package textmesh

import (
	"fmt"
	"math"
)

// Validation thresholds. Hard failures always reject; soft failures
// reject only past a ratio threshold, because a handful of degenerate
// slivers at offset-ring corners is expected and harmless while
// systemic failure indicates a pipeline bug.
const (
	// degenerateAreaThreshold is the cross-product area below which a
	// triangle counts as degenerate.
	degenerateAreaThreshold = 1e-6

	// normalLengthTolerance is the allowed deviation of a normal's
	// length from 1.0.
	normalLengthTolerance = 0.01

	// extremeCoordinate is the per-component magnitude above which a
	// vertex counts as extreme.
	extremeCoordinate = 1000.0

	// degenerateTriangleRatio is the maximum tolerated fraction of
	// degenerate triangles.
	degenerateTriangleRatio = 0.10

	// invalidNormalRatio is the maximum tolerated fraction of
	// non-unit normals.
	invalidNormalRatio = 0.10

	// extremeVertexRatio is the maximum tolerated fraction of
	// extreme-coordinate vertices.
	extremeVertexRatio = 0.05
)

// MeshValidation summarizes the checks run over a mesh. It is returned
// alongside a nil error for meshes that pass, so callers can log or
// surface the counts.
type MeshValidation struct {
	VertexCount         int
	TriangleCount       int
	DegenerateTriangles int
	InvalidNormals      int
	ExtremeVertices     int
}

// CheckMesh validates an assembled mesh.
//
// Hard failures (returned as *InvalidMeshError regardless of counts):
// index count not divisible by 3, out-of-range indices, parallel-array
// length mismatch, and any NaN or infinite vertex/normal component.
// Soft failures reject only past their ratio thresholds: degenerate
// triangles, non-unit normals, and extreme vertex coordinates.
func CheckMesh(g *ExtrudedMeshGeometry) (MeshValidation, error) {
	var v MeshValidation
	if g == nil {
		return v, &InvalidMeshError{Reason: "nil geometry"}
	}
	fail := func(format string, args ...any) error {
		return &InvalidMeshError{GlyphID: uint16(g.GlyphID), Reason: fmt.Sprintf(format, args...)}
	}

	if len(g.Indices)%3 != 0 {
		return v, fail("index count %d not divisible by 3", len(g.Indices))
	}
	if len(g.Normals) != len(g.Vertices) || len(g.UVs) != len(g.Vertices) {
		return v, fail("array length mismatch: %d vertices, %d normals, %d uvs",
			len(g.Vertices), len(g.Normals), len(g.UVs))
	}
	for _, idx := range g.Indices {
		if int(idx) >= len(g.Vertices) {
			return v, fail("index %d out of range (%d vertices)", idx, len(g.Vertices))
		}
	}
	for i, vert := range g.Vertices {
		if !vert.IsFinite() {
			return v, fail("vertex %d is not finite", i)
		}
	}
	for i, n := range g.Normals {
		if !n.IsFinite() {
			return v, fail("normal %d is not finite", i)
		}
	}
	for i, uv := range g.UVs {
		if math.IsNaN(uv.X) || math.IsInf(uv.X, 0) || math.IsNaN(uv.Y) || math.IsInf(uv.Y, 0) {
			return v, fail("uv %d is not finite", i)
		}
	}

	v.VertexCount = len(g.Vertices)
	v.TriangleCount = len(g.Indices) / 3

	for i := 0; i+2 < len(g.Indices); i += 3 {
		a := g.Vertices[g.Indices[i]]
		b := g.Vertices[g.Indices[i+1]]
		c := g.Vertices[g.Indices[i+2]]
		area := b.Sub(a).Cross(c.Sub(a)).Length() / 2
		if area < degenerateAreaThreshold {
			v.DegenerateTriangles++
		}
	}
	for _, n := range g.Normals {
		if math.Abs(n.Length()-1.0) > normalLengthTolerance {
			v.InvalidNormals++
		}
	}
	for _, vert := range g.Vertices {
		if math.Abs(vert.X) > extremeCoordinate ||
			math.Abs(vert.Y) > extremeCoordinate ||
			math.Abs(vert.Z) > extremeCoordinate {
			v.ExtremeVertices++
		}
	}

	if v.TriangleCount > 0 {
		if ratio := float64(v.DegenerateTriangles) / float64(v.TriangleCount); ratio > degenerateTriangleRatio {
			return v, fail("%.0f%% of triangles are degenerate", ratio*100)
		}
	}
	if v.VertexCount > 0 {
		if ratio := float64(v.InvalidNormals) / float64(v.VertexCount); ratio > invalidNormalRatio {
			return v, fail("%.0f%% of normals are not unit length", ratio*100)
		}
		if ratio := float64(v.ExtremeVertices) / float64(v.VertexCount); ratio > extremeVertexRatio {
			return v, fail("%.0f%% of vertices exceed coordinate magnitude %v", ratio*100, extremeCoordinate)
		}
	}
	return v, nil
}
