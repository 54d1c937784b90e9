package textmesh

import (
	"fmt"
	"math"
)

// ExtrudeOptions configures the glyph extrusion pipeline.
type ExtrudeOptions struct {
	// Depth is the extrusion depth along z, in mesh units.
	Depth float64

	// Bevel enables beveled edges when non-nil. A nil Bevel produces a
	// straight extrusion: front cap, side walls, back cap.
	Bevel *BevelParameters
}

// DefaultExtrudeOptions returns a beveled extrusion with the default
// bevel profile.
func DefaultExtrudeOptions() ExtrudeOptions {
	bevel := DefaultBevelParameters()
	return ExtrudeOptions{Depth: 5.0, Bevel: &bevel}
}

// WithDepth returns options with the extrusion depth replaced.
func (o ExtrudeOptions) WithDepth(depth float64) ExtrudeOptions {
	o.Depth = depth
	return o
}

// WithBevel returns options with the given bevel profile.
func (o ExtrudeOptions) WithBevel(p BevelParameters) ExtrudeOptions {
	o.Bevel = &p
	return o
}

// WithoutBevel returns options for a straight extrusion.
func (o ExtrudeOptions) WithoutBevel() ExtrudeOptions {
	o.Bevel = nil
	return o
}

func (o ExtrudeOptions) validate() error {
	if o.Depth <= 0 || math.IsNaN(o.Depth) || math.IsInf(o.Depth, 0) {
		return fmt.Errorf("%w: extrusion depth %v must be positive and finite", ErrInvalidInput, o.Depth)
	}
	if o.Bevel != nil {
		return o.Bevel.validate()
	}
	return nil
}

// ExtrudeTrace captures the intermediate artifacts of one pipeline run
// for debug visualization. Consumers render the trace; it never feeds
// back into the algorithm.
type ExtrudeTrace struct {
	Contours   []Contour
	BevelRings []BevelRings
	FrontCap   *TessellatedGeometry
	Validation MeshValidation

	// Bounds is the XY bounding box of the extracted contours in mesh
	// units, the frame a trace viewer fits its camera to.
	Bounds Rect
}

// ExtrudeGlyph runs the full pipeline over an extracted outline:
// contour extraction, optional bevel-ring computation, front-cap
// tessellation, mesh assembly, and validation. The returned geometry
// has passed CheckMesh.
func ExtrudeGlyph(outline *GlyphOutline, opts ExtrudeOptions) (*ExtrudedMeshGeometry, error) {
	mesh, _, err := extrude(outline, opts, false)
	return mesh, err
}

// ExtrudeGlyphWithTrace is ExtrudeGlyph plus the intermediate
// artifacts (contours, rings, front cap, validation counts).
func ExtrudeGlyphWithTrace(outline *GlyphOutline, opts ExtrudeOptions) (*ExtrudedMeshGeometry, *ExtrudeTrace, error) {
	return extrude(outline, opts, true)
}

func extrude(outline *GlyphOutline, opts ExtrudeOptions, withTrace bool) (*ExtrudedMeshGeometry, *ExtrudeTrace, error) {
	if outline == nil || outline.Path == nil || outline.Path.IsEmpty() {
		return nil, nil, fmt.Errorf("%w: nil or empty outline", ErrInvalidInput)
	}
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}

	scale := outline.Scale()
	if scale <= 0 {
		return nil, nil, fmt.Errorf("%w: non-positive glyph scale (fontSize %v, unitsPerEm %d)",
			ErrInvalidInput, outline.FontSize, outline.UnitsPerEm)
	}
	center := outline.Bounds.Center()
	glyphID := outline.GlyphID

	contours := ExtractContours(outline.Path, scale, center.X, center.Y)
	if len(contours) == 0 {
		return nil, nil, fmt.Errorf("%w: glyph %d: outline yields no contours", ErrInvalidContour, glyphID)
	}

	var trace *ExtrudeTrace
	if withTrace {
		trace = &ExtrudeTrace{Contours: contours, Bounds: contourBounds(contours)}
	}

	var (
		mesh *ExtrudedMeshGeometry
		err  error
	)
	if opts.Bevel != nil {
		front, terr := TessellateFrontCap(outline.Path, outline.Bounds, outline.FontSize, outline.UnitsPerEm, glyphID)
		if terr != nil {
			return nil, nil, terr
		}
		rings, rerr := ComputeBevelRings(contours, opts.Bevel.Width, opts.Bevel.Segments, opts.Bevel.ProfilePower, glyphID)
		if rerr != nil {
			return nil, nil, rerr
		}
		if len(rings) == 0 {
			return nil, nil, fmt.Errorf("%w: glyph %d: all subcontours degenerate", ErrInvalidContour, glyphID)
		}
		if trace != nil {
			trace.FrontCap = front
			trace.BevelRings = rings
		}
		mesh, err = BuildBeveledMesh(front.Vertices, front.Indices, rings, opts.Depth, glyphID)
	} else {
		rings := straightRings(contours)
		if trace != nil {
			trace.BevelRings = rings
		}
		mesh, err = BuildMeshFromBevelRings(rings, opts.Depth, glyphID)
	}
	if err != nil {
		return nil, nil, err
	}

	validation, verr := CheckMesh(mesh)
	if verr != nil {
		return nil, nil, verr
	}
	if trace != nil {
		trace.Validation = validation
	}

	Logger().Debug("textmesh: extruded glyph",
		"glyph", glyphID,
		"vertices", validation.VertexCount,
		"triangles", validation.TriangleCount,
		"degenerate", validation.DegenerateTriangles,
		"beveled", opts.Bevel != nil)

	return mesh, trace, nil
}

// straightRings wraps contours as zero-offset ring sets: outer and
// inner coincide, so bridging produces plain side walls from front to
// back with no bevel slope.
func straightRings(contours []Contour) []BevelRings {
	rings := make([]BevelRings, 0, len(contours))
	for _, c := range contours {
		pl := ContourToPolyline(c)
		if len(pl.Points) < 3 {
			continue
		}
		base := PolylineToContour(pl)
		base.Closed = true
		if base.IsDegenerate() {
			continue
		}
		rings = append(rings, BevelRings{Outer: base, Inner: base})
	}
	return rings
}
