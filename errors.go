package textmesh

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the glyph mesh pipeline.
// Wrap-aware callers should match with errors.Is.
var (
	// ErrFontParse is returned when font data cannot be parsed.
	ErrFontParse = errors.New("textmesh: font data could not be parsed")

	// ErrGlyphNotFound is returned when a glyph id has no outline or
	// bounding box in the face (whitespace glyphs deliberately have none).
	ErrGlyphNotFound = errors.New("textmesh: glyph has no outline")

	// ErrPathBuilding is returned when a glyph's outline command stream
	// is empty or cannot be assembled into a path.
	ErrPathBuilding = errors.New("textmesh: glyph outline has no usable path")

	// ErrTessellation is returned when all tessellation strategies fail
	// for a path (see TessellateFrontCap for the retry ladder).
	ErrTessellation = errors.New("textmesh: tessellation failed")

	// ErrInvalidInput is returned for out-of-range parameters, such as a
	// non-positive bevel width or zero bevel segments.
	ErrInvalidInput = errors.New("textmesh: invalid input")

	// ErrInvalidContour is returned when a contour cannot be converted
	// into a closed polygon suitable for offsetting.
	ErrInvalidContour = errors.New("textmesh: contour cannot be offset")
)

// InvalidMeshError reports a mesh that failed validation, with the
// specific reason and the glyph it was built for. It is returned by
// CheckMesh and by the pipeline entry points that validate before
// returning geometry.
type InvalidMeshError struct {
	GlyphID uint16
	Reason  string
}

func (e *InvalidMeshError) Error() string {
	return fmt.Sprintf("textmesh: invalid mesh for glyph %d: %s", e.GlyphID, e.Reason)
}
