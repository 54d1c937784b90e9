package textmesh

import (
	"errors"
	"fmt"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontID identifies a registered font within a FontProvider.
type FontID uint64

// GlyphID is a glyph index within a font.
type GlyphID uint16

// FontProvider gives the pipeline synchronous access to parsed font
// faces. WithFaceData invokes fn with the face for the given font id
// and returns false if the id is unknown. The face must not be retained
// past the callback.
//
// The text subpackage's FontSystem is the standard implementation.
type FontProvider interface {
	WithFaceData(id FontID, fn func(face *sfnt.Font)) bool
}

// GlyphRef identifies one glyph instance to extract: which font, which
// glyph index, and at what size the final mesh should be scaled.
type GlyphRef struct {
	FontID   FontID
	GlyphID  GlyphID
	FontSize float64
}

// GlyphOutline is a glyph's outline ready for tessellation and contour
// extraction. The path is in font design units with the sfnt Y-down
// convention; curves have already been flattened at extraction time, so
// the path contains only MoveTo/LineTo/Close elements.
type GlyphOutline struct {
	// Path is the flattened outline in font design units.
	Path *Path

	// Bounds is the outline bounding box in font design units.
	Bounds Rect

	// Advance is the horizontal advance width in font design units.
	Advance float64

	// UnitsPerEm is the font's design grid size, used to scale font
	// units to mesh units as FontSize/UnitsPerEm.
	UnitsPerEm uint16

	// FontSize is the target size carried from the GlyphRef.
	FontSize float64

	// GlyphID is the glyph this outline was extracted from.
	GlyphID GlyphID
}

// Scale returns the font-unit to mesh-unit scale factor.
func (o *GlyphOutline) Scale() float64 {
	if o.UnitsPerEm == 0 {
		return 0
	}
	return o.FontSize / float64(o.UnitsPerEm)
}

// outlineFlattenTolerance is the maximum curve-to-chord deviation, in
// font design units, used when flattening outlines at extraction time.
const outlineFlattenTolerance = 0.05

// ExtractGlyphOutline loads a glyph's outline from the font provider
// and flattens it into a line-segment path in font design units.
//
// It returns ErrFontParse if the font id is unknown, ErrGlyphNotFound
// if the glyph has no outline (whitespace glyphs deliberately have
// none), and ErrPathBuilding if the outline command stream cannot be
// assembled into a non-empty path.
func ExtractGlyphOutline(glyph GlyphRef, fonts FontProvider) (*GlyphOutline, error) {
	var (
		outline *GlyphOutline
		extErr  error
	)
	ok := fonts.WithFaceData(glyph.FontID, func(face *sfnt.Font) {
		outline, extErr = extractFromFace(face, glyph)
	})
	if !ok {
		return nil, fmt.Errorf("%w: unknown font id %d", ErrFontParse, glyph.FontID)
	}
	if extErr != nil {
		return nil, extErr
	}
	return outline, nil
}

// extractFromFace loads the glyph at ppem equal to the font's
// unitsPerEm, so the returned coordinates are raw font design units.
func extractFromFace(face *sfnt.Font, glyph GlyphRef) (*GlyphOutline, error) {
	var buf sfnt.Buffer

	upem := face.UnitsPerEm()
	if upem == 0 {
		return nil, fmt.Errorf("%w: face reports zero unitsPerEm", ErrFontParse)
	}
	ppem := fixed.I(int(upem))

	segments, err := face.LoadGlyph(&buf, sfnt.GlyphIndex(glyph.GlyphID), ppem, nil)
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) {
			return nil, fmt.Errorf("%w: glyph %d", ErrGlyphNotFound, glyph.GlyphID)
		}
		return nil, fmt.Errorf("%w: glyph %d: %v", ErrPathBuilding, glyph.GlyphID, err)
	}
	if len(segments) == 0 {
		// Space-like glyphs have an advance but no outline.
		return nil, fmt.Errorf("%w: glyph %d has no segments", ErrGlyphNotFound, glyph.GlyphID)
	}

	path := NewPath()
	enc := outlineEncoder{path: path, tolerance: outlineFlattenTolerance}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			enc.moveTo(fixedToPoint(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			enc.lineTo(fixedToPoint(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			enc.quadTo(fixedToPoint(seg.Args[0]), fixedToPoint(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			enc.cubicTo(fixedToPoint(seg.Args[0]), fixedToPoint(seg.Args[1]), fixedToPoint(seg.Args[2]))
		}
	}
	enc.finish()

	if path.IsEmpty() {
		return nil, fmt.Errorf("%w: glyph %d produced an empty path", ErrPathBuilding, glyph.GlyphID)
	}

	bounds := path.BoundingBox()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: glyph %d has a degenerate bounding box", ErrGlyphNotFound, glyph.GlyphID)
	}

	advance := 0.0
	if adv, err := face.GlyphAdvance(&buf, sfnt.GlyphIndex(glyph.GlyphID), ppem, 0); err == nil {
		advance = fixedToFloat(adv)
	}

	Logger().Debug("textmesh: extracted glyph outline",
		"glyph", glyph.GlyphID,
		"segments", len(segments),
		"elements", len(path.Elements()))

	return &GlyphOutline{
		Path:       path,
		Bounds:     bounds,
		Advance:    advance,
		UnitsPerEm: uint16(upem),
		FontSize:   glyph.FontSize,
		GlyphID:    glyph.GlyphID,
	}, nil
}

// outlineEncoder assembles sfnt segments into a flattened path.
// Curves are subdivided at ingestion time so every downstream consumer
// sees straight line segments only. sfnt emits no explicit close ops;
// each MoveTo implicitly closes the previous contour.
type outlineEncoder struct {
	path      *Path
	tolerance float64
	current   Point
	open      bool
	scratch   []Point
}

func (e *outlineEncoder) moveTo(p Point) {
	if e.open {
		e.path.Close()
	}
	e.path.MoveTo(p.X, p.Y)
	e.current = p
	e.open = true
}

func (e *outlineEncoder) lineTo(p Point) {
	e.path.LineTo(p.X, p.Y)
	e.current = p
}

func (e *outlineEncoder) quadTo(ctrl, p Point) {
	e.scratch = QuadBez{P0: e.current, P1: ctrl, P2: p}.Flatten(e.tolerance, e.scratch[:0])
	for _, q := range e.scratch {
		e.path.LineTo(q.X, q.Y)
	}
	e.current = p
}

func (e *outlineEncoder) cubicTo(ctrl1, ctrl2, p Point) {
	e.scratch = CubicBez{P0: e.current, P1: ctrl1, P2: ctrl2, P3: p}.Flatten(e.tolerance, e.scratch[:0])
	for _, q := range e.scratch {
		e.path.LineTo(q.X, q.Y)
	}
	e.current = p
}

func (e *outlineEncoder) finish() {
	if e.open {
		e.path.Close()
		e.open = false
	}
}

// fixedToPoint converts a 26.6 fixed-point coordinate pair to a Point.
func fixedToPoint(p fixed.Point26_6) Point {
	return Point{X: fixedToFloat(p.X), Y: fixedToFloat(p.Y)}
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
