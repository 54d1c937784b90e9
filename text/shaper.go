package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gotextfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textmesh"
)

// Direction is the text layout direction.
type Direction uint8

const (
	// DirectionLTR lays glyphs out left to right.
	DirectionLTR Direction = iota

	// DirectionRTL lays glyphs out right to left.
	DirectionRTL
)

// ShapedGlyph is one positioned glyph in a shaped run, carrying
// everything the mesh pipeline needs to extract and place its mesh.
type ShapedGlyph struct {
	// GlyphID is the glyph index in the font.
	GlyphID textmesh.GlyphID

	// FontID identifies the font within the FontSystem.
	FontID textmesh.FontID

	// FontSize is the shaping size in mesh units per em.
	FontSize float64

	// X, Y is the pen position relative to the run origin.
	X, Y float64

	// XOffset, YOffset are fine positioning adjustments applied on top
	// of the pen position.
	XOffset, YOffset float64

	// Cluster is the source rune index, for hit testing.
	Cluster int

	// Material is caller-defined metadata (a material slot index)
	// passed through layout untouched.
	Material int
}

// Shaper shapes text with HarfBuzz via go-text/typesetting. It
// supports ligatures, kerning, and complex scripts.
//
// Shaper is safe for concurrent use: HarfbuzzShaper instances have
// internal mutable state, so they are pooled, and each Shape call
// creates its own lightweight font.Face around the thread-safe Font.
type Shaper struct {
	pool sync.Pool
}

// NewShaper creates a Shaper backed by go-text/typesetting's HarfBuzz
// implementation.
func NewShaper() *Shaper {
	return &Shaper{
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// Shape converts a string into positioned glyphs at the given size.
// Glyph positions are relative to the run origin with Y at the
// baseline. The material index is copied onto every glyph.
func (s *Shaper) Shape(src *FontSource, str string, size float64, material int) []ShapedGlyph {
	if src == nil || str == "" || size <= 0 {
		return nil
	}

	runes := []rune(str)
	dir := detectDirection(runes)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: mapDirection(dir),
		Face:      gotextfont.NewFace(src.gotext),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.pool.Put(hb)

	return convertGlyphs(output.Glyphs, src.id, size, material)
}

// convertGlyphs converts go-text output glyphs into ShapedGlyphs with
// accumulated pen positions.
func convertGlyphs(glyphs []shaping.Glyph, fontID textmesh.FontID, size float64, material int) []ShapedGlyph {
	if len(glyphs) == 0 {
		return nil
	}
	result := make([]ShapedGlyph, len(glyphs))
	x := 0.0
	for i, g := range glyphs {
		result[i] = ShapedGlyph{
			GlyphID:  textmesh.GlyphID(uint16(g.GlyphID)), //nolint:gosec // glyph ids are 16-bit in sfnt fonts
			FontID:   fontID,
			FontSize: size,
			X:        x,
			Y:        0,
			XOffset:  fixedToFloat(g.XOffset),
			YOffset:  fixedToFloat(g.YOffset),
			Cluster:  g.TextIndex(),
			Material: material,
		}
		x += fixedToFloat(g.Advance)
	}
	return result
}

// mapDirection converts our Direction to go-text's di.Direction.
func mapDirection(d Direction) di.Direction {
	if d == DirectionRTL {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectDirection returns RTL when the first strong character belongs
// to a right-to-left script. Mixed-direction text should be split into
// runs by the caller before shaping.
func detectDirection(runes []rune) Direction {
	for _, r := range runes {
		switch language.LookupScript(r) {
		case language.Arabic, language.Hebrew:
			return DirectionRTL
		}
	}
	return DirectionLTR
}

// detectScript inspects the runes and returns the script of the first
// non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 size to 26.6 fixed point.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts a 26.6 fixed-point value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
