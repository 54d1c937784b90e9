package text

import (
	"fmt"
	"strings"

	"github.com/gogpu/textmesh"
)

// Align is the horizontal alignment of laid-out lines.
type Align uint8

const (
	// AlignLeft aligns line starts at x=0.
	AlignLeft Align = iota

	// AlignCenter centers each line around x=0.
	AlignCenter

	// AlignRight aligns line ends at x=0.
	AlignRight
)

// Style selects the font, size, and material metadata for a span of
// text.
type Style struct {
	Font     textmesh.FontID
	Size     float64
	Material int
}

// LayoutOptions configures multi-line layout.
type LayoutOptions struct {
	// LineHeight is a multiplier of the font size used as baseline
	// distance. Zero means the default of 1.2.
	LineHeight float64

	// MaxWidth wraps lines greedily at word boundaries when positive.
	MaxWidth float64

	// Align is the horizontal alignment.
	Align Align
}

// DefaultLayoutOptions returns single-spaced, left-aligned layout with
// no wrapping.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{LineHeight: 1.2}
}

// Line is one laid-out run of glyphs sharing a baseline.
type Line struct {
	// Y is the baseline height in mesh units. The first line sits at 0
	// and subsequent lines descend (mesh space is Y-up).
	Y float64

	// Width is the advance width of the line.
	Width float64

	// Glyphs are positioned relative to the line origin; Line.Y is not
	// folded into glyph Y.
	Glyphs []ShapedGlyph
}

// LayoutText shapes and lays out a string into lines. Input lines are
// split on '\n'; when opts.MaxWidth is positive, lines are additionally
// wrapped greedily at word boundaries measured with the real shaped
// advances.
func LayoutText(fonts *FontSystem, shaper *Shaper, str string, style Style, opts LayoutOptions) ([]Line, error) {
	if str == "" {
		return nil, nil
	}
	if style.Size <= 0 {
		return nil, fmt.Errorf("%w: font size %v", textmesh.ErrInvalidInput, style.Size)
	}
	src, ok := fonts.Source(style.Font)
	if !ok {
		return nil, fmt.Errorf("%w: unknown font id %d", textmesh.ErrFontParse, style.Font)
	}

	lineHeight := opts.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1.2
	}
	step := style.Size * lineHeight

	var texts []string
	for _, raw := range strings.Split(str, "\n") {
		if opts.MaxWidth > 0 {
			texts = append(texts, wrapLine(shaper, src, raw, style.Size, opts.MaxWidth)...)
		} else {
			texts = append(texts, raw)
		}
	}

	lines := make([]Line, 0, len(texts))
	for i, lt := range texts {
		glyphs := shaper.Shape(src, lt, style.Size, style.Material)
		width := lineWidth(glyphs)
		shift := alignShift(opts.Align, width)
		for gi := range glyphs {
			glyphs[gi].X += shift
		}
		lines = append(lines, Line{
			Y:      -float64(i) * step,
			Width:  width,
			Glyphs: glyphs,
		})
	}
	return lines, nil
}

// lineWidth returns the pen extent of a shaped run.
func lineWidth(glyphs []ShapedGlyph) float64 {
	if len(glyphs) == 0 {
		return 0
	}
	max := 0.0
	for _, g := range glyphs {
		if g.X > max {
			max = g.X
		}
	}
	// The last glyph's own advance is not recoverable from pen
	// positions alone; approximate with its size-relative width.
	return max + glyphs[len(glyphs)-1].FontSize*0.5
}

func alignShift(a Align, width float64) float64 {
	switch a {
	case AlignCenter:
		return -width / 2
	case AlignRight:
		return -width
	default:
		return 0
	}
}

// wrapLine breaks one input line into wrapped lines no wider than
// maxWidth, measuring candidate lines with real shaped advances so
// kerning across word boundaries is accounted for.
func wrapLine(shaper *Shaper, src *FontSource, line string, size, maxWidth float64) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{line}
	}

	var (
		out     []string
		current string
	)
	for _, w := range words {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if current != "" && lineWidth(shaper.Shape(src, candidate, size, 0)) > maxWidth {
			out = append(out, current)
			current = w
			continue
		}
		current = candidate
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}
