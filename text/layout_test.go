package text

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/textmesh"
)

func TestLayoutTextLines(t *testing.T) {
	fonts, id := newTestFonts(t)
	shaper := NewShaper()
	style := Style{Font: id, Size: 50}

	lines, err := LayoutText(fonts, shaper, "Go\nGo\nGo", style, DefaultLayoutOptions())
	if err != nil {
		t.Fatalf("LayoutText: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}

	// Baselines descend by size * lineHeight (mesh space is Y-up).
	for i, line := range lines {
		want := -float64(i) * 50 * 1.2
		if math.Abs(line.Y-want) > 1e-9 {
			t.Errorf("line %d Y = %v, want %v", i, line.Y, want)
		}
		if len(line.Glyphs) != 2 {
			t.Errorf("line %d glyph count = %d, want 2", i, len(line.Glyphs))
		}
		if line.Width <= 0 {
			t.Errorf("line %d width = %v, want positive", i, line.Width)
		}
	}
}

func TestLayoutTextLineHeight(t *testing.T) {
	fonts, id := newTestFonts(t)
	shaper := NewShaper()
	style := Style{Font: id, Size: 10}

	lines, err := LayoutText(fonts, shaper, "a\nb", style, LayoutOptions{LineHeight: 2})
	if err != nil {
		t.Fatalf("LayoutText: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}
	if math.Abs(lines[1].Y+20) > 1e-9 {
		t.Errorf("second baseline = %v, want -20", lines[1].Y)
	}
}

func TestLayoutTextAlign(t *testing.T) {
	fonts, id := newTestFonts(t)
	shaper := NewShaper()
	style := Style{Font: id, Size: 50}

	left, err := LayoutText(fonts, shaper, "Go", style, LayoutOptions{Align: AlignLeft})
	if err != nil {
		t.Fatal(err)
	}
	center, err := LayoutText(fonts, shaper, "Go", style, LayoutOptions{Align: AlignCenter})
	if err != nil {
		t.Fatal(err)
	}
	right, err := LayoutText(fonts, shaper, "Go", style, LayoutOptions{Align: AlignRight})
	if err != nil {
		t.Fatal(err)
	}

	w := left[0].Width
	if got := center[0].Glyphs[0].X - left[0].Glyphs[0].X; math.Abs(got+w/2) > 1e-9 {
		t.Errorf("center shift = %v, want %v", got, -w/2)
	}
	if got := right[0].Glyphs[0].X - left[0].Glyphs[0].X; math.Abs(got+w) > 1e-9 {
		t.Errorf("right shift = %v, want %v", got, -w)
	}
}

func TestLayoutTextWrap(t *testing.T) {
	fonts, id := newTestFonts(t)
	shaper := NewShaper()
	style := Style{Font: id, Size: 50}

	unwrapped, err := LayoutText(fonts, shaper, "one two three", style, DefaultLayoutOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(unwrapped) != 1 {
		t.Fatalf("unwrapped line count = %d, want 1", len(unwrapped))
	}

	// Force wrapping with a width barely larger than one word.
	wrapped, err := LayoutText(fonts, shaper, "one two three", style,
		LayoutOptions{LineHeight: 1.2, MaxWidth: unwrapped[0].Width / 2.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(wrapped) < 2 {
		t.Errorf("wrapped line count = %d, want at least 2", len(wrapped))
	}
	for i, line := range wrapped {
		if len(line.Glyphs) == 0 {
			t.Errorf("wrapped line %d is empty", i)
		}
	}
}

func TestLayoutTextErrors(t *testing.T) {
	fonts, id := newTestFonts(t)
	shaper := NewShaper()

	if _, err := LayoutText(fonts, shaper, "x", Style{Font: id, Size: 0}, DefaultLayoutOptions()); !errors.Is(err, textmesh.ErrInvalidInput) {
		t.Errorf("zero size: got %v, want ErrInvalidInput", err)
	}
	if _, err := LayoutText(fonts, shaper, "x", Style{Font: id + 99, Size: 50}, DefaultLayoutOptions()); !errors.Is(err, textmesh.ErrFontParse) {
		t.Errorf("unknown font: got %v, want ErrFontParse", err)
	}

	lines, err := LayoutText(fonts, shaper, "", Style{Font: id, Size: 50}, DefaultLayoutOptions())
	if err != nil || lines != nil {
		t.Errorf("empty string: got %d lines, %v; want nil, nil", len(lines), err)
	}
}
