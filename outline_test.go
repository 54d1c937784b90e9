package textmesh_test

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textmesh"
	"github.com/gogpu/textmesh/text"
)

func loadTestFont(t *testing.T) (*text.FontSystem, textmesh.FontID, *text.FontSource) {
	t.Helper()
	fonts := text.NewFontSystem()
	id, err := fonts.AddFont(goregular.TTF)
	if err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	src, _ := fonts.Source(id)
	return fonts, id, src
}

func TestExtractGlyphOutline(t *testing.T) {
	fonts, id, src := loadTestFont(t)

	ref := textmesh.GlyphRef{
		FontID:   id,
		GlyphID:  src.GlyphIndex('A'),
		FontSize: 50,
	}
	outline, err := textmesh.ExtractGlyphOutline(ref, fonts)
	if err != nil {
		t.Fatalf("ExtractGlyphOutline: %v", err)
	}

	if outline.Path == nil || outline.Path.IsEmpty() {
		t.Fatal("outline has no path")
	}
	if outline.Bounds.Empty() {
		t.Error("outline bounds are empty")
	}
	if outline.Advance <= 0 {
		t.Errorf("advance = %v, want positive", outline.Advance)
	}
	if outline.UnitsPerEm == 0 {
		t.Error("unitsPerEm not recorded")
	}
	if outline.FontSize != 50 || outline.GlyphID != ref.GlyphID {
		t.Errorf("outline identity = %v/%d, want 50/%d", outline.FontSize, outline.GlyphID, ref.GlyphID)
	}
	if got := outline.Scale(); got != 50/float64(outline.UnitsPerEm) {
		t.Errorf("Scale = %v", got)
	}

	// Extraction flattens at ingestion: the path must contain no curve
	// elements.
	for i, elem := range outline.Path.Elements() {
		switch elem.(type) {
		case textmesh.QuadTo, textmesh.CubicTo:
			t.Fatalf("element %d is a curve; outline should be pre-flattened", i)
		}
	}
}

func TestExtractGlyphOutlineErrors(t *testing.T) {
	fonts, id, src := loadTestFont(t)

	t.Run("unknown font", func(t *testing.T) {
		ref := textmesh.GlyphRef{FontID: id + 99, GlyphID: 4, FontSize: 50}
		if _, err := textmesh.ExtractGlyphOutline(ref, fonts); !errors.Is(err, textmesh.ErrFontParse) {
			t.Errorf("got %v, want ErrFontParse", err)
		}
	})

	t.Run("glyph without outline", func(t *testing.T) {
		ref := textmesh.GlyphRef{FontID: id, GlyphID: src.GlyphIndex(' '), FontSize: 50}
		if _, err := textmesh.ExtractGlyphOutline(ref, fonts); !errors.Is(err, textmesh.ErrGlyphNotFound) {
			t.Errorf("got %v, want ErrGlyphNotFound", err)
		}
	})

	t.Run("glyph index out of range", func(t *testing.T) {
		ref := textmesh.GlyphRef{FontID: id, GlyphID: 65000, FontSize: 50}
		if _, err := textmesh.ExtractGlyphOutline(ref, fonts); err == nil {
			t.Error("expected error for out-of-range glyph index")
		}
	})
}

func TestExtractThenExtrude(t *testing.T) {
	fonts, id, src := loadTestFont(t)

	for _, r := range []rune{'A', 'o', '8'} {
		ref := textmesh.GlyphRef{FontID: id, GlyphID: src.GlyphIndex(r), FontSize: 50}
		outline, err := textmesh.ExtractGlyphOutline(ref, fonts)
		if err != nil {
			t.Fatalf("extract %q: %v", r, err)
		}
		mesh, err := textmesh.ExtrudeGlyph(outline, textmesh.DefaultExtrudeOptions())
		if err != nil {
			t.Fatalf("extrude %q: %v", r, err)
		}
		if mesh.TriangleCount() == 0 {
			t.Errorf("glyph %q produced an empty mesh", r)
		}
		if _, err := textmesh.CheckMesh(mesh); err != nil {
			t.Errorf("glyph %q mesh fails validation: %v", r, err)
		}
	}
}
