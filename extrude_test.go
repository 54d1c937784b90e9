package textmesh

import (
	"errors"
	"math"
	"testing"
)

// testOutline builds a synthetic square-with-hole outline in font
// units, standing in for an extracted glyph like "O".
func testOutline() *GlyphOutline {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(1000, 0)
	p.LineTo(1000, 1000)
	p.LineTo(0, 1000)
	p.Close()
	p.MoveTo(300, 300)
	p.LineTo(300, 700)
	p.LineTo(700, 700)
	p.LineTo(700, 300)
	p.Close()
	return &GlyphOutline{
		Path:       p,
		Bounds:     p.BoundingBox(),
		Advance:    1100,
		UnitsPerEm: 1000,
		FontSize:   50,
		GlyphID:    3,
	}
}

func TestExtrudeGlyphBeveled(t *testing.T) {
	opts := ExtrudeOptions{
		Depth: 5,
		Bevel: &BevelParameters{Width: 2, Segments: 4, ProfilePower: 1},
	}
	mesh, trace, err := ExtrudeGlyphWithTrace(testOutline(), opts)
	if err != nil {
		t.Fatalf("ExtrudeGlyphWithTrace: %v", err)
	}

	if len(trace.Contours) != 2 {
		t.Errorf("contour count = %d, want 2 (outer + hole)", len(trace.Contours))
	}
	if len(trace.BevelRings) != 2 {
		t.Fatalf("ring set count = %d, want 2", len(trace.BevelRings))
	}
	for i, br := range trace.BevelRings {
		if got := len(br.Rings); got != 3 {
			t.Errorf("ring set %d: intermediate ring count = %d, want segments-1 = 3", i, got)
		}
		if got := len(br.RingSequence()); got != 5 {
			t.Errorf("ring set %d: sequence length = %d, want 5", i, got)
		}
	}
	if trace.FrontCap == nil {
		t.Fatal("trace missing front cap")
	}
	// 1000-unit square at scale 50/1000, recentered: spans +/-25.
	wantBounds := Rect{Min: Point{-25, -25}, Max: Point{25, 25}}
	if !trace.Bounds.Min.Approx(wantBounds.Min, 1e-9) || !trace.Bounds.Max.Approx(wantBounds.Max, 1e-9) {
		t.Errorf("trace bounds = %+v, want %+v", trace.Bounds, wantBounds)
	}
	if trace.Validation.TriangleCount != mesh.TriangleCount() {
		t.Errorf("trace triangle count %d != mesh %d",
			trace.Validation.TriangleCount, mesh.TriangleCount())
	}

	if mesh.GlyphID != 3 || mesh.Depth != 5 {
		t.Errorf("mesh identity = glyph %d depth %v, want 3/5", mesh.GlyphID, mesh.Depth)
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("empty mesh")
	}

	// Depth range: everything between the front plane and full depth.
	for i, v := range mesh.Vertices {
		if v.Z < -1e-9 || v.Z > 5+1e-9 {
			t.Errorf("vertex %d z = %v outside [0, 5]", i, v.Z)
		}
	}
}

func TestExtrudeGlyphStraight(t *testing.T) {
	mesh, trace, err := ExtrudeGlyphWithTrace(testOutline(), ExtrudeOptions{Depth: 4}.WithoutBevel())
	if err != nil {
		t.Fatalf("ExtrudeGlyphWithTrace: %v", err)
	}
	if trace.FrontCap != nil {
		t.Error("straight extrusion should not tessellate a standalone front cap")
	}
	for i, br := range trace.BevelRings {
		if len(br.Rings) != 0 {
			t.Errorf("ring set %d has bevel rings in straight mode", i)
		}
		if got := len(br.RingSequence()); got != 1 {
			t.Errorf("ring set %d: sequence length = %d, want 1", i, got)
		}
	}

	// Straight walls: every vertex sits on the front or back plane.
	for i, v := range mesh.Vertices {
		if math.Abs(v.Z) > 1e-9 && math.Abs(v.Z-4) > 1e-9 {
			t.Errorf("vertex %d z = %v, want 0 or 4", i, v.Z)
		}
	}
}

func TestExtrudeGlyphDeterministic(t *testing.T) {
	opts := DefaultExtrudeOptions()
	m1, err := ExtrudeGlyph(testOutline(), opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	m2, err := ExtrudeGlyph(testOutline(), opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	b1, b2 := m1.Buffers(), m2.Buffers()
	if len(b1.Positions) != len(b2.Positions) || len(b1.Indices) != len(b2.Indices) {
		t.Fatalf("runs disagree on buffer sizes: %d/%d positions, %d/%d indices",
			len(b1.Positions), len(b2.Positions), len(b1.Indices), len(b2.Indices))
	}
	for i := range b1.Positions {
		if b1.Positions[i] != b2.Positions[i] {
			t.Fatalf("position %d differs: %v != %v", i, b1.Positions[i], b2.Positions[i])
		}
	}
	for i := range b1.Indices {
		if b1.Indices[i] != b2.Indices[i] {
			t.Fatalf("index %d differs: %d != %d", i, b1.Indices[i], b2.Indices[i])
		}
	}
}

func TestExtrudeGlyphErrors(t *testing.T) {
	good := testOutline()
	noScale := testOutline()
	noScale.UnitsPerEm = 0

	tests := []struct {
		name    string
		outline *GlyphOutline
		opts    ExtrudeOptions
		want    error
	}{
		{"nil outline", nil, DefaultExtrudeOptions(), ErrInvalidInput},
		{"empty path", &GlyphOutline{Path: NewPath(), UnitsPerEm: 1000, FontSize: 50}, DefaultExtrudeOptions(), ErrInvalidInput},
		{"zero depth", good, ExtrudeOptions{Depth: 0}, ErrInvalidInput},
		{"negative depth", good, ExtrudeOptions{Depth: -2}, ErrInvalidInput},
		{"bad bevel", good, ExtrudeOptions{Depth: 5, Bevel: &BevelParameters{Width: -1, Segments: 4, ProfilePower: 1}}, ErrInvalidInput},
		{"zero units per em", noScale, DefaultExtrudeOptions(), ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtrudeGlyph(tt.outline, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExtrudeOptionsChaining(t *testing.T) {
	opts := DefaultExtrudeOptions().WithDepth(8)
	if opts.Depth != 8 || opts.Bevel == nil {
		t.Errorf("WithDepth changed bevel: %+v", opts)
	}
	opts = opts.WithoutBevel()
	if opts.Bevel != nil {
		t.Error("WithoutBevel left bevel set")
	}
	opts = opts.WithBevel(BevelParameters{Width: 1, Segments: 2, ProfilePower: 2})
	if opts.Bevel == nil || opts.Bevel.Segments != 2 {
		t.Errorf("WithBevel not applied: %+v", opts)
	}
}

func TestMeshBuffers(t *testing.T) {
	mesh, err := ExtrudeGlyph(testOutline(), DefaultExtrudeOptions())
	if err != nil {
		t.Fatalf("ExtrudeGlyph: %v", err)
	}
	b := mesh.Buffers()

	if got, want := b.VertexCount(), len(mesh.Vertices); got != want {
		t.Errorf("VertexCount = %d, want %d", got, want)
	}
	if len(b.Positions) != len(mesh.Vertices)*3 {
		t.Errorf("positions length = %d, want %d", len(b.Positions), len(mesh.Vertices)*3)
	}
	if len(b.Normals) != len(mesh.Normals)*3 {
		t.Errorf("normals length = %d, want %d", len(b.Normals), len(mesh.Normals)*3)
	}
	if len(b.UVs) != len(mesh.UVs)*2 {
		t.Errorf("uvs length = %d, want %d", len(b.UVs), len(mesh.UVs)*2)
	}
	if len(b.Indices) != len(mesh.Indices) {
		t.Errorf("indices length = %d, want %d", len(b.Indices), len(mesh.Indices))
	}

	for i, v := range mesh.Vertices {
		if b.Positions[i*3] != float32(v.X) || b.Positions[i*3+1] != float32(v.Y) || b.Positions[i*3+2] != float32(v.Z) {
			t.Fatalf("position %d transcoded wrong", i)
		}
	}
}
