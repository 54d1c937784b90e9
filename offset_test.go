package textmesh

import (
	"errors"
	"math"
	"testing"
)

func ccwSquare(size float64) Contour {
	return Contour{
		Vertices: []Point{{0, 0}, {size, 0}, {size, size}, {0, size}},
		Closed:   true,
	}
}

func TestComputeBevelRingsSquare(t *testing.T) {
	rings, err := ComputeBevelRings([]Contour{ccwSquare(20)}, 2.0, 4, 1.0, 0)
	if err != nil {
		t.Fatalf("ComputeBevelRings: %v", err)
	}
	if len(rings) != 1 {
		t.Fatalf("expected 1 ring set, got %d", len(rings))
	}
	br := rings[0]
	if len(br.Rings) != 3 {
		t.Errorf("expected 3 intermediate rings, got %d", len(br.Rings))
	}
	if got := len(br.RingSequence()); got != 5 {
		t.Errorf("RingSequence length = %d, want segments+1 = 5", got)
	}

	// Linear profile on a square: ring k is the square inset by
	// width*k/segments, vertices in source order starting at the
	// offset of the first source vertex.
	seq := br.RingSequence()
	for k, ring := range seq {
		d := 2.0 * float64(k) / 4.0
		want := []Point{{d, d}, {20 - d, d}, {20 - d, 20 - d}, {d, 20 - d}}
		if len(ring.Vertices) != 4 {
			t.Fatalf("ring %d: expected 4 vertices, got %d", k, len(ring.Vertices))
		}
		for i, v := range ring.Vertices {
			if !v.Approx(want[i], 1e-9) {
				t.Errorf("ring %d vertex %d: got %v, want %v", k, i, v, want[i])
			}
		}
		if !ring.IsCCW() {
			t.Errorf("ring %d lost source winding", k)
		}
	}
}

func TestComputeBevelRingsSingleSegment(t *testing.T) {
	rings, err := ComputeBevelRings([]Contour{ccwSquare(20)}, 2.0, 1, 1.0, 0)
	if err != nil {
		t.Fatalf("ComputeBevelRings: %v", err)
	}
	br := rings[0]
	if len(br.Rings) != 0 {
		t.Errorf("single segment should have no intermediate rings, got %d", len(br.Rings))
	}
	if got := math.Abs(br.Inner.SignedArea()); math.Abs(got-256) > 1e-6 {
		t.Errorf("inner area = %v, want 256 (16x16 inset square)", got)
	}
	if got := len(br.RingSequence()); got != 2 {
		t.Errorf("RingSequence length = %d, want 2", got)
	}
}

func TestComputeBevelRingsProfilePower(t *testing.T) {
	rings, err := ComputeBevelRings([]Contour{ccwSquare(20)}, 4.0, 2, 2.0, 0)
	if err != nil {
		t.Fatalf("ComputeBevelRings: %v", err)
	}
	br := rings[0]
	// distance = 4 * (1/2)^2 = 1 for the first ring, 4 for the inner.
	if len(br.Rings) != 1 {
		t.Fatalf("expected 1 intermediate ring, got %d", len(br.Rings))
	}
	if got := br.Rings[0].Vertices[0]; !got.Approx(Point{1, 1}, 1e-9) {
		t.Errorf("first ring vertex = %v, want (1,1)", got)
	}
	if got := br.Inner.Vertices[0]; !got.Approx(Point{4, 4}, 1e-9) {
		t.Errorf("inner vertex = %v, want (4,4)", got)
	}
}

func TestComputeBevelRingsEarlyVanish(t *testing.T) {
	// Width exceeds the square's inradius: rings past the collapse
	// point are dropped and generation stops there.
	rings, err := ComputeBevelRings([]Contour{ccwSquare(20)}, 15.0, 4, 1.0, 0)
	if err != nil {
		t.Fatalf("ComputeBevelRings: %v", err)
	}
	br := rings[0]
	// Distances 3.75 and 7.5 survive; 11.25 inverts the square.
	if len(br.Rings) != 1 {
		t.Errorf("expected 1 intermediate ring after early stop, got %d", len(br.Rings))
	}
	if got := math.Abs(br.Inner.SignedArea()); math.Abs(got-25) > 1e-6 {
		t.Errorf("inner area = %v, want 25 (5x5 square at distance 7.5)", got)
	}
}

func TestComputeBevelRingsHoleWinding(t *testing.T) {
	hole := ccwSquare(20).Reversed()
	rings, err := ComputeBevelRings([]Contour{hole}, 2.0, 2, 1.0, 0)
	if err != nil {
		t.Fatalf("ComputeBevelRings: %v", err)
	}
	br := rings[0]
	if br.Inner.IsCCW() {
		t.Error("hole offset should stay clockwise")
	}
	if got := math.Abs(br.Inner.SignedArea()); got >= 400 {
		t.Errorf("inner |area| = %v, want smaller than source 400", got)
	}
}

func TestComputeBevelRingsSkipsDegenerate(t *testing.T) {
	bad := Contour{Vertices: []Point{{0, 0}, {1e-6, 0}, {0, 1e-6}}, Closed: true}
	rings, err := ComputeBevelRings([]Contour{bad}, 2.0, 4, 1.0, 0)
	if err != nil {
		t.Fatalf("ComputeBevelRings: %v", err)
	}
	if len(rings) != 0 {
		t.Errorf("degenerate subcontour should be skipped, got %d ring sets", len(rings))
	}
}

func TestComputeBevelRingsValidation(t *testing.T) {
	square := []Contour{ccwSquare(20)}
	tests := []struct {
		name     string
		contours []Contour
		width    float64
		segments int
		power    float64
	}{
		{"zero width", square, 0, 4, 1},
		{"negative width", square, -1, 4, 1},
		{"nan width", square, math.NaN(), 4, 1},
		{"zero segments", square, 2, 0, 1},
		{"zero power", square, 2, 4, 0},
		{"no contours", nil, 2, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeBevelRings(tt.contours, tt.width, tt.segments, tt.power, 0)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestComputeBevelRingsMultipleContours(t *testing.T) {
	outer := ccwSquare(20)
	hole := Contour{
		Vertices: []Point{{8, 8}, {8, 12}, {12, 12}, {12, 8}},
		Closed:   true,
	}
	rings, err := ComputeBevelRings([]Contour{outer, hole}, 0.5, 2, 1.0, 0)
	if err != nil {
		t.Fatalf("ComputeBevelRings: %v", err)
	}
	if len(rings) != 2 {
		t.Fatalf("expected one ring set per subcontour, got %d", len(rings))
	}
	if !rings[0].Inner.IsCCW() {
		t.Error("outer ring set should stay counter-clockwise")
	}
	if rings[1].Inner.IsCCW() {
		t.Error("hole ring set should stay clockwise")
	}
}

func TestSplitSelfIntersectionsBowtie(t *testing.T) {
	// A figure-eight crossing at (2, 1.5) splits into two triangles.
	pts := []Point{{0, 0}, {4, 0}, {0, 3}, {4, 3}}
	loops := splitSelfIntersections(pts)
	if len(loops) != 2 {
		t.Fatalf("expected 2 loops, got %d", len(loops))
	}
	cross := Point{2, 1.5}
	for i, l := range loops {
		if len(l) != 3 {
			t.Errorf("loop %d: expected 3 points, got %d", i, len(l))
			continue
		}
		if !l[0].Approx(cross, 1e-9) {
			t.Errorf("loop %d should start at the crossing, got %v", i, l[0])
		}
	}
}

func TestOffsetPolygonInwardVanish(t *testing.T) {
	square := []Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}}
	if loops := offsetPolygonInward(square, 3); len(loops) != 0 {
		t.Errorf("offset past inradius should vanish, got %d loops", len(loops))
	}
	if loops := offsetPolygonInward(square, 0); loops != nil {
		t.Errorf("zero distance should return nil, got %d loops", len(loops))
	}
}
