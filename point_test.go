package textmesh

import (
	"math"
	"testing"
)

func TestPointOps(t *testing.T) {
	a := Pt(3, 4)
	b := Pt(1, -2)

	if got := a.Add(b); got != Pt(4, 2) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != Pt(2, 6) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Mul(2); got != Pt(6, 8) {
		t.Errorf("Mul = %v", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("Dot = %v, want -5", got)
	}
	if got := a.Cross(b); got != -10 {
		t.Errorf("Cross = %v, want -10", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := a.LengthSquared(); got != 25 {
		t.Errorf("LengthSquared = %v, want 25", got)
	}
	if got := a.Distance(Pt(0, 0)); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestPointPerp(t *testing.T) {
	// Perp rotates 90 degrees counter-clockwise.
	if got := Pt(1, 0).Perp(); got != Pt(0, 1) {
		t.Errorf("Perp(1,0) = %v, want (0,1)", got)
	}
	if got := Pt(0, 1).Perp(); got != Pt(-1, 0) {
		t.Errorf("Perp(0,1) = %v, want (-1,0)", got)
	}
}

func TestPointNormalize(t *testing.T) {
	n := Pt(3, 4).Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("normalized length = %v", n.Length())
	}
	if got := Pt(0, 0).Normalize(); got != Pt(0, 0) {
		t.Errorf("zero vector normalized to %v", got)
	}
}

func TestPointLerp(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 20)
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v", got)
	}
	if got := a.Lerp(b, 0.5); got != Pt(5, 10) {
		t.Errorf("Lerp(0.5) = %v", got)
	}
}

func TestVec3Ops(t *testing.T) {
	v := V3(1, 0, 0)
	w := V3(0, 1, 0)

	if got := v.Cross(w); got != V3(0, 0, 1) {
		t.Errorf("Cross = %v, want (0,0,1)", got)
	}
	if got := w.Cross(v); got != V3(0, 0, -1) {
		t.Errorf("reverse Cross = %v, want (0,0,-1)", got)
	}
	if got := v.Dot(w); got != 0 {
		t.Errorf("Dot = %v, want 0", got)
	}
	if got := V3(2, 3, 6).Length(); got != 7 {
		t.Errorf("Length = %v, want 7", got)
	}
	if got := V3(0, 0, 0).Normalize(); got != V3(0, 0, 0) {
		t.Errorf("zero Vec3 normalized to %v", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !V3(1, 2, 3).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if V3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN component reported finite")
	}
	if V3(0, math.Inf(-1), 0).IsFinite() {
		t.Error("Inf component reported finite")
	}
}
