package textmesh

// QuadBez is a quadratic Bezier curve.
type QuadBez struct {
	P0, P1, P2 Point
}

// Eval evaluates the curve at parameter t (0 to 1).
func (q QuadBez) Eval(t float64) Point {
	mt := 1.0 - t
	// (1-t)^2 * P0 + 2(1-t)t * P1 + t^2 * P2
	return Point{
		X: mt*mt*q.P0.X + 2*mt*t*q.P1.X + t*t*q.P2.X,
		Y: mt*mt*q.P0.Y + 2*mt*t*q.P1.Y + t*t*q.P2.Y,
	}
}

// Subdivide splits the curve at t=0.5 into two halves using de Casteljau.
func (q QuadBez) Subdivide() (QuadBez, QuadBez) {
	mid := q.Eval(0.5)
	return QuadBez{
			P0: q.P0,
			P1: q.P0.Lerp(q.P1, 0.5),
			P2: mid,
		}, QuadBez{
			P0: mid,
			P1: q.P1.Lerp(q.P2, 0.5),
			P2: q.P2,
		}
}

// flatness returns the distance from the control point to the chord
// midpoint, an upper bound on the curve's deviation from its chord.
func (q QuadBez) flatness() float64 {
	mid := q.P0.Lerp(q.P2, 0.5)
	return q.P1.Sub(mid).Length()
}

// Flatten appends line endpoints approximating the curve within the
// given tolerance to dst. The start point q.P0 is not appended.
func (q QuadBez) Flatten(tolerance float64, dst []Point) []Point {
	if q.flatness() <= tolerance {
		return append(dst, q.P2)
	}
	q1, q2 := q.Subdivide()
	dst = q1.Flatten(tolerance, dst)
	return q2.Flatten(tolerance, dst)
}

// CubicBez is a cubic Bezier curve.
type CubicBez struct {
	P0, P1, P2, P3 Point
}

// Eval evaluates the curve at parameter t (0 to 1).
func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	// (1-t)^3 P0 + 3(1-t)^2 t P1 + 3(1-t) t^2 P2 + t^3 P3
	a := mt * mt * mt
	b := 3 * mt * mt * t
	cc := 3 * mt * t * t
	d := t * t * t
	return Point{
		X: a*c.P0.X + b*c.P1.X + cc*c.P2.X + d*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + cc*c.P2.Y + d*c.P3.Y,
	}
}

// Subdivide splits the curve at t=0.5 into two halves using de Casteljau.
func (c CubicBez) Subdivide() (CubicBez, CubicBez) {
	p01 := c.P0.Lerp(c.P1, 0.5)
	p12 := c.P1.Lerp(c.P2, 0.5)
	p23 := c.P2.Lerp(c.P3, 0.5)
	p012 := p01.Lerp(p12, 0.5)
	p123 := p12.Lerp(p23, 0.5)
	mid := p012.Lerp(p123, 0.5)
	return CubicBez{P0: c.P0, P1: p01, P2: p012, P3: mid},
		CubicBez{P0: mid, P1: p123, P2: p23, P3: c.P3}
}

// flatness returns the maximum control-point distance from the chord
// midpoints, an upper bound on the curve's deviation from its chord.
func (c CubicBez) flatness() float64 {
	d1 := c.P1.Sub(c.P0.Lerp(c.P3, 1.0/3.0)).Length()
	d2 := c.P2.Sub(c.P0.Lerp(c.P3, 2.0/3.0)).Length()
	if d1 > d2 {
		return d1
	}
	return d2
}

// Flatten appends line endpoints approximating the curve within the
// given tolerance to dst. The start point c.P0 is not appended.
func (c CubicBez) Flatten(tolerance float64, dst []Point) []Point {
	if c.flatness() <= tolerance {
		return append(dst, c.P3)
	}
	c1, c2 := c.Subdivide()
	dst = c1.Flatten(tolerance, dst)
	return c2.Flatten(tolerance, dst)
}
