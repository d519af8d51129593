package locate

import "math"

// Estimator turns a set of distance measurements into a 2D position. It runs
// closed-form trilateration when exactly three measurements allow it, and
// weighted Gauss-Newton least squares otherwise, with a bounds gate on the
// result.
type Estimator struct {
	MinX, MinY float64
	MaxX, MaxY float64
	Margin     float64
}

// NewEstimator bounds the solver to the working area plus the default margin.
func NewEstimator(minX, minY, maxX, maxY float64) *Estimator {
	return &Estimator{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY, Margin: MapMargin}
}

// Weight maps signal strength to solver weight: strong signals near -60 dBm
// approach 10, weak ones near -100 dBm approach 1.
func Weight(rssi float64) float64 {
	return math.Pow(10.0, clamp((rssi-weightFloor)/weightSpan, 0, 1))
}

// Solve produces a position estimate or an explicit no-solution result.
// Degenerate geometry and solver singularities are resolved internally; the
// caller only ever sees a valid estimate or a reason code.
func (e *Estimator) Solve(ms []Measurement) Estimate {
	if len(ms) < 3 {
		return Estimate{Reason: ReasonInsufficientMeasurements}
	}

	x0, y0 := weightedCentroid(ms)
	viaTrilateration := false
	if len(ms) == 3 {
		if tx, ty, ok := Trilaterate(ms[0], ms[1], ms[2]); ok {
			x0, y0 = tx, ty
			viaTrilateration = true
		}
	}

	x, y, term, iters := e.leastSquares(ms, x0, y0)

	if x < e.MinX-e.Margin || x > e.MaxX+e.Margin || y < e.MinY-e.Margin || y > e.MaxY+e.Margin {
		return Estimate{X: x, Y: y, Reason: ReasonOutOfBounds, Term: term, Iterations: iters}
	}
	if term == TermSingular && iters == 0 && !viaTrilateration && len(ms) == 3 {
		// Closed form failed on collinear anchors and the fallback could not
		// move off the centroid either. The estimate is still the best
		// available, but tag the geometry for the caller.
		return Estimate{X: x, Y: y, Valid: true, Reason: ReasonDegenerateGeometry, Term: term, Iterations: iters}
	}
	return Estimate{X: x, Y: y, Valid: true, Term: term, Iterations: iters}
}

// Trilaterate solves the closed-form three-circle system. It fails when the
// anchors are collinear; the caller then falls back to the iterative solver.
func Trilaterate(m1, m2, m3 Measurement) (float64, float64, bool) {
	x1, y1, r1 := m1.AnchorX, m1.AnchorY, m1.Distance
	x2, y2, r2 := m2.AnchorX, m2.AnchorY, m2.Distance
	x3, y3, r3 := m3.AnchorX, m3.AnchorY, m3.Distance

	// Subtracting pairs of circle equations leaves a 2x2 linear system.
	a := 2 * (x2 - x1)
	b := 2 * (y2 - y1)
	c := r1*r1 - r2*r2 - x1*x1 + x2*x2 - y1*y1 + y2*y2
	d := 2 * (x3 - x2)
	f := 2 * (y3 - y2)
	g := r2*r2 - r3*r3 - x2*x2 + x3*x3 - y2*y2 + y3*y3

	det := a*f - b*d
	if math.Abs(det) < CollinearEps {
		return 0, 0, false
	}
	return (c*f - b*g) / det, (a*g - c*d) / det, true
}

func weightedCentroid(ms []Measurement) (float64, float64) {
	var sx, sy, sw float64
	for _, m := range ms {
		w := Weight(m.RSSI)
		sx += w * m.AnchorX
		sy += w * m.AnchorY
		sw += w
	}
	if sw == 0 {
		return 0, 0
	}
	return sx / sw, sy / sw
}

// leastSquares runs weighted Gauss-Newton from the initial guess. A singular
// normal matrix stops iteration and returns the last valid estimate rather
// than failing; the termination status tells the caller which way it ended.
func (e *Estimator) leastSquares(ms []Measurement, x0, y0 float64) (float64, float64, Termination, int) {
	x, y := x0, y0
	for it := 0; it < MaxIterations; it++ {
		var ata00, ata01, ata11, atb0, atb1 float64
		for _, m := range ms {
			dx := x - m.AnchorX
			dy := y - m.AnchorY
			pred := math.Hypot(dx, dy)
			if pred < MinDistance {
				pred = MinDistance
			}
			res := pred - m.Distance
			jx := dx / pred
			jy := dy / pred
			w := Weight(m.RSSI)
			ata00 += w * jx * jx
			ata01 += w * jx * jy
			ata11 += w * jy * jy
			atb0 += w * jx * res
			atb1 += w * jy * res
		}
		det := ata00*ata11 - ata01*ata01
		if math.Abs(det) < SingularDetEps {
			return x, y, TermSingular, it
		}
		stepX := (ata11*atb0 - ata01*atb1) / det
		stepY := (ata00*atb1 - ata01*atb0) / det
		x -= stepX
		y -= stepY
		if math.Hypot(stepX, stepY) < ConvergenceStep {
			return x, y, TermConverged, it + 1
		}
	}
	return x, y, TermMaxIterations, MaxIterations
}
