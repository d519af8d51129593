package locate

import (
	"math"
	"testing"
)

// measureAt builds noiseless measurements for a receiver at (rx,ry) against
// the given anchors, with RSSI from the clean path loss model.
func measureAt(rx, ry float64, anchors []Anchor) []Measurement {
	p := NewPropagation(quietConfig(), nil, 1)
	ms := make([]Measurement, 0, len(anchors))
	for _, a := range anchors {
		d := math.Hypot(a.X-rx, a.Y-ry)
		rssi := p.SignalStrength(d, a.X, a.Y, rx, ry)
		ms = append(ms, Measurement{
			AnchorID: a.ID,
			AnchorX:  a.X,
			AnchorY:  a.Y,
			RSSI:     rssi,
			Filtered: rssi,
			Distance: p.Distance(rssi),
		})
	}
	return ms
}

func threeAnchors() []Anchor {
	return []Anchor{
		{ID: "a1", X: 0, Y: 0},
		{ID: "a2", X: 10, Y: 0},
		{ID: "a3", X: 0, Y: 10},
	}
}

func TestWeight(t *testing.T) {
	cases := []struct {
		rssi, want float64
	}{
		{-60, 10},
		{-30, 10},  // clamped high
		{-100, 1},  // weak floor
		{-120, 1},  // clamped low
		{-80, math.Pow(10, 0.5)},
	}
	for _, c := range cases {
		if got := Weight(c.rssi); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Weight(%f) = %f, want %f", c.rssi, got, c.want)
		}
	}
}

func TestTrilaterateExact(t *testing.T) {
	ms := measureAt(3, 4, threeAnchors())
	x, y, ok := Trilaterate(ms[0], ms[1], ms[2])
	if !ok {
		t.Fatal("trilateration failed on well-conditioned anchors")
	}
	if math.Abs(x-3) > 1e-6 || math.Abs(y-4) > 1e-6 {
		t.Errorf("got (%f,%f), want (3,4)", x, y)
	}
}

func TestTrilaterateCollinear(t *testing.T) {
	anchors := []Anchor{{ID: "a1"}, {ID: "a2", X: 5}, {ID: "a3", X: 10}}
	ms := measureAt(3, 4, anchors)
	if _, _, ok := Trilaterate(ms[0], ms[1], ms[2]); ok {
		t.Error("trilateration succeeded on collinear anchors")
	}
}

func TestSolveConvergence(t *testing.T) {
	est := NewEstimator(0, 0, 10, 10)
	e := est.Solve(measureAt(3, 4, threeAnchors()))
	if !e.Valid {
		t.Fatalf("no estimate: %s", e.Reason)
	}
	if math.Hypot(e.X-3, e.Y-4) > 0.05 {
		t.Errorf("estimate (%f,%f) further than 0.05 m from (3,4)", e.X, e.Y)
	}
	if e.Term != TermConverged {
		t.Errorf("termination = %s, want converged", e.Term)
	}
}

func TestSolveFourMeasurements(t *testing.T) {
	anchors := append(threeAnchors(), Anchor{ID: "a4", X: 10, Y: 10})
	est := NewEstimator(0, 0, 10, 10)
	e := est.Solve(measureAt(3, 4, anchors))
	if !e.Valid {
		t.Fatalf("no estimate: %s", e.Reason)
	}
	if math.Hypot(e.X-3, e.Y-4) > 0.05 {
		t.Errorf("estimate (%f,%f) further than 0.05 m from (3,4)", e.X, e.Y)
	}
}

func TestSolveInsufficient(t *testing.T) {
	est := NewEstimator(0, 0, 10, 10)
	ms := measureAt(3, 4, threeAnchors())
	e := est.Solve(ms[:2])
	if e.Valid {
		t.Fatal("estimate produced from 2 measurements")
	}
	if e.Reason != ReasonInsufficientMeasurements {
		t.Errorf("reason = %s", e.Reason)
	}
}

func TestSolveCollinearFallback(t *testing.T) {
	anchors := []Anchor{{ID: "a1"}, {ID: "a2", X: 5}, {ID: "a3", X: 10}}
	est := NewEstimator(0, 0, 10, 10)
	e := est.Solve(measureAt(3, 4, anchors))
	// Closed form must fail and the iterative fallback takes over. With all
	// anchors on one line the normal matrix degenerates immediately, so the
	// solver hands back its best estimate tagged with the geometry problem.
	if !e.Valid {
		t.Fatalf("fallback produced no estimate: %s", e.Reason)
	}
	if e.Term != TermSingular {
		t.Errorf("termination = %s, want singular", e.Term)
	}
	if e.Reason != ReasonDegenerateGeometry {
		t.Errorf("reason = %s, want degenerate_geometry", e.Reason)
	}
	if e.X < 0 || e.X > 10 {
		t.Errorf("fallback estimate x=%f outside the anchor span", e.X)
	}
}

func TestSolveOutOfBounds(t *testing.T) {
	// Distances consistent with a receiver at (50,50), far outside the
	// 10x10 working area plus margin: the solver converges there and the
	// bounds gate must reject it.
	est := NewEstimator(0, 0, 10, 10)
	e := est.Solve(measureAt(50, 50, threeAnchors()))
	if e.Valid {
		t.Fatalf("out-of-bounds estimate (%f,%f) accepted", e.X, e.Y)
	}
	if e.Reason != ReasonOutOfBounds {
		t.Errorf("reason = %s, want out_of_bounds", e.Reason)
	}
}

func TestSolveSingularDuplicateAnchors(t *testing.T) {
	// All measurements from the same point: the normal matrix is singular
	// whichever way the solver looks at it. Must not panic, must report.
	a := Anchor{ID: "a", X: 5, Y: 5}
	ms := measureAt(3, 4, []Anchor{a, a, a, a})
	est := NewEstimator(0, 0, 10, 10)
	e := est.Solve(ms)
	if e.Valid && e.Term != TermSingular && e.Term != TermConverged {
		t.Errorf("unexpected termination %s", e.Term)
	}
}
