package sim

import (
	"testing"

	"radiosim/locate"
)

func testSession() *locate.Session {
	cfg := locate.Config{TxPower: -59, PathLossExp: 2.0, MinSignal: locate.RSSIMin}
	s := locate.NewSession(cfg, 0, 0, 20, 10, 1)
	s.AddAnchor(locate.Anchor{ID: "a1", X: 0, Y: 0})
	s.AddAnchor(locate.Anchor{ID: "a2", X: 20, Y: 0})
	s.AddAnchor(locate.Anchor{ID: "a3", X: 0, Y: 10})
	return s
}

func TestRunnerStaysInBounds(t *testing.T) {
	r := NewRunner(testSession(), 0, 0, 20, 10, 7)
	for i := 0; i < 2000; i++ {
		f := r.Step(0.1)
		if f.RX < 0 || f.RX > 20 || f.RY < 0 || f.RY > 10 {
			t.Fatalf("tick %d: receiver at (%f,%f) outside the field", f.Tick, f.RX, f.RY)
		}
	}
}

func TestRunnerTicksSession(t *testing.T) {
	r := NewRunner(testSession(), 0, 0, 20, 10, 7)
	f := r.Step(0.1)
	if f.Tick != 1 {
		t.Errorf("first tick = %d", f.Tick)
	}
	if len(f.Result.Measurements) != 3 {
		t.Errorf("got %d measurements", len(f.Result.Measurements))
	}
	if !f.Result.Estimate.Valid {
		t.Errorf("estimate invalid: %s", f.Result.Estimate.Reason)
	}
}

func TestRunnerDeterministicWalk(t *testing.T) {
	a := NewRunner(testSession(), 0, 0, 20, 10, 42)
	b := NewRunner(testSession(), 0, 0, 20, 10, 42)
	for i := 0; i < 50; i++ {
		fa := a.Step(0.1)
		fb := b.Step(0.1)
		if fa.RX != fb.RX || fa.RY != fb.RY {
			t.Fatalf("tick %d: walks diverged (%f,%f) vs (%f,%f)", i, fa.RX, fa.RY, fb.RX, fb.RY)
		}
	}
	if a.ID == b.ID {
		t.Error("runner IDs should be unique")
	}
}

func TestSetPosition(t *testing.T) {
	r := NewRunner(testSession(), 0, 0, 20, 10, 1)
	r.SetPosition(100, -5)
	x, y := r.Position()
	if x != 20-wallPadding || y != wallPadding {
		t.Errorf("teleport not clamped: (%f,%f)", x, y)
	}
}
