package locate

import (
	"math"
	"testing"
)

func wall(id string, x1, y1, x2, y2 float64, m Material) Obstacle {
	return Obstacle{ID: id, X1: x1, Y1: y1, X2: x2, Y2: y2, Material: m}
}

func TestIntersectionsSortedByDistance(t *testing.T) {
	f := NewObstacleField()
	// Added far wall first: the result must still come back nearest first.
	f.Add(wall("far", 7.5, -1, 7.5, 1, Concrete))
	f.Add(wall("near", 2.5, -1, 2.5, 1, Drywall))

	hits := f.Intersections(0, 0, 10, 0)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Obstacle.ID != "near" || hits[1].Obstacle.ID != "far" {
		t.Errorf("hits out of order: %s, %s", hits[0].Obstacle.ID, hits[1].Obstacle.ID)
	}
	if math.Abs(hits[0].Distance-2.5) > 1e-9 || math.Abs(hits[1].Distance-7.5) > 1e-9 {
		t.Errorf("bad distances: %f, %f", hits[0].Distance, hits[1].Distance)
	}
	if math.Abs(hits[0].X-2.5) > 1e-9 || math.Abs(hits[0].Y) > 1e-9 {
		t.Errorf("bad intersection point: (%f,%f)", hits[0].X, hits[0].Y)
	}
}

func TestIntersectionsParallel(t *testing.T) {
	f := NewObstacleField()
	f.Add(wall("w", 0, 1, 10, 1, Drywall))
	if hits := f.Intersections(0, 0, 10, 0); len(hits) != 0 {
		t.Errorf("parallel wall reported %d hits", len(hits))
	}
}

func TestIntersectionsOutsideSegment(t *testing.T) {
	f := NewObstacleField()
	// Wall line crosses the sight line, but only beyond the wall's extent.
	f.Add(wall("short", 5, 1, 5, 2, Drywall))
	if hits := f.Intersections(0, 0, 10, 0); len(hits) != 0 {
		t.Errorf("u out of range still hit: %d", len(hits))
	}
	// Wall crosses the sight line past the segment end.
	f.Clear()
	f.Add(wall("beyond", 15, -1, 15, 1, Drywall))
	if hits := f.Intersections(0, 0, 10, 0); len(hits) != 0 {
		t.Errorf("t out of range still hit: %d", len(hits))
	}
}

func TestIntersectionsEndpointInclusive(t *testing.T) {
	f := NewObstacleField()
	f.Add(wall("end", 10, -1, 10, 1, Drywall))
	if hits := f.Intersections(0, 0, 10, 0); len(hits) != 1 {
		t.Fatalf("t=1 should count as an intersection, got %d hits", len(hits))
	}
}

func TestAngleFactor(t *testing.T) {
	vertical := wall("v", 5, -1, 5, 1, Drywall)

	if got := AngleFactor(1, 0, vertical); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("perpendicular incidence: got %f, want 1.0", got)
	}
	if got := AngleFactor(0, 1, vertical); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("grazing incidence: got %f, want 0.5", got)
	}
	want := 0.5 + 0.5*math.Cos(math.Pi/4)
	if got := AngleFactor(1, 1, vertical); math.Abs(got-want) > 1e-9 {
		t.Errorf("45 degree incidence: got %f, want %f", got, want)
	}
}

func TestDistanceToSegment(t *testing.T) {
	o := wall("w", 0, 0, 10, 0, Drywall)
	if got := DistanceToSegment(5, 3, o); math.Abs(got-3) > 1e-9 {
		t.Errorf("midspan distance: got %f, want 3", got)
	}
	if got := DistanceToSegment(13, 4, o); math.Abs(got-5) > 1e-9 {
		t.Errorf("past endpoint distance: got %f, want 5", got)
	}
}

func TestFieldRegistration(t *testing.T) {
	f := NewObstacleField()
	f.Add(wall("a", 0, 0, 1, 1, Drywall))
	f.Add(wall("b", 2, 2, 3, 3, Glass))
	if f.Len() != 2 {
		t.Fatalf("len = %d", f.Len())
	}
	if !f.Remove("a") {
		t.Error("remove existing returned false")
	}
	if f.Remove("a") {
		t.Error("remove absent returned true")
	}
	if got := f.Obstacles(); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("unexpected remaining set: %+v", got)
	}
	f.Clear()
	if f.Len() != 0 {
		t.Errorf("clear left %d obstacles", f.Len())
	}
}

func TestMaterialAttenuation(t *testing.T) {
	cases := map[Material]float64{
		Drywall: 3, Concrete: 10, Brick: 8, Glass: 2,
		Metal: 20, WoodDoor: 4, MetalDoor: 12,
	}
	for m, want := range cases {
		if got := m.Attenuation(); got != want {
			t.Errorf("%s attenuation = %f, want %f", m, got, want)
		}
		if got := m.Attenuation(); got < 0 {
			t.Errorf("%s attenuation negative", m)
		}
	}
	if m, ok := MaterialByName("concrete"); !ok || m != Concrete {
		t.Errorf("MaterialByName(concrete) = %v, %v", m, ok)
	}
	if _, ok := MaterialByName("adamantium"); ok {
		t.Error("unknown material resolved")
	}
}
