package locate

import (
	"math"
	"sort"
)

// ObstacleField owns the wall segments of a scenario and answers
// line-of-sight queries against them. The external session mutates the set
// between ticks; the field itself does no locking.
type ObstacleField struct {
	obstacles []Obstacle
}

func NewObstacleField() *ObstacleField {
	return &ObstacleField{}
}

func (f *ObstacleField) Add(o Obstacle) {
	f.obstacles = append(f.obstacles, o)
}

// Remove deletes the obstacle with the given id. Returns false if absent.
func (f *ObstacleField) Remove(id string) bool {
	for i, o := range f.obstacles {
		if o.ID == id {
			f.obstacles = append(f.obstacles[:i], f.obstacles[i+1:]...)
			return true
		}
	}
	return false
}

func (f *ObstacleField) Clear() {
	f.obstacles = f.obstacles[:0]
}

func (f *ObstacleField) Len() int {
	return len(f.obstacles)
}

// Obstacles returns a copy of the current set.
func (f *ObstacleField) Obstacles() []Obstacle {
	out := make([]Obstacle, len(f.obstacles))
	copy(out, f.obstacles)
	return out
}

// Intersections returns every obstacle the sight segment (x1,y1)->(x2,y2)
// crosses, sorted ascending by distance from the segment start. The ordering
// matters: cumulative loss downstream depends on which wall is hit first.
func (f *ObstacleField) Intersections(x1, y1, x2, y2 float64) []Intersection {
	var hits []Intersection
	for _, o := range f.obstacles {
		t, u, ok := segmentParams(x1, y1, x2, y2, o.X1, o.Y1, o.X2, o.Y2)
		if !ok || t < 0 || t > 1 || u < 0 || u > 1 {
			continue
		}
		ix := x1 + t*(x2-x1)
		iy := y1 + t*(y2-y1)
		hits = append(hits, Intersection{
			Obstacle: o,
			X:        ix,
			Y:        iy,
			Distance: math.Hypot(ix-x1, iy-y1),
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// segmentParams solves the parametric intersection of P1P2 and P3P4.
// ok is false when the segments are parallel.
func segmentParams(x1, y1, x2, y2, x3, y3, x4, y4 float64) (t, u float64, ok bool) {
	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < ParallelEps {
		return 0, 0, false
	}
	t = ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	u = -((x1-x2)*(y1-y3) - (y1-y2)*(x1-x3)) / denom
	return t, u, true
}

// AngleFactor scales an obstacle's nominal loss by how squarely the signal
// hits the wall: perpendicular incidence keeps the full loss (1.0), grazing
// incidence halves it (0.5).
func AngleFactor(dirX, dirY float64, o Obstacle) float64 {
	dLen := math.Hypot(dirX, dirY)
	tx := o.X2 - o.X1
	ty := o.Y2 - o.Y1
	tLen := math.Hypot(tx, ty)
	if dLen < 1e-12 || tLen < 1e-12 {
		return 1.0
	}
	// Wall unit normal is the tangent rotated 90 degrees.
	nx := -ty / tLen
	ny := tx / tLen
	cos := math.Abs((dirX*nx + dirY*ny) / dLen)
	return 0.5 + 0.5*cos
}

// DistanceToSegment is a hit-testing helper for editors: the shortest
// distance from point (px,py) to the obstacle's segment.
func DistanceToSegment(px, py float64, o Obstacle) float64 {
	vx := o.X2 - o.X1
	vy := o.Y2 - o.Y1
	wx := px - o.X1
	wy := py - o.Y1
	lenSq := vx*vx + vy*vy
	if lenSq < 1e-12 {
		return math.Hypot(wx, wy)
	}
	t := clamp((wx*vx+wy*vy)/lenSq, 0, 1)
	return math.Hypot(px-(o.X1+t*vx), py-(o.Y1+t*vy))
}
