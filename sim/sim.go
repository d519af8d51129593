// Package sim drives a locate.Session with a synthetic moving receiver. It
// exists so the engine can be exercised without real hardware: the runner
// walks the receiver around the field, calls the session once per tick and
// hands the results to whoever is listening.
package sim

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"radiosim/locate"
)

const (
	accelScale  = 5.0  // velocity jitter per second
	maxSpeed    = 2.0  // m/s, pedestrian pace
	bounceDamp  = -0.8 // velocity scale on wall bounce
	wallPadding = 0.5  // keep the receiver off the exact boundary
)

// Frame is one tick of simulation output.
type Frame struct {
	Tick   int               `json:"tick"`
	RX     float64           `json:"rx"`
	RY     float64           `json:"ry"`
	Result locate.TickResult `json:"result"`
}

// Runner owns the receiver state and the session it measures against.
type Runner struct {
	ID      string
	session *locate.Session

	minX, minY float64
	maxX, maxY float64

	x, y   float64
	vx, vy float64
	tick   int
	rng    *rand.Rand
}

// NewRunner places the receiver at the centre of the working area. The seed
// drives the random walk, independently of the session's noise seed.
func NewRunner(sess *locate.Session, minX, minY, maxX, maxY float64, seed uint64) *Runner {
	return &Runner{
		ID:      uuid.NewString(),
		session: sess,
		minX:    minX,
		minY:    minY,
		maxX:    maxX,
		maxY:    maxY,
		x:       (minX + maxX) / 2,
		y:       (minY + maxY) / 2,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Session returns the session under simulation.
func (r *Runner) Session() *locate.Session {
	return r.session
}

// Position returns the receiver's true position, for error reporting.
func (r *Runner) Position() (float64, float64) {
	return r.x, r.y
}

// SetPosition teleports the receiver, as a UI drag would.
func (r *Runner) SetPosition(x, y float64) {
	r.x = clampf(x, r.minX+wallPadding, r.maxX-wallPadding)
	r.y = clampf(y, r.minY+wallPadding, r.maxY-wallPadding)
	r.vx = 0
	r.vy = 0
}

// Step advances the random walk by dt seconds and runs one session tick.
func (r *Runner) Step(dt float64) Frame {
	r.advance(dt)
	r.tick++
	return Frame{
		Tick:   r.tick,
		RX:     r.x,
		RY:     r.y,
		Result: r.session.Tick(r.x, r.y),
	}
}

// advance is a damped random walk with boundary bounce.
func (r *Runner) advance(dt float64) {
	r.vx += (r.rng.Float64()*2 - 1) * accelScale * dt
	r.vy += (r.rng.Float64()*2 - 1) * accelScale * dt

	speed := math.Hypot(r.vx, r.vy)
	if speed > maxSpeed {
		scale := maxSpeed / speed
		r.vx *= scale
		r.vy *= scale
	}

	r.x += r.vx * dt
	r.y += r.vy * dt

	if r.x < r.minX+wallPadding {
		r.x = r.minX + wallPadding + (r.minX + wallPadding - r.x)
		r.vx *= bounceDamp
	} else if r.x > r.maxX-wallPadding {
		r.x = r.maxX - wallPadding - (r.x - (r.maxX - wallPadding))
		r.vx *= bounceDamp
	}
	if r.y < r.minY+wallPadding {
		r.y = r.minY + wallPadding + (r.minY + wallPadding - r.y)
		r.vy *= bounceDamp
	} else if r.y > r.maxY-wallPadding {
		r.y = r.maxY - wallPadding - (r.y - (r.maxY - wallPadding))
		r.vy *= bounceDamp
	}
	r.x = clampf(r.x, r.minX, r.maxX)
	r.y = clampf(r.y, r.minY, r.maxY)
}

func clampf(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
