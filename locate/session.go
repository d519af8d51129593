package locate

import "math"

// Session is one independent simulation context: anchor set, obstacle field,
// radio configuration, per-anchor filter state and the estimator working
// area. Nothing here is global; hosts may run any number of sessions side by
// side. A session is single-threaded by contract -- mutate anchors and
// obstacles only between ticks.
type Session struct {
	cfg     Config
	anchors []Anchor
	field   *ObstacleField
	prop    *Propagation
	filters *FilterBank
	est     *Estimator
}

// TickResult is everything one tick produces: the surviving measurements and
// the position estimate (or the reason there is none).
type TickResult struct {
	Measurements []Measurement
	Estimate     Estimate
}

// NewSession builds a session over the given working area. The seed fixes the
// measurement noise stream.
func NewSession(cfg Config, minX, minY, maxX, maxY float64, seed uint64) *Session {
	field := NewObstacleField()
	return &Session{
		cfg:   cfg,
		field: field,
		prop:  NewPropagation(cfg, field, seed),
		est:   NewEstimator(minX, minY, maxX, maxY),
	}
}

func (s *Session) Config() Config {
	return s.cfg
}

// SetConfig replaces the radio parameters for subsequent ticks. Filter state
// survives: Q/R have not changed, only the radio model.
func (s *Session) SetConfig(cfg Config) {
	s.cfg = cfg
	s.prop.SetConfig(cfg)
}

// Field exposes the obstacle field for registration by the host (editor,
// image-detection pipeline, anything).
func (s *Session) Field() *ObstacleField {
	return s.field
}

// Propagation exposes the radio model, mainly for hosts that want to convert
// signal strengths themselves.
func (s *Session) Propagation() *Propagation {
	return s.prop
}

// Estimator exposes the solver, so hosts can adjust the bounds margin.
func (s *Session) Estimator() *Estimator {
	return s.est
}

func (s *Session) AddAnchor(a Anchor) {
	s.anchors = append(s.anchors, a)
}

// RemoveAnchor drops the anchor and its filter state.
func (s *Session) RemoveAnchor(id string) bool {
	for i, a := range s.anchors {
		if a.ID == id {
			s.anchors = append(s.anchors[:i], s.anchors[i+1:]...)
			if s.filters != nil {
				s.filters.Remove(id)
			}
			return true
		}
	}
	return false
}

func (s *Session) Anchors() []Anchor {
	out := make([]Anchor, len(s.anchors))
	copy(out, s.anchors)
	return out
}

// MoveAnchor updates an anchor position in place, as a drag edit would.
func (s *Session) MoveAnchor(id string, x, y float64) bool {
	for i := range s.anchors {
		if s.anchors[i].ID == id {
			s.anchors[i].X = x
			s.anchors[i].Y = y
			return true
		}
	}
	return false
}

// EnableFilter turns on per-anchor smoothing with the given covariances.
// Calling it again with new parameters discards all filter history.
func (s *Session) EnableFilter(q, r float64) {
	s.filters = NewFilterBank(q, r)
}

func (s *Session) DisableFilter() {
	s.filters = nil
}

// Tick runs one measurement-and-estimation cycle for a receiver at (rx,ry).
// Anchors whose signal strength falls below MinSignal are dropped; the rest
// go through the optional filter, get a distance estimate, and feed the
// position solver.
func (s *Session) Tick(rx, ry float64) TickResult {
	ms := make([]Measurement, 0, len(s.anchors))
	for _, a := range s.anchors {
		dist := math.Hypot(a.X-rx, a.Y-ry)
		rssi, hits := s.prop.Observe(dist, a.X, a.Y, rx, ry)
		if rssi < s.cfg.MinSignal {
			continue
		}
		m := Measurement{
			AnchorID: a.ID,
			AnchorX:  a.X,
			AnchorY:  a.Y,
			RSSI:     rssi,
			Filtered: rssi,
			Hits:     hits,
		}
		if s.filters != nil {
			m.Filtered = s.filters.Filter(a.ID, rssi)
		}
		m.Distance = s.prop.Distance(m.Filtered)
		ms = append(ms, m)
	}
	return TickResult{Measurements: ms, Estimate: s.est.Solve(ms)}
}
