package locate

// RSSIFilter smooths one anchor's signal-strength stream with a
// constant-parameter one-dimensional recursive filter. Q is the process noise
// covariance, R the measurement noise covariance. The first sample bootstraps
// the estimate; every later call blends prediction and measurement through
// the usual scalar gain.
type RSSIFilter struct {
	q, r   float64
	x, p   float64
	primed bool
}

func NewRSSIFilter(q, r float64) *RSSIFilter {
	return &RSSIFilter{q: q, r: r, p: 1.0}
}

// Filter folds one raw value into the running estimate and returns the
// smoothed value. Purely sequential: only previous state and current input.
func (f *RSSIFilter) Filter(z float64) float64 {
	if !f.primed {
		f.x = z
		f.p = 1.0
		f.primed = true
		return f.x
	}
	f.p += f.q
	k := f.p / (f.p + f.r)
	f.x += k * (z - f.x)
	f.p *= 1.0 - k
	return f.x
}

// SetParams reconfigures Q and R. History is discarded: mixing estimates
// produced under different covariances gives inconsistent results.
func (f *RSSIFilter) SetParams(q, r float64) {
	f.q = q
	f.r = r
	f.Reset()
}

func (f *RSSIFilter) Reset() {
	f.x = 0
	f.p = 1.0
	f.primed = false
}

// FilterBank maps anchor identity to its filter instance, so adding or
// removing anchors can never shift a filter onto the wrong stream.
type FilterBank struct {
	q, r    float64
	filters map[string]*RSSIFilter
}

func NewFilterBank(q, r float64) *FilterBank {
	return &FilterBank{q: q, r: r, filters: make(map[string]*RSSIFilter)}
}

// Filter routes a raw value through the anchor's filter, creating one on
// first sight.
func (b *FilterBank) Filter(anchorID string, z float64) float64 {
	f, ok := b.filters[anchorID]
	if !ok {
		f = NewRSSIFilter(b.q, b.r)
		b.filters[anchorID] = f
	}
	return f.Filter(z)
}

// Remove drops the filter state for an anchor that left the session.
func (b *FilterBank) Remove(anchorID string) {
	delete(b.filters, anchorID)
}

// SetParams reconfigures every filter and discards all history.
func (b *FilterBank) SetParams(q, r float64) {
	b.q = q
	b.r = r
	b.filters = make(map[string]*RSSIFilter)
}

func (b *FilterBank) Reset() {
	b.filters = make(map[string]*RSSIFilter)
}
