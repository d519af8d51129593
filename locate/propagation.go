package locate

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Propagation converts between distance and signal strength using the
// log-distance path loss model, folding in obstacle penetration loss and
// optional Gaussian measurement noise.
type Propagation struct {
	cfg   Config
	field *ObstacleField
	noise distuv.Normal
}

// NewPropagation builds a model over the given obstacle field. The seed fixes
// the noise stream so simulated runs are reproducible.
func NewPropagation(cfg Config, field *ObstacleField, seed uint64) *Propagation {
	return &Propagation{
		cfg:   cfg,
		field: field,
		noise: distuv.Normal{Mu: 0, Sigma: cfg.NoiseStdDev, Src: rand.NewPCG(seed, seed)},
	}
}

// Config returns the model parameters.
func (p *Propagation) Config() Config {
	return p.cfg
}

// SetConfig swaps the radio parameters. The noise source is kept so an
// in-flight run stays on the same random stream.
func (p *Propagation) SetConfig(cfg Config) {
	p.cfg = cfg
	p.noise.Sigma = cfg.NoiseStdDev
}

// SignalStrength returns the received power in dBm for a transmitter at
// (txX,txY) heard at (rxX,rxY) over the given distance.
func (p *Propagation) SignalStrength(dist, txX, txY, rxX, rxY float64) float64 {
	ss, _ := p.Observe(dist, txX, txY, rxX, rxY)
	return ss
}

// Observe is SignalStrength plus the list of obstacle crossings found along
// the sight segment, so callers can record them without a second sweep.
func (p *Propagation) Observe(dist, txX, txY, rxX, rxY float64) (float64, []Intersection) {
	if dist < MinDistance {
		dist = MinDistance
	}
	ss := p.cfg.TxPower - 10.0*p.cfg.PathLossExp*math.Log10(dist)

	var hits []Intersection
	if p.cfg.ObstaclesEnabled && p.field != nil {
		hits = p.field.Intersections(txX, txY, rxX, rxY)
		dirX := rxX - txX
		dirY := rxY - txY
		cum := 1.0
		for i, hit := range hits {
			loss := hit.Obstacle.Material.Attenuation()
			if p.cfg.AngleEffectEnabled {
				loss *= AngleFactor(dirX, dirY, hit.Obstacle)
			}
			if p.cfg.CumulativeEffectEnabled {
				// The running scattering factor grows 1.1x per wall after
				// the first, so the i-th wall costs loss * 1.1^i.
				if i > 0 {
					cum *= CumulativeBase
				}
				loss *= cum
			}
			ss -= loss
		}
	}

	if p.cfg.NoiseEnabled && p.cfg.NoiseStdDev > 0 {
		ss += p.noise.Rand()
	}
	return clamp(ss, RSSIMin, RSSIMax), hits
}

// Distance inverts the base path loss formula. Obstacle and noise effects are
// forward-only and are not unwound here.
func (p *Propagation) Distance(rssi float64) float64 {
	return math.Pow(10.0, (p.cfg.TxPower-rssi)/(10.0*p.cfg.PathLossExp))
}
