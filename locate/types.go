package locate

// Anchor describes a fixed transmitter of known position.
type Anchor struct {
	ID    string
	X, Y  float64
	Label string
}

// Material identifies what an obstacle is made of. Each material carries a
// fixed penetration loss in dB.
type Material int

const (
	Drywall Material = iota
	Concrete
	Brick
	Glass
	Metal
	WoodDoor
	MetalDoor
)

var materialLoss = [...]float64{
	Drywall:   3,
	Concrete:  10,
	Brick:     8,
	Glass:     2,
	Metal:     20,
	WoodDoor:  4,
	MetalDoor: 12,
}

var materialName = [...]string{
	Drywall:   "drywall",
	Concrete:  "concrete",
	Brick:     "brick",
	Glass:     "glass",
	Metal:     "metal",
	WoodDoor:  "wood_door",
	MetalDoor: "metal_door",
}

// Attenuation returns the material's penetration loss in dB. Always >= 0.
func (m Material) Attenuation() float64 {
	if m < 0 || int(m) >= len(materialLoss) {
		return 0
	}
	return materialLoss[m]
}

func (m Material) String() string {
	if m < 0 || int(m) >= len(materialName) {
		return "unknown"
	}
	return materialName[m]
}

// MaterialByName resolves the scenario-file spelling of a material.
func MaterialByName(s string) (Material, bool) {
	for i, n := range materialName {
		if n == s {
			return Material(i), true
		}
	}
	return 0, false
}

// Obstacle is a wall segment between (X1,Y1) and (X2,Y2).
type Obstacle struct {
	ID       string
	X1, Y1   float64
	X2, Y2   float64
	Material Material
}

// Intersection records one obstacle crossing along a sight segment.
type Intersection struct {
	Obstacle Obstacle
	X, Y     float64
	Distance float64 // from the segment start
}

// Measurement is one anchor's contribution to a tick: the raw and filtered
// signal strength, the distance derived from it, and every wall the sight
// segment crossed (nearest first).
type Measurement struct {
	AnchorID string
	AnchorX  float64
	AnchorY  float64
	RSSI     float64
	Filtered float64
	Distance float64
	Hits     []Intersection
}

// Config holds the radio parameters for a tick. A Session treats it as
// immutable while the tick runs.
type Config struct {
	TxPower                 float64 // reference signal strength at 1 m, dBm
	PathLossExp             float64
	MinSignal               float64 // anchors below this are dropped, dBm
	NoiseEnabled            bool
	NoiseStdDev             float64 // dB
	ObstaclesEnabled        bool
	AngleEffectEnabled      bool
	CumulativeEffectEnabled bool
}

// Reason classifies why no position could be produced.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonInsufficientMeasurements
	ReasonDegenerateGeometry
	ReasonNumericalSingularity
	ReasonOutOfBounds
)

var reasonName = [...]string{
	ReasonNone:                     "ok",
	ReasonInsufficientMeasurements: "insufficient_measurements",
	ReasonDegenerateGeometry:       "degenerate_geometry",
	ReasonNumericalSingularity:     "numerical_singularity",
	ReasonOutOfBounds:              "out_of_bounds",
}

func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonName) {
		return "unknown"
	}
	return reasonName[r]
}

// Termination reports how the iterative solver stopped.
type Termination int

const (
	TermConverged Termination = iota
	TermMaxIterations
	TermSingular
)

var termName = [...]string{
	TermConverged:     "converged",
	TermMaxIterations: "max_iterations",
	TermSingular:      "singular",
}

func (t Termination) String() string {
	if t < 0 || int(t) >= len(termName) {
		return "unknown"
	}
	return termName[t]
}

// Estimate is the per-tick position result. When Valid is false, Reason says
// why; when true, Term and Iterations describe how the solver finished.
type Estimate struct {
	X, Y       float64
	Valid      bool
	Reason     Reason
	Term       Termination
	Iterations int
}
