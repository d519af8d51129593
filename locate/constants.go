package locate

// Signal strength clamps in dBm. Anything the radio model produces is forced
// into this window, matching the dynamic range of a real BLE receiver.
const (
	RSSIMin = -120.0
	RSSIMax = -30.0
)

// MinDistance is the closest tx-rx separation the log-distance model accepts;
// below it the logarithm blows up.
const MinDistance = 0.1

// Solver constants.
const (
	MaxIterations   = 100
	ConvergenceStep = 0.01 // step magnitude in metres that counts as converged
	SingularDetEps  = 1e-10
	CollinearEps    = 0.001
)

// ParallelEps is the determinant threshold below which two segments are
// treated as parallel (no intersection).
const ParallelEps = 1e-10

// CumulativeBase is the per-obstacle scattering growth applied when the
// cumulative effect is enabled: the i-th wall crossed costs its nominal loss
// times 1.1^i.
const CumulativeBase = 1.1

// MapMargin is how far outside the working area an estimate may land before
// it is rejected as divergence.
const MapMargin = 30.0

// Weight function shape: weight(rssi) = 10^clamp((rssi+100)/40, 0, 1).
const (
	weightFloor = -100.0
	weightSpan  = 40.0
)

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
