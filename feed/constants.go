package feed

// Flags select which message classes a target receives.
const (
	FlagEstimate    = 1
	FlagMeasurement = 2
	FlagStatus      = 4
)
