package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"radiosim/locate"
)

func TestFormatEstimateValid(t *testing.T) {
	est := locate.Estimate{X: 3.456, Y: 4.004, Valid: true, Term: locate.TermConverged}
	line := string(FormatEstimate("run1", 17, 1756200000000, est))
	assert.Equal(t, "POS,run1,17,20250826092000.000,3.46,4.00,converged\r\n", line)
}

func TestFormatEstimateInvalid(t *testing.T) {
	est := locate.Estimate{X: 99, Y: 99, Reason: locate.ReasonOutOfBounds}
	line := string(FormatEstimate("run1", 18, 1756200000100, est))
	assert.Equal(t, "POS,run1,18,20250826092000.100,0.00,0.00,out_of_bounds\r\n", line)
}

func TestFormatMeasurement(t *testing.T) {
	m := locate.Measurement{
		AnchorID: "a2",
		RSSI:     -77.26,
		Filtered: -77.01,
		Distance: 7.943,
		Hits:     []locate.Intersection{{}, {}},
	}
	line := string(FormatMeasurement("run1", 17, m))
	assert.Equal(t, "MEA,run1,17,a2,-77.3,-77.0,7.94,2\r\n", line)
}
