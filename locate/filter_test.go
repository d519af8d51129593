package locate

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestFilterBootstrap(t *testing.T) {
	f := NewRSSIFilter(0.01, 9.0)
	assert.Equal(t, -72.5, f.Filter(-72.5), "first sample should pass through")
}

func TestFilterConvergesToConstant(t *testing.T) {
	f := NewRSSIFilter(0.01, 9.0)
	var out float64
	for i := 0; i < 200; i++ {
		out = f.Filter(-80)
	}
	assert.InDelta(t, -80, out, 1e-9)
}

func TestFilterVarianceReduction(t *testing.T) {
	const trueValue = -75.0
	noise := distuv.Normal{Mu: 0, Sigma: 5.0, Src: rand.NewPCG(13, 13)}
	f := NewRSSIFilter(0.01, 25.0)

	raw := make([]float64, 50)
	filtered := make([]float64, 50)
	for i := range raw {
		raw[i] = trueValue + noise.Rand()
		filtered[i] = f.Filter(raw[i])
	}

	rawVar := stat.Variance(raw, nil)
	filtVar := stat.Variance(filtered, nil)
	require.Greater(t, rawVar, filtVar, "filtered variance %f should be below raw %f", filtVar, rawVar)
}

func TestFilterReconfigureResets(t *testing.T) {
	f := NewRSSIFilter(0.01, 9.0)
	f.Filter(-60)
	f.Filter(-90)
	f.SetParams(0.05, 4.0)
	// After reset the next sample bootstraps again.
	assert.Equal(t, -100.0, f.Filter(-100))
}

func TestFilterSequential(t *testing.T) {
	// Two filters fed the same stream must agree: state is only a function
	// of past inputs.
	a := NewRSSIFilter(0.02, 16.0)
	b := NewRSSIFilter(0.02, 16.0)
	inputs := []float64{-70, -72, -68, -75, -71, -69}
	for _, z := range inputs {
		assert.Equal(t, a.Filter(z), b.Filter(z))
	}
}

func TestFilterBankPerAnchor(t *testing.T) {
	bank := NewFilterBank(0.01, 9.0)

	// Each anchor bootstraps independently.
	assert.Equal(t, -60.0, bank.Filter("a1", -60))
	assert.Equal(t, -90.0, bank.Filter("a2", -90))

	// a1's second sample is smoothed, a2's state is untouched by it.
	out := bank.Filter("a1", -70)
	assert.Less(t, out, -60.0)
	assert.Greater(t, out, -70.0)

	bank.Remove("a1")
	assert.Equal(t, -50.0, bank.Filter("a1", -50), "removed anchor should bootstrap fresh")

	bank.SetParams(0.05, 4.0)
	assert.Equal(t, -65.0, bank.Filter("a2", -65), "reconfigure should reset all anchors")
}
