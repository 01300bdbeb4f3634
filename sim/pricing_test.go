package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTopology is a minimal Topology for pricing tests.
type fakeTopology struct {
	maxDelay  []float64
	minDelay  []float64
	height    float64
	linkDelay float64
	depth     map[string]float64
	receivers []string
}

func (f *fakeTopology) NumClasses() int            { return len(f.maxDelay) }
func (f *fakeTopology) MaxDelay(c int) float64      { return f.maxDelay[c] }
func (f *fakeTopology) MinDelay(c int) float64      { return f.minDelay[c] }
func (f *fakeTopology) Height() float64             { return f.height }
func (f *fakeTopology) LinkDelay() float64          { return f.linkDelay }
func (f *fakeTopology) Depth(node string) float64   { return f.depth[node] }
func (f *fakeTopology) Receivers() []string         { return f.receivers }
func (f *fakeTopology) NumEdgeRouters() int         { return 1 }

func twoClassTopology() *fakeTopology {
	return &fakeTopology{
		maxDelay:  []float64{100, 50},
		minDelay:  []float64{10, 5},
		height:    4,
		linkDelay: 2,
		depth:     map[string]float64{"edge0": 3},
		receivers: []string{"r0", "r1"},
	}
}

func TestPricingEngine_UtilityBoundedByUMax(t *testing.T) {
	services := Services{{ID: 0, ExecTime: 1, Alpha: 1}}
	engine := NewPricingEngine(services, twoClassTopology(), "edge0")

	for c := 0; c < 2; c++ {
		if u := engine.Utility(0, c); u > uMax {
			t.Errorf("Utility(0, %d) = %v, want <= %v", c, u, uMax)
		}
	}
}

func TestPricingEngine_UtilityDeterministic(t *testing.T) {
	services := Services{{ID: 0, ExecTime: 1, Alpha: 1}}
	a := NewPricingEngine(services, twoClassTopology(), "edge0")
	b := NewPricingEngine(services, twoClassTopology(), "edge0")

	if a.Utility(0, 0) != b.Utility(0, 0) || a.Utility(0, 1) != b.Utility(0, 1) {
		t.Errorf("utility computation is not deterministic for identical inputs")
	}
}

func TestPricingEngine_ComputePrices_PublishesFullPriceVector(t *testing.T) {
	services := Services{{ID: 0, ExecTime: 1, Alpha: 1}}
	engine := NewPricingEngine(services, twoClassTopology(), "edge0")

	arrivalRates := [][]float64{{5, 5}}
	engine.ComputePrices(services, arrivalRates, 4)

	prices := engine.VMPrices()
	require.Len(t, prices, 4, "VMPrices should have one entry per core")
	for i, p := range prices {
		require.Falsef(t, math.IsNaN(p), "VMPrices[%d] is NaN", i)
	}
}

func TestPricingEngine_AdmittedRateNeverNegative(t *testing.T) {
	services := Services{{ID: 0, ExecTime: 1, Alpha: 1}}
	engine := NewPricingEngine(services, twoClassTopology(), "edge0")

	arrivalRates := [][]float64{{10, 10}}
	engine.ComputePrices(services, arrivalRates, 2)

	require.GreaterOrEqual(t, engine.AdmittedServiceRate(0), 0.0)
}

func TestDelayToCloud(t *testing.T) {
	topo := twoClassTopology()
	// (height - depth) * linkDelay = (4 - 3) * 2 = 2
	if got := DelayToCloud(topo, "edge0"); got != 2 {
		t.Errorf("DelayToCloud: got %v, want 2", got)
	}
}
