package workload

import "math/rand"

// classDist is a cumulative traffic-class distribution: classDist.sample
// walks the cumulative weights and returns the first class whose cumulative
// share exceeds a uniform draw.
type classDist struct {
	cumulative []float64
}

// newClassDist builds a cumulative distribution from per-class weights that
// must sum to 1. A single-class distribution ([1.0]) always returns class 0.
func newClassDist(weights []float64) *classDist {
	cumulative := make([]float64, len(weights))
	running := 0.0
	for c, w := range weights {
		running += w
		cumulative[c] = running
	}
	return &classDist{cumulative: cumulative}
}

// sample draws one traffic class.
func (d *classDist) sample(rng *rand.Rand) int {
	x := rng.Float64()
	for c, cum := range d.cumulative {
		if x < cum {
			return c
		}
	}
	return len(d.cumulative) - 1
}
