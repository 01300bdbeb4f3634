// Package workload generates the request stream a ComputationalSpot admits:
// per-(service, edge router) Poisson arrival lanes merged with the
// controller's own future-event heap, plus traffic-class and receiver
// sampling (spec §4.10).
package workload

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// receiverSkew samples a 1-based receiver rank from a truncated Zipf
// distribution of shape beta over n receivers, biasing traffic toward
// lower-rank (higher-degree) receivers when beta != 0.
//
// gonum's distuv.Zipf models P(k) proportional to (k+V)^-S for
// k = 0..Imax; pinning V=1 and Imax=n-1 gives P(i) proportional to i^-beta
// for i = 1..n once shifted by one.
type receiverSkew struct {
	z *distuv.Zipf
}

func newReceiverSkew(beta float64, n int, rng *rand.Rand) *receiverSkew {
	return &receiverSkew{
		z: &distuv.Zipf{
			S:      beta,
			V:      1,
			Imax:   float64(n - 1),
			Source: rng,
		},
	}
}

// rank returns a 1-based receiver rank in [1, n].
func (r *receiverSkew) rank() int {
	return int(r.z.Rand()) + 1
}
