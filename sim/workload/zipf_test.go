package workload

import (
	"math/rand"
	"testing"
)

func TestReceiverSkew_RankWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	skew := newReceiverSkew(1.2, 5, rng)
	for i := 0; i < 200; i++ {
		r := skew.rank()
		if r < 1 || r > 5 {
			t.Fatalf("rank() = %d, want in [1,5]", r)
		}
	}
}

func TestReceiverSkew_BiasesTowardRankOne(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	skew := newReceiverSkew(2.0, 5, rng)
	counts := make([]int, 6)
	const draws = 2000
	for i := 0; i < draws; i++ {
		counts[skew.rank()]++
	}
	if counts[1] <= counts[5] {
		t.Errorf("rank 1 count %d should exceed rank 5 count %d under strong skew", counts[1], counts[5])
	}
}

func TestReceiverSkew_ZeroBetaIsUniformish(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	skew := newReceiverSkew(0.0001, 4, rng)
	counts := make([]int, 5)
	const draws = 4000
	for i := 0; i < draws; i++ {
		counts[skew.rank()]++
	}
	for r := 1; r <= 4; r++ {
		if counts[r] == 0 {
			t.Errorf("rank %d never drawn over %d samples under near-uniform skew", r, draws)
		}
	}
}
