package workload

import (
	"math/rand"
	"testing"
)

func TestClassDist_SingleClassAlwaysReturnsZero(t *testing.T) {
	d := newClassDist([]float64{1.0})
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		if c := d.sample(rng); c != 0 {
			t.Fatalf("sample() = %d, want 0", c)
		}
	}
}

func TestClassDist_RespectsCumulativeBoundaries(t *testing.T) {
	d := newClassDist([]float64{0.3, 0.7})
	if got := len(d.cumulative); got != 2 {
		t.Fatalf("cumulative length = %d, want 2", got)
	}
	if d.cumulative[0] != 0.3 || d.cumulative[1] != 1.0 {
		t.Fatalf("cumulative = %v, want [0.3 1.0]", d.cumulative)
	}
}

func TestClassDist_SampleStaysWithinRange(t *testing.T) {
	d := newClassDist([]float64{0.2, 0.3, 0.5})
	rng := rand.New(rand.NewSource(7))
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		c := d.sample(rng)
		if c < 0 || c > 2 {
			t.Fatalf("sample() = %d, out of range [0,2]", c)
		}
		seen[c] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected all 3 classes to appear over 500 draws, saw %v", seen)
	}
}
