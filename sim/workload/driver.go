package workload

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/edgesim/edgesim/sim"
)

// ErrInvalidConfig is returned by NewDriver when Config is internally
// inconsistent.
var ErrInvalidConfig = errors.New("workload: invalid driver config")

// Config parameterizes a Driver (spec §4.10). Receivers should already be
// sorted by descending PoP degree when Beta != 0, since rank 1 of the skew
// distribution always lands on Receivers[0].
type Config struct {
	NumServices    int
	NumEdgeRouters int
	Rates          []float64 // per-service mean Poisson rate, length NumServices
	Beta           float64   // 0 = uniform receiver selection
	ClassWeights   []float64 // per-class share, must sum to 1
	Receivers      []string
	NWarmup        int
	NMeasured      int
	Seed           int64
}

func (c Config) validate() error {
	if c.NumServices <= 0 {
		return fmt.Errorf("%w: numServices must be positive", ErrInvalidConfig)
	}
	if c.NumEdgeRouters <= 0 {
		return fmt.Errorf("%w: numEdgeRouters must be positive", ErrInvalidConfig)
	}
	if len(c.Rates) != c.NumServices {
		return fmt.Errorf("%w: rates must have length numServices", ErrInvalidConfig)
	}
	for _, r := range c.Rates {
		if r <= 0 {
			return fmt.Errorf("%w: all rates must be positive", ErrInvalidConfig)
		}
	}
	if len(c.Receivers) == 0 {
		return fmt.Errorf("%w: at least one receiver required", ErrInvalidConfig)
	}
	if len(c.ClassWeights) == 0 {
		return fmt.Errorf("%w: at least one traffic class required", ErrInvalidConfig)
	}
	if c.Beta < 0 {
		return fmt.Errorf("%w: beta must be non-negative", ErrInvalidConfig)
	}
	if c.NWarmup < 0 || c.NMeasured < 0 {
		return fmt.Errorf("%w: nWarmup/nMeasured must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// Driver is the pull-based request generator merged with a Controller's
// future-event heap (spec §4.10). Each call to Next returns the next event
// in simulated-time order: either a drained RESPONSE/TASK_COMPLETE event
// from source, or a freshly generated REQUEST.
//
// The draining/drainT/drainService fields carry the merge state that a
// generator-based implementation would hold as suspended locals across
// yields; Next resumes from them on every call instead.
type Driver struct {
	cfg    Config
	source sim.EventSource
	rng    *rand.Rand

	nextFire  []float64
	classDist *classDist
	skew      *receiverSkew

	reqCounter int
	flowID     uint64

	draining     bool
	drainT       float64
	drainService int
}

// NewDriver creates a Driver that merges freshly generated requests with
// events drained from source. The RNG is seeded once here; there is no
// reseed-on-first-iterate step (Design note, SPEC_FULL.md §4.10).
func NewDriver(cfg Config, source sim.EventSource) (*Driver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	partitioned := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
	rng := partitioned.ForSubsystem(sim.SubsystemWorkload)

	n := cfg.NumServices * cfg.NumEdgeRouters
	nextFire := make([]float64, n)
	for i := range nextFire {
		s := i % cfg.NumServices
		nextFire[i] = rng.ExpFloat64() / cfg.Rates[s]
	}

	var skew *receiverSkew
	if cfg.Beta != 0 {
		skew = newReceiverSkew(cfg.Beta, len(cfg.Receivers), partitioned.ForSubsystem(sim.SubsystemReceiverSkew))
	}

	return &Driver{
		cfg:       cfg,
		source:    source,
		rng:       rng,
		nextFire:  nextFire,
		classDist: newClassDist(cfg.ClassWeights),
		skew:      skew,
	}, nil
}

// Next returns the next event in the merged stream. It returns false once
// the request budget (NWarmup+NMeasured) is exhausted and source is empty
// (spec §4.10 termination).
func (d *Driver) Next() (sim.Event, bool) {
	for {
		if d.draining {
			if d.source.Len() > 0 && d.source.Peek().Time < d.drainT {
				e := d.source.PopNext()
				e.Log = d.reqCounter >= d.cfg.NWarmup
				return e, true
			}
			d.draining = false
			if d.reqCounter >= d.cfg.NWarmup+d.cfg.NMeasured {
				continue
			}
			ev := d.generateRequest(d.drainT, d.drainService)
			d.reqCounter++
			return ev, true
		}

		if d.reqCounter >= d.cfg.NWarmup+d.cfg.NMeasured && d.source.Len() == 0 {
			return sim.Event{}, false
		}

		idx := d.nearestIndex()
		t := d.nextFire[idx]
		s := idx % d.cfg.NumServices
		d.nextFire[idx] = t + d.rng.ExpFloat64()/d.cfg.Rates[s]
		d.drainT = t
		d.drainService = s
		d.draining = true
	}
}

// nearestIndex returns the index of the smallest value in nextFire, the
// first such index on ties (matches Python's events.index(min(events))).
func (d *Driver) nearestIndex() int {
	best := 0
	for i, v := range d.nextFire {
		if v < d.nextFire[best] {
			best = i
		}
	}
	return best
}

func (d *Driver) generateRequest(t float64, service int) sim.Event {
	class := d.classDist.sample(d.rng)

	var receiver string
	if d.skew != nil {
		receiver = d.cfg.Receivers[d.skew.rank()-1]
	} else {
		receiver = d.cfg.Receivers[d.rng.Intn(len(d.cfg.Receivers))]
	}

	d.flowID++
	return sim.Event{
		Time:         t,
		Receiver:     receiver,
		Service:      service,
		Node:         receiver,
		FlowID:       d.flowID,
		TrafficClass: class,
		RTT:          0,
		Status:       sim.StatusRequest,
		Log:          d.reqCounter >= d.cfg.NWarmup,
	}
}
