package sim

import "fmt"

// noService is the sentinel for a core with no running service.
const noService = -1

// CpuState is the per-core finish-time vector of one computational spot: for
// each of K cores, the projected time at which the core becomes idle and the
// service currently bound to it, plus a monotonically growing idle-time
// accumulator.
//
// Invariants (spec §3): after any Advance(now), finish[k] >= now for all k;
// idleTime only grows; if running[k] == noService then finish[k] <= now.
type CpuState struct {
	finish   []float64
	running  []int
	idleTime float64
}

// NewCpuState creates a CpuState for k cores, all idle at time 0.
func NewCpuState(k int) *CpuState {
	running := make([]int, k)
	for i := range running {
		running[i] = noService
	}
	return &CpuState{
		finish:  make([]float64, k),
		running: running,
	}
}

// Cores returns the number of cores.
func (c *CpuState) Cores() int {
	return len(c.finish)
}

// Clone returns an independent snapshot for dry-run simulation. An explicit
// value copy of the two small slices replaces the source's
// deepcopy-by-serialization (Design note).
func (c *CpuState) Clone() *CpuState {
	finish := make([]float64, len(c.finish))
	copy(finish, c.finish)
	running := make([]int, len(c.running))
	copy(running, c.running)
	return &CpuState{finish: finish, running: running, idleTime: c.idleTime}
}

// Advance credits idle time for every core that has gone idle by now and
// clears its running service. Idempotent: Advance(t); Advance(t) behaves
// identically to a single call, since the second call finds every
// finish[k] >= t already (and adds zero idle time for a core sitting exactly
// at finish[k] == t).
//
// Uses <=, not <, so a core reaching its finish time exactly at now is
// already considered free — matching EarliestCore's own f <= now check.
// Using strict < here would leave running[k] stale at a core's own finish
// time, which RunningCount would then misreport as still occupied.
func (c *CpuState) Advance(now float64) {
	for k, f := range c.finish {
		if f <= now {
			c.idleTime += now - f
			c.finish[k] = now
			c.running[k] = noService
		}
	}
}

// EarliestCore advances the clock to now and returns the core that becomes
// (or already is) available soonest, along with the number of cores free
// right now. Returns (-1, 0) if no core is free at now; ties on the minimum
// finish time are broken by the smallest index.
func (c *CpuState) EarliestCore(now float64) (core int, numFree int) {
	c.Advance(now)

	best := -1
	for k, f := range c.finish {
		if f <= now {
			numFree++
		}
		if best == -1 || c.finish[k] < c.finish[best] {
			best = k
		}
	}
	if best == -1 || c.finish[best] > now {
		return -1, numFree
	}
	return best, numFree
}

// NextAvailableCore returns the core with the smallest finish time, without
// requiring it to already be free. Used by the dry-run simulation to find
// the next point in time at which any core frees up.
func (c *CpuState) NextAvailableCore() int {
	best := 0
	for k, f := range c.finish {
		if f < c.finish[best] {
			best = k
		}
	}
	return best
}

// RunningCount returns how many cores currently have the given service
// bound to them.
func (c *CpuState) RunningCount(service int) int {
	n := 0
	for _, s := range c.running {
		if s == service {
			n++
		}
	}
	return n
}

// Assign binds core k to service, to finish at finishTime. Fails if the core
// is still busy past finishTime — a logical-misuse error (spec §7), since
// callers are expected to only assign cores returned as available.
func (c *CpuState) Assign(core int, finishTime float64, service int) error {
	if c.finish[core] > finishTime {
		return fmt.Errorf("cpu_state: assign to core %d at %v: core busy until %v", core, finishTime, c.finish[core])
	}
	c.running[core] = service
	c.finish[core] = finishTime
	return nil
}

// IdleTime returns the accumulated idle time after advancing to now.
func (c *CpuState) IdleTime(now float64) float64 {
	c.Advance(now)
	return c.idleTime
}
