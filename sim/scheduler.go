package sim

import (
	"fmt"
	"sort"
)

// QueuePolicy is the scheduling discipline of one computational spot's task
// queue: FIFO or EDF.
type QueuePolicy interface {
	// Name identifies the policy, e.g. for logging.
	Name() string
	// OrderQueue reorders tasks in place. FIFO is a no-op; EDF sorts by
	// nondecreasing absolute deadline, stable under ties (spec §4.4, §8).
	OrderQueue(tasks []*Task)
	// EarlyReject applies the policy's pre-queue admission check, before the
	// task is ever appended to the queue. FIFO never rejects early; EDF
	// rejects with DeadlineMissed if the deadline is already unreachable
	// net of round-trip delay and execution time (spec §4.4).
	EarlyReject(t *Task, now float64) (reason AdmissionReason, reject bool)
}

// FIFOPolicy preserves insertion order and never rejects early.
type FIFOPolicy struct{}

func (FIFOPolicy) Name() string { return "FIFO" }

func (FIFOPolicy) OrderQueue(_ []*Task) {}

func (FIFOPolicy) EarlyReject(_ *Task, _ float64) (AdmissionReason, bool) {
	return 0, false
}

// EDFPolicy orders the queue by nondecreasing absolute deadline and rejects
// a task outright if its deadline is already unreachable.
type EDFPolicy struct{}

func (EDFPolicy) Name() string { return "EDF" }

func (EDFPolicy) OrderQueue(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Deadline < tasks[j].Deadline
	})
}

func (EDFPolicy) EarlyReject(t *Task, now float64) (AdmissionReason, bool) {
	if t.Deadline-now-t.RTT-t.ExecTime < 0 {
		return DeadlineMissed, true
	}
	return 0, false
}

// NewQueuePolicy creates a QueuePolicy by name. Valid names: "FIFO", "EDF".
// Panics on unrecognized names — an unknown scheduling-policy name reaching
// this constructor is programmer error, not a business rejection (spec §7).
// Config-time input (a user-supplied --policy flag, a scenario file) should
// be checked with ValidatePolicyName first.
func NewQueuePolicy(name string) QueuePolicy {
	switch name {
	case "FIFO":
		return FIFOPolicy{}
	case "EDF":
		return EDFPolicy{}
	default:
		panic(fmt.Sprintf("sim: unknown scheduling policy %q", name))
	}
}

// ValidatePolicyName checks name against the known policy set, returning
// ErrInvalidSchedulingPolicy wrapped with the offending name on failure. This
// is the config-time counterpart to NewQueuePolicy's panic, for validating
// a policy name before it reaches spot construction.
func ValidatePolicyName(name string) error {
	switch name {
	case "FIFO", "EDF":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSchedulingPolicy, name)
	}
}

// simulateFinishTimes is the dry-run finish-time simulation shared by both
// scheduling disciplines (spec §4.2). It mutates only cpu, a CpuState
// snapshot, and populates FinishTime on each task in queue in place; its
// side effect on the real CpuState is nil, which is what makes it safe to
// use for feasibility checking before committing an admission.
//
// queue must already be in the policy's desired order (FIFO insertion order,
// or EDF's nondecreasing-deadline order) before calling this.
func simulateFinishTimes(cpu *CpuState, queue []*Task, numInstances []int) {
	pending := append([]*Task(nil), queue...)
	now := 0.0
	schedFailed := false
	core := 0

	for len(pending) > 0 {
		if !schedFailed {
			core = cpu.NextAvailableCore()
		}
		now = cpu.finish[core]
		cpu.Advance(now)
		schedFailed = false

		placed := -1
		for i, task := range pending {
			if numInstances[task.Service] > 0 {
				if cpu.RunningCount(task.Service) >= numInstances[task.Service] {
					continue
				}
			}
			// numInstances[task.Service] == 0: a service-replacement
			// transition hole. The task is placed immediately rather than
			// treated as unschedulable; preserved here per spec §9 Open
			// Question 1 rather than silently hardened into a reject.
			task.FinishTime = now + task.ExecTime
			_ = cpu.Assign(core, task.FinishTime, task.Service)
			placed = i
			break
		}

		if placed == -1 {
			// No queued task has an available VM slot right now: fall back
			// to the existing occupant of the last-scanned task's service
			// and advance time to when that core frees up (spec §4.2).
			last := pending[len(pending)-1]
			schedFailed = true
			found := false
			for k, s := range cpu.running {
				if s == last.Service {
					core = k
					found = true
					break
				}
			}
			if !found {
				// No occupant exists either: placement is impossible for
				// every remaining task this round. FinishTime stays
				// undefined (NaN) for all of them.
				return
			}
			continue
		}

		pending = append(pending[:placed], pending[placed+1:]...)
	}
}
