package sim

import "math"

// unplaced is the FinishTime sentinel for a Task that has not yet been
// placed on a core. Replaces the source's dynamic-attribute "finishTime =
// None until placed" with a fixed-field record carrying a NaN sentinel.
var unplaced = math.NaN()

// Task is a unit of admitted work at one ComputationalSpot.
//
// Invariant on admission: Deadline - RTT >= FinishTime once FinishTime is
// set (spec §3).
type Task struct {
	// Arrival is the time the request reached this spot.
	Arrival float64
	// Deadline is the absolute deadline (arrival time + the traffic
	// class's delay budget for FIFO/EDF admission).
	Deadline float64
	// RTT is the round-trip network delay already incurred.
	RTT float64
	// Service identifies the requested service in the Services table.
	Service int
	// ExecTime is the service's execution time, copied at admission so the
	// task is self-contained for dry-run simulation.
	ExecTime float64
	// FlowID is unique per request.
	FlowID uint64
	// Receiver is the id of the requesting node.
	Receiver string
	// FinishTime is the projected (dry-run) or actual (scheduled) core
	// completion time. Undefined (NaN) until the task is placed.
	FinishTime float64
}

// NewTask creates a Task with an unset FinishTime.
func NewTask(arrival, deadline, rtt float64, service int, execTime float64, flowID uint64, receiver string) *Task {
	return &Task{
		Arrival:    arrival,
		Deadline:   deadline,
		RTT:        rtt,
		Service:    service,
		ExecTime:   execTime,
		FlowID:     flowID,
		Receiver:   receiver,
		FinishTime: unplaced,
	}
}

// Placed reports whether this task has been assigned a finish time, either
// by the dry-run simulation or by actual scheduling.
func (t *Task) Placed() bool {
	return !math.IsNaN(t.FinishTime)
}

// Feasible reports whether the task's projected finish time still meets its
// deadline net of round-trip delay: FinishTime <= Deadline - RTT.
func (t *Task) Feasible() bool {
	return t.Placed() && t.FinishTime <= t.Deadline-t.RTT
}
