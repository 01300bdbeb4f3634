// Package sim provides the core discrete-event simulation engine for
// edgesim: the admission, scheduling, and pricing logic of one computational
// spot, plus the collaborator interfaces it needs from the surrounding
// network simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - task.go: Task lifecycle (queued → placed → completed) and the
//     finish-time sentinel
//   - event.go: Event and EventHeap, exchanged with the Controller
//   - status.go: the event status codes and admission result codes
//   - spot.go: ComputationalSpot, the public API bound to one edge node
//
// # Architecture
//
// The sim package defines the core engine and the collaborator interfaces;
// a lazy event generator lives in its own sub-package:
//   - sim/workload/: the Poisson-driven workload driver
//
// Everything else a full network simulator needs — topology construction,
// routing, link-delay computation, cache placement — is out of scope and is
// represented here only by the interfaces this package consumes
// (Controller, Topology) or exposes (ComputationalSpot).
//
// # Key Interfaces
//
// The extension points are small, single-purpose interfaces:
//   - QueuePolicy: FIFO/EDF queue ordering and early deadline rejection
//   - Controller: records scheduled completions and service executions
//   - Topology: per-class delay budgets and node placement metadata
//   - EventSource: the read side of the Controller's future-event heap,
//     drained by the workload driver
package sim
