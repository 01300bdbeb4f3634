package sim

import "container/heap"

// Event is the tagged union exchanged between a ComputationalSpot and its
// Controller, and drained by the workload driver: REQUEST, RESPONSE, or
// TASK_COMPLETE (spec §3/§6).
type Event struct {
	Time         float64
	Receiver     string
	Service      int
	Node         string
	FlowID       uint64
	TrafficClass int
	RTT          float64
	Status       EventStatus
	Log          bool

	// seq is a monotonically increasing per-Controller counter used only to
	// break ties deterministically; it carries no simulation meaning.
	seq uint64
}

// EventHeap is a min-heap of Events ordered by (time, sequence). Ties are
// broken by sequence number (insertion order), making iteration deterministic
// for a fixed sequence of Schedule calls.
type EventHeap struct {
	events     []Event
	seqCounter uint64
}

// NewEventHeap creates an empty EventHeap.
func NewEventHeap() *EventHeap {
	h := &EventHeap{events: make([]Event, 0)}
	heap.Init(h)
	return h
}

func (h *EventHeap) Len() int { return len(h.events) }

func (h *EventHeap) Less(i, j int) bool {
	if h.events[i].Time != h.events[j].Time {
		return h.events[i].Time < h.events[j].Time
	}
	return h.events[i].seq < h.events[j].seq
}

func (h *EventHeap) Swap(i, j int) { h.events[i], h.events[j] = h.events[j], h.events[i] }

func (h *EventHeap) Push(x any) { h.events = append(h.events, x.(Event)) }

func (h *EventHeap) Pop() any {
	old := h.events
	n := len(old)
	item := old[n-1]
	h.events = old[:n-1]
	return item
}

// Schedule adds an event to the heap, stamping it with the next sequence
// number.
func (h *EventHeap) Schedule(e Event) {
	e.seq = h.nextSeq()
	heap.Push(h, e)
}

var _ heap.Interface = (*EventHeap)(nil)

func (h *EventHeap) nextSeq() uint64 {
	h.seqCounter++
	return h.seqCounter
}

// PopNext removes and returns the earliest-scheduled event. Panics if the
// heap is empty; callers must check Len() first.
func (h *EventHeap) PopNext() Event {
	return heap.Pop(h).(Event)
}

// Peek returns the earliest-scheduled event without removing it. Panics if
// the heap is empty; callers must check Len() first.
func (h *EventHeap) Peek() Event {
	return h.events[0]
}
