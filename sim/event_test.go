package sim

import "testing"

func TestEventHeap_PopsInTimeOrder(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(Event{Time: 5})
	h.Schedule(Event{Time: 1})
	h.Schedule(Event{Time: 3})

	var got []float64
	for h.Len() > 0 {
		got = append(got, h.PopNext().Time)
	}
	want := []float64{1, 3, 5}
	for i, v := range want {
		if got[i] != v {
			t.Errorf("pop order: got %v, want %v", got, want)
			break
		}
	}
}

func TestEventHeap_TiesBrokenByInsertionOrder(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(Event{Time: 1, FlowID: 1})
	h.Schedule(Event{Time: 1, FlowID: 2})
	h.Schedule(Event{Time: 1, FlowID: 3})

	first := h.PopNext()
	second := h.PopNext()
	third := h.PopNext()

	if first.FlowID != 1 || second.FlowID != 2 || third.FlowID != 3 {
		t.Errorf("tie-break order: got %d,%d,%d, want 1,2,3", first.FlowID, second.FlowID, third.FlowID)
	}
}

func TestEventHeap_PeekDoesNotRemove(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(Event{Time: 1})
	if h.Peek().Time != 1 {
		t.Fatalf("Peek: got wrong event")
	}
	if h.Len() != 1 {
		t.Errorf("Peek removed the event: Len() = %d, want 1", h.Len())
	}
}

func TestEventStatus_String(t *testing.T) {
	cases := map[EventStatus]string{
		StatusRequest:      "REQUEST",
		StatusResponse:     "RESPONSE",
		StatusTaskComplete: "TASK_COMPLETE",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("%d.String(): got %q, want %q", status, got, want)
		}
	}
}

func TestAdmissionReason_String(t *testing.T) {
	cases := map[AdmissionReason]string{
		DeadlineMissed: "DEADLINE_MISSED",
		Congestion:     "CONGESTION",
		Success:        "SUCCESS",
		Cloud:          "CLOUD",
		NoInstances:    "NO_INSTANCES",
	}
	for reason, want := range cases {
		if got := reason.String(); got != want {
			t.Errorf("%d.String(): got %q, want %q", reason, got, want)
		}
	}
}
