package sim

// ServiceExecution records one service invocation for accounting and, in the
// auction variant, revenue reporting (spec §6 execute_service).
type ServiceExecution struct {
	Time     float64
	Service  int
	Node     string
	IsCloud  bool
	Class    int
	Utility  float64 // auction path only; zero for FIFO/EDF
	Price    float64 // auction path only; zero for FIFO/EDF
}

// Controller is the external collaborator that accepts scheduled completion
// events and records service executions (spec §6). It owns the future-event
// heap that the workload driver merges with its own Poisson lanes.
type Controller interface {
	AddEvent(e Event)
	ExecuteService(exec ServiceExecution)
	EventSource
}

// EventSource is the read side of the Controller's future-event heap: the
// workload driver drains every entry with time < t before yielding its next
// REQUEST (spec §4.9/§5).
type EventSource interface {
	Len() int
	Peek() Event
	PopNext() Event
}

// InMemoryController is the default Controller: it owns an EventHeap and
// keeps an in-memory log of executed services for metrics and tests.
type InMemoryController struct {
	heap       *EventHeap
	executions []ServiceExecution
}

// NewInMemoryController creates an empty InMemoryController.
func NewInMemoryController() *InMemoryController {
	return &InMemoryController{heap: NewEventHeap()}
}

func (c *InMemoryController) AddEvent(e Event) { c.heap.Schedule(e) }

func (c *InMemoryController) ExecuteService(exec ServiceExecution) {
	c.executions = append(c.executions, exec)
}

func (c *InMemoryController) Len() int       { return c.heap.Len() }
func (c *InMemoryController) Peek() Event    { return c.heap.Peek() }
func (c *InMemoryController) PopNext() Event { return c.heap.PopNext() }

// Executions returns every recorded service execution, in recording order.
func (c *InMemoryController) Executions() []ServiceExecution {
	return c.executions
}

var _ Controller = (*InMemoryController)(nil)
