package sim

import "fmt"

// ComputationalSpot binds CpuState, the task queue, the instance table, a
// QueuePolicy, and a PricingEngine to one edge node, and exposes the public
// API spec §6 names: AdmitTask, AdmitTaskAuction, Schedule, ReassignVM,
// ComputePrices, GetIdleTime.
type ComputationalSpot struct {
	node     string
	isCloud  bool
	services Services
	topology Topology
	policy   QueuePolicy
	cpu      *CpuState
	queue    []*Task

	numInstances []int

	missedRequests    []int
	runningRequests   []int
	delegatedRequests []int

	controller Controller
	pricing    *PricingEngine
}

// NewComputationalSpot creates a ComputationalSpot with k cores, bound to
// node, using the named scheduling policy ("FIFO" or "EDF"). numInstances
// sets the initial VM-to-service binding and must sum to at most k (spec
// §3 instance-table invariant).
func NewComputationalSpot(node string, k int, services Services, topology Topology, policyName string, numInstances []int, controller Controller) *ComputationalSpot {
	spot := &ComputationalSpot{
		node:              node,
		services:          services,
		topology:          topology,
		policy:            NewQueuePolicy(policyName),
		cpu:               NewCpuState(k),
		numInstances:      append([]int(nil), numInstances...),
		missedRequests:    make([]int, len(services)),
		runningRequests:   make([]int, len(services)),
		delegatedRequests: make([]int, len(services)),
		controller:        controller,
		pricing:           NewPricingEngine(services, topology, node),
	}
	return spot
}

// NewCloudSpot creates a ComputationalSpot that treats every admission as an
// immediate CLOUD acceptance (spec §4.3/§4.4 "the spot is the cloud sink").
func NewCloudSpot(node string, services Services, controller Controller) *ComputationalSpot {
	return &ComputationalSpot{
		node:              node,
		isCloud:           true,
		services:          services,
		missedRequests:    make([]int, len(services)),
		runningRequests:   make([]int, len(services)),
		delegatedRequests: make([]int, len(services)),
		controller:        controller,
	}
}

// NodeID returns the node this spot is bound to.
func (s *ComputationalSpot) NodeID() string { return s.node }

// IsCloud reports whether this spot is the cloud sink.
func (s *ComputationalSpot) IsCloud() bool { return s.isCloud }

// Stats returns the per-service missed, running, and delegated request
// counts.
func (s *ComputationalSpot) Stats() (missed, running, delegated []int) {
	return s.missedRequests, s.runningRequests, s.delegatedRequests
}

// AdmitTask dispatches to the FIFO or EDF admission path selected at
// construction (spec §4.3/§4.4/§6).
func (s *ComputationalSpot) AdmitTask(service int, now float64, flowID uint64, deadline float64, receiver string, rtt float64) (bool, AdmissionReason) {
	if s.isCloud {
		return s.admitCloud(service, now, flowID, deadline, receiver, rtt)
	}
	if s.numInstances[service] == 0 {
		return false, NoInstances
	}

	execTime := s.services[service].ExecTime
	task := NewTask(now, deadline, rtt, service, execTime, flowID, receiver)

	if reason, reject := s.policy.EarlyReject(task, now); reject {
		return false, reason
	}

	s.queue = append(s.queue, task)
	s.policy.OrderQueue(s.queue)
	s.cpu.Advance(now)

	cpuCopy := s.cpu.Clone()
	simulateFinishTimes(cpuCopy, s.queue, s.numInstances)

	for _, t := range s.queue {
		if !t.Feasible() {
			s.missedRequests[service]++
			s.removeTask(task)
			return false, Congestion
		}
	}

	s.runningRequests[service]++
	if dispatched := s.Schedule(now); dispatched != nil {
		s.controller.AddEvent(Event{
			Time:         dispatched.FinishTime,
			Receiver:     dispatched.Receiver,
			Service:      dispatched.Service,
			Node:         s.node,
			FlowID:       dispatched.FlowID,
			TrafficClass: 0,
			RTT:          dispatched.RTT,
			Status:       StatusTaskComplete,
		})
		s.controller.ExecuteService(ServiceExecution{
			Time:    now,
			Service: dispatched.Service,
			Node:    s.node,
			IsCloud: false,
		})
	}

	return true, Success
}

func (s *ComputationalSpot) admitCloud(service int, now float64, flowID uint64, deadline float64, receiver string, rtt float64) (bool, AdmissionReason) {
	execTime := s.services[service].ExecTime
	s.controller.AddEvent(Event{
		Time:     now + execTime,
		Receiver: receiver,
		Service:  service,
		Node:     s.node,
		FlowID:   flowID,
		RTT:      rtt,
		Status:   StatusTaskComplete,
	})
	s.controller.ExecuteService(ServiceExecution{Time: now, Service: service, Node: s.node, IsCloud: true})
	return true, Cloud
}

func (s *ComputationalSpot) removeTask(task *Task) {
	for i, t := range s.queue {
		if t == task {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// AdmitTaskAuction admits a task via the posted-price auction: it succeeds
// only if a core is free right now and the class's utility for this service
// meets or exceeds the posted price (spec §4.5).
func (s *ComputationalSpot) AdmitTaskAuction(service int, now float64, flowID uint64, class int, receiver string, rtt float64) (bool, AdmissionReason) {
	core, numFree := s.cpu.EarliestCore(now)
	if core == -1 {
		return false, Congestion
	}

	// Clamp numFree to [1, K]: the source indexes vmPrices[numFree-1]
	// without this guard, which is undefined if numFree exceeds K (spec §9
	// Open Question 3).
	if numFree > s.cpu.Cores() {
		numFree = s.cpu.Cores()
	}
	if numFree < 1 {
		numFree = 1
	}

	utility := s.pricing.Utility(service, class)
	price := s.pricing.VMPrices()[numFree-1]
	if utility < price {
		return false, Congestion
	}

	execTime := s.services[service].ExecTime
	finishTime := now + execTime
	if err := s.cpu.Assign(core, finishTime, service); err != nil {
		panic(err)
	}

	s.controller.AddEvent(Event{
		Time:         finishTime,
		Receiver:     receiver,
		Service:      service,
		Node:         s.node,
		FlowID:       flowID,
		TrafficClass: class,
		RTT:          rtt,
		Status:       StatusTaskComplete,
	})
	s.controller.ExecuteService(ServiceExecution{
		Time:    now,
		Service: service,
		Node:    s.node,
		Class:   class,
		Utility: utility,
		Price:   price,
	})

	return true, Success
}

// Schedule places the next eligible queued task on a free core, if any, and
// returns it; returns nil if no core is free or no queued task has an
// available VM slot (spec §4.6).
func (s *ComputationalSpot) Schedule(now float64) *Task {
	core, _ := s.cpu.EarliestCore(now)
	if core == -1 || len(s.queue) == 0 {
		return nil
	}

	for i, task := range s.queue {
		if s.numInstances[task.Service] > 0 && s.cpu.RunningCount(task.Service) >= s.numInstances[task.Service] {
			continue
		}
		task.FinishTime = now + task.ExecTime
		if err := s.cpu.Assign(core, task.FinishTime, task.Service); err != nil {
			panic(err)
		}
		s.queue = append(s.queue[:i], s.queue[i+1:]...)
		return task
	}
	return nil
}

// ReassignVM moves one VM instance from one service to another. Fails
// (panics) if the source service has zero instances — logical misuse (spec
// §7).
func (s *ComputationalSpot) ReassignVM(from, to int) {
	if s.numInstances[from] == 0 {
		panic(fmt.Sprintf("sim: reassign_vm: service %d has no instances to replace at node %s", from, s.node))
	}
	s.numInstances[from]--
	s.numInstances[to]++
}

// ComputePrices recomputes vmPrices and admittedServiceClassRate/
// admittedServiceRate from the given arrival-rate matrix (spec §4.8).
func (s *ComputationalSpot) ComputePrices(arrivalRates [][]float64) {
	s.pricing.ComputePrices(s.services, arrivalRates, s.cpu.Cores())
}

// VMPrices returns the last computed price vector, or nil for a cloud spot,
// which has no pricing engine.
func (s *ComputationalSpot) VMPrices() []float64 {
	if s.pricing == nil {
		return nil
	}
	return s.pricing.VMPrices()
}

// AdmittedServiceRate returns the last clearing's admitted rate for service s.
func (s *ComputationalSpot) AdmittedServiceRate(service int) float64 {
	return s.pricing.AdmittedServiceRate(service)
}

// AdmittedServiceClassRate returns the last clearing's admitted rate for
// (service, class).
func (s *ComputationalSpot) AdmittedServiceClassRate(service, class int) float64 {
	return s.pricing.AdmittedServiceClassRate(service, class)
}

// GetIdleTime returns the spot's total accumulated idle time, advancing the
// clock to now first (spec §6).
func (s *ComputationalSpot) GetIdleTime(now float64) float64 {
	return s.cpu.IdleTime(now)
}

// NumInstances returns the current VM count bound to service s.
func (s *ComputationalSpot) NumInstances(service int) int {
	return s.numInstances[service]
}
