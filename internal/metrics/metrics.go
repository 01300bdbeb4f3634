// Package metrics aggregates per-run statistics for end-of-run reporting:
// per-service admission counts, idle time, and the pricing engine's last
// computed prices.
package metrics

import "fmt"

// SpotStats is one computational spot's snapshot at report time.
type SpotStats struct {
	Node     string
	IsCloud  bool
	IdleTime float64

	Missed    []int
	Running   []int
	Delegated []int

	VMPrices []float64
}

// Report aggregates SpotStats across every spot in a run.
type Report struct {
	Spots []SpotStats
}

// Add appends one spot's snapshot to the report.
func (r *Report) Add(s SpotStats) {
	r.Spots = append(r.Spots, s)
}

// TotalMissed sums missed requests for service s across every spot.
func (r *Report) TotalMissed(service int) int {
	total := 0
	for _, s := range r.Spots {
		if service < len(s.Missed) {
			total += s.Missed[service]
		}
	}
	return total
}

// TotalRunning sums running (admitted) requests for service s across every
// spot.
func (r *Report) TotalRunning(service int) int {
	total := 0
	for _, s := range r.Spots {
		if service < len(s.Running) {
			total += s.Running[service]
		}
	}
	return total
}

// Print renders a per-spot summary table.
func (r *Report) Print() {
	fmt.Println("=== Simulation Metrics ===")
	for _, s := range r.Spots {
		kind := "edge"
		if s.IsCloud {
			kind = "cloud"
		}
		fmt.Printf("--- spot %s (%s) ---\n", s.Node, kind)
		fmt.Printf("idle time        : %.2f\n", s.IdleTime)
		for svc := range s.Running {
			fmt.Printf("  service %d: running=%d missed=%d delegated=%d\n",
				svc, s.Running[svc], s.Missed[svc], s.Delegated[svc])
		}
		if len(s.VMPrices) > 0 {
			fmt.Printf("  vm prices: %v\n", s.VMPrices)
		}
	}
}
