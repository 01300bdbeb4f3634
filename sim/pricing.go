package sim

import (
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// uMax is the ceiling of the utility scale (spec §4.7).
const uMax = 100.0

// phi is the per-VM operating cost subtracted from price in the outer
// loop's objective (spec §4.8).
const phi = 0.2

// priceDecrement is the per-iteration price cut broadcast when demand stops
// growing (spec §4.8).
const priceDecrement = 0.5

// maxPriceIterations bounds the outer descending-clock auction loop (spec §9
// Design Note, Open Question 2: "a hard iteration cap (e.g. 10000) is
// recommended").
const maxPriceIterations = 10000

// PricingEngine computes per-(service, class) utilities and runs the
// iterative market-clearing price computation (spec §4.7-§4.8). Its state is
// recomputed from scratch on every ComputePrices call; outputs persist until
// the next call (spec §3).
type PricingEngine struct {
	numClasses   int
	utilities    [][]float64 // utilities[s][c]
	vmPrices     []float64   // length K
	admittedRate []float64   // admittedRate[s]
	admittedClassRate [][]float64 // admittedClassRate[s][c]
}

// NewPricingEngine computes utilities for every (service, class) pair given
// this spot's distance from the cloud, then returns an engine ready for
// ComputePrices calls.
func NewPricingEngine(services Services, topo Topology, node string) *PricingEngine {
	numClasses := topo.NumClasses()
	delta := DelayToCloud(topo, node)

	maxD := 0.0
	for c := 0; c < numClasses; c++ {
		maxD = math.Max(maxD, topo.MaxDelay(c))
	}

	utilities := make([][]float64, len(services))
	for s, svc := range services {
		utilities[s] = computeUtilitiesForService(svc.Alpha, numClasses, maxD, delta, topo)
	}

	return &PricingEngine{
		numClasses:        numClasses,
		utilities:         utilities,
		admittedRate:      make([]float64, len(services)),
		admittedClassRate: make([][]float64, len(services)),
	}
}

// computeUtilitiesForService computes u(s,c) for every class c, for a
// service with shape parameter alpha (spec §4.7):
//
//	u_min(s,c) = ((maxD - max_delay[c]) / maxD)^(1/alpha) * U_max
//	u(s,c)     = u_min + (U_max - u_min) * ((max_delay[c] - (delta + min_delay[c])) / max_delay[c])^(1/alpha)
func computeUtilitiesForService(alpha float64, numClasses int, maxD, delta float64, topo Topology) []float64 {
	invAlpha := 1.0 / alpha

	uMin := make([]float64, numClasses)
	headroom := make([]float64, numClasses)
	for c := 0; c < numClasses; c++ {
		classMaxD := topo.MaxDelay(c)
		uMin[c] = math.Pow((maxD-classMaxD)/maxD, invAlpha) * uMax
		headroom[c] = math.Pow((classMaxD-(delta+topo.MinDelay(c)))/classMaxD, invAlpha)
	}

	// u = uMin + (uMax - uMin) * headroom: span is filled in a loop, and the
	// elementwise multiply and add use gonum/floats.
	span := make([]float64, numClasses)
	for c := range span {
		span[c] = uMax - uMin[c]
	}
	floats.Mul(span, headroom)
	u := make([]float64, numClasses)
	copy(u, uMin)
	floats.Add(u, span)
	return u
}

// Utility returns u(s,c), the class c's willingness-to-pay for service s at
// this spot. May be negative if the class cannot be served at any positive
// price (spec §4.7).
func (p *PricingEngine) Utility(service, class int) float64 {
	return p.utilities[service][class]
}

// VMPrices returns the posted price vector: vmPrices[i] is the price charged
// when i+1 cores are currently free.
func (p *PricingEngine) VMPrices() []float64 {
	return p.vmPrices
}

// AdmittedServiceRate returns the last clearing's total admitted rate for
// service s.
func (p *PricingEngine) AdmittedServiceRate(service int) float64 {
	return p.admittedRate[service]
}

// AdmittedServiceClassRate returns the last clearing's admitted rate for
// (service, class).
func (p *PricingEngine) AdmittedServiceClassRate(service, class int) float64 {
	return p.admittedClassRate[service][class]
}

// ComputePrices runs the iterative market-clearing price computation (spec
// §4.8). arrivalRates[s][c] is the externally estimated Poisson mean arrival
// rate of (service, class) pairs. K is the spot's VM count.
//
// The per-service LP subproblem
//
//	maximise (1/mu_s) * sum_c (u(s,c) - p_s) * x_c  s.t. 0 <= x_c <= L[s][c]
//
// has closed-form optimum x_c = L[s][c] if u(s,c) > p_s else 0, which
// removes the need for an LP solver in the hot path.
func (p *PricingEngine) ComputePrices(services Services, arrivalRates [][]float64, k int) {
	numServices := len(services)
	price := make([]float64, numServices)
	for s := range price {
		price[s] = 100.0
	}

	vmPrices := make([]float64, 0, k)
	admittedTotal := make([]float64, numServices)
	xOld := 0.0
	lastTurn := false

	iterations := 0
	for {
		iterations++
		xCurrent := 0.0
		for s := 0; s < numServices; s++ {
			total, perClass := p.solveServiceSubproblem(s, price[s], services, arrivalRates)
			admittedTotal[s] = total
			p.admittedClassRate[s] = perClass
			xCurrent += total
		}

		if xCurrent == xOld {
			lastTurn = p.decrementPrices(price)
			if !lastTurn {
				if iterations >= maxPriceIterations {
					logrus.Warn("sim: pricing outer loop hit iteration cap without convergence; publishing last computed prices")
					break
				}
				continue
			}
		}
		xOld = xCurrent

		done := p.updateVMPrices(admittedTotal, services, price, &vmPrices, k)
		if done || lastTurn {
			break
		}
		if iterations >= maxPriceIterations {
			logrus.Warn("sim: pricing outer loop hit iteration cap without convergence; publishing last computed prices")
			break
		}
	}

	for len(vmPrices) < k {
		vmPrices = append(vmPrices, 0.0)
	}
	p.vmPrices = vmPrices

	// Final re-solve to publish admittedServiceClassRate/admittedServiceRate
	// from the converged prices (spec §4.8).
	for s := 0; s < numServices; s++ {
		total, perClass := p.solveServiceSubproblem(s, price[s], services, arrivalRates)
		p.admittedClassRate[s] = perClass
		p.admittedRate[s] = total
	}
}

// solveServiceSubproblem returns the closed-form optimum of the per-service
// LP subproblem at price p: total admitted rate and per-class admitted
// rates. If the optimum value is negative or within the solver-error
// tolerance of zero, the admitted rate is treated as zero (spec §4.8).
func (p *PricingEngine) solveServiceSubproblem(s int, price float64, services Services, arrivalRates [][]float64) (float64, []float64) {
	mu := services.Rate(s)
	u := p.utilities[s]
	L := arrivalRates[s]

	perClass := make([]float64, p.numClasses)
	result := 0.0
	for c := 0; c < p.numClasses; c++ {
		gain := u[c] - price
		if gain > 0 {
			perClass[c] = L[c]
			result += gain * L[c]
		}
	}
	result /= mu

	if result < 0 || math.Abs(result) < 1e-5 {
		for c := range perClass {
			perClass[c] = 0
		}
		return 0, perClass
	}

	total := 0.0
	for _, x := range perClass {
		total += x
	}
	return total, perClass
}

// decrementPrices broadcasts a price cut when demand stopped growing.
// Returns true once any service's price has hit zero (spec §4.8).
func (p *PricingEngine) decrementPrices(price []float64) bool {
	lastTurn := false
	for s := range price {
		price[s] = math.Max(0, price[s]-priceDecrement)
		if price[s] == 0 {
			lastTurn = true
		}
	}
	return lastTurn
}

// updateVMPrices extends vmPrices up to the requested capacity implied by
// current demand, and reports whether the outer loop should stop (spec
// §4.8). Returns true (stop) if the objective is infeasible or requested
// capacity has reached K.
func (p *PricingEngine) updateVMPrices(admittedTotal []float64, services Services, price []float64, vmPrices *[]float64, k int) bool {
	y := 0.0
	objective := 0.0
	for s, x := range admittedTotal {
		m := 1.0 / services.Rate(s)
		y += m * x
		objective += m * (price[s] - phi) * x
	}

	if objective < 0 && math.Abs(objective) > 0.001 {
		return true
	}

	requestedCapacity := int(math.Floor(y))
	if requestedCapacity > k {
		requestedCapacity = k
	}

	// vmPrices[i] is the price in effect when the i-th VM is requested.
	// Matches the source's updateVMPrices, which appends the price of the
	// last-iterated service (the loop variable's final value) rather than a
	// per-service price, since the pricing scenarios this engine targets
	// run one dominant service per spot.
	currentPrice := 0.0
	if len(price) > 0 {
		currentPrice = price[len(price)-1]
	}
	for i := len(*vmPrices); i < requestedCapacity; i++ {
		*vmPrices = append(*vmPrices, currentPrice)
	}

	return requestedCapacity >= k
}
