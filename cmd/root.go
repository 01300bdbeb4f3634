// cmd/root.go
package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edgesim/edgesim/internal/metrics"
	"github.com/edgesim/edgesim/sim"
	"github.com/edgesim/edgesim/sim/workload"
)

var (
	servicesPath string
	topologyPath string
	policyName   string
	nodeName     string
	cores        int
	instancesCSV string
	ratesCSV     string
	classesCSV   string
	edgeRouters  int
	warmup       int
	measured     int
	beta         float64
	seed         int64
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "edgesim",
	Short: "Discrete-event simulator for edge-computing admission and pricing",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an admission/scheduling scenario against one edge spot and the cloud sink",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		services, err := sim.LoadServices(servicesPath)
		if err != nil {
			logrus.Fatalf("loading services: %v", err)
		}
		topo, err := sim.LoadTopology(topologyPath)
		if err != nil {
			logrus.Fatalf("loading topology: %v", err)
		}
		if err := sim.ValidatePolicyName(policyName); err != nil {
			logrus.Fatalf("parsing --policy: %v", err)
		}

		instances, err := parseInts(instancesCSV, len(services))
		if err != nil {
			logrus.Fatalf("parsing --instances: %v", err)
		}
		rates, err := parseFloats(ratesCSV, len(services))
		if err != nil {
			logrus.Fatalf("parsing --rates: %v", err)
		}
		classWeights, err := parseFloats(classesCSV, topo.NumClasses())
		if err != nil {
			logrus.Fatalf("parsing --classes: %v", err)
		}

		logrus.Infof("starting run: node=%s policy=%s cores=%d services=%d", nodeName, policyName, cores, len(services))

		controller := sim.NewInMemoryController()
		edgeSpot := sim.NewComputationalSpot(nodeName, cores, services, topo, policyName, instances, controller)
		cloudSpot := sim.NewCloudSpot("cloud", services, controller)

		driverCfg := workload.Config{
			NumServices:    len(services),
			NumEdgeRouters: edgeRouters,
			Rates:          rates,
			Beta:           beta,
			ClassWeights:   classWeights,
			Receivers:      topo.Receivers(),
			NWarmup:        warmup,
			NMeasured:      measured,
			Seed:           seed,
		}
		driver, err := workload.NewDriver(driverCfg, controller)
		if err != nil {
			logrus.Fatalf("building workload driver: %v", err)
		}

		runLoop(driver, edgeSpot, cloudSpot, topo)

		report := &metrics.Report{}
		report.Add(spotSnapshot(edgeSpot, edgeSpot.GetIdleTime(0)))
		report.Add(spotSnapshot(cloudSpot, 0))
		report.Print()

		logrus.Info("run complete")
	},
}

// runLoop drains the workload driver to exhaustion, routing every REQUEST to
// the edge spot and falling back to the cloud sink on rejection (spec §4.9;
// CLI-level routing policy, not part of the core admission contract).
func runLoop(driver *workload.Driver, edgeSpot, cloudSpot *sim.ComputationalSpot, topo sim.Topology) {
	for {
		event, ok := driver.Next()
		if !ok {
			return
		}
		switch event.Status {
		case sim.StatusRequest:
			deadline := event.Time + topo.MaxDelay(event.TrafficClass)
			accepted, reason := edgeSpot.AdmitTask(event.Service, event.Time, event.FlowID, deadline, event.Receiver, event.RTT)
			if !accepted {
				logrus.Debugf("edge rejected flow=%d service=%d reason=%s; routing to cloud", event.FlowID, event.Service, reason)
				cloudSpot.AdmitTask(event.Service, event.Time, event.FlowID, deadline, event.Receiver, event.RTT)
			}
		case sim.StatusResponse, sim.StatusTaskComplete:
			logrus.Debugf("drained %s event at t=%.4f for flow=%d", event.Status, event.Time, event.FlowID)
		}
	}
}

func spotSnapshot(spot *sim.ComputationalSpot, idleTime float64) metrics.SpotStats {
	missed, running, delegated := spot.Stats()
	return metrics.SpotStats{
		Node:      spot.NodeID(),
		IsCloud:   spot.IsCloud(),
		IdleTime:  idleTime,
		Missed:    missed,
		Running:   running,
		Delegated: delegated,
		VMPrices:  spot.VMPrices(),
	}
}

func parseInts(csv string, want int) ([]int, error) {
	parts := strings.Split(csv, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	if len(out) != want {
		return padInts(out, want), nil
	}
	return out, nil
}

func parseFloats(csv string, want int) ([]float64, error) {
	parts := strings.Split(csv, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	if len(out) != want {
		return padFloats(out, want), nil
	}
	return out, nil
}

// padInts/padFloats repeat a single supplied value across want slots, so a
// scenario with one dominant rate/instance count can be configured with one
// flag value instead of one per service/class.
func padInts(vals []int, want int) []int {
	if len(vals) != 1 {
		return vals
	}
	out := make([]int, want)
	for i := range out {
		out[i] = vals[0]
	}
	return out
}

func padFloats(vals []float64, want int) []float64 {
	if len(vals) != 1 {
		return vals
	}
	out := make([]float64, want)
	for i := range out {
		out[i] = vals[0]
	}
	return out
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&servicesPath, "services", "", "path to services YAML file")
	runCmd.Flags().StringVar(&topologyPath, "topology", "", "path to topology YAML file")
	runCmd.Flags().StringVar(&policyName, "policy", "FIFO", "scheduling policy: FIFO or EDF")
	runCmd.Flags().StringVar(&nodeName, "node", "edge0", "edge spot node id")
	runCmd.Flags().IntVar(&cores, "cores", 4, "number of cores at the edge spot")
	runCmd.Flags().StringVar(&instancesCSV, "instances", "1", "comma-separated VM instance count per service (or a single value for all)")
	runCmd.Flags().StringVar(&ratesCSV, "rates", "1.0", "comma-separated per-service Poisson rate (or a single value for all)")
	runCmd.Flags().StringVar(&classesCSV, "classes", "1.0", "comma-separated traffic-class weights, must sum to 1")
	runCmd.Flags().IntVar(&edgeRouters, "edge-routers", 1, "number of edge routers feeding the workload driver")
	runCmd.Flags().IntVar(&warmup, "warmup", 0, "number of warmup requests excluded from metrics")
	runCmd.Flags().IntVar(&measured, "measured", 1000, "number of measured requests")
	runCmd.Flags().Float64Var(&beta, "beta", 0, "receiver-skew Zipf parameter; 0 = uniform")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
	_ = runCmd.MarkFlagRequired("services")
	_ = runCmd.MarkFlagRequired("topology")

	rootCmd.AddCommand(runCmd)
}
