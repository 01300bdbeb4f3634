package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Topology is the external collaborator giving per-class delay budgets and
// the spot's position in the network (spec §6). Real topology construction,
// routing, and link-delay computation are out of scope (spec §1 Non-goals);
// this module only consumes the attributes below.
type Topology interface {
	NumClasses() int
	MaxDelay(class int) float64
	MinDelay(class int) float64
	Height() float64
	LinkDelay() float64
	Depth(node string) float64
	Receivers() []string
	NumEdgeRouters() int
}

// StaticTopology is a minimal, config-driven Topology implementation. It
// lets the CLI and tests run end to end without a real topology-building
// collaborator (SPEC_FULL.md §6).
type StaticTopology struct {
	MaxDelayByClass []float64         `yaml:"maxDelay"`
	MinDelayByClass []float64         `yaml:"minDelay"`
	TreeHeight      float64           `yaml:"height"`
	Link            float64           `yaml:"linkDelay"`
	NodeDepth       map[string]float64 `yaml:"depth"`
	ReceiverNodes   []string          `yaml:"receivers"`
	EdgeRouters     int               `yaml:"edgeRouters"`
}

func (t *StaticTopology) NumClasses() int         { return len(t.MaxDelayByClass) }
func (t *StaticTopology) MaxDelay(class int) float64 { return t.MaxDelayByClass[class] }
func (t *StaticTopology) MinDelay(class int) float64 { return t.MinDelayByClass[class] }
func (t *StaticTopology) Height() float64            { return t.TreeHeight }
func (t *StaticTopology) LinkDelay() float64         { return t.Link }
func (t *StaticTopology) Depth(node string) float64  { return t.NodeDepth[node] }
func (t *StaticTopology) Receivers() []string        { return t.ReceiverNodes }
func (t *StaticTopology) NumEdgeRouters() int        { return t.EdgeRouters }

// topologyFile is the on-disk shape for LoadTopology.
type topologyFile struct {
	Topology StaticTopology `yaml:"topology"`
}

// LoadTopology reads a YAML scenario's topology section into a
// *StaticTopology.
func LoadTopology(path string) (*StaticTopology, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: reading topology file %s: %w", path, err)
	}
	var f topologyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("sim: parsing topology file %s: %w", path, err)
	}
	t := &f.Topology
	if len(t.MaxDelayByClass) == 0 || len(t.MinDelayByClass) != len(t.MaxDelayByClass) {
		return nil, fmt.Errorf("%w: maxDelay/minDelay must be non-empty and equal length", ErrInvalidTopology)
	}
	if len(t.ReceiverNodes) == 0 {
		return nil, fmt.Errorf("%w: at least one receiver required", ErrInvalidTopology)
	}
	return t, nil
}

// DelayToCloud is δ, the spot's propagation delay to its cloud parent:
// (height - depth) × linkDelay (spec §4.7).
func DelayToCloud(topo Topology, node string) float64 {
	return (topo.Height() - topo.Depth(node)) * topo.LinkDelay()
}
