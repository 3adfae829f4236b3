package system

import (
	"fmt"
	"math"

	"github.com/space4ai/placement-optimizer/internal/logx"
)

// System is the immutable, read-only catalog of the application DAG, its
// candidate resources, compatibility and demand matrices, performance
// model handles and constraints (§4.1). It is built once and then shared
// by reference across every search worker.
type System struct {
	Components []Component
	Resources  []Resource

	// CloudStartIndex / FaaSStartIndex mark the dense resource index
	// boundaries: [0, CloudStartIndex) is Edge, [CloudStartIndex,
	// FaaSStartIndex) is VM/cloud, [FaaSStartIndex, len(Resources)) is
	// FaaS. This ordering backs the move-backward rule and FaaS-vs-time
	// cost pricing (§4.1).
	CloudStartIndex int
	FaaSStartIndex  int

	NetworkDomains []NetworkDomain

	// Compatibility[i][h][j] is true iff partition h of component i may
	// be placed on resource j.
	Compatibility [][][]bool
	// CompatibilityMemory[i][h][j] is the memory requirement of that
	// cell, present only where Compatibility[i][h][j] is true.
	CompatibilityMemory [][][]float64
	// Demand[i][h][j] is the nominal (unqueued) service time of that cell.
	Demand [][][]float64
	// PerformanceModels[i][h][j] selects the evaluator for that cell.
	PerformanceModels [][][]PerformanceModel

	LocalConstraints  []LocalConstraint
	GlobalConstraints []GlobalConstraint

	Graph *DAG

	Lambda  float64 // Λ, request arrival rate at the application source
	Horizon float64 // cost-function time horizon

	idxByComponentID map[string]int
	logger           *logx.Logger
}

// New constructs a System, deriving part/component arrival rates from
// Lambda and wiring the component-id index map used by the DAG walk. The
// caller is expected to have already produced dense, ordered indices
// (Edge < VM < FaaS) for Resources and contiguous indices for Components
// and their Partitions — see internal/manifest for the loader that builds
// these deterministically from the input JSON (§6.1).
func New(components []Component, resources []Resource, cloudStart, faasStart int,
	domains []NetworkDomain, compat [][][]bool, compatMem [][][]float64,
	demand [][][]float64, models [][][]PerformanceModel,
	local []LocalConstraint, global []GlobalConstraint, graph *DAG,
	lambda, horizon float64, log *logx.Logger) *System {

	if log == nil {
		log = logx.Default("system")
	}

	s := &System{
		Components:          components,
		Resources:           resources,
		CloudStartIndex:     cloudStart,
		FaaSStartIndex:       faasStart,
		NetworkDomains:      domains,
		Compatibility:       compat,
		CompatibilityMemory: compatMem,
		Demand:              demand,
		PerformanceModels:   models,
		LocalConstraints:    local,
		GlobalConstraints:   global,
		Graph:               graph,
		Lambda:              lambda,
		Horizon:             horizon,
		idxByComponentID:    make(map[string]int, len(components)),
		logger:              log,
	}
	for _, c := range components {
		s.idxByComponentID[c.ID] = c.Index
	}
	s.ScaleLambda(lambda)
	return s
}

// ScaleLambda recomputes every component's and partition's arrival rate
// proportionally to a new Λ, leaving the topology untouched. Used both at
// load time and by the binary-search workload maximizer (§4.8) to
// re-evaluate feasibility at a candidate rate without rebuilding the
// System.
func (s *System) ScaleLambda(lambda float64) {
	s.Lambda = lambda
	for ci := range s.Components {
		c := &s.Components[ci]
		c.CompLambda = lambda
		for pi := range c.Partitions {
			p := &c.Partitions[pi]
			earlyExit := 1.0
			for _, prev := range c.Partitions[:pi] {
				earlyExit *= 1 - prev.EarlyExit
			}
			p.PartLambda = lambda * earlyExit
		}
	}
}

// ComponentIndex resolves a component id to its dense index.
func (s *System) ComponentIndex(id string) (int, bool) {
	idx, ok := s.idxByComponentID[id]
	return idx, ok
}

// Logger returns the System's logging handle.
func (s *System) Logger() *logx.Logger { return s.logger }

// Compatible reports whether partition h of component i may run on
// resource j.
func (s *System) Compatible(i, h, j int) bool {
	return s.Compatibility[i][h][j]
}

// DemandAt returns the nominal (unqueued) service time for cell (i, h, j).
func (s *System) DemandAt(i, h, j int) float64 {
	return s.Demand[i][h][j]
}

// MemoryReq returns the memory requirement of cell (i, h, j), as declared
// by the compatibility matrix's per-cell override (§3, §6.1).
func (s *System) MemoryReq(i, h, j int) float64 {
	return s.CompatibilityMemory[i][h][j]
}

// Resource returns resource j.
func (s *System) Resource(j int) Resource {
	return s.Resources[j]
}

// PerformanceModel returns the model handle for cell (i, h, j).
func (s *System) PerformanceModel(i, h, j int) PerformanceModel {
	return s.PerformanceModels[i][h][j]
}

// NetworkDelay returns the transfer time (seconds) to move dataSizeMB
// megabytes between resources j1 and j2 (§4.2, §4.4). Returns 0 with no
// error if j1 == j2. If the two resources' layers share more than one
// common network domain, the minimum transfer time is used.
func (s *System) NetworkDelay(j1, j2 int, dataSizeMB float64) (float64, error) {
	if j1 == j2 {
		return 0, nil
	}
	l1 := s.Resources[j1].Layer
	l2 := s.Resources[j2].Layer

	best := math.Inf(1)
	found := false
	for _, nd := range s.NetworkDomains {
		if nd.Contains(l1) && nd.Contains(l2) {
			found = true
			if t := nd.TransferTime(dataSizeMB); t < best {
				best = t
			}
		}
	}
	if !found {
		return 0, fmt.Errorf("no network domain available between resource %d (%s) and %d (%s)",
			j1, l1, j2, l2)
	}
	return best, nil
}

// J returns the total number of resources.
func (s *System) J() int { return len(s.Resources) }

// I returns the total number of components.
func (s *System) I() int { return len(s.Components) }
