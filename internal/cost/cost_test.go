package cost

import (
	"testing"

	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// mixedSystem builds one component with two partitions: the base partition
// runs on a time-priced edge resource, the second on a per-invocation-priced
// FaaS resource, so Compute exercises both pricing branches.
func mixedSystem(t *testing.T) (*system.System, yhat.Assignment) {
	t.Helper()

	resources := []system.Resource{
		{Index: 0, Kind: system.Edge, Name: "edge-a", MaxInstances: 4, Memory: 1000, CostPerTimeUnit: 2},
		{Index: 1, Kind: system.FaaS, Name: "faas-a", Memory: 1000, CostPerTimeUnit: 0.5},
	}

	comp := system.Component{
		Index: 0,
		ID:    "c0",
		Name:  "c0",
		Partitions: []system.Partition{
			{Index: 0, PartLambda: 1},
			{Index: 1, PartLambda: 1},
		},
		Deployments: []system.Deployment{
			{Name: "single", PartitionIndices: []int{0, 1}},
		},
	}

	compat := [][][]bool{{{true, true}, {true, true}}}
	compatMem := [][][]float64{{{10, 10}, {10, 10}}}
	demand := [][][]float64{{{1, 1}, {1, 2}}}
	models := [][][]system.PerformanceModel{{
		{system.NewPerformanceModel(system.Edge, ""), system.NewPerformanceModel(system.FaaS, "")},
		{system.NewPerformanceModel(system.Edge, ""), system.NewPerformanceModel(system.FaaS, "")},
	}}

	graph := system.NewDAG([]string{"c0"}, nil)
	sys := system.New([]system.Component{comp}, resources, 1, 1, nil,
		compat, compatMem, demand, models, nil, nil, graph, 1.0, 100, nil)

	m := yhat.NewComponentMatrix(2, 2)
	m.Set(0, 0, 3) // edge, time-priced, 3 instances
	m.Set(1, 1, 1) // faas, per-invocation-priced
	y := yhat.Assignment{m}

	return sys, y
}

func TestComputeTimePricedResource(t *testing.T) {
	sys, y := mixedSystem(t)
	got := Compute(sys, y)

	// edge: cost_per_time_unit(2) * max_instances(3) * horizon(100) = 600
	// faas: cost_per_time_unit(0.5) * count(1) * demand(2) * lambda(1) * horizon(100) = 100
	want := 700.0
	if got != want {
		t.Errorf("Compute() = %f, want %f", got, want)
	}
}

func TestComputeIgnoresUnusedResources(t *testing.T) {
	sys, _ := mixedSystem(t)
	empty := yhat.Assignment{yhat.NewComponentMatrix(2, 2)}
	if got := Compute(sys, empty); got != 0 {
		t.Errorf("Compute() on an empty assignment = %f, want 0", got)
	}
}
