package moves

import (
	"math/rand"
	"testing"

	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// twoResourceSystem builds a single-component, two-partition system with
// two interchangeable edge resources, both compatible with both partitions.
// Resource 0 and resource 1 each support up to 4 instances.
func twoResourceSystem(t *testing.T) (*system.System, yhat.Assignment) {
	t.Helper()

	resources := []system.Resource{
		{Index: 0, Kind: system.Edge, Name: "edge-a", MaxInstances: 4, Memory: 1000},
		{Index: 1, Kind: system.Edge, Name: "edge-b", MaxInstances: 4, Memory: 1000},
	}

	comp := system.Component{
		Index: 0,
		ID:    "c0",
		Name:  "only-component",
		Partitions: []system.Partition{
			{Index: 0},
			{Index: 1},
		},
		Deployments: []system.Deployment{
			{Name: "single", PartitionIndices: []int{0, 1}},
		},
	}

	compat := [][][]bool{{{true, true}, {true, true}}}
	compatMem := [][][]float64{{{10, 10}, {10, 10}}}
	demand := [][][]float64{{{1, 1}, {1, 1}}}
	models := [][][]system.PerformanceModel{{
		{system.NewPerformanceModel(system.Edge, ""), system.NewPerformanceModel(system.Edge, "")},
		{system.NewPerformanceModel(system.Edge, ""), system.NewPerformanceModel(system.Edge, "")},
	}}

	graph := system.NewDAG([]string{"c0"}, nil)

	sys := system.New([]system.Component{comp}, resources, 2, 2, nil,
		compat, compatMem, demand, models, nil, nil, graph, 1.0, 3600, nil)

	m := yhat.NewComponentMatrix(2, 2)
	m.Set(0, 0, 1)
	m.Set(1, 0, 2)
	y := yhat.Assignment{m}

	return sys, y
}

func TestReResourceChangesOnlyOnePartitionsResource(t *testing.T) {
	sys, y := twoResourceSystem(t)
	rng := rand.New(rand.NewSource(1))

	out := ReResource(rng, sys, y)
	if !out.Applied {
		t.Fatal("ReResource should apply on a system with an alternate compatible resource")
	}
	if out.Kind != ReResourceKind {
		t.Errorf("Kind = %q, want %q", out.Kind, ReResourceKind)
	}
	if y[0].Equal(out.Assignment[0]) {
		t.Error("ReResource should have changed the assignment")
	}
	// exactly one partition's resource should differ from the original
	changed := 0
	for h := 0; h < 2; h++ {
		before, _ := y[0].Get(h)
		after, _ := out.Assignment[0].Get(h)
		if before.Resource != after.Resource {
			changed++
		}
	}
	if changed != 1 {
		t.Errorf("ReResource changed %d partitions' resource column, want exactly 1", changed)
	}
}

func TestReResourceLeavesOriginalUntouched(t *testing.T) {
	sys, y := twoResourceSystem(t)
	before := y.Clone()
	rng := rand.New(rand.NewSource(2))

	ReResource(rng, sys, y)

	if !y.Equal(before) {
		t.Error("ReResource must not mutate the input assignment")
	}
}

func TestReInstanceChangesCountNotResource(t *testing.T) {
	sys, y := twoResourceSystem(t)
	rng := rand.New(rand.NewSource(3))

	out := ReInstance(rng, sys, y)
	if !out.Applied {
		t.Fatal("ReInstance should apply: the chosen partition's resource supports instances")
	}
	h := out.Signature.Partition
	before, _ := y[0].Get(h)
	after, _ := out.Assignment[0].Get(h)
	if before.Resource != after.Resource {
		t.Errorf("ReInstance changed the resource column: %d -> %d", before.Resource, after.Resource)
	}
	if after.Count < 1 || after.Count > sys.Resource(after.Resource).MaxInstances {
		t.Errorf("ReInstance produced out-of-range count %d", after.Count)
	}
}

func TestReDeploymentNoOpWithOneDeployment(t *testing.T) {
	sys, y := twoResourceSystem(t)
	rng := rand.New(rand.NewSource(4))

	out := ReDeployment(rng, sys, y)
	if out.Applied {
		t.Error("ReDeployment should be a no-op when the component has only one declared deployment")
	}
}

func TestSwapDeploymentNoOpWithSingleComponent(t *testing.T) {
	sys, y := twoResourceSystem(t)
	rng := rand.New(rand.NewSource(5))

	out := SwapDeployment(rng, sys, y)
	if out.Applied {
		t.Error("SwapDeployment should be a no-op with fewer than two components")
	}
}

func TestRandomDispatchesToSomeMove(t *testing.T) {
	sys, y := twoResourceSystem(t)
	rng := rand.New(rand.NewSource(6))

	seen := map[Kind]bool{}
	for i := 0; i < 50; i++ {
		out := Random(rng, sys, y)
		seen[out.Kind] = true
	}
	if len(seen) == 0 {
		t.Fatal("Random should have produced at least one outcome")
	}
}
