// Package moves implements the neighborhood move operators shared by
// every heuristic search engine (§4.6): re-resource, re-instance,
// re-deployment and swap-deployment. Every move operates on a clone of
// the incoming assignment and leaves the original untouched; callers are
// expected to re-run cluster-size reduction afterward (§4.6).
package moves

import (
	"math/rand"

	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// Kind names a move operator, used for tabu-search move signatures (§4.6).
type Kind string

const (
	ReResourceKind     Kind = "re-resource"
	ReInstanceKind     Kind = "re-instance"
	ReDeploymentKind   Kind = "re-deployment"
	SwapDeploymentKind Kind = "swap-deployment"
)

// Signature identifies a specific move for tabu bookkeeping: component id,
// partition id, destination resource id (§4.6).
type Signature struct {
	Component int
	Partition int
	Resource  int
}

// Outcome is the result of attempting a move: the mutated assignment (a
// clone; nil if the move could not be applied) and its signature.
type Outcome struct {
	Assignment yhat.Assignment
	Signature  Signature
	Kind       Kind
	Applied    bool
}

// compatibleResources lists every resource index compatible with cell
// (i, h), excluding exclude.
func compatibleResources(sys *system.System, i, h, exclude int) []int {
	var out []int
	for j := 0; j < sys.J(); j++ {
		if j == exclude {
			continue
		}
		if sys.Compatible(i, h, j) {
			out = append(out, j)
		}
	}
	return out
}

// randomInstanceCount picks a uniform instance count in [1, max-instances]
// for a resource supporting instances, else 1 (FaaS).
func randomInstanceCount(rng *rand.Rand, sys *system.System, j int) int {
	res := sys.Resource(j)
	if !res.SupportsInstances() || res.MaxInstances <= 1 {
		return 1
	}
	return 1 + rng.Intn(res.MaxInstances)
}

// randomAssignedPartition picks a uniformly random assigned partition of
// component i, returning (h, resource, ok).
func randomAssignedPartition(rng *rand.Rand, y yhat.Assignment, i int) (int, int, bool) {
	parts := y[i].SortedPartitions()
	if len(parts) == 0 {
		return 0, 0, false
	}
	h := parts[rng.Intn(len(parts))]
	cell, _ := y[i].Get(h)
	return h, cell.Resource, true
}

// ReResource changes one partition's resource column to another compatible
// one, possibly crossing the edge/cloud boundary (§4.6).
func ReResource(rng *rand.Rand, sys *system.System, y yhat.Assignment) Outcome {
	i := rng.Intn(sys.I())
	h, curJ, ok := randomAssignedPartition(rng, y, i)
	if !ok {
		return Outcome{Kind: ReResourceKind}
	}
	candidates := compatibleResources(sys, i, h, curJ)
	if len(candidates) == 0 {
		return Outcome{Kind: ReResourceKind}
	}
	newJ := candidates[rng.Intn(len(candidates))]

	out := y.Clone()
	out[i].Set(h, newJ, randomInstanceCount(rng, sys, newJ))
	return Outcome{
		Assignment: out,
		Signature:  Signature{Component: i, Partition: h, Resource: newJ},
		Kind:       ReResourceKind,
		Applied:    true,
	}
}

// ReInstance changes one partition's instance count within
// [1, max-instances], leaving its resource column unchanged (§4.6).
func ReInstance(rng *rand.Rand, sys *system.System, y yhat.Assignment) Outcome {
	i := rng.Intn(sys.I())
	h, curJ, ok := randomAssignedPartition(rng, y, i)
	if !ok {
		return Outcome{Kind: ReInstanceKind}
	}
	if !sys.Resource(curJ).SupportsInstances() {
		return Outcome{Kind: ReInstanceKind}
	}

	out := y.Clone()
	out[i].Set(h, curJ, randomInstanceCount(rng, sys, curJ))
	return Outcome{
		Assignment: out,
		Signature:  Signature{Component: i, Partition: h, Resource: curJ},
		Kind:       ReInstanceKind,
		Applied:    true,
	}
}

// ReDeployment switches a component to a different deployment (partition
// layout), then re-assigns resources to its new partitions uniformly at
// random (§4.6, mirroring §4.5 step 2).
func ReDeployment(rng *rand.Rand, sys *system.System, y yhat.Assignment) Outcome {
	i := rng.Intn(sys.I())
	comp := sys.Components[i]
	if len(comp.Deployments) < 2 {
		return Outcome{Kind: ReDeploymentKind}
	}
	dep := comp.Deployments[rng.Intn(len(comp.Deployments))]

	out := y.Clone()
	out[i] = yhat.NewComponentMatrix(len(comp.Partitions), sys.J())
	var lastH, lastJ int
	for _, h := range dep.PartitionIndices {
		var candidates []int
		for j := 0; j < sys.J(); j++ {
			if sys.Compatible(i, h, j) {
				candidates = append(candidates, j)
			}
		}
		if len(candidates) == 0 {
			return Outcome{Kind: ReDeploymentKind}
		}
		j := candidates[rng.Intn(len(candidates))]
		out[i].Set(h, j, randomInstanceCount(rng, sys, j))
		lastH, lastJ = h, j
	}

	return Outcome{
		Assignment: out,
		Signature:  Signature{Component: i, Partition: lastH, Resource: lastJ},
		Kind:       ReDeploymentKind,
		Applied:    true,
	}
}

// SwapDeployment exchanges resources between two components: one randomly
// chosen assigned partition of component a moves to the resource of one
// randomly chosen assigned partition of component b, and vice versa, each
// with a fresh random instance count. The other partitions are left as
// they are. Only applied when each chosen partition is compatible with the
// other's current resource (§4.6).
func SwapDeployment(rng *rand.Rand, sys *system.System, y yhat.Assignment) Outcome {
	if sys.I() < 2 {
		return Outcome{Kind: SwapDeploymentKind}
	}
	a := rng.Intn(sys.I())
	b := rng.Intn(sys.I())
	if a == b {
		return Outcome{Kind: SwapDeploymentKind}
	}

	ha, ja, okA := randomAssignedPartition(rng, y, a)
	hb, jb, okB := randomAssignedPartition(rng, y, b)
	if !okA || !okB {
		return Outcome{Kind: SwapDeploymentKind}
	}
	if !sys.Compatible(a, ha, jb) || !sys.Compatible(b, hb, ja) {
		return Outcome{Kind: SwapDeploymentKind}
	}

	out := y.Clone()
	out[a].Set(ha, jb, randomInstanceCount(rng, sys, jb))
	out[b].Set(hb, ja, randomInstanceCount(rng, sys, ja))
	return Outcome{
		Assignment: out,
		Signature:  Signature{Component: a, Partition: ha, Resource: jb},
		Kind:       SwapDeploymentKind,
		Applied:    true,
	}
}

// All lists every move constructor, used by generators that pick a move
// operator uniformly at random (§4.6).
var All = []func(*rand.Rand, *system.System, yhat.Assignment) Outcome{
	ReResource, ReInstance, ReDeployment, SwapDeployment,
}

// Random applies one uniformly chosen move operator.
func Random(rng *rand.Rand, sys *system.System, y yhat.Assignment) Outcome {
	return All[rng.Intn(len(All))](rng, sys, y)
}
