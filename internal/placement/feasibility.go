// Package placement implements the Configuration/feasibility checks of
// §4.3: a candidate Y_hat assignment is feasible iff it passes, in order,
// the one-resource-per-partition, compatibility, instance-cap,
// colocation/utilization, memory, edge-to-cloud monotonicity, local
// constraint, and global constraint checks. Feasibility short-circuits on
// the first failing category (cheapest structural checks first) and
// reports a violation rate used to rank infeasible candidates.
package placement

import (
	"math"

	"github.com/space4ai/placement-optimizer/internal/perf"
	"github.com/space4ai/placement-optimizer/internal/sysperf"
	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// FailureCategory names which §4.3 check rejected a candidate assignment.
type FailureCategory string

const (
	None                 FailureCategory = ""
	OneResourcePerPart   FailureCategory = "one_resource_per_partition"
	Compatibility        FailureCategory = "compatibility"
	InstanceCap          FailureCategory = "instance_cap"
	ColocationUtilization FailureCategory = "colocation_utilization"
	Memory               FailureCategory = "memory"
	Monotonicity         FailureCategory = "monotonicity"
	LocalConstraint      FailureCategory = "local_constraint"
	GlobalConstraint     FailureCategory = "global_constraint"
)

// Result is the outcome of a feasibility evaluation, carrying enough
// detail to both gate a move and rank it against other infeasible
// candidates (§4.3, §4.5 step 3).
type Result struct {
	Feasible       bool
	FailedCheck    FailureCategory
	ViolationRate  float64
	ComponentTimes []float64          // populated once local/global checks run
	PathTimes      map[string]float64 // populated once the global check runs
}

// Checker bundles the System and the performance machinery needed to
// evaluate feasibility, so it can be constructed once and reused across
// the thousands of evaluations a search performs.
type Checker struct {
	Sys   *system.System
	Perf  *sysperf.Evaluator
	Regs  *perf.RegressorTable
}

// NewChecker builds a Checker for sys, optionally sharing a regressor
// table across workers.
func NewChecker(sys *system.System, regs *perf.RegressorTable) *Checker {
	return &Checker{
		Sys:  sys,
		Perf: sysperf.New(regs, sys.Logger()),
		Regs: regs,
	}
}

// Check evaluates every feasibility category in order (§4.3), stopping at
// the first failure.
func (c *Checker) Check(y yhat.Assignment) Result {
	if fail := c.checkOneResourcePerPartition(y); fail != None {
		return Result{Feasible: false, FailedCheck: fail, ViolationRate: math.Inf(1)}
	}
	if fail := c.checkCompatibility(y); fail != None {
		return Result{Feasible: false, FailedCheck: fail, ViolationRate: math.Inf(1)}
	}
	if fail := c.checkInstanceCap(y); fail != None {
		return Result{Feasible: false, FailedCheck: fail, ViolationRate: math.Inf(1)}
	}
	if fail := c.checkColocationUtilization(y); fail != None {
		return Result{Feasible: false, FailedCheck: fail, ViolationRate: math.Inf(1)}
	}
	if fail := c.checkMemory(y); fail != None {
		return Result{Feasible: false, FailedCheck: fail, ViolationRate: math.Inf(1)}
	}
	if fail := c.checkMonotonicity(y); fail != None {
		return Result{Feasible: false, FailedCheck: fail, ViolationRate: math.Inf(1)}
	}

	componentTimes := c.Perf.AllComponentResponseTimes(c.Sys, y)

	if excess, ok := c.localExcess(componentTimes); ok {
		return Result{
			Feasible:       false,
			FailedCheck:    LocalConstraint,
			ViolationRate:  excess,
			ComponentTimes: componentTimes,
		}
	}

	if excess, ok, paths := c.globalExcess(componentTimes); ok {
		return Result{
			Feasible:       false,
			FailedCheck:    GlobalConstraint,
			ViolationRate:  excess,
			ComponentTimes: componentTimes,
			PathTimes:      paths,
		}
	}

	return Result{
		Feasible:       true,
		ComponentTimes: componentTimes,
		PathTimes:      c.allPathTimes(componentTimes),
	}
}

// checkOneResourcePerPartition is §4.3 check 1. The sparse matrix
// representation (yhat.ComponentMatrix) guarantees at most one resource
// per assigned partition by construction (§9 design note); what remains
// to check is that the set of assigned partitions is exactly one of the
// component's declared deployments — not a partial or mixed layout.
func (c *Checker) checkOneResourcePerPartition(y yhat.Assignment) FailureCategory {
	for i, comp := range c.Sys.Components {
		assigned := map[int]bool{}
		for h := range comp.Partitions {
			if cell, ok := y[i].Get(h); ok {
				if cell.Count <= 0 {
					return OneResourcePerPart
				}
				assigned[h] = true
			}
		}
		if len(assigned) == 0 {
			return OneResourcePerPart
		}
		matches := false
		for _, dep := range comp.Deployments {
			if sameSet(assigned, dep.PartitionIndices) {
				matches = true
				break
			}
		}
		if !matches {
			return OneResourcePerPart
		}
	}
	return None
}

func sameSet(assigned map[int]bool, indices []int) bool {
	if len(assigned) != len(indices) {
		return false
	}
	for _, idx := range indices {
		if !assigned[idx] {
			return false
		}
	}
	return true
}

// checkCompatibility is §4.3 check 2.
func (c *Checker) checkCompatibility(y yhat.Assignment) FailureCategory {
	for i, comp := range c.Sys.Components {
		for h := range comp.Partitions {
			cell, ok := y[i].Get(h)
			if !ok {
				continue
			}
			if !c.Sys.Compatible(i, h, cell.Resource) {
				return Compatibility
			}
		}
	}
	return None
}

// checkInstanceCap is §4.3 check 3.
func (c *Checker) checkInstanceCap(y yhat.Assignment) FailureCategory {
	maxInstances := y.MaxInstances(c.Sys.J())
	for j := 0; j < c.Sys.FaaSStartIndex; j++ {
		res := c.Sys.Resource(j)
		if res.SupportsInstances() && maxInstances[j] > res.MaxInstances {
			return InstanceCap
		}
	}
	return None
}

// checkColocationUtilization is §4.3 check 4.
func (c *Checker) checkColocationUtilization(y yhat.Assignment) FailureCategory {
	for j := 0; j < c.Sys.FaaSStartIndex; j++ {
		count := 0
		allowColo := true
		for i, comp := range c.Sys.Components {
			for h := range comp.Partitions {
				cell, ok := y[i].Get(h)
				if !ok || cell.Resource != j {
					continue
				}
				count++
				pm := c.Sys.PerformanceModel(i, h, j)
				if !pm.AllowsColocation {
					allowColo = false
				}
			}
		}
		if count > 1 {
			if !allowColo {
				return ColocationUtilization
			}
			if perf.ComputeUtilization(j, c.Sys, y) >= 1 {
				return ColocationUtilization
			}
		}
	}
	return None
}

// checkMemory is §4.3 check 5.
func (c *Checker) checkMemory(y yhat.Assignment) FailureCategory {
	for j := 0; j < c.Sys.J(); j++ {
		memory := 0.0
		for i, comp := range c.Sys.Components {
			for h := range comp.Partitions {
				cell, ok := y[i].Get(h)
				if !ok || cell.Resource != j {
					continue
				}
				memory += float64(cell.Count) * c.Sys.MemoryReq(i, h, j)
			}
		}
		if memory > c.Sys.Resource(j).Memory {
			return Memory
		}
	}
	return None
}

// checkMonotonicity is §4.3 check 6: walking the DAG breadth-first from
// source components, the sequence of resource indices used along every
// path must never move from a cloud/FaaS index back to an edge index.
// Per §9 design note (b), when a component has multiple predecessors the
// *maximum* of their last-used resource indices governs, not just one.
func (c *Checker) checkMonotonicity(y yhat.Assignment) FailureCategory {
	graph := c.Sys.Graph
	visited := make(map[string]bool)
	queue := append([]string{}, graph.Sources()...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}

		compIdx, ok := c.Sys.ComponentIndex(id)
		if !ok {
			continue
		}

		lastPartRes := -1
		for _, predID := range graph.Predecessors(id) {
			predIdx, ok := c.Sys.ComponentIndex(predID)
			if !ok {
				continue
			}
			parts := y[predIdx].SortedPartitions()
			if len(parts) == 0 {
				continue
			}
			lastH := parts[len(parts)-1]
			cell, _ := y[predIdx].Get(lastH)
			if cell.Resource >= c.Sys.CloudStartIndex && cell.Resource > lastPartRes {
				lastPartRes = cell.Resource
			}
		}

		for _, h := range y[compIdx].SortedPartitions() {
			cell, _ := y[compIdx].Get(h)
			if lastPartRes >= c.Sys.CloudStartIndex && cell.Resource < c.Sys.CloudStartIndex {
				return Monotonicity
			}
			lastPartRes = cell.Resource
		}

		visited[id] = true
		for _, succ := range graph.Successors(id) {
			if !visited[succ] {
				queue = append(queue, succ)
			}
		}
	}
	return None
}

// localExcess evaluates §4.3 check 7, returning the normalized sum of
// excesses over every violated local constraint.
func (c *Checker) localExcess(componentTimes []float64) (float64, bool) {
	total := 0.0
	violated := false
	for _, lc := range c.Sys.LocalConstraints {
		rt := componentTimes[lc.ComponentIndex]
		if rt > lc.MaxResponse {
			violated = true
			total += (rt - lc.MaxResponse) / lc.MaxResponse
		}
	}
	if !violated {
		return 0, false
	}
	return total / float64(len(c.Sys.LocalConstraints)), true
}

// globalExcess evaluates §4.3 check 8.
func (c *Checker) globalExcess(componentTimes []float64) (float64, bool, map[string]float64) {
	paths := c.allPathTimes(componentTimes)
	total := 0.0
	violated := false
	for _, gc := range c.Sys.GlobalConstraints {
		pt := paths[gc.PathName]
		if pt > gc.MaxResponse {
			violated = true
			total += (pt - gc.MaxResponse) / gc.MaxResponse
		}
	}
	if !violated {
		return 0, false, paths
	}
	return total / float64(len(c.Sys.GlobalConstraints)), true, paths
}

func (c *Checker) allPathTimes(componentTimes []float64) map[string]float64 {
	paths := make(map[string]float64, len(c.Sys.GlobalConstraints))
	for _, gc := range c.Sys.GlobalConstraints {
		paths[gc.PathName] = c.Perf.PathResponseTime(c.Sys, componentTimes, gc.ComponentIndices)
	}
	return paths
}
