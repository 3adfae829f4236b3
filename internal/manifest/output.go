package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/space4ai/placement-optimizer/internal/perf"
	"github.com/space4ai/placement-optimizer/internal/placement"
	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// PartitionAssignment is one partition's placement detail in the output
// document (§6.3).
type PartitionAssignment struct {
	Partition      string  `json:"partition"`
	Deployment     string  `json:"deployment"`
	Layer          string  `json:"layer"`
	Resource       string  `json:"resource"`
	Cost           float64 `json:"cost"`
	Memory         float64 `json:"memory"`
	Number         int     `json:"number,omitempty"`
	IdleTimeBeforeKill float64 `json:"idle_time_before_kill,omitempty"`
	TransitionCost     float64 `json:"transition_cost,omitempty"`
	ResponseTime   float64 `json:"response_time"`
}

// ComponentAssignment is one component's placement and evaluated response
// time in the output document (§6.3).
type ComponentAssignment struct {
	Component             string                 `json:"component"`
	Partitions            []PartitionAssignment  `json:"partitions"`
	ResponseTime          float64                `json:"response_time"`
	ResponseTimeThreshold float64                `json:"response_time_threshold,omitempty"`
}

// GlobalConstraintResult reports one global path's evaluated time against
// its bound (§6.3).
type GlobalConstraintResult struct {
	PathName         string  `json:"path_name"`
	PathResponseTime float64 `json:"path_response_time"`
	MaxResponseTime  float64 `json:"max_response_time"`
}

// ResourceUtilization is the per-resource detail added to the infeasible
// companion document (§6.3, §C.3).
type ResourceUtilization struct {
	Resource       string  `json:"resource"`
	Utilization    float64 `json:"utilization"`
	Memory         float64 `json:"memory"`
	MemoryCapacity float64 `json:"memory_capacity"`
}

// Solution is the full output document produced for a final placement
// (§6.3).
type Solution struct {
	Lambda            float64                  `json:"Lambda"`
	Components        []ComponentAssignment    `json:"components"`
	GlobalConstraints []GlobalConstraintResult `json:"global_constraints,omitempty"`
	TotalCost         float64                  `json:"total_cost"`
	Feasible          bool                     `json:"feasible"`
	Resources         []ResourceUtilization    `json:"Resources,omitempty"`
}

// BuildSolution walks the assignment and the already-computed feasibility
// result into the output document shape.
func BuildSolution(sys *system.System, y yhat.Assignment, fr placement.Result, totalCost float64) Solution {
	sol := Solution{
		Lambda:    sys.Lambda,
		TotalCost: totalCost,
		Feasible:  fr.Feasible,
	}

	localByComponent := make(map[int]float64, len(sys.LocalConstraints))
	for _, lc := range sys.LocalConstraints {
		localByComponent[lc.ComponentIndex] = lc.MaxResponse
	}

	for i, comp := range sys.Components {
		m := y[i]
		dep := activeDeployment(comp, m)

		var partitions []PartitionAssignment
		for _, h := range m.SortedPartitions() {
			cell, _ := m.Get(h)
			res := sys.Resource(cell.Resource)
			pa := PartitionAssignment{
				Partition:  fmt.Sprintf("partition_%d", h),
				Deployment: dep,
				Layer:      res.Layer,
				Resource:   res.Name,
				Memory:     sys.MemoryReq(i, h, cell.Resource) * float64(cell.Count),
			}
			if res.IsFaaS() {
				pa.Cost = res.CostPerTimeUnit * float64(cell.Count) * sys.DemandAt(i, h, cell.Resource) * comp.Partitions[h].PartLambda * sys.Horizon
				pa.IdleTimeBeforeKill = res.IdleTimeBeforeKill
				pa.TransitionCost = res.TransitionCost
			} else {
				pa.Cost = res.CostPerTimeUnit * float64(cell.Count) * sys.Horizon
				pa.Number = cell.Count
			}
			if len(fr.ComponentTimes) > i {
				pa.ResponseTime = fr.ComponentTimes[i]
			}
			partitions = append(partitions, pa)
		}

		ca := ComponentAssignment{Component: comp.Name, Partitions: partitions}
		if len(fr.ComponentTimes) > i {
			ca.ResponseTime = fr.ComponentTimes[i]
		}
		if bound, ok := localByComponent[i]; ok {
			ca.ResponseTimeThreshold = bound
		}
		sol.Components = append(sol.Components, ca)
	}

	for _, gc := range sys.GlobalConstraints {
		sol.GlobalConstraints = append(sol.GlobalConstraints, GlobalConstraintResult{
			PathName:         gc.PathName,
			PathResponseTime: fr.PathTimes[gc.PathName],
			MaxResponseTime:  gc.MaxResponse,
		})
	}

	return sol
}

// activeDeployment identifies which of a component's declared deployments
// matches the assigned partition set.
func activeDeployment(comp system.Component, m *yhat.ComponentMatrix) string {
	assigned := map[int]bool{}
	for h := range m.Rows {
		assigned[h] = true
	}
	for _, dep := range comp.Deployments {
		if len(dep.PartitionIndices) != len(assigned) {
			continue
		}
		match := true
		for _, h := range dep.PartitionIndices {
			if !assigned[h] {
				match = false
				break
			}
		}
		if match {
			return dep.Name
		}
	}
	return ""
}

// WriteSolution writes the solution document to dir/solution.json; when
// infeasible, it additionally writes dir/<Λ>_infeasible.json with
// per-resource utilization detail (§6.3, §C.3).
func WriteSolution(dir string, sys *system.System, y yhat.Assignment, sol Solution) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(sol, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding solution: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "solution.json"), data, 0o644); err != nil {
		return fmt.Errorf("writing solution: %w", err)
	}

	if sol.Feasible {
		return nil
	}

	infeasible := sol
	infeasible.Resources = resourceUtilizations(sys, y)
	idata, err := json.MarshalIndent(infeasible, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding infeasible companion: %w", err)
	}
	name := fmt.Sprintf("%g_infeasible.json", sys.Lambda)
	if err := os.WriteFile(filepath.Join(dir, name), idata, 0o644); err != nil {
		return fmt.Errorf("writing infeasible companion: %w", err)
	}
	return nil
}

func resourceUtilizations(sys *system.System, y yhat.Assignment) []ResourceUtilization {
	out := make([]ResourceUtilization, 0, sys.FaaSStartIndex)
	for j := 0; j < sys.FaaSStartIndex; j++ {
		res := sys.Resource(j)
		memory := 0.0
		for i, comp := range sys.Components {
			for h := range comp.Partitions {
				if cell, ok := y[i].Get(h); ok && cell.Resource == j {
					memory += float64(cell.Count) * sys.MemoryReq(i, h, j)
				}
			}
		}
		out = append(out, ResourceUtilization{
			Resource:       res.Name,
			Utilization:    perf.ComputeUtilization(j, sys, y),
			Memory:         memory,
			MemoryCapacity: res.Memory,
		})
	}
	return out
}
