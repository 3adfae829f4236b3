// Package cost implements the placement monetary cost function (§4.1):
// edge/VM resources are priced by time (cost × the maximum instance count
// ever reached × the horizon), FaaS resources are priced per invocation
// (cost × instances × per-invocation service time × arrival rate × the
// horizon).
package cost

import (
	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// Compute returns the total monetary cost of assignment y under sys.
func Compute(sys *system.System, y yhat.Assignment) float64 {
	total := 0.0

	maxInstances := y.MaxInstances(sys.J())
	for j := 0; j < sys.FaaSStartIndex; j++ {
		if maxInstances[j] <= 0 {
			continue
		}
		total += sys.Resource(j).CostPerTimeUnit * float64(maxInstances[j]) * sys.Horizon
	}

	for i, c := range sys.Components {
		m := y[i]
		for h := range c.Partitions {
			cell, ok := m.Get(h)
			if !ok || cell.Resource < sys.FaaSStartIndex {
				continue
			}
			j := cell.Resource
			serviceTime := sys.DemandAt(i, h, j)
			total += sys.Resource(j).CostPerTimeUnit * float64(cell.Count) *
				serviceTime * c.Partitions[h].PartLambda * sys.Horizon
		}
	}

	return total
}
