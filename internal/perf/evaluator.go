// Package perf implements the polymorphic performance evaluators keyed by
// (component, partition, resource): M/G/1 edge, M/G/1 cloud server-farm,
// FaaS table lookup, and opaque regressor predictors (§4.2). Evaluators
// are a tagged variant (system.ModelKind) with a shared capability set —
// no runtime class lookup (§9 design note).
package perf

import (
	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// Evaluator predicts the response time of a single placement cell.
type Evaluator interface {
	// AllowsColocation reports whether partitions relying on this
	// evaluator may share a resource with other partitions.
	AllowsColocation() bool
	// Predict returns the response time of cell (i, h, j) given the
	// current assignment.
	Predict(i, h, j int, sys *system.System, y yhat.Assignment) float64
}

// Features returns the feature map an evaluator's Predict would consume,
// mirroring the original's get_features contract — used for logging and
// for the regressor's opaque predict(features) interface.
func Features(i, h, j int, sys *system.System) map[string]float64 {
	return map[string]float64{
		"component": float64(i),
		"partition": float64(h),
		"resource":  float64(j),
		"demand":    sys.DemandAt(i, h, j),
	}
}

// ComputeUtilization returns the M/G/1 utilization of resource j under the
// given assignment: U(j) = Σ demand(i,h,j) * part_Λ(i,h) / Y_hat[i][h,j]
// over every placed cell on j (§4.2). The formula is identical for edge
// and VM resources in the original implementation; it is resource-level,
// not evaluator-specific, so it lives here rather than duplicated per
// evaluator type.
func ComputeUtilization(j int, sys *system.System, y yhat.Assignment) float64 {
	utilization := 0.0
	for i, c := range sys.Components {
		m := y[i]
		for h := range c.Partitions {
			cell, ok := m.Get(h)
			if !ok || cell.Resource != j || cell.Count <= 0 {
				continue
			}
			utilization += sys.DemandAt(i, h, j) * c.Partitions[h].PartLambda / float64(cell.Count)
		}
	}
	return utilization
}

// ForModel resolves the evaluator implementing a given performance model
// handle.
func ForModel(pm system.PerformanceModel, reg *RegressorTable) Evaluator {
	switch pm.Kind {
	case system.ModelEdgeQueue:
		return EdgeQueue{}
	case system.ModelCloudQueue:
		return CloudServerFarm{}
	case system.ModelFaaS:
		return FaaSTable{}
	case system.ModelRegressor:
		return Regressor{Path: pm.RegressorPath, Table: reg, AllowsColo: pm.AllowsColocation}
	default:
		return CloudServerFarm{}
	}
}
