package perf

import (
	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// EdgeQueue evaluates a partition executed on a Resources.EdgeNode via an
// M/G/1 queue.
type EdgeQueue struct{}

func (EdgeQueue) AllowsColocation() bool { return true }

func (EdgeQueue) Predict(i, h, j int, sys *system.System, y yhat.Assignment) float64 {
	return queuePredict(i, h, j, sys, y)
}

// CloudServerFarm evaluates a partition executed on a group of VMs (a
// server farm) via the same M/G/1 queue formula as EdgeQueue — kept as a
// distinct type because the spec models edge and cloud as separate
// evaluator variants, even though the response-time formula coincides.
type CloudServerFarm struct{}

func (CloudServerFarm) AllowsColocation() bool { return true }

func (CloudServerFarm) Predict(i, h, j int, sys *system.System, y yhat.Assignment) float64 {
	return queuePredict(i, h, j, sys, y)
}

// queuePredict implements r = demand / (1 - U) when the cell carries any
// instances, else 0; utilization >= 1 is numeric degeneracy and is the
// caller's (feasibility's) responsibility to reject, not this function's
// (§7: "Numeric degeneracy ... treated as infeasibility").
func queuePredict(i, h, j int, sys *system.System, y yhat.Assignment) float64 {
	cell, ok := y[i].Get(h)
	if !ok || cell.Resource != j || cell.Count <= 0 {
		return 0
	}
	utilization := ComputeUtilization(j, sys, y)
	if utilization >= 1 {
		return posInf
	}
	return sys.DemandAt(i, h, j) / (1 - utilization)
}
