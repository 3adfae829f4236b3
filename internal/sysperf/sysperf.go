// Package sysperf implements the SystemPerformanceEvaluator (§4.4): it
// walks a placed component's partitions in DAG order, composing per-cell
// service times and inter-resource network delays weighted by early-exit
// probabilities, to yield one response time per component.
package sysperf

import (
	"math"

	"github.com/space4ai/placement-optimizer/internal/logx"
	"github.com/space4ai/placement-optimizer/internal/perf"
	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// Evaluator computes component and path response times for a placement.
type Evaluator struct {
	Regressors *perf.RegressorTable
	logger     *logx.Logger
}

// New builds an Evaluator; reg may be nil if no regressor-file models are
// used by the loaded System.
func New(reg *perf.RegressorTable, log *logx.Logger) *Evaluator {
	if log == nil {
		log = logx.Default("sysperf")
	}
	return &Evaluator{Regressors: reg, logger: log}
}

// ComponentResponseTime evaluates the response time of component i under
// assignment y (§4.4). Returns +Inf if a required network domain is
// missing (numeric degeneracy, §7).
func (e *Evaluator) ComponentResponseTime(sys *system.System, y yhat.Assignment, i int) float64 {
	e.logger.Log(logx.Trace, "evaluating component %d", i)

	m := y[i]
	parts := m.SortedPartitions()
	if len(parts) == 0 {
		return 0
	}

	total := 0.0
	var prevParts []int
	var prevResource int

	for idx, h := range parts {
		cell, _ := m.Get(h)
		j := cell.Resource

		var p float64
		if j < sys.FaaSStartIndex {
			pm := sys.PerformanceModel(i, h, j)
			ev := perf.ForModel(pm, e.Regressors)
			p = ev.Predict(i, h, j, sys, y)
		} else {
			p = sys.DemandAt(i, h, j)
		}

		if idx == 0 {
			total += p
			prevParts = append(prevParts, h)
			prevResource = j
			continue
		}

		earlyExit := 1.0
		for _, ph := range prevParts {
			earlyExit *= 1 - sys.Components[i].Partitions[ph].EarlyExit
		}
		prevParts = append(prevParts, h)

		networkDelay := 0.0
		if prevResource != j {
			dataSize := sys.Components[i].Partitions[parts[idx-1]].DataSizeOut
			nd, err := sys.NetworkDelay(prevResource, j, dataSize)
			if err != nil {
				e.logger.Err("%v", err)
				return math.Inf(1)
			}
			networkDelay = nd
		}
		prevResource = j

		total += earlyExit * (p + networkDelay)
	}

	e.logger.Log(logx.Debug, "component %d response time = %f", i, total)
	return total
}

// AllComponentResponseTimes evaluates every component's response time
// under y, returning a dense vector indexed by component.
func (e *Evaluator) AllComponentResponseTimes(sys *system.System, y yhat.Assignment) []float64 {
	out := make([]float64, sys.I())
	for i := range out {
		out[i] = e.ComponentResponseTime(sys, y, i)
	}
	return out
}

// PathResponseTime sums the response times of a global constraint's
// declared component path.
func (e *Evaluator) PathResponseTime(sys *system.System, componentTimes []float64, path []int) float64 {
	total := 0.0
	for _, ci := range path {
		total += componentTimes[ci]
	}
	return total
}
