// Package binarysearch implements the workload maximizer (§4.8): given a
// placement's topology, binary-search the arrival rate Λ dimension for
// the largest rate that keeps the placement feasible. The placement is
// never modified: no partition moves and no instance count changes.
package binarysearch

import (
	"github.com/space4ai/placement-optimizer/internal/logx"
	"github.com/space4ai/placement-optimizer/internal/placement"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// Result is the outcome of a workload-maximization run.
type Result struct {
	Assignment yhat.Assignment
	Lambda     float64
	Feasible   placement.Result
}

// Maximize performs the §4.8 procedure: starting from lo = currentLambda
// (the Λ the placement was produced under) and hi = upperBoundLambda,
// binary-search until the interval shrinks to epsilon, re-scaling the
// System's per-partition/per-component arrival rates at each midpoint and
// re-checking feasibility of the unchanged topology y.
//
// The System's arrival-rate scaling is destructive (ScaleLambda mutates
// sys in place), so callers driving this concurrently must each own a
// private System built from the same immutable catalog, or serialize
// calls — mirroring the rest of this module's single-writer-per-worker
// concurrency model (§5).
func Maximize(checker *placement.Checker, y yhat.Assignment, currentLambda, upperBoundLambda, epsilon float64, log *logx.Logger) Result {
	if log == nil {
		log = logx.Default("binarysearch")
	}

	lo := currentLambda
	hi := upperBoundLambda
	best := lo

	checker.Sys.ScaleLambda(lo)
	bestFeasibility := checker.Check(y)
	if !bestFeasibility.Feasible {
		log.Err("starting Λ=%f is already infeasible; returning it as-is", lo)
		return Result{Assignment: y, Lambda: lo, Feasible: bestFeasibility}
	}

	for hi-lo > epsilon {
		mid := (lo + hi) / 2
		checker.Sys.ScaleLambda(mid)
		fr := checker.Check(y)

		if fr.Feasible {
			lo = mid
			best = mid
			bestFeasibility = fr
			log.Log(logx.Debug, "Λ=%f feasible, raising lower bound", mid)
		} else {
			hi = mid
			log.Log(logx.Debug, "Λ=%f infeasible, lowering upper bound", mid)
		}
	}

	// Leave the System scaled to the returned best rate, matching the
	// "return the final feasible (Y, best)" contract.
	checker.Sys.ScaleLambda(best)
	return Result{Assignment: y, Lambda: best, Feasible: bestFeasibility}
}
