// Package greedy implements the Randomized Greedy (RG) seed generator
// (§4.5): build a complete placement by visiting every component in random
// order, picking a random deployment and a random compatible resource and
// instance count for each of its partitions, then reduce the cluster size
// and retry on infeasibility up to a cap.
package greedy

import (
	"math/rand"
	"time"

	"github.com/space4ai/placement-optimizer/internal/cost"
	"github.com/space4ai/placement-optimizer/internal/elite"
	"github.com/space4ai/placement-optimizer/internal/logx"
	"github.com/space4ai/placement-optimizer/internal/placement"
	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// Options configures a single RG run (§4.5, §6.2 algorithm config).
type Options struct {
	K              int           // EliteResults capacity
	MaxSteps       int           // maximum candidates generated
	MaxTime        time.Duration // 0 disables the time budget
	MaxRetries     int           // per-candidate feasibility retries before accepting the best-effort attempt
	Seed           int64
}

// randomCompatible lists every resource compatible with cell (i, h).
func randomCompatible(sys *system.System, i, h int) []int {
	var out []int
	for j := 0; j < sys.J(); j++ {
		if sys.Compatible(i, h, j) {
			out = append(out, j)
		}
	}
	return out
}

func randomInstanceCount(rng *rand.Rand, sys *system.System, j int) int {
	res := sys.Resource(j)
	if !res.SupportsInstances() || res.MaxInstances <= 1 {
		return 1
	}
	return 1 + rng.Intn(res.MaxInstances)
}

// buildOne constructs one random candidate assignment: a random component
// visit order, a random deployment per component, a random compatible
// resource and instance count per partition (§4.5 steps 1-2). Returns false
// if some cell has no compatible resource at all (a malformed manifest).
func buildOne(rng *rand.Rand, sys *system.System) (yhat.Assignment, bool) {
	y := make(yhat.Assignment, sys.I())
	order := rng.Perm(sys.I())

	for _, i := range order {
		comp := sys.Components[i]
		dep := comp.Deployments[rng.Intn(len(comp.Deployments))]
		m := yhat.NewComponentMatrix(len(comp.Partitions), sys.J())
		for _, h := range dep.PartitionIndices {
			candidates := randomCompatible(sys, i, h)
			if len(candidates) == 0 {
				return nil, false
			}
			j := candidates[rng.Intn(len(candidates))]
			m.Set(h, j, randomInstanceCount(rng, sys, j))
		}
		y[i] = m
	}
	return y, true
}

// Run performs the RG loop until MaxSteps candidates have been generated or
// MaxTime has elapsed, inserting every cluster-reduced candidate into a
// fresh K-best EliteResults set (§4.5 step 5, §8).
func Run(checker *placement.Checker, opts Options, log *logx.Logger) *elite.EliteResults {
	if log == nil {
		log = logx.Default("greedy")
	}
	if opts.K < 1 {
		opts.K = 1
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	elites := elite.New(opts.K)
	sys := checker.Sys

	start := time.Now()
	steps := 0
	for steps < opts.MaxSteps {
		if opts.MaxTime > 0 && time.Since(start) >= opts.MaxTime {
			log.Log(logx.Debug, "time budget exhausted after %d candidates", steps)
			break
		}

		var accepted yhat.Assignment
		var fr placement.Result
		for attempt := 0; attempt < opts.MaxRetries; attempt++ {
			y, ok := buildOne(rng, sys)
			if !ok {
				continue
			}
			reduced := checker.ReduceClusterSize(y)
			fr = checker.Check(reduced)
			accepted = reduced
			if fr.Feasible {
				break
			}
		}
		steps++
		if accepted == nil {
			continue
		}

		c := 0.0
		if fr.Feasible {
			c = cost.Compute(sys, accepted)
		}
		elites.Insert(elite.NewResult(accepted, sys.Lambda, c, fr, time.Now()))
	}

	log.Log(logx.Info, "randomized greedy: %d candidates, %d kept, best feasible=%v",
		steps, elites.Len(), func() bool { b, ok := elites.Best(); return ok && b.Feasible }())
	return elites
}
