// Package driver implements the parallel search driver (§4.7): fan out a
// configured number of workers, each owning a private RNG derived
// deterministically from a shared seed, let each worker generate and refine
// its own starting placements, and merge every worker's EliteResults into
// one final K-best set. Externally supplied starting placements are not
// accepted.
package driver

import (
	"sync"
	"time"

	"github.com/space4ai/placement-optimizer/internal/elite"
	"github.com/space4ai/placement-optimizer/internal/logx"
	"github.com/space4ai/placement-optimizer/internal/placement"
	"github.com/space4ai/placement-optimizer/internal/search/greedy"
	"github.com/space4ai/placement-optimizer/internal/search/heuristic"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// Engine names one of the neighborhood-search heuristics a worker may run
// after seed generation (§4.6).
type Engine string

const (
	EngineLocalSearch         Engine = "local_search"
	EngineTabuSearch          Engine = "tabu_search"
	EngineSimulatedAnnealing  Engine = "simulated_annealing"
	EngineGeneticAlgorithm    Engine = "genetic_algorithm"
)

// Options configures the parallel driver (§4.7, §6.2).
type Options struct {
	Workers int // C, the worker count
	Seed    int64

	K int // EliteResults capacity, shared by every worker and the final merge

	Greedy    greedy.Options
	Heuristic heuristic.Options
	Engine    Engine

	MaxSteps int
	MaxTime  time.Duration
}

// workerSeed derives a per-worker seed deterministically from the shared
// seed, the worker count and the worker's rank, matching §4.7's literal
// "seed · C² · r²" formula (confirmed against the original's
// r_seed = r*r*cpuCore*cpuCore*seed). Rank 0 degenerates to seed 0, exactly
// as the original's zero-indexed core loop does; that degeneracy is
// inherited intentionally rather than patched, to keep this a faithful
// translation (§4.7, §5).
func workerSeed(seed int64, workers, rank int) int64 {
	c := int64(workers)
	r := int64(rank)
	return r * r * c * c * seed
}

// Run shards MaxSteps and MaxTime evenly across Options.Workers goroutines.
// Each worker builds its own seed set via the Randomized Greedy generator,
// refines every one of those seeds with the configured heuristic engine,
// and returns its own EliteResults; results merge under a
// single final EliteResults of capacity K. Workers share the System and
// Checker by read-only reference (no writer contention, §5); Checker.Sys's
// Lambda must not be mutated concurrently with a Run (the binary-search
// maximizer owns that mutation separately, see internal/binarysearch).
func Run(checker *placement.Checker, opts Options, log *logx.Logger) *elite.EliteResults {
	if log == nil {
		log = logx.Default("driver")
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.K < 1 {
		opts.K = 1
	}

	perWorkerSteps := opts.MaxSteps / opts.Workers
	if perWorkerSteps < 1 {
		perWorkerSteps = 1
	}
	perWorkerTime := time.Duration(0)
	if opts.MaxTime > 0 {
		perWorkerTime = opts.MaxTime / time.Duration(opts.Workers)
	}

	results := make([]*elite.EliteResults, opts.Workers)
	var wg sync.WaitGroup
	for rank := 0; rank < opts.Workers; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			wlog := log.Named("worker")
			seed := workerSeed(opts.Seed, opts.Workers, rank)
			results[rank] = runWorker(checker, opts, seed, perWorkerSteps, perWorkerTime, wlog)
		}(rank)
	}
	wg.Wait()

	final := elite.Merge(opts.K, results...)
	best, ok := final.Best()
	log.Log(logx.Info, "driver: %d workers merged, best feasible=%v cost=%f",
		opts.Workers, ok && best.Feasible, best.Cost)
	return final
}

// runWorker generates seed placements via Randomized Greedy, refines each
// of them in turn with the configured heuristic, and returns its local
// K-best set.
func runWorker(checker *placement.Checker, opts Options, seed int64, maxSteps int, maxTime time.Duration, log *logx.Logger) *elite.EliteResults {
	genOpts := opts.Greedy
	genOpts.Seed = seed
	genOpts.K = opts.K
	if genOpts.MaxSteps <= 0 {
		genOpts.MaxSteps = maxSteps
	}
	if genOpts.MaxTime <= 0 {
		genOpts.MaxTime = maxTime / 2
	}
	if genOpts.MaxRetries < 1 {
		genOpts.MaxRetries = 5
	}

	seeds := greedy.Run(checker, genOpts, log)
	if seeds.Len() == 0 {
		return seeds
	}

	refined := elite.New(opts.K)
	startPoints := seeds.Results()
	remainingTime := maxTime - genOpts.MaxTime
	if remainingTime < 0 {
		remainingTime = 0
	}
	perSeedSteps := maxSteps / len(startPoints)
	if perSeedSteps < 1 {
		perSeedSteps = 1
	}
	var perSeedTime time.Duration
	if remainingTime > 0 {
		perSeedTime = remainingTime / time.Duration(len(startPoints))
	}

	hopts := opts.Heuristic
	hopts.K = opts.K
	hopts.MaxSteps = perSeedSteps
	hopts.MaxTime = perSeedTime

	for idx, start := range startPoints {
		hopts.Seed = seed + int64(idx)*31
		var out *elite.EliteResults
		switch opts.Engine {
		case EngineTabuSearch:
			out = heuristic.TabuSearch(checker, assignmentOf(start), hopts, log)
		case EngineSimulatedAnnealing:
			out = heuristic.SimulatedAnnealing(checker, assignmentOf(start), hopts, log)
		case EngineGeneticAlgorithm:
			out = heuristic.GeneticAlgorithm(checker, assignmentOf(start), hopts, log)
		default:
			out = heuristic.LocalSearch(checker, assignmentOf(start), hopts, log)
		}
		refined = elite.Merge(opts.K, refined, out)
	}

	return refined
}

func assignmentOf(r elite.Result) yhat.Assignment {
	return r.Assignment
}
