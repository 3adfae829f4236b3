// Package heuristic implements the four local-neighborhood search engines
// of §4.6 — Local Search, Tabu Search, Simulated Annealing and a Genetic
// Algorithm — sharing a common starting-state/iterate/best-result shape so
// the parallel driver (§4.7) can dispatch to any of them uniformly.
package heuristic

import (
	"math"
	"math/rand"
	"time"

	"github.com/space4ai/placement-optimizer/internal/cost"
	"github.com/space4ai/placement-optimizer/internal/elite"
	"github.com/space4ai/placement-optimizer/internal/logx"
	"github.com/space4ai/placement-optimizer/internal/placement"
	"github.com/space4ai/placement-optimizer/internal/search/moves"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// Options configures any of the four engines; fields not used by a given
// engine are ignored (§4.6, §6.2).
type Options struct {
	K          int
	MaxSteps   int
	MaxTime    time.Duration
	Seed       int64

	// Local search: early-stop once a feasible cost at or below MinScore is
	// reached (0 disables the threshold).
	MinScore float64

	// Tabu search
	TabuTenure int

	// Simulated annealing
	InitialTemperature float64
	CoolingRate        float64 // multiplicative cooling: T *= CoolingRate each step
	// MinEnergy early-stops once a feasible energy (cost) at or below this
	// value is reached (0 disables the threshold).
	MinEnergy float64

	// Genetic algorithm
	PopulationSize int
	TournamentSize int
	CrossoverRate  float64
	MutationRate   float64
	Elitism        int
	// MinFitness early-stops once the population's best feasible individual
	// has a cost at or below this value (0 disables the threshold).
	MinFitness float64
}

// scoreSatisfied reports whether r meets an early-stop threshold: r must be
// feasible and its cost at or below threshold. A non-positive threshold
// means the early-stop condition is disabled (§4.6).
func scoreSatisfied(r elite.Result, threshold float64) bool {
	return threshold > 0 && r.Feasible && r.Cost <= threshold
}

// evaluate scores a candidate, cluster-reducing it first, and returns the
// feasibility result plus its monetary cost (0 when infeasible).
func evaluate(checker *placement.Checker, y yhat.Assignment) (yhat.Assignment, placement.Result, float64) {
	reduced := checker.ReduceClusterSize(y)
	fr := checker.Check(reduced)
	c := 0.0
	if fr.Feasible {
		c = cost.Compute(checker.Sys, reduced)
	}
	return reduced, fr, c
}

func budgetExceeded(start time.Time, maxTime time.Duration, steps, maxSteps int) bool {
	if steps >= maxSteps {
		return true
	}
	return maxTime > 0 && time.Since(start) >= maxTime
}

// LocalSearch repeatedly applies a random move, accepting it only if it is
// not worse than the current state (greedy descent, §4.6).
func LocalSearch(checker *placement.Checker, start yhat.Assignment, opts Options, log *logx.Logger) *elite.EliteResults {
	if log == nil {
		log = logx.Default("local-search")
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	elites := elite.New(opts.K)

	cur, fr, c := evaluate(checker, start)
	curResult := elite.NewResult(cur, checker.Sys.Lambda, c, fr, time.Now())
	elites.Insert(curResult)

	t0 := time.Now()
	steps := 0
	for !budgetExceeded(t0, opts.MaxTime, steps, opts.MaxSteps) && !scoreSatisfied(curResult, opts.MinScore) {
		steps++
		out := moves.Random(rng, checker.Sys, cur)
		if !out.Applied {
			continue
		}
		next, nfr, nc := evaluate(checker, out.Assignment)
		nextResult := elite.NewResult(next, checker.Sys.Lambda, nc, nfr, time.Now())
		elites.Insert(nextResult)

		if !elite.Less(curResult, nextResult) {
			cur, curResult = next, nextResult
		}
	}

	log.Log(logx.Debug, "local search: %d steps, best cost=%f feasible=%v", steps, curResult.Cost, curResult.Feasible)
	return elites
}

// tabuEntry is a forbidden move signature with its expiry step.
type tabuEntry struct {
	sig    moves.Signature
	expiry int
}

// TabuSearch explores even worsening moves but forbids immediately
// reversing a recent move (the "tabu" list), with an aspiration criterion
// that overrides the ban when a tabu move would beat the best-known
// placement outright (§4.6).
func TabuSearch(checker *placement.Checker, start yhat.Assignment, opts Options, log *logx.Logger) *elite.EliteResults {
	if log == nil {
		log = logx.Default("tabu-search")
	}
	if opts.TabuTenure < 1 {
		opts.TabuTenure = 10
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	elites := elite.New(opts.K)

	cur, fr, c := evaluate(checker, start)
	curResult := elite.NewResult(cur, checker.Sys.Lambda, c, fr, time.Now())
	bestResult := curResult
	elites.Insert(curResult)

	var tabu []tabuEntry
	isTabu := func(sig moves.Signature, step int) bool {
		for _, e := range tabu {
			if e.sig == sig && e.expiry > step {
				return true
			}
		}
		return false
	}

	t0 := time.Now()
	steps := 0
	for !budgetExceeded(t0, opts.MaxTime, steps, opts.MaxSteps) {
		const candidatesPerStep = 5
		var bestCandidate *yhat.Assignment
		var bestCandidateResult elite.Result
		var bestSig moves.Signature
		haveCandidate := false

		for attempt := 0; attempt < candidatesPerStep; attempt++ {
			out := moves.Random(rng, checker.Sys, cur)
			if !out.Applied {
				continue
			}
			next, nfr, nc := evaluate(checker, out.Assignment)
			nextResult := elite.NewResult(next, checker.Sys.Lambda, nc, nfr, time.Now())

			tabooed := isTabu(out.Signature, steps)
			aspires := elite.Less(nextResult, bestResult)
			if tabooed && !aspires {
				continue
			}
			if !haveCandidate || elite.Less(nextResult, bestCandidateResult) {
				assignment := next
				bestCandidate = &assignment
				bestCandidateResult = nextResult
				bestSig = out.Signature
				haveCandidate = true
			}
		}
		steps++
		if !haveCandidate {
			continue
		}

		cur, curResult = *bestCandidate, bestCandidateResult
		elites.Insert(curResult)
		if elite.Less(curResult, bestResult) {
			bestResult = curResult
		}
		tabu = append(tabu, tabuEntry{sig: bestSig, expiry: steps + opts.TabuTenure})
	}

	log.Log(logx.Debug, "tabu search: %d steps, best cost=%f feasible=%v", steps, bestResult.Cost, bestResult.Feasible)
	return elites
}

// SimulatedAnnealing accepts worsening moves with probability
// exp(-delta/T), cooling T multiplicatively every step (§4.6).
func SimulatedAnnealing(checker *placement.Checker, start yhat.Assignment, opts Options, log *logx.Logger) *elite.EliteResults {
	if log == nil {
		log = logx.Default("simulated-annealing")
	}
	if opts.InitialTemperature <= 0 {
		opts.InitialTemperature = 1.0
	}
	if opts.CoolingRate <= 0 || opts.CoolingRate >= 1 {
		opts.CoolingRate = 0.995
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	elites := elite.New(opts.K)

	cur, fr, c := evaluate(checker, start)
	curResult := elite.NewResult(cur, checker.Sys.Lambda, c, fr, time.Now())
	elites.Insert(curResult)

	temperature := opts.InitialTemperature
	t0 := time.Now()
	steps := 0
	for !budgetExceeded(t0, opts.MaxTime, steps, opts.MaxSteps) && !scoreSatisfied(curResult, opts.MinEnergy) {
		steps++
		out := moves.Random(rng, checker.Sys, cur)
		if !out.Applied {
			continue
		}
		next, nfr, nc := evaluate(checker, out.Assignment)
		nextResult := elite.NewResult(next, checker.Sys.Lambda, nc, nfr, time.Now())
		elites.Insert(nextResult)

		delta := energyDelta(curResult, nextResult)
		accept := delta <= 0
		if !accept && temperature > 0 {
			accept = rng.Float64() < math.Exp(-delta/temperature)
		}
		if accept {
			cur, curResult = next, nextResult
		}
		temperature *= opts.CoolingRate
	}

	log.Log(logx.Debug, "simulated annealing: %d steps, final T=%f, best feasible=%v", steps, temperature, curResult.Feasible)
	return elites
}

// energyDelta gives worsening moves a positive energy: an infeasible state
// is always "worse" than a feasible one regardless of raw cost, so the
// violation rate (scaled to stay comparable with monetary costs) stands in
// for cost whenever either side is infeasible.
func energyDelta(cur, next elite.Result) float64 {
	energy := func(r elite.Result) float64 {
		if r.Feasible {
			return r.Cost
		}
		return r.ViolationRate*1e6 + cur.Cost
	}
	return energy(next) - energy(cur)
}

// individual is one member of the GA population (§4.6).
type individual struct {
	assignment yhat.Assignment
	result     elite.Result
}

// GeneticAlgorithm evolves a population of placements via tournament
// selection, single-point crossover along the component axis, and
// per-component mutation, carrying the top Elitism individuals unchanged
// into each new generation (§4.6).
func GeneticAlgorithm(checker *placement.Checker, start yhat.Assignment, opts Options, log *logx.Logger) *elite.EliteResults {
	if log == nil {
		log = logx.Default("genetic-algorithm")
	}
	if opts.PopulationSize < 2 {
		opts.PopulationSize = 20
	}
	if opts.TournamentSize < 2 {
		opts.TournamentSize = 3
	}
	if opts.CrossoverRate <= 0 {
		opts.CrossoverRate = 0.9
	}
	if opts.MutationRate <= 0 {
		opts.MutationRate = 0.1
	}
	if opts.Elitism < 1 {
		opts.Elitism = 1
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	elites := elite.New(opts.K)
	sys := checker.Sys

	makeIndividual := func(y yhat.Assignment) individual {
		reduced, fr, c := evaluate(checker, y)
		return individual{assignment: reduced, result: elite.NewResult(reduced, sys.Lambda, c, fr, time.Now())}
	}

	pop := make([]individual, opts.PopulationSize)
	pop[0] = makeIndividual(start)
	elites.Insert(pop[0].result)
	for idx := 1; idx < opts.PopulationSize; idx++ {
		mutated := start.Clone()
		for mutations := 0; mutations < 3; mutations++ {
			out := moves.Random(rng, sys, mutated)
			if out.Applied {
				mutated = out.Assignment
			}
		}
		pop[idx] = makeIndividual(mutated)
		elites.Insert(pop[idx].result)
	}

	tournament := func() individual {
		best := pop[rng.Intn(len(pop))]
		for k := 1; k < opts.TournamentSize; k++ {
			cand := pop[rng.Intn(len(pop))]
			if elite.Less(cand.result, best.result) {
				best = cand
			}
		}
		return best
	}

	crossover := func(a, b individual) yhat.Assignment {
		child := a.assignment.Clone()
		cut := rng.Intn(sys.I())
		for i := cut; i < sys.I(); i++ {
			child[i] = b.assignment[i].Clone()
		}
		return child
	}

	mutate := func(y yhat.Assignment) yhat.Assignment {
		if rng.Float64() >= opts.MutationRate {
			return y
		}
		out := moves.Random(rng, sys, y)
		if out.Applied {
			return out.Assignment
		}
		return y
	}

	sortPop := func() {
		for i := 1; i < len(pop); i++ {
			for j := i; j > 0 && elite.Less(pop[j].result, pop[j-1].result); j-- {
				pop[j], pop[j-1] = pop[j-1], pop[j]
			}
		}
	}

	t0 := time.Now()
	steps := 0
	for !budgetExceeded(t0, opts.MaxTime, steps, opts.MaxSteps) {
		steps++
		sortPop()
		if scoreSatisfied(pop[0].result, opts.MinFitness) {
			break
		}

		next := make([]individual, 0, opts.PopulationSize)
		for e := 0; e < opts.Elitism && e < len(pop); e++ {
			next = append(next, pop[e])
		}
		for len(next) < opts.PopulationSize {
			parentA := tournament()
			parentB := tournament()
			childY := parentA.assignment
			if rng.Float64() < opts.CrossoverRate {
				childY = crossover(parentA, parentB)
			}
			childY = mutate(childY)
			child := makeIndividual(childY)
			elites.Insert(child.result)
			next = append(next, child)
		}
		pop = next
	}
	sortPop()

	log.Log(logx.Debug, "genetic algorithm: %d generations, population=%d, best feasible=%v",
		steps, opts.PopulationSize, pop[0].result.Feasible)
	return elites
}
