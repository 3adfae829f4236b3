package elite

import "sort"

// EliteResults is a bounded sorted set of at most K Results, ordered by
// Less (cost ascending among feasible results, violation rate ascending
// among infeasible ones, feasible always ahead of infeasible) — §3, §8.
//
// Per §9 design note (a), the empty/partial-capacity cases are handled
// explicitly: a naive comparator that peeks at the current worst element
// ([-1]) breaks on an empty set. Insert below never dereferences the
// slice before checking its length.
type EliteResults struct {
	capacity int
	results  []Result

	// bestInfeasible is the supplemented best-infeasible pool (§C.1):
	// the single infeasible Result with the lowest violation rate seen so
	// far, tracked independently of the K-best feasible set so RG can
	// report "closest to feasible" even when no feasible seed exists yet.
	bestInfeasible *Result
}

// New creates an EliteResults of the given capacity (K).
func New(capacity int) *EliteResults {
	if capacity < 1 {
		capacity = 1
	}
	return &EliteResults{capacity: capacity}
}

// Capacity returns K.
func (e *EliteResults) Capacity() int { return e.capacity }

// Len returns the number of Results currently held.
func (e *EliteResults) Len() int { return len(e.results) }

// Results returns the held Results in ascending (best-first) order. The
// returned slice must not be mutated by the caller.
func (e *EliteResults) Results() []Result { return e.results }

// Best returns the single best Result, or false if the set is empty.
func (e *EliteResults) Best() (Result, bool) {
	if len(e.results) == 0 {
		return Result{}, false
	}
	return e.results[0], true
}

// BestInfeasible returns the lowest-violation-rate infeasible Result ever
// observed through Insert, or false if none has been recorded (§C.1,
// §4.5 step 3, §7 "Search-space exhaustion").
func (e *EliteResults) BestInfeasible() (Result, bool) {
	if e.bestInfeasible == nil {
		return Result{}, false
	}
	return *e.bestInfeasible, true
}

// Insert attempts to add r to the set, returning true if it was kept
// (either because the set had spare capacity or because r displaced the
// current worst member). Infeasible results always update the
// best-infeasible pool in addition to the ordinary Insert semantics.
func (e *EliteResults) Insert(r Result) bool {
	if !r.Feasible {
		e.recordBestInfeasible(r)
	}

	pos := sort.Search(len(e.results), func(i int) bool {
		return Less(r, e.results[i])
	})

	if len(e.results) < e.capacity {
		e.results = append(e.results, Result{})
		copy(e.results[pos+1:], e.results[pos:])
		e.results[pos] = r
		return true
	}

	// Set is full: only insert if strictly better than the current worst.
	if len(e.results) == 0 {
		return false
	}
	worst := e.results[len(e.results)-1]
	if !Less(r, worst) {
		return false
	}
	e.results = append(e.results, Result{})
	copy(e.results[pos+1:], e.results[pos:])
	e.results[pos] = r
	e.results = e.results[:e.capacity]
	return true
}

func (e *EliteResults) recordBestInfeasible(r Result) {
	if e.bestInfeasible == nil || r.ViolationRate < e.bestInfeasible.ViolationRate {
		cp := r
		e.bestInfeasible = &cp
	}
}

// Merge combines two EliteResults of (possibly different) capacities into
// a new set capped at capacity, preserving K-best order and preferring
// feasible over infeasible (§4.7, §8: "after merging two EliteResults of
// capacity K, the result contains exactly the K-smallest across both").
// The merge is commutative and associative, matching the driver's
// no-ordering-guarantee contract (§5).
func Merge(capacity int, sets ...*EliteResults) *EliteResults {
	merged := New(capacity)
	for _, s := range sets {
		if s == nil {
			continue
		}
		for _, r := range s.results {
			merged.Insert(r)
		}
		if bi, ok := s.BestInfeasible(); ok {
			merged.recordBestInfeasible(bi)
		}
	}
	return merged
}
