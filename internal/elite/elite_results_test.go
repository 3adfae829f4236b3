package elite

import (
	"testing"

	"github.com/space4ai/placement-optimizer/internal/placement"
)

func feasible(cost float64) Result {
	return Result{ID: "r", Feasible: true, Cost: cost}
}

func infeasible(violation float64) Result {
	return Result{ID: "r", Feasible: false, ViolationRate: violation, FailedCheck: placement.Memory}
}

func TestLessOrdersFeasibleBeforeInfeasible(t *testing.T) {
	if !Less(feasible(100), infeasible(0.01)) {
		t.Error("a feasible result must sort before any infeasible one, regardless of cost/violation")
	}
	if Less(infeasible(0.01), feasible(100)) {
		t.Error("an infeasible result must never sort before a feasible one")
	}
}

func TestLessOrdersByCostAmongFeasible(t *testing.T) {
	if !Less(feasible(1), feasible(2)) {
		t.Error("cheaper feasible result should sort first")
	}
	if Less(feasible(2), feasible(1)) {
		t.Error("more expensive feasible result should not sort first")
	}
}

func TestLessOrdersByViolationRateAmongInfeasible(t *testing.T) {
	if !Less(infeasible(0.1), infeasible(0.5)) {
		t.Error("lower violation rate should sort first among infeasible results")
	}
}

func TestEliteResultsInsertOnEmptySet(t *testing.T) {
	e := New(3)
	if e.Insert(feasible(10)) != true {
		t.Fatal("inserting into an empty set must succeed")
	}
	if e.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", e.Len())
	}
}

func TestEliteResultsKeepsKBest(t *testing.T) {
	e := New(2)
	e.Insert(feasible(5))
	e.Insert(feasible(3))
	e.Insert(feasible(8)) // worse than both kept; must be dropped

	if e.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", e.Len())
	}
	best, ok := e.Best()
	if !ok || best.Cost != 3 {
		t.Errorf("Best() = %+v, want cost 3", best)
	}
	results := e.Results()
	if results[1].Cost != 5 {
		t.Errorf("second-best cost = %f, want 5", results[1].Cost)
	}
}

func TestEliteResultsDisplacesWorstWhenFull(t *testing.T) {
	e := New(2)
	e.Insert(feasible(5))
	e.Insert(feasible(8))

	if !e.Insert(feasible(1)) {
		t.Fatal("a strictly better result must displace the current worst")
	}
	results := e.Results()
	if results[0].Cost != 1 || results[1].Cost != 5 {
		t.Errorf("Results() = %+v, want costs [1 5]", results)
	}
}

func TestEliteResultsBestOnEmptySetDoesNotPanic(t *testing.T) {
	e := New(3)
	if _, ok := e.Best(); ok {
		t.Error("Best() on an empty set must report ok=false")
	}
	if _, ok := e.BestInfeasible(); ok {
		t.Error("BestInfeasible() with nothing recorded must report ok=false")
	}
}

func TestEliteResultsTracksBestInfeasibleIndependently(t *testing.T) {
	e := New(1)
	e.Insert(infeasible(0.5))
	e.Insert(infeasible(0.1))
	e.Insert(infeasible(0.9))

	bi, ok := e.BestInfeasible()
	if !ok || bi.ViolationRate != 0.1 {
		t.Errorf("BestInfeasible() = %+v, want violation rate 0.1", bi)
	}
	if e.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (no feasible result was ever inserted)", e.Len())
	}
}

func TestMergeIsCommutativeAndCapped(t *testing.T) {
	a := New(5)
	a.Insert(feasible(1))
	a.Insert(feasible(4))

	b := New(5)
	b.Insert(feasible(2))
	b.Insert(feasible(3))

	capped := 2
	m1 := Merge(capped, a, b)
	m2 := Merge(capped, b, a)

	if m1.Len() != capped || m2.Len() != capped {
		t.Fatalf("Merge() lengths = %d, %d, want %d", m1.Len(), m2.Len(), capped)
	}
	r1, r2 := m1.Results(), m2.Results()
	for i := range r1 {
		if r1[i].Cost != r2[i].Cost {
			t.Errorf("Merge() not commutative at index %d: %v vs %v", i, r1, r2)
		}
	}
	if r1[0].Cost != 1 || r1[1].Cost != 2 {
		t.Errorf("Merge() results = %v, want costs [1 2]", r1)
	}
}

func TestMergeHandlesNilSets(t *testing.T) {
	a := New(2)
	a.Insert(feasible(1))

	merged := Merge(2, a, nil)
	if merged.Len() != 1 {
		t.Fatalf("Merge() with a nil set = %d results, want 1", merged.Len())
	}
}
