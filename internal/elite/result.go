// Package elite implements the Result type and the bounded, sorted
// EliteResults set of K-best placements (§3, §4.5, §8).
package elite

import (
	"time"

	"github.com/google/uuid"

	"github.com/space4ai/placement-optimizer/internal/placement"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// Result owns a placement and the outcome of evaluating it: its cost, its
// feasibility triple (ok, path performances, component performances), and
// a violation rate used to rank infeasible candidates by closeness to
// feasible (§3).
type Result struct {
	ID string `json:"id"`

	Assignment yhat.Assignment `json:"-"`
	Lambda     float64         `json:"lambda"`

	Cost          float64            `json:"cost"`
	Feasible      bool               `json:"feasible"`
	FailedCheck   placement.FailureCategory `json:"failed_check,omitempty"`
	ViolationRate float64            `json:"violation_rate"`

	ComponentTimes []float64          `json:"component_response_times,omitempty"`
	PathTimes      map[string]float64 `json:"path_response_times,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewResult stamps a fresh unique identity onto a placement evaluation.
func NewResult(y yhat.Assignment, lambda float64, cost float64, fr placement.Result, createdAt time.Time) Result {
	return Result{
		ID:             uuid.NewString(),
		Assignment:     y,
		Lambda:         lambda,
		Cost:           cost,
		Feasible:       fr.Feasible,
		FailedCheck:    fr.FailedCheck,
		ViolationRate:  fr.ViolationRate,
		ComponentTimes: fr.ComponentTimes,
		PathTimes:      fr.PathTimes,
		CreatedAt:      createdAt,
	}
}

// Less implements the global Result ordering used throughout the search:
// feasible results sort before infeasible ones; among feasible results
// the cheaper sorts first; among infeasible results the lower violation
// rate (closer to feasible) sorts first (§3, §4.7).
func Less(a, b Result) bool {
	if a.Feasible != b.Feasible {
		return a.Feasible
	}
	if a.Feasible {
		return a.Cost < b.Cost
	}
	return a.ViolationRate < b.ViolationRate
}
