package perf

import (
	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

// RegressorFunc is the opaque predictor contract: a pure function of a
// feature map to a predicted time, exactly the contract the spec demands
// of a regressor-file performance model (§4.2).
type RegressorFunc func(features map[string]float64) float64

// RegressorTable resolves a regressor file path to its predictor
// function. The core never inspects what is behind the function — only
// that it satisfies predict(features) -> time.
type RegressorTable struct {
	byPath map[string]RegressorFunc
}

// NewRegressorTable builds an empty table; callers register predictors
// for each path named by the loaded system description.
func NewRegressorTable() *RegressorTable {
	return &RegressorTable{byPath: make(map[string]RegressorFunc)}
}

// Register associates a regressor file path with its predictor function.
func (t *RegressorTable) Register(path string, fn RegressorFunc) {
	t.byPath[path] = fn
}

// Regressor evaluates a partition via an externally supplied predictor
// function, identified by file path.
type Regressor struct {
	Path       string
	Table      *RegressorTable
	AllowsColo bool
}

func (r Regressor) AllowsColocation() bool { return r.AllowsColo }

func (r Regressor) Predict(i, h, j int, sys *system.System, _ yhat.Assignment) float64 {
	features := Features(i, h, j, sys)
	if r.Table != nil {
		if fn, ok := r.Table.byPath[r.Path]; ok {
			return fn(features)
		}
	}
	// No predictor registered for this path: fall back to the nominal
	// demand, the same degeneracy-free default the table lookup uses.
	return sys.DemandAt(i, h, j)
}
