package perf

import (
	"math"

	"github.com/space4ai/placement-optimizer/internal/system"
	"github.com/space4ai/placement-optimizer/internal/yhat"
)

var posInf = math.Inf(1)

// FaaSTable evaluates a partition executed on a FaaS resource: the
// response time is the table-looked-up demand with no queueing model, and
// co-location is always allowed (one logical instance per partition,
// §3/§4.2).
type FaaSTable struct{}

func (FaaSTable) AllowsColocation() bool { return true }

func (FaaSTable) Predict(i, h, j int, sys *system.System, _ yhat.Assignment) float64 {
	return sys.DemandAt(i, h, j)
}
