package perf

import "github.com/space4ai/placement-optimizer/internal/system"

// Network evaluates the time required to transfer data between two
// partitions executed on different resources in the same network domain
// (§4.2). It is a thin wrapper over system.System.NetworkDelay, kept as
// its own type for parity with the other tagged evaluator variants.
type Network struct {
	Sys *system.System
}

// Predict returns the transfer time for dataSizeMB megabytes between
// resources j1 and j2.
func (n Network) Predict(j1, j2 int, dataSizeMB float64) (float64, error) {
	return n.Sys.NetworkDelay(j1, j2, dataSizeMB)
}
