package system

// ResourceKind distinguishes the three infrastructure tiers the optimizer
// places partitions onto. Dense resource indices are ordered Edge, then VM
// (cloud), then FaaS — this ordering is load-bearing (see System.Resource).
type ResourceKind string

const (
	Edge ResourceKind = "edge"
	VM   ResourceKind = "vm"
	FaaS ResourceKind = "faas"
)

// Resource is an immutable candidate placement target.
type Resource struct {
	Index int          `json:"-"`
	Kind  ResourceKind `json:"kind"`
	Name  string       `json:"name"`
	Layer string       `json:"layer"` // computational layer id

	CostPerTimeUnit float64 `json:"cost_per_time_unit"`
	Memory          float64 `json:"memory"`

	// Edge/VM only
	MaxInstances int `json:"max_instances,omitempty"`

	// FaaS only
	IdleTimeBeforeKill float64 `json:"idle_timeout,omitempty"`
	TransitionCost     float64 `json:"transition_cost,omitempty"`
}

// IsFaaS reports whether the resource belongs to the FaaS tier.
func (r Resource) IsFaaS() bool { return r.Kind == FaaS }

// IsEdge reports whether the resource belongs to the edge tier.
func (r Resource) IsEdge() bool { return r.Kind == Edge }

// SupportsInstances reports whether this resource kind carries an
// instance count (Edge/VM do; FaaS is one logical instance per partition).
func (r Resource) SupportsInstances() bool { return r.Kind != FaaS }
