package system

// Partition is an independently placeable sub-stage of a Component.
type Partition struct {
	Index int `json:"-"` // index within the component (dense, DAG order)

	DataSizeOut float64            `json:"data_size"`       // MB transferred out
	MemoryReq   map[int]float64    `json:"-"`                // per-resource override, keyed by resource index
	PartLambda  float64            `json:"-"`                // part-level arrival rate, derived from Lambda
	EarlyExit   float64            `json:"early_exit_probability"` // P(downstream partitions are skipped)
}

// IsBase reports whether this is the first ("base") partition of its
// component. Its early-exit probability is taken from the input as given;
// nothing forces or checks it to be zero.
func (p Partition) IsBase() bool { return p.Index == 0 }

// Deployment is one way of splitting a Component into an ordered,
// contiguous run of partition indices.
type Deployment struct {
	Name            string `json:"name"`
	PartitionIndices []int `json:"partition_indices"`
}

// Component is an immutable pipeline stage of the application DAG.
type Component struct {
	Index int    `json:"-"`
	ID    string `json:"-"`
	Name  string `json:"name"`

	Deployments []Deployment `json:"deployments"`
	Partitions  []Partition  `json:"partitions"` // union of partitions across all deployments, dense-indexed

	CompLambda float64 `json:"-"` // component-level arrival rate
}

// Deployment looks a named deployment up by name.
func (c Component) Deployment(name string) (Deployment, bool) {
	for _, d := range c.Deployments {
		if d.Name == name {
			return d, true
		}
	}
	return Deployment{}, false
}

// BaseDeployment returns the component's first declared deployment; it may
// hold any number of partitions.
func (c Component) BaseDeployment() Deployment {
	return c.Deployments[0]
}
