package system

// LocalConstraint bounds a single component's response time.
type LocalConstraint struct {
	ComponentIndex int     `json:"-"`
	ComponentID    string  `json:"component_id"`
	MaxResponse    float64 `json:"max_response_time"`
}

// GlobalConstraint bounds the summed response time along a declared path
// (an ordered walk of component ids through the DAG).
type GlobalConstraint struct {
	PathName        string   `json:"path_name"`
	ComponentIDs    []string `json:"components"`
	ComponentIndices []int   `json:"-"`
	MaxResponse     float64  `json:"max_response_time"`
}
