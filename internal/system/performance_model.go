package system

// ModelKind is the tagged variant selecting which performance evaluator
// predicts a (component, partition, resource) cell's service time (§4.2,
// §9 design note: "no runtime class lookup").
type ModelKind string

const (
	ModelEdgeQueue  ModelKind = "edge_queue"
	ModelCloudQueue ModelKind = "cloud_queue"
	ModelFaaS       ModelKind = "faas_table"
	ModelRegressor  ModelKind = "regressor"
)

// PerformanceModel is the handle stored per (component, partition,
// resource) cell: which evaluator kind applies, whether partitions on the
// same resource may co-locate, and (for ModelRegressor) the path to the
// opaque predictor file.
type PerformanceModel struct {
	Kind             ModelKind `json:"kind"`
	AllowsColocation bool      `json:"allows_colocation"`
	RegressorPath    string    `json:"regressor_path,omitempty"`
}

// NewPerformanceModel builds the handle for a resource kind, applying the
// semantics of §3: FaaS always allows_colocation=false by construction
// (one partition per logical instance); edge/VM cells get a queue model, or
// a regressor model when regressorPath is non-empty, and both allow
// colocation.
func NewPerformanceModel(resourceKind ResourceKind, regressorPath string) PerformanceModel {
	switch resourceKind {
	case FaaS:
		return PerformanceModel{Kind: ModelFaaS, AllowsColocation: false}
	case Edge:
		if regressorPath != "" {
			return PerformanceModel{Kind: ModelRegressor, AllowsColocation: true, RegressorPath: regressorPath}
		}
		return PerformanceModel{Kind: ModelEdgeQueue, AllowsColocation: true}
	case VM:
		if regressorPath != "" {
			return PerformanceModel{Kind: ModelRegressor, AllowsColocation: true, RegressorPath: regressorPath}
		}
		return PerformanceModel{Kind: ModelCloudQueue, AllowsColocation: true}
	}
	return PerformanceModel{Kind: ModelCloudQueue, AllowsColocation: true}
}
