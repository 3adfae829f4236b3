package system

// DAG is the component-level dependency graph of the application: edges
// point from a component to the components that consume its output.
type DAG struct {
	nodes []string
	succ  map[string][]string
	pred  map[string][]string
}

// NewDAG builds a DAG from an edge list (component id -> its successors).
func NewDAG(nodes []string, edges map[string][]string) *DAG {
	d := &DAG{
		nodes: nodes,
		succ:  make(map[string][]string),
		pred:  make(map[string][]string),
	}
	for _, n := range nodes {
		d.succ[n] = nil
		d.pred[n] = nil
	}
	for from, tos := range edges {
		for _, to := range tos {
			d.succ[from] = append(d.succ[from], to)
			d.pred[to] = append(d.pred[to], from)
		}
	}
	return d
}

// Successors returns the ids of components directly downstream of id.
func (d *DAG) Successors(id string) []string { return d.succ[id] }

// Predecessors returns the ids of components directly upstream of id.
func (d *DAG) Predecessors(id string) []string { return d.pred[id] }

// Sources returns the ids of components with no predecessor (in-degree 0).
func (d *DAG) Sources() []string {
	var sources []string
	for _, n := range d.nodes {
		if len(d.pred[n]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Nodes returns every component id in the DAG.
func (d *DAG) Nodes() []string { return d.nodes }
