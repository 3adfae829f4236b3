// Package yhat holds the sparse-by-construction placement count matrices
// (Y_hat in the spec): for every component, a partition×resource matrix of
// assigned instance counts. Each row has at most one non-zero cell, so the
// natural representation is (partition -> (resource index, count));
// utilization and memory aggregation iterate these sparse rows directly,
// and no dense matrix is built (§9 design note).
package yhat

// Cell is a single non-zero assignment: partition h runs on resource j
// with count instances (always 1 for FaaS).
type Cell struct {
	Resource int
	Count    int
}

// ComponentMatrix is the sparse row->cell map for one component, plus the
// number of partitions and resources it is defined over.
type ComponentMatrix struct {
	Rows      map[int]Cell // partition index -> assignment
	Partitions int
	Resources  int
}

// NewComponentMatrix allocates an empty sparse matrix for a component with
// the given partition and resource counts.
func NewComponentMatrix(partitions, resources int) *ComponentMatrix {
	return &ComponentMatrix{
		Rows:       make(map[int]Cell),
		Partitions: partitions,
		Resources:  resources,
	}
}

// Clone returns a deep copy.
func (m *ComponentMatrix) Clone() *ComponentMatrix {
	cp := NewComponentMatrix(m.Partitions, m.Resources)
	for h, c := range m.Rows {
		cp.Rows[h] = c
	}
	return cp
}

// Set assigns partition h to resource j with the given instance count. A
// count of 0 clears the row.
func (m *ComponentMatrix) Set(h, j, count int) {
	if count <= 0 {
		delete(m.Rows, h)
		return
	}
	m.Rows[h] = Cell{Resource: j, Count: count}
}

// Get returns the (resource, count) assigned to partition h, or the zero
// Cell and false if the partition is unassigned.
func (m *ComponentMatrix) Get(h int) (Cell, bool) {
	c, ok := m.Rows[h]
	return c, ok
}

// At returns the count assigned to (h, j); 0 if partition h is not
// assigned to resource j.
func (m *ComponentMatrix) At(h, j int) int {
	if c, ok := m.Rows[h]; ok && c.Resource == j {
		return c.Count
	}
	return 0
}

// SortedPartitions returns the assigned partition indices in ascending
// (DAG/row) order.
func (m *ComponentMatrix) SortedPartitions() []int {
	idx := make([]int, 0, len(m.Rows))
	for h := range m.Rows {
		idx = append(idx, h)
	}
	// insertion sort: partition counts are tiny (single-digit stages)
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && idx[j-1] > idx[j]; j-- {
			idx[j-1], idx[j] = idx[j], idx[j-1]
		}
	}
	return idx
}

// ColumnMax returns, for each resource index, the maximum count assigned
// to it across all partitions of this component.
func (m *ComponentMatrix) ColumnMax() map[int]int {
	max := make(map[int]int)
	for _, c := range m.Rows {
		if cur, ok := max[c.Resource]; !ok || c.Count > cur {
			max[c.Resource] = c.Count
		}
	}
	return max
}

// Equal reports whether two component matrices hold the same assignment.
func (m *ComponentMatrix) Equal(o *ComponentMatrix) bool {
	if len(m.Rows) != len(o.Rows) {
		return false
	}
	for h, c := range m.Rows {
		oc, ok := o.Rows[h]
		if !ok || oc != c {
			return false
		}
	}
	return true
}

// Assignment is the full placement Y_hat: one ComponentMatrix per
// component, indexed by component index.
type Assignment []*ComponentMatrix

// Clone returns a deep copy of the assignment.
func (a Assignment) Clone() Assignment {
	cp := make(Assignment, len(a))
	for i, m := range a {
		cp[i] = m.Clone()
	}
	return cp
}

// Equal reports whether two assignments are identical, component by
// component (Configuration.__eq__ in the original).
func (a Assignment) Equal(o Assignment) bool {
	if len(a) != len(o) {
		return false
	}
	for i := range a {
		if !a[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// UsedResources returns, for each resource index up to J, whether any
// component partition is assigned to it (Solution.get_x).
func (a Assignment) UsedResources(j int) []bool {
	used := make([]bool, j)
	for _, m := range a {
		for _, c := range m.Rows {
			if c.Resource < j {
				used[c.Resource] = true
			}
		}
	}
	return used
}

// MaxInstances returns, for each resource index up to J, the maximum
// instance count assigned to it across every component (Solution.get_y_bar,
// used by the time-based cost term y_max).
func (a Assignment) MaxInstances(j int) []int {
	max := make([]int, j)
	for _, m := range a {
		for _, c := range m.Rows {
			if c.Count > max[c.Resource] {
				max[c.Resource] = c.Count
			}
		}
	}
	return max
}
