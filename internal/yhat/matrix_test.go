package yhat

import "testing"

func TestComponentMatrixSetGet(t *testing.T) {
	m := NewComponentMatrix(3, 4)

	m.Set(0, 2, 5)
	cell, ok := m.Get(0)
	if !ok {
		t.Fatal("expected partition 0 to be assigned")
	}
	if cell.Resource != 2 || cell.Count != 5 {
		t.Errorf("got %+v, want {Resource:2 Count:5}", cell)
	}

	if got := m.At(0, 2); got != 5 {
		t.Errorf("At(0,2) = %d, want 5", got)
	}
	if got := m.At(0, 1); got != 0 {
		t.Errorf("At(0,1) = %d, want 0 (wrong resource column)", got)
	}
}

func TestComponentMatrixSetZeroClears(t *testing.T) {
	m := NewComponentMatrix(2, 2)
	m.Set(0, 0, 3)
	m.Set(0, 0, 0)

	if _, ok := m.Get(0); ok {
		t.Error("expected partition 0 to be cleared by a zero count")
	}
}

func TestComponentMatrixCloneIsIndependent(t *testing.T) {
	m := NewComponentMatrix(2, 2)
	m.Set(0, 0, 1)

	cp := m.Clone()
	cp.Set(0, 1, 2)

	if cell, _ := m.Get(0); cell.Resource != 0 {
		t.Errorf("original mutated by clone: %+v", cell)
	}
	if cell, _ := cp.Get(0); cell.Resource != 1 {
		t.Errorf("clone not updated: %+v", cell)
	}
}

func TestComponentMatrixSortedPartitions(t *testing.T) {
	m := NewComponentMatrix(5, 2)
	m.Set(3, 0, 1)
	m.Set(1, 0, 1)
	m.Set(4, 0, 1)

	got := m.SortedPartitions()
	want := []int{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("SortedPartitions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedPartitions()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestComponentMatrixColumnMax(t *testing.T) {
	m := NewComponentMatrix(3, 2)
	m.Set(0, 0, 2)
	m.Set(1, 0, 5)
	m.Set(2, 1, 1)

	max := m.ColumnMax()
	if max[0] != 5 {
		t.Errorf("ColumnMax()[0] = %d, want 5", max[0])
	}
	if max[1] != 1 {
		t.Errorf("ColumnMax()[1] = %d, want 1", max[1])
	}
}

func TestComponentMatrixEqual(t *testing.T) {
	a := NewComponentMatrix(2, 2)
	a.Set(0, 0, 1)
	b := NewComponentMatrix(2, 2)
	b.Set(0, 0, 1)

	if !a.Equal(b) {
		t.Error("expected equal matrices to compare equal")
	}

	b.Set(1, 1, 1)
	if a.Equal(b) {
		t.Error("expected matrices with a different assigned-partition count to compare unequal")
	}
}

func TestAssignmentCloneEqual(t *testing.T) {
	a1 := NewComponentMatrix(1, 1)
	a1.Set(0, 0, 1)
	assign := Assignment{a1}

	cp := assign.Clone()
	if !assign.Equal(cp) {
		t.Fatal("clone should be equal to the original")
	}

	cp[0].Set(0, 0, 2)
	if assign.Equal(cp) {
		t.Error("mutating the clone should not affect the original's equality")
	}
}

func TestAssignmentUsedResourcesAndMaxInstances(t *testing.T) {
	m0 := NewComponentMatrix(2, 3)
	m0.Set(0, 0, 2)
	m1 := NewComponentMatrix(2, 3)
	m1.Set(0, 1, 4)
	m1.Set(1, 1, 1)
	assign := Assignment{m0, m1}

	used := assign.UsedResources(3)
	if !used[0] || !used[1] || used[2] {
		t.Errorf("UsedResources(3) = %v, want [true true false]", used)
	}

	max := assign.MaxInstances(3)
	if max[0] != 2 || max[1] != 4 || max[2] != 0 {
		t.Errorf("MaxInstances(3) = %v, want [2 4 0]", max)
	}
}
