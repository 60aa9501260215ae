package index

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Test_Index_AddGet tests adding and retrieving entries.
func Test_Index_AddGet(t *testing.T) {
	idx := New(0)

	if !idx.Add("ctrl", 1) {
		t.Fatal("Add(ctrl) = false; want true")
	}
	idx.Add("ctrl.reset", 2)
	idx.Add("status", 3)

	if h, ok := idx.Get("ctrl.reset"); !ok || h != 2 {
		t.Errorf("Get(ctrl.reset) = %d, %v; want 2, true", h, ok)
	}
	if _, ok := idx.Get("ctrl.missing"); ok {
		t.Error("Get(ctrl.missing) should miss")
	}
	if idx.Len() != 3 {
		t.Errorf("Len() = %d; want 3", idx.Len())
	}
}

// Test_Index_DuplicateRejected verifies the first entry wins.
func Test_Index_DuplicateRejected(t *testing.T) {
	idx := New(4)
	idx.Add("a", 1)
	if idx.Add("a", 9) {
		t.Fatal("Add of duplicate key should report false")
	}
	if h, _ := idx.Get("a"); h != 1 {
		t.Errorf("Get(a) = %d; want 1", h)
	}
}

func Test_Index_KeysSorted(t *testing.T) {
	idx := New(4)
	for i, k := range []string{"qux", "foo.baz", "foo", "foo.bar"} {
		idx.Add(k, uint32(i))
	}
	want := []string{"foo", "foo.bar", "foo.baz", "qux"}
	if diff := cmp.Diff(want, idx.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func Test_Index_RemapAndIterate(t *testing.T) {
	idx := New(2)
	idx.Add("a", 1)
	idx.Add(Join("a", "b"), 2)

	moved := idx.Remap(func(h uint32) uint32 { return h + 100 })
	got := map[string]uint32{}
	for k, v := range moved.All() {
		got[k] = v
	}
	want := map[string]uint32{"a": 101, "a.b": 102}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Remap mismatch (-want +got):\n%s", diff)
	}
	// source untouched
	if h, _ := idx.Get("a"); h != 1 {
		t.Errorf("source Get(a) = %d; want 1", h)
	}
}

func Test_Index_RangeStops(t *testing.T) {
	idx := New(3)
	idx.Add("a", 1)
	idx.Add("b", 2)
	idx.Add("c", 3)
	calls := 0
	idx.Range(func(string, uint32) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("Range visited %d entries after stop; want 1", calls)
	}
}

func Test_Index_Stats(t *testing.T) {
	idx := New(3)
	idx.Add("a", 1)
	idx.Add("a.b", 2)
	idx.Add("c", 3)
	s := idx.Stats()
	if s.Entries != 3 || s.Direct != 2 {
		t.Errorf("Stats() = %+v; want 3 entries, 2 direct", s)
	}
	if s.BytesApprox <= 0 {
		t.Error("BytesApprox should be positive")
	}
}
