package index

import (
	"iter"
	"slices"
	"strings"

	"github.com/joshuapare/regkit/pkg/types"
)

const (
	// estimatedBytesPerMapEntry is the rough estimate of memory overhead per map entry.
	// This includes ~32 bytes for Go's map overhead plus 4 bytes for the value (uint32).
	estimatedBytesPerMapEntry = 36

	defaultCapacity = 8
)

// Index maps dotted relative paths to node handles.
type Index struct {
	entries map[string]uint32
}

// Stats reports index metrics.
type Stats struct {
	Entries     int // Number of paths
	Direct      int // Entries without a separator (direct children)
	BytesApprox int // Approximate memory usage (best effort)
}

// New creates an Index with a capacity hint.
func New(capacity int) *Index {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Index{entries: make(map[string]uint32, capacity)}
}

// Join builds the key of a grandchild entry: "<id>.<rel>".
func Join(id, rel string) string {
	return id + types.PathSeparator + rel
}

// Add registers path -> handle. It reports false, leaving the index
// unchanged, when path is already present.
func (x *Index) Add(path string, handle uint32) bool {
	if _, dup := x.entries[path]; dup {
		return false
	}
	x.entries[path] = handle
	return true
}

// Get returns the handle stored under path.
func (x *Index) Get(path string) (uint32, bool) {
	h, ok := x.entries[path]
	return h, ok
}

// Len returns the number of entries.
func (x *Index) Len() int { return len(x.entries) }

// Range calls fn for every entry until fn returns false.
func (x *Index) Range(fn func(path string, handle uint32) bool) {
	for k, v := range x.entries {
		if !fn(k, v) {
			return
		}
	}
}

// All iterates over every entry in unspecified order.
func (x *Index) All() iter.Seq2[string, uint32] {
	return func(yield func(string, uint32) bool) {
		x.Range(yield)
	}
}

// Keys returns every path in lexicographic order.
func (x *Index) Keys() []string {
	keys := make([]string, 0, len(x.entries))
	for k := range x.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Remap returns a copy of x with every handle passed through fn.
func (x *Index) Remap(fn func(uint32) uint32) *Index {
	out := New(len(x.entries))
	for k, v := range x.entries {
		out.entries[k] = fn(v)
	}
	return out
}

// Stats returns index statistics.
func (x *Index) Stats() Stats {
	s := Stats{Entries: len(x.entries)}
	for k := range x.entries {
		s.BytesApprox += estimatedBytesPerMapEntry + len(k)
		if !strings.Contains(k, types.PathSeparator) {
			s.Direct++
		}
	}
	return s
}
