package mmfile

import "sort"

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// Range is a byte range of a mapping.
type Range struct {
	Off int64 // Offset from the start of the mapping
	Len int64 // Length in bytes
}

// Tracker accumulates dirty ranges between flushes.
//
// NOT thread-safe. Callers serialize Add and Flush.
type Tracker struct {
	ranges   []Range
	pageSize int64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. Ranges are page-aligned and merged only when
// Ranges is called.
func (t *Tracker) Add(off, length int) {
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Len returns the number of recorded (uncoalesced) ranges.
func (t *Tracker) Len() int { return len(t.ranges) }

// Reset clears all tracked ranges.
func (t *Tracker) Reset() { t.ranges = t.ranges[:0] }

// Ranges returns the page-aligned, sorted, non-overlapping cover of every
// recorded range.
func (t *Tracker) Ranges() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize
		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.Off+current.Len {
			if end := next.Off + next.Len; end > current.Off+current.Len {
				current.Len = end - current.Off
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// clip bounds r to a mapping of size n.
func clip(r Range, n int) (int, int, bool) {
	start, end := int(r.Off), int(r.Off+r.Len)
	if end > n {
		end = n
	}
	return start, end, start < end
}
