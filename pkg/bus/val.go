package bus

import (
	"sync"

	"github.com/joshuapare/regkit/pkg/types"
)

// Word is the set of register word types a handle can carry.
type Word interface {
	~uint32 | ~int32
}

// ValWord is a pending single-word result.
type ValWord[T Word] struct {
	mu    sync.Mutex
	valid bool
	value T
	err   error
}

// NewValWord returns an unresolved handle.
func NewValWord[T Word]() *ValWord[T] { return &ValWord[T]{} }

// Valid reports whether the handle has been resolved successfully.
func (v *ValWord[T]) Valid() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.valid
}

// Value returns the resolved word. Before dispatch it returns
// types.ErrNotDispatched; after a failed transfer, the transfer error.
func (v *ValWord[T]) Value() (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return 0, v.err
	}
	if !v.valid {
		return 0, types.ErrNotDispatched
	}
	return v.value, nil
}

// Resolve marks the handle valid with x.
func (v *ValWord[T]) Resolve(x T) {
	v.mu.Lock()
	v.value, v.valid, v.err = x, true, nil
	v.mu.Unlock()
}

// Fail records a transfer error on the handle.
func (v *ValWord[T]) Fail(err error) {
	v.mu.Lock()
	v.valid, v.err = false, err
	v.mu.Unlock()
}

// ValVector is a pending block result.
type ValVector[T Word] struct {
	mu     sync.Mutex
	size   int
	valid  bool
	values []T
	err    error
}

// NewValVector returns an unresolved handle for size words.
func NewValVector[T Word](size int) *ValVector[T] { return &ValVector[T]{size: size} }

// Size is the number of words requested.
func (v *ValVector[T]) Size() int { return v.size }

// Valid reports whether the handle has been resolved successfully.
func (v *ValVector[T]) Valid() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.valid
}

// Values returns a copy of the resolved words.
func (v *ValVector[T]) Values() ([]T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return nil, v.err
	}
	if !v.valid {
		return nil, types.ErrNotDispatched
	}
	out := make([]T, len(v.values))
	copy(out, v.values)
	return out, nil
}

// Resolve marks the handle valid with xs.
func (v *ValVector[T]) Resolve(xs []T) {
	v.mu.Lock()
	v.values, v.valid, v.err = xs, true, nil
	v.mu.Unlock()
}

// Fail records a transfer error on the handle.
func (v *ValVector[T]) Fail(err error) {
	v.mu.Lock()
	v.valid, v.err = false, err
	v.mu.Unlock()
}
