package bus

import (
	"context"
	"fmt"
	"log/slog"
	"math/bits"
	"sync"

	"github.com/joshuapare/regkit/pkg/logger"
	"github.com/joshuapare/regkit/pkg/types"
)

// pending is one recorded transaction.
type pending struct {
	name string
	addr uint32
	run  func(Backend) error
	fail func(error)
}

// Queue is a Client that records transactions and executes them, in order,
// against a Backend when Dispatch is called. It is safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	backend Backend
	ops     []pending
	log     *slog.Logger
}

var (
	_ Client     = (*Queue)(nil)
	_ Dispatcher = (*Queue)(nil)
)

// NewQueue creates a queued client over b. A nil logger selects logger.L.
func NewQueue(b Backend, log *slog.Logger) *Queue {
	return &Queue{backend: b, log: logger.Or(log)}
}

// Len returns the number of transactions waiting for Dispatch.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

func (q *Queue) push(p pending) {
	q.mu.Lock()
	q.ops = append(q.ops, p)
	q.mu.Unlock()
}

// Dispatch executes every queued transaction. A failing transaction fails its
// own handle and the remaining ones still run; the first failure is returned
// as a types.ErrKindTransport error. If ctx is cancelled, the transactions not
// yet executed are failed with ctx.Err().
func (q *Queue) Dispatch(ctx context.Context) error {
	q.mu.Lock()
	ops := q.ops
	q.ops = nil
	q.mu.Unlock()

	var first error
	for i, p := range ops {
		if err := ctx.Err(); err != nil {
			for _, rest := range ops[i:] {
				rest.fail(err)
			}
			q.log.Warn("dispatch cancelled", "remaining", len(ops)-i, "error", err)
			return err
		}
		if err := p.run(q.backend); err != nil {
			p.fail(err)
			q.log.Error("transaction failed", "op", p.name, "address", fmt.Sprintf("0x%08X", p.addr), "error", err)
			if first == nil {
				first = &types.Error{
					Kind: types.ErrKindTransport,
					Msg:  fmt.Sprintf("%s at 0x%08X failed", p.name, p.addr),
					Err:  err,
				}
			}
		}
	}
	q.log.Debug("dispatched", "transactions", len(ops))
	return first
}

// fieldShift is the position of the lowest bit of mask.
func fieldShift(mask uint32) uint {
	return uint(bits.TrailingZeros32(mask))
}

func extract(word, mask uint32) uint32 {
	return (word & mask) >> fieldShift(mask)
}

func insert(word, value, mask uint32) uint32 {
	return (word &^ mask) | ((value << fieldShift(mask)) & mask)
}

// checkBlock rejects a block before any buffer is sized from it.
func checkBlock(size uint64) error {
	if size > MaxBlockWords {
		return fmt.Errorf("%w: %d words (max %d)", ErrBlockTooLarge, size, MaxBlockWords)
	}
	return nil
}

func blockAddr(addr uint32, i int, mode types.Mode) uint32 {
	if mode == types.NonIncremental {
		return addr
	}
	return addr + uint32(i)
}

// Write implements Client.
func (q *Queue) Write(addr, value uint32) error {
	q.push(pending{
		name: "write", addr: addr,
		run:  func(b Backend) error { return b.Store(addr, value) },
		fail: func(error) {},
	})
	return nil
}

// WriteMasked implements Client. Bits outside mask are preserved.
func (q *Queue) WriteMasked(addr, value, mask uint32) error {
	q.push(pending{
		name: "write", addr: addr,
		run: func(b Backend) error {
			old, err := b.Load(addr)
			if err != nil {
				return err
			}
			return b.Store(addr, insert(old, value, mask))
		},
		fail: func(error) {},
	})
	return nil
}

// WriteBlock implements Client.
func (q *Queue) WriteBlock(addr uint32, values []uint32, mode types.Mode) error {
	if err := checkBlock(uint64(len(values))); err != nil {
		return err
	}
	vals := append([]uint32(nil), values...)
	q.push(pending{
		name: "writeBlock", addr: addr,
		run: func(b Backend) error {
			for i, v := range vals {
				if err := b.Store(blockAddr(addr, i, mode), v); err != nil {
					return err
				}
			}
			return nil
		},
		fail: func(error) {},
	})
	return nil
}

func (q *Queue) readWord(name string, addr uint32, conv func(uint32) uint32) *ValWord[uint32] {
	v := NewValWord[uint32]()
	q.push(pending{
		name: name, addr: addr,
		run: func(b Backend) error {
			w, err := b.Load(addr)
			if err != nil {
				return err
			}
			v.Resolve(conv(w))
			return nil
		},
		fail: v.Fail,
	})
	return v
}

func (q *Queue) readSignedWord(name string, addr uint32, conv func(uint32) uint32) *ValWord[int32] {
	v := NewValWord[int32]()
	q.push(pending{
		name: name, addr: addr,
		run: func(b Backend) error {
			w, err := b.Load(addr)
			if err != nil {
				return err
			}
			v.Resolve(int32(conv(w)))
			return nil
		},
		fail: v.Fail,
	})
	return v
}

func identity(w uint32) uint32 { return w }

// Read implements Client.
func (q *Queue) Read(addr uint32) (*ValWord[uint32], error) {
	return q.readWord("read", addr, identity), nil
}

// ReadMasked implements Client. The field is shifted down to bit 0.
func (q *Queue) ReadMasked(addr, mask uint32) (*ValWord[uint32], error) {
	return q.readWord("read", addr, func(w uint32) uint32 { return extract(w, mask) }), nil
}

// ReadSigned implements Client.
func (q *Queue) ReadSigned(addr uint32) (*ValWord[int32], error) {
	return q.readSignedWord("readSigned", addr, identity), nil
}

// ReadSignedMasked implements Client.
func (q *Queue) ReadSignedMasked(addr, mask uint32) (*ValWord[int32], error) {
	return q.readSignedWord("readSigned", addr, func(w uint32) uint32 { return extract(w, mask) }), nil
}

// ReadBlock implements Client. Blocks longer than MaxBlockWords are
// rejected without being queued.
func (q *Queue) ReadBlock(addr, size uint32, mode types.Mode) (*ValVector[uint32], error) {
	if err := checkBlock(uint64(size)); err != nil {
		return nil, err
	}
	v := NewValVector[uint32](int(size))
	q.push(pending{
		name: "readBlock", addr: addr,
		run: func(b Backend) error {
			out := make([]uint32, size)
			for i := range out {
				w, err := b.Load(blockAddr(addr, i, mode))
				if err != nil {
					return err
				}
				out[i] = w
			}
			v.Resolve(out)
			return nil
		},
		fail: v.Fail,
	})
	return v, nil
}

// ReadBlockSigned implements Client.
func (q *Queue) ReadBlockSigned(addr, size uint32, mode types.Mode) (*ValVector[int32], error) {
	if err := checkBlock(uint64(size)); err != nil {
		return nil, err
	}
	v := NewValVector[int32](int(size))
	q.push(pending{
		name: "readBlockSigned", addr: addr,
		run: func(b Backend) error {
			out := make([]int32, size)
			for i := range out {
				w, err := b.Load(blockAddr(addr, i, mode))
				if err != nil {
					return err
				}
				out[i] = int32(w)
			}
			v.Resolve(out)
			return nil
		},
		fail: v.Fail,
	})
	return v, nil
}

// RMWBits implements Client.
func (q *Queue) RMWBits(addr, andTerm, orTerm uint32) (*ValWord[uint32], error) {
	v := NewValWord[uint32]()
	q.push(pending{
		name: "rmwBits", addr: addr,
		run: func(b Backend) error {
			old, err := b.Load(addr)
			if err != nil {
				return err
			}
			if err := b.Store(addr, (old&andTerm)|orTerm); err != nil {
				return err
			}
			v.Resolve(old)
			return nil
		},
		fail: v.Fail,
	})
	return v, nil
}

// RMWSum implements Client.
func (q *Queue) RMWSum(addr uint32, addend int32) (*ValWord[int32], error) {
	v := NewValWord[int32]()
	q.push(pending{
		name: "rmwSum", addr: addr,
		run: func(b Backend) error {
			old, err := b.Load(addr)
			if err != nil {
				return err
			}
			if err := b.Store(addr, uint32(int32(old)+addend)); err != nil {
				return err
			}
			v.Resolve(int32(old))
			return nil
		},
		fail: v.Fail,
	})
	return v, nil
}
