package bus

import (
	"context"
	"errors"

	"github.com/joshuapare/regkit/pkg/types"
)

// Client is the register transport capability. Every operation is keyed by an
// absolute word address. Implementations may defer the actual transfer until
// Dispatch; returned handles are resolved then.
type Client interface {
	Write(addr, value uint32) error
	WriteMasked(addr, value, mask uint32) error
	WriteBlock(addr uint32, values []uint32, mode types.Mode) error

	Read(addr uint32) (*ValWord[uint32], error)
	ReadMasked(addr, mask uint32) (*ValWord[uint32], error)
	ReadSigned(addr uint32) (*ValWord[int32], error)
	ReadSignedMasked(addr, mask uint32) (*ValWord[int32], error)
	ReadBlock(addr, size uint32, mode types.Mode) (*ValVector[uint32], error)
	ReadBlockSigned(addr, size uint32, mode types.Mode) (*ValVector[int32], error)

	// RMWBits stores (old & andTerm) | orTerm and yields old.
	RMWBits(addr, andTerm, orTerm uint32) (*ValWord[uint32], error)
	// RMWSum stores old + addend and yields old.
	RMWSum(addr uint32, addend int32) (*ValWord[int32], error)
}

// Dispatcher is implemented by clients that batch transactions.
type Dispatcher interface {
	Dispatch(ctx context.Context) error
}

// Backend is word storage addressed by word address.
type Backend interface {
	Load(addr uint32) (uint32, error)
	Store(addr, value uint32) error
}

// MaxBlockWords is the largest block transfer a Queue accepts.
const MaxBlockWords = 1 << 20

var (
	// ErrOutOfRange is returned by a Backend for an address it does not hold.
	ErrOutOfRange = errors.New("bus: address out of range")

	// ErrBlockTooLarge is returned for a block transfer longer than
	// MaxBlockWords.
	ErrBlockTooLarge = errors.New("bus: block transfer too large")
)
