package regmap

import (
	"errors"
	"fmt"

	"github.com/joshuapare/regkit/pkg/bus"
	"github.com/joshuapare/regkit/pkg/types"
)

// client returns the bus client of the tree's owner.
func (n Node) client() (bus.Client, error) {
	if n.tree.owner == nil {
		return nil, n.denied(types.ErrKindTransport, "node is not attached to a hardware interface")
	}
	c := n.tree.owner.Client()
	if c == nil {
		return nil, n.denied(types.ErrKindTransport, "hardware interface has no client")
	}
	return c, nil
}

func (n Node) denied(kind types.ErrKind, msg string) error {
	err := &types.Error{Kind: kind, Msg: msg, Path: n.ID()}
	n.tree.log.Error("register access refused", "node", n.ID(), "address", fmt.Sprintf("0x%08X", n.Address()), "error", err)
	return err
}

// transport reports a failed client call under the Transport kind.
func (n Node) transport(op string, err error) error {
	n.tree.log.Error("transport call failed", "op", op, "node", n.ID(),
		"address", fmt.Sprintf("0x%08X", n.Address()), "error", err)
	var te *types.Error
	if errors.As(err, &te) {
		return err
	}
	return &types.Error{Kind: types.ErrKindTransport, Msg: op + " failed", Path: n.ID(), Err: err}
}

func (n Node) checkRead() error {
	if !n.Permission().CanRead() {
		return n.denied(types.ErrKindAccessDenied, "node permissions denied read access")
	}
	return nil
}

func (n Node) checkWrite() error {
	if !n.Permission().CanWrite() {
		return n.denied(types.ErrKindAccessDenied, "node permissions denied write access")
	}
	return nil
}

// checkBlock enforces that a SINGLE register only takes block transfers of
// exactly one word.
func (n Node) checkBlock(size int) error {
	if n.Mode() == types.Single && size != 1 {
		return n.denied(types.ErrKindInvalidBulkTransfer,
			fmt.Sprintf("bulk transfer of %d words requested on single register node", size))
	}
	return nil
}

func (n Node) checkRMW() error {
	if n.Permission() != types.ReadWrite {
		return n.denied(types.ErrKindAccessDenied, "read-modify-write requires read and write permission")
	}
	return nil
}

// Write queues a write of value. A node with a register mask writes only the
// masked field.
func (n Node) Write(value uint32) error {
	if err := n.checkWrite(); err != nil {
		return err
	}
	c, err := n.client()
	if err != nil {
		return err
	}
	if n.Mask() == types.NoMask {
		err = c.Write(n.Address(), value)
	} else {
		err = c.WriteMasked(n.Address(), value, n.Mask())
	}
	if err != nil {
		return n.transport("write", err)
	}
	return nil
}

// WriteBlock queues a block write using the node's mode.
func (n Node) WriteBlock(values []uint32) error {
	if err := n.checkBlock(len(values)); err != nil {
		return err
	}
	if err := n.checkWrite(); err != nil {
		return err
	}
	c, err := n.client()
	if err != nil {
		return err
	}
	if err := c.WriteBlock(n.Address(), values, n.Mode()); err != nil {
		return n.transport("write block", err)
	}
	return nil
}

// Read queues a read and returns its pending value.
func (n Node) Read() (*bus.ValWord[uint32], error) {
	if err := n.checkRead(); err != nil {
		return nil, err
	}
	c, err := n.client()
	if err != nil {
		return nil, err
	}
	var v *bus.ValWord[uint32]
	if n.Mask() == types.NoMask {
		v, err = c.Read(n.Address())
	} else {
		v, err = c.ReadMasked(n.Address(), n.Mask())
	}
	if err != nil {
		return nil, n.transport("read", err)
	}
	return v, nil
}

// ReadSigned is Read with the word interpreted as two's complement.
func (n Node) ReadSigned() (*bus.ValWord[int32], error) {
	if err := n.checkRead(); err != nil {
		return nil, err
	}
	c, err := n.client()
	if err != nil {
		return nil, err
	}
	var v *bus.ValWord[int32]
	if n.Mask() == types.NoMask {
		v, err = c.ReadSigned(n.Address())
	} else {
		v, err = c.ReadSignedMasked(n.Address(), n.Mask())
	}
	if err != nil {
		return nil, n.transport("signed read", err)
	}
	return v, nil
}

// ReadBlock queues a block read of size words using the node's mode.
func (n Node) ReadBlock(size uint32) (*bus.ValVector[uint32], error) {
	if err := n.checkBlock(int(size)); err != nil {
		return nil, err
	}
	if err := n.checkRead(); err != nil {
		return nil, err
	}
	c, err := n.client()
	if err != nil {
		return nil, err
	}
	v, err := c.ReadBlock(n.Address(), size, n.Mode())
	if err != nil {
		return nil, n.transport("read block", err)
	}
	return v, nil
}

// ReadBlockSigned is ReadBlock with two's complement words.
func (n Node) ReadBlockSigned(size uint32) (*bus.ValVector[int32], error) {
	if err := n.checkBlock(int(size)); err != nil {
		return nil, err
	}
	if err := n.checkRead(); err != nil {
		return nil, err
	}
	c, err := n.client()
	if err != nil {
		return nil, err
	}
	v, err := c.ReadBlockSigned(n.Address(), size, n.Mode())
	if err != nil {
		return nil, n.transport("signed read block", err)
	}
	return v, nil
}

// RMWBits queues a read-modify-write storing (old & andTerm) | orTerm. The
// pending value is the word before modification.
func (n Node) RMWBits(andTerm, orTerm uint32) (*bus.ValWord[uint32], error) {
	if err := n.checkRMW(); err != nil {
		return nil, err
	}
	c, err := n.client()
	if err != nil {
		return nil, err
	}
	v, err := c.RMWBits(n.Address(), andTerm, orTerm)
	if err != nil {
		return nil, n.transport("rmw bits", err)
	}
	return v, nil
}

// RMWSum queues a read-modify-write storing old + addend. The pending value
// is the word before modification.
func (n Node) RMWSum(addend int32) (*bus.ValWord[int32], error) {
	if err := n.checkRMW(); err != nil {
		return nil, err
	}
	c, err := n.client()
	if err != nil {
		return nil, err
	}
	v, err := c.RMWSum(n.Address(), addend)
	if err != nil {
		return nil, n.transport("rmw sum", err)
	}
	return v, nil
}
