package regmap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/pkg/attr"
	"github.com/joshuapare/regkit/pkg/bus"
	"github.com/joshuapare/regkit/pkg/types"
)

// sampleTable is
//
//	top
//	├── ctrl   @0x100
//	│   ├── reset  @0x1 mask 0x1, write-only
//	│   └── status @0x2, read-only
//	├── fifo   @0x200 port
//	└── ram    @0x400 block
func sampleTable() *attr.Element {
	return attr.NewNode("top").Add(
		attr.NewNode("ctrl").Set("address", "0x100").Add(
			attr.NewNode("reset").Set("address", "0x1").Set("mask", "0x1").Set("permission", "w"),
			attr.NewNode("status").Set("address", "0x2").Set("permission", "r"),
		),
		attr.NewNode("fifo").Set("address", "0x200").Set("mode", "port"),
		attr.NewNode("ram").Set("address", "0x400").Set("mode", "block"),
	)
}

func buildSample(t *testing.T) *Tree {
	t.Helper()
	tree, err := Build(sampleTable(), 0, 0xFFFFFFFF, nil)
	require.NoError(t, err)
	return tree
}

// tableProvider resolves module names from an in-memory set of tables.
type tableProvider struct {
	tables map[string]*attr.Element
	calls  int
}

func (p *tableProvider) Template(name string, addr, addrMask uint32) (Node, error) {
	p.calls++
	decl, ok := p.tables[name]
	if !ok {
		return Node{}, fmt.Errorf("no table named %q", name)
	}
	tree, err := Build(decl, addr, addrMask, &Options{Provider: p})
	if err != nil {
		return Node{}, err
	}
	return tree.Root(), nil
}

// inlineProvider also builds inline children, counting how often it does.
type inlineProvider struct {
	tableProvider
	inlines int
}

func (p *inlineProvider) Inline(decl attr.Node, addr, addrMask uint32) (Node, error) {
	p.inlines++
	tree, err := Build(decl, addr, addrMask, &Options{Provider: p})
	if err != nil {
		return Node{}, err
	}
	return tree.Root(), nil
}

type staticOwner struct {
	c bus.Client
}

func (o staticOwner) Client() bus.Client { return o.c }

// recordingClient records every call it receives as a line of text.
type recordingClient struct {
	calls []string
	err   error
}

func (c *recordingClient) record(format string, args ...any) error {
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
	return c.err
}

func (c *recordingClient) Write(addr, value uint32) error {
	return c.record("write 0x%08X 0x%08X", addr, value)
}

func (c *recordingClient) WriteMasked(addr, value, mask uint32) error {
	return c.record("write 0x%08X 0x%08X mask 0x%08X", addr, value, mask)
}

func (c *recordingClient) WriteBlock(addr uint32, values []uint32, mode types.Mode) error {
	return c.record("write block 0x%08X %d %s", addr, len(values), mode)
}

func (c *recordingClient) Read(addr uint32) (*bus.ValWord[uint32], error) {
	return bus.NewValWord[uint32](), c.record("read 0x%08X", addr)
}

func (c *recordingClient) ReadMasked(addr, mask uint32) (*bus.ValWord[uint32], error) {
	return bus.NewValWord[uint32](), c.record("read 0x%08X mask 0x%08X", addr, mask)
}

func (c *recordingClient) ReadSigned(addr uint32) (*bus.ValWord[int32], error) {
	return bus.NewValWord[int32](), c.record("read signed 0x%08X", addr)
}

func (c *recordingClient) ReadSignedMasked(addr, mask uint32) (*bus.ValWord[int32], error) {
	return bus.NewValWord[int32](), c.record("read signed 0x%08X mask 0x%08X", addr, mask)
}

func (c *recordingClient) ReadBlock(addr, size uint32, mode types.Mode) (*bus.ValVector[uint32], error) {
	return bus.NewValVector[uint32](int(size)), c.record("read block 0x%08X %d %s", addr, size, mode)
}

func (c *recordingClient) ReadBlockSigned(addr, size uint32, mode types.Mode) (*bus.ValVector[int32], error) {
	return bus.NewValVector[int32](int(size)), c.record("read block signed 0x%08X %d %s", addr, size, mode)
}

func (c *recordingClient) RMWBits(addr, andTerm, orTerm uint32) (*bus.ValWord[uint32], error) {
	return bus.NewValWord[uint32](), c.record("rmw bits 0x%08X 0x%08X 0x%08X", addr, andTerm, orTerm)
}

func (c *recordingClient) RMWSum(addr uint32, addend int32) (*bus.ValWord[int32], error) {
	return bus.NewValWord[int32](), c.record("rmw sum 0x%08X %d", addr, addend)
}

var errLinkDown = errors.New("link down")
