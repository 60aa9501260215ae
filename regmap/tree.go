package regmap

import (
	"log/slog"

	"github.com/joshuapare/regkit/pkg/bus"
	"github.com/joshuapare/regkit/pkg/logger"
	"github.com/joshuapare/regkit/pkg/types"
	"github.com/joshuapare/regkit/regmap/index"
)

// NodeID is a handle to a record in a Tree's arena.
type NodeID uint32

// record is the arena entry of one node.
type record struct {
	id       string
	addr     uint32
	addrMask uint32
	mask     uint32
	perm     types.Permission
	mode     types.Mode
	children []NodeID     // direct children, declaration order
	index    *index.Index // every descendant, keyed by dotted relative path
}

// Owner supplies the bus client for register accesses. It is usually the
// hardware interface object that holds the tree.
type Owner interface {
	Client() bus.Client
}

// Tree is an arena of register nodes rooted at one node.
type Tree struct {
	nodes []record
	root  NodeID
	owner Owner
	log   *slog.Logger
}

// Node is a handle to one node of a Tree. The zero Node is invalid; apart
// from IsValid, Equal, Clone and String, methods called on it panic.
type Node struct {
	tree *Tree
	id   NodeID
}

func newTree(log *slog.Logger) *Tree {
	return &Tree{log: logger.Or(log)}
}

func (t *Tree) alloc(r record) NodeID {
	t.nodes = append(t.nodes, r)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) node(id NodeID) Node { return Node{tree: t, id: id} }

// Root returns the root node.
func (t *Tree) Root() Node { return t.node(t.root) }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Owner returns the tree's owner, or nil.
func (t *Tree) Owner() Owner { return t.owner }

// SetOwner links the tree to the object supplying its bus client. The link
// is a plain reference; the tree never closes or manages the owner.
func (t *Tree) SetOwner(o Owner) { t.owner = o }

// Resolve is shorthand for t.Root().Resolve(path).
func (t *Tree) Resolve(path string) (Node, error) { return t.Root().Resolve(path) }

func (n Node) rec() *record { return &n.tree.nodes[n.id] }

// IsValid reports whether n refers to a node.
func (n Node) IsValid() bool { return n.tree != nil && int(n.id) < len(n.tree.nodes) }

// Tree returns the tree n belongs to.
func (n Node) Tree() *Tree { return n.tree }

// Handle returns n's arena handle.
func (n Node) Handle() NodeID { return n.id }

// ID returns the node's own, unqualified name.
func (n Node) ID() string { return n.rec().id }

// Address returns the absolute bus address.
func (n Node) Address() uint32 { return n.rec().addr }

// AddressMask returns the address subspace granted to the node's subtree.
func (n Node) AddressMask() uint32 { return n.rec().addrMask }

// Mask returns the register bit mask, types.NoMask for the whole word.
func (n Node) Mask() uint32 { return n.rec().mask }

// Permission returns the access rights.
func (n Node) Permission() types.Permission { return n.rec().perm }

// Mode returns the block transfer mode.
func (n Node) Mode() types.Mode { return n.rec().mode }

// Children returns the direct children in declaration order.
func (n Node) Children() []Node {
	r := n.rec()
	out := make([]Node, len(r.children))
	for i, c := range r.children {
		out[i] = n.tree.node(c)
	}
	return out
}

// Same reports whether n and o are the same record of the same tree.
func (n Node) Same(o Node) bool { return n.tree == o.tree && n.id == o.id }

// Equal reports whether n and o have the same address, register mask,
// permission and id. Children are not compared. Two invalid nodes are equal;
// an invalid node equals no valid one.
func (n Node) Equal(o Node) bool {
	if !n.IsValid() || !o.IsValid() {
		return n.IsValid() == o.IsValid()
	}
	a, b := n.rec(), o.rec()
	return a.addr == b.addr &&
		a.mask == b.mask &&
		a.perm == b.perm &&
		a.id == b.id
}
