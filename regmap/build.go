package regmap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshuapare/regkit/pkg/attr"
	"github.com/joshuapare/regkit/pkg/types"
	"github.com/joshuapare/regkit/regmap/index"
)

// Provider resolves a named module to a tree placed at the given absolute
// address and address mask. The returned node is deep-copied into the tree
// under construction, so a provider may hand out the same tree repeatedly.
type Provider interface {
	Template(name string, addr, addrMask uint32) (Node, error)
}

// InlineBuilder is implemented by providers that build inline child
// declarations themselves. When the provider does not implement it, Build
// constructs inline children directly.
type InlineBuilder interface {
	Inline(decl attr.Node, addr, addrMask uint32) (Node, error)
}

// Options configures Build. A nil *Options uses the defaults.
type Options struct {
	// Provider resolves module="..." attributes. Nil makes any module
	// reference a construction failure.
	Provider Provider

	// Logger receives construction diagnostics. Nil uses logger.L.
	Logger *slog.Logger

	// Limits bounds the built tree. Nil uses DefaultLimits().
	Limits *Limits
}

// Build constructs a tree from decl placed under a parent at parentAddr with
// address mask parentMask; a standalone table uses 0 and 0xFFFFFFFF. Any
// invalid declaration anywhere in the table fails the whole build.
func Build(decl attr.Node, parentAddr, parentMask uint32, opts *Options) (*Tree, error) {
	if opts == nil {
		opts = &Options{}
	}
	lim := DefaultLimits()
	if opts.Limits != nil {
		lim = *opts.Limits
	}
	b := &builder{
		tree:     newTree(opts.Logger),
		provider: opts.Provider,
		limits:   lim,
	}
	b.log = b.tree.log
	if ib, ok := opts.Provider.(InlineBuilder); ok {
		b.inline = ib
	}

	root, err := b.build(decl, parentAddr, parentMask, "", 0)
	if err != nil {
		return nil, err
	}
	b.tree.root = root
	st := b.tree.nodes[root].index.Stats()
	b.log.Debug("address table built", "root", b.tree.nodes[root].id, "nodes", len(b.tree.nodes),
		"paths", st.Entries, "children", st.Direct, "index_bytes", st.BytesApprox)
	return b.tree, nil
}

type builder struct {
	tree     *Tree
	provider Provider
	inline   InlineBuilder
	limits   Limits
	log      *slog.Logger
}

// source produces a child subtree, already linked into the builder's arena.
type source interface {
	produce(b *builder, path string, depth int, addr, addrMask uint32) (NodeID, error)
}

// templateSource imports a named module through the provider.
type templateSource struct {
	name string
}

// inlineSource is a nested child declaration.
type inlineSource struct {
	decl attr.Node
}

func (s templateSource) produce(b *builder, path string, depth int, addr, addrMask uint32) (NodeID, error) {
	if b.provider == nil {
		return 0, b.fail(&types.Error{
			Kind: types.ErrKindModule,
			Msg:  fmt.Sprintf("module %q referenced but no provider is configured", s.name),
			Attr: attr.AttrModule,
		}, path)
	}
	n, err := b.provider.Template(s.name, addr, addrMask)
	if err != nil {
		return 0, b.fail(&types.Error{
			Kind: types.ErrKindModule,
			Msg:  fmt.Sprintf("cannot resolve module %q", s.name),
			Attr: attr.AttrModule,
			Err:  err,
		}, path)
	}
	return b.adoptForeign(n, path, depth)
}

func (s inlineSource) produce(b *builder, path string, depth int, addr, addrMask uint32) (NodeID, error) {
	if b.inline == nil {
		return b.build(s.decl, addr, addrMask, path, depth)
	}
	n, err := b.inline.Inline(s.decl, addr, addrMask)
	if err != nil {
		var te *types.Error
		if errors.As(err, &te) {
			return 0, err
		}
		return 0, b.fail(&types.Error{
			Kind: types.ErrKindModule,
			Msg:  "inline child construction failed",
			Err:  err,
		}, path)
	}
	return b.adoptForeign(n, path, depth)
}

// adoptForeign grafts a node built in another arena into the builder's.
func (b *builder) adoptForeign(n Node, path string, depth int) (NodeID, error) {
	if !n.IsValid() {
		return 0, b.fail(&types.Error{Kind: types.ErrKindModule, Msg: "provider returned no node"}, path)
	}
	if n.tree == b.tree {
		return n.id, nil
	}
	id, err := b.tree.graft(n, &b.limits, depth, path)
	if err != nil {
		return 0, b.fail(err, path)
	}
	return id, nil
}

func (b *builder) build(decl attr.Node, parentAddr, parentMask uint32, parentPath string, depth int) (NodeID, error) {
	id, ok := decl.Attr(attr.AttrID)
	if !ok || id == "" {
		return 0, b.fail(&types.Error{
			Kind: types.ErrKindMissingIdentifier,
			Msg:  "node must have an id",
			Attr: attr.AttrID,
		}, parentPath)
	}
	path := joinPath(parentPath, id)
	if strings.Contains(id, types.PathSeparator) {
		return 0, b.fail(&types.Error{
			Kind: types.ErrKindInvalidIdentifier,
			Msg:  fmt.Sprintf("id %q contains the path separator %q", id, types.PathSeparator),
			Attr: attr.AttrID,
		}, path)
	}
	if len(id) > b.limits.MaxIDLen {
		return 0, b.fail(limitError("MaxIDLen", len(id), b.limits.MaxIDLen, path), path)
	}
	if depth > b.limits.MaxDepth {
		return 0, b.fail(limitError("MaxDepth", depth, b.limits.MaxDepth, path), path)
	}
	if len(b.tree.nodes) >= b.limits.MaxNodes {
		return 0, b.fail(limitError("MaxNodes", len(b.tree.nodes)+1, b.limits.MaxNodes, path), path)
	}

	r := record{
		id:    id,
		addr:  parentAddr,
		mask:  types.NoMask,
		perm:  types.ReadWrite,
		mode:  types.Single,
		index: index.New(0),
	}

	local, ok, err := attr.Uint32(decl, attr.AttrAddress)
	if err != nil {
		return 0, b.fail(err, path)
	}
	if ok {
		if local&^parentMask != 0 {
			return 0, b.fail(&types.Error{
				Kind: types.ErrKindAddressOverlap,
				Msg: fmt.Sprintf("address 0x%08X overlaps with the mask specified by the parent node, 0x%08X",
					local, parentMask),
				Attr: attr.AttrAddress,
			}, path)
		}
		r.addr = parentAddr | (local & parentMask)
	}

	addrMask, ok, err := attr.Uint32(decl, attr.AttrAddressMask)
	if err != nil {
		return 0, b.fail(err, path)
	}
	if ok {
		if addrMask&^parentMask != 0 {
			return 0, b.fail(&types.Error{
				Kind: types.ErrKindAddressMaskOverlap,
				Msg: fmt.Sprintf("address mask 0x%08X overlaps with the parent mask 0x%08X",
					addrMask, parentMask),
				Attr: attr.AttrAddressMask,
			}, path)
		}
		r.addrMask = addrMask
	} else {
		r.addrMask = defaultAddressMask(r.addr) & parentMask
	}

	// Reserve the slot first so a parent always precedes its descendants.
	self := b.tree.alloc(r)

	if module, ok := decl.Attr(attr.AttrModule); ok && strings.TrimSpace(module) != "" {
		if n := len(decl.Children(attr.NodeTag)); n > 0 {
			b.log.Warn("nested node declarations ignored on module import",
				"path", path, "module", module, "count", n)
		}
		child, err := templateSource{name: strings.TrimSpace(module)}.produce(b, path, depth+1, r.addr, r.addrMask)
		if err != nil {
			return 0, err
		}
		if err := b.adopt(self, child, path); err != nil {
			return 0, err
		}
		return self, nil
	}

	if err := b.parseAccess(decl, self, path); err != nil {
		return 0, err
	}
	for _, c := range decl.Children(attr.NodeTag) {
		child, err := inlineSource{decl: c}.produce(b, path, depth+1, r.addr, r.addrMask)
		if err != nil {
			return 0, err
		}
		if err := b.adopt(self, child, path); err != nil {
			return 0, err
		}
	}
	return self, nil
}

// parseAccess fills the register mask, permission and mode of a plain node.
func (b *builder) parseAccess(decl attr.Node, self NodeID, path string) error {
	r := &b.tree.nodes[self]
	mask, ok, err := attr.Uint32(decl, attr.AttrMask)
	if err != nil {
		return b.fail(err, path)
	}
	if ok {
		r.mask = mask
	}
	if s, ok := decl.Attr(attr.AttrPermission); ok {
		p, err := types.ParsePermission(s)
		if err != nil {
			return b.fail(err, path)
		}
		r.perm = p
	}
	if s, ok := decl.Attr(attr.AttrMode); ok {
		m, err := types.ParseMode(s)
		if err != nil {
			return b.fail(err, path)
		}
		r.mode = m
	}
	return nil
}

// adopt links child under parent: the child goes in at its own id and every
// entry of its index is re-inserted prefixed by that id. The entries keep
// pointing at the child's existing records.
func (b *builder) adopt(parent, child NodeID, path string) error {
	p := &b.tree.nodes[parent]
	c := &b.tree.nodes[child]
	if !p.index.Add(c.id, uint32(child)) {
		return b.fail(&types.Error{
			Kind: types.ErrKindDuplicateIdentifier,
			Msg:  fmt.Sprintf("duplicate child id %q", c.id),
			Attr: attr.AttrID,
		}, path)
	}
	for rel, h := range c.index.All() {
		p.index.Add(index.Join(c.id, rel), h)
	}
	p.children = append(p.children, child)
	return nil
}

// fail attaches the construction path to err and logs it. Errors are logged
// once, where they are detected.
func (b *builder) fail(err error, path string) error {
	if te, ok := err.(*types.Error); ok && te.Path == "" {
		te.Path = path
	}
	b.log.Error("node construction failed", "path", path, "error", err)
	return err
}

func joinPath(parent, id string) string {
	if parent == "" {
		return id
	}
	return parent + types.PathSeparator + id
}
