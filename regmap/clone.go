package regmap

// graft deep-copies the subtree rooted at src into t and returns the handle
// of the copied root. When lim is non-nil, depth and node count are checked
// against it before anything is copied, the subtree root being placed at
// depth; on failure t is unchanged.
func (t *Tree) graft(src Node, lim *Limits, depth int, path string) (NodeID, error) {
	if lim != nil {
		if err := checkSubtree(src, lim, depth, len(t.nodes), path); err != nil {
			return 0, err
		}
	}
	return t.copySubtree(src), nil
}

// checkSubtree walks src in pre-order as if its nodes were appended to an
// arena already holding count records.
func checkSubtree(src Node, lim *Limits, depth, count int, path string) error {
	from := src.tree
	var walk func(id NodeID, d int, p string) error
	walk = func(id NodeID, d int, p string) error {
		r := &from.nodes[id]
		p = joinPath(p, r.id)
		if d > lim.MaxDepth {
			return limitError("MaxDepth", d, lim.MaxDepth, p)
		}
		if count >= lim.MaxNodes {
			return limitError("MaxNodes", count+1, lim.MaxNodes, p)
		}
		count++
		for _, c := range r.children {
			if err := walk(c, d+1, p); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(src.id, depth, path)
}

// copySubtree copies the subtree rooted at src into t. Handles in the copied
// indices are remapped, so a descendant shared by several ancestor indices
// in src is again shared in t.
func (t *Tree) copySubtree(src Node) NodeID {
	from := src.tree
	remap := make(map[NodeID]NodeID, from.nodes[src.id].index.Len()+1)

	var walk func(id NodeID)
	walk = func(id NodeID) {
		r := from.nodes[id]
		remap[id] = t.alloc(record{
			id:       r.id,
			addr:     r.addr,
			addrMask: r.addrMask,
			mask:     r.mask,
			perm:     r.perm,
			mode:     r.mode,
		})
		for _, c := range r.children {
			walk(c)
		}
	}
	walk(src.id)

	mapHandle := func(h uint32) uint32 { return uint32(remap[NodeID(h)]) }
	for old, nw := range remap {
		r := &from.nodes[old]
		dst := &t.nodes[nw]
		dst.children = make([]NodeID, len(r.children))
		for i, c := range r.children {
			dst.children[i] = remap[c]
		}
		dst.index = r.index.Remap(mapHandle)
	}
	return remap[src.id]
}

// Clone returns an independent deep copy of t. The copy keeps t's owner.
func (t *Tree) Clone() *Tree {
	nt := newTree(t.log)
	nt.owner = t.owner
	nt.root = nt.copySubtree(t.Root())
	return nt
}

// Clone deep-copies the subtree rooted at n into a new tree and returns the
// copy's root. No record of the copy is shared with n's tree. Cloning an
// invalid node returns an invalid node.
func (n Node) Clone() Node {
	if !n.IsValid() {
		return Node{}
	}
	nt := newTree(n.tree.log)
	nt.owner = n.tree.owner
	nt.root = nt.copySubtree(n)
	return nt.Root()
}
