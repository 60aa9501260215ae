// Package regmap models a hardware register address space as a typed tree of
// named nodes.
//
// # Core Types
//
// Tree is an arena of node records. Node is a small, copyable handle (tree +
// NodeID) used for every query and access. Each record carries its absolute
// bus address, the address mask granted to its subtree, a register bit mask,
// a permission and a burst mode, plus a flattened index of every descendant
// keyed by its dotted relative path. A descendant is stored once and
// referenced by handle from the index of each ancestor.
//
// # Construction
//
// Build walks a generic attribute tree (see package attr) and lays the nodes
// out bottom-up:
//
//	tree, err := regmap.Build(decl, 0x00000000, 0xFFFFFFFF, &regmap.Options{
//		Provider: ldr, // resolves module="..." imports
//	})
//
// Addresses are inherited: a child at local address a under a parent at
// (base, mask) lives at base | (a & mask), and a must not escape mask. A node
// without an explicit address-mask gets the widest run of low bits that does
// not overlap its address. Malformed declarations abort the whole build.
//
// Imported modules are grafted: the provider's subtree is deep-copied into
// the new arena, so no record is ever shared between two trees.
//
// # Lookup
//
//	reg, err := tree.Root().Resolve("ctrl.reset")
//	paths, err := tree.Root().Select(`ctrl\..*`)
//
// # Access
//
// Read, Write, ReadBlock, WriteBlock, ReadSigned, ReadBlockSigned, RMWBits
// and RMWSum check the node's permission and mode and delegate to the bus
// client supplied by the tree's Owner. Reads return pending handles that the
// client resolves on Dispatch.
//
// A built tree is never mutated (apart from SetOwner), so concurrent lookups
// and accesses are safe. Clone produces an independent copy.
package regmap
