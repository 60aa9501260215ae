// Package index provides the flattened path index of a register node.
//
// # Overview
//
// Every node in a register tree keeps an Index holding one entry per
// descendant at any depth, keyed by the dotted path relative to that node
// ("ctrl", "ctrl.reset", "ctrl.reset.bit0"). Values are node handles into the
// tree's arena, so one descendant is referenced from the index of each of its
// ancestors without being duplicated.
//
// # Usage Example
//
// Merging a child's index into its parent while building:
//
//	parent.Add(childID, child)
//	for rel, h := range child.All() {
//		parent.Add(index.Join(childID, rel), h)
//	}
//
// Iteration order is unspecified. Callers that need a stable order sort the
// keys themselves (see Keys).
package index
