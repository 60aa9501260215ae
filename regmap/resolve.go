package regmap

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/joshuapare/regkit/pkg/types"
)

// Resolve returns the descendant at the dotted path relative to n.
//
// On a miss the path is trimmed at its rightmost separator until a prefix is
// found in the index. The longest such prefix and a dump of its subtree (or
// of n when nothing matches) are logged and carried in the returned
// *types.LookupError, which matches types.ErrNoSuchPath.
//
// Example:
//
//	reg, err := tree.Root().Resolve("ctrl.reset")
//	if errors.Is(err, types.ErrNoSuchPath) {
//		...
//	}
func (n Node) Resolve(path string) (Node, error) {
	r := n.rec()
	if h, ok := r.index.Get(path); ok {
		return n.tree.node(NodeID(h)), nil
	}

	lerr := &types.LookupError{Path: path}
	log := n.tree.log
	log.Error("no branch found with id-path", "node", r.id, "path", path)

	prefix := path
	for {
		i := strings.LastIndex(prefix, types.PathSeparator)
		if i < 0 {
			break
		}
		prefix = prefix[:i]
		if h, ok := r.index.Get(prefix); ok {
			lerr.Partial = prefix
			lerr.Tree = n.tree.node(NodeID(h)).String()
			break
		}
	}
	if lerr.Partial != "" {
		log.Error("partial match found for id-path", "path", path, "partial", lerr.Partial, "tree", lerr.Tree)
	} else {
		lerr.Tree = n.String()
		log.Error("not even a partial match found for id-path", "path", path, "tree", lerr.Tree)
	}
	return Node{}, lerr
}

// Select returns the paths of every descendant of n whose full dotted path
// matches pattern, in lexicographic order. The pattern must match the whole
// path.
func (n Node) Select(pattern string) ([]string, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidPattern,
			Msg:  fmt.Sprintf("cannot compile %q", pattern),
			Path: n.ID(),
			Err:  err,
		}
	}

	log := n.tree.log
	log.Debug("selecting nodes", "node", n.ID(), "pattern", pattern)
	var out []string
	for p := range n.rec().index.All() {
		if re.MatchString(p) {
			log.Debug("node matches", "path", p)
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out, nil
}

// IDs returns the bare id of every descendant of n, at any depth, in no
// particular order. Ids repeated in different branches appear repeatedly.
func (n Node) IDs() []string {
	r := n.rec()
	out := make([]string, 0, r.index.Len())
	for _, h := range r.index.All() {
		out = append(out, n.tree.nodes[h].id)
	}
	return out
}

// Paths returns the dotted path of every descendant of n in lexicographic
// order.
func (n Node) Paths() []string {
	return n.rec().index.Keys()
}
