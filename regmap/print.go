package regmap

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/regkit/pkg/types"
)

const (
	DefaultIndentSize = 2
	DefaultMaxDepth   = 0
)

// PrintOptions controls Print.
type PrintOptions struct {
	// IndentSize is the number of spaces per nesting level.
	// Default: 2
	IndentSize int

	// MaxDepth limits recursion depth (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int
}

// DefaultPrintOptions returns the options used by String.
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{
		IndentSize: DefaultIndentSize,
		MaxDepth:   DefaultMaxDepth,
	}
}

// SkipChildren is returned by a Walk callback to skip the children of the
// node just visited.
var SkipChildren = errors.New("skip children")

// Walk performs a pre-order traversal of the subtree rooted at n, following
// direct children in declaration order. fn receives each node and its depth
// below n. Returning SkipChildren skips the node's children; any other
// error stops the walk and is returned.
func (n Node) Walk(fn func(Node, int) error) error {
	err := n.walk(fn, 0)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func (n Node) walk(fn func(Node, int) error, depth int) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, c := range n.rec().children {
		err := n.tree.node(c).walk(fn, depth+1)
		if err != nil && !errors.Is(err, SkipChildren) {
			return err
		}
	}
	return nil
}

// Print writes an indented dump of the subtree rooted at n, one line per
// node. The format is meant for people, not for parsing.
func (n Node) Print(w io.Writer, opts PrintOptions) error {
	if opts.IndentSize < 0 {
		opts.IndentSize = 0
	}
	return n.Walk(func(c Node, depth int) error {
		if _, err := fmt.Fprintf(w, "%s+ %s\n", strings.Repeat(" ", depth*opts.IndentSize), c.describe()); err != nil {
			return err
		}
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return SkipChildren
		}
		return nil
	})
}

// String returns the dump of the subtree rooted at n.
func (n Node) String() string {
	if !n.IsValid() {
		return "<invalid node>"
	}
	var sb strings.Builder
	_ = n.Print(&sb, DefaultPrintOptions())
	return sb.String()
}

func (n Node) describe() string {
	r := n.rec()
	return fmt.Sprintf("Node %q, Address 0x%08X, Address Mask 0x%08X, Mask 0x%08X, Permissions %s, Mode %s %s access",
		r.id, r.addr, r.addrMask, r.mask, r.perm, r.mode, accessKind(r.mode))
}

func accessKind(m types.Mode) string {
	if m == types.Single {
		return "register"
	}
	return "block"
}
