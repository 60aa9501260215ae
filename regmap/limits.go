package regmap

import (
	"fmt"

	"github.com/joshuapare/regkit/pkg/types"
)

// Limits bounds the size of a tree built from a declaration. Address tables
// come from files the caller may not control, and module imports can
// multiply a small document into a large tree.
type Limits struct {
	// MaxDepth is the maximum nesting depth, the root being depth 0.
	MaxDepth int

	// MaxNodes is the maximum number of nodes in the finished tree,
	// counting imported module nodes.
	MaxNodes int

	// MaxIDLen is the maximum length of a single node id in bytes.
	MaxIDLen int
}

const (
	defaultMaxDepth = 64
	defaultMaxNodes = 1 << 20
	defaultMaxIDLen = 255

	relaxedMaxDepth = 1024
	relaxedMaxNodes = 1 << 24
	relaxedMaxIDLen = 4096

	strictMaxDepth = 16
	strictMaxNodes = 1 << 14
	strictMaxIDLen = 64
)

// DefaultLimits returns limits that accommodate any realistic address table.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth: defaultMaxDepth,
		MaxNodes: defaultMaxNodes,
		MaxIDLen: defaultMaxIDLen,
	}
}

// RelaxedLimits returns permissive limits for generated tables.
func RelaxedLimits() Limits {
	return Limits{
		MaxDepth: relaxedMaxDepth,
		MaxNodes: relaxedMaxNodes,
		MaxIDLen: relaxedMaxIDLen,
	}
}

// StrictLimits returns conservative limits for untrusted input.
func StrictLimits() Limits {
	return Limits{
		MaxDepth: strictMaxDepth,
		MaxNodes: strictMaxNodes,
		MaxIDLen: strictMaxIDLen,
	}
}

// ValidationError represents a limit validation failure.
type ValidationError struct {
	Limit    string // Name of the limit that was exceeded
	Current  int64  // Current value
	Maximum  int64  // Maximum allowed value
	NodePath string // Path to the node (if applicable)
}

func (e *ValidationError) Error() string {
	if e.NodePath != "" {
		return fmt.Sprintf("address table limit exceeded at '%s': %s is %d (max %d)",
			e.NodePath, e.Limit, e.Current, e.Maximum)
	}
	return fmt.Sprintf("address table limit exceeded: %s is %d (max %d)",
		e.Limit, e.Current, e.Maximum)
}

// limitError wraps a ValidationError into the Limit error kind.
func limitError(limit string, current, maximum int, path string) error {
	ve := &ValidationError{
		Limit:    limit,
		Current:  int64(current),
		Maximum:  int64(maximum),
		NodePath: path,
	}
	return &types.Error{Kind: types.ErrKindLimit, Msg: "limit exceeded", Err: ve}
}
