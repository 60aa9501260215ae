// Package types defines the shared vocabulary of regkit: node permissions and
// burst modes, the keyword grammars that parse them, and the typed error
// taxonomy returned by every other package.
//
// Errors carry a stable ErrKind so callers can branch on intent:
//
//	if errors.Is(err, types.ErrAccessDenied) {
//		// node is read-only
//	}
//
// This package has no dependencies beyond the standard library.
package types
