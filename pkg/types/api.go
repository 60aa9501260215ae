package types

import (
	"fmt"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindMissingIdentifier     ErrKind = iota // node declaration without an id
	ErrKindInvalidIdentifier                    // id contains the path separator
	ErrKindDuplicateIdentifier                  // two siblings share an id
	ErrKindInvalidAttribute                     // attribute value could not be parsed
	ErrKindAddressOverlap                       // local address escapes the parent mask
	ErrKindAddressMaskOverlap                   // explicit address mask escapes the parent mask
	ErrKindInvalidPermissionSpec                // unknown permission keyword
	ErrKindInvalidModeSpec                      // unknown mode keyword
	ErrKindNoSuchPath                           // dotted path not present in the index
	ErrKindAccessDenied                         // permission does not allow the access
	ErrKindInvalidBulkTransfer                  // block transfer on a SINGLE register
	ErrKindModule                               // external tree provider failed
	ErrKindTransport                            // bus client failed
	ErrKindLimit                                // construction limits exceeded
	ErrKindNotDispatched                        // pending value read before dispatch
	ErrKindInvalidPattern                       // selection pattern does not compile
)

var errKindNames = [...]string{
	ErrKindMissingIdentifier:     "MissingIdentifier",
	ErrKindInvalidIdentifier:     "InvalidIdentifier",
	ErrKindDuplicateIdentifier:   "DuplicateIdentifier",
	ErrKindInvalidAttribute:      "InvalidAttribute",
	ErrKindAddressOverlap:        "AddressOverlap",
	ErrKindAddressMaskOverlap:    "AddressMaskOverlap",
	ErrKindInvalidPermissionSpec: "InvalidPermissionSpec",
	ErrKindInvalidModeSpec:       "InvalidModeSpec",
	ErrKindNoSuchPath:            "NoSuchPath",
	ErrKindAccessDenied:          "AccessDenied",
	ErrKindInvalidBulkTransfer:   "InvalidBulkTransfer",
	ErrKindModule:                "Module",
	ErrKindTransport:             "Transport",
	ErrKindLimit:                 "Limit",
	ErrKindNotDispatched:         "NotDispatched",
	ErrKindInvalidPattern:        "InvalidPattern",
}

func (k ErrKind) String() string {
	if k >= 0 && int(k) < len(errKindNames) {
		return errKindNames[k]
	}
	return fmt.Sprintf("ErrKind(%d)", int(k))
}

// Error is a typed error with an optional underlying cause.
//
// Path is the dotted path of the node the error refers to (the construction
// path during a build, the node's own id during an access). Attr names the
// offending attribute when there is one.
type Error struct {
	Kind ErrKind
	Msg  string
	Path string
	Attr string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Attr != "" {
		msg = fmt.Sprintf("%s (attribute %q)", msg, e.Attr)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind. This lets callers
// test against the sentinels below with errors.Is regardless of message or
// path.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	ErrMissingIdentifier     = &Error{Kind: ErrKindMissingIdentifier, Msg: "node must have an id"}
	ErrInvalidIdentifier     = &Error{Kind: ErrKindInvalidIdentifier, Msg: "node id contains the path separator"}
	ErrDuplicateIdentifier   = &Error{Kind: ErrKindDuplicateIdentifier, Msg: "duplicate node id"}
	ErrInvalidAttribute      = &Error{Kind: ErrKindInvalidAttribute, Msg: "invalid attribute value"}
	ErrAddressOverlap        = &Error{Kind: ErrKindAddressOverlap, Msg: "address overlaps the parent address mask"}
	ErrAddressMaskOverlap    = &Error{Kind: ErrKindAddressMaskOverlap, Msg: "address mask overlaps the parent address mask"}
	ErrInvalidPermissionSpec = &Error{Kind: ErrKindInvalidPermissionSpec, Msg: "invalid permission"}
	ErrInvalidModeSpec       = &Error{Kind: ErrKindInvalidModeSpec, Msg: "invalid mode"}
	ErrNoSuchPath            = &Error{Kind: ErrKindNoSuchPath, Msg: "no branch found with given id-path"}
	ErrAccessDenied          = &Error{Kind: ErrKindAccessDenied, Msg: "access denied"}
	ErrInvalidBulkTransfer   = &Error{Kind: ErrKindInvalidBulkTransfer, Msg: "bulk transfer requested on single register node"}
	ErrModule                = &Error{Kind: ErrKindModule, Msg: "module resolution failed"}
	ErrTransport             = &Error{Kind: ErrKindTransport, Msg: "transport failed"}
	ErrLimit                 = &Error{Kind: ErrKindLimit, Msg: "limit exceeded"}
	ErrNotDispatched         = &Error{Kind: ErrKindNotDispatched, Msg: "value has not been dispatched"}
	ErrInvalidPattern        = &Error{Kind: ErrKindInvalidPattern, Msg: "invalid selection pattern"}
)

// LookupError reports a failed dotted-path lookup together with the
// diagnostics gathered while searching for a partial match.
type LookupError struct {
	Path    string // requested path
	Partial string // longest existing prefix of Path, "" if none
	Tree    string // dump of the partial match (or of the searched node)
}

func (e *LookupError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("no branch found with id-path %q (partial match %q)", e.Path, e.Partial)
	}
	return fmt.Sprintf("no branch found with id-path %q (no partial match)", e.Path)
}

// Unwrap ties the lookup error to the NoSuchPath kind.
func (e *LookupError) Unwrap() error { return ErrNoSuchPath }
