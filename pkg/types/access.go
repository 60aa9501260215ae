package types

import (
	"fmt"
	"strings"
)

// NoMask is the register mask sentinel meaning "whole word, no masking".
const NoMask uint32 = 0xFFFFFFFF

// PathSeparator separates the components of a dotted node path.
const PathSeparator = "."

// Permission is the access rights of a node, a bit set of Read and Write.
type Permission uint8

const (
	Read      Permission = 0x1
	Write     Permission = 0x2
	ReadWrite Permission = Read | Write
)

// CanRead reports whether p includes read access.
func (p Permission) CanRead() bool { return p&Read != 0 }

// CanWrite reports whether p includes write access.
func (p Permission) CanWrite() bool { return p&Write != 0 }

// String renders p as the two-character flag form used in dumps ("rw", "r-", "-w").
func (p Permission) String() string {
	b := []byte{'-', '-'}
	if p.CanRead() {
		b[0] = 'r'
	}
	if p.CanWrite() {
		b[1] = 'w'
	}
	return string(b)
}

// Mode selects the burst semantics of block transfers.
type Mode uint8

const (
	Single         Mode = iota // one register
	Incremental                // address increments per word
	NonIncremental             // same address repeated (FIFO port)
)

func (m Mode) String() string {
	switch m {
	case Single:
		return "SINGLE"
	case Incremental:
		return "INCREMENTAL"
	case NonIncremental:
		return "NON-INCREMENTAL"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// -----------------------------------------------------------------------------
// Keyword grammars
// -----------------------------------------------------------------------------

var permissionKeywords = map[string]Permission{
	"r":         Read,
	"w":         Write,
	"read":      Read,
	"write":     Write,
	"rw":        ReadWrite,
	"wr":        ReadWrite,
	"readwrite": ReadWrite,
	"writeread": ReadWrite,
}

var modeKeywords = map[string]Mode{
	"single":          Single,
	"block":           Incremental,
	"incremental":     Incremental,
	"inc":             Incremental,
	"port":            NonIncremental,
	"non-incremental": NonIncremental,
	"non-inc":         NonIncremental,
}

// ParsePermission maps a permission keyword to its Permission. Keywords are
// case-sensitive; surrounding whitespace is ignored.
func ParsePermission(s string) (Permission, error) {
	if p, ok := permissionKeywords[strings.TrimSpace(s)]; ok {
		return p, nil
	}
	return 0, &Error{
		Kind: ErrKindInvalidPermissionSpec,
		Msg:  fmt.Sprintf("invalid permission %q", s),
		Attr: "permission",
	}
}

// ParseMode maps a mode keyword to its Mode. Keywords are case-sensitive;
// surrounding whitespace is ignored.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeKeywords[strings.TrimSpace(s)]; ok {
		return m, nil
	}
	return 0, &Error{
		Kind: ErrKindInvalidModeSpec,
		Msg:  fmt.Sprintf("invalid mode %q", s),
		Attr: "mode",
	}
}
