package attr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/regkit/pkg/types"
)

// NodeTag is the tag of child declarations that describe register nodes.
const NodeTag = "node"

// Attribute names understood by the builder.
const (
	AttrID          = "id"
	AttrAddress     = "address"
	AttrAddressMask = "address-mask"
	AttrMask        = "mask"
	AttrPermission  = "permission"
	AttrMode        = "mode"
	AttrModule      = "module"
)

// Node is one declaration of a parsed address table.
type Node interface {
	// Tag returns the declaration's tag (element name).
	Tag() string

	// Attr returns the raw value of the named attribute.
	Attr(name string) (string, bool)

	// Children returns the ordered child declarations carrying the given tag.
	Children(tag string) []Node
}

// Attribute is a single name/value pair of an Element.
type Attribute struct {
	Name  string
	Value string
}

// Element is an in-memory Node. Attributes keep their declaration order so
// that re-encoding and debugging output stay stable.
type Element struct {
	Name  string
	Attrs []Attribute
	Elems []*Element
}

// NewElement creates an element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Name: tag}
}

// NewNode creates a node declaration with the given id.
func NewNode(id string) *Element {
	e := NewElement(NodeTag)
	if id != "" {
		e.Set(AttrID, id)
	}
	return e
}

// Tag implements Node.
func (e *Element) Tag() string { return e.Name }

// Attr implements Node.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Children implements Node.
func (e *Element) Children(tag string) []Node {
	var out []Node
	for _, c := range e.Elems {
		if c.Name == tag {
			out = append(out, c)
		}
	}
	return out
}

// Set adds or replaces an attribute and returns e for chaining.
func (e *Element) Set(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attribute{Name: name, Value: value})
	return e
}

// SetUint32 stores v as a hexadecimal attribute.
func (e *Element) SetUint32(name string, v uint32) *Element {
	return e.Set(name, fmt.Sprintf("0x%08X", v))
}

// Add appends child elements and returns e.
func (e *Element) Add(children ...*Element) *Element {
	e.Elems = append(e.Elems, children...)
	return e
}

// Uint32 reads an unsigned 32-bit attribute. Values accept the Go integer
// literal prefixes (0x, 0o, 0b) and underscores. A missing attribute returns
// ok == false with a nil error.
func Uint32(n Node, name string) (v uint32, ok bool, err error) {
	raw, ok := n.Attr(name)
	if !ok {
		return 0, false, nil
	}
	parsed, perr := strconv.ParseUint(strings.TrimSpace(raw), 0, 32)
	if perr != nil {
		return 0, true, &types.Error{
			Kind: types.ErrKindInvalidAttribute,
			Msg:  fmt.Sprintf("cannot parse %q as an unsigned 32-bit integer", raw),
			Attr: name,
			Err:  perr,
		}
	}
	return uint32(parsed), true, nil
}
