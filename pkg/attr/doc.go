// Package attr models the generic, attribute-bearing declaration tree that an
// address-table parser hands to the register tree builder.
//
// A declaration has a tag, a set of string attributes and ordered child
// declarations. The builder only looks at children tagged NodeTag and reads
// the attributes listed in the Attr* constants. Element is a plain in-memory
// implementation used by the bundled decoders and by tests.
package attr
