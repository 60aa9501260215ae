package addrtable

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/joshuapare/regkit/pkg/attr"
)

// DecodeTOML decodes a TOML address table. The document's top-level table
// is the root declaration; children are an array of tables under "nodes".
// Attributes are emitted in name order, since TOML tables are unordered.
func DecodeTOML(r io.Reader) (*attr.Element, error) {
	var data map[string]any
	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("addrtable: toml: %w", err)
	}
	return tomlElement(data, "")
}

func tomlElement(table map[string]any, where string) (*attr.Element, error) {
	el := attr.NewElement(attr.NodeTag)

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		v := table[k]
		if k == NodesKey {
			children, err := tomlTables(v, where)
			if err != nil {
				return nil, err
			}
			for i, c := range children {
				child, err := tomlElement(c, fmt.Sprintf("%s%s[%d].", where, NodesKey, i))
				if err != nil {
					return nil, err
				}
				el.Add(child)
			}
			continue
		}
		s, err := tomlScalar(v)
		if err != nil {
			return nil, fmt.Errorf("addrtable: toml: %s%s: %w", where, k, err)
		}
		el.Attrs = append(el.Attrs, attr.Attribute{Name: k, Value: s})
	}
	return el, nil
}

// tomlTables accepts both [[nodes]] sections and inline arrays of tables.
func tomlTables(v any, where string) ([]map[string]any, error) {
	switch t := v.(type) {
	case []map[string]any:
		return t, nil
	case []any:
		out := make([]map[string]any, 0, len(t))
		for i, e := range t {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("addrtable: toml: %s%s[%d] must be a table", where, NodesKey, i)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("addrtable: toml: %s%s must be an array of tables", where, NodesKey)
	}
}

func tomlScalar(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	default:
		return "", fmt.Errorf("unsupported attribute type %T", v)
	}
}
