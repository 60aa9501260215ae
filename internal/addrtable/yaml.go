package addrtable

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/regkit/pkg/attr"
)

// DecodeYAML decodes a YAML address table. Scalars are kept exactly as
// written, so 0x100 stays hexadecimal text and is parsed by the builder.
func DecodeYAML(r io.Reader) (*attr.Element, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("addrtable: yaml: empty document")
		}
		return nil, fmt.Errorf("addrtable: yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("addrtable: yaml: empty document")
	}
	return yamlElement(doc.Content[0])
}

func yamlElement(n *yaml.Node) (*attr.Element, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("addrtable: yaml: line %d: node declaration must be a mapping", n.Line)
	}
	el := attr.NewElement(attr.NodeTag)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if val.Kind == yaml.AliasNode {
			val = val.Alias
		}
		if key.Value == NodesKey {
			if val.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("addrtable: yaml: line %d: %q must be a sequence", val.Line, NodesKey)
			}
			for _, c := range val.Content {
				child, err := yamlElement(c)
				if err != nil {
					return nil, err
				}
				el.Add(child)
			}
			continue
		}
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("addrtable: yaml: line %d: attribute %q must be a scalar", val.Line, key.Value)
		}
		el.Attrs = append(el.Attrs, attr.Attribute{Name: key.Value, Value: val.Value})
	}
	return el, nil
}
