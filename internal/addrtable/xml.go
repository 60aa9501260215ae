package addrtable

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/regkit/pkg/attr"
)

// charsetReader transcodes the single-byte encodings address tables are
// commonly saved in. encoding/xml handles UTF-8 itself.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1", "l1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252", "x-cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	case "us-ascii", "ascii":
		return input, nil
	default:
		return nil, fmt.Errorf("addrtable: unsupported charset %q", label)
	}
}

// DecodeXML decodes the first element of r and everything below it.
// Character data and comments are ignored.
func DecodeXML(r io.Reader) (*attr.Element, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var stack []*attr.Element
	var root *attr.Element
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("addrtable: xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := attr.NewElement(t.Name.Local)
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, attr.Attribute{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("addrtable: xml: more than one root element")
				}
				root = el
			} else {
				stack[len(stack)-1].Add(el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, errors.New("addrtable: xml: no root element")
	}
	return root, nil
}
