package addrtable

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/regkit/pkg/attr"
)

// Format identifies an address-table encoding.
type Format int

const (
	// FormatAuto detects the format from the file extension.
	FormatAuto Format = iota

	// FormatXML is the <node .../> element form.
	FormatXML

	// FormatYAML is the mapping form with a "nodes" sequence.
	FormatYAML

	// FormatTOML is the table form with a "nodes" array of tables.
	FormatTOML
)

// NodesKey is the YAML/TOML key listing child declarations.
const NodesKey = "nodes"

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatXML:
		return "xml"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// DetectFormat determines the format from a file extension. Unknown
// extensions are treated as XML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatXML
	}
}

// Decode reads one address table in format f. FormatAuto is not accepted
// here since there is no file name to detect from.
func Decode(r io.Reader, f Format) (*attr.Element, error) {
	switch f {
	case FormatXML:
		return DecodeXML(r)
	case FormatYAML:
		return DecodeYAML(r)
	case FormatTOML:
		return DecodeTOML(r)
	default:
		return nil, fmt.Errorf("addrtable: unsupported format %s", f)
	}
}

// DecodeFile reads the address table at path. With FormatAuto the format is
// detected from the extension.
func DecodeFile(path string, f Format) (*attr.Element, error) {
	if f == FormatAuto {
		f = DetectFormat(path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("addrtable: %w", err)
	}
	defer file.Close()

	root, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}
