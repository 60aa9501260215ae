package addrtable

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/pkg/attr"
	"github.com/joshuapare/regkit/regmap"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<!-- sample table -->
<node id="top">
  <node id="ctrl" address="0x100">
    <node id="reset" address="0x1" mask="0x1" permission="w"/>
    <node id="status" address="0x2" permission="r"/>
  </node>
  <node id="fifo" address="0x200" mode="port"/>
</node>
`

const sampleYAML = `
id: top
nodes:
  - id: ctrl
    address: 0x100
    nodes:
      - id: reset
        address: 0x1
        mask: 0x1
        permission: w
      - id: status
        address: 0x2
        permission: r
  - id: fifo
    address: 0x200
    mode: port
`

const sampleTOML = `
id = "top"

[[nodes]]
id = "ctrl"
address = 0x100

  [[nodes.nodes]]
  id = "reset"
  address = 0x1
  mask = 0x1
  permission = "w"

  [[nodes.nodes]]
  id = "status"
  address = 0x2
  permission = "r"

[[nodes]]
id = "fifo"
address = "0x200"
mode = "port"
`

func TestDecodeXML(t *testing.T) {
	root, err := DecodeXML(strings.NewReader(sampleXML))
	require.NoError(t, err)

	want := attr.NewNode("top").Add(
		attr.NewNode("ctrl").Set("address", "0x100").Add(
			attr.NewNode("reset").Set("address", "0x1").Set("mask", "0x1").Set("permission", "w"),
			attr.NewNode("status").Set("address", "0x2").Set("permission", "r"),
		),
		attr.NewNode("fifo").Set("address", "0x200").Set("mode", "port"),
	)
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("DecodeXML mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeXML_Latin1(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><node id=\"caf\xe9\"/>"
	root, err := DecodeXML(strings.NewReader(doc))
	require.NoError(t, err)
	id, _ := root.Attr("id")
	assert.Equal(t, "café", id)

	doc = "<?xml version=\"1.0\" encoding=\"windows-1252\"?><node id=\"\x80\"/>"
	root, err = DecodeXML(strings.NewReader(doc))
	require.NoError(t, err)
	id, _ = root.Attr("id")
	assert.Equal(t, "€", id)
}

func TestDecodeXML_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":     "",
		"unclosed":  `<node id="a">`,
		"two roots": `<node id="a"/><node id="b"/>`,
		"charset":   `<?xml version="1.0" encoding="EBCDIC"?><node id="a"/>`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeXML(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeYAML_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"not a mapping":  "- a\n- b\n",
		"nodes scalar":   "id: a\nnodes: 3\n",
		"nested attr":    "id: a\naddress: {x: 1}\n",
		"child sequence": "id: a\nnodes:\n  - [1, 2]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeYAML(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeTOML_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax":      "id = ",
		"float":       "id = \"a\"\naddress = 1.5\n",
		"nodes table": "id = \"a\"\n[nodes]\nid = \"b\"\n",
		"nodes mixed": "id = \"a\"\nnodes = [1, 2]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeTOML(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeTOML_InlineTables(t *testing.T) {
	root, err := DecodeTOML(strings.NewReader(`id = "a"
nodes = [{id = "b", address = 4}, {id = "c"}]
`))
	require.NoError(t, err)
	require.Len(t, root.Elems, 2)
	addr, ok := root.Elems[0].Attr("address")
	require.True(t, ok)
	assert.Equal(t, "4", addr)
}

func TestFormatsAgree(t *testing.T) {
	var dumps []string
	for _, tc := range []struct {
		f   Format
		doc string
	}{
		{FormatXML, sampleXML},
		{FormatYAML, sampleYAML},
		{FormatTOML, sampleTOML},
	} {
		root, err := Decode(strings.NewReader(tc.doc), tc.f)
		require.NoError(t, err, tc.f.String())
		tree, err := regmap.Build(root, 0, 0xFFFFFFFF, nil)
		require.NoError(t, err, tc.f.String())
		dumps = append(dumps, tree.Root().String())
	}
	assert.Equal(t, dumps[0], dumps[1], "yaml")
	assert.Equal(t, dumps[0], dumps[2], "toml")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatXML, DetectFormat("a/b/table.xml"))
	assert.Equal(t, FormatYAML, DetectFormat("table.yaml"))
	assert.Equal(t, FormatYAML, DetectFormat("TABLE.YML"))
	assert.Equal(t, FormatTOML, DetectFormat("table.toml"))
	assert.Equal(t, FormatXML, DetectFormat("table"))
}

func TestDecode_Auto(t *testing.T) {
	_, err := Decode(strings.NewReader(sampleXML), FormatAuto)
	assert.Error(t, err)
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	root, err := DecodeFile(path, FormatAuto)
	require.NoError(t, err)
	id, _ := root.Attr("id")
	assert.Equal(t, "top", id)

	_, err = DecodeFile(filepath.Join(dir, "missing.xml"), FormatAuto)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<node"), 0o644))
	_, err = DecodeFile(bad, FormatAuto)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}
