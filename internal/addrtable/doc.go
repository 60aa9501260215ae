// Package addrtable decodes address-table documents into attribute trees
// for regmap.Build.
//
// Three encodings carry the same model. In XML every declaration is a
// <node> element and its attributes are XML attributes:
//
//	<node id="top">
//	  <node id="ctrl" address="0x100">
//	    <node id="reset" address="0x1" mask="0x1" permission="w"/>
//	  </node>
//	</node>
//
// In YAML and TOML a declaration is a mapping (table) whose scalar entries
// are attributes and whose "nodes" entry lists the child declarations:
//
//	id: top
//	nodes:
//	  - id: ctrl
//	    address: 0x100
//
// XML documents may declare ISO-8859-1 or Windows-1252 encoding; they are
// transcoded to UTF-8 while decoding.
package addrtable
