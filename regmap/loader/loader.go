// Package loader resolves module="..." imports from address-table files.
//
// A Loader is a regmap.Provider. Module names are file paths, optionally
// prefixed with file://. Relative names are looked up next to the file that
// imports them, then in each search path, then relative to the working
// directory. Decoded documents and built templates are cached per Loader.
//
//	ldr := loader.New(&loader.Options{SearchPaths: []string{"tables"}})
//	tree, err := ldr.Load("top.xml")
//
// A Loader is not safe for concurrent use.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/regkit/internal/addrtable"
	"github.com/joshuapare/regkit/pkg/attr"
	"github.com/joshuapare/regkit/pkg/logger"
	"github.com/joshuapare/regkit/regmap"
)

// FileScheme is the optional prefix of module names.
const FileScheme = "file://"

var (
	// ErrNotFound is returned when a module name matches no file.
	ErrNotFound = errors.New("loader: module not found")

	// ErrCycle is returned when a table imports itself, directly or not.
	ErrCycle = errors.New("loader: recursive module import")
)

// Options configures a Loader.
type Options struct {
	// SearchPaths are directories tried for relative module names.
	SearchPaths []string

	// Format forces one encoding for every file. FormatAuto (the zero
	// value) detects it per file from the extension.
	Format addrtable.Format

	// Logger receives diagnostics. Nil uses logger.L.
	Logger *slog.Logger

	// Limits bounds every tree built by the loader. Nil uses
	// regmap.DefaultLimits().
	Limits *regmap.Limits
}

type placement struct {
	path     string
	addr     uint32
	addrMask uint32
}

// Loader builds register trees from address-table files.
type Loader struct {
	opts      Options
	log       *slog.Logger
	docs      map[string]*attr.Element
	templates map[placement]*regmap.Tree
	loading   []string // files currently being built, outermost first
}

// New creates a Loader. A nil *Options uses the defaults.
func New(opts *Options) *Loader {
	if opts == nil {
		opts = &Options{}
	}
	return &Loader{
		opts:      *opts,
		log:       logger.Or(opts.Logger),
		docs:      make(map[string]*attr.Element),
		templates: make(map[placement]*regmap.Tree),
	}
}

// Load builds the table at path as a standalone tree rooted at address 0
// with the full address space.
func (l *Loader) Load(path string) (*regmap.Tree, error) {
	return l.LoadAt(path, 0x00000000, 0xFFFFFFFF)
}

// LoadAt builds the table at path placed under a parent at addr with address
// mask addrMask. The returned tree is the caller's own copy.
func (l *Loader) LoadAt(path string, addr, addrMask uint32) (*regmap.Tree, error) {
	file, err := l.locate(path, "")
	if err != nil {
		return nil, err
	}
	tree, err := l.build(file, addr, addrMask)
	if err != nil {
		return nil, err
	}
	return tree.Clone(), nil
}

// Template implements regmap.Provider for names not tied to an importing
// file.
func (l *Loader) Template(name string, addr, addrMask uint32) (regmap.Node, error) {
	return scope{l: l}.Template(name, addr, addrMask)
}

// Inline implements regmap.InlineBuilder: it builds a declaration that is
// not backed by a file, resolving its imports like Template does.
func (l *Loader) Inline(decl attr.Node, addr, addrMask uint32) (regmap.Node, error) {
	tree, err := regmap.Build(decl, addr, addrMask, l.buildOptions(""))
	if err != nil {
		return regmap.Node{}, err
	}
	return tree.Root(), nil
}

// Cached returns the number of decoded documents held by the loader.
func (l *Loader) Cached() int { return len(l.docs) }

func (l *Loader) buildOptions(dir string) *regmap.Options {
	return &regmap.Options{
		Provider: scope{l: l, dir: dir},
		Logger:   l.log,
		Limits:   l.opts.Limits,
	}
}

// build decodes (or reuses) the document at file and builds it at the given
// placement.
func (l *Loader) build(file string, addr, addrMask uint32) (*regmap.Tree, error) {
	key := placement{path: file, addr: addr, addrMask: addrMask}
	if tree, ok := l.templates[key]; ok {
		l.log.Debug("template cache hit", "file", file, "address", fmt.Sprintf("0x%08X", addr))
		return tree, nil
	}

	for _, f := range l.loading {
		if f == file {
			chain := append(append([]string{}, l.loading...), file)
			return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(chain, " -> "))
		}
	}

	decl, err := l.document(file)
	if err != nil {
		return nil, err
	}

	l.loading = append(l.loading, file)
	tree, err := regmap.Build(decl, addr, addrMask, l.buildOptions(filepath.Dir(file)))
	l.loading = l.loading[:len(l.loading)-1]
	if err != nil {
		return nil, err
	}
	l.templates[key] = tree
	l.log.Debug("table built", "file", file, "nodes", tree.Len())
	return tree, nil
}

func (l *Loader) document(file string) (*attr.Element, error) {
	if doc, ok := l.docs[file]; ok {
		return doc, nil
	}
	doc, err := addrtable.DecodeFile(file, l.opts.Format)
	if err != nil {
		l.log.Error("cannot decode address table", "file", file, "error", err)
		return nil, fmt.Errorf("loader: %w", err)
	}
	l.docs[file] = doc
	return doc, nil
}

// locate maps a module name to an absolute file path. dir is the directory
// of the importing file, or "".
func (l *Loader) locate(name, dir string) (string, error) {
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), FileScheme))
	if name == "" {
		return "", fmt.Errorf("%w: empty module name", ErrNotFound)
	}

	var candidates []string
	if filepath.IsAbs(name) {
		candidates = []string{name}
	} else {
		if dir != "" {
			candidates = append(candidates, filepath.Join(dir, name))
		}
		for _, sp := range l.opts.SearchPaths {
			candidates = append(candidates, filepath.Join(sp, name))
		}
		candidates = append(candidates, name)
	}

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			return "", fmt.Errorf("loader: %w", err)
		}
		return filepath.Clean(abs), nil
	}
	return "", fmt.Errorf("%w: %q (tried %s)", ErrNotFound, name, strings.Join(candidates, ", "))
}

// scope resolves imports on behalf of one file.
type scope struct {
	l   *Loader
	dir string
}

func (s scope) Template(name string, addr, addrMask uint32) (regmap.Node, error) {
	file, err := s.l.locate(name, s.dir)
	if err != nil {
		return regmap.Node{}, err
	}
	tree, err := s.l.build(file, addr, addrMask)
	if err != nil {
		return regmap.Node{}, err
	}
	return tree.Root(), nil
}
