package labelprune

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"
)

// Stats counts the labeled statements acted upon in one file.
type Stats struct {
	Unwrapped int
	Pruned    int
}

// Changed reports whether any labeled statement was unwrapped or pruned.
func (s Stats) Changed() bool { return s.Unwrapped > 0 || s.Pruned > 0 }

// Format is a convenience function that rewrites src using opts. This is
// equivalent to calling:
//
//	New(opts).Format(src)
func Format(src []byte, opts *Options) ([]byte, error) {
	return New(opts).Format(src)
}

// Formatter rewrites Go source files using a resolved Config.
type Formatter struct {
	config *Config
}

// New creates a formatter for opts. The options are resolved once; a nil
// opts uses the default prefix and an empty feature map.
// The returned formatter can be reused, including concurrently.
func New(opts *Options) *Formatter {
	return &Formatter{config: Resolve(opts)}
}

// Config returns the resolved configuration.
func (f *Formatter) Config() *Config { return f.config }

// Format rewrites the labeled statements of src and returns the result
// printed with go/format.
func (f *Formatter) Format(src []byte) ([]byte, error) {
	out, _, err := f.Process(src)
	return out, err
}

// Process is like Format but also reports what was changed.
//
// Generated files are returned unchanged.
func (f *Formatter) Process(src []byte) ([]byte, Stats, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "", src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to parse source: %w", err)
	}

	if ast.IsGenerated(file) {
		return src, Stats{}, nil
	}

	p := &pruner{
		config:    f.config,
		src:       src,
		fset:      fset,
		file:      file,
		tokenFile: fset.File(file.Pos()),
	}

	var used []*ast.ImportSpec
	if !f.config.keepImports {
		used = p.usedImports()
	}

	astutil.Apply(file, p.applyPre, nil)
	p.dropComments()

	if p.stats.Pruned > 0 && !f.config.keepImports {
		p.removeUnusedImports(used)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, Stats{}, fmt.Errorf("failed to format AST: %w", err)
	}

	return buf.Bytes(), p.stats, nil
}
