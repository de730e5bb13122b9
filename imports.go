package labelprune

import (
	"go/ast"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
)

// usedImports returns the imports that appear to be referenced by the file.
//
// astutil.UsesImport guesses the package name of unnamed imports from the
// last path element, so imports it does not see as used are never removed.
func (e *pruner) usedImports() []*ast.ImportSpec {
	var used []*ast.ImportSpec
	for _, spec := range e.file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if astutil.UsesImport(e.file, path) {
			used = append(used, spec)
		}
	}
	return used
}

// removeUnusedImports deletes the imports in used that are no longer
// referenced.
func (e *pruner) removeUnusedImports(used []*ast.ImportSpec) {
	for _, spec := range used {
		path, _ := strconv.Unquote(spec.Path.Value)
		if astutil.UsesImport(e.file, path) {
			continue
		}
		var name string
		if spec.Name != nil {
			name = spec.Name.Name
		}
		astutil.DeleteNamedImport(e.fset, e.file, name, path)
	}
}
