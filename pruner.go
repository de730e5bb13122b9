package labelprune

import (
	"bytes"
	"go/ast"
	"go/token"
	"slices"

	"golang.org/x/tools/go/ast/astutil"
)

// posRange is a half-open source range.
type posRange struct {
	start, end token.Pos
}

// pruner applies label decisions to a parsed file in place.
type pruner struct {
	config    *Config
	src       []byte
	fset      *token.FileSet
	file      *ast.File
	tokenFile *token.File
	removed   []posRange
	stats     Stats
}

// applyPre is called before visiting children nodes.
func (e *pruner) applyPre(c *astutil.Cursor) bool {
	stmt, ok := c.Node().(*ast.LabeledStmt)
	if !ok {
		return true
	}

	switch Visit[ast.Stmt](e.config, &labeledNode{pruner: e, cursor: c, stmt: stmt}) {
	case Unwrap:
		e.stats.Unwrapped++
		return false
	case Prune:
		e.stats.Pruned++
		return false
	default:
		return true
	}
}

// labeledNode exposes a labeled statement under a cursor as a Node.
type labeledNode struct {
	pruner *pruner
	cursor *astutil.Cursor
	stmt   *ast.LabeledStmt
}

func (n *labeledNode) Label() string { return n.stmt.Label.Name }

func (n *labeledNode) Body() ast.Stmt { return n.stmt.Stmt }

// Replace puts body where the labeled statement was. The body is walked
// first so labels nested inside it are decided too.
func (n *labeledNode) Replace(body ast.Stmt) {
	e := n.pruner
	e.removeLines(e.line(n.stmt.Pos()), e.line(body.Pos()))
	n.cursor.Replace(astutil.Apply(body, e.applyPre, nil).(ast.Stmt))
}

// Remove deletes the labeled statement. Outside a statement list, where
// nothing can be deleted, it is replaced by an empty statement.
func (n *labeledNode) Remove() {
	e := n.pruner
	e.removed = append(e.removed, posRange{start: n.stmt.Pos(), end: e.lineEnd(n.stmt.End())})

	if e.ownsLines(n.stmt) {
		start, end := e.line(n.stmt.Pos()), e.line(n.stmt.End())
		if end < e.tokenFile.LineCount() {
			e.removeLines(start, end+1)
		}
	}

	if n.cursor.Index() < 0 {
		n.cursor.Replace(&ast.EmptyStmt{Semicolon: n.stmt.Pos(), Implicit: true})
		return
	}
	n.cursor.Delete()
}

// ownsLines reports whether node starts its line and is followed by nothing
// but a comment on its last line.
func (e *pruner) ownsLines(node ast.Node) bool {
	start, end := e.tokenFile.Offset(node.Pos()), e.tokenFile.Offset(node.End())

	before := e.src[:start]
	if i := bytes.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	if len(bytes.TrimSpace(before)) > 0 {
		return false
	}

	after, _, found := bytes.Cut(e.src[end:], []byte{'\n'})
	if !found {
		return false
	}
	after = bytes.TrimSpace(after)
	return len(after) == 0 || bytes.HasPrefix(after, []byte("//"))
}

// lineEnd returns the position of the newline ending the line of pos.
func (e *pruner) lineEnd(pos token.Pos) token.Pos {
	off := e.tokenFile.Offset(pos)
	if i := bytes.IndexByte(e.src[off:], '\n'); i >= 0 {
		return e.tokenFile.Pos(off + i)
	}
	return e.tokenFile.Pos(len(e.src))
}

// dropComments removes comments that were inside removed statements or
// trailing them on their last line.
func (e *pruner) dropComments() {
	if len(e.removed) == 0 {
		return
	}
	e.file.Comments = slices.DeleteFunc(e.file.Comments, func(cg *ast.CommentGroup) bool {
		return slices.ContainsFunc(e.removed, func(r posRange) bool {
			return cg.Pos() >= r.start && cg.End() <= r.end
		})
	})
}

// line returns the line number for a position, ignoring //line directives.
func (e *pruner) line(pos token.Pos) int {
	return e.tokenFile.Line(pos)
}

// removeLines removes all newlines between two line numbers, so that they end
// up on the same line.
func (e *pruner) removeLines(fromLine, toLine int) {
	for fromLine < toLine {
		e.tokenFile.MergeLine(fromLine)
		toLine--
	}
}
