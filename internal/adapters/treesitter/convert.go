package treesitter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/atomtx/internal/domain/jsast"
)

// converter builds jsast nodes from a tree-sitter tree. Each typed conversion
// returns ok=false when the node carries anything the typed form cannot print
// back (comments, TypeScript-only tokens, unusual modifiers); the node then
// becomes opaque and keeps its exact source text.
type converter struct {
	src []byte
}

func convertProgram(root *tree_sitter.Node, src []byte) *jsast.Program {
	c := converter{src: src}
	prog := &jsast.Program{}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		prog.Items = append(prog.Items, c.stmt(root.NamedChild(i)))
	}
	return prog
}

func (c *converter) text(n *tree_sitter.Node) string {
	return string(c.src[n.StartByte():n.EndByte()])
}

func loc(n *tree_sitter.Node) jsast.Loc {
	return jsast.Loc(n.StartByte())
}

// head is the source text from the start of n up to (not including) body.
func (c *converter) head(n, body *tree_sitter.Node) string {
	return strings.TrimSpace(string(c.src[n.StartByte():body.StartByte()]))
}

func multiLine(n *tree_sitter.Node) bool {
	return n.StartPosition().Row != n.EndPosition().Row
}

// plain reports whether n's direct children contain no comments and no
// anonymous tokens other than allowed.
func plain(n *tree_sitter.Node, allowed ...string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == "comment" {
			return false
		}
		if child.IsNamed() {
			continue
		}
		ok := false
		for _, a := range allowed {
			if child.Kind() == a {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func hasToken(n *tree_sitter.Node, token string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if !child.IsNamed() && child.Kind() == token {
			return true
		}
	}
	return false
}

// deferredKinds hold code that runs later than the code around them.
var deferredKinds = map[string]bool{
	"class_body":                     true,
	"arrow_function":                 true,
	"function_expression":            true,
	"function":                       true,
	"generator_function":             true,
	"function_declaration":           true,
	"generator_function_declaration": true,
	"method_definition":              true,
}

func isStatementKind(kind string) bool {
	return kind == "statement_block" ||
		strings.HasSuffix(kind, "_statement") ||
		strings.HasSuffix(kind, "_declaration")
}

// parts splits an opaque node into source text and holes. Every named child
// with named children of its own becomes a hole, so nested syntax is still
// converted and visited.
func (c *converter) parts(n *tree_sitter.Node) []jsast.Part {
	var parts []jsast.Part
	pos := n.StartByte()
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if !child.IsNamed() || child.NamedChildCount() == 0 || child.Kind() == "comment" {
			continue
		}
		if child.StartByte() > pos {
			parts = append(parts, jsast.Part{Text: string(c.src[pos:child.StartByte()])})
		}
		if isStatementKind(child.Kind()) {
			parts = append(parts, jsast.Part{Stmt: c.stmt(child)})
		} else {
			parts = append(parts, jsast.Part{Expr: c.expr(child)})
		}
		pos = child.EndByte()
	}
	if n.EndByte() > pos {
		parts = append(parts, jsast.Part{Text: string(c.src[pos:n.EndByte()])})
	}
	return parts
}

func (c *converter) opaqueStmt(n *tree_sitter.Node) jsast.Stmt {
	return jsast.Stmt{
		Data: &jsast.SOpaque{Kind: n.Kind(), Parts: c.parts(n), Deferred: deferredKinds[n.Kind()]},
		Loc:  loc(n),
	}
}

func (c *converter) opaqueExpr(n *tree_sitter.Node) jsast.Expr {
	return jsast.Expr{
		Data: &jsast.EOpaque{Kind: n.Kind(), Parts: c.parts(n), Deferred: deferredKinds[n.Kind()]},
		Loc:  loc(n),
	}
}

// firstNamed returns n's first named child of the given kind.
func firstNamed(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

// onlyNamedChild returns n's single named child, if that is all it has.
func onlyNamedChild(n *tree_sitter.Node) (*tree_sitter.Node, bool) {
	if n.NamedChildCount() != 1 {
		return nil, false
	}
	return n.NamedChild(0), true
}
