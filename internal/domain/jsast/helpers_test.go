package jsast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// AST helpers
// Expectation: Node builders and name derivation produce valid identifiers.
// =============================================================================

func TestNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"atoms.ts", "atoms"},
		{"src/atoms/countAtom.ts", "countAtom"},
		{"src/atoms/index.ts", "atoms"},
		{"index.js", "index"},
		{`C:\src\my-atoms.tsx`, "my_atoms"},
		{"src/2fa.ts", "fa"},
		{"src/@@@.ts", "_"},
		{"src/$store.js", "$store"},
		{"src/new.ts", "_new"},
		{"default.js", "_default"},
		{"src/class/index.ts", "_class"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, NameFromPath(tt.path))
		})
	}
}

func TestUnparen(t *testing.T) {
	inner := Call(Ident("atom"))
	e := Expr{Data: &EParen{Value: Expr{Data: &EParen{Value: inner}}}}

	got := Unparen(&e)
	assert.Equal(t, inner, *got)

	*got = Ident("replaced")
	assert.Equal(t, Ident("replaced"), e.Data.(*EParen).Value.Data.(*EParen).Value, "result aliases the tree")
}

func TestStringStmt(t *testing.T) {
	v, ok := StringStmt(ExprStmt(Str("use client")))
	assert.True(t, ok)
	assert.Equal(t, "use client", v)

	_, ok = StringStmt(ExprStmt(Ident("x")))
	assert.False(t, ok)
	_, ok = StringStmt(Stmt{Data: &SEmpty{}})
	assert.False(t, ok)
}

func TestLocalKind(t *testing.T) {
	assert.Equal(t, "var", LocalVar.String())
	assert.Equal(t, "let", LocalLet.String())
	assert.Equal(t, "const", LocalConst.String())
}

func TestDeclaredNames(t *testing.T) {
	items := []Stmt{
		{Data: &SImport{DefaultName: "def", NamespaceName: "ns", Items: []ImportItem{{Imported: "atom", Local: "a"}}}},
		{Data: &SLocal{Decls: []Decl{
			{Binding: Binding{Name: "x"}},
			{Comment: &EComment{Text: "// note"}},
			{Binding: Binding{Pattern: "{ y }"}},
		}}},
		{Data: &SFunction{Fn: Fn{Head: "async function* gen()"}}},
		{Data: &SOpaque{Kind: "class_declaration", Parts: []Part{{Text: "class Store {}"}}}},
		{Data: &SOpaque{Kind: "export_statement", Parts: []Part{
			{Text: "export "},
			{Stmt: Stmt{Data: &SOpaque{Parts: []Part{{Text: "enum Mode { A }"}}}}},
		}}},
		{Data: &SOpaque{Kind: "for_statement", Parts: []Part{{Text: "for (;;) {}"}}}},
		{Data: &SOpaque{Kind: "expression_statement", Parts: []Part{{Text: "classify(x);"}}}},
	}
	names := DeclaredNames(items)
	assert.Equal(t, map[string]bool{
		"def": true, "ns": true, "a": true, "x": true,
		"gen": true, "Store": true, "Mode": true,
	}, names)
}

func TestUniqueName(t *testing.T) {
	taken := map[string]bool{"atom": true, "atom2": true}
	assert.Equal(t, "atom3", UniqueName("atom", taken))
	assert.Equal(t, "atoms", UniqueName("atoms", taken))
}

func TestDeclarators(t *testing.T) {
	local := &SLocal{Decls: []Decl{
		{Binding: Binding{Name: "a"}},
		{Comment: &EComment{Text: "// first"}},
		{Binding: Binding{Name: "b"}},
	}}
	decls := local.Declarators()
	if assert.Len(t, decls, 2) {
		assert.Equal(t, "a", decls[0].Binding.Name)
		assert.Equal(t, "b", decls[1].Binding.Name)
	}
}
