package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corey/atomtx/internal/domain/config"
	"github.com/corey/atomtx/internal/domain/jsast"
	"github.com/corey/atomtx/internal/domain/printer"
)

// =============================================================================
// Test fixtures
// Expectation: AST builders shared by the rewrite pass tests.
// =============================================================================

// importFrom builds `import { a, b as c } from "src"`. Specs are "name" or
// "name as local".
func importFrom(src string, specs ...string) jsast.Stmt {
	imp := &jsast.SImport{HasClause: true, Source: jsast.EString{Value: src}}
	for _, spec := range specs {
		imported, local, ok := strings.Cut(spec, " as ")
		if !ok {
			local = imported
		}
		imp.Items = append(imp.Items, jsast.ImportItem{Imported: imported, Local: local})
	}
	return jsast.Stmt{Data: imp}
}

func importNamespace(src, alias string) jsast.Stmt {
	return jsast.Stmt{Data: &jsast.SImport{NamespaceName: alias, HasClause: true, Source: jsast.EString{Value: src}}}
}

func num(raw string) jsast.Expr {
	return jsast.Expr{Data: &jsast.ENumber{Raw: raw}}
}

func call(name string, args ...jsast.Expr) jsast.Expr {
	return jsast.Call(jsast.Ident(name), args...)
}

func exportConst(decls ...jsast.Decl) jsast.Stmt {
	return jsast.Stmt{Data: &jsast.SLocal{Kind: jsast.LocalConst, Decls: decls, IsExport: true}}
}

func decl(name string, value jsast.Expr) jsast.Decl {
	return jsast.Decl{Binding: jsast.Binding{Name: name}, ValueOrNil: value}
}

func exportDefault(value jsast.Expr) jsast.Stmt {
	return jsast.Stmt{Data: &jsast.SExportDefault{Value: value}}
}

func arrow(head string, body jsast.Expr) jsast.Expr {
	return jsast.Expr{Data: &jsast.EArrow{
		Head:       head,
		Body:       jsast.FnBody{Stmts: []jsast.Stmt{{Data: &jsast.SReturn{ValueOrNil: body}}}},
		PreferExpr: true,
	}}
}

func array(items ...jsast.Expr) jsast.Expr {
	return jsast.Expr{Data: &jsast.EArray{Items: items}}
}

func object(props ...jsast.Property) jsast.Expr {
	return jsast.Expr{Data: &jsast.EObject{Properties: props}}
}

func prop(key string, value jsast.Expr) jsast.Property {
	return jsast.Property{Key: jsast.Ident(key), Value: value}
}

func directive(value string) jsast.Stmt {
	return jsast.ExprStmt(jsast.Str(value))
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func program(items ...jsast.Stmt) *jsast.Program {
	return &jsast.Program{Items: items}
}

// transform applies one pass and returns the printed result.
func transform(t *testing.T, file string, names []string, p PassName, items ...jsast.Stmt) (string, *Report) {
	t.Helper()
	prog := program(items...)
	report, err := Apply(prog, file, config.Config{AtomNames: names}, p)
	require.NoError(t, err)
	return printer.Print(prog), report
}

const bootstrapText = `globalThis.jotaiAtomCache = globalThis.jotaiAtomCache || {
  cache: new Map(),
  get(name, inst) {
    if (this.cache.has(name)) {
      return this.cache.get(name);
    }
    this.cache.set(name, inst);
    return inst;
  }
};`
