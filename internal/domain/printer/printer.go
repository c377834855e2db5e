// Package printer turns a jsast.Program back into JavaScript source.
//
// Typed nodes are printed in a normalized two-space style; opaque nodes print
// their original text, with their holes printed recursively.
package printer

import (
	"strings"

	"github.com/corey/atomtx/internal/domain/jsast"
)

// Indent is one nesting level.
const Indent = "  "

// Print renders a whole program. Each top-level item ends with a newline.
func Print(prog *jsast.Program) string {
	var b strings.Builder
	p := printer{out: out{b: &b}}
	for _, item := range prog.Items {
		p.stmtLine(item)
	}
	return b.String()
}

// Stmt renders one statement without a trailing newline.
func Stmt(s jsast.Stmt) string {
	var b strings.Builder
	p := printer{out: out{b: &b}}
	p.stmt(s)
	return b.String()
}

// Expr renders one expression.
func Expr(e jsast.Expr) string {
	var b strings.Builder
	p := printer{out: out{b: &b}}
	p.expr(e, levelLowest)
	return b.String()
}

/* ---------- small writer with indentation ---------- */

type out struct {
	b     *strings.Builder
	depth int
}

func (o *out) write(s string) { o.b.WriteString(s) }
func (o *out) nl()            { o.b.WriteByte('\n') }
func (o *out) pad() {
	for i := 0; i < o.depth; i++ {
		o.b.WriteString(Indent)
	}
}
func (o *out) withIndent(fn func()) { o.depth++; fn(); o.depth-- }

type printer struct {
	out out
}

func (p *printer) write(s string) { p.out.write(s) }

func (p *printer) stmtLine(s jsast.Stmt) {
	p.out.pad()
	p.stmt(s)
	p.out.nl()
}

/* ---------- statements ---------- */

func (p *printer) stmt(s jsast.Stmt) {
	switch d := s.Data.(type) {
	case *jsast.SImport:
		p.importStmt(d)

	case *jsast.SLocal:
		p.local(d)

	case *jsast.SExpr:
		if startsAmbiguous(d.Value) {
			p.write("(")
			p.expr(d.Value, levelLowest)
			p.write(")")
		} else {
			p.expr(d.Value, levelLowest)
		}
		p.write(";")

	case *jsast.SExportDefault:
		p.write("export default ")
		p.expr(d.Value, levelComma)
		if !d.IsDeclaration {
			p.write(";")
		}

	case *jsast.SFunction:
		if d.IsExport {
			p.write("export ")
		}
		p.fn(d.Fn)

	case *jsast.SBlock:
		p.block(d.Stmts)

	case *jsast.SReturn:
		p.write("return")
		if d.ValueOrNil.Data != nil {
			p.write(" ")
			p.expr(d.ValueOrNil, levelLowest)
		}
		p.write(";")

	case *jsast.SIf:
		p.write("if (")
		p.expr(d.Test, levelLowest)
		p.write(") ")
		p.stmt(d.Yes)
		if d.NoOrNil.Data != nil {
			if _, ok := d.Yes.Data.(*jsast.SBlock); ok {
				p.write(" else ")
			} else {
				p.out.nl()
				p.out.pad()
				p.write("else ")
			}
			p.stmt(d.NoOrNil)
		}

	case *jsast.SEmpty:
		p.write(";")

	case *jsast.SComment:
		p.write(d.Text)

	case *jsast.SOpaque:
		p.parts(d.Parts)
	}
}

func (p *printer) importStmt(d *jsast.SImport) {
	if d.Raw != "" {
		p.write(d.Raw)
		return
	}
	p.write("import ")
	if d.TypeOnly {
		p.write("type ")
	}
	if d.HasClause {
		wrote := false
		if d.DefaultName != "" {
			p.write(d.DefaultName)
			wrote = true
		}
		if d.NamespaceName != "" {
			if wrote {
				p.write(", ")
			}
			p.write("* as ")
			p.write(d.NamespaceName)
			wrote = true
		}
		if len(d.Items) > 0 || !wrote {
			if wrote {
				p.write(", ")
			}
			p.write("{")
			for i, item := range d.Items {
				if i > 0 {
					p.write(",")
				}
				p.write(" ")
				if item.TypeOnly {
					p.write("type ")
				}
				p.write(item.Imported)
				if item.Local != item.Imported {
					p.write(" as ")
					p.write(item.Local)
				}
			}
			if len(d.Items) > 0 {
				p.write(" ")
			}
			p.write("}")
		}
		p.write(" from ")
	}
	p.str(&d.Source)
	p.write(";")
}

// local prints a declaration. Comments between declarators put each
// declarator on its own line.
func (p *printer) local(d *jsast.SLocal) {
	if d.IsExport {
		p.write("export ")
	}
	p.write(d.Kind.String())
	p.write(" ")

	last := -1
	multi := false
	for i, decl := range d.Decls {
		if decl.Comment != nil {
			multi = true
		} else {
			last = i
		}
	}
	for i, decl := range d.Decls {
		if c := decl.Comment; c != nil {
			if c.Trailing && i > 0 {
				p.write(" ")
			} else {
				p.out.nl()
				p.out.pad()
				p.write(Indent)
			}
			p.write(c.Text)
			continue
		}
		if i > 0 && multi {
			p.out.nl()
			p.out.pad()
			p.write(Indent)
		}
		p.decl(decl)
		switch {
		case i == last:
			p.write(";")
		case multi:
			p.write(",")
		default:
			p.write(", ")
		}
	}
}

func (p *printer) decl(d jsast.Decl) {
	if d.Verbatim {
		p.expr(d.ValueOrNil, levelLowest)
		return
	}
	if d.Binding.Name != "" {
		p.write(d.Binding.Name)
	} else {
		p.write(d.Binding.Pattern)
	}
	p.write(d.TypeRaw)
	if d.ValueOrNil.Data != nil {
		p.write(" = ")
		p.expr(d.ValueOrNil, levelComma)
	}
}

func (p *printer) fn(fn jsast.Fn) {
	p.write(fn.Head)
	p.write(" ")
	p.block(fn.Body.Stmts)
}

func (p *printer) block(stmts []jsast.Stmt) {
	if len(stmts) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.out.nl()
	p.out.withIndent(func() {
		for _, s := range stmts {
			p.stmtLine(s)
		}
	})
	p.out.pad()
	p.write("}")
}

func (p *printer) parts(parts []jsast.Part) {
	for _, part := range parts {
		switch {
		case part.Expr.Data != nil:
			p.expr(part.Expr, levelLowest)
		case part.Stmt.Data != nil:
			p.stmt(part.Stmt)
		default:
			p.write(part.Text)
		}
	}
}

// startsAmbiguous reports whether an expression statement would begin with
// `{` or `function` and so needs parentheses.
func startsAmbiguous(e jsast.Expr) bool {
	for {
		switch d := e.Data.(type) {
		case *jsast.EObject, *jsast.EFunction:
			return true
		case *jsast.EBinary:
			e = d.Left
		case *jsast.ECall:
			e = d.Target
		case *jsast.EDot:
			e = d.Target
		case *jsast.EIndex:
			e = d.Target
		default:
			return false
		}
	}
}
