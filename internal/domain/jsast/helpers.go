package jsast

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Ident builds an identifier reference.
func Ident(name string) Expr {
	return Expr{Data: &EIdentifier{Name: name}}
}

// Str builds a synthesized string literal.
func Str(value string) Expr {
	return Expr{Data: &EString{Value: value}}
}

// Dot builds target.name.
func Dot(target Expr, name string) Expr {
	return Expr{Data: &EDot{Target: target, Name: name}}
}

// Call builds target(args...).
func Call(target Expr, args ...Expr) Expr {
	return Expr{Data: &ECall{Target: target, Args: args}}
}

// Binary builds left op right. Use "=" for assignments and "," for sequences.
func Binary(op string, left, right Expr) Expr {
	return Expr{Data: &EBinary{Op: op, Left: left, Right: right}}
}

// ExprStmt wraps an expression as a statement.
func ExprStmt(value Expr) Stmt {
	return Stmt{Data: &SExpr{Value: value}}
}

// Const builds `const name = value;`.
func Const(name string, value Expr) Stmt {
	return Stmt{Data: &SLocal{
		Kind:  LocalConst,
		Decls: []Decl{{Binding: Binding{Name: name}, ValueOrNil: value}},
	}}
}

// Unparen strips any number of enclosing parentheses and returns the
// innermost expression. The result aliases e, so assigning through it
// replaces the inner expression in place.
func Unparen(e *Expr) *Expr {
	for {
		p, ok := e.Data.(*EParen)
		if !ok {
			return e
		}
		e = &p.Value
	}
}

// StringStmt returns the value of a statement that is a bare string literal
// expression, as used by directive prologues.
func StringStmt(s Stmt) (string, bool) {
	es, ok := s.Data.(*SExpr)
	if !ok {
		return "", false
	}
	str, ok := es.Value.Data.(*EString)
	if !ok {
		return "", false
	}
	return str.Value, true
}

// NameFromPath derives an identifier from a file path: the file name without
// its extension, or the directory name for index files. Reserved words get a
// leading underscore.
func NameFromPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	dir, base := path.Split(p)
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "index" {
		if d := path.Base(strings.TrimSuffix(dir, "/")); d != "." && d != "/" && d != "" {
			base = d
		}
	}
	name := EnsureValidIdentifier(base)
	if ReservedWords[name] {
		name = "_" + name
	}
	return name
}

// EnsureValidIdentifier converts base into an ASCII identifier, joining
// runs of invalid characters with a single underscore.
func EnsureValidIdentifier(base string) string {
	bytes := []byte{}
	needsGap := false
	for _, c := range base {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '$' || (len(bytes) > 0 && c >= '0' && c <= '9') {
			if needsGap {
				bytes = append(bytes, '_')
				needsGap = false
			}
			bytes = append(bytes, byte(c))
		} else if len(bytes) > 0 {
			needsGap = true
		}
	}
	if len(bytes) == 0 {
		return "_"
	}
	return string(bytes)
}

// ReservedWords cannot be used as binding names in module code.
var ReservedWords = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "arguments": true, "eval": true,
}

// declHead matches the name of a declaration kept as opaque text.
var declHead = regexp.MustCompile(`^(?:export\s+)?(?:declare\s+)?(?:abstract\s+)?(?:async\s+)?(?:class\s+|enum\s+|const\s+enum\s+|function\b\s*\*?\s*)([A-Za-z_$][\w$]*)`)

// DeclaredNames collects the names bound by a statement list: imports,
// declarators with plain identifiers, functions and classes.
func DeclaredNames(items []Stmt) map[string]bool {
	names := make(map[string]bool)
	add := func(name string) {
		if name != "" {
			names[name] = true
		}
	}
	for _, item := range items {
		switch d := item.Data.(type) {
		case *SImport:
			add(d.DefaultName)
			add(d.NamespaceName)
			for _, it := range d.Items {
				add(it.Local)
			}
		case *SLocal:
			for _, decl := range d.Declarators() {
				add(decl.Binding.Name)
			}
		case *SFunction:
			if m := declHead.FindStringSubmatch(d.Fn.Head); m != nil {
				add(m[1])
			}
		case *SOpaque:
			add(opaqueDeclName(d.Parts))
		}
	}
	return names
}

// opaqueDeclName finds the name of a class or enum declaration kept opaque,
// looking through an `export` wrapper.
func opaqueDeclName(parts []Part) string {
	for _, p := range parts {
		switch {
		case p.Stmt.Data != nil:
			switch d := p.Stmt.Data.(type) {
			case *SOpaque:
				return opaqueDeclName(d.Parts)
			case *SFunction:
				if m := declHead.FindStringSubmatch(d.Fn.Head); m != nil {
					return m[1]
				}
			}
			return ""
		case p.Expr.Data != nil:
			return ""
		default:
			text := strings.TrimSpace(p.Text)
			if m := declHead.FindStringSubmatch(text); m != nil {
				return m[1]
			}
			if text != "export" {
				return ""
			}
		}
	}
	return ""
}

// UniqueName returns base, or base followed by the smallest number from 2 up
// that is not taken.
func UniqueName(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for i := 2; ; i++ {
		name := base + strconv.Itoa(i)
		if !taken[name] {
			return name
		}
	}
}
