package treesitter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/atomtx/internal/domain/jsast"
)

func (c *converter) stmt(n *tree_sitter.Node) jsast.Stmt {
	var data jsast.S
	ok := false

	switch n.Kind() {
	case "import_statement":
		data, ok = c.importStmt(n)
	case "export_statement":
		data, ok = c.exportStmt(n)
	case "lexical_declaration", "variable_declaration":
		data, ok = c.local(n)
	case "expression_statement":
		if plain(n, ";") {
			var child *tree_sitter.Node
			if child, ok = onlyNamedChild(n); ok {
				data = &jsast.SExpr{Value: c.expr(child)}
			}
		}
	case "function_declaration", "generator_function_declaration":
		var fn jsast.Fn
		if fn, ok = c.fn(n); ok {
			data = &jsast.SFunction{Fn: fn}
		}
	case "statement_block":
		var stmts []jsast.Stmt
		if stmts, ok = c.block(n); ok {
			data = &jsast.SBlock{Stmts: stmts}
		}
	case "return_statement":
		data, ok = c.returnStmt(n)
	case "if_statement":
		data, ok = c.ifStmt(n)
	case "empty_statement":
		data, ok = &jsast.SEmpty{}, true
	case "comment", "hash_bang_line":
		data, ok = &jsast.SComment{Text: c.text(n)}, true
	}

	if !ok {
		return c.opaqueStmt(n)
	}
	return jsast.Stmt{Data: data, Loc: loc(n)}
}

// importStmt reads the bindings of an import and keeps its text, so comments,
// `import type` and attributes print back as written.
func (c *converter) importStmt(n *tree_sitter.Node) (jsast.S, bool) {
	source := n.ChildByFieldName("source")
	if source == nil || source.Kind() != "string" {
		return nil, false
	}
	imp := &jsast.SImport{Source: c.str(source), Raw: c.text(n), TypeOnly: hasToken(n, "type") || hasToken(n, "typeof")}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "string", "comment", "import_attribute":
		case "import_clause":
			imp.HasClause = true
			if !c.importClause(child, imp) {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return imp, true
}

func (c *converter) importClause(n *tree_sitter.Node, imp *jsast.SImport) bool {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "comment":
		case "identifier":
			imp.DefaultName = c.text(child)

		case "namespace_import":
			id := firstNamed(child, "identifier")
			if id == nil {
				return false
			}
			imp.NamespaceName = c.text(id)

		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec.Kind() == "comment" {
					continue
				}
				item, ok := c.importSpecifier(spec)
				if !ok {
					return false
				}
				imp.Items = append(imp.Items, item)
			}

		default:
			return false
		}
	}
	return true
}

func (c *converter) importSpecifier(n *tree_sitter.Node) (jsast.ImportItem, bool) {
	if n.Kind() != "import_specifier" {
		return jsast.ImportItem{}, false
	}
	name := n.ChildByFieldName("name")
	if name == nil {
		return jsast.ImportItem{}, false
	}
	imported := c.text(name)
	if name.Kind() == "string" {
		imported = unquote(imported)
	}
	local := imported
	if alias := n.ChildByFieldName("alias"); alias != nil {
		local = c.text(alias)
	}
	return jsast.ImportItem{
		Imported: imported,
		Local:    local,
		TypeOnly: hasToken(n, "type") || hasToken(n, "typeof"),
	}, true
}

func (c *converter) exportStmt(n *tree_sitter.Node) (jsast.S, bool) {
	if !plain(n, "export", "default", ";") {
		return nil, false
	}
	decl := n.ChildByFieldName("declaration")
	value := n.ChildByFieldName("value")
	isDefault := hasToken(n, "default")

	switch {
	case isDefault && value != nil:
		switch value.Kind() {
		case "function_expression", "function", "generator_function", "class":
			return &jsast.SExportDefault{Value: c.expr(value), IsDeclaration: true}, true
		}
		return &jsast.SExportDefault{Value: c.expr(value)}, true

	case isDefault && decl != nil:
		switch decl.Kind() {
		case "function_declaration", "generator_function_declaration":
			fn, ok := c.fn(decl)
			if !ok {
				return nil, false
			}
			return &jsast.SExportDefault{
				Value:         jsast.Expr{Data: &jsast.EFunction{Fn: fn}, Loc: loc(decl)},
				IsDeclaration: true,
			}, true
		case "class_declaration":
			return &jsast.SExportDefault{Value: c.opaqueExpr(decl), IsDeclaration: true}, true
		}
		return nil, false

	case decl != nil:
		switch decl.Kind() {
		case "lexical_declaration", "variable_declaration":
			data, ok := c.local(decl)
			if !ok {
				return nil, false
			}
			local := data.(*jsast.SLocal)
			local.IsExport = true
			return local, true
		case "function_declaration", "generator_function_declaration":
			fn, ok := c.fn(decl)
			if !ok {
				return nil, false
			}
			return &jsast.SFunction{Fn: fn, IsExport: true}, true
		}
	}
	return nil, false
}

func (c *converter) local(n *tree_sitter.Node) (jsast.S, bool) {
	local := &jsast.SLocal{Kind: jsast.LocalVar}
	if n.Kind() == "lexical_declaration" {
		kind := n.ChildByFieldName("kind")
		if kind == nil {
			return nil, false
		}
		switch c.text(kind) {
		case "const":
			local.Kind = jsast.LocalConst
		case "let":
			local.Kind = jsast.LocalLet
		default:
			return nil, false
		}
	}
	declared := false
	var prev *tree_sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch {
		case child.Kind() == "comment":
			local.Decls = append(local.Decls, jsast.Decl{Comment: c.comment(child, prev)})
		case child.IsNamed():
			if child.Kind() != "variable_declarator" {
				return nil, false
			}
			local.Decls = append(local.Decls, c.declarator(child))
			declared = true
		default:
			switch child.Kind() {
			case "const", "let", "var", ",", ";":
			default:
				return nil, false
			}
		}
		prev = child
	}
	if !declared {
		return nil, false
	}
	return local, true
}

// declarator converts one variable_declarator. One the typed form cannot
// print is kept verbatim, with its name still read.
func (c *converter) declarator(n *tree_sitter.Node) jsast.Decl {
	var d jsast.Decl
	name := n.ChildByFieldName("name")
	if name != nil {
		if name.Kind() == "identifier" {
			d.Binding.Name = c.text(name)
		} else {
			d.Binding.Pattern = c.text(name)
		}
	}
	if name == nil || !plain(n, "=") {
		d.Verbatim = true
		d.ValueOrNil = c.opaqueExpr(n)
		return d
	}
	if typ := n.ChildByFieldName("type"); typ != nil {
		d.TypeRaw = c.text(typ)
	}
	if value := n.ChildByFieldName("value"); value != nil {
		d.ValueOrNil = c.expr(value)
	}
	return d
}

// fn converts anything with a statement_block body: function declarations
// and expressions, generators and methods.
func (c *converter) fn(n *tree_sitter.Node) (jsast.Fn, bool) {
	body := n.ChildByFieldName("body")
	if body == nil || body.Kind() != "statement_block" {
		return jsast.Fn{}, false
	}
	stmts, ok := c.block(body)
	if !ok {
		return jsast.Fn{}, false
	}
	return jsast.Fn{Head: c.head(n, body), Body: jsast.FnBody{Stmts: stmts}}, true
}

func (c *converter) block(n *tree_sitter.Node) ([]jsast.Stmt, bool) {
	stmts := make([]jsast.Stmt, 0, n.NamedChildCount())
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if !child.IsNamed() {
			if k := child.Kind(); k != "{" && k != "}" {
				return nil, false
			}
			continue
		}
		stmts = append(stmts, c.stmt(child))
	}
	return stmts, true
}

func (c *converter) returnStmt(n *tree_sitter.Node) (jsast.S, bool) {
	if !plain(n, "return", ";") || n.NamedChildCount() > 1 {
		return nil, false
	}
	ret := &jsast.SReturn{}
	if n.NamedChildCount() == 1 {
		ret.ValueOrNil = c.expr(n.NamedChild(0))
	}
	return ret, true
}

func (c *converter) ifStmt(n *tree_sitter.Node) (jsast.S, bool) {
	if !plain(n, "if") {
		return nil, false
	}
	cond := n.ChildByFieldName("condition")
	yes := n.ChildByFieldName("consequence")
	if cond == nil || yes == nil || cond.Kind() != "parenthesized_expression" || !plain(cond, "(", ")") {
		return nil, false
	}
	test, ok := onlyNamedChild(cond)
	if !ok {
		return nil, false
	}
	s := &jsast.SIf{Test: c.expr(test), Yes: c.stmt(yes)}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		no, ok := onlyNamedChild(alt)
		if !ok || !plain(alt, "else") {
			return nil, false
		}
		s.NoOrNil = c.stmt(no)
	}
	return s, true
}
