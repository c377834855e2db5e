package treesitter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/atomtx/internal/domain/jsast"
)

func (c *converter) expr(n *tree_sitter.Node) jsast.Expr {
	var data jsast.E
	ok := false

	switch n.Kind() {
	case "identifier", "this", "undefined":
		data, ok = &jsast.EIdentifier{Name: c.text(n)}, true
	case "string":
		s := c.str(n)
		data, ok = &s, true
	case "number":
		data, ok = &jsast.ENumber{Raw: c.text(n)}, true
	case "member_expression":
		data, ok = c.member(n)
	case "subscript_expression":
		data, ok = c.subscript(n)
	case "call_expression":
		data, ok = c.call(n)
	case "new_expression":
		data, ok = c.newExpr(n)
	case "array":
		data, ok = c.array(n)
	case "object":
		data, ok = c.object(n)
	case "spread_element":
		if plain(n, "...") {
			var child *tree_sitter.Node
			if child, ok = onlyNamedChild(n); ok {
				data = &jsast.ESpread{Value: c.expr(child)}
			}
		}
	case "arrow_function":
		data, ok = c.arrow(n)
	case "function_expression", "function", "generator_function":
		var fn jsast.Fn
		if fn, ok = c.fn(n); ok {
			data = &jsast.EFunction{Fn: fn}
		}
	case "parenthesized_expression":
		if plain(n, "(", ")") {
			var child *tree_sitter.Node
			if child, ok = onlyNamedChild(n); ok {
				data = &jsast.EParen{Value: c.expr(child)}
			}
		}
	case "assignment_expression", "augmented_assignment_expression", "binary_expression":
		data, ok = c.binary(n)
	}

	if !ok {
		return c.opaqueExpr(n)
	}
	return jsast.Expr{Data: data, Loc: loc(n)}
}

// comment converts a comment inside a list. It is trailing when it starts on
// the row where prev, the token before it, ends.
func (c *converter) comment(n, prev *tree_sitter.Node) *jsast.EComment {
	return &jsast.EComment{
		Text:     c.text(n),
		Trailing: prev != nil && prev.EndPosition().Row == n.StartPosition().Row,
	}
}

func (c *converter) str(n *tree_sitter.Node) jsast.EString {
	raw := c.text(n)
	return jsast.EString{Value: unquote(raw), Raw: raw}
}

func (c *converter) member(n *tree_sitter.Node) (jsast.E, bool) {
	if !plain(n, ".") {
		return nil, false
	}
	object := n.ChildByFieldName("object")
	property := n.ChildByFieldName("property")
	if object == nil || property == nil {
		return nil, false
	}
	switch property.Kind() {
	case "property_identifier", "private_property_identifier":
	default:
		return nil, false
	}
	return &jsast.EDot{
		Target:   c.expr(object),
		Name:     c.text(property),
		Optional: n.ChildByFieldName("optional_chain") != nil,
	}, true
}

func (c *converter) subscript(n *tree_sitter.Node) (jsast.E, bool) {
	if !plain(n, "[", "]") {
		return nil, false
	}
	object := n.ChildByFieldName("object")
	index := n.ChildByFieldName("index")
	if object == nil || index == nil {
		return nil, false
	}
	return &jsast.EIndex{
		Target:   c.expr(object),
		Index:    c.expr(index),
		Optional: n.ChildByFieldName("optional_chain") != nil,
	}, true
}

func (c *converter) call(n *tree_sitter.Node) (jsast.E, bool) {
	if !plain(n) {
		return nil, false
	}
	target := n.ChildByFieldName("function")
	arguments := n.ChildByFieldName("arguments")
	// Tagged templates carry a template_string instead of arguments.
	if target == nil || arguments == nil || arguments.Kind() != "arguments" {
		return nil, false
	}
	args, ok := c.args(arguments)
	if !ok {
		return nil, false
	}
	call := &jsast.ECall{
		Target:   c.expr(target),
		Args:     args,
		Optional: n.ChildByFieldName("optional_chain") != nil,
	}
	if typeArgs := n.ChildByFieldName("type_arguments"); typeArgs != nil {
		call.TypeArgs = c.text(typeArgs)
	}
	return call, true
}

// args converts an argument list. Comments between arguments are kept.
func (c *converter) args(n *tree_sitter.Node) ([]jsast.Expr, bool) {
	args := make([]jsast.Expr, 0, n.NamedChildCount())
	var prev *tree_sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch {
		case child.Kind() == "comment":
			args = append(args, jsast.Expr{Data: c.comment(child, prev), Loc: loc(child)})
		case child.IsNamed():
			args = append(args, c.expr(child))
		default:
			if k := child.Kind(); k != "(" && k != ")" && k != "," {
				return nil, false
			}
		}
		prev = child
	}
	return args, true
}

func (c *converter) newExpr(n *tree_sitter.Node) (jsast.E, bool) {
	if !plain(n, "new") || n.ChildByFieldName("type_arguments") != nil {
		return nil, false
	}
	target := n.ChildByFieldName("constructor")
	if target == nil {
		return nil, false
	}
	e := &jsast.ENew{Target: c.expr(target)}
	if arguments := n.ChildByFieldName("arguments"); arguments != nil {
		args, ok := c.args(arguments)
		if !ok {
			return nil, false
		}
		e.Args = args
	}
	return e, true
}

// array tracks commas to find holes: an element or hole sits between each
// pair of commas, and a trailing comma does not add one. Comments do not
// count as elements.
func (c *converter) array(n *tree_sitter.Node) (jsast.E, bool) {
	arr := &jsast.EArray{IsMultiLine: multiLine(n)}
	filled := false
	var prev *tree_sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch {
		case child.Kind() == "comment":
			arr.Items = append(arr.Items, jsast.Expr{Data: c.comment(child, prev), Loc: loc(child)})
		case child.IsNamed():
			arr.Items = append(arr.Items, c.expr(child))
			filled = true
		case child.Kind() == ",":
			if !filled {
				arr.Items = append(arr.Items, jsast.Expr{Data: &jsast.EMissing{}, Loc: loc(child)})
			}
			filled = false
		case child.Kind() != "[" && child.Kind() != "]":
			return nil, false
		}
		prev = child
	}
	return arr, true
}

func (c *converter) object(n *tree_sitter.Node) (jsast.E, bool) {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.IsNamed() {
			continue
		}
		if k := child.Kind(); k != "{" && k != "}" && k != "," {
			return nil, false
		}
	}

	obj := &jsast.EObject{IsMultiLine: multiLine(n)}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		var p jsast.Property
		switch child.Kind() {
		case "pair":
			var ok bool
			if p, ok = c.pair(child); !ok {
				p = c.verbatimPair(child)
			}

		case "shorthand_property_identifier":
			name := c.text(child)
			p = jsast.Property{
				Kind:  jsast.PropertyShorthand,
				Key:   jsast.Expr{Data: &jsast.EIdentifier{Name: name}, Loc: loc(child)},
				Value: jsast.Expr{Data: &jsast.EIdentifier{Name: name}, Loc: loc(child)},
			}

		case "spread_element":
			p = jsast.Property{Kind: jsast.PropertySpread, Value: c.expr(child)}
			spread, ok := p.Value.Data.(*jsast.ESpread)
			if !ok {
				return nil, false
			}
			p.Value = spread.Value

		case "method_definition":
			fn, ok := c.fn(child)
			if !ok {
				return nil, false
			}
			p = jsast.Property{Kind: jsast.PropertyMethod, Fn: fn}
			if name := child.ChildByFieldName("name"); name != nil && name.Kind() == "property_identifier" {
				p.Key = jsast.Expr{Data: &jsast.EIdentifier{Name: c.text(name)}, Loc: loc(name)}
			}

		case "comment":
			p = jsast.Property{Kind: jsast.PropertyComment, Text: c.text(child)}
			obj.IsMultiLine = true

		default:
			p = jsast.Property{Kind: jsast.PropertyVerbatim, Value: c.opaqueExpr(child)}
		}
		obj.Properties = append(obj.Properties, p)
	}
	return obj, true
}

// verbatimPair keeps a pair the typed form cannot print (a comment around the
// colon, say) as written. Its key is still read so the member gets its own
// access path segment.
func (c *converter) verbatimPair(n *tree_sitter.Node) jsast.Property {
	p := jsast.Property{Kind: jsast.PropertyVerbatim, Value: c.opaqueExpr(n)}
	key := n.ChildByFieldName("key")
	if key == nil {
		return p
	}
	switch key.Kind() {
	case "property_identifier":
		p.Key = jsast.Expr{Data: &jsast.EIdentifier{Name: c.text(key)}, Loc: loc(key)}
	case "string", "number":
		p.Key = c.expr(key)
	case "computed_property_name":
		p.Computed = true
	}
	return p
}

func (c *converter) pair(n *tree_sitter.Node) (jsast.Property, bool) {
	if !plain(n, ":") {
		return jsast.Property{}, false
	}
	key := n.ChildByFieldName("key")
	value := n.ChildByFieldName("value")
	if key == nil || value == nil {
		return jsast.Property{}, false
	}
	p := jsast.Property{Value: c.expr(value)}
	switch key.Kind() {
	case "property_identifier":
		p.Key = jsast.Expr{Data: &jsast.EIdentifier{Name: c.text(key)}, Loc: loc(key)}
	case "string", "number":
		p.Key = c.expr(key)
	case "computed_property_name":
		inner, ok := onlyNamedChild(key)
		if !ok || !plain(key, "[", "]") {
			return jsast.Property{}, false
		}
		p.Key = c.expr(inner)
		p.Computed = true
	default:
		return jsast.Property{}, false
	}
	return p, true
}

func (c *converter) arrow(n *tree_sitter.Node) (jsast.E, bool) {
	body := n.ChildByFieldName("body")
	if body == nil {
		return nil, false
	}
	arrow := &jsast.EArrow{Head: c.head(n, body)}
	if body.Kind() == "statement_block" {
		stmts, ok := c.block(body)
		if !ok {
			return nil, false
		}
		arrow.Body.Stmts = stmts
		return arrow, true
	}
	arrow.PreferExpr = true
	arrow.Body.Stmts = []jsast.Stmt{{
		Data: &jsast.SReturn{ValueOrNil: c.expr(body)},
		Loc:  loc(body),
	}}
	return arrow, true
}

func (c *converter) binary(n *tree_sitter.Node) (jsast.E, bool) {
	op := "="
	if operator := n.ChildByFieldName("operator"); operator != nil {
		op = c.text(operator)
	}
	if !plain(n, op) {
		return nil, false
	}
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil {
		return nil, false
	}
	return &jsast.EBinary{Op: op, Left: c.expr(left), Right: c.expr(right)}, true
}
