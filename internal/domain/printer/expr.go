package printer

import (
	"github.com/corey/atomtx/internal/domain/jsast"
)

// Operator precedence levels, lowest first.
const (
	levelLowest = iota
	levelComma
	levelAssign
	levelConditional
	levelNullish
	levelLogicalOr
	levelLogicalAnd
	levelBitOr
	levelBitXor
	levelBitAnd
	levelEquals
	levelCompare
	levelShift
	levelAdd
	levelMultiply
	levelExponent
	levelPrefix
	levelCall
)

func binopLevel(op string) int {
	switch op {
	case ",":
		return levelComma
	case "=", "+=", "-=", "*=", "/=", "%=", "**=", "<<=", ">>=", ">>>=",
		"&=", "|=", "^=", "&&=", "||=", "??=":
		return levelAssign
	case "??":
		return levelNullish
	case "||":
		return levelLogicalOr
	case "&&":
		return levelLogicalAnd
	case "|":
		return levelBitOr
	case "^":
		return levelBitXor
	case "&":
		return levelBitAnd
	case "==", "!=", "===", "!==":
		return levelEquals
	case "<", "<=", ">", ">=", "in", "instanceof":
		return levelCompare
	case "<<", ">>", ">>>":
		return levelShift
	case "+", "-":
		return levelAdd
	case "*", "/", "%":
		return levelMultiply
	case "**":
		return levelExponent
	default:
		return levelAssign
	}
}

// expr prints e, parenthesized when its own precedence is below level.
func (p *printer) expr(e jsast.Expr, level int) {
	switch d := e.Data.(type) {
	case *jsast.EIdentifier:
		p.write(d.Name)

	case *jsast.EString:
		p.str(d)

	case *jsast.ENumber:
		p.write(d.Raw)

	case *jsast.EDot:
		p.expr(d.Target, levelCall)
		if d.Optional {
			p.write("?.")
		} else {
			p.write(".")
		}
		p.write(d.Name)

	case *jsast.EIndex:
		p.expr(d.Target, levelCall)
		if d.Optional {
			p.write("?.")
		}
		p.write("[")
		p.expr(d.Index, levelLowest)
		p.write("]")

	case *jsast.ECall:
		p.expr(d.Target, levelCall)
		if d.Optional {
			p.write("?.")
		}
		p.write(d.TypeArgs)
		p.args(d.Args)

	case *jsast.ENew:
		p.write("new ")
		p.expr(d.Target, levelCall)
		p.args(d.Args)

	case *jsast.EArray:
		p.array(d)

	case *jsast.EObject:
		p.object(d)

	case *jsast.ESpread:
		p.write("...")
		p.expr(d.Value, levelComma)

	case *jsast.EArrow:
		wrap := level > levelAssign
		if wrap {
			p.write("(")
		}
		p.write(d.Head)
		p.write(" ")
		if ret, ok := arrowExprBody(d); ok {
			if _, isObj := ret.Data.(*jsast.EObject); isObj {
				p.write("(")
				p.expr(ret, levelComma)
				p.write(")")
			} else {
				p.expr(ret, levelComma)
			}
		} else {
			p.block(d.Body.Stmts)
		}
		if wrap {
			p.write(")")
		}

	case *jsast.EFunction:
		p.fn(d.Fn)

	case *jsast.EBinary:
		own := binopLevel(d.Op)
		wrap := own < level
		if wrap {
			p.write("(")
		}
		if own == levelAssign {
			p.expr(d.Left, levelCall)
			p.write(" " + d.Op + " ")
			p.expr(d.Right, levelAssign)
		} else {
			p.expr(d.Left, own)
			if d.Op == "," {
				p.write(", ")
			} else {
				p.write(" " + d.Op + " ")
			}
			p.expr(d.Right, own+1)
		}
		if wrap {
			p.write(")")
		}

	case *jsast.EParen:
		p.write("(")
		p.expr(d.Value, levelLowest)
		p.write(")")

	case *jsast.EMissing:

	case *jsast.EComment:
		p.write(d.Text)

	case *jsast.EOpaque:
		p.parts(d.Parts)
	}
}

// arrowExprBody returns the expression of a concise arrow body.
func arrowExprBody(a *jsast.EArrow) (jsast.Expr, bool) {
	if !a.PreferExpr || len(a.Body.Stmts) != 1 {
		return jsast.Expr{}, false
	}
	ret, ok := a.Body.Stmts[0].Data.(*jsast.SReturn)
	if !ok || ret.ValueOrNil.Data == nil {
		return jsast.Expr{}, false
	}
	return ret.ValueOrNil, true
}

func (p *printer) args(args []jsast.Expr) {
	if hasComment(args) {
		p.list(args, "(", ")")
		return
	}
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.expr(a, levelComma)
	}
	p.write(")")
}

func (p *printer) array(a *jsast.EArray) {
	if len(a.Items) == 0 {
		p.write("[]")
		return
	}
	if a.IsMultiLine || hasComment(a.Items) {
		p.list(a.Items, "[", "]")
		return
	}
	p.write("[")
	for i, item := range a.Items {
		if i > 0 {
			p.write(", ")
		}
		p.expr(item, levelComma)
	}
	// A trailing hole needs its own comma to survive.
	if _, ok := a.Items[len(a.Items)-1].Data.(*jsast.EMissing); ok {
		p.write(",")
	}
	p.write("]")
}

// list prints items one per line between open and close. Commas go after
// every element but the last; comments get none, and a trailing comment
// stays on the line of the element before it.
func (p *printer) list(items []jsast.Expr, open, close string) {
	last := -1
	for i, item := range items {
		if _, ok := item.Data.(*jsast.EComment); !ok {
			last = i
		}
	}
	p.write(open)
	p.out.withIndent(func() {
		for i, item := range items {
			c, isComment := item.Data.(*jsast.EComment)
			if isComment && c.Trailing && i > 0 {
				p.write(" ")
				p.write(c.Text)
				continue
			}
			p.out.nl()
			p.out.pad()
			p.expr(item, levelComma)
			if isComment {
				continue
			}
			_, hole := item.Data.(*jsast.EMissing)
			if i < last || hole {
				p.write(",")
			}
		}
	})
	p.out.nl()
	p.out.pad()
	p.write(close)
}

func hasComment(items []jsast.Expr) bool {
	for _, item := range items {
		if _, ok := item.Data.(*jsast.EComment); ok {
			return true
		}
	}
	return false
}

func (p *printer) object(o *jsast.EObject) {
	if len(o.Properties) == 0 {
		p.write("{}")
		return
	}
	last := -1
	hasComment := false
	for i, prop := range o.Properties {
		if prop.Kind == jsast.PropertyComment {
			hasComment = true
		} else {
			last = i
		}
	}
	if !o.IsMultiLine && !hasComment {
		p.write("{ ")
		for i, prop := range o.Properties {
			if i > 0 {
				p.write(", ")
			}
			p.property(prop)
		}
		p.write(" }")
		return
	}
	p.write("{")
	p.out.nl()
	p.out.withIndent(func() {
		for i, prop := range o.Properties {
			p.out.pad()
			p.property(prop)
			if i < last && prop.Kind != jsast.PropertyComment {
				p.write(",")
			}
			p.out.nl()
		}
	})
	p.out.pad()
	p.write("}")
}

func (p *printer) property(prop jsast.Property) {
	switch prop.Kind {
	case jsast.PropertySpread:
		p.write("...")
		p.expr(prop.Value, levelComma)
	case jsast.PropertyMethod:
		p.fn(prop.Fn)
	case jsast.PropertyComment:
		p.write(prop.Text)
	case jsast.PropertyVerbatim:
		p.expr(prop.Value, levelLowest)
	case jsast.PropertyShorthand:
		p.expr(prop.Key, levelLowest)
	default:
		if prop.Computed {
			p.write("[")
			p.expr(prop.Key, levelComma)
			p.write("]")
		} else {
			p.expr(prop.Key, levelLowest)
		}
		p.write(": ")
		p.expr(prop.Value, levelComma)
	}
}

func (p *printer) str(s *jsast.EString) {
	if s.Raw != "" {
		p.write(s.Raw)
		return
	}
	p.write(Quote(s.Value))
}
