package rewrite

import (
	"strconv"

	"github.com/corey/atomtx/internal/domain/jsast"
)

// missingDeclarator stands in for destructuring patterns in the access path.
const missingDeclarator = "[missing-declarator]"

func (s *Session) visitStmt(st *jsast.Stmt) {
	switch d := st.Data.(type) {
	case *jsast.SImport:
		s.table.Register(d)

	case *jsast.SLocal:
		anonymous := s.report.defaults[d]
		for i := range d.Decls {
			s.visitDecl(&d.Decls[i], anonymous)
		}

	case *jsast.SExpr:
		s.visitExpr(&d.Value)

	case *jsast.SExportDefault:
		s.visitExpr(&d.Value)

	case *jsast.SFunction:
		s.visitFn(&d.Fn)

	case *jsast.SBlock:
		d.Stmts = s.visitNested(d.Stmts)

	case *jsast.SReturn:
		s.visitExpr(&d.ValueOrNil)

	case *jsast.SIf:
		s.visitExpr(&d.Test)
		s.visitStmt(&d.Yes)
		if d.NoOrNil.Data != nil {
			s.visitStmt(&d.NoOrNil)
		}

	case *jsast.SOpaque:
		s.visitOpaque(d.Parts, d.Deferred)
	}
}

// visitDecl pushes the declarator's name onto the access path while its
// initializer is visited. An anonymous declarator, made for a default export,
// keeps the path empty.
func (s *Session) visitDecl(d *jsast.Decl, anonymous bool) {
	if d.ValueOrNil.Data == nil {
		return
	}
	prevName, prevDefault := s.declName, s.inDefault
	s.declName, s.inDefault = d.Binding.Name, anonymous

	push := s.scope.moduleLevel() && !anonymous
	if push {
		seg := d.Binding.Name
		if seg == "" {
			seg = missingDeclarator
		}
		s.scope.push(seg)
	}
	s.visitExpr(&d.ValueOrNil)
	if push {
		s.scope.pop()
	}
	s.declName, s.inDefault = prevName, prevDefault
}

func (s *Session) visitFn(fn *jsast.Fn) {
	fn.Body.Stmts = s.visitNested(fn.Body.Stmts)
}

func (s *Session) visitExprs(list []jsast.Expr) {
	for i := range list {
		s.visitExpr(&list[i])
	}
}

func (s *Session) visitParts(parts []jsast.Part) {
	for i := range parts {
		p := &parts[i]
		switch {
		case p.Expr.Data != nil:
			s.visitExpr(&p.Expr)
		case p.Stmt.Data != nil:
			s.visitStmt(&p.Stmt)
		}
	}
}

func (s *Session) visitExpr(e *jsast.Expr) {
	switch d := e.Data.(type) {
	case *jsast.ECall:
		if s.pass.call(s, e, d) {
			return
		}
		s.visitExpr(&d.Target)
		s.visitExprs(d.Args)

	case *jsast.ENew:
		s.visitExpr(&d.Target)
		s.visitExprs(d.Args)

	case *jsast.EDot:
		s.visitExpr(&d.Target)

	case *jsast.EIndex:
		s.visitExpr(&d.Target)
		s.visitExpr(&d.Index)

	case *jsast.EArray:
		module := s.scope.moduleLevel()
		index := 0
		for i := range d.Items {
			if _, ok := d.Items[i].Data.(*jsast.EComment); ok {
				continue
			}
			if module {
				s.scope.push(strconv.Itoa(index))
			}
			s.visitExpr(&d.Items[i])
			if module {
				s.scope.pop()
			}
			index++
		}

	case *jsast.EObject:
		s.visitObject(d)

	case *jsast.ESpread:
		s.visitExpr(&d.Value)

	case *jsast.EArrow:
		d.Body.Stmts = s.visitNested(d.Body.Stmts)

	case *jsast.EFunction:
		s.visitFn(&d.Fn)

	case *jsast.EBinary:
		s.visitExpr(&d.Left)
		s.visitExpr(&d.Right)

	case *jsast.EParen:
		s.visitExpr(&d.Value)

	case *jsast.EOpaque:
		s.visitOpaque(d.Parts, d.Deferred)
	}
}

func (s *Session) visitOpaque(parts []jsast.Part, deferred bool) {
	if !deferred {
		s.visitParts(parts)
		return
	}
	prev := s.scope.enterFunction()
	s.visitParts(parts)
	s.scope.restore(prev)
}

func (s *Session) visitObject(o *jsast.EObject) {
	module := s.scope.moduleLevel()
	index := 0
	for i := range o.Properties {
		p := &o.Properties[i]
		if p.Kind == jsast.PropertyComment {
			continue
		}
		if p.Computed {
			s.visitExpr(&p.Key)
		}
		switch p.Kind {
		case jsast.PropertyMethod:
			s.visitFn(&p.Fn)
		case jsast.PropertySpread:
			s.visitExpr(&p.Value)
		default:
			if module {
				s.scope.push(propertySegment(index, p))
			}
			s.visitExpr(&p.Value)
			if module {
				s.scope.pop()
			}
		}
		index++
	}
}

// propertySegment is the access path segment for a property: its key as
// written, or a positional placeholder when the key is computed. index counts
// members only, not comments between them.
func propertySegment(index int, p *jsast.Property) string {
	if p.Computed {
		return "computed:" + strconv.Itoa(index)
	}
	switch k := p.Key.Data.(type) {
	case *jsast.EIdentifier:
		return k.Name
	case *jsast.EString:
		return k.Value
	case *jsast.ENumber:
		return k.Raw
	}
	return "computed:" + strconv.Itoa(index)
}
