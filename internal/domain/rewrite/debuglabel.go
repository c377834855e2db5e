package rewrite

import "github.com/corey/atomtx/internal/domain/jsast"

// debugLabel names atoms after the variable they are assigned to:
//
//	const countAtom = atom(0)
//	countAtom.debugLabel = "countAtom"
//
// Any factory call at module level labels the innermost declarator around
// it, so wrapped and type-asserted initializers are labelled too. Each
// declarator gets one label however many factory calls it holds.
type debugLabel struct{}

func (*debugLabel) name() PassName { return PassDebugLabel }

func (*debugLabel) call(s *Session, e *jsast.Expr, c *jsast.ECall) bool {
	if s.declName == "" || !s.scope.moduleLevel() || !s.table.IsFactory(c.Target) {
		return false
	}
	if pendingLabel(s.pending, s.declName) {
		return false
	}
	s.setPending(labelStmt(s.declName))
	s.record(Rewrite{Name: s.declName, Exported: s.exporting, Loc: e.Loc})
	return false
}

// exportDefault gives an anonymous default-exported atom a name so it can be
// labelled:
//
//	export default atom(0)
//
// becomes
//
//	const counter = atom(0)
//	counter.debugLabel = "counter"
//	export default counter
func (*debugLabel) exportDefault(s *Session, item jsast.Stmt, def *jsast.SExportDefault) []jsast.Stmt {
	name := s.derivedName()
	s.record(Rewrite{Name: name, Default: true, Loc: item.Loc})

	decl := jsast.Const(name, def.Value)
	decl.Loc = item.Loc
	if s.report.defaults == nil {
		s.report.defaults = make(map[*jsast.SLocal]bool)
	}
	s.report.defaults[decl.Data.(*jsast.SLocal)] = true
	export := jsast.Stmt{Data: &jsast.SExportDefault{Value: jsast.Ident(name)}, Loc: item.Loc}
	return []jsast.Stmt{decl, labelStmt(name), export}
}

func (*debugLabel) finish(_ *Session, items []jsast.Stmt) []jsast.Stmt {
	return items
}

// labelStmt builds `name.debugLabel = "name"`.
func labelStmt(name string) jsast.Stmt {
	return jsast.ExprStmt(jsast.Binary("=",
		jsast.Dot(jsast.Ident(name), "debugLabel"),
		jsast.Str(name),
	))
}

// pendingLabel reports whether pending already labels name.
func pendingLabel(pending jsast.Stmt, name string) bool {
	st, ok := pending.Data.(*jsast.SExpr)
	if !ok {
		return false
	}
	var found func(e jsast.Expr) bool
	found = func(e jsast.Expr) bool {
		b, ok := e.Data.(*jsast.EBinary)
		if !ok {
			return false
		}
		if b.Op == "," {
			return found(b.Left) || found(b.Right)
		}
		dot, ok := b.Left.Data.(*jsast.EDot)
		if !ok || dot.Name != "debugLabel" {
			return false
		}
		id, ok := dot.Target.Data.(*jsast.EIdentifier)
		return ok && id.Name == name
	}
	return found(st.Value)
}
