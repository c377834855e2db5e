package binding

import "github.com/corey/atomtx/internal/domain/jsast"

// IsFactory reports whether expr denotes an atom factory:
//
//   - a call is classified by its callee, so curried factories such as
//     atomFamily(fn)(param) are recognized through the outer call
//   - an identifier bound by a trusted import, or spelled exactly like a
//     configured name (configured names skip the import-origin check)
//   - ns.name where ns spells the source path of a namespace import and
//     name is a factory name
//
// Parentheses are transparent. Everything else is not a factory.
func (t *Table) IsFactory(expr jsast.Expr) bool {
	switch e := expr.Data.(type) {
	case *jsast.EParen:
		return t.IsFactory(e.Value)

	case *jsast.ECall:
		return t.IsFactory(e.Target)

	case *jsast.EIdentifier:
		return t.locals[e.Name] || t.custom[e.Name]

	case *jsast.EDot:
		obj, ok := e.Target.Data.(*jsast.EIdentifier)
		if !ok || e.Optional {
			return false
		}
		return t.namespaces[obj.Name] && t.factories[e.Name]
	}
	return false
}

// IsFactoryCall reports whether expr is a call whose callee is a factory.
func (t *Table) IsFactoryCall(expr jsast.Expr) bool {
	call, ok := jsast.Unparen(&expr).Data.(*jsast.ECall)
	if !ok {
		return false
	}
	return t.IsFactory(call.Target)
}
