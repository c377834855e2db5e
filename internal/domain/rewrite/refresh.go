package rewrite

import "github.com/corey/atomtx/internal/domain/jsast"

// RegistryName is the global the cache registry is installed under.
const RegistryName = "jotaiAtomCache"

// refresh routes module-level atom construction through a process-wide
// registry keyed by file and access path:
//
//	const countAtom = globalThis.jotaiAtomCache.get("src/atoms.ts/countAtom", atom(0))
//
// The outermost factory call is wrapped and not descended into.
type refresh struct {
	wrapped bool
}

func (*refresh) name() PassName { return PassRefresh }

func (p *refresh) call(s *Session, e *jsast.Expr, c *jsast.ECall) bool {
	if !s.scope.moduleLevel() || !s.table.IsFactory(c.Target) {
		return false
	}
	p.wrap(s, e, Rewrite{Name: s.declName, Exported: s.exporting, Default: s.inDefault})
	return true
}

// exportDefault wraps the exported call in place. The access path is empty at
// the item level, so the key is the file path followed by a slash.
func (p *refresh) exportDefault(s *Session, item jsast.Stmt, def *jsast.SExportDefault) []jsast.Stmt {
	p.wrap(s, jsast.Unparen(&def.Value), Rewrite{Default: true})
	return []jsast.Stmt{item}
}

func (p *refresh) finish(s *Session, items []jsast.Stmt) []jsast.Stmt {
	if !p.wrapped {
		return items
	}
	s.report.Preamble = true
	return insertPreamble(items, Bootstrap())
}

func (p *refresh) wrap(s *Session, e *jsast.Expr, r Rewrite) {
	r.Key = s.cacheKey()
	r.Loc = e.Loc
	inner := *e
	*e = jsast.Expr{
		Data: &jsast.ECall{Target: registryGet(), Args: []jsast.Expr{jsast.Str(r.Key), inner}},
		Loc:  e.Loc,
	}
	p.wrapped = true
	s.record(r)
}

func registry() jsast.Expr {
	return jsast.Dot(jsast.Ident("globalThis"), RegistryName)
}

func registryGet() jsast.Expr {
	return jsast.Dot(registry(), "get")
}

// Bootstrap builds the statement installing the registry, unless an earlier
// module already did:
//
//	globalThis.jotaiAtomCache = globalThis.jotaiAtomCache || {
//	  cache: new Map(),
//	  get(name, inst) {
//	    if (this.cache.has(name)) {
//	      return this.cache.get(name);
//	    }
//	    this.cache.set(name, inst);
//	    return inst;
//	  }
//	};
func Bootstrap() jsast.Stmt {
	thisCache := func(method string) jsast.Expr {
		return jsast.Dot(jsast.Dot(jsast.Ident("this"), "cache"), method)
	}
	get := jsast.Fn{
		Head: "get(name, inst)",
		Body: jsast.FnBody{Stmts: []jsast.Stmt{
			{Data: &jsast.SIf{
				Test: jsast.Call(thisCache("has"), jsast.Ident("name")),
				Yes: jsast.Stmt{Data: &jsast.SBlock{Stmts: []jsast.Stmt{
					{Data: &jsast.SReturn{ValueOrNil: jsast.Call(thisCache("get"), jsast.Ident("name"))}},
				}}},
			}},
			jsast.ExprStmt(jsast.Call(thisCache("set"), jsast.Ident("name"), jsast.Ident("inst"))),
			{Data: &jsast.SReturn{ValueOrNil: jsast.Ident("inst")}},
		}},
	}
	obj := jsast.Expr{Data: &jsast.EObject{
		IsMultiLine: true,
		Properties: []jsast.Property{
			{Kind: jsast.PropertyNormal, Key: jsast.Ident("cache"), Value: jsast.Expr{Data: &jsast.ENew{Target: jsast.Ident("Map")}}},
			{Kind: jsast.PropertyMethod, Key: jsast.Ident("get"), Fn: get},
		},
	}}
	return jsast.ExprStmt(jsast.Binary("=", registry(), jsast.Binary("||", registry(), obj)))
}
