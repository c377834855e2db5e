// Package jsast is the syntax tree the rewrite passes operate on.
//
// Only the shapes the passes need to reason about are typed: imports, variable
// declarations, exports, calls, member accesses, literals and function bodies.
// Everything else is kept as an opaque node: the original source text with
// holes for the child expressions and statements inside it. Opaque nodes are
// still traversed, so unfamiliar syntax never hides an atom from the passes,
// and they print back byte-for-byte.
package jsast

// Loc is a byte offset into the original source. Synthesized nodes use 0.
type Loc int

// Expr is an expression node. Data is nil for an absent optional expression.
type Expr struct {
	Data E
	Loc  Loc
}

// Stmt is a statement node.
type Stmt struct {
	Data S
	Loc  Loc
}

// E encodes the expression variant. It is never called.
type E interface{ isExpr() }

func (*EIdentifier) isExpr() {}
func (*EString) isExpr()     {}
func (*ENumber) isExpr()     {}
func (*EDot) isExpr()        {}
func (*EIndex) isExpr()      {}
func (*ECall) isExpr()       {}
func (*ENew) isExpr()        {}
func (*EArray) isExpr()      {}
func (*EObject) isExpr()     {}
func (*ESpread) isExpr()     {}
func (*EArrow) isExpr()      {}
func (*EFunction) isExpr()   {}
func (*EBinary) isExpr()     {}
func (*EParen) isExpr()      {}
func (*EMissing) isExpr()    {}
func (*EComment) isExpr()    {}
func (*EOpaque) isExpr()     {}

type EIdentifier struct{ Name string }

// EString is a string literal. Raw is the literal as written, quotes included;
// it is empty for synthesized strings, which print double-quoted.
type EString struct {
	Value string
	Raw   string
}

type ENumber struct{ Raw string }

type EDot struct {
	Target   Expr
	Name     string
	Optional bool
}

type EIndex struct {
	Target   Expr
	Index    Expr
	Optional bool
}

// ECall is a call. TypeArgs holds TypeScript type arguments as written
// (`atom<number>(0)` has TypeArgs "<number>").
type ECall struct {
	Target   Expr
	TypeArgs string
	Args     []Expr
	Optional bool
}

type ENew struct {
	Target Expr
	Args   []Expr
}

// EArray holds its elements in order; holes are EMissing.
type EArray struct {
	Items       []Expr
	IsMultiLine bool
}

type EObject struct {
	Properties  []Property
	IsMultiLine bool
}

type ESpread struct{ Value Expr }

// EArrow keeps everything before the body (async, parameters, type
// annotations, the arrow) as written in Head. An expression body is stored as
// a single return statement with PreferExpr set.
type EArrow struct {
	Head       string
	Body       FnBody
	PreferExpr bool
}

type EFunction struct{ Fn Fn }

// EBinary covers binary operators, assignments and the comma operator.
type EBinary struct {
	Op    string
	Left  Expr
	Right Expr
}

type EParen struct{ Value Expr }

type EMissing struct{}

// EComment is a comment between the elements of an array or argument list,
// or between declarators. Trailing marks a comment that started on the line
// of the element before it.
type EComment struct {
	Text     string
	Trailing bool
}

// EOpaque is an expression the tree does not model. Deferred marks syntax
// whose children run later than the surrounding code (class bodies, functions
// the converter could not type).
type EOpaque struct {
	Kind     string
	Parts    []Part
	Deferred bool
}

// Fn is a function or method. Head is the source text up to the body:
// keywords, name, parameters and any return type.
type Fn struct {
	Head string
	Body FnBody
}

type FnBody struct {
	Stmts []Stmt
}

type PropertyKind uint8

const (
	PropertyNormal PropertyKind = iota
	PropertyShorthand
	PropertySpread
	PropertyMethod
	PropertyComment
	PropertyVerbatim
)

// Property is an object literal member. Key is EIdentifier, EString or ENumber
// unless Computed is set; Spread properties only use Value; methods use Fn;
// comments between members only use Text. A verbatim member is printed from
// Value, an opaque node holding the whole member; its Key is set when it
// could be read.
type Property struct {
	Kind     PropertyKind
	Key      Expr
	Computed bool
	Value    Expr
	Fn       Fn
	Text     string
}

// Part is one piece of an opaque node: exactly one of Text, Expr or Stmt is set.
type Part struct {
	Text string
	Expr Expr
	Stmt Stmt
}

// S encodes the statement variant. It is never called.
type S interface{ isStmt() }

func (*SImport) isStmt()        {}
func (*SLocal) isStmt()         {}
func (*SExpr) isStmt()          {}
func (*SExportDefault) isStmt() {}
func (*SFunction) isStmt()      {}
func (*SBlock) isStmt()         {}
func (*SReturn) isStmt()        {}
func (*SIf) isStmt()            {}
func (*SEmpty) isStmt()         {}
func (*SComment) isStmt()       {}
func (*SOpaque) isStmt()        {}

// ImportItem is one named specifier: `import { Imported as Local }`.
// TypeOnly marks `import { type T }`, which binds nothing at runtime.
type ImportItem struct {
	Imported string
	Local    string
	TypeOnly bool
}

// SImport represents these forms:
//
//	import "src"
//	import Default from "src"
//	import * as NS from "src"
//	import { a, b as c } from "src"
//	import Default, { a } from "src"
//	import Default, * as NS from "src"
//
// Raw is the declaration as written; parsed imports print it verbatim, so
// comments, `import type` and attributes survive. TypeOnly marks
// `import type { ... }`.
type SImport struct {
	DefaultName   string
	NamespaceName string
	Items         []ImportItem
	HasClause     bool
	TypeOnly      bool
	Source        EString
	Raw           string
}

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

func (k LocalKind) String() string {
	switch k {
	case LocalLet:
		return "let"
	case LocalConst:
		return "const"
	default:
		return "var"
	}
}

// Binding is a declarator target. Name is set for plain identifiers; Pattern
// holds destructuring patterns as written.
type Binding struct {
	Name    string
	Pattern string
}

// Decl is one declarator. TypeRaw holds a TypeScript annotation including the
// colon. ValueOrNil has nil Data when there is no initializer. A comment
// between declarators is an entry with only Comment set.
//
// A Verbatim declarator is printed from ValueOrNil, an opaque node holding the
// whole declarator; Binding is still set.
type Decl struct {
	Binding    Binding
	TypeRaw    string
	ValueOrNil Expr
	Comment    *EComment
	Verbatim   bool
}

type SLocal struct {
	Kind     LocalKind
	Decls    []Decl
	IsExport bool
}

// Declarators returns the entries of Decls that are not comments.
func (s *SLocal) Declarators() []*Decl {
	out := make([]*Decl, 0, len(s.Decls))
	for i := range s.Decls {
		if s.Decls[i].Comment == nil {
			out = append(out, &s.Decls[i])
		}
	}
	return out
}

type SExpr struct{ Value Expr }

// SExportDefault is `export default <value>`. IsDeclaration marks function and
// class declarations, which print without a trailing semicolon.
type SExportDefault struct {
	Value         Expr
	IsDeclaration bool
}

type SFunction struct {
	Fn       Fn
	IsExport bool
}

type SBlock struct{ Stmts []Stmt }

type SReturn struct{ ValueOrNil Expr }

type SIf struct {
	Test    Expr
	Yes     Stmt
	NoOrNil Stmt
}

type SEmpty struct{}

type SComment struct{ Text string }

// SOpaque is a statement the tree does not model.
type SOpaque struct {
	Kind     string
	Parts    []Part
	Deferred bool
}

// Program is one parsed file.
type Program struct {
	Items []Stmt
}
