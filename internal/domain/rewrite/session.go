// Package rewrite implements the two atom passes over a jsast.Program.
//
// debug-label appends `X.debugLabel = "X"` after module-level atom
// declarations. refresh wraps module-level atom construction in
// `globalThis.jotaiAtomCache.get(key, atom)` so a hot-reloaded module gets its
// previous atom instances back.
//
// Each pass runs in its own Session: the binding table, scope tracker and
// pending-statement slot live exactly as long as one pass over one file.
package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corey/atomtx/internal/domain/binding"
	"github.com/corey/atomtx/internal/domain/config"
	"github.com/corey/atomtx/internal/domain/jsast"
)

// PassName identifies a rewrite pass.
type PassName string

const (
	PassDebugLabel PassName = "debug-label"
	PassRefresh    PassName = "refresh"
)

// AllPasses lists the passes in the order they are applied by default.
var AllPasses = []PassName{PassDebugLabel, PassRefresh}

// ErrUnknownPass is returned for pass names other than AllPasses.
var ErrUnknownPass = errors.New("unknown pass")

// ParsePass validates a pass name.
func ParsePass(name string) (PassName, error) {
	for _, p := range AllPasses {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w %q (want %s or %s)", ErrUnknownPass, name, PassDebugLabel, PassRefresh)
}

// Rewrite describes one site a pass changed.
type Rewrite struct {
	Pass     PassName
	Name     string // declarator or derived name; empty inside literals without one
	Key      string // cache key, refresh only
	Exported bool   // inside a single-declarator `export const`
	Default  bool   // rewritten through the default-export rule
	Loc      jsast.Loc
}

// Report collects what the passes did to one file.
type Report struct {
	Rewrites []Rewrite
	Preamble bool // the registry bootstrap was inserted

	// declarations debug-label made for default exports; refresh keys them
	// like the export itself
	defaults map[*jsast.SLocal]bool
}

// Changed reports whether the program was modified.
func (r *Report) Changed() bool {
	return len(r.Rewrites) > 0 || r.Preamble
}

// Input is what the host hands over for one file.
type Input struct {
	FilePath  string // empty for anonymous input
	RawConfig string
}

// Run parses the configuration and applies passes to prog. A configuration
// error aborts before the program is touched.
func Run(prog *jsast.Program, in Input, passes ...PassName) (*Report, error) {
	cfg, err := config.Parse(in.RawConfig)
	if err != nil {
		return nil, err
	}
	return Apply(prog, in.FilePath, cfg, passes...)
}

// Apply runs passes over prog in order, mutating it in place.
func Apply(prog *jsast.Program, filePath string, cfg config.Config, passes ...PassName) (*Report, error) {
	report := &Report{}
	for _, name := range passes {
		var p pass
		switch name {
		case PassDebugLabel:
			p = &debugLabel{}
		case PassRefresh:
			p = &refresh{}
		default:
			return nil, fmt.Errorf("%w %q", ErrUnknownPass, name)
		}
		newSession(filePath, cfg, p, report).run(prog)
	}
	return report, nil
}

// pass is the per-pass behavior plugged into the shared traversal.
type pass interface {
	name() PassName

	// call is offered every call expression before its children are
	// visited. Returning true skips the children.
	call(s *Session, e *jsast.Expr, c *jsast.ECall) bool

	// exportDefault replaces a module-level `export default <factory call>`.
	exportDefault(s *Session, item jsast.Stmt, def *jsast.SExportDefault) []jsast.Stmt

	// finish post-processes the program's rewritten item list.
	finish(s *Session, items []jsast.Stmt) []jsast.Stmt
}

// Session is the mutable state of one pass over one file.
type Session struct {
	file   string // posix form, empty when anonymous
	table  *binding.Table
	scope  tracker
	pass   pass
	report *Report

	pending   jsast.Stmt // at most one statement to insert after the current item
	exporting bool       // current item is `export const x = <factory call>`
	declName  string     // innermost declarator being visited
	inDefault bool       // inside a declaration made for a default export
	declared  map[string]bool
}

func newSession(filePath string, cfg config.Config, p pass, report *Report) *Session {
	return &Session{
		file:   posixPath(filePath),
		table:  binding.NewTable(cfg.AtomNames),
		pass:   p,
		report: report,
	}
}

func (s *Session) run(prog *jsast.Program) {
	s.declared = jsast.DeclaredNames(prog.Items)
	prev := s.scope.enterModule()
	prog.Items = s.rewriteList(prog.Items)
	s.scope.restore(prev)
	prog.Items = s.pass.finish(s, prog.Items)
}

// setPending queues stmt for insertion after the current item. A second
// expression statement for the same item is folded into a comma sequence so
// the slot still holds a single statement.
func (s *Session) setPending(stmt jsast.Stmt) {
	if s.pending.Data == nil {
		s.pending = stmt
		return
	}
	prev, ok := s.pending.Data.(*jsast.SExpr)
	next, ok2 := stmt.Data.(*jsast.SExpr)
	if ok && ok2 {
		s.pending = jsast.ExprStmt(jsast.Binary(",", prev.Value, next.Value))
		return
	}
	s.pending = stmt
}

func (s *Session) record(r Rewrite) {
	r.Pass = s.pass.name()
	s.report.Rewrites = append(s.report.Rewrites, r)
}

// cacheKey builds the registry key for the current access path.
func (s *Session) cacheKey() string {
	p := strings.Join(s.scope.path, ".")
	if s.file == "" {
		return p
	}
	return s.file + "/" + p
}

// fallbackName names a default-exported atom when the file path is unknown.
const fallbackName = "defaultAtom"

// derivedName names a default-exported atom after its file, avoiding the
// names the module already declares.
func (s *Session) derivedName() string {
	name := fallbackName
	if s.file != "" {
		name = jsast.NameFromPath(s.file)
	}
	name = jsast.UniqueName(name, s.declared)
	s.declared[name] = true
	return name
}

var posixReplacer = strings.NewReplacer(`:\`, "/", `\`, "/")

// posixPath turns Windows separators (and the drive colon) into slashes.
func posixPath(p string) string {
	return posixReplacer.Replace(p)
}
