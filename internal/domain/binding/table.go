// Package binding decides whether an expression names a Jotai atom factory.
//
// A Table is filled from import declarations in document order (Register)
// and then queried (IsFactory). Queries never modify the table.
package binding

import (
	"strings"

	"github.com/corey/atomtx/internal/domain/jsast"
)

// PackagePrefix is the module source prefix whose imports are trusted.
// It covers "jotai" as well as "jotai/utils", "jotai-immer" and friends.
const PackagePrefix = "jotai"

// BuiltinFactories are the factory names recognized without configuration.
var BuiltinFactories = []string{
	"atom",
	"atomFamily",
	"atomWithDefault",
	"atomWithObservable",
	"atomWithReducer",
	"atomWithReset",
	"atomWithStorage",
	"freezeAtom",
	"loadable",
	"selectAtom",
	"splitAtom",
}

// Table holds the factory names and the bindings collected for one file.
type Table struct {
	factories  map[string]bool // built-in ∪ configured
	custom     map[string]bool // configured only
	locals     map[string]bool // local name -> imported factory
	namespaces map[string]bool // sources imported with `import * as X`
}

// NewTable creates an empty table honoring the built-in factories plus
// customNames.
func NewTable(customNames []string) *Table {
	t := &Table{
		factories:  make(map[string]bool, len(BuiltinFactories)+len(customNames)),
		custom:     make(map[string]bool, len(customNames)),
		locals:     make(map[string]bool),
		namespaces: make(map[string]bool),
	}
	for _, name := range BuiltinFactories {
		t.factories[name] = true
	}
	for _, name := range customNames {
		t.factories[name] = true
		t.custom[name] = true
	}
	return t
}

// Register records the factory bindings introduced by an import declaration.
// Imports from sources outside PackagePrefix are ignored entirely, so a
// same-named import from an unrelated package never counts. Type-only
// imports bind nothing.
//
// A namespace import records its source path, not its alias:
// `import * as J from "jotai"` makes `jotai.atom` a factory, not `J.atom`.
func (t *Table) Register(imp *jsast.SImport) {
	if imp.TypeOnly || !strings.HasPrefix(imp.Source.Value, PackagePrefix) {
		return
	}
	if imp.NamespaceName != "" {
		t.namespaces[imp.Source.Value] = true
	}
	for _, item := range imp.Items {
		if !item.TypeOnly && t.factories[item.Imported] {
			t.locals[item.Local] = true
		}
	}
}
