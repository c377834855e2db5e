package rewrite

import "github.com/corey/atomtx/internal/domain/jsast"

// rewriteList visits a statement list and returns its replacement. Items the
// pass queues through setPending land right after the item that produced
// them.
func (s *Session) rewriteList(items []jsast.Stmt) []jsast.Stmt {
	out := make([]jsast.Stmt, 0, len(items))
	for _, item := range items {
		if def, ok := item.Data.(*jsast.SExportDefault); ok && s.isDefaultAtomExport(def) {
			out = append(out, s.pass.exportDefault(s, item, def)...)
		} else {
			prev := s.exporting
			s.exporting = s.isSingleAtomExport(item)
			s.visitStmt(&item)
			s.exporting = prev
			out = append(out, item)
		}
		if s.pending.Data != nil {
			out = append(out, s.pending)
			s.pending = jsast.Stmt{}
		}
	}
	return out
}

// visitNested rewrites a statement list below the program. Nested lists are
// never module level, and whatever the enclosing item queued stays queued for
// the enclosing list.
func (s *Session) visitNested(items []jsast.Stmt) []jsast.Stmt {
	saved := s.pending
	s.pending = jsast.Stmt{}
	prev := s.scope.enterFunction()
	items = s.rewriteList(items)
	s.scope.restore(prev)
	s.pending = saved
	return items
}

func (s *Session) isDefaultAtomExport(def *jsast.SExportDefault) bool {
	return !def.IsDeclaration && s.scope.moduleLevel() && s.table.IsFactoryCall(def.Value)
}

func (s *Session) isSingleAtomExport(item jsast.Stmt) bool {
	local, ok := item.Data.(*jsast.SLocal)
	if !ok || !local.IsExport {
		return false
	}
	decls := local.Declarators()
	return len(decls) == 1 && s.table.IsFactoryCall(decls[0].ValueOrNil)
}

// directives that must stay first in the file.
var directives = map[string]bool{
	"use client": true,
	"use strict": true,
}

// insertPreamble inserts stmt after the leading directive prologue. Comments
// between directives are skipped over.
func insertPreamble(items []jsast.Stmt, stmt jsast.Stmt) []jsast.Stmt {
	at := 0
	for i, item := range items {
		if _, ok := item.Data.(*jsast.SComment); ok {
			continue
		}
		v, ok := jsast.StringStmt(item)
		if !ok || !directives[v] {
			break
		}
		at = i + 1
	}
	out := make([]jsast.Stmt, 0, len(items)+1)
	out = append(out, items[:at]...)
	out = append(out, stmt)
	return append(out, items[at:]...)
}
