package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/atomtx/internal/domain/config"
	"github.com/corey/atomtx/internal/domain/jsast"
	"github.com/corey/atomtx/internal/domain/printer"
)

// =============================================================================
// Pass sessions
// Expectation: Passes run in order over one program and share a report.
// =============================================================================

func TestRun_BothPasses(t *testing.T) {
	prog := program(
		directive("use client"),
		importFrom("jotai", "atom"),
		exportConst(decl("countAtom", call("atom", num("0")))),
	)
	report, err := Run(prog, Input{FilePath: "src/atoms.ts", RawConfig: `{"atomNames":[]}`}, AllPasses...)
	require.NoError(t, err)

	assert.Equal(t, lines(
		`"use client";`,
		bootstrapText,
		`import { atom } from "jotai";`,
		`export const countAtom = globalThis.jotaiAtomCache.get("src/atoms.ts/countAtom", atom(0));`,
		`countAtom.debugLabel = "countAtom";`,
	), printer.Print(prog))

	require.Len(t, report.Rewrites, 2)
	assert.Equal(t, PassDebugLabel, report.Rewrites[0].Pass)
	assert.Equal(t, PassRefresh, report.Rewrites[1].Pass)
	assert.True(t, report.Rewrites[1].Exported)
	assert.True(t, report.Preamble)
}

func TestRun_BothPasses_DefaultExport(t *testing.T) {
	tests := []struct {
		file string
		name string
		key  string
	}{
		{"src/counter.ts", "counter", "src/counter.ts/"},
		{"", "defaultAtom", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := program(importFrom("jotai", "atom"), exportDefault(call("atom", num("0"))))
			report, err := Run(prog, Input{FilePath: tt.file, RawConfig: `{}`}, AllPasses...)
			require.NoError(t, err)

			assert.Equal(t, lines(
				bootstrapText,
				`import { atom } from "jotai";`,
				`const `+tt.name+` = globalThis.jotaiAtomCache.get("`+tt.key+`", atom(0));`,
				tt.name+`.debugLabel = "`+tt.name+`";`,
				`export default `+tt.name+`;`,
			), printer.Print(prog))

			require.Len(t, report.Rewrites, 2)
			assert.Equal(t, tt.key, report.Rewrites[1].Key, "same key as with refresh alone")
			assert.True(t, report.Rewrites[1].Default)
		})
	}
}

func TestRun_EmptyConfig(t *testing.T) {
	prog := program(importFrom("jotai", "atom"), jsast.Const("a", call("atom", num("0"))))
	report, err := Run(prog, Input{RawConfig: `{}`}, PassRefresh)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys(report))
}

func TestRun_InvalidConfigAbortsBeforeMutation(t *testing.T) {
	for _, raw := range []string{`{"atomNames":["x"],"extra":1}`, `not json`, ``} {
		prog := program(importFrom("jotai", "atom"), jsast.Const("a", call("atom", num("0"))))
		before := printer.Print(prog)

		report, err := Run(prog, Input{FilePath: "a.ts", RawConfig: raw}, AllPasses...)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, config.ErrInvalid)
		assert.Nil(t, report)
		assert.Equal(t, before, printer.Print(prog))
	}
}

func TestApply_UnknownPass(t *testing.T) {
	_, err := Apply(program(), "a.ts", config.Config{}, "minify")
	assert.ErrorIs(t, err, ErrUnknownPass)
}

func TestApply_NoStateAcrossFiles(t *testing.T) {
	first := program(importFrom("jotai", "atom"), jsast.Const("a", call("atom", num("0"))))
	_, err := Apply(first, "a.ts", config.Config{}, PassRefresh)
	require.NoError(t, err)

	second := program(jsast.Const("b", call("atom", num("0"))))
	report, err := Apply(second, "b.ts", config.Config{}, PassRefresh)
	require.NoError(t, err)
	assert.False(t, report.Changed(), "bindings from a.ts must not apply to b.ts")
}

func TestParsePass(t *testing.T) {
	p, err := ParsePass("refresh")
	require.NoError(t, err)
	assert.Equal(t, PassRefresh, p)

	p, err = ParsePass("debug-label")
	require.NoError(t, err)
	assert.Equal(t, PassDebugLabel, p)

	_, err = ParsePass("Refresh")
	assert.ErrorIs(t, err, ErrUnknownPass)
}

func TestPosixPath(t *testing.T) {
	assert.Equal(t, "C/Users/me/atoms.ts", posixPath(`C:\Users\me\atoms.ts`))
	assert.Equal(t, "src/atoms.ts", posixPath("src/atoms.ts"))
	assert.Equal(t, "", posixPath(""))
}

func TestTracker(t *testing.T) {
	var tr tracker
	assert.True(t, tr.moduleLevel())

	tr.push("obj")
	f := tr.enterFunction()
	assert.False(t, tr.moduleLevel())

	inner := tr.enterFunction()
	tr.restore(inner)
	assert.False(t, tr.moduleLevel(), "nested functions stay excluded")

	m := tr.enterModule()
	assert.True(t, tr.moduleLevel())
	tr.restore(m)
	assert.False(t, tr.moduleLevel())

	tr.restore(f)
	assert.True(t, tr.moduleLevel())
	tr.pop()
	assert.Empty(t, tr.path)
}

func TestInsertPreamble(t *testing.T) {
	marker := jsast.ExprStmt(jsast.Ident("marker"))
	tests := []struct {
		name  string
		items []jsast.Stmt
		want  int
	}{
		{"empty", nil, 0},
		{"no directives", []jsast.Stmt{jsast.ExprStmt(jsast.Ident("x"))}, 0},
		{"one directive", []jsast.Stmt{directive("use strict"), jsast.ExprStmt(jsast.Ident("x"))}, 1},
		{"both directives", []jsast.Stmt{directive("use client"), directive("use strict")}, 2},
		{"stops at first non-directive", []jsast.Stmt{directive("use client"), jsast.ExprStmt(jsast.Ident("x")), directive("use strict")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := insertPreamble(tt.items, marker)
			require.Len(t, out, len(tt.items)+1)
			assert.Equal(t, marker, out[tt.want])
		})
	}
}
