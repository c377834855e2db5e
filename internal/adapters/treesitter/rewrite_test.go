//go:build !lean

package treesitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/atomtx/internal/domain/config"
	"github.com/corey/atomtx/internal/domain/printer"
	"github.com/corey/atomtx/internal/domain/rewrite"
)

// =============================================================================
// Parsed sources through both passes
// Expectation: real parser output keeps comments, type imports and wrapped
// initializers rewritable, with one key per access path.
// =============================================================================

func TestRewriteParsed(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		src      string
		keys     []string
		labels   []string
		contains []string
	}{
		{
			name: "comment in call arguments",
			path: "atoms.ts",
			src: `import { atomWithStorage } from "jotai/utils";
export const settingsAtom = atomWithStorage(
  "settings", // storage key
  {},
);
`,
			keys:   []string{"atoms.ts/settingsAtom"},
			labels: []string{"settingsAtom"},
			contains: []string{
				`globalThis.jotaiAtomCache.get("atoms.ts/settingsAtom", atomWithStorage(`,
				`"settings", // storage key`,
				`settingsAtom.debugLabel = "settingsAtom";`,
			},
		},
		{
			name: "comments in an array",
			path: "a.ts",
			src: `import { atom } from "jotai";
const arr = [
  // first
  atom(0),
  atom(1), // second
];
`,
			keys:     []string{"a.ts/arr.0", "a.ts/arr.1"},
			labels:   []string{"arr"},
			contains: []string{"// first", "// second", `arr.debugLabel = "arr";`},
		},
		{
			name: "comment between declarators",
			path: "a.ts",
			src: `import { atom } from "jotai";
const a = atom(0), // first
  b = atom(1);
`,
			keys:     []string{"a.ts/a", "a.ts/b"},
			labels:   []string{"a", "b"},
			contains: []string{"// first", `a.debugLabel = "a", b.debugLabel = "b";`},
		},
		{
			name: "inline type specifier",
			path: "a.ts",
			src: `import { atom, type PrimitiveAtom } from "jotai";
export const countAtom: PrimitiveAtom<number> = atom(0);
`,
			keys:   []string{"a.ts/countAtom"},
			labels: []string{"countAtom"},
			contains: []string{
				`import { atom, type PrimitiveAtom } from "jotai";`,
				`export const countAtom: PrimitiveAtom<number> = globalThis.jotaiAtomCache.get("a.ts/countAtom", atom(0));`,
			},
		},
		{
			name: "comment inside import braces",
			path: "a.js",
			src: `import {
  atom, // core
} from "jotai";
const a = atom(0);
`,
			keys:     []string{"a.js/a"},
			labels:   []string{"a"},
			contains: []string{"  atom, // core\n} from \"jotai\";"},
		},
		{
			name: "as and satisfies initializers",
			path: "a.ts",
			src: `import { atom } from "jotai";
export const a = atom(0) as PrimitiveAtom<number>;
export const b = atom(1) satisfies Atom<number>;
`,
			keys:     []string{"a.ts/a", "a.ts/b"},
			labels:   []string{"a", "b"},
			contains: []string{`a.debugLabel = "a";`, `b.debugLabel = "b";`},
		},
		{
			name:   "default export named after a keyword",
			path:   "src/new.ts",
			src:    "import { atom } from \"jotai\";\nexport default atom(0);\n",
			keys:   []string{"src/new.ts/"},
			labels: []string{"_new"},
			contains: []string{
				`const _new = globalThis.jotaiAtomCache.get("src/new.ts/", atom(0));`,
				"export default _new;",
			},
		},
		{
			name:   "default export named after a binding",
			path:   "atom.ts",
			src:    "import { atom } from \"jotai\";\nexport default atom(0);\n",
			keys:   []string{"atom.ts/"},
			labels: []string{"atom2"},
			contains: []string{
				`const atom2 = globalThis.jotaiAtomCache.get("atom.ts/", atom(0));`,
				"export default atom2;",
			},
		},
		{
			name: "namespace keyed by source path",
			path: "a.js",
			src: `import * as J from "jotai";
const a = jotai.atom(0);
const b = J.atom(1);
`,
			keys:     []string{"a.js/a"},
			labels:   []string{"a"},
			contains: []string{"const b = J.atom(1);"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parse(t, tt.path, tt.src)
			report, err := rewrite.Apply(prog, tt.path, config.Config{}, rewrite.AllPasses...)
			require.NoError(t, err)

			var keys, labels []string
			for _, r := range report.Rewrites {
				switch r.Pass {
				case rewrite.PassRefresh:
					keys = append(keys, r.Key)
				case rewrite.PassDebugLabel:
					labels = append(labels, r.Name)
				}
			}
			assert.Equal(t, tt.keys, keys)
			assert.Equal(t, tt.labels, labels)

			out := printer.Print(prog)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}
