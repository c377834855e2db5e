// Package ahocorasick implements ports.Prefilter using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching,
// so a source is scanned once no matter how many atom names are configured.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/atomtx/internal/ports"
)

// Matcher finds keywords in source text. Build() compiles an automaton;
// Match() returns the matching keywords.
type Matcher struct {
	automaton aho.AhoCorasick
	keywords  []string
	built     bool
}

var _ ports.Prefilter = (*Matcher)(nil)

// NewMatcher returns a matcher built from keywords. Empty keywords are dropped.
func NewMatcher(keywords []string) *Matcher {
	m := &Matcher{}
	m.Build(keywords)
	return m
}

// Build compiles the Aho-Corasick automaton from the given keywords.
func (m *Matcher) Build(keywords []string) {
	m.keywords = make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw != "" {
			m.keywords = append(m.keywords, kw)
		}
	}
	m.built = true
	if len(m.keywords) == 0 {
		return
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	m.automaton = builder.Build(m.keywords)
}

// Match returns the distinct keywords found in content, in order of first
// occurrence. Matching is case-sensitive.
func (m *Matcher) Match(content string) []string {
	if !m.built || len(m.keywords) == 0 {
		return nil
	}
	matches := m.automaton.FindAll(content)
	if len(matches) == 0 {
		return nil
	}

	// Deduplicate by keyword
	seen := make(map[string]bool, len(matches))
	var result []string
	for i := range matches {
		kw := m.keywords[matches[i].Pattern()]
		if !seen[kw] {
			seen[kw] = true
			result = append(result, kw)
		}
	}
	return result
}

// Mentions implements ports.Prefilter.
func (m *Matcher) Mentions(content []byte) []string {
	return m.Match(string(content))
}
