package relex

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// derivCacheSize bounds the per-matcher derivative cache. Lexical
// patterns reach a small number of distinct derivative states, so a
// modest bound is enough to make rescans after Reset near-free.
const derivCacheSize = 512

type derivKey struct {
	re  *Regex
	sym rune
}

// Matcher drives one pattern against a symbol stream, taking one
// derivative per symbol. It has no notion of tokens or end of input;
// the Lexer layers those on top. A Matcher is single-owner state: share
// the pattern, not the Matcher.
type Matcher struct {
	pattern *Regex
	cur     *Regex
	cache   *lru.Cache[derivKey, *Regex]
}

// NewMatcher returns a matcher for pattern, positioned before any input.
func NewMatcher(pattern *Regex) *Matcher {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[derivKey, *Regex](derivCacheSize)
	return &Matcher{pattern: pattern, cur: pattern, cache: cache}
}

// Step advances the matcher by one symbol. Stepping a dead matcher is
// legal and leaves it dead.
func (m *Matcher) Step(sym rune) {
	key := derivKey{re: m.cur, sym: sym}
	if d, ok := m.cache.Get(key); ok {
		m.cur = d
		return
	}
	d := m.cur.Derive(sym)
	m.cache.Add(key, d)
	m.cur = d
}

// Accepting reports whether the symbols consumed so far form a complete
// match, i.e. the matcher could legally stop here.
func (m *Matcher) Accepting() bool {
	return m.cur.Nullable()
}

// Dead reports whether no further symbols can produce a match. Derive of
// Null is always Null, so once dead a matcher stays dead until Reset.
func (m *Matcher) Dead() bool {
	return m.cur == Null
}

// State returns the current derived pattern.
func (m *Matcher) State() *Regex {
	return m.cur
}

// Reset rewinds the matcher to its original pattern. The derivative
// cache is kept, so rescanning similar input hits it immediately.
func (m *Matcher) Reset() {
	m.cur = m.pattern
}
