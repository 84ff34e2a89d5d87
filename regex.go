// Package relex is an incremental pattern-matching and tokenization
// toolkit built on regular-expression derivatives. Patterns are immutable
// values composed with ordinary functions, matched one symbol at a time by
// symbolic rewriting rather than automaton compilation, which makes them
// safe to share and cheap to restart mid-stream.
package relex

import (
	"fmt"
	"strings"
)

// Op identifies the variant of a regex node.
type Op int

const (
	OpNull Op = iota // matches no string
	OpEpsilon        // matches only the empty string
	OpSym            // matches exactly one symbol
	OpAny            // matches any single symbol
	OpConcat         // x then y
	OpUnion          // any branch in alts
	OpStar           // x repeated zero or more times
	OpRepeat         // x repeated exactly count times (count >= 2)
)

// Alphabet identifies the symbol unit a regex value is defined over.
// Null, Epsilon and Any are alphabet-independent (AlphaNone) and combine
// freely with either unit.
type Alphabet int

const (
	AlphaNone Alphabet = iota
	Text               // symbols are Unicode code points
	Bytes              // symbols are raw bytes
	alphaMixed
)

func (a Alphabet) String() string {
	switch a {
	case AlphaNone:
		return "none"
	case Text:
		return "text"
	case Bytes:
		return "bytes"
	}
	return "mixed"
}

// Regex is an immutable regular expression value. Values are built with
// the package combinators (Lit, Sym, Concat, Union, Star, ...) or with
// Parse, never mutated, and may be shared freely between goroutines and
// reused across any number of matches.
type Regex struct {
	op    Op
	sym   rune     // OpSym
	x, y  *Regex   // OpConcat: prefix, suffix; OpStar, OpRepeat: x only
	alts  []*Regex // OpUnion branches, canonically ordered, len >= 2
	count int      // OpRepeat, >= 2
	alpha Alphabet
}

// Singleton primitives. The canonicalizer always returns these exact
// values for null-, epsilon- and any-equivalent results, so comparing
// pointers against them is an exact language test.
var (
	Null    = &Regex{op: OpNull}
	Epsilon = &Regex{op: OpEpsilon}
	Any     = &Regex{op: OpAny}
)

// Nullable reports whether the language of r contains the empty string.
func (r *Regex) Nullable() bool {
	switch r.op {
	case OpEpsilon, OpStar:
		return true
	case OpConcat:
		return r.x.Nullable() && r.y.Nullable()
	case OpUnion:
		for _, a := range r.alts {
			if a.Nullable() {
				return true
			}
		}
	}
	return false
}

// Derive returns the Brzozowski derivative of r with respect to sym: the
// pattern matching every string w such that r matches sym followed by w.
// The result is canonical and r is not modified.
func (r *Regex) Derive(sym rune) *Regex {
	switch r.op {
	case OpSym:
		if r.sym == sym {
			return Epsilon
		}
		return Null
	case OpAny:
		return Epsilon
	case OpConcat:
		if r.x.Nullable() {
			return mkUnion([]*Regex{mkConcat(r.x.Derive(sym), r.y), r.y.Derive(sym)})
		}
		return mkConcat(r.x.Derive(sym), r.y)
	case OpUnion:
		ds := make([]*Regex, 0, len(r.alts))
		for _, a := range r.alts {
			ds = append(ds, a.Derive(sym))
		}
		return mkUnion(ds)
	case OpStar:
		return mkConcat(r.x.Derive(sym), r)
	case OpRepeat:
		return mkConcat(r.x.Derive(sym), mkRepeat(r.x, r.count-1))
	}
	// OpNull, OpEpsilon
	return Null
}

// Equal reports whether r and o are structurally identical in canonical
// form, which for combinator-built values means they denote the same tree.
func (r *Regex) Equal(o *Regex) bool {
	return cmpRegex(r, o) == 0
}

// cmpRegex is a total order on canonical trees. Union branches are kept
// sorted by it, which makes union equality order-insensitive and
// deduplication a linear scan.
func cmpRegex(a, b *Regex) int {
	if a == b {
		return 0
	}
	if a.op != b.op {
		return int(a.op) - int(b.op)
	}
	switch a.op {
	case OpSym:
		return int(a.sym) - int(b.sym)
	case OpConcat:
		if c := cmpRegex(a.x, b.x); c != 0 {
			return c
		}
		return cmpRegex(a.y, b.y)
	case OpUnion:
		if d := len(a.alts) - len(b.alts); d != 0 {
			return d
		}
		for i := range a.alts {
			if c := cmpRegex(a.alts[i], b.alts[i]); c != 0 {
				return c
			}
		}
		return 0
	case OpStar:
		return cmpRegex(a.x, b.x)
	case OpRepeat:
		if d := a.count - b.count; d != 0 {
			return d
		}
		return cmpRegex(a.x, b.x)
	}
	return 0
}

// Alphabet returns the symbol unit r is defined over. AlphaNone means r
// is alphabet-independent. A value built from conflicting units reports
// neither Text nor Bytes and is rejected by Validate and NewLexer.
func (r *Regex) Alphabet() Alphabet {
	return r.alpha
}

// Literal returns the exact string r matches if r is a pure literal
// (a symbol, Epsilon, or a concatenation of literals), and ok=false
// otherwise.
func (r *Regex) Literal() (lit string, ok bool) {
	switch r.op {
	case OpEpsilon:
		return "", true
	case OpSym:
		if r.alpha == Bytes {
			return string([]byte{byte(r.sym)}), true
		}
		return string(r.sym), true
	case OpConcat:
		pre, ok := r.x.Literal()
		if !ok {
			return "", false
		}
		suf, ok := r.y.Literal()
		if !ok {
			return "", false
		}
		return pre + suf, true
	}
	return "", false
}

// Match reports whether r matches all of s. This is a whole-string match;
// use MatchPrefix for prefix semantics or a Lexer for tokenization.
func (r *Regex) Match(s string) bool {
	cur := r
	for _, sym := range decodeString(r.alpha, s) {
		cur = cur.Derive(sym)
		if cur == Null {
			return false
		}
	}
	return cur.Nullable()
}

// MatchPrefix returns the length in symbols of the longest prefix of s
// matched by r, or -1 if no prefix (including the empty one) matches.
func (r *Regex) MatchPrefix(s string) int {
	best := -1
	cur := r
	if cur.Nullable() {
		best = 0
	}
	for i, sym := range decodeString(r.alpha, s) {
		cur = cur.Derive(sym)
		if cur == Null {
			break
		}
		if cur.Nullable() {
			best = i + 1
		}
	}
	return best
}

// Validate checks the internal structure of r. Values produced by the
// package combinators are always valid; Validate exists for trees
// assembled some other way and for surfacing alphabet conflicts early.
func (r *Regex) Validate() error {
	if r == nil {
		return &ConstructionError{Reason: "nil regex"}
	}
	if r.alpha == alphaMixed {
		return &ConstructionError{Reason: "mixed text and byte alphabets"}
	}
	switch r.op {
	case OpNull, OpEpsilon, OpSym, OpAny:
		return nil
	case OpConcat:
		if err := r.x.Validate(); err != nil {
			return err
		}
		return r.y.Validate()
	case OpUnion:
		if len(r.alts) < 2 {
			return &ConstructionError{Reason: "union with fewer than two branches"}
		}
		for i, a := range r.alts {
			if err := a.Validate(); err != nil {
				return err
			}
			if a.op == OpNull {
				return &ConstructionError{Reason: "union containing Null branch"}
			}
			if i > 0 && cmpRegex(r.alts[i-1], a) >= 0 {
				return &ConstructionError{Reason: "union branches not canonically ordered"}
			}
		}
		return nil
	case OpStar:
		return r.x.Validate()
	case OpRepeat:
		if r.count < 2 {
			return &ConstructionError{Reason: fmt.Sprintf("repeat count %d out of range", r.count)}
		}
		return r.x.Validate()
	}
	return &ConstructionError{Reason: fmt.Sprintf("unknown op %d", r.op)}
}

// String renders r for debugging. Literal runs collapse into a quoted
// string; everything else mirrors the combinator that built it.
func (r *Regex) String() string {
	if lit, ok := r.Literal(); ok && r.op != OpEpsilon {
		return fmt.Sprintf("Lit(%q)", lit)
	}
	switch r.op {
	case OpNull:
		return "Null"
	case OpEpsilon:
		return "Epsilon"
	case OpAny:
		return "Any"
	case OpConcat:
		return r.x.String() + " + " + r.y.String()
	case OpUnion:
		parts := make([]string, len(r.alts))
		for i, a := range r.alts {
			parts[i] = a.String()
		}
		return "(" + strings.Join(parts, " | ") + ")"
	case OpStar:
		return "Star(" + r.x.String() + ")"
	case OpRepeat:
		return fmt.Sprintf("Repeat(%s, %d)", r.x.String(), r.count)
	}
	return fmt.Sprintf("<invalid op %d>", r.op)
}
