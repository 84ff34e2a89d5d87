package relex

// Sym returns a pattern matching exactly the code point r.
func Sym(r rune) *Regex {
	return &Regex{op: OpSym, sym: r, alpha: Text}
}

// ByteSym returns a pattern matching exactly the byte b.
func ByteSym(b byte) *Regex {
	return &Regex{op: OpSym, sym: rune(b), alpha: Bytes}
}

// Lit returns a pattern matching exactly the string s, symbol by symbol
// over the text alphabet. Lit("") is Epsilon.
func Lit(s string) *Regex {
	syms := make([]*Regex, 0, len(s))
	for _, r := range s {
		syms = append(syms, Sym(r))
	}
	return Join(syms...)
}

// LitBytes returns a pattern matching exactly the bytes b over the byte
// alphabet.
func LitBytes(b []byte) *Regex {
	syms := make([]*Regex, len(b))
	for i, c := range b {
		syms[i] = ByteSym(c)
	}
	return Join(syms...)
}

// Concat returns a pattern matching x followed by y.
func Concat(x, y *Regex) *Regex {
	return mkConcat(x, y)
}

// Union returns a pattern matching either x or y.
func Union(x, y *Regex) *Regex {
	return mkUnion([]*Regex{x, y})
}

// Join concatenates any number of patterns in order. Join() is Epsilon.
func Join(rs ...*Regex) *Regex {
	if len(rs) == 0 {
		return Epsilon
	}
	// Right fold, so derivative rewriting peels symbols off the front.
	out := rs[len(rs)-1]
	for i := len(rs) - 2; i >= 0; i-- {
		out = mkConcat(rs[i], out)
		if out == Null {
			return Null
		}
	}
	return out
}

// Alt returns a pattern matching any of the given patterns. Alt() is Null.
func Alt(rs ...*Regex) *Regex {
	return mkUnion(rs)
}

// Star returns a pattern matching x repeated zero or more times.
func Star(x *Regex) *Regex {
	return mkStar(x)
}

// Plus returns a pattern matching x repeated one or more times.
func Plus(x *Regex) *Regex {
	return mkConcat(x, mkStar(x))
}

// Maybe returns a pattern matching x or the empty string.
func Maybe(x *Regex) *Regex {
	return mkUnion([]*Regex{x, Epsilon})
}

// Repeat returns a pattern matching x exactly count times. Repeat(x, 0)
// is Epsilon and Repeat(x, 1) is x.
func Repeat(x *Regex, count int) *Regex {
	return mkRepeat(x, count)
}
