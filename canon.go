package relex

import "sort"

// Canonicalizing constructors. Every combinator and every Derive result
// passes through these, so derivative chains stay bounded for realistic
// patterns: Null absorbs concatenation, Epsilon is its identity, unions
// flatten, drop Null and duplicates, and keep a deterministic branch
// order, and Star collapses its fixed points. Each rewrite preserves the
// denoted language exactly.

func mergeAlpha(a, b Alphabet) Alphabet {
	switch {
	case a == b:
		return a
	case a == AlphaNone:
		return b
	case b == AlphaNone:
		return a
	}
	return alphaMixed
}

func mkConcat(x, y *Regex) *Regex {
	if x.op == OpNull || y.op == OpNull {
		return Null
	}
	if x.op == OpEpsilon {
		return y
	}
	if y.op == OpEpsilon {
		return x
	}
	return &Regex{op: OpConcat, x: x, y: y, alpha: mergeAlpha(x.alpha, y.alpha)}
}

func mkUnion(branches []*Regex) *Regex {
	flat := make([]*Regex, 0, len(branches))
	for _, b := range branches {
		switch b.op {
		case OpNull:
			// contributes nothing
		case OpUnion:
			flat = append(flat, b.alts...)
		default:
			flat = append(flat, b)
		}
	}
	if len(flat) == 0 {
		return Null
	}
	sort.Slice(flat, func(i, j int) bool { return cmpRegex(flat[i], flat[j]) < 0 })
	alts := flat[:1]
	for _, b := range flat[1:] {
		if cmpRegex(alts[len(alts)-1], b) != 0 {
			alts = append(alts, b)
		}
	}
	if len(alts) == 1 {
		return alts[0]
	}
	alpha := AlphaNone
	for _, a := range alts {
		alpha = mergeAlpha(alpha, a.alpha)
	}
	return &Regex{op: OpUnion, alts: alts, alpha: alpha}
}

func mkStar(x *Regex) *Regex {
	switch x.op {
	case OpNull, OpEpsilon:
		return Epsilon
	case OpStar:
		return x
	}
	return &Regex{op: OpStar, x: x, alpha: x.alpha}
}

func mkRepeat(x *Regex, count int) *Regex {
	switch {
	case count <= 0:
		return Epsilon
	case count == 1:
		return x
	case x.op == OpEpsilon:
		return Epsilon
	case x.op == OpNull:
		return Null
	}
	return &Regex{op: OpRepeat, x: x, count: count, alpha: x.alpha}
}
