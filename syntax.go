package relex

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Textual pattern notation over the text alphabet: literal characters,
// backslash escapes, ".", "|", grouping with parentheses, and the "*",
// "+" and "?" postfix operators. Counted repetition and byte patterns
// are API-level combinators (Repeat, LitBytes) with no notation.

var patternLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Escaped", Pattern: `\\.`},
	{Name: "Meta", Pattern: `[()|*+?.]`},
	{Name: "Char", Pattern: `[^()|*+?.\\]`},
})

type patternGrammar struct {
	Alt *altExpr `parser:"@@?"`
}

type altExpr struct {
	Seqs []*seqExpr `parser:"@@ ( '|' @@ )*"`
}

type seqExpr struct {
	Factors []*factorExpr `parser:"@@*"`
}

type factorExpr struct {
	Atom *atomExpr `parser:"@@"`
	Ops  []string  `parser:"@( '*' | '+' | '?' )*"`
}

type atomExpr struct {
	Group   *altExpr `parser:"'(' @@ ')'"`
	Any     bool     `parser:"| @'.'"`
	Escaped *string  `parser:"| @Escaped"`
	Char    *string  `parser:"| @Char"`
}

var patternParser = participle.MustBuild[patternGrammar](
	participle.Lexer(patternLexer),
)

// Parse compiles the textual notation into a pattern value. The result
// is a plain canonical Regex, indistinguishable from one assembled with
// the combinators.
func Parse(pattern string) (*Regex, error) {
	ast, err := patternParser.ParseString("", pattern)
	if err != nil {
		return nil, err
	}
	if ast.Alt == nil {
		return Epsilon, nil
	}
	return ast.Alt.regex(), nil
}

// MustParse is Parse that panics on a malformed pattern, for patterns
// known good at compile time.
func MustParse(pattern string) *Regex {
	re, err := Parse(pattern)
	if err != nil {
		panic(fmt.Sprintf("relex: Parse(%q): %v", pattern, err))
	}
	return re
}

func (a *altExpr) regex() *Regex {
	branches := make([]*Regex, len(a.Seqs))
	for i, s := range a.Seqs {
		branches[i] = s.regex()
	}
	return mkUnion(branches)
}

func (s *seqExpr) regex() *Regex {
	factors := make([]*Regex, len(s.Factors))
	for i, f := range s.Factors {
		factors[i] = f.regex()
	}
	return Join(factors...)
}

func (f *factorExpr) regex() *Regex {
	re := f.Atom.regex()
	for _, op := range f.Ops {
		switch op {
		case "*":
			re = Star(re)
		case "+":
			re = Plus(re)
		case "?":
			re = Maybe(re)
		}
	}
	return re
}

func (a *atomExpr) regex() *Regex {
	switch {
	case a.Group != nil:
		return a.Group.regex()
	case a.Any:
		return Any
	case a.Escaped != nil:
		return Sym(unescape(*a.Escaped))
	case a.Char != nil:
		return Sym([]rune(*a.Char)[0])
	}
	return Epsilon
}

// unescape maps a two-character escape token to the symbol it denotes.
func unescape(tok string) rune {
	r := []rune(tok)[1]
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return r
}
